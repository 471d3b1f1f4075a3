package match

import "strings"

type Type string

const (
	TypeFriendly   Type = "friendly"
	TypeTournament Type = "tournament"
	TypeLeague     Type = "league"
)

func (t Type) Valid() bool {
	switch t {
	case TypeFriendly, TypeTournament, TypeLeague:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusLive      Status = "live"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusUpcoming, StatusLive, StatusCompleted:
		return true
	default:
		return false
	}
}

// Match is the last snapshot of a match as reported by the community API.
// CanJoin and IsParticipant are derived server-side for the caller.
type Match struct {
	ID               string
	Title            string
	Type             Type
	Description      string
	Date             string
	Time             string
	Location         string
	Status           Status
	PlayersNeeded    int
	EntryFee         float64
	CreatorID        string
	CreatorName      string
	CanJoin          bool
	IsParticipant    bool
	ParticipantCount int
	Teams            []Team
	Umpires          []Umpire
}

type Team struct {
	ID                 string
	Name               string
	CurrentPlayers     int
	MaxPlayers         int
	AvailablePositions []int
	Participants       []Participant
}

type Participant struct {
	UserID   string
	Position int
	Role     string
	Username string
}

type Umpire struct {
	UserID string
	Name   string
	Role   string
}

// JoinTeamRequest claims one position on a team.
type JoinTeamRequest struct {
	TeamID   string
	Position int
	Role     string
}

// Payload is the full body sent when creating or updating a match.
type Payload struct {
	Title           string
	Type            Type
	Description     string
	Location        string
	Date            string
	Time            string
	PlayersNeeded   int
	EntryFee        float64
	Team1Name       string
	Team2Name       string
	TournamentTeams []string
	Umpires         []Umpire
}

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

type Filter struct {
	Status  Status
	Type    Type
	Page    int
	PerPage int
}

// Normalize clamps paging and drops unknown status/type values.
func (f Filter) Normalize() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = DefaultPerPage
	}
	if f.PerPage > MaxPerPage {
		f.PerPage = MaxPerPage
	}
	f.Status = Status(strings.ToLower(strings.TrimSpace(string(f.Status))))
	if !f.Status.Valid() {
		f.Status = ""
	}
	f.Type = Type(strings.ToLower(strings.TrimSpace(string(f.Type))))
	if !f.Type.Valid() {
		f.Type = ""
	}
	return f
}
