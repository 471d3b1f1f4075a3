package cricketapi

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/cricket-hub/internal/domain/match"
	"github.com/riskibarqy/cricket-hub/internal/domain/profile"
)

// looseString accepts a JSON string or number. The community API is not
// consistent about id types.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := sonic.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = looseString(strings.TrimSpace(v))
		return nil
	}
	*s = looseString(b)
	return nil
}

// looseFloat accepts a JSON number or a numeric string such as "10.00".
type looseFloat float64

func (f *looseFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	raw := string(bytes.Trim(b, `"`))
	if strings.TrimSpace(raw) == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return err
	}
	*f = looseFloat(v)
	return nil
}

type participantDTO struct {
	UserID   looseString `json:"user_id"`
	Position int         `json:"player_position"`
	Role     string      `json:"player_role"`
	Username string      `json:"username"`
}

type teamDTO struct {
	ID                 looseString      `json:"id"`
	Name               string           `json:"name"`
	TeamName           string           `json:"team_name"`
	CurrentPlayers     int              `json:"current_players"`
	MaxPlayers         int              `json:"max_players"`
	AvailablePositions []int            `json:"available_positions"`
	Participants       []participantDTO `json:"participants"`
}

type umpireDTO struct {
	UserID looseString `json:"user_id"`
	Name   string      `json:"name"`
	Role   string      `json:"role"`
}

type matchDTO struct {
	ID               looseString `json:"id"`
	Title            string      `json:"title"`
	MatchType        string      `json:"match_type"`
	Description      string      `json:"description"`
	Date             string      `json:"date"`
	Time             string      `json:"time"`
	Location         string      `json:"location"`
	Status           string      `json:"status"`
	PlayersNeeded    int         `json:"players_needed"`
	EntryFee         looseFloat  `json:"entry_fee"`
	CreatorID        looseString `json:"creator_id"`
	CreatorName      string      `json:"creator_name"`
	CanJoin          bool        `json:"can_join"`
	IsParticipant    bool        `json:"is_participant"`
	ParticipantCount int         `json:"participant_count"`
	Teams            []teamDTO   `json:"teams"`
	Umpires          []umpireDTO `json:"umpires"`
}

type matchListEnvelope struct {
	Matches []matchDTO `json:"matches"`
}

type matchEnvelope struct {
	Match *matchDTO   `json:"match"`
	ID    looseString `json:"id"`
}

type teamsEnvelope struct {
	Teams []teamDTO `json:"teams"`
}

type profileDTO struct {
	ID          looseString `json:"id"`
	UserID      looseString `json:"user_id"`
	Username    string      `json:"username"`
	DisplayName string      `json:"display_name"`
	FullName    string      `json:"full_name"`
	Email       string      `json:"email"`
	AvatarURL   string      `json:"avatar_url"`
}

type profileEnvelope struct {
	Profile *profileDTO `json:"profile"`
	User    *profileDTO `json:"user"`
}

type joinTeamBody struct {
	TeamID   any    `json:"team_id"`
	Position int    `json:"position"`
	Role     string `json:"role"`
}

type payloadBody struct {
	Title           string      `json:"title"`
	MatchType       string      `json:"match_type"`
	Description     string      `json:"description,omitempty"`
	Location        string      `json:"location"`
	Date            string      `json:"date"`
	Time            string      `json:"time"`
	PlayersNeeded   int         `json:"players_needed"`
	EntryFee        float64     `json:"entry_fee"`
	Team1Name       string      `json:"team1_name,omitempty"`
	Team2Name       string      `json:"team2_name,omitempty"`
	TournamentTeams []string    `json:"tournament_teams,omitempty"`
	Umpires         []umpireOut `json:"umpires,omitempty"`
}

type umpireOut struct {
	UserID string `json:"user_id,omitempty"`
	Name   string `json:"name"`
	Role   string `json:"role,omitempty"`
}

func (d matchDTO) toDomain() match.Match {
	out := match.Match{
		ID:               string(d.ID),
		Title:            strings.TrimSpace(d.Title),
		Type:             match.Type(strings.ToLower(strings.TrimSpace(d.MatchType))),
		Description:      d.Description,
		Date:             d.Date,
		Time:             d.Time,
		Location:         d.Location,
		Status:           match.Status(strings.ToLower(strings.TrimSpace(d.Status))),
		PlayersNeeded:    d.PlayersNeeded,
		EntryFee:         float64(d.EntryFee),
		CreatorID:        string(d.CreatorID),
		CreatorName:      d.CreatorName,
		CanJoin:          d.CanJoin,
		IsParticipant:    d.IsParticipant,
		ParticipantCount: d.ParticipantCount,
		Teams:            teamsToDomain(d.Teams),
	}
	for _, u := range d.Umpires {
		out.Umpires = append(out.Umpires, match.Umpire{UserID: string(u.UserID), Name: u.Name, Role: u.Role})
	}
	return out
}

func (d teamDTO) toDomain() match.Team {
	name := d.Name
	if name == "" {
		name = d.TeamName
	}
	out := match.Team{
		ID:                 string(d.ID),
		Name:               name,
		CurrentPlayers:     d.CurrentPlayers,
		MaxPlayers:         d.MaxPlayers,
		AvailablePositions: append([]int(nil), d.AvailablePositions...),
	}
	for _, p := range d.Participants {
		out.Participants = append(out.Participants, match.Participant{
			UserID:   string(p.UserID),
			Position: p.Position,
			Role:     p.Role,
			Username: p.Username,
		})
	}
	return out
}

func teamsToDomain(items []teamDTO) []match.Team {
	if len(items) == 0 {
		return nil
	}
	out := make([]match.Team, 0, len(items))
	for _, t := range items {
		out = append(out, t.toDomain())
	}
	return out
}

func (d profileDTO) toDomain(loadedAt time.Time) profile.Profile {
	id := string(d.UserID)
	if id == "" {
		id = string(d.ID)
	}
	display := d.DisplayName
	if display == "" {
		display = d.FullName
	}
	return profile.Profile{
		UserID:      id,
		Username:    d.Username,
		DisplayName: display,
		Email:       d.Email,
		AvatarURL:   d.AvatarURL,
		LoadedAt:    loadedAt,
	}
}

func newPayloadBody(p match.Payload) payloadBody {
	out := payloadBody{
		Title:           p.Title,
		MatchType:       string(p.Type),
		Description:     p.Description,
		Location:        p.Location,
		Date:            p.Date,
		Time:            p.Time,
		PlayersNeeded:   p.PlayersNeeded,
		EntryFee:        p.EntryFee,
		Team1Name:       p.Team1Name,
		Team2Name:       p.Team2Name,
		TournamentTeams: p.TournamentTeams,
	}
	for _, u := range p.Umpires {
		out.Umpires = append(out.Umpires, umpireOut{UserID: u.UserID, Name: u.Name, Role: u.Role})
	}
	return out
}

// wireID sends numeric ids as JSON numbers and anything else as a string.
func wireID(id string) any {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	return id
}
