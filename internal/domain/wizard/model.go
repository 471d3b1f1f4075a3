package wizard

import (
	"strings"
	"time"

	"github.com/riskibarqy/cricket-hub/internal/domain/match"
)

type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

type Step string

const (
	StepMatchDetails  Step = "match-details"
	StepVenueTime     Step = "venue-time"
	StepTeamsCriteria Step = "teams-criteria"
	StepReview        Step = "review"
)

var steps = []Step{StepMatchDetails, StepVenueTime, StepTeamsCriteria, StepReview}

func Steps() []Step {
	return append([]Step(nil), steps...)
}

func (s Step) index() int {
	for i, v := range steps {
		if v == s {
			return i
		}
	}
	return -1
}

func (s Step) Valid() bool {
	return s.index() >= 0
}

// Form accumulates every field collected across steps.
type Form struct {
	Title           string
	Type            match.Type
	Description     string
	Location        string
	Date            string
	Time            string
	PlayersNeeded   int
	EntryFee        float64
	Team1Name       string
	Team2Name       string
	TournamentTeams []string
	Umpires         []match.Umpire
}

// Patch carries optional field updates. Nil fields are left unchanged.
type Patch struct {
	Title           *string
	Type            *match.Type
	Description     *string
	Location        *string
	Date            *string
	Time            *string
	PlayersNeeded   *int
	EntryFee        *float64
	Team1Name       *string
	Team2Name       *string
	TournamentTeams *[]string
	Umpires         *[]match.Umpire
}

func (f Form) Apply(p Patch) Form {
	setString(&f.Title, p.Title)
	setString(&f.Description, p.Description)
	setString(&f.Location, p.Location)
	setString(&f.Date, p.Date)
	setString(&f.Time, p.Time)
	setString(&f.Team1Name, p.Team1Name)
	setString(&f.Team2Name, p.Team2Name)
	if p.Type != nil {
		f.Type = match.Type(strings.ToLower(strings.TrimSpace(string(*p.Type))))
	}
	if p.PlayersNeeded != nil {
		f.PlayersNeeded = *p.PlayersNeeded
	}
	if p.EntryFee != nil {
		f.EntryFee = *p.EntryFee
	}
	if p.TournamentTeams != nil {
		f.TournamentTeams = append([]string(nil), (*p.TournamentTeams)...)
	}
	if p.Umpires != nil {
		f.Umpires = append([]match.Umpire(nil), (*p.Umpires)...)
	}
	return f
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// NamedTournamentTeams returns the non-blank tournament team names, trimmed.
func (f Form) NamedTournamentTeams() []string {
	out := make([]string, 0, len(f.TournamentTeams))
	for _, name := range f.TournamentTeams {
		if v := strings.TrimSpace(name); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Payload serialises the accumulated form for the create/update call.
func (f Form) Payload() match.Payload {
	p := match.Payload{
		Title:         strings.TrimSpace(f.Title),
		Type:          f.Type,
		Description:   strings.TrimSpace(f.Description),
		Location:      strings.TrimSpace(f.Location),
		Date:          strings.TrimSpace(f.Date),
		Time:          strings.TrimSpace(f.Time),
		PlayersNeeded: f.PlayersNeeded,
		EntryFee:      f.EntryFee,
		Umpires:       append([]match.Umpire(nil), f.Umpires...),
	}
	if f.Type == match.TypeTournament {
		p.TournamentTeams = f.NamedTournamentTeams()
	} else {
		p.Team1Name = strings.TrimSpace(f.Team1Name)
		p.Team2Name = strings.TrimSpace(f.Team2Name)
	}
	return p
}

// FormFromMatch prefills an edit form from the current snapshot.
func FormFromMatch(m match.Match) Form {
	f := Form{
		Title:         m.Title,
		Type:          m.Type,
		Description:   m.Description,
		Location:      m.Location,
		Date:          m.Date,
		Time:          m.Time,
		PlayersNeeded: m.PlayersNeeded,
		EntryFee:      m.EntryFee,
		Umpires:       append([]match.Umpire(nil), m.Umpires...),
	}
	if m.Type == match.TypeTournament {
		for _, t := range m.Teams {
			f.TournamentTeams = append(f.TournamentTeams, t.Name)
		}
		return f
	}
	if len(m.Teams) > 0 {
		f.Team1Name = m.Teams[0].Name
	}
	if len(m.Teams) > 1 {
		f.Team2Name = m.Teams[1].Name
	}
	return f
}

// Draft is one in-progress create or edit wizard.
type Draft struct {
	ID        string
	UserID    string
	Mode      Mode
	MatchID   string
	Step      Step
	Form      Form
	LastError string
	CreatedAt time.Time
	UpdatedAt time.Time
}
