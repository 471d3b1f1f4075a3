package wizard

import (
	"errors"
	"strings"

	"github.com/riskibarqy/cricket-hub/internal/domain/match"
)

var ErrNotAtReview = errors.New("wizard: submit is only allowed from the review step")

// ValidationError is the single violation shown to the user.
type ValidationError struct {
	Step    Step
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type rule struct {
	field   string
	message string
	ok      func(Form) bool
}

func notBlank(get func(Form) string) func(Form) bool {
	return func(f Form) bool { return strings.TrimSpace(get(f)) != "" }
}

var rules = map[Step][]rule{
	StepMatchDetails: {
		{field: "title", message: "Match title is required", ok: notBlank(func(f Form) string { return f.Title })},
		{field: "match_type", message: "Please select a valid match type", ok: func(f Form) bool { return f.Type.Valid() }},
	},
	StepVenueTime: {
		{field: "location", message: "Location is required", ok: notBlank(func(f Form) string { return f.Location })},
		{field: "date", message: "Date is required", ok: notBlank(func(f Form) string { return f.Date })},
		{field: "time", message: "Time is required", ok: notBlank(func(f Form) string { return f.Time })},
	},
	StepTeamsCriteria: {
		{field: "tournament_teams", message: "Tournament matches need at least 2 teams", ok: func(f Form) bool {
			return f.Type != match.TypeTournament || len(f.NamedTournamentTeams()) >= 2
		}},
		{field: "team1_name", message: "Team 1 name is required", ok: func(f Form) bool {
			return f.Type == match.TypeTournament || strings.TrimSpace(f.Team1Name) != ""
		}},
		{field: "team2_name", message: "Team 2 name is required", ok: func(f Form) bool {
			return f.Type == match.TypeTournament || strings.TrimSpace(f.Team2Name) != ""
		}},
		{field: "players_needed", message: "Players needed cannot be negative", ok: func(f Form) bool { return f.PlayersNeeded >= 0 }},
		{field: "entry_fee", message: "Entry fee cannot be negative", ok: func(f Form) bool { return f.EntryFee >= 0 }},
	},
}

// ValidateStep returns the first violated rule of step, or nil.
func ValidateStep(step Step, f Form) *ValidationError {
	for _, r := range rules[step] {
		if !r.ok(f) {
			return &ValidationError{Step: step, Field: r.field, Message: r.message}
		}
	}
	return nil
}

// ValidateAll re-runs every step in order.
func ValidateAll(f Form) *ValidationError {
	for _, s := range steps {
		if v := ValidateStep(s, f); v != nil {
			return v
		}
	}
	return nil
}

// Next validates the current step and advances. On failure the draft stays
// put and LastError holds the violation.
func (d *Draft) Next() error {
	if v := ValidateStep(d.Step, d.Form); v != nil {
		d.LastError = v.Message
		return v
	}
	d.LastError = ""
	if i := d.Step.index(); i >= 0 && i < len(steps)-1 {
		d.Step = steps[i+1]
	}
	return nil
}

// Back moves one step back without validating. It is a no-op on the first step.
func (d *Draft) Back() {
	d.LastError = ""
	if i := d.Step.index(); i > 0 {
		d.Step = steps[i-1]
	}
}

// ReadyToSubmit checks that the draft is at review and the whole form is valid.
func (d *Draft) ReadyToSubmit() error {
	if d.Step != StepReview {
		d.LastError = ErrNotAtReview.Error()
		return ErrNotAtReview
	}
	if v := ValidateAll(d.Form); v != nil {
		d.LastError = v.Message
		return v
	}
	d.LastError = ""
	return nil
}
