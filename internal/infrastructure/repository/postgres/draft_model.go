package postgres

import (
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/cricket-hub/internal/domain/match"
	"github.com/riskibarqy/cricket-hub/internal/domain/wizard"
)

const draftTable = "wizard_drafts"

var draftColumns = []string{
	"public_id",
	"user_id",
	"mode",
	"match_public_id",
	"step",
	"form",
	"last_error",
	"created_at",
	"updated_at",
}

type draftTableModel struct {
	PublicID      string    `db:"public_id"`
	UserID        string    `db:"user_id"`
	Mode          string    `db:"mode"`
	MatchPublicID string    `db:"match_public_id"`
	Step          string    `db:"step"`
	Form          []byte    `db:"form"`
	LastError     string    `db:"last_error"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// draftForm is the JSONB shape of wizard.Form.
type draftForm struct {
	Title           string        `json:"title"`
	MatchType       string        `json:"match_type"`
	Description     string        `json:"description,omitempty"`
	Location        string        `json:"location"`
	Date            string        `json:"date"`
	Time            string        `json:"time"`
	PlayersNeeded   int           `json:"players_needed"`
	EntryFee        float64       `json:"entry_fee"`
	Team1Name       string        `json:"team1_name,omitempty"`
	Team2Name       string        `json:"team2_name,omitempty"`
	TournamentTeams []string      `json:"tournament_teams,omitempty"`
	Umpires         []draftUmpire `json:"umpires,omitempty"`
}

type draftUmpire struct {
	UserID string `json:"user_id,omitempty"`
	Name   string `json:"name"`
	Role   string `json:"role,omitempty"`
}

func encodeDraftForm(f wizard.Form) ([]byte, error) {
	out := draftForm{
		Title:           f.Title,
		MatchType:       string(f.Type),
		Description:     f.Description,
		Location:        f.Location,
		Date:            f.Date,
		Time:            f.Time,
		PlayersNeeded:   f.PlayersNeeded,
		EntryFee:        f.EntryFee,
		Team1Name:       f.Team1Name,
		Team2Name:       f.Team2Name,
		TournamentTeams: f.TournamentTeams,
	}
	for _, u := range f.Umpires {
		out.Umpires = append(out.Umpires, draftUmpire{UserID: u.UserID, Name: u.Name, Role: u.Role})
	}
	raw, err := sonic.Marshal(out)
	if err != nil {
		return nil, crerr.Wrap(err, "encode draft form")
	}
	return raw, nil
}

func decodeDraftForm(raw []byte) (wizard.Form, error) {
	var in draftForm
	if len(raw) > 0 {
		if err := sonic.Unmarshal(raw, &in); err != nil {
			return wizard.Form{}, crerr.Wrap(err, "decode draft form")
		}
	}
	f := wizard.Form{
		Title:           in.Title,
		Type:            match.Type(in.MatchType),
		Description:     in.Description,
		Location:        in.Location,
		Date:            in.Date,
		Time:            in.Time,
		PlayersNeeded:   in.PlayersNeeded,
		EntryFee:        in.EntryFee,
		Team1Name:       in.Team1Name,
		Team2Name:       in.Team2Name,
		TournamentTeams: in.TournamentTeams,
	}
	for _, u := range in.Umpires {
		f.Umpires = append(f.Umpires, match.Umpire{UserID: u.UserID, Name: u.Name, Role: u.Role})
	}
	return f, nil
}

func (m draftTableModel) toDomain() (wizard.Draft, error) {
	form, err := decodeDraftForm(m.Form)
	if err != nil {
		return wizard.Draft{}, crerr.Wrapf(err, "draft %s", m.PublicID)
	}
	return wizard.Draft{
		ID:        m.PublicID,
		UserID:    m.UserID,
		Mode:      wizard.Mode(m.Mode),
		MatchID:   m.MatchPublicID,
		Step:      wizard.Step(m.Step),
		Form:      form,
		LastError: m.LastError,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}
