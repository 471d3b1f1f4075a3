package postgres

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-hub/internal/domain/match"
	"github.com/riskibarqy/cricket-hub/internal/domain/notification"
	"github.com/riskibarqy/cricket-hub/internal/domain/wizard"
)

func TestIsNotFound(t *testing.T) {
	t.Run("matches wrapped no rows", func(t *testing.T) {
		if !isNotFound(fmt.Errorf("get draft: %w", sql.ErrNoRows)) {
			t.Fatalf("expected true for wrapped sql.ErrNoRows")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		if isNotFound(fakeErr("pq: relation wizard_drafts does not exist")) {
			t.Fatalf("expected false for unrelated error")
		}
	})
}

func TestDraftForm_PreservesTournamentTeamsAndUmpires(t *testing.T) {
	form := wizard.Form{
		Title:           "Cup",
		Type:            match.TypeTournament,
		Location:        "Oval",
		EntryFee:        12.5,
		TournamentTeams: []string{"A", "B", "C"},
		Umpires:         []match.Umpire{{UserID: "u-9", Name: "Dickie", Role: "square leg"}},
	}

	raw, err := encodeDraftForm(form)
	if err != nil {
		t.Fatalf("encode form: %v", err)
	}
	row := draftTableModel{PublicID: "d-1", Mode: "create", Step: "review", Form: raw}
	got, err := row.toDomain()
	if err != nil {
		t.Fatalf("decode row: %v", err)
	}
	if got.Form.Type != match.TypeTournament || len(got.Form.TournamentTeams) != 3 {
		t.Fatalf("unexpected form: %+v", got.Form)
	}
	if got.Form.Umpires[0].Name != "Dickie" || got.Form.EntryFee != 12.5 {
		t.Fatalf("unexpected form details: %+v", got.Form)
	}
	if got.Mode != wizard.ModeCreate || got.Step != wizard.StepReview {
		t.Fatalf("unexpected draft state: mode=%s step=%s", got.Mode, got.Step)
	}
}

func TestDraftForm_EmptyAndCorruptPayload(t *testing.T) {
	if _, err := (draftTableModel{PublicID: "d-1"}).toDomain(); err != nil {
		t.Fatalf("empty form should decode: %v", err)
	}
	if _, err := (draftTableModel{PublicID: "d-2", Form: []byte("{not json")}).toDomain(); err == nil {
		t.Fatalf("expected decode error for corrupt form")
	}
}

func TestNotificationModel_ReadAt(t *testing.T) {
	readAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	read := notificationTableModel{PublicID: "n-1", Kind: "info", ReadAt: sql.NullTime{Time: readAt, Valid: true}}.toDomain()
	if read.Unread() || !read.ReadAt.Equal(readAt) {
		t.Fatalf("unexpected read notification: %+v", read)
	}
	unread := notificationTableModel{PublicID: "n-2", Kind: "error"}.toDomain()
	if !unread.Unread() || unread.Kind != notification.KindError {
		t.Fatalf("unexpected unread notification: %+v", unread)
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
