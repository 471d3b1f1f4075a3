package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/cricket-hub/internal/domain/wizard"
	qb "github.com/riskibarqy/cricket-hub/internal/platform/querybuilder"
)

type DraftRepository struct {
	db *sqlx.DB
}

func NewDraftRepository(db *sqlx.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

func (r *DraftRepository) Get(ctx context.Context, draftID string) (wizard.Draft, bool, error) {
	query, args, err := qb.Select(draftColumns...).
		From(draftTable).
		Where(qb.Eq("public_id", draftID)).
		ToSQL()
	if err != nil {
		return wizard.Draft{}, false, crerr.Wrap(err, "build select draft query")
	}

	var row draftTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return wizard.Draft{}, false, nil
		}
		return wizard.Draft{}, false, crerr.Wrapf(err, "get draft id=%s", draftID)
	}

	d, err := row.toDomain()
	if err != nil {
		return wizard.Draft{}, false, err
	}
	return d, true, nil
}

// Save upserts by public id. created_at is only written on insert.
func (r *DraftRepository) Save(ctx context.Context, draft wizard.Draft) error {
	form, err := encodeDraftForm(draft.Form)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertInto(draftTable).
		Columns(draftColumns...).
		Values(
			draft.ID,
			draft.UserID,
			string(draft.Mode),
			draft.MatchID,
			string(draft.Step),
			form,
			draft.LastError,
			draft.CreatedAt,
			draft.UpdatedAt,
		).
		Suffix(`ON CONFLICT (public_id) DO UPDATE SET
    mode = EXCLUDED.mode,
    match_public_id = EXCLUDED.match_public_id,
    step = EXCLUDED.step,
    form = EXCLUDED.form,
    last_error = EXCLUDED.last_error,
    updated_at = EXCLUDED.updated_at`).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build upsert draft query")
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "upsert draft id=%s", draft.ID)
	}
	return nil
}

func (r *DraftRepository) Delete(ctx context.Context, draftID string) error {
	query, args, err := qb.DeleteFrom(draftTable).
		Where(qb.Eq("public_id", draftID)).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build delete draft query")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "delete draft id=%s", draftID)
	}
	return nil
}
