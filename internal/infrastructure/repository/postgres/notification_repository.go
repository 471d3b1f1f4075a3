package postgres

import (
	"context"
	"database/sql"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/cricket-hub/internal/domain/notification"
	qb "github.com/riskibarqy/cricket-hub/internal/platform/querybuilder"
)

const notificationTable = "notifications"

type notificationTableModel struct {
	PublicID  string       `db:"public_id"`
	UserID    string       `db:"user_id"`
	Kind      string       `db:"kind"`
	Title     string       `db:"title"`
	Message   string       `db:"message"`
	Source    string       `db:"source"`
	CreatedAt time.Time    `db:"created_at"`
	ReadAt    sql.NullTime `db:"read_at"`
}

func (m notificationTableModel) toDomain() notification.Notification {
	n := notification.Notification{
		ID:        m.PublicID,
		UserID:    m.UserID,
		Kind:      notification.Kind(m.Kind),
		Title:     m.Title,
		Message:   m.Message,
		Source:    m.Source,
		CreatedAt: m.CreatedAt,
	}
	if m.ReadAt.Valid {
		at := m.ReadAt.Time
		n.ReadAt = &at
	}
	return n
}

type NotificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Insert(ctx context.Context, n notification.Notification) error {
	query, args, err := qb.InsertInto(notificationTable).
		Columns("public_id", "user_id", "kind", "title", "message", "source", "created_at").
		Values(n.ID, n.UserID, string(n.Kind), n.Title, n.Message, n.Source, n.CreatedAt).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build insert notification query")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "insert notification user=%s", n.UserID)
	}
	return nil
}

func (r *NotificationRepository) ListUnread(ctx context.Context, userID string, limit int) ([]notification.Notification, error) {
	query, args, err := qb.Select("public_id", "user_id", "kind", "title", "message", "source", "created_at", "read_at").
		From(notificationTable).
		Where(qb.Eq("user_id", userID), qb.IsNull("read_at")).
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list unread notifications query")
	}

	var rows []notificationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrapf(err, "list unread notifications user=%s", userID)
	}

	out := make([]notification.Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID string, ids []string, readAt time.Time) (int, error) {
	query, args, err := qb.Update(notificationTable).
		Set("read_at", readAt).
		Where(qb.Eq("user_id", userID), qb.In("public_id", ids), qb.IsNull("read_at")).
		ToSQL()
	if err != nil {
		return 0, crerr.Wrap(err, "build mark notifications read query")
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, crerr.Wrapf(err, "mark notifications read user=%s", userID)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, crerr.Wrap(err, "read affected rows")
	}
	return int(affected), nil
}
