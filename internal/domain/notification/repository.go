package notification

import (
	"context"
	"time"
)

// Repository persists notifications per user, newest first on read.
type Repository interface {
	Insert(ctx context.Context, n Notification) error
	ListUnread(ctx context.Context, userID string, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, userID string, ids []string, readAt time.Time) (int, error)
}
