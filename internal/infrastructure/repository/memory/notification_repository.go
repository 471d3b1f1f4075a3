package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/cricket-hub/internal/domain/notification"
)

type NotificationRepository struct {
	mu    sync.RWMutex
	items map[string][]notification.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{items: make(map[string][]notification.Notification)}
}

func (r *NotificationRepository) Insert(_ context.Context, n notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[n.UserID] = append(r.items[n.UserID], cloneNotification(n))
	return nil
}

// ListUnread returns unread notifications newest first.
func (r *NotificationRepository) ListUnread(_ context.Context, userID string, limit int) ([]notification.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]notification.Notification, 0)
	for _, n := range r.items[userID] {
		if n.Unread() {
			out = append(out, cloneNotification(n))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, userID string, ids []string, readAt time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	updated := 0
	items := r.items[userID]
	for i := range items {
		if _, ok := wanted[items[i].ID]; !ok || !items[i].Unread() {
			continue
		}
		at := readAt
		items[i].ReadAt = &at
		updated++
	}
	return updated, nil
}

func cloneNotification(n notification.Notification) notification.Notification {
	copied := n
	if n.ReadAt != nil {
		at := *n.ReadAt
		copied.ReadAt = &at
	}
	return copied
}
