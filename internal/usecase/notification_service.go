package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/cricket-hub/internal/domain/notification"
	"github.com/riskibarqy/cricket-hub/internal/platform/id"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
)

const (
	defaultUnreadLimit   = 50
	maxUnreadLimit       = 200
	subscriberBufferSize = 16
)

// Notifier queues a user-facing outcome message. Failures are logged, never
// returned, so a broken queue cannot mask the outcome of the action itself.
type Notifier interface {
	Notify(ctx context.Context, userID string, kind notification.Kind, title, message, source string)
}

type NotificationService struct {
	repo   notification.Repository
	ids    id.Generator
	logger *logging.Logger
	now    func() time.Time

	mu   sync.RWMutex
	subs map[string]map[*subscription]struct{}
}

type subscription struct {
	ch     chan notification.Notification
	closed bool
}

func NewNotificationService(repo notification.Repository, ids id.Generator, logger *logging.Logger) *NotificationService {
	if logger == nil {
		logger = logging.Default()
	}
	return &NotificationService{
		repo:   repo,
		ids:    ids,
		logger: logger,
		now:    time.Now,
		subs:   make(map[string]map[*subscription]struct{}),
	}
}

func (s *NotificationService) Publish(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.Publish")
	defer span.End()

	n.UserID = strings.TrimSpace(n.UserID)
	if n.UserID == "" {
		return notification.Notification{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if !n.Kind.Valid() {
		return notification.Notification{}, fmt.Errorf("%w: invalid notification kind %q", ErrInvalidInput, n.Kind)
	}
	if strings.TrimSpace(n.Message) == "" {
		return notification.Notification{}, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}

	if n.ID == "" {
		nid, err := s.ids.NewID()
		if err != nil {
			return notification.Notification{}, fmt.Errorf("generate notification id: %w", err)
		}
		n.ID = nid
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now().UTC()
	}
	n.ReadAt = nil

	if err := s.repo.Insert(ctx, n); err != nil {
		return notification.Notification{}, fmt.Errorf("insert notification: %w", err)
	}
	s.fanOut(ctx, n)
	return n, nil
}

func (s *NotificationService) Notify(ctx context.Context, userID string, kind notification.Kind, title, message, source string) {
	_, err := s.Publish(ctx, notification.Notification{
		UserID:  userID,
		Kind:    kind,
		Title:   title,
		Message: message,
		Source:  source,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "drop notification", "user_id", userID, "source", source, "error", err)
	}
}

func (s *NotificationService) ListUnread(ctx context.Context, userID string, limit int) ([]notification.Notification, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.ListUnread")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultUnreadLimit
	}
	limit = min(limit, maxUnreadLimit)

	items, err := s.repo.ListUnread(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list unread notifications: %w", err)
	}
	return items, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID string, ids []string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.MarkRead")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	cleaned := make([]string, 0, len(ids))
	for _, v := range ids {
		if v = strings.TrimSpace(v); v != "" {
			cleaned = append(cleaned, v)
		}
	}
	if len(cleaned) == 0 {
		return 0, fmt.Errorf("%w: at least one notification id is required", ErrInvalidInput)
	}

	n, err := s.repo.MarkRead(ctx, userID, cleaned, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	return n, nil
}

// Subscribe registers a live feed for userID. The returned cancel func must
// be called to release it; the channel is closed afterwards.
func (s *NotificationService) Subscribe(userID string) (<-chan notification.Notification, func()) {
	userID = strings.TrimSpace(userID)
	sub := &subscription{ch: make(chan notification.Notification, subscriberBufferSize)}

	s.mu.Lock()
	if s.subs[userID] == nil {
		s.subs[userID] = make(map[*subscription]struct{})
	}
	s.subs[userID][sub] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs[userID], sub)
			if len(s.subs[userID]) == 0 {
				delete(s.subs, userID)
			}
			sub.closed = true
			close(sub.ch)
		})
	}
	return sub.ch, cancel
}

func (s *NotificationService) fanOut(ctx context.Context, n notification.Notification) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for sub := range s.subs[n.UserID] {
		if sub.closed {
			continue
		}
		select {
		case sub.ch <- n:
		default:
			s.logger.WarnContext(ctx, "notification subscriber is slow, dropping live event", "user_id", n.UserID, "notification_id", n.ID)
		}
	}
}
