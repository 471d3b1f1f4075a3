package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/riskibarqy/cricket-hub/internal/domain/notification"
	"github.com/riskibarqy/cricket-hub/internal/domain/profile"
	"github.com/riskibarqy/cricket-hub/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
)

type sequenceIDs struct {
	n atomic.Int64
}

func (s *sequenceIDs) NewID() (string, error) {
	return fmt.Sprintf("id-%d", s.n.Add(1)), nil
}

type staticProfiles struct {
	profile profile.Profile
	err     error
}

func (s staticProfiles) Load(context.Context, string) (profile.Profile, error) {
	return s.profile, s.err
}

func newTestNotifications() *NotificationService {
	return NewNotificationService(memory.NewNotificationRepository(), &sequenceIDs{}, logging.NewNop())
}

func requireNotification(t *testing.T, svc *NotificationService, userID string, kind notification.Kind, contains string) {
	t.Helper()

	items, err := svc.ListUnread(t.Context(), userID, 0)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	for _, n := range items {
		if n.Kind == kind && strings.Contains(n.Message, contains) {
			return
		}
	}
	t.Fatalf("expected %s notification containing %q, got %+v", kind, contains, items)
}
