package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-hub/internal/domain/notification"
	notificationmock "github.com/riskibarqy/cricket-hub/internal/mocks/domain/notification"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func TestNotificationService_PublishListMarkRead(t *testing.T) {
	t.Parallel()

	svc := newTestNotifications()
	first, err := svc.Publish(t.Context(), notification.Notification{UserID: "uid-1", Kind: notification.KindSuccess, Message: "Joined"})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if first.ID == "" || first.CreatedAt.IsZero() {
		t.Fatalf("publish should assign id and timestamp: %+v", first)
	}
	svc.Notify(t.Context(), "uid-1", notification.KindError, "Error", "Failed to join match: network", "test")

	items, err := svc.ListUnread(t.Context(), "uid-1", 0)
	if err != nil {
		t.Fatalf("list unread: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 unread, got %d", len(items))
	}

	n, err := svc.MarkRead(t.Context(), "uid-1", []string{first.ID, " "})
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 marked read, got %d", n)
	}
	items, _ = svc.ListUnread(t.Context(), "uid-1", 0)
	if len(items) != 1 || items[0].Kind != notification.KindError {
		t.Fatalf("unexpected unread after mark read: %+v", items)
	}
}

func TestNotificationService_PublishValidates(t *testing.T) {
	t.Parallel()

	svc := newTestNotifications()
	cases := []notification.Notification{
		{Kind: notification.KindInfo, Message: "x"},
		{UserID: "uid-1", Kind: "loud", Message: "x"},
		{UserID: "uid-1", Kind: notification.KindInfo, Message: "  "},
	}
	for _, tc := range cases {
		if _, err := svc.Publish(t.Context(), tc); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", tc, err)
		}
	}
	if _, err := svc.MarkRead(t.Context(), "uid-1", nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty ids, got %v", err)
	}
}

func TestNotificationService_SubscribeReceivesOwnEvents(t *testing.T) {
	t.Parallel()

	svc := newTestNotifications()
	feed, cancel := svc.Subscribe("uid-1")
	other, cancelOther := svc.Subscribe("uid-2")
	defer cancelOther()

	svc.Notify(t.Context(), "uid-1", notification.KindInfo, "Hi", "hello", "test")

	select {
	case n := <-feed:
		if n.Message != "hello" {
			t.Fatalf("unexpected event: %+v", n)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected live event")
	}
	select {
	case n := <-other:
		t.Fatalf("uid-2 must not receive uid-1 events: %+v", n)
	default:
	}

	cancel()
	cancel()
	if _, ok := <-feed; ok {
		t.Fatalf("expected closed feed after cancel")
	}
	svc.Notify(t.Context(), "uid-1", notification.KindInfo, "Hi", "after cancel", "test")
}

func TestNotificationService_InsertFailureIsSwallowedByNotify(t *testing.T) {
	t.Parallel()

	repo := notificationmock.NewRepository(t)
	repo.On("Insert", mock.Anything, mock.Anything).Return(errors.New("db down")).Twice()

	svc := NewNotificationService(repo, &sequenceIDs{}, logging.NewNop())
	svc.Notify(t.Context(), "uid-1", notification.KindInfo, "Hi", "hello", "test")

	if _, err := svc.Publish(t.Context(), notification.Notification{UserID: "uid-1", Kind: notification.KindInfo, Message: "x"}); err == nil {
		t.Fatalf("expected publish error")
	}
}

func TestNotificationService_SubscribeTrimsUserID(t *testing.T) {
	t.Parallel()

	svc := newTestNotifications()
	feed, cancel := svc.Subscribe("  uid-1 ")
	defer cancel()

	svc.Notify(t.Context(), "uid-1", notification.KindInfo, "Hi", "padded", "test")

	select {
	case n := <-feed:
		if n.Message != "padded" {
			t.Fatalf("unexpected event: %+v", n)
		}
	case <-time.After(time.Second):
		t.Fatalf("padded subscriber id should receive uid-1 events")
	}
}
