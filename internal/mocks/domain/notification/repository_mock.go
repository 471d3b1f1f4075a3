package notificationmock

import (
	context "context"
	mock "github.com/stretchr/testify/mock"
	notification "github.com/riskibarqy/cricket-hub/internal/domain/notification"
	time "time"
)

// Repository is a testify mock of the Repository type
type Repository struct {
	mock.Mock
}

// Insert provides a mock function with given fields: ctx, n
func (_m *Repository) Insert(ctx context.Context, n notification.Notification) error {
	ret := _m.Called(ctx, n)

	if len(ret) == 0 {
		panic("no return value specified for Insert")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, notification.Notification) error); ok {
		r0 = rf(ctx, n)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// ListUnread provides a mock function with given fields: ctx, userID, limit
func (_m *Repository) ListUnread(ctx context.Context, userID string, limit int) ([]notification.Notification, error) {
	ret := _m.Called(ctx, userID, limit)

	if len(ret) == 0 {
		panic("no return value specified for ListUnread")
	}

	var r0 []notification.Notification
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, int) ([]notification.Notification, error)); ok {
		return rf(ctx, userID, limit)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, int) []notification.Notification); ok {
		r0 = rf(ctx, userID, limit)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]notification.Notification)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, int) error); ok {
		r1 = rf(ctx, userID, limit)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MarkRead provides a mock function with given fields: ctx, userID, ids, readAt
func (_m *Repository) MarkRead(ctx context.Context, userID string, ids []string, readAt time.Time) (int, error) {
	ret := _m.Called(ctx, userID, ids, readAt)

	if len(ret) == 0 {
		panic("no return value specified for MarkRead")
	}

	var r0 int
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, []string, time.Time) (int, error)); ok {
		return rf(ctx, userID, ids, readAt)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, []string, time.Time) int); ok {
		r0 = rf(ctx, userID, ids, readAt)
	} else {
		r0 = ret.Get(0).(int)
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, []string, time.Time) error); ok {
		r1 = rf(ctx, userID, ids, readAt)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewRepository creates a new instance of Repository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *Repository {
	mock := &Repository{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
