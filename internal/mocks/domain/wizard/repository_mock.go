package wizardmock

import (
	context "context"
	mock "github.com/stretchr/testify/mock"
	wizard "github.com/riskibarqy/cricket-hub/internal/domain/wizard"
)

// Repository is a testify mock of the Repository type
type Repository struct {
	mock.Mock
}

// Delete provides a mock function with given fields: ctx, draftID
func (_m *Repository) Delete(ctx context.Context, draftID string) error {
	ret := _m.Called(ctx, draftID)

	if len(ret) == 0 {
		panic("no return value specified for Delete")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string) error); ok {
		r0 = rf(ctx, draftID)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// Get provides a mock function with given fields: ctx, draftID
func (_m *Repository) Get(ctx context.Context, draftID string) (wizard.Draft, bool, error) {
	ret := _m.Called(ctx, draftID)

	if len(ret) == 0 {
		panic("no return value specified for Get")
	}

	var r0 wizard.Draft
	var r1 bool
	var r2 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (wizard.Draft, bool, error)); ok {
		return rf(ctx, draftID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) wizard.Draft); ok {
		r0 = rf(ctx, draftID)
	} else {
		r0 = ret.Get(0).(wizard.Draft)
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) bool); ok {
		r1 = rf(ctx, draftID)
	} else {
		r1 = ret.Get(1).(bool)
	}

	if rf, ok := ret.Get(2).(func(context.Context, string) error); ok {
		r2 = rf(ctx, draftID)
	} else {
		r2 = ret.Error(2)
	}

	return r0, r1, r2
}

// Save provides a mock function with given fields: ctx, draft
func (_m *Repository) Save(ctx context.Context, draft wizard.Draft) error {
	ret := _m.Called(ctx, draft)

	if len(ret) == 0 {
		panic("no return value specified for Save")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, wizard.Draft) error); ok {
		r0 = rf(ctx, draft)
	} else {
		r0 = ret.Error(0)
	}

	return r0
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
