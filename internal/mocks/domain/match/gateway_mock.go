package matchmock

import (
	context "context"
	match "github.com/riskibarqy/cricket-hub/internal/domain/match"
	mock "github.com/stretchr/testify/mock"
)

// Gateway is a testify mock of the Gateway type
type Gateway struct {
	mock.Mock
}

// CreateMatch provides a mock function with given fields: ctx, payload
func (_m *Gateway) CreateMatch(ctx context.Context, payload match.Payload) (match.Match, error) {
	ret := _m.Called(ctx, payload)

	if len(ret) == 0 {
		panic("no return value specified for CreateMatch")
	}

	var r0 match.Match
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, match.Payload) (match.Match, error)); ok {
		return rf(ctx, payload)
	}
	if rf, ok := ret.Get(0).(func(context.Context, match.Payload) match.Match); ok {
		r0 = rf(ctx, payload)
	} else {
		r0 = ret.Get(0).(match.Match)
	}

	if rf, ok := ret.Get(1).(func(context.Context, match.Payload) error); ok {
		r1 = rf(ctx, payload)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// DeleteMatch provides a mock function with given fields: ctx, matchID
func (_m *Gateway) DeleteMatch(ctx context.Context, matchID string) error {
	ret := _m.Called(ctx, matchID)

	if len(ret) == 0 {
		panic("no return value specified for DeleteMatch")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string) error); ok {
		r0 = rf(ctx, matchID)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// GetMatch provides a mock function with given fields: ctx, matchID
func (_m *Gateway) GetMatch(ctx context.Context, matchID string) (match.Match, error) {
	ret := _m.Called(ctx, matchID)

	if len(ret) == 0 {
		panic("no return value specified for GetMatch")
	}

	var r0 match.Match
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (match.Match, error)); ok {
		return rf(ctx, matchID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) match.Match); ok {
		r0 = rf(ctx, matchID)
	} else {
		r0 = ret.Get(0).(match.Match)
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, matchID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// GetMatchTeams provides a mock function with given fields: ctx, matchID
func (_m *Gateway) GetMatchTeams(ctx context.Context, matchID string) ([]match.Team, error) {
	ret := _m.Called(ctx, matchID)

	if len(ret) == 0 {
		panic("no return value specified for GetMatchTeams")
	}

	var r0 []match.Team
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) ([]match.Team, error)); ok {
		return rf(ctx, matchID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) []match.Team); ok {
		r0 = rf(ctx, matchID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]match.Team)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, matchID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// JoinMatch provides a mock function with given fields: ctx, matchID
func (_m *Gateway) JoinMatch(ctx context.Context, matchID string) error {
	ret := _m.Called(ctx, matchID)

	if len(ret) == 0 {
		panic("no return value specified for JoinMatch")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string) error); ok {
		r0 = rf(ctx, matchID)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// JoinTeam provides a mock function with given fields: ctx, matchID, req
func (_m *Gateway) JoinTeam(ctx context.Context, matchID string, req match.JoinTeamRequest) error {
	ret := _m.Called(ctx, matchID, req)

	if len(ret) == 0 {
		panic("no return value specified for JoinTeam")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string, match.JoinTeamRequest) error); ok {
		r0 = rf(ctx, matchID, req)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// LeaveMatch provides a mock function with given fields: ctx, matchID
func (_m *Gateway) LeaveMatch(ctx context.Context, matchID string) error {
	ret := _m.Called(ctx, matchID)

	if len(ret) == 0 {
		panic("no return value specified for LeaveMatch")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string) error); ok {
		r0 = rf(ctx, matchID)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// ListMatches provides a mock function with given fields: ctx, filter
func (_m *Gateway) ListMatches(ctx context.Context, filter match.Filter) ([]match.Match, error) {
	ret := _m.Called(ctx, filter)

	if len(ret) == 0 {
		panic("no return value specified for ListMatches")
	}

	var r0 []match.Match
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, match.Filter) ([]match.Match, error)); ok {
		return rf(ctx, filter)
	}
	if rf, ok := ret.Get(0).(func(context.Context, match.Filter) []match.Match); ok {
		r0 = rf(ctx, filter)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]match.Match)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, match.Filter) error); ok {
		r1 = rf(ctx, filter)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// UpdateMatch provides a mock function with given fields: ctx, matchID, payload
func (_m *Gateway) UpdateMatch(ctx context.Context, matchID string, payload match.Payload) (match.Match, error) {
	ret := _m.Called(ctx, matchID, payload)

	if len(ret) == 0 {
		panic("no return value specified for UpdateMatch")
	}

	var r0 match.Match
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, match.Payload) (match.Match, error)); ok {
		return rf(ctx, matchID, payload)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, match.Payload) match.Match); ok {
		r0 = rf(ctx, matchID, payload)
	} else {
		r0 = ret.Get(0).(match.Match)
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, match.Payload) error); ok {
		r1 = rf(ctx, matchID, payload)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewGateway creates a new instance of Gateway. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewGateway(t interface {
	mock.TestingT
	Cleanup(func())
}) *Gateway {
	mock := &Gateway{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
