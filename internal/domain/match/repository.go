package match

import "context"

// Gateway is the remote community API, the only source of match truth.
type Gateway interface {
	ListMatches(ctx context.Context, filter Filter) ([]Match, error)
	GetMatch(ctx context.Context, matchID string) (Match, error)
	GetMatchTeams(ctx context.Context, matchID string) ([]Team, error)
	JoinTeam(ctx context.Context, matchID string, req JoinTeamRequest) error
	JoinMatch(ctx context.Context, matchID string) error
	LeaveMatch(ctx context.Context, matchID string) error
	CreateMatch(ctx context.Context, payload Payload) (Match, error)
	UpdateMatch(ctx context.Context, matchID string, payload Payload) (Match, error)
	DeleteMatch(ctx context.Context, matchID string) error
}
