package cricketapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/riskibarqy/cricket-hub/internal/domain/match"
	"github.com/riskibarqy/cricket-hub/internal/domain/profile"
)

func matchPath(matchID string, suffix string) string {
	return "/api/matches/" + url.PathEscape(matchID) + suffix
}

func (c *Client) ListMatches(ctx context.Context, filter match.Filter) ([]match.Match, error) {
	filter = filter.Normalize()
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	if filter.Type != "" {
		query.Set("match_type", string(filter.Type))
	}
	query.Set("page", strconv.Itoa(filter.Page))
	query.Set("per_page", strconv.Itoa(filter.PerPage))

	var env matchListEnvelope
	if err := c.get(ctx, "list matches", "/api/matches", query, &env); err != nil {
		return nil, err
	}

	out := make([]match.Match, 0, len(env.Matches))
	for _, m := range env.Matches {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (c *Client) GetMatch(ctx context.Context, matchID string) (match.Match, error) {
	var env matchEnvelope
	if err := c.get(ctx, "get match", matchPath(matchID, ""), nil, &env); err != nil {
		return match.Match{}, err
	}
	if env.Match == nil {
		return match.Match{}, &RequestError{Op: "get match", Message: "match not found", kind: kindForStatus(http.StatusNotFound)}
	}
	return env.Match.toDomain(), nil
}

func (c *Client) GetMatchTeams(ctx context.Context, matchID string) ([]match.Team, error) {
	var env teamsEnvelope
	if err := c.get(ctx, "get match teams", matchPath(matchID, "/teams"), nil, &env); err != nil {
		return nil, err
	}
	teams := teamsToDomain(env.Teams)
	if teams == nil {
		teams = []match.Team{}
	}
	return teams, nil
}

func (c *Client) JoinTeam(ctx context.Context, matchID string, req match.JoinTeamRequest) error {
	body := joinTeamBody{
		TeamID:   wireID(req.TeamID),
		Position: req.Position,
		Role:     req.Role,
	}
	return c.mutate(ctx, "join team", http.MethodPost, matchPath(matchID, "/join-team"), body, nil)
}

func (c *Client) JoinMatch(ctx context.Context, matchID string) error {
	return c.mutate(ctx, "join match", http.MethodPost, matchPath(matchID, "/join"), nil, nil)
}

func (c *Client) LeaveMatch(ctx context.Context, matchID string) error {
	return c.mutate(ctx, "leave match", http.MethodPost, matchPath(matchID, "/leave"), nil, nil)
}

func (c *Client) CreateMatch(ctx context.Context, payload match.Payload) (match.Match, error) {
	var env matchEnvelope
	if err := c.mutate(ctx, "create match", http.MethodPost, "/api/matches", newPayloadBody(payload), &env); err != nil {
		return match.Match{}, err
	}
	return env.result(), nil
}

func (c *Client) UpdateMatch(ctx context.Context, matchID string, payload match.Payload) (match.Match, error) {
	var env matchEnvelope
	if err := c.mutate(ctx, "update match", http.MethodPut, matchPath(matchID, ""), newPayloadBody(payload), &env); err != nil {
		return match.Match{}, err
	}
	out := env.result()
	if out.ID == "" {
		out.ID = matchID
	}
	return out, nil
}

func (c *Client) DeleteMatch(ctx context.Context, matchID string) error {
	return c.mutate(ctx, "delete match", http.MethodDelete, matchPath(matchID, ""), nil, nil)
}

func (c *Client) GetProfile(ctx context.Context) (profile.Profile, error) {
	var env profileEnvelope
	if err := c.get(ctx, "get profile", "/api/profile", nil, &env); err != nil {
		return profile.Profile{}, err
	}
	dto := env.Profile
	if dto == nil {
		dto = env.User
	}
	if dto == nil {
		return profile.Profile{}, &RequestError{Op: "get profile", Message: "profile not found", kind: kindForStatus(http.StatusNotFound)}
	}
	return dto.toDomain(c.now()), nil
}

// Ping checks that the API answers its health endpoint. It is unauthenticated
// and bypasses the breaker.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.roundTrip(ctx, "ping", http.MethodGet, c.baseURL+"/api/health", "", nil)
	if err != nil {
		return err
	}
	return nil
}

func (e matchEnvelope) result() match.Match {
	if e.Match != nil {
		return e.Match.toDomain()
	}
	return match.Match{ID: string(e.ID)}
}
