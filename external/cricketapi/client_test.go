package cricketapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/cricket-hub/internal/domain/match"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
	"github.com/riskibarqy/cricket-hub/internal/platform/resilience"
	"github.com/riskibarqy/cricket-hub/internal/usecase"
)

func newTestClient(t *testing.T, srv *httptest.Server, retries int, breaker resilience.BreakerConfig) *Client {
	t.Helper()
	c := NewClient(Config{
		HTTPClient:     srv.Client(),
		BaseURL:        srv.URL,
		MaxRetries:     retries,
		Tokens:         StaticToken("firebase-token"),
		Logger:         logging.NewNop(),
		CircuitBreaker: breaker,
	})
	c.backoffStep = time.Millisecond
	return c
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	raw, err := sonic.Marshal(body)
	if err != nil {
		t.Errorf("marshal body: %v", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(raw)
}

func TestListMatches_SendsFilterAndDecodes(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/matches" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer firebase-token" {
			t.Errorf("unexpected authorization %q", got)
		}
		q := r.URL.Query()
		if q.Get("status") != "upcoming" || q.Get("match_type") != "league" || q.Get("page") != "2" || q.Get("per_page") != "20" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		writeJSON(t, w, http.StatusOK, map[string]any{
			"matches": []any{
				map[string]any{
					"id":                42,
					"title":             "Derby",
					"match_type":        "League",
					"status":            "upcoming",
					"entry_fee":         "12.50",
					"players_needed":    22,
					"creator_id":        7,
					"can_join":          true,
					"is_participant":    false,
					"participant_count": 3,
				},
			},
		})
	}))
	defer srv.Close()

	client := newTestClient(t, srv, 0, resilience.BreakerConfig{})
	matches, err := client.ListMatches(context.Background(), match.Filter{Status: match.StatusUpcoming, Type: match.TypeLeague, Page: 2})
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one match, got %d", len(matches))
	}
	m := matches[0]
	if m.ID != "42" || m.Type != match.TypeLeague || m.EntryFee != 12.5 || m.CreatorID != "7" || !m.CanJoin {
		t.Fatalf("unexpected match: %+v", m)
	}
}

func TestGetMatchTeams_DecodesRoster(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/matches/m-1/teams" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		writeJSON(t, w, http.StatusOK, map[string]any{
			"teams": []any{
				map[string]any{
					"id":                  "t1",
					"name":                "Lions",
					"current_players":     1,
					"max_players":         2,
					"available_positions": []int{2},
					"participants": []any{
						map[string]any{"user_id": 9, "player_position": 1, "player_role": "Captain", "username": "alice"},
					},
				},
			},
		})
	}))
	defer srv.Close()

	teams, err := newTestClient(t, srv, 0, resilience.BreakerConfig{}).GetMatchTeams(context.Background(), "m-1")
	if err != nil {
		t.Fatalf("get teams: %v", err)
	}
	if len(teams) != 1 || teams[0].Participants[0].Username != "alice" || teams[0].Participants[0].UserID != "9" {
		t.Fatalf("unexpected teams: %+v", teams)
	}
}

func TestGetMatchTeams_EmptyIsNotNil(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{})
	}))
	defer srv.Close()

	teams, err := newTestClient(t, srv, 0, resilience.BreakerConfig{}).GetMatchTeams(context.Background(), "m-1")
	if err != nil {
		t.Fatalf("get teams: %v", err)
	}
	if teams == nil || len(teams) != 0 {
		t.Fatalf("expected empty slice, got %#v", teams)
	}
}

func TestJoinTeam_SendsBodyOnceWithoutRetry(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method != http.MethodPost || r.URL.Path != "/api/matches/m-1/join-team" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		if err := sonic.Unmarshal(raw, &body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["team_id"] != float64(5) || body["position"] != float64(2) || body["role"] != "Wicket Keeper" {
			t.Errorf("unexpected body %s", raw)
		}
		writeJSON(t, w, http.StatusServiceUnavailable, map[string]any{"message": "try later"})
	}))
	defer srv.Close()

	client := newTestClient(t, srv, 3, resilience.BreakerConfig{})
	err := client.JoinTeam(context.Background(), "m-1", match.JoinTeamRequest{TeamID: "5", Position: 2, Role: "Wicket Keeper"})

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if reqErr.Message != "try later" || reqErr.Status != http.StatusServiceUnavailable {
		t.Fatalf("unexpected error: %+v", reqErr)
	}
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected dependency unavailable, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("mutations must not be retried, got %d calls", got)
	}
}

func TestGet_RetriesTransientFailuresWhenConfigured(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeJSON(t, w, http.StatusOK, map[string]any{"matches": []any{}})
	}))
	defer srv.Close()

	if _, err := newTestClient(t, srv, 2, resilience.BreakerConfig{}).ListMatches(context.Background(), match.Filter{}); err != nil {
		t.Fatalf("expected success after retries: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestGet_NoRetryByDefault(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, 0, resilience.BreakerConfig{}).ListMatches(context.Background(), match.Filter{})
	var reqErr *RequestError
	if !errors.As(err, &reqErr) || reqErr.Message != http.StatusText(http.StatusInternalServerError) {
		t.Fatalf("expected status text message, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", calls.Load())
	}
}

func TestErrors_MapStatusToKind(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, usecase.ErrUnauthorized},
		{http.StatusForbidden, usecase.ErrUnauthorized},
		{http.StatusNotFound, usecase.ErrNotFound},
		{http.StatusConflict, usecase.ErrRejected},
		{http.StatusBadRequest, usecase.ErrRejected},
		{http.StatusUnprocessableEntity, usecase.ErrRejected},
		{http.StatusTeapot, usecase.ErrDependencyUnavailable},
	}

	for _, tc := range tests {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, tc.status, map[string]any{"error": "Position already taken"})
			}))
			defer srv.Close()

			err := newTestClient(t, srv, 0, resilience.BreakerConfig{}).JoinMatch(context.Background(), "m-1")
			if !errors.Is(err, tc.want) {
				t.Fatalf("status %d: expected %v, got %v", tc.status, tc.want, err)
			}
			if !strings.Contains(err.Error(), "Position already taken") {
				t.Fatalf("expected server message in %q", err.Error())
			}
		})
	}
}

func TestBreaker_OpensOnTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := newTestClient(t, srv, 0, resilience.BreakerConfig{Enabled: true, FailureThreshold: 2, OpenTimeout: time.Minute})
	for i := 0; i < 2; i++ {
		_ = client.JoinMatch(context.Background(), "m-1")
	}

	err := client.JoinMatch(context.Background(), "m-1")
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected open breaker, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("breaker should block the third call, got %d calls", calls.Load())
	}
	if client.BreakerState().State != resilience.StateOpen {
		t.Fatalf("expected open state")
	}
}

func TestBreaker_IgnoresRejections(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	client := newTestClient(t, srv, 0, resilience.BreakerConfig{Enabled: true, FailureThreshold: 1})
	for i := 0; i < 3; i++ {
		if err := client.LeaveMatch(context.Background(), "m-1"); !errors.Is(err, usecase.ErrRejected) {
			t.Fatalf("call %d: expected rejection, got %v", i, err)
		}
	}
}

func TestNetworkFailureIsBestEffortMessage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(Config{BaseURL: url, Tokens: StaticToken("t"), Logger: logging.NewNop()})
	err := client.JoinMatch(context.Background(), "m-1")
	var reqErr *RequestError
	if !errors.As(err, &reqErr) || reqErr.Message != "network error" {
		t.Fatalf("expected network error, got %v", err)
	}
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected dependency unavailable")
	}
}

func TestTimeoutMessage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(Config{
		HTTPClient: &http.Client{Timeout: 20 * time.Millisecond},
		BaseURL:    srv.URL,
		Tokens:     StaticToken("t"),
		Logger:     logging.NewNop(),
	})
	err := client.JoinMatch(context.Background(), "m-1")
	var reqErr *RequestError
	if !errors.As(err, &reqErr) || reqErr.Message != "request timed out" {
		t.Fatalf("expected timeout message, got %v", err)
	}
}

func TestMissingTokenIsUnauthorized(t *testing.T) {
	t.Parallel()

	client := NewClient(Config{BaseURL: "http://127.0.0.1:1", Tokens: StaticToken(""), Logger: logging.NewNop()})
	if _, err := client.GetMatchTeams(context.Background(), "m-1"); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestCreateAndUpdateMatch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = sonic.Unmarshal(raw, &body)
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/matches":
			teams, _ := body["tournament_teams"].([]any)
			if body["match_type"] != "tournament" || len(teams) != 2 {
				t.Errorf("unexpected create body %s", raw)
			}
			if _, ok := body["team1_name"]; ok {
				t.Errorf("team1_name must be omitted for tournaments")
			}
			writeJSON(t, w, http.StatusCreated, map[string]any{"match": map[string]any{"id": 77, "title": body["title"]}})
		case r.Method == http.MethodPut && r.URL.Path == "/api/matches/77":
			writeJSON(t, w, http.StatusOK, map[string]any{"message": "updated"})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	client := newTestClient(t, srv, 0, resilience.BreakerConfig{})
	created, err := client.CreateMatch(context.Background(), match.Payload{
		Title:           "Cup",
		Type:            match.TypeTournament,
		TournamentTeams: []string{"A", "B"},
	})
	if err != nil || created.ID != "77" || created.Title != "Cup" {
		t.Fatalf("unexpected create result %+v %v", created, err)
	}

	updated, err := client.UpdateMatch(context.Background(), "77", match.Payload{Title: "Cup II", Type: match.TypeFriendly})
	if err != nil || updated.ID != "77" {
		t.Fatalf("unexpected update result %+v %v", updated, err)
	}
}

func TestGetProfile_AcceptsUserEnvelope(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"user": map[string]any{"id": 3, "username": "bob", "full_name": "Bob B"}})
	}))
	defer srv.Close()

	p, err := newTestClient(t, srv, 0, resilience.BreakerConfig{}).GetProfile(context.Background())
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p.UserID != "3" || p.Username != "bob" || p.DisplayName != "Bob B" || p.LoadedAt.IsZero() {
		t.Fatalf("unexpected profile %+v", p)
	}
}

func TestCurlPreviewMasksToken(t *testing.T) {
	preview := curlPreview(http.MethodPost, "https://api.example.test/api/matches/1/join", []byte(`{"it's":1}`))
	if strings.Contains(preview, "firebase-token") {
		t.Fatalf("token leaked: %s", preview)
	}
	if !strings.HasPrefix(preview, "curl -X POST 'https://api.example.test/api/matches/1/join'") {
		t.Fatalf("unexpected preview: %s", preview)
	}
	if !strings.Contains(preview, `-d '{"it'"'"'s":1}'`) {
		t.Fatalf("body not shell quoted: %s", preview)
	}
}

func TestGet_CancelledCallerDoesNotFailSharedRequest(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	arrived := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			close(arrived)
		}
		<-release
		writeJSON(t, w, http.StatusOK, map[string]any{"teams": []any{map[string]any{"id": "t1", "name": "Lions", "max_players": 2}}})
	}))
	defer srv.Close()
	defer func() {
		select {
		case <-release:
		default:
			close(release)
		}
	}()

	client := newTestClient(t, srv, 0, resilience.BreakerConfig{})

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := client.GetMatchTeams(firstCtx, "m-1")
		firstErr <- err
	}()
	<-arrived

	type result struct {
		teams []match.Team
		err   error
	}
	second := make(chan result, 1)
	go func() {
		teams, err := client.GetMatchTeams(context.Background(), "m-1")
		second <- result{teams, err}
	}()

	time.Sleep(20 * time.Millisecond)
	cancelFirst()
	err := <-firstErr
	var reqErr *RequestError
	if !errors.As(err, &reqErr) || reqErr.Message != "request cancelled" {
		t.Fatalf("cancelled caller should get a cancellation error, got %v", err)
	}
	close(release)

	got := <-second
	if got.err != nil {
		t.Fatalf("second caller failed: %v", got.err)
	}
	if len(got.teams) != 1 || got.teams[0].ID != "t1" {
		t.Fatalf("unexpected teams: %+v", got.teams)
	}
	if n := hits.Load(); n != 1 {
		t.Fatalf("expected one upstream request, got %d", n)
	}
}
