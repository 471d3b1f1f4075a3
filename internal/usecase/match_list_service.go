package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/cricket-hub/internal/domain/match"
	"github.com/riskibarqy/cricket-hub/internal/domain/notification"
	"github.com/riskibarqy/cricket-hub/internal/domain/profile"
	"github.com/riskibarqy/cricket-hub/internal/platform/cache"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

const (
	defaultRosterWorkers = 4
	maxRosterWorkers     = 32

	sourceMatchList = "match_list"
)

// ProfileLoader resolves the current profile of a user.
type ProfileLoader interface {
	Load(ctx context.Context, userID string) (profile.Profile, error)
}

type MatchView struct {
	match.Match
	IsLive    bool
	IsCreator bool
	// Roster is only set by ListWithRosters; nil means not hydrated.
	Roster []match.Team
}

type MatchListView struct {
	Matches   []MatchView
	Filter    match.Filter
	FetchedAt time.Time
}

type MatchListServiceConfig struct {
	CacheEnabled  bool
	CacheTTL      time.Duration
	RosterWorkers int
}

type MatchListService struct {
	gateway  match.Gateway
	profiles ProfileLoader
	notifier Notifier
	logger   *logging.Logger
	cfg      MatchListServiceConfig
	lists    *cache.Store[[]match.Match]
	now      func() time.Time
}

func NewMatchListService(
	gateway match.Gateway,
	profiles ProfileLoader,
	notifier Notifier,
	cfg MatchListServiceConfig,
	logger *logging.Logger,
) *MatchListService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.RosterWorkers <= 0 {
		cfg.RosterWorkers = defaultRosterWorkers
	}
	cfg.RosterWorkers = min(cfg.RosterWorkers, maxRosterWorkers)

	svc := &MatchListService{
		gateway:  gateway,
		profiles: profiles,
		notifier: notifier,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
	}
	if cfg.CacheEnabled {
		svc.lists = cache.NewStore[[]match.Match](cfg.CacheTTL)
	}
	return svc
}

func (s *MatchListService) List(ctx context.Context, userID string, filter match.Filter) (MatchListView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchListService.List")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return MatchListView{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	filter = filter.Normalize()

	var (
		page []match.Match
		live []match.Match
	)
	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		items, err := s.fetch(ctx, userID, filter)
		if err != nil {
			return fmt.Errorf("list matches: %w", err)
		}
		page = items
		return nil
	})
	if filter.Status != match.StatusLive {
		p.Go(func(ctx context.Context) error {
			items, err := s.fetch(ctx, userID, liveFilter())
			if err != nil {
				// Live badges are decoration; the page itself still renders.
				s.logger.WarnContext(ctx, "fetch live matches failed", "user_id", userID, "error", err)
				return nil
			}
			live = items
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return MatchListView{}, err
	}

	liveIDs := make(map[string]struct{}, len(live))
	for _, m := range live {
		liveIDs[m.ID] = struct{}{}
	}

	creatorID := s.currentUserID(ctx, userID)
	views := make([]MatchView, 0, len(page))
	for _, m := range page {
		_, isLive := liveIDs[m.ID]
		views = append(views, MatchView{
			Match:     m,
			IsLive:    isLive || m.Status == match.StatusLive,
			IsCreator: creatorID != "" && m.CreatorID == creatorID,
		})
	}

	return MatchListView{
		Matches:   views,
		Filter:    filter,
		FetchedAt: s.now().UTC(),
	}, nil
}

// ListWithRosters is List plus each match's teams, fetched on a bounded
// worker pool. A match whose roster fails to load is returned without one.
func (s *MatchListService) ListWithRosters(ctx context.Context, userID string, filter match.Filter) (MatchListView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchListService.ListWithRosters")
	defer span.End()

	view, err := s.List(ctx, userID, filter)
	if err != nil {
		return MatchListView{}, err
	}
	if len(view.Matches) == 0 {
		return view, nil
	}

	workerCount := min(s.cfg.RosterWorkers, len(view.Matches))
	rosterPool, err := ants.NewPool(workerCount)
	if err != nil {
		return MatchListView{}, fmt.Errorf("create roster worker pool: %w", err)
	}
	defer rosterPool.Release()

	var (
		workers sync.WaitGroup
		failed  int
		mu      sync.Mutex
	)
	for i := range view.Matches {
		idx := i
		workers.Add(1)
		if err := rosterPool.Submit(func() {
			defer workers.Done()

			teams, err := s.gateway.GetMatchTeams(ctx, view.Matches[idx].ID)
			if err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
				s.logger.WarnContext(ctx, "hydrate roster failed",
					"match_id", view.Matches[idx].ID,
					"error", err,
				)
				return
			}
			view.Matches[idx].Roster = teams
		}); err != nil {
			workers.Done()
			workers.Wait()
			return MatchListView{}, fmt.Errorf("submit roster task: %w", err)
		}
	}
	workers.Wait()

	if failed > 0 {
		s.logger.InfoContext(ctx, "roster hydration finished with failures",
			"user_id", userID,
			"matches", len(view.Matches),
			"failed", failed,
		)
	}
	return view, nil
}

func (s *MatchListService) Join(ctx context.Context, userID, matchID string, filter match.Filter) (MatchListView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchListService.Join")
	defer span.End()

	return s.mutate(ctx, userID, matchID, filter, mutation{
		call:           s.gateway.JoinMatch,
		successTitle:   "Joined match",
		successMessage: "You have joined the match.",
		failurePrefix:  "Failed to join match",
	})
}

func (s *MatchListService) Leave(ctx context.Context, userID, matchID string, filter match.Filter) (MatchListView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchListService.Leave")
	defer span.End()

	return s.mutate(ctx, userID, matchID, filter, mutation{
		call:           s.gateway.LeaveMatch,
		successTitle:   "Left match",
		successMessage: "You have left the match.",
		failurePrefix:  "Failed to leave match",
	})
}

func (s *MatchListService) Delete(ctx context.Context, userID, matchID string, filter match.Filter) (MatchListView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchListService.Delete")
	defer span.End()

	return s.mutate(ctx, userID, matchID, filter, mutation{
		call:           s.gateway.DeleteMatch,
		successTitle:   "Match deleted",
		successMessage: "The match has been deleted.",
		failurePrefix:  "Failed to delete match",
	})
}

// Invalidate drops every cached list page of userID.
func (s *MatchListService) Invalidate(ctx context.Context, userID string) {
	if s.lists == nil {
		return
	}
	s.lists.DeletePrefix(ctx, listCachePrefix(userID))
}

type mutation struct {
	call           func(ctx context.Context, matchID string) error
	successTitle   string
	successMessage string
	failurePrefix  string
}

// mutate issues exactly one upstream call and always refetches, so the
// caller only ever sees server state.
func (s *MatchListService) mutate(ctx context.Context, userID, matchID string, filter match.Filter, m mutation) (MatchListView, error) {
	userID = strings.TrimSpace(userID)
	matchID = strings.TrimSpace(matchID)
	if userID == "" || matchID == "" {
		return MatchListView{}, fmt.Errorf("%w: user_id and match_id are required", ErrInvalidInput)
	}

	callErr := m.call(ctx, matchID)
	if callErr != nil {
		s.notify(ctx, userID, notification.KindError, "Error", m.failurePrefix+": "+errorMessage(callErr))
	} else {
		s.notify(ctx, userID, notification.KindSuccess, m.successTitle, m.successMessage)
	}

	s.Invalidate(ctx, userID)
	view, err := s.List(ctx, userID, filter)
	if callErr != nil {
		if err != nil {
			s.logger.WarnContext(ctx, "refetch after failed mutation failed", "match_id", matchID, "error", err)
		}
		return view, fmt.Errorf("%s: %w", strings.ToLower(m.failurePrefix), callErr)
	}
	if err != nil {
		return MatchListView{}, fmt.Errorf("refetch matches: %w", err)
	}
	return view, nil
}

func (s *MatchListService) fetch(ctx context.Context, userID string, filter match.Filter) ([]match.Match, error) {
	if s.lists == nil {
		return s.gateway.ListMatches(ctx, filter)
	}
	return s.lists.GetOrLoad(ctx, listCacheKey(userID, filter), func(ctx context.Context) ([]match.Match, error) {
		return s.gateway.ListMatches(ctx, filter)
	})
}

func (s *MatchListService) currentUserID(ctx context.Context, userID string) string {
	if s.profiles == nil {
		return userID
	}
	p, err := s.profiles.Load(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "load current profile failed, creator flags fall back to principal", "user_id", userID, "error", err)
		return userID
	}
	if p.UserID == "" {
		return userID
	}
	return p.UserID
}

func (s *MatchListService) notify(ctx context.Context, userID string, kind notification.Kind, title, message string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, userID, kind, title, message, sourceMatchList)
}

func liveFilter() match.Filter {
	return match.Filter{Status: match.StatusLive, Page: 1, PerPage: match.MaxPerPage}
}

func listCachePrefix(userID string) string {
	return "matches|" + userID + "|"
}

func listCacheKey(userID string, f match.Filter) string {
	return listCachePrefix(userID) + string(f.Status) + "|" + string(f.Type) + "|" +
		strconv.Itoa(f.Page) + "|" + strconv.Itoa(f.PerPage)
}

// errorMessage is the user-facing text of err: the innermost message an
// upstream call reported, without wrapping prefixes.
func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	var msg interface{ UserMessage() string }
	if errors.As(err, &msg) {
		if v := strings.TrimSpace(msg.UserMessage()); v != "" {
			return v
		}
	}
	return err.Error()
}
