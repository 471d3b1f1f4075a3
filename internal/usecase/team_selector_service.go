package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/cricket-hub/internal/domain/match"
	"github.com/riskibarqy/cricket-hub/internal/domain/notification"
	"github.com/riskibarqy/cricket-hub/internal/platform/cache"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
)

const (
	sourceTeamSelector = "team_selector"

	emptyTeamsMessage = "No teams available for this match yet"
)

// ReconcilePolicy decides what happens to the selector snapshot after a
// successful join.
type ReconcilePolicy string

const (
	ReconcileRefetch ReconcilePolicy = "refetch"
	ReconcileLocal   ReconcilePolicy = "local"
)

type Selection struct {
	TeamID   string
	Position int
}

type TeamView struct {
	ID             string
	Name           string
	CurrentPlayers int
	MaxPlayers     int
	Full           bool
	Positions      []match.PositionView
}

type SelectorView struct {
	MatchID      string
	Teams        []TeamView
	Selected     *Selection
	Empty        bool
	EmptyMessage string
	RefreshedAt  time.Time
}

type selectorSession struct {
	matchID     string
	teams       []match.Team
	selected    *Selection
	refreshedAt time.Time
}

type TeamSelectorService struct {
	gateway  match.Gateway
	profiles ProfileLoader
	notifier Notifier
	lists    ListInvalidator
	policy   ReconcilePolicy
	logger   *logging.Logger
	sessions *cache.Store[selectorSession]
	now      func() time.Time

	mu sync.Mutex
}

func NewTeamSelectorService(
	gateway match.Gateway,
	profiles ProfileLoader,
	notifier Notifier,
	lists ListInvalidator,
	policy ReconcilePolicy,
	sessionTTL time.Duration,
	logger *logging.Logger,
) *TeamSelectorService {
	if logger == nil {
		logger = logging.Default()
	}
	if policy != ReconcileLocal {
		policy = ReconcileRefetch
	}
	return &TeamSelectorService{
		gateway:  gateway,
		profiles: profiles,
		notifier: notifier,
		lists:    lists,
		policy:   policy,
		logger:   logger,
		sessions: cache.NewStore[selectorSession](sessionTTL),
		now:      time.Now,
	}
}

// Open fetches the authoritative teams of matchID and starts a fresh
// session, replacing any previous one for the same user and match.
func (s *TeamSelectorService) Open(ctx context.Context, userID, matchID string) (SelectorView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamSelectorService.Open")
	defer span.End()

	key, err := selectorKey(userID, matchID)
	if err != nil {
		return SelectorView{}, err
	}

	teams, err := s.gateway.GetMatchTeams(ctx, strings.TrimSpace(matchID))
	if err != nil {
		return SelectorView{}, fmt.Errorf("get match teams: %w", err)
	}

	sess := selectorSession{matchID: strings.TrimSpace(matchID), teams: teams, refreshedAt: s.now().UTC()}
	s.mu.Lock()
	s.sessions.Set(ctx, key, sess)
	s.mu.Unlock()
	return sess.view(), nil
}

func (s *TeamSelectorService) View(ctx context.Context, userID, matchID string) (SelectorView, error) {
	key, err := selectorKey(userID, matchID)
	if err != nil {
		return SelectorView{}, err
	}
	sess, ok := s.sessions.Get(ctx, key)
	if !ok {
		return SelectorView{}, fmt.Errorf("%w: team selector is not open for match %s", ErrNotFound, matchID)
	}
	return sess.view(), nil
}

// Select records the chosen slot. Only slots rendered available can be
// chosen; choosing again replaces the previous selection.
func (s *TeamSelectorService) Select(ctx context.Context, userID, matchID, teamID string, position int) (SelectorView, error) {
	key, err := selectorKey(userID, matchID)
	if err != nil {
		return SelectorView{}, err
	}
	teamID = strings.TrimSpace(teamID)

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions.Get(ctx, key)
	if !ok {
		return SelectorView{}, fmt.Errorf("%w: team selector is not open for match %s", ErrNotFound, matchID)
	}
	team, ok := sess.team(teamID)
	if !ok {
		return SelectorView{}, fmt.Errorf("%w: team %s is not part of match %s", ErrInvalidInput, teamID, matchID)
	}
	if !team.CanSelect(position) {
		return SelectorView{}, fmt.Errorf("%w: position %d of team %s is not available", ErrInvalidInput, position, teamID)
	}

	sess.selected = &Selection{TeamID: teamID, Position: position}
	s.sessions.Set(ctx, key, sess)
	return sess.view(), nil
}

// Confirm sends the join for the current selection. confirmed=false means
// the user declined the confirmation prompt and nothing is sent.
func (s *TeamSelectorService) Confirm(ctx context.Context, userID, matchID string, confirmed bool) (SelectorView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamSelectorService.Confirm")
	defer span.End()

	key, err := selectorKey(userID, matchID)
	if err != nil {
		return SelectorView{}, err
	}
	matchID = strings.TrimSpace(matchID)

	sess, ok := s.sessions.Get(ctx, key)
	if !ok {
		return SelectorView{}, fmt.Errorf("%w: team selector is not open for match %s", ErrNotFound, matchID)
	}
	if sess.selected == nil {
		return sess.view(), fmt.Errorf("%w: select a position first", ErrInvalidInput)
	}
	if !confirmed {
		return sess.view(), nil
	}

	sel := *sess.selected
	joinErr := s.gateway.JoinTeam(ctx, matchID, match.JoinTeamRequest{
		TeamID:   sel.TeamID,
		Position: sel.Position,
		Role:     match.PositionName(sel.Position),
	})
	s.invalidateLists(ctx, userID)
	if joinErr != nil {
		s.notify(ctx, userID, notification.KindError, "Error", "Failed to join team: "+errorMessage(joinErr))
		s.mu.Lock()
		if cur, ok := s.sessions.Get(ctx, key); ok {
			cur.selected = nil
			s.sessions.Set(ctx, key, cur)
			sess = cur
		}
		s.mu.Unlock()
		return sess.view(), fmt.Errorf("join team: %w", joinErr)
	}

	s.notify(ctx, userID, notification.KindSuccess, "Joined team",
		fmt.Sprintf("You joined as %s.", match.PositionName(sel.Position)))

	var teams []match.Team
	if s.policy == ReconcileLocal {
		teams = s.applyLocalJoin(ctx, userID, sess.teams, sel)
	} else {
		teams, err = s.gateway.GetMatchTeams(ctx, matchID)
		if err != nil {
			s.logger.WarnContext(ctx, "refetch teams after join failed, keeping previous snapshot",
				"match_id", matchID,
				"error", err,
			)
			teams = sess.teams
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.sessions.Get(ctx, key)
	if !ok {
		cur = sess
	}
	cur.teams = teams
	cur.selected = nil
	cur.refreshedAt = s.now().UTC()
	s.sessions.Set(ctx, key, cur)
	return cur.view(), nil
}

func (s *TeamSelectorService) Close(ctx context.Context, userID, matchID string) error {
	key, err := selectorKey(userID, matchID)
	if err != nil {
		return err
	}
	s.sessions.Delete(ctx, key)
	return nil
}

func (s *TeamSelectorService) applyLocalJoin(ctx context.Context, userID string, teams []match.Team, sel Selection) []match.Team {
	participant := match.Participant{
		UserID:   userID,
		Position: sel.Position,
		Role:     match.PositionName(sel.Position),
	}
	if s.profiles != nil {
		if p, err := s.profiles.Load(ctx, userID); err == nil {
			if p.UserID != "" {
				participant.UserID = p.UserID
			}
			participant.Username = p.Label()
		}
	}

	out := make([]match.Team, len(teams))
	for i, t := range teams {
		if t.ID == sel.TeamID {
			t = t.WithJoined(participant)
		}
		out[i] = t
	}
	return out
}

// invalidateLists runs after every join attempt: a failed join may still have
// changed state upstream.
func (s *TeamSelectorService) invalidateLists(ctx context.Context, userID string) {
	if s.lists == nil {
		return
	}
	s.lists.Invalidate(ctx, userID)
}

func (s *TeamSelectorService) notify(ctx context.Context, userID string, kind notification.Kind, title, message string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, userID, kind, title, message, sourceTeamSelector)
}

func selectorKey(userID, matchID string) (string, error) {
	userID = strings.TrimSpace(userID)
	matchID = strings.TrimSpace(matchID)
	if userID == "" || matchID == "" {
		return "", fmt.Errorf("%w: user_id and match_id are required", ErrInvalidInput)
	}
	return userID + "|" + matchID, nil
}

func (s selectorSession) team(teamID string) (match.Team, bool) {
	for _, t := range s.teams {
		if t.ID == teamID {
			return t, true
		}
	}
	return match.Team{}, false
}

func (s selectorSession) view() SelectorView {
	v := SelectorView{
		MatchID:     s.matchID,
		Teams:       make([]TeamView, 0, len(s.teams)),
		RefreshedAt: s.refreshedAt,
	}
	for _, t := range s.teams {
		v.Teams = append(v.Teams, TeamView{
			ID:             t.ID,
			Name:           t.Name,
			CurrentPlayers: t.CurrentPlayers,
			MaxPlayers:     t.MaxPlayers,
			Full:           t.IsFull(),
			Positions:      t.PositionStates(),
		})
	}
	if s.selected != nil {
		sel := *s.selected
		v.Selected = &sel
	}
	if len(s.teams) == 0 {
		v.Empty = true
		v.EmptyMessage = emptyTeamsMessage
	}
	return v
}
