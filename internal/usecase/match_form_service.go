package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/cricket-hub/internal/domain/match"
	"github.com/riskibarqy/cricket-hub/internal/domain/notification"
	"github.com/riskibarqy/cricket-hub/internal/domain/wizard"
	"github.com/riskibarqy/cricket-hub/internal/platform/id"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
)

const sourceMatchForm = "match_form"

// ListInvalidator drops cached match lists after a match is written.
type ListInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

type MatchFormService struct {
	gateway  match.Gateway
	drafts   wizard.Repository
	ids      id.Generator
	notifier Notifier
	lists    ListInvalidator
	logger   *logging.Logger
	now      func() time.Time
}

func NewMatchFormService(
	gateway match.Gateway,
	drafts wizard.Repository,
	ids id.Generator,
	notifier Notifier,
	lists ListInvalidator,
	logger *logging.Logger,
) *MatchFormService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchFormService{
		gateway:  gateway,
		drafts:   drafts,
		ids:      ids,
		notifier: notifier,
		lists:    lists,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *MatchFormService) StartCreate(ctx context.Context, userID string) (wizard.Draft, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchFormService.StartCreate")
	defer span.End()

	return s.start(ctx, userID, wizard.ModeCreate, "", wizard.Form{Type: match.TypeFriendly})
}

// StartEdit opens an edit wizard prefilled from the current snapshot of matchID.
func (s *MatchFormService) StartEdit(ctx context.Context, userID, matchID string) (wizard.Draft, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchFormService.StartEdit")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return wizard.Draft{}, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}
	m, err := s.gateway.GetMatch(ctx, matchID)
	if err != nil {
		return wizard.Draft{}, fmt.Errorf("get match: %w", err)
	}
	return s.start(ctx, userID, wizard.ModeEdit, matchID, wizard.FormFromMatch(m))
}

func (s *MatchFormService) Get(ctx context.Context, userID, draftID string) (wizard.Draft, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchFormService.Get")
	defer span.End()

	return s.load(ctx, userID, draftID)
}

// Update applies patch without moving the draft or validating it.
func (s *MatchFormService) Update(ctx context.Context, userID, draftID string, patch wizard.Patch) (wizard.Draft, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchFormService.Update")
	defer span.End()

	d, err := s.load(ctx, userID, draftID)
	if err != nil {
		return wizard.Draft{}, err
	}
	d.Form = d.Form.Apply(patch)
	return s.save(ctx, d)
}

// Next validates the current step. A violation is stored on the draft and
// returned as ErrInvalidInput alongside the saved draft.
func (s *MatchFormService) Next(ctx context.Context, userID, draftID string) (wizard.Draft, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchFormService.Next")
	defer span.End()

	d, err := s.load(ctx, userID, draftID)
	if err != nil {
		return wizard.Draft{}, err
	}
	stepErr := d.Next()
	saved, err := s.save(ctx, d)
	if err != nil {
		return wizard.Draft{}, err
	}
	if stepErr != nil {
		return saved, fmt.Errorf("%w: %w", ErrInvalidInput, stepErr)
	}
	return saved, nil
}

func (s *MatchFormService) Back(ctx context.Context, userID, draftID string) (wizard.Draft, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchFormService.Back")
	defer span.End()

	d, err := s.load(ctx, userID, draftID)
	if err != nil {
		return wizard.Draft{}, err
	}
	d.Back()
	return s.save(ctx, d)
}

// Submit serialises the whole form once. On success the draft is removed;
// on failure it is kept with LastError set so the user can retry.
func (s *MatchFormService) Submit(ctx context.Context, userID, draftID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchFormService.Submit")
	defer span.End()

	d, err := s.load(ctx, userID, draftID)
	if err != nil {
		return match.Match{}, err
	}
	if readyErr := d.ReadyToSubmit(); readyErr != nil {
		if _, err := s.save(ctx, d); err != nil {
			return match.Match{}, err
		}
		return match.Match{}, fmt.Errorf("%w: %w", ErrInvalidInput, readyErr)
	}

	var (
		out     match.Match
		callErr error
		verb    = "create"
	)
	payload := d.Form.Payload()
	if d.Mode == wizard.ModeEdit {
		verb = "update"
		out, callErr = s.gateway.UpdateMatch(ctx, d.MatchID, payload)
	} else {
		out, callErr = s.gateway.CreateMatch(ctx, payload)
	}

	if callErr != nil {
		msg := errorMessage(callErr)
		d.LastError = msg
		if _, err := s.save(ctx, d); err != nil {
			s.logger.WarnContext(ctx, "persist failed submit state failed", "draft_id", d.ID, "error", err)
		}
		s.notify(ctx, d.UserID, notification.KindError, "Error", "Failed to "+verb+" match: "+msg)
		return match.Match{}, fmt.Errorf("%s match: %w", verb, callErr)
	}

	if err := s.drafts.Delete(ctx, d.ID); err != nil {
		s.logger.WarnContext(ctx, "delete submitted draft failed", "draft_id", d.ID, "error", err)
	}
	if s.lists != nil {
		s.lists.Invalidate(ctx, d.UserID)
	}
	if d.Mode == wizard.ModeEdit {
		s.notify(ctx, d.UserID, notification.KindSuccess, "Match updated", "Match updated successfully!")
	} else {
		s.notify(ctx, d.UserID, notification.KindSuccess, "Match created", "Match created successfully!")
	}
	return out, nil
}

func (s *MatchFormService) Discard(ctx context.Context, userID, draftID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchFormService.Discard")
	defer span.End()

	d, err := s.load(ctx, userID, draftID)
	if err != nil {
		return err
	}
	if err := s.drafts.Delete(ctx, d.ID); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

func (s *MatchFormService) start(ctx context.Context, userID string, mode wizard.Mode, matchID string, form wizard.Form) (wizard.Draft, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return wizard.Draft{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	draftID, err := s.ids.NewID()
	if err != nil {
		return wizard.Draft{}, fmt.Errorf("generate draft id: %w", err)
	}

	now := s.now().UTC()
	d := wizard.Draft{
		ID:        draftID,
		UserID:    userID,
		Mode:      mode,
		MatchID:   matchID,
		Step:      wizard.StepMatchDetails,
		Form:      form,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.drafts.Save(ctx, d); err != nil {
		return wizard.Draft{}, fmt.Errorf("save draft: %w", err)
	}
	return d, nil
}

// load fetches a draft owned by userID. Drafts of other users are reported
// as not found.
func (s *MatchFormService) load(ctx context.Context, userID, draftID string) (wizard.Draft, error) {
	userID = strings.TrimSpace(userID)
	draftID = strings.TrimSpace(draftID)
	if userID == "" || draftID == "" {
		return wizard.Draft{}, fmt.Errorf("%w: user_id and draft_id are required", ErrInvalidInput)
	}

	d, ok, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return wizard.Draft{}, fmt.Errorf("get draft: %w", err)
	}
	if !ok || d.UserID != userID {
		return wizard.Draft{}, fmt.Errorf("%w: draft %s", ErrNotFound, draftID)
	}
	return d, nil
}

func (s *MatchFormService) save(ctx context.Context, d wizard.Draft) (wizard.Draft, error) {
	d.UpdatedAt = s.now().UTC()
	if err := s.drafts.Save(ctx, d); err != nil {
		return wizard.Draft{}, fmt.Errorf("save draft: %w", err)
	}
	return d, nil
}

func (s *MatchFormService) notify(ctx context.Context, userID string, kind notification.Kind, title, message string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, userID, kind, title, message, sourceMatchForm)
}
