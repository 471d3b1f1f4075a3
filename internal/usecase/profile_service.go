package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/riskibarqy/cricket-hub/internal/domain/profile"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
	"github.com/riskibarqy/cricket-hub/internal/platform/resilience"
)

type ProfileGateway interface {
	GetProfile(ctx context.Context) (profile.Profile, error)
}

// ProfileService holds the current profile per user. It is loaded once on
// demand and kept until Clear.
type ProfileService struct {
	gateway ProfileGateway
	logger  *logging.Logger

	mu       sync.RWMutex
	profiles map[string]profile.Profile
	flight   resilience.Group[profile.Profile]
}

func NewProfileService(gateway ProfileGateway, logger *logging.Logger) *ProfileService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ProfileService{
		gateway:  gateway,
		logger:   logger,
		profiles: make(map[string]profile.Profile),
	}
}

func (s *ProfileService) Load(ctx context.Context, userID string) (profile.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.Load")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return profile.Profile{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if p, ok := s.Current(userID); ok {
		return p, nil
	}

	p, err, _ := s.flight.Do(ctx, userID, func(ctx context.Context) (profile.Profile, error) {
		if p, ok := s.Current(userID); ok {
			return p, nil
		}
		loaded, err := s.gateway.GetProfile(ctx)
		if err != nil {
			return profile.Profile{}, err
		}
		s.mu.Lock()
		s.profiles[userID] = loaded
		s.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return profile.Profile{}, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

func (s *ProfileService) Current(userID string) (profile.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	return p, ok
}

func (s *ProfileService) Clear(userID string) {
	s.mu.Lock()
	delete(s.profiles, userID)
	s.mu.Unlock()
}
