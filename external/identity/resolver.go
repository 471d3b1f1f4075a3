package identity

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/cricket-hub/internal/domain/user"
	"github.com/riskibarqy/cricket-hub/internal/platform/cache"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
	"github.com/riskibarqy/cricket-hub/internal/usecase"
)

// Resolver turns a bearer token into a principal. Firebase ID tokens are
// verified locally. Any other token is the client's fallback token and is
// accepted only once the cricket API confirms who it belongs to.
type Resolver struct {
	verifier  *Verifier
	profiles  usecase.ProfileGateway
	confirmed *cache.Store[user.Principal]
	logger    *logging.Logger
}

func NewResolver(verifier *Verifier, profiles usecase.ProfileGateway, cacheTTL time.Duration, logger *logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.Default()
	}
	return &Resolver{
		verifier:  verifier,
		profiles:  profiles,
		confirmed: cache.NewStore[user.Principal](cacheTTL),
		logger:    logger,
	}
}

func (r *Resolver) ResolveCredential(ctx context.Context, bearer string) (user.Principal, user.Credential, error) {
	bearer = strings.TrimSpace(bearer)
	if bearer == "" {
		return user.Principal{}, user.Credential{}, fmt.Errorf("%w: no credentials presented", usecase.ErrUnauthorized)
	}

	if r.verifier.Enabled() {
		p, err := r.verifier.VerifyAccessToken(ctx, bearer)
		if err == nil {
			return p, user.Credential{Token: bearer, Source: user.CredentialFirebase}, nil
		}
		r.logger.DebugContext(ctx, "bearer is not a firebase token, confirming with cricket api", "error", err)
	}

	cred := user.Credential{Token: bearer, Source: user.CredentialFallback}
	p, err := r.confirmed.GetOrLoad(ctx, hashToken(bearer), func(ctx context.Context) (user.Principal, error) {
		return r.confirm(ctx, cred)
	})
	if err != nil {
		return user.Principal{}, user.Credential{}, err
	}
	return p, cred, nil
}

func (r *Resolver) confirm(ctx context.Context, cred user.Credential) (user.Principal, error) {
	if r.profiles == nil {
		return user.Principal{}, fmt.Errorf("%w: fallback tokens are not accepted", usecase.ErrUnauthorized)
	}
	prof, err := r.profiles.GetProfile(WithCredential(ctx, cred))
	switch {
	case err == nil:
	case stderrors.Is(err, usecase.ErrUnauthorized), stderrors.Is(err, usecase.ErrNotFound):
		return user.Principal{}, fmt.Errorf("%w: token rejected by cricket api", usecase.ErrUnauthorized)
	case stderrors.Is(err, usecase.ErrDependencyUnavailable):
		return user.Principal{}, fmt.Errorf("confirm token: %w", err)
	default:
		return user.Principal{}, fmt.Errorf("%w: confirm token: %v", usecase.ErrDependencyUnavailable, err)
	}

	userID := strings.TrimSpace(prof.UserID)
	if userID == "" {
		return user.Principal{}, fmt.Errorf("%w: token has no user", usecase.ErrUnauthorized)
	}
	return user.Principal{
		UserID:   userID,
		Email:    prof.Email,
		Name:     prof.Label(),
		Provider: string(user.CredentialFallback),
	}, nil
}
