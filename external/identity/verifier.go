package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/riskibarqy/cricket-hub/internal/domain/user"
	"github.com/riskibarqy/cricket-hub/internal/platform/cache"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
	"github.com/riskibarqy/cricket-hub/internal/usecase"
)

const firebaseIssuerPrefix = "https://securetoken.google.com/"

// firebaseClaims is the subset of a Firebase ID token this service reads.
type firebaseClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Firebase struct {
		SignInProvider string `json:"sign_in_provider"`
	} `json:"firebase"`
}

type VerifierConfig struct {
	// ProjectID is the Firebase project the tokens must be issued for. An
	// empty ProjectID disables local verification.
	ProjectID string
	Keys      jwt.Keyfunc
	CacheTTL  time.Duration
}

// Verifier checks Firebase ID tokens: RS256 signature against Google's
// published keys, issuer, audience and expiry.
type Verifier struct {
	projectID string
	keys      jwt.Keyfunc
	parser    *jwt.Parser
	cache     *cache.Store[user.Principal]
	logger    *logging.Logger
	now       func() time.Time
}

func NewVerifier(cfg VerifierConfig, logger *logging.Logger) *Verifier {
	if logger == nil {
		logger = logging.Default()
	}
	v := &Verifier{
		projectID: strings.TrimSpace(cfg.ProjectID),
		keys:      cfg.Keys,
		cache:     cache.NewStore[user.Principal](cfg.CacheTTL),
		logger:    logger,
		now:       time.Now,
	}
	v.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(firebaseIssuerPrefix+v.projectID),
		jwt.WithAudience(v.projectID),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(func() time.Time { return v.now() }),
	)
	return v
}

func (v *Verifier) Enabled() bool {
	return v != nil && v.projectID != "" && v.keys != nil
}

func (v *Verifier) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	if !v.Enabled() {
		return user.Principal{}, fmt.Errorf("%w: firebase verification is not configured", usecase.ErrUnauthorized)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	key := hashToken(token)
	if p, ok := v.cache.Get(ctx, key); ok {
		if p.ExpiresAt.After(v.now()) {
			return p, nil
		}
		v.cache.Delete(ctx, key)
		return user.Principal{}, fmt.Errorf("%w: token expired", usecase.ErrUnauthorized)
	}

	p, err := v.parse(token)
	if err != nil {
		v.logger.DebugContext(ctx, "reject firebase token", "error", err)
		return user.Principal{}, err
	}
	v.cache.Set(ctx, key, p)
	return p, nil
}

func (v *Verifier) parse(token string) (user.Principal, error) {
	var claims firebaseClaims
	if _, err := v.parser.ParseWithClaims(token, &claims, v.keys); err != nil {
		return user.Principal{}, fmt.Errorf("%w: invalid firebase token: %v", usecase.ErrUnauthorized, err)
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		subject = strings.TrimSpace(claims.UserID)
	}
	if subject == "" {
		return user.Principal{}, fmt.Errorf("%w: token has no subject", usecase.ErrUnauthorized)
	}

	provider := claims.Firebase.SignInProvider
	if provider == "" {
		provider = string(user.CredentialFirebase)
	}
	return user.Principal{
		UserID:    subject,
		Email:     claims.Email,
		Name:      claims.Name,
		Provider:  provider,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
