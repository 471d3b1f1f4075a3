package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultJWKSURL publishes the keys Firebase signs ID tokens with.
const DefaultJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

// NewRemoteKeys returns a jwt.Keyfunc backed by the JWK set at jwksURL. The
// set is refreshed in the background until ctx is cancelled.
func NewRemoteKeys(ctx context.Context, jwksURL string) (jwt.Keyfunc, error) {
	jwksURL = strings.TrimSpace(jwksURL)
	if jwksURL == "" {
		jwksURL = DefaultJWKSURL
	}
	k, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("load signing keys from %s: %w", jwksURL, err)
	}
	return k.Keyfunc, nil
}
