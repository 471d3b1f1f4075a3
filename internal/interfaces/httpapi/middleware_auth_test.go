package httpapi

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/cricket-hub/external/identity"
	"github.com/riskibarqy/cricket-hub/internal/domain/notification"
	"github.com/riskibarqy/cricket-hub/internal/domain/profile"
	matchmock "github.com/riskibarqy/cricket-hub/internal/mocks/domain/match"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
	"github.com/riskibarqy/cricket-hub/internal/usecase"
)

const authTestProject = "cricket-hub-test"

// upstreamProfiles answers GET /api/profile for the tokens it knows.
type upstreamProfiles map[string]profile.Profile

func (u upstreamProfiles) GetProfile(ctx context.Context) (profile.Profile, error) {
	cred, ok := identity.CredentialFromContext(ctx)
	if !ok {
		return profile.Profile{}, fmt.Errorf("%w: no credential", usecase.ErrUnauthorized)
	}
	p, ok := u[cred.Token]
	if !ok {
		return profile.Profile{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
	}
	return p, nil
}

func firebaseToken(t *testing.T, method jwt.SigningMethod, key any, sub string) string {
	t.Helper()
	now := time.Now()
	token, err := jwt.NewWithClaims(method, jwt.MapClaims{
		"sub": sub,
		"iss": "https://securetoken.google.com/" + authTestProject,
		"aud": authTestProject,
		"iat": now.Add(-time.Minute).Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestRequireAuth_WithIdentityResolver(t *testing.T) {
	signing, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	verifier := identity.NewVerifier(identity.VerifierConfig{
		ProjectID: authTestProject,
		Keys:      func(*jwt.Token) (any, error) { return &signing.PublicKey, nil },
		CacheTTL:  time.Minute,
	}, logging.NewNop())
	upstream := upstreamProfiles{"opaque-fallback": {UserID: "uid-7", Username: "carol"}}
	resolver := identity.NewResolver(verifier, upstream, time.Minute, logging.NewNop())

	api := newTestAPIWithResolver(t, matchmock.NewGateway(t), resolver)
	api.notifications.Notify(t.Context(), "victim-uid", notification.KindInfo, "Private", "private detail", "test")

	cases := []struct {
		name   string
		header map[string]string
		want   int
	}{
		{name: "self-signed hmac token", header: map[string]string{
			"Authorization": "Bearer " + firebaseToken(t, jwt.SigningMethodHS256, []byte("attacker-chosen-key"), "victim-uid"),
		}, want: http.StatusUnauthorized},
		{name: "token signed by another key", header: map[string]string{
			"Authorization": "Bearer " + firebaseToken(t, jwt.SigningMethodRS256, other, "victim-uid"),
		}, want: http.StatusUnauthorized},
		{name: "device header alone", header: map[string]string{"X-Device-ID": "victim-device"}, want: http.StatusUnauthorized},
		{name: "unconfirmed opaque token", header: map[string]string{"Authorization": "Bearer made-up"}, want: http.StatusUnauthorized},
		{name: "firebase token", header: map[string]string{
			"Authorization": "Bearer " + firebaseToken(t, jwt.SigningMethodRS256, signing, "uid-1"),
		}, want: http.StatusOK},
		{name: "confirmed fallback token", header: map[string]string{"Authorization": "Bearer opaque-fallback"}, want: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/notifications", nil)
			for k, v := range tc.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			api.router.ServeHTTP(rec, req)

			require.Equal(t, tc.want, rec.Code, "body=%s", rec.Body.String())
			require.NotContains(t, rec.Body.String(), "private detail")
		})
	}
}

func TestRouter_HasNoServerSideTokenStore(t *testing.T) {
	api := newTestAPI(t, matchmock.NewGateway(t))

	for _, method := range []string{http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/v1/session/fallback-token", nil)
		req.Header.Set("X-Device-ID", "victim-device")
		rec := httptest.NewRecorder()
		api.router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNotFound, rec.Code)
	}
}
