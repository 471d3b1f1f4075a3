package identity

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/cricket-hub/internal/domain/profile"
	"github.com/riskibarqy/cricket-hub/internal/domain/user"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
	"github.com/riskibarqy/cricket-hub/internal/usecase"
)

const testProject = "cricket-hub-test"

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

var testKey = func() *rsa.PrivateKey {
	k, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic(err)
	}
	return k
}()

func firebaseClaimsAt(sub string, exp time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"sub": sub,
		"iss": firebaseIssuerPrefix + testProject,
		"aud": testProject,
		"iat": testNow.Add(-time.Minute).Unix(),
		"exp": exp.Unix(),
	}
}

func signRS256(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func newTestVerifier() *Verifier {
	v := NewVerifier(VerifierConfig{
		ProjectID: testProject,
		Keys:      func(*jwt.Token) (any, error) { return &testKey.PublicKey, nil },
		CacheTTL:  time.Minute,
	}, logging.NewNop())
	v.now = func() time.Time { return testNow }
	return v
}

type upstreamProfiles struct {
	calls    atomic.Int32
	profiles map[string]profile.Profile
	err      error
}

func (u *upstreamProfiles) GetProfile(ctx context.Context) (profile.Profile, error) {
	u.calls.Add(1)
	if u.err != nil {
		return profile.Profile{}, u.err
	}
	cred, ok := CredentialFromContext(ctx)
	if !ok {
		return profile.Profile{}, fmt.Errorf("%w: no credential", usecase.ErrUnauthorized)
	}
	p, ok := u.profiles[cred.Token]
	if !ok {
		return profile.Profile{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
	}
	return p, nil
}

func TestVerifier_AcceptsFirebaseToken(t *testing.T) {
	claims := firebaseClaimsAt("uid-1", testNow.Add(time.Hour))
	claims["email"] = "a@example.test"
	claims["name"] = "Alice"
	claims["firebase"] = map[string]any{"sign_in_provider": "google.com"}

	p, err := newTestVerifier().VerifyAccessToken(context.Background(), signRS256(t, testKey, claims))
	require.NoError(t, err)
	require.Equal(t, "uid-1", p.UserID)
	require.Equal(t, "google.com", p.Provider)
	require.Equal(t, "Alice", p.Name)
}

func TestVerifier_Rejects(t *testing.T) {
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{name: "empty", token: func(*testing.T) string { return " " }},
		{name: "garbage", token: func(*testing.T) string { return "not-a-jwt" }},
		{name: "hmac signed", token: func(t *testing.T) string {
			token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, firebaseClaimsAt("victim", testNow.Add(time.Hour))).
				SignedString([]byte("attacker-chosen-key"))
			require.NoError(t, err)
			return token
		}},
		{name: "unsigned", token: func(t *testing.T) string {
			token, err := jwt.NewWithClaims(jwt.SigningMethodNone, firebaseClaimsAt("victim", testNow.Add(time.Hour))).
				SignedString(jwt.UnsafeAllowNoneSignatureType)
			require.NoError(t, err)
			return token
		}},
		{name: "foreign key", token: func(t *testing.T) string {
			return signRS256(t, otherKey, firebaseClaimsAt("victim", testNow.Add(time.Hour)))
		}},
		{name: "wrong audience", token: func(t *testing.T) string {
			claims := firebaseClaimsAt("uid", testNow.Add(time.Hour))
			claims["aud"] = "another-project"
			return signRS256(t, testKey, claims)
		}},
		{name: "wrong issuer", token: func(t *testing.T) string {
			claims := firebaseClaimsAt("uid", testNow.Add(time.Hour))
			claims["iss"] = "https://issuer.example.test"
			return signRS256(t, testKey, claims)
		}},
		{name: "no subject", token: func(t *testing.T) string {
			return signRS256(t, testKey, firebaseClaimsAt("", testNow.Add(time.Hour)))
		}},
		{name: "no expiry", token: func(t *testing.T) string {
			claims := firebaseClaimsAt("uid", testNow)
			delete(claims, "exp")
			return signRS256(t, testKey, claims)
		}},
		{name: "expired", token: func(t *testing.T) string {
			return signRS256(t, testKey, firebaseClaimsAt("uid", testNow.Add(-time.Minute)))
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newTestVerifier().VerifyAccessToken(context.Background(), tc.token(t))
			require.ErrorIs(t, err, usecase.ErrUnauthorized)
		})
	}
}

func TestVerifier_DisabledWithoutProject(t *testing.T) {
	v := NewVerifier(VerifierConfig{CacheTTL: time.Minute}, logging.NewNop())
	require.False(t, v.Enabled())

	_, err := v.VerifyAccessToken(context.Background(), signRS256(t, testKey, firebaseClaimsAt("uid", testNow.Add(time.Hour))))
	require.ErrorIs(t, err, usecase.ErrUnauthorized)
}

func TestVerifier_CachedPrincipalStillHonoursExpiry(t *testing.T) {
	v := newTestVerifier()
	token := signRS256(t, testKey, firebaseClaimsAt("uid-1", testNow.Add(30*time.Second)))

	_, err := v.VerifyAccessToken(context.Background(), token)
	require.NoError(t, err)

	v.now = func() time.Time { return testNow.Add(45 * time.Second) }
	_, err = v.VerifyAccessToken(context.Background(), token)
	require.ErrorIs(t, err, usecase.ErrUnauthorized)
}

func TestResolver_FirebaseTokenSkipsUpstream(t *testing.T) {
	upstream := &upstreamProfiles{}
	r := NewResolver(newTestVerifier(), upstream, time.Minute, logging.NewNop())
	token := signRS256(t, testKey, firebaseClaimsAt("uid-1", testNow.Add(time.Hour)))

	p, cred, err := r.ResolveCredential(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "uid-1", p.UserID)
	require.Equal(t, user.CredentialFirebase, cred.Source)
	require.Zero(t, upstream.calls.Load())
}

func TestResolver_FallbackTokenIsConfirmedUpstream(t *testing.T) {
	upstream := &upstreamProfiles{profiles: map[string]profile.Profile{
		"opaque-token": {UserID: "uid-9", DisplayName: "Dana"},
	}}
	r := NewResolver(newTestVerifier(), upstream, time.Minute, logging.NewNop())

	for range 3 {
		p, cred, err := r.ResolveCredential(context.Background(), "opaque-token")
		require.NoError(t, err)
		require.Equal(t, "uid-9", p.UserID)
		require.Equal(t, "Dana", p.Name)
		require.Equal(t, string(user.CredentialFallback), p.Provider)
		require.Equal(t, user.Credential{Token: "opaque-token", Source: user.CredentialFallback}, cred)
	}
	require.EqualValues(t, 1, upstream.calls.Load(), "confirmed tokens are cached")
}

func TestResolver_ForgedFirebaseTokenIsNotTrusted(t *testing.T) {
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, firebaseClaimsAt("victim-uid", testNow.Add(time.Hour))).
		SignedString([]byte("attacker-chosen-key"))
	require.NoError(t, err)

	r := NewResolver(newTestVerifier(), &upstreamProfiles{}, time.Minute, logging.NewNop())
	_, _, err = r.ResolveCredential(context.Background(), forged)
	require.ErrorIs(t, err, usecase.ErrUnauthorized)
}

func TestResolver_WithoutVerifierEveryTokenIsConfirmed(t *testing.T) {
	token := signRS256(t, testKey, firebaseClaimsAt("claimed-uid", testNow.Add(time.Hour)))
	upstream := &upstreamProfiles{profiles: map[string]profile.Profile{token: {UserID: "uid-upstream"}}}
	r := NewResolver(NewVerifier(VerifierConfig{}, logging.NewNop()), upstream, time.Minute, logging.NewNop())

	p, _, err := r.ResolveCredential(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "uid-upstream", p.UserID)
}

func TestResolver_Errors(t *testing.T) {
	tests := []struct {
		name     string
		bearer   string
		upstream *upstreamProfiles
		want     error
	}{
		{name: "no bearer", bearer: " ", upstream: &upstreamProfiles{}, want: usecase.ErrUnauthorized},
		{name: "unknown token", bearer: "made-up", upstream: &upstreamProfiles{}, want: usecase.ErrUnauthorized},
		{name: "profile without user", bearer: "tok", upstream: &upstreamProfiles{profiles: map[string]profile.Profile{"tok": {}}}, want: usecase.ErrUnauthorized},
		{name: "api down", bearer: "tok", upstream: &upstreamProfiles{err: fmt.Errorf("%w: 503", usecase.ErrDependencyUnavailable)}, want: usecase.ErrDependencyUnavailable},
		{name: "unexpected failure", bearer: "tok", upstream: &upstreamProfiles{err: errors.New("boom")}, want: usecase.ErrDependencyUnavailable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := NewResolver(newTestVerifier(), tc.upstream, time.Minute, logging.NewNop())
			_, _, err := r.ResolveCredential(context.Background(), tc.bearer)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestNewRemoteKeys_VerifiesAgainstPublishedSet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"keys":[{"kty":"RSA","kid":"k1","alg":"RS256","use":"sig","n":%q,"e":"AQAB"}]}`,
			base64URL(testKey.PublicKey.N.Bytes()))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	keys, err := NewRemoteKeys(ctx, srv.URL)
	require.NoError(t, err)

	v := NewVerifier(VerifierConfig{ProjectID: testProject, Keys: keys, CacheTTL: time.Minute}, logging.NewNop())
	v.now = func() time.Time { return testNow }

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, firebaseClaimsAt("uid-1", testNow.Add(time.Hour)))
	token.Header["kid"] = "k1"
	signed, err := token.SignedString(testKey)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		p, err := v.VerifyAccessToken(context.Background(), signed)
		return err == nil && p.UserID == "uid-1"
	}, 2*time.Second, 20*time.Millisecond)
}

func TestContextTokenSource(t *testing.T) {
	_, err := ContextTokenSource{}.Token(context.Background())
	require.ErrorIs(t, err, usecase.ErrUnauthorized)

	ctx := WithCredential(context.Background(), user.Credential{Token: "abc", Source: user.CredentialFirebase})
	token, err := ContextTokenSource{}.Token(ctx)
	require.NoError(t, err)
	require.Equal(t, "abc", token)
}

func base64URL(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}
