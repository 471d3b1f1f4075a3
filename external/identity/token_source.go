package identity

import (
	"context"
	"fmt"

	"github.com/riskibarqy/cricket-hub/internal/domain/user"
	"github.com/riskibarqy/cricket-hub/internal/usecase"
)

type credentialKey struct{}

func WithCredential(ctx context.Context, cred user.Credential) context.Context {
	return context.WithValue(ctx, credentialKey{}, cred)
}

func CredentialFromContext(ctx context.Context) (user.Credential, bool) {
	cred, ok := ctx.Value(credentialKey{}).(user.Credential)
	return cred, ok && cred.Token != ""
}

// ContextTokenSource hands the API client whatever credential the auth
// middleware resolved for the current request.
type ContextTokenSource struct{}

func (ContextTokenSource) Token(ctx context.Context) (string, error) {
	cred, ok := CredentialFromContext(ctx)
	if !ok {
		return "", fmt.Errorf("%w: no credential in request context", usecase.ErrUnauthorized)
	}
	return cred.Token, nil
}
