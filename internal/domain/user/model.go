package user

import "time"

// Principal is the authenticated caller resolved from a bearer credential.
type Principal struct {
	UserID    string
	Email     string
	Name      string
	Provider  string
	ExpiresAt time.Time
}

type CredentialSource string

const (
	CredentialFirebase CredentialSource = "firebase"
	CredentialFallback CredentialSource = "fallback"
)

// Credential is the token forwarded to the upstream API on behalf of a principal.
type Credential struct {
	Token  string
	Source CredentialSource
}
