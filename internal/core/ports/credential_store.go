package ports

import "github.com/shopfront/catalog-console/internal/core/domain"

// TokenProvider exposes the current bearer token for request signing.
// An empty string means no session.
type TokenProvider interface {
	Token() string
}

// CredentialStore persists the session pair (bearer token + user record)
// across process restarts. The token and user are written together except for
// the two narrow single-field updates used by token refresh and profile
// refresh. The session service is the only writer.
type CredentialStore interface {
	TokenProvider

	// Load returns the persisted pair. Both values are zero when nothing
	// usable is stored; a half-written or unparseable state loads as empty.
	Load() (token string, user *domain.UserProfile)

	// SetSession replaces both entries as a pair.
	SetSession(token string, user *domain.UserProfile) error

	// SetToken replaces only the token, leaving the user record untouched.
	SetToken(token string) error

	// SetUser replaces only the user record, leaving the token untouched.
	SetUser(user *domain.UserProfile) error

	// Clear removes both entries. It never fails.
	Clear()
}
