package ports

import (
	"context"

	"github.com/shopfront/catalog-console/internal/core/domain"
)

// AuthResult is the typed outcome of a login or register attempt. Failures
// never escape as errors: Message carries the user-displayable text.
type AuthResult struct {
	Success bool
	Message string
}

// SessionService owns the in-memory session and its persisted copy.
type SessionService interface {
	// Restore populates the session from persisted storage, if a usable pair
	// exists, and clears the loading flag. Called once at process start.
	Restore()

	Login(ctx context.Context, email, password string) AuthResult
	Register(ctx context.Context, input RegisterInput) AuthResult

	// Logout clears the persisted pair and the in-memory session. Never fails.
	Logout()

	// RefreshToken obtains a new token for the current session. On failure the
	// session is fully torn down, equivalent to Logout.
	RefreshToken(ctx context.Context) bool

	// EnsureFresh refreshes the token on demand when it is a JWT whose expiry
	// has passed. Opaque tokens are assumed fresh. Returns false only when a
	// required refresh failed (the session is then already cleared).
	EnsureFresh(ctx context.Context) bool

	// GetProfile fetches and stores the canonical user record. Returns nil on
	// failure; the session survives (non-fatal).
	GetProfile(ctx context.Context) *domain.UserProfile

	Loading() bool
	User() *domain.UserProfile
	IsAuthenticated() bool
	// HasRole compares the raw role string for exact equality.
	HasRole(role string) bool
	// CanManageProducts checks the canonical role against the admin tiers.
	CanManageProducts() bool
}

// PermissionChecker is the narrow session view mutation controllers need.
type PermissionChecker interface {
	CanManageProducts() bool
}
