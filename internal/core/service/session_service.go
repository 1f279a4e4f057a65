package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/shopfront/catalog-console/internal/core/domain"
	"github.com/shopfront/catalog-console/internal/core/ports"
)

const (
	loginFailedMsg    = "Login failed. Please try again."
	registerFailedMsg = "Registration failed. Please try again."
)

// SessionService owns the current session: user identity, bearer token and
// the loading flag. It is the only writer of the credential store. Not safe
// for concurrent use; callers serialise operations per user action.
type SessionService struct {
	api   ports.AuthAPI
	store ports.CredentialStore
	log   zerolog.Logger

	user    *domain.UserProfile
	token   string
	loading bool
}

var _ ports.SessionService = (*SessionService)(nil)

func NewSessionService(api ports.AuthAPI, store ports.CredentialStore, log zerolog.Logger) *SessionService {
	return &SessionService{api: api, store: store, log: log, loading: true}
}

// Restore populates the session from the persisted pair. A missing or
// unparseable pair leaves the session empty. The loading flag clears
// regardless of outcome.
func (s *SessionService) Restore() {
	token, user := s.store.Load()
	if token != "" && user != nil {
		s.token = token
		s.user = user
	}
	s.loading = false
}

func (s *SessionService) Login(ctx context.Context, email, password string) ports.AuthResult {
	s.loading = true
	defer func() { s.loading = false }()

	sess, err := s.api.Login(ctx, ports.Credentials{Email: email, Password: password})
	if err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("login failed")
		return ports.AuthResult{Message: domain.UserMessage(err, loginFailedMsg)}
	}
	return s.establish(sess, loginFailedMsg)
}

func (s *SessionService) Register(ctx context.Context, input ports.RegisterInput) ports.AuthResult {
	s.loading = true
	defer func() { s.loading = false }()

	sess, err := s.api.Register(ctx, input)
	if err != nil {
		s.log.Warn().Err(err).Str("email", input.Email).Msg("registration failed")
		return ports.AuthResult{Message: domain.UserMessage(err, registerFailedMsg)}
	}
	return s.establish(sess, registerFailedMsg)
}

// establish persists the pair and then populates the in-memory session, so
// the two are never set one without the other.
func (s *SessionService) establish(sess *ports.AuthSession, fallback string) ports.AuthResult {
	user := sess.User
	if err := s.store.SetSession(sess.AccessToken, &user); err != nil {
		s.log.Error().Err(err).Msg("failed to persist session")
		return ports.AuthResult{Message: fallback}
	}
	s.token = sess.AccessToken
	s.user = &user
	s.log.Info().Str("role", user.Role).Msg("session established")
	return ports.AuthResult{Success: true}
}

// Logout clears the persisted pair and the in-memory session unconditionally.
func (s *SessionService) Logout() {
	s.store.Clear()
	s.token = ""
	s.user = nil
}

// RefreshToken requests a new token for the current session. The user record
// is untouched on success. On failure the whole session is torn down; this is
// the only operation with a cascading side effect.
func (s *SessionService) RefreshToken(ctx context.Context) bool {
	token, err := s.api.Refresh(ctx)
	if err != nil || token == "" {
		s.log.Warn().Err(err).Msg("token refresh failed, clearing session")
		s.Logout()
		return false
	}
	if err := s.store.SetToken(token); err != nil {
		s.log.Error().Err(err).Msg("failed to persist refreshed token")
		s.Logout()
		return false
	}
	s.token = token
	return true
}

// EnsureFresh refreshes the token on demand when it is a JWT whose expiry has
// passed. There is no refresh scheduling beyond this.
func (s *SessionService) EnsureFresh(ctx context.Context) bool {
	if !s.IsAuthenticated() {
		return false
	}
	if !tokenExpired(s.token, time.Now()) {
		return true
	}
	return s.RefreshToken(ctx)
}

// GetProfile overwrites the stored user record with the server's canonical
// copy. Failure is non-fatal: the session stays up and nil is returned.
func (s *SessionService) GetProfile(ctx context.Context) *domain.UserProfile {
	user, err := s.api.Profile(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("profile fetch failed")
		return nil
	}
	if err := s.store.SetUser(user); err != nil {
		s.log.Error().Err(err).Msg("failed to persist profile")
	}
	s.user = user
	return user
}

func (s *SessionService) Loading() bool { return s.loading }

func (s *SessionService) User() *domain.UserProfile { return s.user }

// IsAuthenticated holds iff both the user record and the token are present.
func (s *SessionService) IsAuthenticated() bool {
	return s.user != nil && s.token != ""
}

// HasRole compares the raw role string for exact equality.
func (s *SessionService) HasRole(role string) bool {
	return s.user != nil && s.user.Role == role
}

// CanManageProducts checks the canonical role against the admin tiers.
func (s *SessionService) CanManageProducts() bool {
	return s.user.CanonicalRole().CanManageProducts()
}

// tokenExpired reports whether token is a JWT with an exp claim in the past.
// The signature is not verified; the client only needs the timestamp, the
// server remains the authority. Opaque tokens are treated as fresh.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
