package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/shopfront/catalog-console/internal/core/domain"
	"github.com/shopfront/catalog-console/internal/core/ports"
)

type stubAuthAPI struct {
	loginSession   *ports.AuthSession
	loginErr       error
	loginCalls     int
	registerErr    error
	registerCalls  int
	refreshToken   string
	refreshErr     error
	refreshCalls   int
	profile        *domain.UserProfile
	profileErr     error
	profileCalls   int
	registerResult *ports.AuthSession
}

func (a *stubAuthAPI) Login(context.Context, ports.Credentials) (*ports.AuthSession, error) {
	a.loginCalls++
	return a.loginSession, a.loginErr
}

func (a *stubAuthAPI) Register(context.Context, ports.RegisterInput) (*ports.AuthSession, error) {
	a.registerCalls++
	return a.registerResult, a.registerErr
}

func (a *stubAuthAPI) Refresh(context.Context) (string, error) {
	a.refreshCalls++
	return a.refreshToken, a.refreshErr
}

func (a *stubAuthAPI) Profile(context.Context) (*domain.UserProfile, error) {
	a.profileCalls++
	return a.profile, a.profileErr
}

// memStore is an in-memory ports.CredentialStore.
type memStore struct {
	token string
	user  *domain.UserProfile
}

func (s *memStore) Token() string { return s.token }

func (s *memStore) Load() (string, *domain.UserProfile) {
	if s.token == "" || s.user == nil {
		return "", nil
	}
	u := *s.user
	return s.token, &u
}

func (s *memStore) SetSession(token string, user *domain.UserProfile) error {
	s.token = token
	s.user = user
	return nil
}

func (s *memStore) SetToken(token string) error { s.token = token; return nil }

func (s *memStore) SetUser(user *domain.UserProfile) error { s.user = user; return nil }

func (s *memStore) Clear() { s.token = ""; s.user = nil }

func adminUser() domain.UserProfile {
	return domain.UserProfile{ID: 1, Name: "Alice", Email: "alice@example.com", Role: "admin"}
}

func newTestSession(api *stubAuthAPI, store *memStore) *SessionService {
	return NewSessionService(api, store, zerolog.Nop())
}

// checkInvariant asserts user and token are set or cleared together.
func checkInvariant(t *testing.T, s *SessionService) {
	t.Helper()
	hasUser := s.User() != nil
	if hasUser != s.IsAuthenticated() {
		t.Fatalf("user/token invariant broken: user=%v authenticated=%v", hasUser, s.IsAuthenticated())
	}
}

func TestSessionService_Restore_Pair(t *testing.T) {
	user := adminUser()
	store := &memStore{token: "tok", user: &user}
	s := newTestSession(&stubAuthAPI{}, store)

	if !s.Loading() {
		t.Fatalf("expected loading before restore")
	}
	s.Restore()
	if s.Loading() {
		t.Fatalf("loading flag should clear after restore")
	}
	if !s.IsAuthenticated() {
		t.Fatalf("expected authenticated session after restore")
	}
	checkInvariant(t, s)
}

func TestSessionService_Restore_MissingHalf(t *testing.T) {
	user := adminUser()
	for name, store := range map[string]*memStore{
		"no token": {user: &user},
		"no user":  {token: "tok"},
		"empty":    {},
	} {
		s := newTestSession(&stubAuthAPI{}, store)
		s.Restore()
		if s.Loading() {
			t.Fatalf("%s: loading flag should clear regardless of outcome", name)
		}
		if s.IsAuthenticated() {
			t.Fatalf("%s: expected empty session", name)
		}
		checkInvariant(t, s)
	}
}

func TestSessionService_Login_Success(t *testing.T) {
	user := adminUser()
	api := &stubAuthAPI{loginSession: &ports.AuthSession{AccessToken: "tok-1", User: user}}
	store := &memStore{}
	s := newTestSession(api, store)
	s.Restore()

	res := s.Login(context.Background(), "alice@example.com", "secret")
	if !res.Success {
		t.Fatalf("expected success, got message %q", res.Message)
	}
	if !s.IsAuthenticated() {
		t.Fatalf("expected authenticated session")
	}
	if store.token != "tok-1" || store.user == nil || store.user.Name != "Alice" {
		t.Fatalf("expected persisted pair, got token=%q user=%+v", store.token, store.user)
	}
	if s.Loading() {
		t.Fatalf("loading flag should clear after login")
	}
	checkInvariant(t, s)
}

func TestSessionService_Login_ServerMessage(t *testing.T) {
	api := &stubAuthAPI{loginErr: &domain.RemoteError{Status: 401, Message: "Invalid credentials"}}
	s := newTestSession(api, &memStore{})
	s.Restore()

	res := s.Login(context.Background(), "alice@example.com", "wrong")
	if res.Success {
		t.Fatalf("expected failure")
	}
	if res.Message != "Invalid credentials" {
		t.Fatalf("expected server message, got %q", res.Message)
	}
	if s.IsAuthenticated() {
		t.Fatalf("session must stay empty on failed login")
	}
	checkInvariant(t, s)
}

func TestSessionService_Login_GenericFallback(t *testing.T) {
	api := &stubAuthAPI{loginErr: errors.New("connection refused")}
	s := newTestSession(api, &memStore{})
	s.Restore()

	res := s.Login(context.Background(), "alice@example.com", "secret")
	if res.Success || res.Message != "Login failed. Please try again." {
		t.Fatalf("expected generic fallback, got %+v", res)
	}
}

func TestSessionService_Register_Success(t *testing.T) {
	user := domain.UserProfile{ID: 2, Name: "Bob", Email: "bob@example.com", Role: "user"}
	api := &stubAuthAPI{registerResult: &ports.AuthSession{AccessToken: "tok-2", User: user}}
	store := &memStore{}
	s := newTestSession(api, store)
	s.Restore()

	res := s.Register(context.Background(), ports.RegisterInput{
		Email: "bob@example.com", Password: "secret1", FirstName: "Bob", LastName: "Jones",
	})
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}
	if store.token != "tok-2" {
		t.Fatalf("expected persisted token, got %q", store.token)
	}
	checkInvariant(t, s)
}

func TestSessionService_Logout(t *testing.T) {
	user := adminUser()
	store := &memStore{token: "tok", user: &user}
	s := newTestSession(&stubAuthAPI{}, store)
	s.Restore()

	s.Logout()
	if s.IsAuthenticated() {
		t.Fatalf("expected empty session after logout")
	}
	if store.token != "" || store.user != nil {
		t.Fatalf("expected cleared store, got token=%q user=%+v", store.token, store.user)
	}
	checkInvariant(t, s)
}

func TestSessionService_RefreshToken_Success(t *testing.T) {
	user := adminUser()
	store := &memStore{token: "old", user: &user}
	api := &stubAuthAPI{refreshToken: "new"}
	s := newTestSession(api, store)
	s.Restore()

	if !s.RefreshToken(context.Background()) {
		t.Fatalf("expected refresh to succeed")
	}
	if store.token != "new" {
		t.Fatalf("expected new token persisted, got %q", store.token)
	}
	if store.user == nil || store.user.Name != "Alice" {
		t.Fatalf("user record must be untouched by refresh")
	}
	checkInvariant(t, s)
}

func TestSessionService_RefreshToken_FailureCascadesToLogout(t *testing.T) {
	user := adminUser()
	store := &memStore{token: "old", user: &user}
	api := &stubAuthAPI{refreshErr: &domain.RemoteError{Status: 401, Message: "expired"}}
	s := newTestSession(api, store)
	s.Restore()

	if s.RefreshToken(context.Background()) {
		t.Fatalf("expected refresh to fail")
	}
	if s.IsAuthenticated() {
		t.Fatalf("failed refresh must clear the session")
	}
	if store.token != "" || store.user != nil {
		t.Fatalf("failed refresh must clear persisted state")
	}
	checkInvariant(t, s)
}

func TestSessionService_GetProfile_OverwritesUser(t *testing.T) {
	user := adminUser()
	store := &memStore{token: "tok", user: &user}
	canonical := domain.UserProfile{ID: 1, Name: "Alice A.", Email: "alice@example.com", Role: "super_admin"}
	api := &stubAuthAPI{profile: &canonical}
	s := newTestSession(api, store)
	s.Restore()

	got := s.GetProfile(context.Background())
	if got == nil || got.Name != "Alice A." {
		t.Fatalf("unexpected profile: %+v", got)
	}
	if s.User().Role != "super_admin" {
		t.Fatalf("in-memory user not overwritten")
	}
	if store.user.Name != "Alice A." {
		t.Fatalf("persisted user not overwritten")
	}
	if store.token != "tok" {
		t.Fatalf("token must be untouched by profile refresh")
	}
}

func TestSessionService_GetProfile_FailureIsNonFatal(t *testing.T) {
	user := adminUser()
	store := &memStore{token: "tok", user: &user}
	api := &stubAuthAPI{profileErr: errors.New("boom")}
	s := newTestSession(api, store)
	s.Restore()

	if got := s.GetProfile(context.Background()); got != nil {
		t.Fatalf("expected nil on failure, got %+v", got)
	}
	if !s.IsAuthenticated() {
		t.Fatalf("session must survive a failed profile fetch")
	}
}

func TestSessionService_HasRole_ExactMatch(t *testing.T) {
	user := domain.UserProfile{ID: 1, Role: "Admin"}
	store := &memStore{token: "tok", user: &user}
	s := newTestSession(&stubAuthAPI{}, store)
	s.Restore()

	if !s.HasRole("Admin") {
		t.Fatalf("expected exact role match")
	}
	if s.HasRole("admin") {
		t.Fatalf("HasRole is case-sensitive")
	}
}

func TestSessionService_CanManageProducts(t *testing.T) {
	for _, role := range []string{"super_admin", "admin", "superadmin", "Super Admin", "Admin", "SUPER_ADMIN", "ADMIN"} {
		user := domain.UserProfile{ID: 1, Role: role}
		s := newTestSession(&stubAuthAPI{}, &memStore{token: "tok", user: &user})
		s.Restore()
		if !s.CanManageProducts() {
			t.Errorf("role %q should manage products", role)
		}
	}

	user := domain.UserProfile{ID: 1, Role: "user"}
	s := newTestSession(&stubAuthAPI{}, &memStore{token: "tok", user: &user})
	s.Restore()
	if s.CanManageProducts() {
		t.Fatalf("plain user should not manage products")
	}

	empty := newTestSession(&stubAuthAPI{}, &memStore{})
	empty.Restore()
	if empty.CanManageProducts() {
		t.Fatalf("absent user should not manage products")
	}
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()})
	signed, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestSessionService_EnsureFresh_ExpiredJWT(t *testing.T) {
	user := adminUser()
	store := &memStore{token: signedToken(t, time.Now().Add(-time.Hour)), user: &user}
	api := &stubAuthAPI{refreshToken: "fresh"}
	s := newTestSession(api, store)
	s.Restore()

	if !s.EnsureFresh(context.Background()) {
		t.Fatalf("expected refresh to succeed")
	}
	if api.refreshCalls != 1 {
		t.Fatalf("expected one refresh call, got %d", api.refreshCalls)
	}
	if store.token != "fresh" {
		t.Fatalf("expected refreshed token persisted")
	}
}

func TestSessionService_EnsureFresh_ValidJWT(t *testing.T) {
	user := adminUser()
	store := &memStore{token: signedToken(t, time.Now().Add(time.Hour)), user: &user}
	api := &stubAuthAPI{}
	s := newTestSession(api, store)
	s.Restore()

	if !s.EnsureFresh(context.Background()) {
		t.Fatalf("valid token should pass")
	}
	if api.refreshCalls != 0 {
		t.Fatalf("no refresh expected, got %d calls", api.refreshCalls)
	}
}

func TestSessionService_EnsureFresh_OpaqueToken(t *testing.T) {
	user := adminUser()
	store := &memStore{token: "opaque-token", user: &user}
	api := &stubAuthAPI{}
	s := newTestSession(api, store)
	s.Restore()

	if !s.EnsureFresh(context.Background()) {
		t.Fatalf("opaque token should be assumed fresh")
	}
	if api.refreshCalls != 0 {
		t.Fatalf("no refresh expected for opaque token")
	}
}
