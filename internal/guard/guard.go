// Package guard gates access to protected views based on session state.
// Decisions are pure functions of the session plus the requirement; the guard
// itself performs no navigation and has no side effects.
package guard

import "github.com/shopfront/catalog-console/internal/core/domain"

// Route entry points known to the client.
const (
	RouteLogin     = "/login"
	RouteRegister  = "/register"
	RouteDashboard = "/dashboard"
	RouteProducts  = "/products"
)

// SessionState is the session view the guard consults.
type SessionState interface {
	Loading() bool
	IsAuthenticated() bool
	HasRole(role string) bool
	CanManageProducts() bool
	User() *domain.UserProfile
}

// Requirement parametrises a guarded view. The zero value is a plain
// authentication gate.
type Requirement struct {
	// Role, when non-empty, must match the user's raw role exactly.
	Role string
	// ManageProducts additionally requires product management permission.
	ManageProducts bool
}

// Decision is the guard's verdict.
type Decision int

const (
	// Wait renders a neutral waiting state; no navigation decision yet.
	Wait Decision = iota
	// Redirect sends the user to RedirectTo, carrying From along.
	Redirect
	// Deny renders an access-denied view (not a redirect).
	Deny
	// Allow renders the guarded content.
	Allow
)

// Result carries the verdict and the data the rendering layer needs.
type Result struct {
	Decision   Decision
	RedirectTo string
	// From is the originally requested location, preserved through a redirect
	// so a successful login can return the user there.
	From string
	// Required describes the failed role or permission on denial.
	Required string
	// ActualRole is the user's raw role, "None" when absent.
	ActualRole string
}

// Check evaluates a protected view. from is the location being requested.
func Check(s SessionState, req Requirement, from string) Result {
	if s.Loading() {
		return Result{Decision: Wait}
	}
	if !s.IsAuthenticated() {
		return Result{Decision: Redirect, RedirectTo: RouteLogin, From: from}
	}
	if req.Role != "" && !s.HasRole(req.Role) {
		return Result{Decision: Deny, Required: req.Role, ActualRole: actualRole(s)}
	}
	if req.ManageProducts && !s.CanManageProducts() {
		return Result{Decision: Deny, Required: "product management", ActualRole: actualRole(s)}
	}
	return Result{Decision: Allow}
}

// CheckGuest evaluates the login/register entry points, which are mutually
// exclusive with an established session: an authenticated visit redirects to
// the original destination, or the dashboard when there is none.
func CheckGuest(s SessionState, from string) Result {
	if s.Loading() {
		return Result{Decision: Wait}
	}
	if s.IsAuthenticated() {
		dest := from
		if dest == "" {
			dest = RouteDashboard
		}
		return Result{Decision: Redirect, RedirectTo: dest}
	}
	return Result{Decision: Allow}
}

func actualRole(s SessionState) string {
	if u := s.User(); u != nil && u.Role != "" {
		return u.Role
	}
	return "None"
}
