package domain

import "strings"

// Role is the canonical permission tier of a user. The API reports roles as
// free-form strings ("Super Admin", "SUPER_ADMIN", "superadmin", ...);
// CanonicalRole folds them onto this closed set once, at profile ingestion,
// so permission checks are single equality comparisons.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleUser       Role = "user"
	RoleUnknown    Role = ""
)

// CanonicalRole maps a raw role string onto the closed Role set.
// Unrecognised or empty strings map to RoleUnknown.
func CanonicalRole(raw string) Role {
	folded := strings.ToLower(strings.TrimSpace(raw))
	folded = strings.ReplaceAll(folded, " ", "_")
	switch folded {
	case "super_admin", "superadmin":
		return RoleSuperAdmin
	case "admin":
		return RoleAdmin
	case "user":
		return RoleUser
	}
	return RoleUnknown
}

// CanManageProducts reports whether the role grants product management.
func (r Role) CanManageProducts() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}

// UserProfile is the server's record of the authenticated user. The server is
// the source of truth; the client only caches the last fetched copy. The raw
// Role string is kept verbatim for exact-match checks and display.
type UserProfile struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// CanonicalRole returns the canonical form of the profile's role.
func (u *UserProfile) CanonicalRole() Role {
	if u == nil {
		return RoleUnknown
	}
	return CanonicalRole(u.Role)
}
