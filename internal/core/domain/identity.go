package domain

import "strings"

// Canonical role identifiers. Every other casing or alias seen in the wild
// ("NGO", "admin", "donor", …) is folded into one of these by NormalizeRole.
const (
	RoleUser     = "User"
	RoleAdmin    = "Admin"
	RoleHospital = "Hospital"
	RoleNgo      = "Ngo"
)

// DefaultRoute is the landing path for absent or unrecognized roles.
const DefaultRoute = "/donor"

var roleRoutes = map[string]string{
	RoleUser:     "/donor",
	RoleAdmin:    "/admin",
	RoleHospital: "/hospital",
	RoleNgo:      "/ngo",
}

// roleAliases maps lowercased role spellings to the canonical identifier.
// Registration forms and backend payloads disagree on casing; this table is
// the single place that disagreement is resolved.
var roleAliases = map[string]string{
	"user":             RoleUser,
	"donor":            RoleUser,
	"admin":            RoleAdmin,
	"hospital":         RoleHospital,
	"ngo":              RoleNgo,
	"non-governmental": RoleNgo,
}

// RouteFor returns the default landing path for a role. It is total: any
// unknown or empty role falls back to DefaultRoute so callers always have
// somewhere to send the user.
func RouteFor(role string) string {
	if path, ok := roleRoutes[role]; ok {
		return path
	}
	if canonical, ok := NormalizeRole(role); ok {
		return roleRoutes[canonical]
	}
	return DefaultRoute
}

// NormalizeRole folds a raw role value into the canonical enumeration.
// The second return value is false when the input matches no known role.
func NormalizeRole(raw string) (string, bool) {
	canonical, ok := roleAliases[strings.ToLower(strings.TrimSpace(raw))]
	return canonical, ok
}

// KnownRoles returns the canonical role set, in role-map order.
func KnownRoles() []string {
	return []string{RoleUser, RoleAdmin, RoleHospital, RoleNgo}
}

// Identity models the signed-in principal. The bearer token rides along in
// memory but is excluded from JSON: the persisted record stores it under its
// own key.
type Identity struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"-"`
}

// Clone returns a copy so callers can hand identities out without sharing
// the store's own pointer.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	clone := *i
	return &clone
}
