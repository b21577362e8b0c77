package domain

// SessionState is the externally observable shape of one session store.
// Loading is true only during the one-time startup rehydration; it never
// returns to true within a store's lifetime.
type SessionState struct {
	Identity *Identity
	Loading  bool
}

// IsAuthenticated reports whether an identity is present. It is derived
// rather than stored so the two can never disagree.
func (s SessionState) IsAuthenticated() bool {
	return s.Identity != nil
}

// Role returns the principal's role, or "" when unauthenticated. Unrecognized
// roles are reported as absent so guards fail safe instead of matching.
func (s SessionState) Role() string {
	if s.Identity == nil {
		return ""
	}
	if _, ok := roleRoutes[s.Identity.Role]; !ok {
		return ""
	}
	return s.Identity.Role
}
