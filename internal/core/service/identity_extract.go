package service

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/medishare/donation-gateway/internal/core/domain"
	"github.com/medishare/donation-gateway/internal/core/ports"
)

// extractIdentity builds the session identity from a login response.
// Fallback chain, each tier only attempted when the previous yields nothing:
//
//  1. identity object in the response body
//  2. claims decoded from the bearer token
//  3. echo of the submitted credentials
//
// The result always carries the token and a normalized role; a minimal
// identity is synthesized rather than failing.
func extractIdentity(res *ports.LoginResult, creds ports.Credentials) *domain.Identity {
	identity := res.Identity.Clone()
	if identity == nil {
		identity = identityFromToken(res.Token)
	}
	if identity == nil {
		identity = &domain.Identity{Email: creds.Email, Role: creds.Role}
	}

	identity.Token = res.Token
	if identity.Email == "" {
		identity.Email = creds.Email
	}
	if identity.Role == "" {
		identity.Role = creds.Role
	}
	if canonical, ok := domain.NormalizeRole(identity.Role); ok {
		identity.Role = canonical
	}
	return identity
}

// identityFromToken decodes the claims segment of a JWT without verifying the
// signature. Verification is the backend's job; this is a best-effort read
// that returns nil on any decoding trouble.
func identityFromToken(token string) *domain.Identity {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}

	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	if email == "" && role == "" {
		return nil
	}

	name, _ := claims["name"].(string)
	id, _ := claims["id"].(string)
	if id == "" {
		if sub, ok := claims["sub"].(string); ok {
			id = sub
		}
	}

	return &domain.Identity{ID: id, Name: name, Email: email, Role: role}
}
