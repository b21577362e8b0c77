package ports

import (
	"context"

	"github.com/medishare/donation-gateway/internal/core/domain"
)

// Credentials carries a login attempt. Role is an optional hint some backend
// deployments expect alongside the email/password pair.
type Credentials struct {
	Email    string
	Password string
	Role     string
}

// RegistrationInput carries the role-specific profile fields of a new account.
type RegistrationInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Phone    string
	Address  string
}

// ProfileUpdate holds partial profile fields. Nil means "leave unchanged".
type ProfileUpdate struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
}

// LoginResult is a successful credential service answer. Identity may be nil
// when the backend returns only a token; the session store then falls back to
// decoding the token claims.
type LoginResult struct {
	Token    string
	Identity *domain.Identity
}

// CredentialService is the external collaborator that owns accounts and
// passwords. Implementations: the HTTP client for the remote platform
// backend, and the built-in Mongo-backed service for self-hosted mode.
type CredentialService interface {
	Login(ctx context.Context, creds Credentials) (*LoginResult, error)
	// Register creates an account and returns a confirmation message.
	// Registration does not imply login.
	Register(ctx context.Context, input RegistrationInput) (string, error)
	// Logout is best-effort; callers ignore its error.
	Logout(ctx context.Context, token string) error
	UpdateProfile(ctx context.Context, token, identityID string, fields ProfileUpdate) (*domain.Identity, error)
}
