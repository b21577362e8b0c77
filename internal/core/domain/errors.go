package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated marks operations that need an existing identity.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrTransportUnreachable wraps network-level failures reaching the
	// credential service.
	ErrTransportUnreachable = errors.New("credential service unreachable")
	// ErrMalformedResponse marks a 2xx credential response missing required
	// fields (token or identity payload).
	ErrMalformedResponse = errors.New("malformed credential service response")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")

	ErrMedicineNotFound  = errors.New("medicine not found")
	ErrInvalidDonation   = errors.New("invalid donation")
	ErrInvalidTransition = errors.New("invalid donation status transition")
	ErrForbidden         = errors.New("access forbidden")
)

// RejectionError carries a non-success answer from the credential service.
// The message is surfaced verbatim to the user.
type RejectionError struct {
	Status  int
	Message string
}

func (e *RejectionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("credential service rejected the request (status %d)", e.Status)
}
