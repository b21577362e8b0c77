package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/medishare/donation-gateway/internal/core/domain"
	"github.com/medishare/donation-gateway/internal/core/ports"
)

// Result is the tagged outcome every session operation returns. Collaborator
// failures never escape the store as errors; callers branch on Success.
type Result struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message,omitempty"`
	Identity *domain.Identity `json:"identity,omitempty"`
}

func failure(msg string) Result {
	return Result{Success: false, Message: msg}
}

// SessionStore is the single authoritative holder of one principal's session
// state and the only writer of its persisted record. State moves
// Initializing -> {Unauthenticated, Authenticated} exactly once, then between
// Unauthenticated and Authenticated via Login/Logout/UpdateIdentity.
type SessionStore struct {
	sid         string
	credentials ports.CredentialService
	sessions    ports.SessionRepository
	notifier    ports.Notifier
	log         zerolog.Logger

	initOnce sync.Once

	mu        sync.Mutex
	state     domain.SessionState
	listeners []func(domain.SessionState)
}

// NewSessionStore creates a store in the Initializing state. Call Initialize
// before consulting GetState for authorization decisions.
func NewSessionStore(sid string, credentials ports.CredentialService, sessions ports.SessionRepository, notifier ports.Notifier, log zerolog.Logger) *SessionStore {
	return &SessionStore{
		sid:         sid,
		credentials: credentials,
		sessions:    sessions,
		notifier:    notifier,
		log:         log.With().Str("session_id", sid).Logger(),
		state:       domain.SessionState{Loading: true},
	}
}

// GetState returns a snapshot of the current session state.
func (s *SessionStore) GetState() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a listener invoked after every state change.
func (s *SessionStore) Subscribe(fn func(domain.SessionState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *SessionStore) setState(state domain.SessionState) {
	s.mu.Lock()
	s.state = state
	listeners := make([]func(domain.SessionState), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
}

// RehydrationOutcome reports how Initialize resolved the persisted record.
type RehydrationOutcome string

const (
	RehydratedAuthenticated RehydrationOutcome = "authenticated"
	RehydratedAbsent        RehydrationOutcome = "absent"
	RehydratedCorrupt       RehydrationOutcome = "corrupt"
)

// Initialize rehydrates the session from the persisted record. It runs at
// most once; Loading drops to false unconditionally at the end and never
// rises again. Corrupt stored state is cleared and the session starts
// unauthenticated; no error is ever surfaced.
func (s *SessionStore) Initialize(ctx context.Context) RehydrationOutcome {
	outcome := RehydratedAbsent
	s.initOnce.Do(func() {
		outcome = s.rehydrate(ctx)
	})
	return outcome
}

func (s *SessionStore) rehydrate(ctx context.Context) RehydrationOutcome {
	outcome := RehydratedAbsent
	var identity *domain.Identity

	rec, err := s.sessions.Load(ctx, s.sid)
	switch {
	case err != nil:
		// Storage trouble counts as "no session"; the user just logs in again.
		s.log.Warn().Err(err).Msg("session rehydration failed, starting unauthenticated")
	case rec != nil:
		var parsed domain.Identity
		if jerr := json.Unmarshal(rec.IdentityJSON, &parsed); jerr != nil {
			// Silent self-heal: clear the partial record, start clean.
			s.log.Warn().Err(jerr).Msg("corrupt persisted session, clearing")
			if cerr := s.sessions.Clear(ctx, s.sid); cerr != nil {
				s.log.Warn().Err(cerr).Msg("failed to clear corrupt session")
			}
			outcome = RehydratedCorrupt
		} else {
			parsed.Token = rec.Token
			if canonical, ok := domain.NormalizeRole(parsed.Role); ok {
				parsed.Role = canonical
			}
			identity = &parsed
			outcome = RehydratedAuthenticated
		}
	}

	s.setState(domain.SessionState{Identity: identity, Loading: false})
	return outcome
}

// Login authenticates against the credential service and, on success,
// persists both record keys and swaps the in-memory state to Authenticated.
// Any failure leaves state and storage untouched.
func (s *SessionStore) Login(ctx context.Context, creds ports.Credentials) Result {
	if creds.Email == "" || creds.Password == "" {
		return failure("email and password are required")
	}

	res, err := s.credentials.Login(ctx, creds)
	if err != nil {
		msg := failureMessage(err)
		s.notify(creds.Email, ports.NotifyError, msg)
		s.log.Info().Str("email", creds.Email).Msg("login rejected")
		return failure(msg)
	}
	if res == nil || res.Token == "" {
		msg := failureMessage(domain.ErrMalformedResponse)
		s.notify(creds.Email, ports.NotifyError, msg)
		return failure(msg)
	}

	identity := extractIdentity(res, creds)

	raw, err := json.Marshal(identity)
	if err != nil {
		return failure("could not encode session")
	}
	if err := s.sessions.Save(ctx, s.sid, raw, res.Token); err != nil {
		s.log.Error().Err(err).Msg("failed to persist session")
		return failure("could not save session, please try again")
	}

	s.setState(domain.SessionState{Identity: identity})
	s.notify(identity.Email, ports.NotifySuccess, "login successful")
	s.log.Info().Str("email", identity.Email).Str("role", identity.Role).Msg("login succeeded")

	return Result{Success: true, Message: "login successful", Identity: identity.Clone()}
}

// Register creates a new account. It never logs the user in: the session
// state is untouched either way, and the server's confirmation message is
// passed through on success.
func (s *SessionStore) Register(ctx context.Context, input ports.RegistrationInput) Result {
	if input.Email == "" || input.Password == "" {
		return failure("email and password are required")
	}
	if canonical, ok := domain.NormalizeRole(input.Role); ok {
		input.Role = canonical
	}

	msg, err := s.credentials.Register(ctx, input)
	if err != nil {
		reason := failureMessage(err)
		s.notify(input.Email, ports.NotifyError, reason)
		return failure(reason)
	}
	if msg == "" {
		msg = "registration successful, please log in"
	}

	s.notify(input.Email, ports.NotifySuccess, msg)
	return Result{Success: true, Message: msg}
}

// Logout clears both persisted keys and resets the state to Unauthenticated.
// The backend logout call is best-effort; its failure never blocks the local
// guarantee.
func (s *SessionStore) Logout(ctx context.Context) Result {
	state := s.GetState()
	if state.Identity != nil && state.Identity.Token != "" {
		if err := s.credentials.Logout(ctx, state.Identity.Token); err != nil {
			s.log.Debug().Err(err).Msg("backend logout failed, ignoring")
		}
	}

	if err := s.sessions.Clear(ctx, s.sid); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear persisted session")
	}
	s.setState(domain.SessionState{})

	recipient := ""
	if state.Identity != nil {
		recipient = state.Identity.Email
	}
	s.notify(recipient, ports.NotifySuccess, "logged out")
	return Result{Success: true, Message: "logged out"}
}

// UpdateIdentity sends partial profile fields to the credential service and,
// on success, replaces the stored identity wholesale, preserving the token.
func (s *SessionStore) UpdateIdentity(ctx context.Context, fields ports.ProfileUpdate) Result {
	state := s.GetState()
	if state.Identity == nil {
		return failure(domain.ErrNotAuthenticated.Error())
	}
	current := state.Identity

	updated, err := s.credentials.UpdateProfile(ctx, current.Token, current.ID, fields)
	if err != nil {
		msg := failureMessage(err)
		s.notify(current.Email, ports.NotifyError, msg)
		return failure(msg)
	}
	if updated == nil {
		msg := failureMessage(domain.ErrMalformedResponse)
		s.notify(current.Email, ports.NotifyError, msg)
		return failure(msg)
	}

	identity := updated.Clone()
	identity.Token = current.Token
	if identity.ID == "" {
		identity.ID = current.ID
	}
	if canonical, ok := domain.NormalizeRole(identity.Role); ok {
		identity.Role = canonical
	} else if identity.Role == "" {
		identity.Role = current.Role
	}

	raw, err := json.Marshal(identity)
	if err != nil {
		return failure("could not encode session")
	}
	if err := s.sessions.Save(ctx, s.sid, raw, identity.Token); err != nil {
		s.log.Error().Err(err).Msg("failed to persist updated session")
		return failure("could not save session, please try again")
	}

	s.setState(domain.SessionState{Identity: identity})
	s.notify(identity.Email, ports.NotifySuccess, "profile updated")
	return Result{Success: true, Message: "profile updated", Identity: identity.Clone()}
}

func (s *SessionStore) notify(recipient, level, message string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ports.Notification{Recipient: recipient, Level: level, Message: message})
}

// failureMessage normalizes the error taxonomy into one human-readable line.
func failureMessage(err error) string {
	var rejection *domain.RejectionError
	switch {
	case errors.As(err, &rejection):
		return rejection.Error()
	case errors.Is(err, domain.ErrTransportUnreachable):
		return "cannot reach the donation platform, please try again"
	case errors.Is(err, domain.ErrMalformedResponse):
		return "unexpected response from the server"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid credentials"
	case errors.Is(err, domain.ErrUserExists):
		return "an account with this email already exists"
	case errors.Is(err, domain.ErrUserNotFound):
		return "no account found for this email"
	case errors.Is(err, domain.ErrInvalidRole):
		return "invalid role"
	default:
		return err.Error()
	}
}
