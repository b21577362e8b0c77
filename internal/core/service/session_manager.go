package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/medishare/donation-gateway/internal/core/ports"
)

// SessionManager hands out one SessionStore per session ID, so each browser
// session gets its own single-writer state machine. Stores are created lazily
// and rehydrated from the persisted record on first use.
type SessionManager struct {
	credentials ports.CredentialService
	sessions    ports.SessionRepository
	notifier    ports.Notifier
	log         zerolog.Logger

	onRehydrate func(RehydrationOutcome)

	mu     sync.Mutex
	stores map[string]*SessionStore
}

func NewSessionManager(credentials ports.CredentialService, sessions ports.SessionRepository, notifier ports.Notifier, log zerolog.Logger) *SessionManager {
	return &SessionManager{
		credentials: credentials,
		sessions:    sessions,
		notifier:    notifier,
		log:         log,
		stores:      make(map[string]*SessionStore),
	}
}

// OnRehydrate registers a callback invoked once per store with the outcome of
// its initial rehydration. Set it before the first request.
func (m *SessionManager) OnRehydrate(fn func(RehydrationOutcome)) {
	m.onRehydrate = fn
}

// Store returns the store for sid, creating and initializing it on first use.
func (m *SessionManager) Store(ctx context.Context, sid string) *SessionStore {
	m.mu.Lock()
	store, ok := m.stores[sid]
	if !ok {
		store = NewSessionStore(sid, m.credentials, m.sessions, m.notifier, m.log)
		m.stores[sid] = store
	}
	m.mu.Unlock()

	outcome := store.Initialize(ctx)
	if !ok && m.onRehydrate != nil {
		m.onRehydrate(outcome)
	}
	return store
}

// Evict drops the in-memory store for sid. Used by the clear-session escape
// hatch: the next request rebuilds the store from (now empty) durable state
// instead of serving stale memory.
func (m *SessionManager) Evict(sid string) {
	m.mu.Lock()
	delete(m.stores, sid)
	m.mu.Unlock()
}
