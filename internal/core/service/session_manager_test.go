package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"

	"github.com/medishare/donation-gateway/internal/core/domain"
)

func TestSessionManager_ReusesStorePerSessionID(t *testing.T) {
	m := NewSessionManager(&stubCredentials{}, newMemorySessionRepo(), nil, zerolog.Nop())

	a := m.Store(context.Background(), "sid-a")
	b := m.Store(context.Background(), "sid-b")
	if a == b {
		t.Fatalf("distinct session IDs must get distinct stores")
	}
	if again := m.Store(context.Background(), "sid-a"); again != a {
		t.Fatalf("same session ID must get the same store")
	}
}

func TestSessionManager_InitializesBeforeReturning(t *testing.T) {
	repo := newMemorySessionRepo()
	raw, _ := json.Marshal(domain.Identity{Email: "a@b.com", Role: domain.RoleAdmin})
	repo.identity["sid-a"] = raw
	repo.tokens["sid-a"] = "tok123"

	m := NewSessionManager(&stubCredentials{}, repo, nil, zerolog.Nop())

	state := m.Store(context.Background(), "sid-a").GetState()
	if state.Loading {
		t.Fatalf("store must be resolved before it is handed out")
	}
	if !state.IsAuthenticated() {
		t.Fatalf("persisted record must rehydrate")
	}
}

func TestSessionManager_RehydrateHookFiresOncePerStore(t *testing.T) {
	m := NewSessionManager(&stubCredentials{}, newMemorySessionRepo(), nil, zerolog.Nop())

	var outcomes []RehydrationOutcome
	m.OnRehydrate(func(o RehydrationOutcome) {
		outcomes = append(outcomes, o)
	})

	m.Store(context.Background(), "sid-a")
	m.Store(context.Background(), "sid-a")
	m.Store(context.Background(), "sid-b")

	if len(outcomes) != 2 {
		t.Fatalf("hook fired %d times, want once per store", len(outcomes))
	}
	if outcomes[0] != RehydratedAbsent {
		t.Fatalf("outcome = %s, want %s", outcomes[0], RehydratedAbsent)
	}
}

func TestSessionManager_EvictForcesRebuild(t *testing.T) {
	m := NewSessionManager(&stubCredentials{}, newMemorySessionRepo(), nil, zerolog.Nop())

	first := m.Store(context.Background(), "sid-a")
	m.Evict("sid-a")
	second := m.Store(context.Background(), "sid-a")
	if first == second {
		t.Fatalf("evicted session must get a fresh store")
	}
}
