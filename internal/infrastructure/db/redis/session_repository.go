package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/medishare/donation-gateway/internal/core/ports"
)

// Key layout: session:<sid>:identity holds the identity JSON (token
// excluded), session:<sid>:token holds the raw bearer string. The two keys
// live and die together; a session with only one of them does not exist.
const (
	identitySuffix = ":identity"
	tokenSuffix    = ":token"
	keyPrefix      = "session:"
)

// SessionRepository stores persisted session records in Redis.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepository wraps the given Redis client. Records expire after
// ttl; zero means no expiry.
func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{client: client, ttl: ttl}
}

// Load fetches both keys in one round trip. Either key missing means the
// session is absent: partial state is never reported as a session.
func (r *SessionRepository) Load(ctx context.Context, sessionID string) (*ports.PersistedSession, error) {
	values, err := r.client.MGet(ctx, r.identityKey(sessionID), r.tokenKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	identityRaw, ok1 := values[0].(string)
	token, ok2 := values[1].(string)
	if !ok1 || !ok2 {
		return nil, nil
	}

	return &ports.PersistedSession{IdentityJSON: []byte(identityRaw), Token: token}, nil
}

// Save writes both keys atomically via a transactional pipeline.
func (r *SessionRepository) Save(ctx context.Context, sessionID string, identityJSON []byte, token string) error {
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.identityKey(sessionID), identityJSON, r.ttl)
	pipe.Set(ctx, r.tokenKey(sessionID), token, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear deletes both keys. Deleting an absent session is not an error.
func (r *SessionRepository) Clear(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.identityKey(sessionID), r.tokenKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (r *SessionRepository) identityKey(sessionID string) string {
	return keyPrefix + sessionID + identitySuffix
}

func (r *SessionRepository) tokenKey(sessionID string) string {
	return keyPrefix + sessionID + tokenSuffix
}
