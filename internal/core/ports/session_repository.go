package ports

import "context"

// PersistedSession is the two-part durable record of one session: the
// serialized identity and the raw bearer token, stored under independent keys.
type PersistedSession struct {
	IdentityJSON []byte
	Token        string
}

// SessionRepository owns the durable session records. Only the session store
// writes through it; the debug escape hatch may clear records directly.
type SessionRepository interface {
	// Load returns (nil, nil) when the record is absent. Finding one key
	// without the other counts as absent: partial state is never a session.
	Load(ctx context.Context, sessionID string) (*PersistedSession, error)
	// Save writes both keys together.
	Save(ctx context.Context, sessionID string, identityJSON []byte, token string) error
	// Clear removes both keys together. Clearing an absent record is a no-op.
	Clear(ctx context.Context, sessionID string) error
}
