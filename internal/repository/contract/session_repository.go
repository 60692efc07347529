package contract

import (
	"context"
	"time"

	"recipebot/pkg/store"
)

// SessionRepository persists conversation sessions keyed by store.Key.
// Get returns a private copy; changes are only visible to others after Put.
type SessionRepository interface {
	Get(ctx context.Context, key string) (*store.Session, bool, error)
	Put(ctx context.Context, session *store.Session, ttl time.Duration) error
	Clear(ctx context.Context, key string) error
}
