package memory

import (
	"context"
	"time"

	"recipebot/internal/repository/contract"
	"recipebot/pkg/store"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

var _ contract.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(defaultTTL time.Duration) *SessionRepository {
	// Expired sessions are purged every 10 minutes
	c := cache.New(defaultTTL, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Put(_ context.Context, session *store.Session, ttl time.Duration) error {
	stored := session.Clone()
	stored.UpdatedAt = time.Now()
	if ttl <= 0 {
		ttl = cache.DefaultExpiration
	}
	r.cache.Set(stored.Key(), stored, ttl)
	return nil
}

func (r *SessionRepository) Get(_ context.Context, key string) (*store.Session, bool, error) {
	if x, found := r.cache.Get(key); found {
		return x.(*store.Session).Clone(), true, nil
	}
	return nil, false, nil
}

func (r *SessionRepository) Clear(_ context.Context, key string) error {
	r.cache.Delete(key)
	return nil
}
