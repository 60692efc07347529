package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"recipebot/internal/pkg/logger"
	"recipebot/internal/repository/contract"
	"recipebot/pkg/store"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "recipebot:session:"

// SessionRepository keeps sessions in Redis so they survive restarts.
type SessionRepository struct {
	client     *redis.Client
	defaultTTL time.Duration
	log        logger.ILogger
}

var _ contract.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(client *redis.Client, defaultTTL time.Duration, log logger.ILogger) *SessionRepository {
	return &SessionRepository{client: client, defaultTTL: defaultTTL, log: log}
}

// NewClient parses a redis:// URL and pings the server.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (r *SessionRepository) Put(ctx context.Context, session *store.Session, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = r.defaultTTL
	}
	stored := session.Clone()
	stored.UpdatedAt = time.Now()
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return r.client.Set(ctx, keyPrefix+stored.Key(), data, ttl).Err()
}

func (r *SessionRepository) Get(ctx context.Context, key string) (*store.Session, bool, error) {
	data, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get session: %w", err)
	}
	var s store.Session
	// An undecodable value is dropped so the user starts over instead of
	// failing on every event until the key expires.
	if err := json.Unmarshal(data, &s); err != nil {
		r.log.Warn("SessionRepository", "Discarding unreadable session", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		if delErr := r.client.Del(ctx, keyPrefix+key).Err(); delErr != nil {
			return nil, false, fmt.Errorf("delete unreadable session: %w", delErr)
		}
		return nil, false, nil
	}
	return &s, true, nil
}

func (r *SessionRepository) Clear(ctx context.Context, key string) error {
	return r.client.Del(ctx, keyPrefix+key).Err()
}
