package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "hps:profile:"

// RedisStore keeps each session's profile as a JSON string with a TTL.
type RedisStore struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisStore creates a Redis-backed store. A zero ttl keeps keys forever.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if client == nil {
		panic("profile: redis client required")
	}
	return &RedisStore{redis: client, ttl: ttl}
}

func (s *RedisStore) key(sessionID string) string {
	return redisKeyPrefix + sessionID
}

// Get loads and decodes the profile.
func (s *RedisStore) Get(ctx context.Context, sessionID string) (ContactProfile, error) {
	data, err := s.redis.Get(ctx, s.key(sessionID)).Bytes()
	if err == redis.Nil {
		return ContactProfile{}, ErrNotFound
	}
	if err != nil {
		return ContactProfile{}, fmt.Errorf("profile: redis get: %w", err)
	}
	return decode(data)
}

// Put stores the profile and refreshes its TTL.
func (s *RedisStore) Put(ctx context.Context, sessionID string, p ContactProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("profile: encode: %w", err)
	}
	if err := s.redis.Set(ctx, s.key(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("profile: redis set: %w", err)
	}
	return nil
}

// Delete removes the profile key.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.redis.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("profile: redis del: %w", err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
