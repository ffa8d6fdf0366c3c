package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sfredis "github.com/angelmondragon/storefront-cart/pkg/redis"
)

type redisKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

// RedisStore keeps each cart as a JSON record with a sliding TTL.
type RedisStore struct {
	client redisKV
	ttl    time.Duration
}

// NewRedisStore builds a store on top of the shared redis client. A zero ttl
// keeps carts until deleted.
func NewRedisStore(client redisKV, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl < 0 {
		return nil, fmt.Errorf("cart ttl must not be negative")
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func (s *RedisStore) Backend() string { return "redis" }

func (s *RedisStore) Load(ctx context.Context, sessionID string) (*Record, error) {
	raw, err := s.client.Get(ctx, s.client.CartKey(sessionID))
	if errors.Is(err, sfredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return &rec, nil
}

// Save writes the record and refreshes its TTL.
func (s *RedisStore) Save(ctx context.Context, sessionID string, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.client.Set(ctx, s.client.CartKey(sessionID), payload, s.ttl); err != nil {
		return fmt.Errorf("set cart: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.client.CartKey(sessionID)); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
