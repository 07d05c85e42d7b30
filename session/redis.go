package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "fooddelight:session:"

// RedisStore keeps sessions as JSON values with a TTL so several API instances
// can share them.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Ping checks connectivity.
func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	return nil
}

func (r *RedisStore) Create(ctx context.Context, s *Session) error {
	return r.write(ctx, s, r.ttl)
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.Cart == nil {
		s.Cart = Cart{}
	}
	return &s, nil
}

// Save overwrites the session and keeps its remaining lifetime.
func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	ttl, err := r.client.TTL(ctx, redisKeyPrefix+s.ID).Result()
	if err != nil {
		return fmt.Errorf("session ttl: %w", err)
	}
	if ttl == -2 {
		return ErrNotFound
	}
	if ttl < 0 {
		ttl = 0
	}
	return r.write(ctx, s, ttl)
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *RedisStore) write(ctx context.Context, s *Session, ttl time.Duration) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.Set(ctx, redisKeyPrefix+s.ID, raw, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}
