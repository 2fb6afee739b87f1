// Package idempotency deduplicates issuance requests that carry an Idempotency-Key header.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/blockward/blockward-backend/interfaces"
)

const (
	keyPrefix     = "blockward:idempotency:"
	pendingMarker = "pending"
)

// RedisGuard reserves keys with SETNX. A reserved key holds pendingMarker until
// the response is stored.
type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisGuard connects to redisURL (redis://[user:pass@]host:port/db).
func NewRedisGuard(redisURL string, ttl time.Duration) (*RedisGuard, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing REDIS_URL: %w", err)
	}
	return &RedisGuard{client: redis.NewClient(opts), ttl: ttl}, nil
}

func (g *RedisGuard) Begin(ctx context.Context, key string) ([]byte, error) {
	ok, err := g.client.SetNX(ctx, keyPrefix+key, pendingMarker, g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("reserving idempotency key: %w", err)
	}
	if ok {
		return nil, nil
	}

	val, err := g.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		// Expired between SETNX and GET.
		return g.Begin(ctx, key)
	}
	if err != nil {
		return nil, fmt.Errorf("reading idempotency key: %w", err)
	}
	if string(val) == pendingMarker {
		return nil, interfaces.ErrRequestInFlight
	}
	return val, nil
}

func (g *RedisGuard) Complete(ctx context.Context, key string, response []byte) error {
	if err := g.client.Set(ctx, keyPrefix+key, response, g.ttl).Err(); err != nil {
		return fmt.Errorf("storing idempotent response: %w", err)
	}
	return nil
}

func (g *RedisGuard) Release(ctx context.Context, key string) error {
	return g.client.Del(ctx, keyPrefix+key).Err()
}

// Ping checks the Redis connection.
func (g *RedisGuard) Ping(ctx context.Context) error {
	return g.client.Ping(ctx).Err()
}

func (g *RedisGuard) Close() error {
	return g.client.Close()
}

// NopGuard accepts every request.
type NopGuard struct{}

func (NopGuard) Begin(ctx context.Context, key string) ([]byte, error) {
	return nil, nil
}

func (NopGuard) Complete(ctx context.Context, key string, response []byte) error {
	return nil
}

func (NopGuard) Release(ctx context.Context, key string) error {
	return nil
}

// New returns a RedisGuard when redisURL is set and a NopGuard otherwise.
func New(redisURL string, ttl time.Duration) (interfaces.IdempotencyGuard, error) {
	if redisURL == "" {
		return NopGuard{}, nil
	}
	return NewRedisGuard(redisURL, ttl)
}
