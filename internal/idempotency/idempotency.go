// Package idempotency rejects a payment submission whose Idempotency-Key was
// already claimed.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

var ErrDuplicateKey = errors.New("idempotent key already exists")

const DefaultTTL = 24 * time.Hour

type Guard interface {
	// Claim records key. It returns ErrDuplicateKey if key was claimed
	// before and has not expired.
	Claim(ctx context.Context, key string) error
	// Release forgets key so the next Claim succeeds.
	Release(ctx context.Context, key string) error
}

// RedisGuard stores claimed keys in redis with a TTL.
type RedisGuard struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisGuard(rdb *redis.Client, ttl time.Duration) *RedisGuard {
	return &RedisGuard{rdb: rdb, ttl: ttl}
}

func redisKey(key string) string {
	return fmt.Sprintf("idempotent-key:%s", key)
}

func (g *RedisGuard) Claim(ctx context.Context, key string) error {
	ok, err := g.rdb.SetNX(ctx, redisKey(key), "exists", g.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrDuplicateKey
	}
	return nil
}

func (g *RedisGuard) Release(ctx context.Context, key string) error {
	return g.rdb.Del(ctx, redisKey(key)).Err()
}

// MemoryGuard keeps claimed keys in process memory.
type MemoryGuard struct {
	mu   sync.Mutex
	ttl  time.Duration
	now  func() time.Time
	keys map[string]time.Time // key -> expiry
}

func NewMemoryGuard(ttl time.Duration) *MemoryGuard {
	return &MemoryGuard{ttl: ttl, now: time.Now, keys: make(map[string]time.Time)}
}

func (g *MemoryGuard) Claim(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if exp, ok := g.keys[key]; ok && now.Before(exp) {
		return ErrDuplicateKey
	}
	g.keys[key] = now.Add(g.ttl)

	// drop expired keys so the map does not grow without bound
	for k, exp := range g.keys {
		if !now.Before(exp) {
			delete(g.keys, k)
		}
	}
	return nil
}

func (g *MemoryGuard) Release(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.keys, key)
	return nil
}
