package utils

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revoker remembers logged-out tokens until they would have expired anyway.
type Revoker interface {
	Revoke(ctx context.Context, token string, until time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// MemoryRevoker keeps the blacklist in process memory.
type MemoryRevoker struct {
	mu     sync.RWMutex
	tokens map[string]time.Time
}

func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{tokens: make(map[string]time.Time)}
}

func (r *MemoryRevoker) Revoke(_ context.Context, token string, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for t, expiry := range r.tokens {
		if now.After(expiry) {
			delete(r.tokens, t)
		}
	}
	r.tokens[token] = until
	return nil
}

func (r *MemoryRevoker) IsRevoked(_ context.Context, token string) (bool, error) {
	r.mu.RLock()
	expiry, ok := r.tokens[token]
	r.mu.RUnlock()
	return ok && time.Now().Before(expiry), nil
}

// RedisRevoker shares the blacklist between instances.
type RedisRevoker struct {
	client *redis.Client
	prefix string
}

func NewRedisRevoker(client *redis.Client) *RedisRevoker {
	return &RedisRevoker{client: client, prefix: "revoked:"}
}

func (r *RedisRevoker) Revoke(ctx context.Context, token string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, r.prefix+token, 1, ttl).Err()
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, r.prefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
