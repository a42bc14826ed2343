package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultIdempotencyTTL = time.Hour

// IdempotencyGuard remembers idempotency keys for create requests.
// Key format: idem:<collection>:<key>
type IdempotencyGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyGuard creates a guard wrapping the given Redis client.
// Keys expire after ttl; a non-positive ttl means one hour.
func NewIdempotencyGuard(client *redis.Client, ttl time.Duration) *IdempotencyGuard {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyGuard{client: client, ttl: ttl}
}

// Claim stores the key if it is new and reports whether it was.
func (g *IdempotencyGuard) Claim(ctx context.Context, scope, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(scope, key), time.Now().UTC().Unix(), g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("idempotency claim: %w", err)
	}
	return ok, nil
}

// Release forgets the key so a failed request can be retried with it.
func (g *IdempotencyGuard) Release(ctx context.Context, scope, key string) error {
	if err := g.client.Del(ctx, g.key(scope, key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func (g *IdempotencyGuard) key(scope, key string) string {
	return fmt.Sprintf("idem:%s:%s", scope, key)
}
