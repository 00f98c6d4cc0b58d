package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which owner claimed a request key.
// A payment retried with the same key is matched to the order that
// first used it.
type IdempotencyStore interface {
	// Claim records owner under key if the key is free. When the key is
	// already held it returns false and the current owner.
	Claim(ctx context.Context, key, owner string, ttl time.Duration) (claimed bool, current string, err error)

	// Release frees a key so the request may be retried
	Release(ctx context.Context, key string) error

	// Close releases resources held by the store
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a claimed key is remembered
	TTL time.Duration

	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
