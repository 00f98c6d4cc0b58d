// Package cache provides short-lived key/value storage backed by Redis or
// process memory: dashboard snapshots and payment idempotency keys.
package cache

import (
	"context"
	"time"
)

// Store is a byte-oriented cache with per-entry TTL
type Store interface {
	// Get returns the value and true, or false when the key is absent or expired
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key for ttl (0 = no expiry)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes keys; missing keys are ignored
	Delete(ctx context.Context, keys ...string) error
}
