package kv

import (
	"context"
	"time"
)

// Store is the external key-value contract shared by the rate limiter and
// the deployment store. All cross-request state lives behind this interface:
// instances are stateless, and nothing survives in process memory.
type Store interface {
	// Get returns the value for key, reporting whether the key exists.
	// A missing key is not an error.
	Get(ctx context.Context, key string) (string, bool, error)

	// Put stores value under key. A zero ttl means the entry never expires.
	Put(ctx context.Context, key, value string, ttl time.Duration) error

	// List returns all live keys beginning with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Counter is the strongly consistent increment used by the enterprise rate
// limiter path. Implementations must make the increment-and-expire a single
// atomic operation on one coordinating owner per key.
type Counter interface {
	// IncrWithTTL atomically increments key and returns the new count,
	// arming the ttl when the counter is first created.
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}
