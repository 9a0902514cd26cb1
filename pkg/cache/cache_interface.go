package cache

import (
	"context"
	"time"
)

// Counter is the slice of a key/value store used for attempt tracking.
// The catalog itself is never cached; only short-lived counters live here.
type Counter interface {
	// Increment adds one to key and returns the new value.
	Increment(ctx context.Context, key string) (int64, error)

	// Expire sets a TTL on key.
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// TTL returns the remaining lifetime of key, or a negative duration if it has none.
	TTL(ctx context.Context, key string) (time.Duration, error)

	Delete(ctx context.Context, keys ...string) error
}
