package cache

import (
	"context"
	"time"
)

// Store is a string key/value cache with per-entry TTL. A zero TTL means the
// entry does not expire.
type Store interface {
	// Get returns the value and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Health(ctx context.Context) map[string]any
	Close() error
}
