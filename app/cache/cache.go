package cache

import (
	"crypto/sha256"
	"fmt"
	"log/slog"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendDummy  = "dummy"
)

type Options struct {
	Backend       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// NewStore builds the configured backend.
func NewStore(opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendMemory:
		slog.Debug("Using in-memory cache")
		return NewMemoryStore(), nil
	case BackendRedis:
		return NewRedisStore(opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
	case BackendDummy:
		slog.Debug("Caching disabled")
		return DummyStore{}, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}

// Key builds a namespaced key from a content hash, e.g. "markdown:1a2b...".
func Key(namespace, content string) string {
	hash := sha256.Sum256([]byte(content))
	return fmt.Sprintf("%s:%x", namespace, hash[:16])
}
