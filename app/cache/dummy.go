package cache

import (
	"context"
	"time"
)

var _ Store = DummyStore{}

// DummyStore caches nothing.
type DummyStore struct{}

func (DummyStore) Get(context.Context, string) (string, bool, error)         { return "", false, nil }
func (DummyStore) Set(context.Context, string, string, time.Duration) error { return nil }
func (DummyStore) Delete(context.Context, string) error                      { return nil }
func (DummyStore) Close() error                                              { return nil }

func (DummyStore) Health(context.Context) map[string]any {
	return map[string]any{"status": "healthy", "type": BackendDummy}
}
