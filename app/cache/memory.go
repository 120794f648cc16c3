package cache

import (
	"context"
	"sync"
	"time"
)

var _ Store = (*MemoryStore)(nil)

type memoryEntry struct {
	value   string
	expires time.Time
}

// DefaultMaxEntries bounds a MemoryStore created by NewMemoryStore.
const DefaultMaxEntries = 300

// MemoryStore is a process-local cache holding at most maxEntries keys.
// Expired entries are swept on every write; when the store is still full a
// third of it is culled.
type MemoryStore struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	maxEntries int
	now        func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries:    make(map[string]memoryEntry),
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return "", false, nil
	}
	if !entry.expires.IsZero() && !s.now().Before(entry.expires) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return "", false, nil
	}
	return entry.value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expires = s.now().Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep()
	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.maxEntries {
		s.cull()
	}
	s.entries[key] = entry
	return nil
}

// sweep drops expired entries. Callers hold s.mu.
func (s *MemoryStore) sweep() {
	now := s.now()
	for key, entry := range s.entries {
		if !entry.expires.IsZero() && !now.Before(entry.expires) {
			delete(s.entries, key)
		}
	}
}

// cull evicts a third of the entries, at least one. Callers hold s.mu.
func (s *MemoryStore) cull() {
	n := max(len(s.entries)/3, 1)
	for key := range s.entries {
		if n == 0 {
			break
		}
		delete(s.entries, key)
		n--
	}
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Health(_ context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]any{
		"status":    "healthy",
		"type":      BackendMemory,
		"key_count": len(s.entries),
	}
}

func (s *MemoryStore) Close() error {
	return nil
}
