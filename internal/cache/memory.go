package cache

import (
	"context"
	"sync"
	"time"

	"github.com/XavierBriggs/Beacon/pkg/contracts"
	"github.com/XavierBriggs/Beacon/pkg/models"
)

// Memory is the default in-process result cache: a mutex-guarded map with
// lazy expiry on read plus an external Sweep. Entries are stored and
// replaced whole.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type memoryEntry struct {
	value   models.SearchResult
	expires time.Time
}

var _ contracts.ResultCache = (*Memory)(nil)

// NewMemory creates an in-memory cache with the given TTL.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the entry for key if present and unexpired. An expired entry
// is removed on the spot.
func (m *Memory) Get(_ context.Context, key string) (models.SearchResult, bool) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return models.SearchResult{}, false
	}
	if m.now().After(entry.expires) {
		m.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have
		// refreshed the entry.
		if cur, still := m.entries[key]; still && m.now().After(cur.expires) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return models.SearchResult{}, false
	}
	return entry.value, true
}

// Set stores value under key, replacing any previous entry.
func (m *Memory) Set(_ context.Context, key string, value models.SearchResult) error {
	m.mu.Lock()
	m.entries[key] = memoryEntry{value: value, expires: m.now().Add(m.ttl)}
	m.mu.Unlock()
	return nil
}

// Sweep removes every expired entry; scheduled periodically so memory stays
// bounded even without reads.
func (m *Memory) Sweep(_ context.Context) {
	now := m.now()
	m.mu.Lock()
	for key, entry := range m.entries {
		if now.After(entry.expires) {
			delete(m.entries, key)
		}
	}
	m.mu.Unlock()
}

// Len reports the current entry count, expired or not. Used by tests and
// the providers diagnostic endpoint.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
