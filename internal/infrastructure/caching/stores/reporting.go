// Package stores provides concrete cache store implementations
package stores

import (
	"sync"
	"time"
)

// ReportingStore caches computed dashboard aggregates so repeated dashboard
// loads do not re-run the COUNT/GROUP BY queries. Entries expire after the
// configured TTL; writes to the underlying tables do not invalidate them.
type ReportingStore struct {
	entries map[string]*reportingEntry
	ttl     time.Duration
	mu      sync.RWMutex
}

type reportingEntry struct {
	value     any
	expiresAt time.Time
}

// NewReportingStore creates a new reporting cache store with the given TTL.
func NewReportingStore(ttl time.Duration) *ReportingStore {
	return &ReportingStore{
		entries: make(map[string]*reportingEntry),
		ttl:     ttl,
	}
}

// Get retrieves a cached aggregate when present and unexpired.
func (rs *ReportingStore) Get(key string) (any, bool) {
	rs.mu.RLock()
	entry, exists := rs.entries[key]
	rs.mu.RUnlock()

	if !exists || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.value, true
}

// Set stores an aggregate under the key with a fresh expiry.
func (rs *ReportingStore) Set(key string, value any) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.entries[key] = &reportingEntry{
		value:     value,
		expiresAt: time.Now().Add(rs.ttl),
	}
}

// Invalidate drops one key.
func (rs *ReportingStore) Invalidate(key string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	delete(rs.entries, key)
}

// Purge drops every cached aggregate.
func (rs *ReportingStore) Purge() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.entries = make(map[string]*reportingEntry)
}
