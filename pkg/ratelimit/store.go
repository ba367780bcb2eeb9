package ratelimit

import (
	"sync"
	"time"
)

// DefaultMaxEntries is the default cap on tracked client keys.
const DefaultMaxEntries = 100000

// Store is the persistence interface for window records. The limiter only
// ever touches records through it, so a distributed or persistent backend
// can be swapped in without changing handler logic.
type Store interface {
	// Get returns the record for key, if one exists.
	Get(key string) (Record, bool)

	// Set stores or replaces the record for key.
	Set(key string, rec Record)

	// Delete removes the record for key, if present.
	Delete(key string)

	// Len returns the number of stored records.
	Len() int

	// Sweep deletes records whose window opened before cutoff and returns
	// the number removed.
	Sweep(cutoff time.Time) int
}

// MemoryStore is the in-process Store. All state is lost on restart, which
// is the intended behavior of this best-effort shim.
//
// MemoryStore is safe for concurrent use.
type MemoryStore struct {
	mu         sync.Mutex
	records    map[string]Record
	maxEntries int
}

// NewMemoryStore creates an in-memory store holding at most maxEntries
// records. When full, the record with the oldest window start is evicted
// to make room.
func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryStore{
		records:    make(map[string]Record),
		maxEntries: maxEntries,
	}
}

// Get returns the record for key, if one exists.
func (m *MemoryStore) Get(key string) (Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[key]
	return rec, ok
}

// Set stores or replaces the record for key, evicting the oldest record
// if the store is full.
func (m *MemoryStore) Set(key string, rec Record) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[key]; !exists && len(m.records) >= m.maxEntries {
		m.evictOldestLocked()
	}
	m.records[key] = rec
}

// Delete removes the record for key, if present.
func (m *MemoryStore) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key)
}

// Len returns the number of stored records.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// Sweep deletes records whose window opened before cutoff.
func (m *MemoryStore) Sweep(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	deleted := 0
	for key, rec := range m.records {
		if rec.WindowStart.Before(cutoff) {
			delete(m.records, key)
			deleted++
		}
	}
	return deleted
}

// evictOldestLocked evicts the record with the oldest window start.
// Caller must hold the lock.
func (m *MemoryStore) evictOldestLocked() {
	var (
		oldestKey  string
		oldestTime time.Time
		found      bool
	)
	for key, rec := range m.records {
		if !found || rec.WindowStart.Before(oldestTime) {
			oldestKey = key
			oldestTime = rec.WindowStart
			found = true
		}
	}
	if found {
		delete(m.records, oldestKey)
	}
}
