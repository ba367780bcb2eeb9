package ratelimit

import (
	"math"
	"sync"
	"time"
)

// Record holds one client key's fixed-window counter state.
type Record struct {
	// WindowStart is when the current window opened.
	WindowStart time.Time

	// Count is the number of requests admitted in the current window.
	Count int
}

// Decision is the outcome of a limiter check. A check never fails; it
// always produces a decision.
type Decision struct {
	// Allowed reports whether the request may proceed.
	Allowed bool

	// Remaining is the quota left in the current window after this request.
	Remaining int

	// ResetIn is the number of seconds until the window resets, rounded up.
	// It is only meaningful when Allowed is false.
	ResetIn int
}

// Limiter is a fixed-window request counter keyed by client.
//
// Each key gets one window record. The first request from a key, or the
// first after its window expires, opens a fresh window with count 1.
// Requests inside an active window increment the count until the limit is
// hit, after which checks are denied until the window lapses.
//
// Fixed windows admit bursts of up to twice the limit across a window
// boundary.
type Limiter struct {
	mu     sync.Mutex
	store  Store
	limit  int
	window time.Duration

	// now is swappable for tests.
	now func() time.Time
}

// NewLimiter creates a fixed-window limiter allowing limit requests per
// window for each client key, backed by the given store.
func NewLimiter(limit int, window time.Duration, store Store) *Limiter {
	if store == nil {
		store = NewMemoryStore(DefaultMaxEntries)
	}
	return &Limiter{
		store:  store,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Check records a request attempt for key and returns the decision.
// The read-modify-write sequence runs under one lock, so concurrent
// requests for the same key never observe a torn counter.
func (l *Limiter) Check(key string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	rec, ok := l.store.Get(key)
	if !ok || now.Sub(rec.WindowStart) > l.window {
		// First request from this key, or its previous window lapsed.
		l.store.Set(key, Record{WindowStart: now, Count: 1})
		return Decision{Allowed: true, Remaining: l.limit - 1}
	}

	if rec.Count >= l.limit {
		resetIn := int(math.Ceil(rec.WindowStart.Add(l.window).Sub(now).Seconds()))
		if resetIn < 1 {
			resetIn = 1
		}
		return Decision{Allowed: false, Remaining: 0, ResetIn: resetIn}
	}

	rec.Count++
	l.store.Set(key, rec)
	return Decision{Allowed: true, Remaining: l.limit - rec.Count}
}

// SetLimits retunes the limiter at runtime. Existing window records are
// kept; the new limit and window apply from the next check.
func (l *Limiter) SetLimits(limit int, window time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limit = limit
	l.window = window
}

// Limit returns the configured per-window request limit.
func (l *Limiter) Limit() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.limit
}

// Window returns the configured window duration.
func (l *Limiter) Window() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.window
}

// SweepExpired deletes all records whose window has lapsed and returns the
// number removed. It is safe to run concurrently with checks.
func (l *Limiter) SweepExpired() int {
	l.mu.Lock()
	cutoff := l.now().Add(-l.window)
	l.mu.Unlock()
	return l.store.Sweep(cutoff)
}

// TrackedKeys returns the number of client keys currently tracked.
func (l *Limiter) TrackedKeys() int {
	return l.store.Len()
}
