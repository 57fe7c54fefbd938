package ratelimit

import (
	"sync"
	"time"
)

// Quota describes a fixed-window admission quota for one endpoint class.
type Quota struct {
	KeyPrefix   string
	Window      time.Duration
	MaxRequests int
}

// Decision is the outcome of one admission check. A denied admission is a
// normal outcome, not an error.
type Decision struct {
	Allowed    bool
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

type entry struct {
	count   int
	resetAt time.Time
}

// Store is an in-memory fixed-window rate limit store keyed by
// "prefix:clientID". Expired entries are swept lazily on admission, at most
// once per sweep interval, so no background goroutine is needed.
//
// Fixed window means a client straddling a window boundary can briefly burst
// up to twice the quota. Downstream quotas were tuned against this behavior,
// so it is kept as is.
type Store struct {
	mu         sync.Mutex
	entries    map[string]*entry
	sweepEvery time.Duration
	lastSweep  time.Time
	now        func() time.Time
}

// NewStore creates a new Store sweeping expired entries at most once per
// sweepEvery.
func NewStore(sweepEvery time.Duration) *Store {
	return &Store{
		entries:    make(map[string]*entry),
		sweepEvery: sweepEvery,
		now:        time.Now,
	}
}

// Admit checks one request from clientID against the quota. The first request
// for a key, or the first after the window expired, starts a fresh window with
// count=1. Requests within a live window are admitted while the counter stays
// at or below MaxRequests; the request that would exceed it is denied with the
// delay until the window resets.
func (s *Store) Admit(clientID string, q Quota) Decision {
	key := q.KeyPrefix + ":" + clientID
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked(now)

	e, ok := s.entries[key]
	if !ok || !now.Before(e.resetAt) {
		e = &entry{count: 1, resetAt: now.Add(q.Window)}
		s.entries[key] = e
		return Decision{
			Allowed:   true,
			Remaining: q.MaxRequests - 1,
			ResetAt:   e.resetAt,
		}
	}

	if e.count >= q.MaxRequests {
		return Decision{
			Allowed:    false,
			Remaining:  0,
			ResetAt:    e.resetAt,
			RetryAfter: e.resetAt.Sub(now),
		}
	}

	e.count++
	return Decision{
		Allowed:   true,
		Remaining: q.MaxRequests - e.count,
		ResetAt:   e.resetAt,
	}
}

// Len returns the number of live entries. Used by tests and debug endpoints.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// sweepLocked drops expired entries. Best effort: a delayed sweep only costs
// memory, never correctness, because Admit restarts expired windows itself.
func (s *Store) sweepLocked(now time.Time) {
	if now.Sub(s.lastSweep) < s.sweepEvery {
		return
	}
	s.lastSweep = now
	for key, e := range s.entries {
		if !now.Before(e.resetAt) {
			delete(s.entries, key)
		}
	}
}
