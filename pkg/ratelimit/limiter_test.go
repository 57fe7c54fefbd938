package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testQuota() Quota {
	return Quota{KeyPrefix: "search", Window: time.Minute, MaxRequests: 3}
}

func TestAdmit_WindowQuota(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(time.Minute)
	s.now = func() time.Time { return now }
	q := testQuota()

	// Exactly MaxRequests admissions succeed within one window
	for i := 0; i < q.MaxRequests; i++ {
		dec := s.Admit("1.2.3.4", q)
		assert.True(t, dec.Allowed, "request %d should be admitted", i+1)
		assert.Equal(t, q.MaxRequests-i-1, dec.Remaining)
	}

	// The next one is denied with a positive retry delay
	dec := s.Admit("1.2.3.4", q)
	assert.False(t, dec.Allowed)
	assert.Equal(t, 0, dec.Remaining)
	assert.Greater(t, dec.RetryAfter, time.Duration(0))
	assert.Equal(t, now.Add(time.Minute), dec.ResetAt)
}

func TestAdmit_WindowResets(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(time.Minute)
	s.now = func() time.Time { return now }
	q := testQuota()

	for i := 0; i < q.MaxRequests; i++ {
		s.Admit("client", q)
	}
	assert.False(t, s.Admit("client", q).Allowed)

	// After the window passes, a fresh window starts with count=1
	now = now.Add(q.Window)
	dec := s.Admit("client", q)
	assert.True(t, dec.Allowed)
	assert.Equal(t, q.MaxRequests-1, dec.Remaining)
	assert.Equal(t, now.Add(q.Window), dec.ResetAt)
}

func TestAdmit_KeysAreIndependent(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(time.Minute)
	s.now = func() time.Time { return now }
	q := testQuota()

	for i := 0; i < q.MaxRequests; i++ {
		s.Admit("client-a", q)
	}
	assert.False(t, s.Admit("client-a", q).Allowed)
	assert.True(t, s.Admit("client-b", q).Allowed)

	// Same client under a different prefix has its own bucket
	strict := Quota{KeyPrefix: "payment", Window: time.Minute, MaxRequests: 1}
	assert.True(t, s.Admit("client-a", strict).Allowed)
}

func TestAdmit_SweepDropsExpiredEntries(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(time.Minute)
	s.now = func() time.Time { return now }
	q := testQuota()

	s.Admit("a", q)
	s.Admit("b", q)
	assert.Equal(t, 2, s.Len())

	// Both windows expire; the next admit (past the sweep interval) cleans up
	now = now.Add(2 * time.Minute)
	s.Admit("c", q)
	assert.Equal(t, 1, s.Len())
}

func TestAdmit_ConcurrentSameKey(t *testing.T) {
	s := NewStore(time.Minute)
	q := Quota{KeyPrefix: "search", Window: time.Minute, MaxRequests: 50}

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 100; i++ {
		wg.Go(func() {
			if s.Admit("shared", q).Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		})
	}
	wg.Wait()

	// count never exceeds MaxRequests while allowed=true is returned
	assert.Equal(t, 50, allowed)
}
