package cache

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

// LimiterStore keeps one token bucket per client key. Buckets unused for
// longer than the TTL are evicted on access.
type LimiterStore struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	ttl       time.Duration
	clock     clockwork.Clock
	entries   map[string]*limiterEntry
	lastSweep time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLimiterStore creates a store whose buckets refill at rps tokens per
// second up to burst.
func NewLimiterStore(rps float64, burst int, ttl time.Duration, clock clockwork.Clock) *LimiterStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &LimiterStore{
		limit:     rate.Limit(rps),
		burst:     burst,
		ttl:       ttl,
		clock:     clock,
		entries:   make(map[string]*limiterEntry),
		lastSweep: clock.Now(),
	}
}

// Reserve takes one token for key. It returns zero when the request may
// proceed now, otherwise how long the client has to wait. A rejected
// request does not consume a token.
func (s *LimiterStore) Reserve(key string) time.Duration {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep(now)

	entry, ok := s.entries[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.entries[key] = entry
	}
	entry.lastSeen = now

	r := entry.limiter.ReserveN(now, 1)
	if !r.OK() {
		return s.ttl
	}
	delay := r.DelayFrom(now)
	if delay > 0 {
		r.CancelAt(now)
	}
	return delay
}

// Len returns the number of tracked clients.
func (s *LimiterStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// sweep drops idle entries at most once per TTL. Callers hold mu.
func (s *LimiterStore) sweep(now time.Time) {
	if s.ttl <= 0 || now.Sub(s.lastSweep) < s.ttl {
		return
	}
	for key, entry := range s.entries {
		if now.Sub(entry.lastSeen) >= s.ttl {
			delete(s.entries, key)
		}
	}
	s.lastSweep = now
}
