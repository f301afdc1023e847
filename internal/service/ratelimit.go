package service

import (
	"sync"

	"golang.org/x/time/rate"
)

// UserLimiter keeps one token bucket per user, guarding the mutating
// operations of the scheduling service. A nil *UserLimiter allows
// everything.
type UserLimiter struct {
	mu      sync.Mutex
	buckets map[uint]*rate.Limiter
	limit   rate.Limit
	burst   int
}

// NewUserLimiter allows rps mutations per second per user with the given
// burst.
func NewUserLimiter(rps float64, burst int) *UserLimiter {
	if burst < 1 {
		burst = 1
	}
	return &UserLimiter{
		buckets: make(map[uint]*rate.Limiter),
		limit:   rate.Limit(rps),
		burst:   burst,
	}
}

func (l *UserLimiter) Allow(userID uint) bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	b, ok := l.buckets[userID]
	if !ok {
		b = rate.NewLimiter(l.limit, l.burst)
		l.buckets[userID] = b
	}
	l.mu.Unlock()
	return b.Allow()
}
