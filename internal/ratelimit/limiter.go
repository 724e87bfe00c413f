package ratelimit

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// idleLimiterTTL is how long a per-source limiter is kept after its last use.
const idleLimiterTTL = 10 * time.Minute

// IPLimiter is a token bucket per source address.
type IPLimiter struct {
	mu       sync.Mutex
	limiters *expirable.LRU[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
}

// NewIPLimiter creates a limiter allowing rps requests per second with the
// given burst for each source.
func NewIPLimiter(rps float64, burst, size int) *IPLimiter {
	if size <= 0 {
		size = DefaultStoreSize
	}
	if burst <= 0 {
		burst = 1
	}
	return &IPLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](size, nil, idleLimiterTTL),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

// Allow reports whether a request from key may proceed now.
func (l *IPLimiter) Allow(key string) bool {
	return l.get(key).Allow()
}

func (l *IPLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if limiter, ok := l.limiters.Get(key); ok {
		return limiter
	}
	limiter := rate.NewLimiter(l.rate, l.burst)
	l.limiters.Add(key, limiter)
	return limiter
}
