package rest

import (
	"sync"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"medcare/config"
)

// ipRateLimiter keeps one token bucket per client IP. Buckets of idle
// clients expire after the configured TTL.
type ipRateLimiter struct {
	mu       sync.Mutex
	limiters *gocache.Cache
	limit    rate.Limit
	burst    int
}

func newIPRateLimiter(cfg config.RateLimitConfig) *ipRateLimiter {
	return &ipRateLimiter{
		limiters: gocache.New(cfg.TTL, cfg.TTL),
		limit:    rate.Limit(cfg.RequestsPerSecond),
		burst:    cfg.Burst,
	}
}

func (l *ipRateLimiter) Allow(ip string) bool {
	return l.get(ip).Allow()
}

func (l *ipRateLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, ok := l.limiters.Get(ip); ok {
		// touching the entry keeps an active client's bucket alive
		l.limiters.SetDefault(ip, v)
		return v.(*rate.Limiter)
	}

	limiter := rate.NewLimiter(l.limit, l.burst)
	l.limiters.SetDefault(ip, limiter)
	return limiter
}
