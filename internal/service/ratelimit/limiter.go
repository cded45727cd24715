package ratelimit

import (
    "sync"
    "time"

    "golang.org/x/time/rate"
)

// Limiter hands out one token bucket per key.
type Limiter struct {
    mu    sync.Mutex
    m     map[string]*rate.Limiter
    rps   rate.Limit
    burst int
    now   func() time.Time
}

// New returns a limiter refilling rps tokens per second up to burst per key.
func New(rps float64, burst int) *Limiter {
    return &Limiter{
        m:     make(map[string]*rate.Limiter),
        rps:   rate.Limit(rps),
        burst: burst,
        now:   time.Now,
    }
}

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(key string) bool {
    l.mu.Lock()
    b, ok := l.m[key]
    if !ok {
        b = rate.NewLimiter(l.rps, l.burst)
        l.m[key] = b
    }
    l.mu.Unlock()
    return b.AllowN(l.now(), 1)
}
