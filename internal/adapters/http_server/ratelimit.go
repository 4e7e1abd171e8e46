package httpserver

import (
	"math/rand"
	"sync"
	"time"
)

// LimiterConfig holds the two fixed windows: a coarse one applied to all
// traffic and a tighter one applied additionally to API routes.
type LimiterConfig struct {
	GeneralWindow time.Duration
	GeneralLimit  int
	APIWindow     time.Duration
	APILimit      int
}

func DefaultLimiterConfig() LimiterConfig {
	return LimiterConfig{
		GeneralWindow: 15 * time.Minute,
		GeneralLimit:  100,
		APIWindow:     time.Minute,
		APILimit:      30,
	}
}

// Decision is the admission outcome plus the bookkeeping the boundary turns
// into X-RateLimit-* and Retry-After headers.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	Reset      time.Time
	RetryAfter time.Duration
}

type windowEntry struct {
	count int
	reset time.Time
}

// RateLimiter is a fixed-window request counter keyed by (caller, class).
// Windows reset entirely at their boundary, so bursts straddling a boundary
// can reach 2x the budget; that approximation is accepted for this service.
// Counter state is process-local and resets on restart.
type RateLimiter struct {
	mu      sync.Mutex
	cfg     LimiterConfig
	entries map[string]*windowEntry
	now     func() time.Time
}

// NewRateLimiter builds a limiter. now may be nil, in which case time.Now is
// used; tests inject a fake clock to step across window boundaries.
func NewRateLimiter(cfg LimiterConfig, now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{cfg: cfg, entries: make(map[string]*windowEntry), now: now}
}

// Admit checks the caller against every applicable window: the general one
// always, the API one additionally for API-classed routes. The returned
// decision reflects the tightest applicable window so response headers show
// the budget the caller is closest to exhausting.
func (l *RateLimiter) Admit(key string, apiRoute bool) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Low-probability inline sweep keeps the table bounded by active callers.
	if rand.Float64() < 0.01 {
		l.sweepLocked()
	}

	if apiRoute {
		d := l.admitLocked(key+":api", l.cfg.APIWindow, l.cfg.APILimit)
		if !d.Allowed {
			return d
		}
		if g := l.admitLocked(key+":general", l.cfg.GeneralWindow, l.cfg.GeneralLimit); !g.Allowed {
			return g
		}
		return d
	}
	return l.admitLocked(key+":general", l.cfg.GeneralWindow, l.cfg.GeneralLimit)
}

func (l *RateLimiter) admitLocked(key string, window time.Duration, limit int) Decision {
	now := l.now()
	e, ok := l.entries[key]
	if !ok || now.After(e.reset) {
		e = &windowEntry{count: 1, reset: now.Add(window)}
		l.entries[key] = e
		return Decision{Allowed: true, Limit: limit, Remaining: limit - 1, Reset: e.reset}
	}
	if e.count >= limit {
		return Decision{Allowed: false, Limit: limit, Reset: e.reset, RetryAfter: e.reset.Sub(now)}
	}
	e.count++
	return Decision{Allowed: true, Limit: limit, Remaining: limit - e.count, Reset: e.reset}
}

func (l *RateLimiter) sweepLocked() {
	now := l.now()
	for k, e := range l.entries {
		if now.After(e.reset) {
			delete(l.entries, k)
		}
	}
}
