// Package ratelimit throttles API requests per client using token buckets.
package ratelimit

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// Info describes the outcome of one Allow call.
type Info struct {
	Allowed    bool
	Limit      int // requests per window; 0 means unlimited
	Remaining  int
	RetryAfter time.Duration
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled bool
	// Default applies to requests no rule matches. A zero Limit leaves them unlimited.
	Default Rule
	Rules   []Rule
	// Exempt client ids are never limited.
	Exempt map[string]bool
	// MaxClients bounds the number of buckets kept; the least recently used go first.
	MaxClients int
	// IdleTTL drops a bucket that has not been used for this long.
	IdleTTL time.Duration
}

// Limiter manages one token bucket per client and rule.
type Limiter struct {
	cfg     Config
	mu      sync.Mutex
	buckets *expirable.LRU[string, *rate.Limiter]
	now     func() time.Time
}

// NewLimiter creates a limiter for cfg.
func NewLimiter(cfg Config) *Limiter {
	if cfg.MaxClients <= 0 {
		cfg.MaxClients = 10000
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = time.Hour
	}
	return &Limiter{
		cfg:     cfg,
		buckets: expirable.NewLRU[string, *rate.Limiter](cfg.MaxClients, nil, cfg.IdleTTL),
		now:     time.Now,
	}
}

// Allow consumes a token for clientID on the rule matching method and path.
// A denied request consumes nothing.
func (l *Limiter) Allow(clientID, method, path string) Info {
	if !l.cfg.Enabled || l.cfg.Exempt[clientID] {
		return Info{Allowed: true}
	}

	rule, ok := Match(method, path, l.cfg.Rules)
	if !ok {
		rule = l.cfg.Default
	}
	if rule.Limit <= 0 || rule.Window <= 0 {
		return Info{Allowed: true}
	}

	now := l.now()
	lim := l.bucket(clientID+" "+rule.key(), rule)

	res := lim.ReserveN(now, 1)
	info := Info{Limit: rule.Limit}
	if delay := res.DelayFrom(now); !res.OK() || delay > 0 {
		res.CancelAt(now)
		info.RetryAfter = delay
		info.Remaining = 0
		return info
	}

	info.Allowed = true
	info.Remaining = max(int(lim.TokensAt(now)), 0)
	return info
}

// Clients returns the number of buckets currently tracked.
func (l *Limiter) Clients() int {
	return l.buckets.Len()
}

func (l *Limiter) bucket(key string, rule Rule) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, ok := l.buckets.Get(key); ok {
		return lim
	}
	lim := rate.NewLimiter(rule.refill(), rule.burst())
	l.buckets.Add(key, lim)
	return lim
}
