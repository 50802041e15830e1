package ratelimit

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(cfg Config) (*Limiter, *time.Time) {
	l := NewLimiter(cfg)
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLimiter_AllowsBurstThenDenies(t *testing.T) {
	l, _ := newTestLimiter(Config{Enabled: true, Rules: []Rule{
		{Method: http.MethodPost, Path: "/applications", Limit: 60, Window: time.Minute, Burst: 3},
	}})

	for i := 0; i < 3; i++ {
		info := l.Allow("10.0.0.1", http.MethodPost, "/applications")
		require.True(t, info.Allowed, "request %d", i+1)
		assert.Equal(t, 60, info.Limit)
		assert.Equal(t, 2-i, info.Remaining)
	}

	info := l.Allow("10.0.0.1", http.MethodPost, "/applications")
	assert.False(t, info.Allowed)
	assert.Equal(t, time.Second, info.RetryAfter)
}

func TestLimiter_Refills(t *testing.T) {
	l, now := newTestLimiter(Config{Enabled: true, Rules: []Rule{
		{Method: http.MethodDelete, Path: "/applications/", Limit: 60, Window: time.Minute, Burst: 1},
	}})

	require.True(t, l.Allow("c", http.MethodDelete, "/applications/1").Allowed)
	require.False(t, l.Allow("c", http.MethodDelete, "/applications/1").Allowed)

	*now = now.Add(time.Second)
	assert.True(t, l.Allow("c", http.MethodDelete, "/applications/2").Allowed)
}

func TestLimiter_DeniedRequestsDoNotConsume(t *testing.T) {
	l, now := newTestLimiter(Config{Enabled: true, Rules: []Rule{
		{Method: http.MethodPost, Path: "/applications", Limit: 60, Window: time.Minute, Burst: 1},
	}})

	require.True(t, l.Allow("c", http.MethodPost, "/applications").Allowed)
	for i := 0; i < 5; i++ {
		require.False(t, l.Allow("c", http.MethodPost, "/applications").Allowed)
	}

	*now = now.Add(time.Second)
	assert.True(t, l.Allow("c", http.MethodPost, "/applications").Allowed)
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(Config{Enabled: true, Rules: WriteRules(6)})

	require.True(t, l.Allow("a", http.MethodPost, "/applications").Allowed)
	require.False(t, l.Allow("a", http.MethodPost, "/applications").Allowed)
	assert.True(t, l.Allow("b", http.MethodPost, "/applications").Allowed)
	assert.Equal(t, 2, l.Clients())
}

func TestLimiter_RulesAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(Config{Enabled: true, Rules: WriteRules(6)})

	require.True(t, l.Allow("a", http.MethodPost, "/applications").Allowed)
	require.False(t, l.Allow("a", http.MethodPost, "/applications").Allowed)
	assert.True(t, l.Allow("a", http.MethodDelete, "/applications/1").Allowed)
}

func TestLimiter_Unlimited(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		client string
		method string
		path   string
	}{
		{"disabled", Config{Rules: WriteRules(1)}, "a", http.MethodPost, "/applications"},
		{"exempt client", Config{Enabled: true, Rules: WriteRules(1), Exempt: map[string]bool{"127.0.0.1": true}}, "127.0.0.1", http.MethodPost, "/applications"},
		{"no rule and no default", Config{Enabled: true, Rules: WriteRules(1)}, "a", http.MethodGet, "/applications"},
		{"health", Config{Enabled: true, Default: Rule{Limit: 1, Window: time.Minute}}, "a", http.MethodGet, "/health"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newTestLimiter(tt.cfg)
			for i := 0; i < 20; i++ {
				info := l.Allow(tt.client, tt.method, tt.path)
				require.True(t, info.Allowed)
				assert.Zero(t, info.Limit)
			}
		})
	}
}

func TestLimiter_DefaultRule(t *testing.T) {
	l, _ := newTestLimiter(Config{
		Enabled: true,
		Default: Rule{Limit: 2, Window: time.Minute},
	})

	assert.True(t, l.Allow("a", http.MethodGet, "/applications").Allowed)
	assert.True(t, l.Allow("a", http.MethodGet, "/applications").Allowed)
	assert.False(t, l.Allow("a", http.MethodGet, "/applications").Allowed)
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(Config{Enabled: true, Rules: []Rule{
		{Method: http.MethodPost, Path: "/applications", Limit: 50, Window: time.Hour},
	}})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("a", http.MethodPost, "/applications").Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowed)
}

func TestMatch(t *testing.T) {
	rules := WriteRules(60)

	tests := []struct {
		method string
		path   string
		want   string
		ok     bool
	}{
		{http.MethodPost, "/applications", "POST /applications", true},
		{http.MethodPost, "/applications/3/archive", "POST /applications/", true},
		{http.MethodPatch, "/applications/3/status", "PATCH /applications/", true},
		{http.MethodDelete, "/applications/3", "DELETE /applications/", true},
		{http.MethodGet, "/applications", "", false},
		{http.MethodPut, "/applications/3", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			r, ok := Match(tt.method, tt.path, rules)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, r.key())
			}
		})
	}
}

func TestWriteRules_MinimumBurst(t *testing.T) {
	for _, r := range WriteRules(3) {
		assert.Equal(t, 1, r.burst())
		assert.Equal(t, 3, r.Limit)
	}
}
