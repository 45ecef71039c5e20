package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBucket_Allow(t *testing.T) {
	bucket := newTokenBucket(10, 1.0)

	for i := 0; i < 10; i++ {
		assert.True(t, bucket.allow(), "request %d should be allowed", i+1)
	}
	assert.False(t, bucket.allow(), "11th request should be denied")
}

func TestTokenBucket_Refill(t *testing.T) {
	bucket := newTokenBucket(10, 10.0)
	for i := 0; i < 10; i++ {
		bucket.allow()
	}
	require.False(t, bucket.allow())

	time.Sleep(150 * time.Millisecond)

	assert.True(t, bucket.allow(), "a token should have refilled")
}

func TestTokenBucket_GetStatus(t *testing.T) {
	bucket := newTokenBucket(10, 1.0)
	for i := 0; i < 5; i++ {
		bucket.allow()
	}

	remaining, resetTime := bucket.getStatus()
	assert.Equal(t, 5, remaining)
	assert.True(t, resetTime.After(time.Now()), "reset time should be in the future")

	full := newTokenBucket(3, 1.0)
	remaining, _ = full.getStatus()
	assert.Equal(t, 3, remaining)
}

func TestLimiter_Allow(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/roles", "GET")
		require.True(t, allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := limiter.Allow("127.0.0.1", "/roles", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Positive(t, info.RetryAfter)
	assert.LessOrEqual(t, info.RetryAfter, 6*time.Second)
}

func TestLimiter_Bypass(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		client  string
		allowed bool
	}{
		{
			name:    "whitelisted",
			config:  &Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute, Whitelist: map[string]bool{"127.0.0.1": true}},
			client:  "127.0.0.1",
			allowed: true,
		},
		{
			name:    "blacklisted",
			config:  &Config{Enabled: true, DefaultLimit: 1000, DefaultWindow: time.Minute, Blacklist: map[string]bool{"192.168.1.1": true}},
			client:  "192.168.1.1",
			allowed: false,
		},
		{
			name:    "disabled",
			config:  &Config{Enabled: false},
			client:  "127.0.0.1",
			allowed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := NewLimiter(tt.config)
			defer limiter.Stop()

			for i := 0; i < 20; i++ {
				allowed, info := limiter.Allow(tt.client, "/roles", "GET")
				require.Equal(t, tt.allowed, allowed)
				assert.Equal(t, 0, info.Limit)
			}
		})
	}
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/analyze", Method: "POST", Limit: 5, Window: time.Hour, Burst: 5},
		},
	})
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/analyze", "POST")
		require.True(t, allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 5, info.Limit)
	}

	allowed, _ := limiter.Allow("127.0.0.1", "/analyze", "POST")
	assert.False(t, allowed)

	allowed, info := limiter.Allow("127.0.0.1", "/roles", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)

	allowed, _ = limiter.Allow("10.0.0.2", "/analyze", "POST")
	assert.True(t, allowed, "other clients keep their own bucket")
}

func TestLimiter_RouteParamsShareBucket(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/admin/resumes/{id}", Method: "DELETE", Limit: 2, Window: time.Hour, Burst: 2},
		},
	})
	defer limiter.Stop()

	for i := 1; i <= 2; i++ {
		allowed, _ := limiter.Allow("127.0.0.1", fmt.Sprintf("/admin/resumes/%d", i), "DELETE")
		require.True(t, allowed)
	}

	allowed, _ := limiter.Allow("127.0.0.1", "/admin/resumes/3", "DELETE")
	assert.False(t, allowed, "a fresh id must not get a fresh allowance")
	assert.Equal(t, 1, limiter.bucketCount())
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    1,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(),
	})
	defer limiter.Stop()

	for i := 0; i < 50; i++ {
		allowed, _ := limiter.Allow("127.0.0.1", "/health", "GET")
		require.True(t, allowed)
	}
	assert.Zero(t, limiter.bucketCount())
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/analyze", Method: "POST", Limit: 30},
		{Path: "/analyze/stream", Method: "POST", Limit: 20},
		{Path: "/admin/resumes/{id}", Method: "DELETE", Limit: 10},
		{Path: "/admin/resumes/{id}", Limit: 7},
		{Path: "/admin/resumes/export", Method: "GET", Limit: 3},
		{Path: "/roles/{category}", Method: "GET", Limit: 50},
	}

	tests := []struct {
		name      string
		path      string
		method    string
		wantLimit int
		wantNil   bool
	}{
		{name: "exact", path: "/analyze", method: "POST", wantLimit: 30},
		{name: "exact nested route is its own entry", path: "/analyze/stream", method: "POST", wantLimit: 20},
		{name: "trailing slash", path: "/analyze/", method: "POST", wantLimit: 30},
		{name: "method mismatch", path: "/analyze", method: "GET", wantNil: true},
		{name: "param segment", path: "/admin/resumes/8b0c", method: "DELETE", wantLimit: 10},
		{name: "any method fallback", path: "/admin/resumes/8b0c", method: "GET", wantLimit: 7},
		{name: "literal beats param", path: "/admin/resumes/export", method: "GET", wantLimit: 3},
		{name: "param needs a segment", path: "/admin/resumes", method: "DELETE", wantNil: true},
		{name: "param matches one segment only", path: "/admin/resumes/1/skills", method: "DELETE", wantNil: true},
		{name: "category route", path: "/roles/Engineering", method: "GET", wantLimit: 50},
		{name: "unknown", path: "/templates", method: "GET", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}

func TestDefaultEndpointConfigs_ExemptHealth(t *testing.T) {
	cfg := MatchEndpoint("/health", "GET", DefaultEndpointConfigs())
	require.NotNil(t, cfg)
	assert.Zero(t, cfg.Limit)

	cfg = MatchEndpoint("/admin/resumes/4a1f", "DELETE", DefaultEndpointConfigs())
	require.NotNil(t, cfg)
	assert.Equal(t, "/admin/resumes/{id}", cfg.Path)
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 100, DefaultWindow: time.Minute})
	defer limiter.Stop()

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		allowedCount int
	)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := limiter.Allow("127.0.0.1", "/roles", "GET"); allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, allowedCount)
}

func TestLimiter_CleanupBuckets(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
		IdleTimeout:   50 * time.Millisecond,
	})
	defer limiter.Stop()

	for i := 0; i < 4; i++ {
		limiter.Allow(fmt.Sprintf("127.0.0.%d", i+1), "/roles", "GET")
	}
	require.Equal(t, 4, limiter.bucketCount())

	time.Sleep(80 * time.Millisecond)
	limiter.Allow("127.0.0.1", "/roles", "GET")
	limiter.cleanupBuckets()

	assert.Equal(t, 1, limiter.bucketCount(), "only the recently used bucket survives")
}

func TestLimiter_Burst(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/resumes/build", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		},
	})
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow("127.0.0.1", "/resumes/build", "POST")
		require.True(t, allowed, "burst request %d should be allowed", i+1)
	}
	allowed, _ := limiter.Allow("127.0.0.1", "/resumes/build", "POST")
	assert.False(t, allowed)
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter := NewLimiter(nil)
	require.NotNil(t, limiter)
	limiter.Stop()
	limiter.Stop()

	allowed, info := limiter.Allow("127.0.0.1", "/roles", "GET")
	assert.True(t, allowed)
	assert.Equal(t, DefaultLimit, info.Limit)

	_, info = limiter.Allow("127.0.0.1", "/admin/login", "POST")
	assert.Equal(t, 5, info.Limit)
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_ENABLED", "")
		t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "")
		t.Setenv("RATE_LIMIT_WHITELIST", "")

		cfg := LoadConfig()
		assert.True(t, cfg.Enabled)
		assert.Equal(t, DefaultLimit, cfg.DefaultLimit)
		assert.Equal(t, time.Minute, cfg.DefaultWindow)
		assert.Equal(t, time.Hour, cfg.IdleTimeout)
		assert.Empty(t, cfg.Whitelist)
		assert.NotEmpty(t, cfg.EndpointConfigs)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_ENABLED", "true")
		t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "50")
		t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "30s")
		t.Setenv("RATE_LIMIT_WHITELIST", " 10.0.0.1 ,10.0.0.2,")
		t.Setenv("RATE_LIMIT_BLACKLIST", "1.2.3.4")

		cfg := LoadConfig()
		assert.Equal(t, 50, cfg.DefaultLimit)
		assert.Equal(t, 30*time.Second, cfg.DefaultWindow)
		assert.Equal(t, map[string]bool{"10.0.0.1": true, "10.0.0.2": true}, cfg.Whitelist)
		assert.True(t, cfg.Blacklist["1.2.3.4"])
	})

	t.Run("disabled", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_ENABLED", "false")
		assert.False(t, LoadConfig().Enabled)
	})

	t.Run("bad values fall back", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_ENABLED", "maybe")
		t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "lots")
		t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "soon")

		cfg := LoadConfig()
		assert.True(t, cfg.Enabled)
		assert.Equal(t, DefaultLimit, cfg.DefaultLimit)
		assert.Equal(t, time.Minute, cfg.DefaultWindow)
	})
}
