package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadWith(testContext(t), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "pcpdfilm", cfg.APIKey)
	assert.Equal(t, "s235776767", cfg.Staff.Username)
	assert.Equal(t, "1234567890", cfg.Staff.Password)
	assert.Equal(t, "none", cfg.Token.Signing)
	assert.Equal(t, 24*time.Hour, cfg.Token.TTL)
	assert.Equal(t, 8*time.Second, cfg.Upstream.Timeout)
	require.Len(t, cfg.Upstream.BaseURLs, 2)
	assert.Contains(t, cfg.Upstream.BaseURLs[0], "https://")
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Queue.Enabled)
	assert.Equal(t, "rental.recorded", cfg.Queue.Queue)
	assert.True(t, cfg.Cache.Caches("get"))
	assert.False(t, cfg.Cache.Caches("POST"))
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadWith(testContext(t), envconfig.MapLookuper(map[string]string{
		"UPSTREAM_BASE_URLS":  "http://a,http://b,http://c",
		"TOKEN_SIGNING":       "hs256",
		"TOKEN_SECRET":        "s3cret",
		"STORE_BACKEND":       "mysql",
		"RATE_LIMIT_CAPACITY": "0",
		"RATE_LIMIT_TTL":      "1s",
		"CACHE_METHODS":       "GET,HEAD",
		"RABBITMQ_ENABLED":    "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{"http://a", "http://b", "http://c"}, cfg.Upstream.BaseURLs)
	assert.Equal(t, "hs256", cfg.Token.Signing)
	assert.Equal(t, "mysql", cfg.Store.Backend)
	assert.Equal(t, 1, cfg.RateLimit.Capacity)
	assert.Equal(t, 5*cfg.RateLimit.RefillInterval, cfg.RateLimit.TTL)
	assert.True(t, cfg.Cache.Caches("HEAD"))
	assert.True(t, cfg.Queue.Enabled)
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]map[string]string{
		"hs256 without secret": {"TOKEN_SIGNING": "hs256"},
		"unknown signing":      {"TOKEN_SIGNING": "rsa"},
		"unknown backend":      {"STORE_BACKEND": "postgres"},
		"bad duration":         {"UPSTREAM_TIMEOUT": "soon"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadWith(testContext(t), envconfig.MapLookuper(env))
			assert.Error(t, err)
		})
	}
}

func TestNewRedisClientDisabled(t *testing.T) {
	assert.Nil(t, NewRedisClient(RedisConfig{Enabled: false}))
}

// testContext returns a context that is canceled when the test finishes,
// mirroring testing.T.Context for toolchains older than Go 1.24.
func testContext(t testing.TB) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
