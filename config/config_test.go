package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseConfig(t *testing.T) *AppConfig {
	t.Helper()
	cfg := &AppConfig{}
	require.NoError(t, env.Parse(cfg))
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := parseConfig(t)

	assert.False(t, cfg.IsDev)
	assert.Equal(t, AuthModeMock, cfg.Auth.Mode)
	assert.Equal(t, time.Hour, cfg.Auth.Mock.SessionTTL)
	assert.Equal(t, time.Hour, cfg.Auth.Backend.SessionTTL)
	assert.Equal(t, 10*time.Second, cfg.Auth.Backend.Timeout)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "http://localhost:8080", cfg.HTTP.BaseURL)
	assert.Equal(t, 10, cfg.HTTP.LoginRatePerMinute)
	assert.Equal(t, 5, cfg.HTTP.LoginBurst)
	assert.False(t, cfg.Redis.Enabled())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("AUTH_MODE", "backend")
	t.Setenv("AUTH_BACKEND_BASE_URL", "https://api.example.org/")
	t.Setenv("AUTH_BACKEND_SESSION_TTL", "30m")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")

	cfg := parseConfig(t)
	cfg.Sanitize()

	assert.Equal(t, AuthModeBackend, cfg.Auth.Mode)
	// Sanitize strips the trailing slash so URL joining stays predictable.
	assert.Equal(t, "https://api.example.org", cfg.Auth.Backend.BaseURL)
	assert.Equal(t, 30*time.Minute, cfg.Auth.Backend.SessionTTL)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestAuthModeUnmarshalText(t *testing.T) {
	var m AuthMode
	require.NoError(t, m.UnmarshalText([]byte("MOCK")))
	assert.Equal(t, AuthModeMock, m)

	require.NoError(t, m.UnmarshalText([]byte("Backend")))
	assert.Equal(t, AuthModeBackend, m)

	err := m.UnmarshalText([]byte("ldap"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid AuthMode")
}

func TestSanitizeGuards(t *testing.T) {
	cfg := &AppConfig{}
	cfg.HTTP.LoginRatePerMinute = -5
	cfg.HTTP.LoginBurst = 0
	cfg.Auth.Mock.SessionTTL = -time.Minute
	cfg.Auth.Backend.SessionTTL = 0
	cfg.Auth.Backend.Timeout = 0

	cfg.Sanitize()

	assert.Equal(t, 1, cfg.HTTP.LoginRatePerMinute)
	assert.Equal(t, 1, cfg.HTTP.LoginBurst)
	assert.Equal(t, time.Hour, cfg.Auth.Mock.SessionTTL)
	assert.Equal(t, time.Hour, cfg.Auth.Backend.SessionTTL)
	assert.Equal(t, 10*time.Second, cfg.Auth.Backend.Timeout)
}

func TestDetectDevMode(t *testing.T) {
	t.Run("NODE_ENV development", func(t *testing.T) {
		t.Setenv("NODE_ENV", "development")
		cfg := parseConfig(t)
		cfg.Sanitize()
		assert.True(t, cfg.IsDev)
	})

	t.Run("NODE_ENV production", func(t *testing.T) {
		t.Setenv("NODE_ENV", "production")
		cfg := parseConfig(t)
		cfg.Sanitize()
		assert.False(t, cfg.IsDev)
	})

	t.Run("DEV wins regardless of NODE_ENV", func(t *testing.T) {
		t.Setenv("DEV", "true")
		t.Setenv("NODE_ENV", "production")
		cfg := parseConfig(t)
		cfg.Sanitize()
		assert.True(t, cfg.IsDev)
	})
}
