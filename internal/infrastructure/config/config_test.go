package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"POD_APP_NAME":              os.Getenv("POD_APP_NAME"),
		"POD_APP_ENV":               os.Getenv("POD_APP_ENV"),
		"POD_APP_PORT":              os.Getenv("POD_APP_PORT"),
		"POD_UPSTREAM_BASE_URL":     os.Getenv("POD_UPSTREAM_BASE_URL"),
		"POD_UPSTREAM_REFRESH_PATH": os.Getenv("POD_UPSTREAM_REFRESH_PATH"),
		"POD_UPSTREAM_TIMEOUT":      os.Getenv("POD_UPSTREAM_TIMEOUT"),
		"POD_SESSION_BACKEND":       os.Getenv("POD_SESSION_BACKEND"),
		"POD_SESSION_STORAGE_KEY":   os.Getenv("POD_SESSION_STORAGE_KEY"),
		"POD_REDIS_HOST":            os.Getenv("POD_REDIS_HOST"),
		"POD_CACHE_BACKEND":         os.Getenv("POD_CACHE_BACKEND"),
		"POD_LOG_LEVEL":             os.Getenv("POD_LOG_LEVEL"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "pod-console", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "/login", cfg.App.LoginPath)
		assert.Equal(t, "http://localhost:5000/api", cfg.Upstream.BaseURL)
		assert.Equal(t, "/auth/refresh", cfg.Upstream.RefreshPath)
		assert.Equal(t, 30*time.Second, cfg.Upstream.Timeout)
		assert.Equal(t, "file", cfg.Session.Backend)
		assert.Equal(t, "auth-storage", cfg.Session.StorageKey)
		assert.Equal(t, "memory", cfg.Cache.Backend)
		assert.Equal(t, 60*time.Second, cfg.Cache.TTL)
		assert.Equal(t, "info", cfg.Log.Level)
	})

	t.Run("loads values from environment variables with POD prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("POD_APP_NAME", "test-console")
		os.Setenv("POD_APP_ENV", "testing")
		os.Setenv("POD_APP_PORT", "9000")
		os.Setenv("POD_UPSTREAM_BASE_URL", "https://api.example.com/api")
		os.Setenv("POD_UPSTREAM_TIMEOUT", "10s")
		os.Setenv("POD_SESSION_BACKEND", "redis")
		os.Setenv("POD_REDIS_HOST", "redis.local")
		os.Setenv("POD_LOG_LEVEL", "debug")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-console", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "https://api.example.com/api", cfg.Upstream.BaseURL)
		assert.Equal(t, 10*time.Second, cfg.Upstream.Timeout)
		assert.Equal(t, "redis", cfg.Session.Backend)
		assert.Equal(t, "redis.local", cfg.Redis.Host)
		assert.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("rejects invalid upstream base URL", func(t *testing.T) {
		clearEnv()
		os.Setenv("POD_UPSTREAM_BASE_URL", "not-a-url")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("rejects unknown session backend", func(t *testing.T) {
		clearEnv()
		os.Setenv("POD_SESSION_BACKEND", "postgres")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("rejects unknown cache backend", func(t *testing.T) {
		clearEnv()
		os.Setenv("POD_CACHE_BACKEND", "memcached")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.internal", Port: 6380}
	assert.Equal(t, "cache.internal:6380", cfg.Addr())
}

func TestConfig_IsProduction(t *testing.T) {
	cfg := &Config{App: AppConfig{Env: "production"}}
	assert.True(t, cfg.IsProduction())

	cfg.App.Env = "development"
	assert.False(t, cfg.IsProduction())
}
