package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"HTTP_ADDR", "HTTP_READ_TIMEOUT", "HTTP_WRITE_TIMEOUT", "HTTP_IDLE_TIMEOUT", "SHUTDOWN_TIMEOUT",
	"LOG_LEVEL", "CATALOG_URL", "CATALOG_TOKEN", "CATALOG_TIMEOUT", "CACHE_TTL", "RATE_LIMIT", "RATE_WINDOW",
	"REDIS_ENABLED", "REDIS_HOST", "REDIS_PORT", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "REDIS_TLS", "REDIS_PREFIX",
}

// clearEnv unsets every config variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func noFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFile(noFile(t))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 60*time.Second, cfg.IdleTimeout)
	assert.Equal(t, "http://localhost:9001", cfg.CatalogURL)
	assert.Empty(t, cfg.CatalogToken)
	assert.Equal(t, 2*time.Second, cfg.CatalogTimeout)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 10, cfg.RateLimit)
	assert.Equal(t, time.Minute, cfg.RateWindow)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "packages", cfg.Redis.Prefix)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CATALOG_URL", "http://catalog:8080")
	t.Setenv("CATALOG_TOKEN", "secret")
	t.Setenv("CACHE_TTL", "5m")
	t.Setenv("RATE_LIMIT", "100")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_ADDR", "ignored:6379")
	t.Setenv("REDIS_DB", "2")

	cfg, err := LoadFile(noFile(t))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "http://catalog:8080", cfg.CatalogURL)
	assert.Equal(t, "secret", cfg.CatalogToken)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 100, cfg.RateLimit)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CATALOG_URL=http://from-file:9000\nRATE_LIMIT=7\n"), 0o600))
	t.Setenv("RATE_LIMIT", "20")
	t.Cleanup(func() { _ = os.Unsetenv("CATALOG_URL") })

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://from-file:9000", cfg.CatalogURL)
	// The process environment wins over the file.
	assert.Equal(t, 20, cfg.RateLimit)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "bad duration", env: map[string]string{"CACHE_TTL": "soon"}, wantErr: `CACHE_TTL: invalid duration "soon"`},
		{name: "bad integer", env: map[string]string{"RATE_LIMIT": "many"}, wantErr: `RATE_LIMIT: invalid integer "many"`},
		{name: "bad boolean", env: map[string]string{"REDIS_ENABLED": "maybe"}, wantErr: `REDIS_ENABLED: invalid boolean "maybe"`},
		{name: "bad log level", env: map[string]string{"LOG_LEVEL": "loud"}, wantErr: `LOG_LEVEL: invalid log level "loud"`},
		{name: "zero ttl", env: map[string]string{"CACHE_TTL": "0s"}, wantErr: "CACHE_TTL must be positive"},
		{name: "negative rate", env: map[string]string{"RATE_LIMIT": "-1"}, wantErr: "RATE_LIMIT must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadFile(noFile(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	client, err := NewRedisClient(context.Background(), RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
	assert.Nil(t, client)
}
