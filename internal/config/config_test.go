package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/billboards")
	t.Setenv("JWT_ACCESS_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, 7090, cfg.HTTP.Port)
	assert.Equal(t, []string{"*"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, 30, cfg.Removal.LookbackDays)
	assert.Equal(t, 24*time.Hour, cfg.Removal.ProcessedTTL)
	assert.Equal(t, 15*time.Minute, cfg.Removal.WorkerInterval)
	assert.True(t, cfg.Removal.AutoCreate)
	assert.Empty(t, cfg.Redis.URL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/billboards")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("HTTP_PORT", "8081")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://admin.example.com, https://ops.example.com")
	t.Setenv("REDIS_URL", "redis://localhost:6379/2")
	t.Setenv("REMOVAL_LOOKBACK_DAYS", "7")
	t.Setenv("REMOVAL_WORKER_INTERVAL", "1h")
	t.Setenv("REMOVAL_AUTO_CREATE", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 8081, cfg.HTTP.Port)
	assert.Equal(t, []string{"https://admin.example.com", "https://ops.example.com"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "redis://localhost:6379/2", cfg.Redis.URL)
	assert.Equal(t, 7, cfg.Removal.LookbackDays)
	assert.Equal(t, time.Hour, cfg.Removal.WorkerInterval)
	assert.False(t, cfg.Removal.AutoCreate)
}

func TestLoad_RequiresSecrets(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("JWT_ACCESS_SECRET", "secret")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DSN")
}

func TestParseList(t *testing.T) {
	assert.Nil(t, parseList("  "))
	assert.Equal(t, []string{"a", "b"}, parseList("a, ,b"))
}
