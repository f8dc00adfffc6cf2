package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 72*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 5*time.Minute, cfg.TrackCacheTTL)
	assert.Equal(t, "VND", cfg.Currency)
	assert.Equal(t, time.Duration(0), cfg.PendingOrderTTL)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_DSN_PRIMARY", "file:bachhoa.db")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PENDING_ORDER_TTL", "24h")
	t.Setenv("REDIS_ADDR", "127.0.0.1:6379")

	cfg, err := Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "file:bachhoa.db", cfg.DBDSN)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.PendingOrderTTL)
	assert.Equal(t, "127.0.0.1:6379", cfg.RedisAddr)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("driver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "postgres")
		_, err := Load("does-not-exist.env")
		assert.Error(t, err)
	})

	t.Run("production secret", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("JWT_SECRET", "")
		_, err := Load("does-not-exist.env")
		assert.Error(t, err)
	})
}
