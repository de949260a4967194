package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, k := range []string{"APP_ENV", "DB_DRIVER", "GRPC_PORT", "CACHE_ENABLED", "REFRESH_INTERVAL", "REFRESH_RPS", "GAUGE_CONFIG_PATH"} {
			t.Setenv(k, "")
		}
		cfg := LoadFromEnv()

		assert.Equal(t, "development", cfg.AppEnv)
		assert.Equal(t, "sqlite3", cfg.DBDriver)
		assert.Equal(t, 50051, cfg.GRPCPort)
		assert.True(t, cfg.CacheEnabled)
		assert.Equal(t, 5*time.Minute, cfg.RefreshInterval)
		assert.Equal(t, 0.2, cfg.RefreshRPS)
		assert.Empty(t, cfg.GaugeConfigPath)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("DB_DRIVER", "postgres")
		t.Setenv("GRPC_PORT", "6000")
		t.Setenv("CACHE_ENABLED", "false")
		t.Setenv("RECORD_CACHE_TTL", "30s")
		t.Setenv("REFRESH_INTERVAL", "1m")
		t.Setenv("REFRESH_RPS", "2.5")
		t.Setenv("DEFAULT_DASHBOARD", "support")
		t.Setenv("GRPC_REFLECTION_ENABLED", "true")

		cfg := LoadFromEnv()

		assert.Equal(t, "postgres", cfg.DBDriver)
		assert.Equal(t, 6000, cfg.GRPCPort)
		assert.False(t, cfg.CacheEnabled)
		assert.Equal(t, 30*time.Second, cfg.RecordCacheTTL)
		assert.Equal(t, time.Minute, cfg.RefreshInterval)
		assert.Equal(t, 2.5, cfg.RefreshRPS)
		assert.Equal(t, "support", cfg.DefaultDashboard)
		assert.True(t, cfg.GRPCReflectionEnabled)
	})

	t.Run("malformed values fall back", func(t *testing.T) {
		t.Setenv("GRPC_PORT", "abc")
		t.Setenv("REFRESH_INTERVAL", "soon")
		t.Setenv("CACHE_ENABLED", "maybe")

		cfg := LoadFromEnv()

		assert.Equal(t, 50051, cfg.GRPCPort)
		assert.Equal(t, 5*time.Minute, cfg.RefreshInterval)
		assert.True(t, cfg.CacheEnabled)
	})
}

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"production", "development"} {
		logger, err := NewLogger(&Config{AppEnv: env})
		require.NoError(t, err)
		assert.NotNil(t, logger)
	}
}
