package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsToSQLite(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg := Load()
	require.Equal(t, "sqlite", cfg.DBDriver)
	require.Equal(t, "moviegram.db", cfg.DBName)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, 10, cfg.BcryptCost)
	require.Equal(t, 15, cfg.AccessTTLMin)
	require.Equal(t, 30, cfg.RefreshTTLDays)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DB_NAME", "/var/lib/moviegram/app.db")
	t.Setenv("BCRYPT_COST", "12")

	cfg := Load()
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "/var/lib/moviegram/app.db", cfg.DBName)
	require.Equal(t, 12, cfg.BcryptCost)
}

func TestLoadRateLimitConfigDefaults(t *testing.T) {
	cfg := LoadRateLimitConfig()
	require.True(t, cfg.Enabled)
	require.Equal(t, 30, cfg.Capacity)
	require.Equal(t, 1, cfg.RefillTokens)
	require.Equal(t, time.Second, cfg.RefillInterval)
	require.GreaterOrEqual(t, cfg.TTL, 5*cfg.RefillInterval)
}

func TestLoadCacheConfigParsesMethods(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")

	cfg := LoadCacheConfig()
	require.True(t, cfg.Methods["GET"])
	require.True(t, cfg.Methods["HEAD"])
	require.False(t, cfg.Methods["POST"])
}
