package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "redis", cfg.Redis.Driver)
	assert.Equal(t, "https://earthquake.usgs.gov", cfg.Feed.BaseURL)
	assert.Equal(t, 5, cfg.Feed.WindowMinutes)
	assert.Equal(t, 500, cfg.Feed.SnapshotLimit)
	assert.Equal(t, 60, cfg.Scheduler.IntervalSeconds)
	assert.Equal(t, 500.0, cfg.Proximity.ThresholdKm)
	assert.Empty(t, cfg.Proximity.BoundaryFile)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("BUS_DRIVER", "memory")
	t.Setenv("FEED_WINDOW_MINUTES", "10")
	t.Setenv("SCHEDULER_INTERVAL_SECONDS", "30")
	t.Setenv("PROXIMITY_THRESHOLD_KM", "250.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, "memory", cfg.Redis.Driver)
	assert.Equal(t, 10, cfg.Feed.WindowMinutes)
	assert.Equal(t, 30, cfg.Scheduler.IntervalSeconds)
	assert.Equal(t, 250.5, cfg.Proximity.ThresholdKm)
}

func TestLoad_MalformedNumbersFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")
	t.Setenv("PROXIMITY_THRESHOLD_KM", "wide")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 500.0, cfg.Proximity.ThresholdKm)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "quake",
		Password: "secret",
		Database: "quakefeed",
		SSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.internal port=5433 user=quake password=secret dbname=quakefeed sslmode=require",
		cfg.DatabaseDSN(),
	)
}

func TestRedisAddr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.internal", Port: 6380}
	assert.Equal(t, "cache.internal:6380", cfg.RedisAddr())
}
