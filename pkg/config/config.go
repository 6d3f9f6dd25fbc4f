package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Feed        FeedConfig
	Scheduler   SchedulerConfig
	Proximity   ProximityConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	// Driver selects the store backend: "postgres" or "memory".
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	// Driver selects the event bus backend: "redis" or "memory".
	Driver   string
	Host     string
	Port     int
	Password string
	DB       int
}

// FeedConfig holds upstream earthquake feed configuration
type FeedConfig struct {
	BaseURL string
	// WindowMinutes is the trailing fetch window. It deliberately exceeds
	// the scheduler interval so consecutive cycles overlap.
	WindowMinutes int
	SnapshotLimit int
}

// SchedulerConfig holds per-session scheduling configuration
type SchedulerConfig struct {
	IntervalSeconds int
}

// ProximityConfig holds plate-boundary analysis configuration
type ProximityConfig struct {
	ThresholdKm  float64
	BoundaryFile string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "quakefeed"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Driver:   getEnv("BUS_DRIVER", "redis"),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Feed: FeedConfig{
			BaseURL:       getEnv("FEED_BASE_URL", "https://earthquake.usgs.gov"),
			WindowMinutes: getEnvAsInt("FEED_WINDOW_MINUTES", 5),
			SnapshotLimit: getEnvAsInt("FEED_SNAPSHOT_LIMIT", 500),
		},
		Scheduler: SchedulerConfig{
			IntervalSeconds: getEnvAsInt("SCHEDULER_INTERVAL_SECONDS", 60),
		},
		Proximity: ProximityConfig{
			ThresholdKm:  getEnvAsFloat("PROXIMITY_THRESHOLD_KM", 500),
			BoundaryFile: getEnv("PROXIMITY_BOUNDARY_FILE", ""),
		},
	}, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
