package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Cache    CacheConfig
	Metrics  MetricsConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	Password string
}

// AuthConfig holds the signing secret and session lifetime. The secret is
// process-wide and read-only after startup; rotating it invalidates every
// outstanding session token and, because API keys never expire, every issued
// API key as well.
type AuthConfig struct {
	Secret     string
	SessionTTL time.Duration
}

// CacheConfig holds TTL cache configuration
type CacheConfig struct {
	PrincipalTTL  time.Duration
	MaxEntries    int
	SweepInterval time.Duration
}

// MetricsConfig holds metrics flush configuration
type MetricsConfig struct {
	FlushInterval time.Duration
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "expensetrack"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		Auth: AuthConfig{
			Secret:     getEnv("AUTH_SECRET", "change-this-in-production"),
			SessionTTL: getEnvAsDuration("SESSION_TTL", 30*time.Minute),
		},
		Cache: CacheConfig{
			PrincipalTTL:  getEnvAsDuration("CACHE_PRINCIPAL_TTL", 2*time.Minute),
			MaxEntries:    getEnvAsInt("CACHE_MAX_ENTRIES", 1000),
			SweepInterval: getEnvAsDuration("CACHE_SWEEP_INTERVAL", time.Minute),
		},
		Metrics: MetricsConfig{
			FlushInterval: getEnvAsDuration("METRICS_FLUSH_INTERVAL", 5*time.Minute),
		},
	}
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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
