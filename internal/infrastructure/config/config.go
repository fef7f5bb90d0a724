// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported store drivers
const (
	DriverBadger   = "badger"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds every setting the server and tools need
type Config struct {
	// Server configuration
	Port            string
	ShutdownTimeout time.Duration

	// Logging
	LogLevel string

	// Store configuration
	StoreDriver string
	BadgerPath  string
	SQLitePath  string
	DatabaseURL string

	// Identity configuration
	RedisURL    string
	TokenPrefix string
}

// Load reads configuration from a .env file, if present, and the environment
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		ShutdownTimeout: time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
		LogLevel:        getEnv("LOG_LEVEL", "INFO"),
		StoreDriver:     strings.ToLower(getEnv("STORE_DRIVER", DriverBadger)),
		BadgerPath:      getEnv("BADGER_PATH", "./data"),
		SQLitePath:      getEnv("SQLITE_PATH", "toko-baju.db"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379/0"),
		TokenPrefix:     getEnv("TOKEN_PREFIX", "access_token:"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configured store can be opened
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverBadger, DriverSQLite:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres store")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
