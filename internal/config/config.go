package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Host string
	Port string

	// Logging settings
	LogLevel  string
	LogFormat string

	// Database settings
	PGHost      string
	PGUser      string
	PGPassword  string
	PGDatabase  string
	PGPort      int
	DatabaseURL string

	// API settings
	DefaultPageLimit int
	MaxPageLimit     int

	// Import settings
	ImportSource      string
	ImportS3Region    string
	ImportS3Endpoint  string
	ImportS3PathStyle bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Not an error if .env doesn't exist
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{
		Host:             getEnv("HOST", "0.0.0.0"),
		Port:             getEnv("PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
		PGHost:           getEnv("PG_HOST", "localhost"),
		PGUser:           getEnv("PG_USER", "postgres"),
		PGPassword:       getEnv("PG_PASSWORD", "postgres"),
		PGDatabase:       getEnv("PG_DB", "postgres"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		ImportSource:     getEnv("IMPORT_SOURCE", "data"),
		ImportS3Region:   getEnv("IMPORT_S3_REGION", "us-east-1"),
		ImportS3Endpoint: os.Getenv("IMPORT_S3_ENDPOINT"),
	}

	var err error
	cfg.PGPort, err = strconv.Atoi(getEnv("PG_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid PG_PORT: %w", err)
	}

	cfg.DefaultPageLimit, err = strconv.Atoi(getEnv("DEFAULT_PAGE_LIMIT", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_PAGE_LIMIT: %w", err)
	}

	cfg.MaxPageLimit, err = strconv.Atoi(getEnv("MAX_PAGE_LIMIT", "1000"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_PAGE_LIMIT: %w", err)
	}

	if cfg.DefaultPageLimit <= 0 || cfg.DefaultPageLimit > cfg.MaxPageLimit {
		return nil, fmt.Errorf("DEFAULT_PAGE_LIMIT must be between 1 and MAX_PAGE_LIMIT (%d)", cfg.MaxPageLimit)
	}

	cfg.ImportS3PathStyle = strings.EqualFold(getEnv("IMPORT_S3_PATH_STYLE", "false"), "true")

	return cfg, nil
}

// DSN returns DATABASE_URL when set, otherwise a postgres URL assembled from
// the PG_* settings.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}

	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(c.PGUser, c.PGPassword),
		Host:   fmt.Sprintf("%s:%d", c.PGHost, c.PGPort),
		Path:   "/" + c.PGDatabase,
	}
	return u.String()
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
