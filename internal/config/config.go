// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host    string
	Port    string
	Env     string // "development", "production", "testing"
	BaseURL string // absolute origin used for render URLs; may be empty

	// Logging
	LogLevel string
	LogFile  string // optional rotating file sink

	// PostgreSQL. DatabaseURL wins over the POSTGRES_* parts.
	DatabaseURL       string // service credential
	DatabasePublicURL string // read-limited credential for public pages
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	PageCacheTTL   time.Duration

	// S3-compatible object storage. Uploads are disabled without a secret key.
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string
	UploadMaxMB int

	// SMTP for submission notifications. Disabled when SMTPHost is empty.
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	// First admin, created when the users table is empty.
	SeedAdminEmail    string
	SeedAdminPassword string
}

// Load reads an optional .env file (ENV_FILE, default ".env") and then
// configuration from environment variables, applying defaults for
// development where appropriate. Variables already set in the environment
// win over the file. Returns an error if critical values are missing in
// production mode.
func Load() (*Config, error) {
	if err := godotenv.Load(envOrDefault("ENV_FILE", ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := &Config{
		Host:    envOrDefault("APP_HOST", "0.0.0.0"),
		Port:    envOrDefault("APP_PORT", "8080"),
		Env:     envOrDefault("APP_ENV", "development"),
		BaseURL: os.Getenv("APP_BASE_URL"),

		LogLevel: envOrDefault("LOG_LEVEL", "info"),
		LogFile:  os.Getenv("LOG_FILE"),

		DatabaseURL:       os.Getenv("DATABASE_URL"),
		DatabasePublicURL: os.Getenv("DATABASE_PUBLIC_URL"),
		DBHost:            envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:            envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:            envOrDefault("POSTGRES_USER", "caresite"),
		DBPassword:        envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:            envOrDefault("POSTGRES_DB", "caresite"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     envOrDefault("SMTP_FROM", "no-reply@caresite.local"),

		SeedAdminEmail:    os.Getenv("SEED_ADMIN_EMAIL"),
		SeedAdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
	}

	var err error
	if cfg.UploadMaxMB, err = envInt("UPLOAD_MAX_MB", 5); err != nil {
		return nil, err
	}
	if cfg.SMTPPort, err = envInt("SMTP_PORT", 587); err != nil {
		return nil, err
	}
	ttl, err := envInt("PAGE_CACHE_TTL_SECONDS", 300)
	if err != nil {
		return nil, err
	}
	cfg.PageCacheTTL = time.Duration(ttl) * time.Second

	if cfg.UploadMaxMB <= 0 {
		return nil, fmt.Errorf("UPLOAD_MAX_MB must be positive")
	}

	if cfg.Env == "production" {
		if cfg.DatabaseURL == "" && cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("DATABASE_URL or POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the service PostgreSQL connection string.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// PublicDSN returns the read-limited connection string, falling back to
// the service one.
func (c *Config) PublicDSN() string {
	if c.DatabasePublicURL != "" {
		return c.DatabasePublicURL
	}
	return c.DSN()
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// StorageEnabled reports whether the service key needed for uploads is set.
func (c *Config) StorageEnabled() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// MailEnabled reports whether submission notifications can be sent.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
