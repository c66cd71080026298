// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. For local development
a '.env.local' file is merged into the process environment first (via
'joho/godotenv'); variables already set in the environment always win.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, S3) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/netip"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// LocalEnvFile is the optional dotenv file read before parsing.
const LocalEnvFile = ".env.local"

// # Configuration Schema

// Config holds all runtime configuration for the Sakan API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"PORT"         envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseConfig

	// Key-Value Cache (Redis)
	RedisHost     string `env:"REDIS_HOST,required,notEmpty"`
	RedisPort     string `env:"REDIS_PORT"     envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB"       envDefault:"0"`

	// Session token signing
	JWTSecret    string        `env:"JWT_SECRET,required,notEmpty"`
	JWTExpiresIn time.Duration `env:"JWT_EXPIRES_IN" envDefault:"8760h"`

	// Object Storage (S3-compatible)
	S3Endpoint       string `env:"S3_ENDPOINT"`
	S3AccessKey      string `env:"S3_ACCESS_KEY,required,notEmpty"`
	S3SecretKey      string `env:"S3_SECRET_KEY,required,notEmpty"`
	S3Bucket         string `env:"S3_BUCKET_NAME,required,notEmpty"`
	S3Region         string `env:"S3_REGION"           envDefault:"us-east-1"`
	S3ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE" envDefault:"false"`

	// UploadTempDir is where disk-backed multipart uploads are staged.
	// Empty means the OS temp directory.
	UploadTempDir string `env:"UPLOAD_TMP_DIR"`

	// Cross-Origin Resource Sharing
	ExtraOrigins []string `env:"EXTRA_ORIGINS" envSeparator:","`

	// TrustedProxies lists the CIDR ranges of reverse proxies whose
	// X-Forwarded-For and X-Real-IP headers are believed.
	TrustedProxies []netip.Prefix `env:"TRUSTED_PROXIES" envSeparator:","`
}

// DatabaseConfig is the subset of settings the operator CLI needs.
type DatabaseConfig struct {
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`
}

// # Configuration Loading

// Load merges [LocalEnvFile] (when present) and parses environment variables
// into a [Config] struct.
func Load() (*Config, error) {
	if err := godotenv.Load(LocalEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read %s: %w", LocalEnvFile, err)
	}

	return Parse()
}

// Parse maps the current process environment into a [Config] without touching dotenv files.
func Parse() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.JWTExpiresIn <= 0 {
		return nil, fmt.Errorf("config: JWT_EXPIRES_IN must be positive, got %s", cfg.JWTExpiresIn)
	}

	return cfg, nil
}

// LoadDatabase reads only the database settings, so tools that never touch
// Redis or S3 do not require their variables.
func LoadDatabase() (*DatabaseConfig, error) {
	if err := godotenv.Load(LocalEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read %s: %w", LocalEnvFile, err)
	}

	cfg := &DatabaseConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}
	return cfg, nil
}

// RedisAddr returns the host:port pair for the Redis client.
func (c *Config) RedisAddr() string {
	return net.JoinHostPort(c.RedisHost, c.RedisPort)
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
