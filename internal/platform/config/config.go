// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config loads the chapter API settings from the environment with
caarlos0/env and rejects budgets the upstream limiter cannot run with.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the chapter API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL      string `env:"DATABASE_URL,required,notEmpty"`
	DatabaseMaxConns int32  `env:"DATABASE_MAX_CONNS" envDefault:"25"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis) for upstream relationship lookups
	RedisURL         string        `env:"REDIS_URL,required,notEmpty"`
	RedisPoolSize    int           `env:"REDIS_POOL_SIZE"    envDefault:"10"`
	RelationCacheTTL time.Duration `env:"RELATION_CACHE_TTL" envDefault:"6h"`

	// Token verification for uploader identity
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required,notEmpty"`
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH"`

	// Upstream content API (MangaDex)
	MangaDexBaseURL   string        `env:"MANGADEX_BASE_URL"   envDefault:"https://api.mangadex.org"`
	MangaDexUserAgent string        `env:"MANGADEX_USER_AGENT" envDefault:"MangaChapters/0.1 (+https://github.com/Alexspector123/Netflix-Mangadex)"`
	UpstreamTimeout   time.Duration `env:"UPSTREAM_TIMEOUT"    envDefault:"15s"`

	// Upstream admission budget shared by every request in the process
	UpstreamMaxConcurrent int     `env:"UPSTREAM_MAX_CONCURRENT" envDefault:"5"`
	UpstreamRPS           float64 `env:"UPSTREAM_RPS"            envDefault:"5"`
	UpstreamBurst         int     `env:"UPSTREAM_BURST"          envDefault:"5"`

	// BatchSize bounds one SQL IN-list and one group of parallel upstream calls.
	BatchSize int `env:"BATCH_SIZE" envDefault:"50"`

	// Page image storage
	UploadDir       string `env:"UPLOAD_DIR"        envDefault:"./data/uploads"`
	UploadPublicURL string `env:"UPLOAD_PUBLIC_URL" envDefault:"/uploads"`
	UploadMaxBytes  int64  `env:"UPLOAD_MAX_BYTES"  envDefault:"104857600"`

	// Cross-Origin Resource Sharing (comma separated origins)
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects values that would make the upstream limiter or batching unusable.
func (c *Config) Validate() error {
	switch {
	case c.UpstreamMaxConcurrent < 1:
		return fmt.Errorf("config: UPSTREAM_MAX_CONCURRENT must be >= 1, got %d", c.UpstreamMaxConcurrent)
	case c.UpstreamRPS <= 0:
		return fmt.Errorf("config: UPSTREAM_RPS must be > 0, got %g", c.UpstreamRPS)
	case c.UpstreamBurst < 1:
		return fmt.Errorf("config: UPSTREAM_BURST must be >= 1, got %d", c.UpstreamBurst)
	case c.DatabaseMaxConns < 1:
		return fmt.Errorf("config: DATABASE_MAX_CONNS must be >= 1, got %d", c.DatabaseMaxConns)
	case c.RedisPoolSize < 1:
		return fmt.Errorf("config: REDIS_POOL_SIZE must be >= 1, got %d", c.RedisPoolSize)
	case c.BatchSize < 1:
		return fmt.Errorf("config: BATCH_SIZE must be >= 1, got %d", c.BatchSize)
	case c.UploadMaxBytes < 1:
		return fmt.Errorf("config: UPLOAD_MAX_BYTES must be >= 1, got %d", c.UploadMaxBytes)
	}
	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// AllowsOrigin reports whether origin is listed in EXTRA_ORIGINS.
func (c *Config) AllowsOrigin(origin string) bool {
	for _, allowed := range strings.Split(c.ExtraOrigins, ",") {
		if allowed = strings.TrimSpace(allowed); allowed != "" && allowed == origin {
			return true
		}
	}
	return false
}
