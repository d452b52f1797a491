// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrMissingDatabaseURL is returned when DATABASE_URL is not set.
var ErrMissingDatabaseURL = errors.New("missing DATABASE_URL environment variable")

// Config holds service configuration.
type Config struct {
	// Addr is the HTTP listen address. Empty means the web package
	// default.
	Addr string

	// DatabaseURL is the PostgreSQL connection string. Required.
	DatabaseURL string

	// SnapshotTTL bounds how long original-clips snapshots are kept in
	// memory. Zero means forever.
	SnapshotTTL time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:        os.Getenv("LITTLEJOURNEY_ADDR"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}
	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}

	if ttl := os.Getenv("SNAPSHOT_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, fmt.Errorf("parsing SNAPSHOT_TTL: %w", err)
		}
		cfg.SnapshotTTL = d
	}
	return cfg, nil
}
