package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/littlejourney")
	t.Setenv("LITTLEJOURNEY_ADDR", "0.0.0.0:9000")
	t.Setenv("SNAPSHOT_TTL", "720h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Addr != "0.0.0.0:9000" {
		t.Errorf("Addr = %s", cfg.Addr)
	}
	if cfg.SnapshotTTL != 720*time.Hour {
		t.Errorf("SnapshotTTL = %s", cfg.SnapshotTTL)
	}
}

func TestLoadMissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); !errors.Is(err, ErrMissingDatabaseURL) {
		t.Errorf("Load() error = %v, want ErrMissingDatabaseURL", err)
	}
}

func TestLoadBadSnapshotTTL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/littlejourney")
	t.Setenv("SNAPSHOT_TTL", "soon")

	if _, err := Load(); err == nil {
		t.Error("Load() accepted an unparseable SNAPSHOT_TTL")
	}
}
