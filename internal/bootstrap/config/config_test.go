package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppliesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "database:\n  dsn: " + filepath.Join(dir, "db.sqlite") + "\nstorage:\n  root: " + filepath.Join(dir, "storage") + "\n  events_dir: closings\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.EventsDir != "closings" {
		t.Fatalf("events_dir = %q, want closings", cfg.Storage.EventsDir)
	}
	if cfg.Storage.UploadsDir != "uploads" {
		t.Fatalf("uploads_dir = %q, want default uploads", cfg.Storage.UploadsDir)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("driver = %q, want sqlite", cfg.Database.Driver)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Load() expected error for missing explicit config file")
	}
}

func TestValidateRejectsEscapingDirs(t *testing.T) {
	cfg := Config{
		Database: DatabaseConfig{DSN: "x.sqlite"},
		Storage:  StorageConfig{Root: "data", EventsDir: "../outside"},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() expected error for events_dir outside root")
	}
}
