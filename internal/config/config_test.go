package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/amonks/quadrant/internal/config"
	"github.com/amonks/quadrant/internal/testsupport"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_NotFound(t *testing.T) {
	testsupport.SetupTestHome(t)

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Storage.Backend != config.BackendSQLite {
		t.Errorf("expected sqlite backend, got %q", cfg.Storage.Backend)
	}
	if !cfg.Reminders.Enabled {
		t.Error("expected reminders enabled by default")
	}
	if cfg.Reminders.LeadTime != 15*time.Minute {
		t.Errorf("expected 15m lead time, got %s", cfg.Reminders.LeadTime)
	}
	if cfg.Reminders.Grace != 5*time.Second {
		t.Errorf("expected 5s grace, got %s", cfg.Reminders.Grace)
	}
	if cfg.Reminders.RescheduleOnRestore {
		t.Error("expected reschedule-on-restore off by default")
	}
	if cfg.Log.Level != "warn" || cfg.Log.Format != "text" {
		t.Errorf("unexpected log defaults: %+v", cfg.Log)
	}
}

func TestLoad_DefaultPathFromHome(t *testing.T) {
	home := testsupport.SetupTestHome(t)

	content := "[storage]\nbackend = \"memory\"\n"
	path := filepath.Join(home, ".config", "quadrant", "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Storage.Backend != config.BackendMemory {
		t.Errorf("expected memory backend, got %q", cfg.Storage.Backend)
	}
}

func TestLoad_PathFromEnv(t *testing.T) {
	testsupport.SetupTestHome(t)

	path := writeConfig(t, "[log]\nlevel = \"debug\"\n")
	t.Setenv(config.EnvConfigPath, path)

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected debug level, got %q", cfg.Log.Level)
	}
}

func TestLoad_Full(t *testing.T) {
	testsupport.SetupTestHome(t)

	path := writeConfig(t, `
[storage]
backend = "file"
path = "/tmp/quadrant-data"

[reminders]
enabled = false
lead-time = "30m"
grace = "10s"
reschedule-on-restore = true
spool = "/tmp/alerts.jsonl"

[log]
level = "info"
format = "json"
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Storage.Backend != config.BackendFile {
		t.Errorf("expected file backend, got %q", cfg.Storage.Backend)
	}
	if cfg.Storage.Path != "/tmp/quadrant-data" {
		t.Errorf("expected storage path, got %q", cfg.Storage.Path)
	}
	if cfg.Reminders.Enabled {
		t.Error("expected reminders disabled")
	}
	if cfg.Reminders.LeadTime != 30*time.Minute {
		t.Errorf("expected 30m lead time, got %s", cfg.Reminders.LeadTime)
	}
	if cfg.Reminders.Grace != 10*time.Second {
		t.Errorf("expected 10s grace, got %s", cfg.Reminders.Grace)
	}
	if !cfg.Reminders.RescheduleOnRestore {
		t.Error("expected reschedule-on-restore")
	}
	if cfg.Reminders.Spool != "/tmp/alerts.jsonl" {
		t.Errorf("expected spool path, got %q", cfg.Reminders.Spool)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("unexpected log config: %+v", cfg.Log)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	testsupport.SetupTestHome(t)

	path := writeConfig(t, "[storage]\nbackend = \"file\"\n")
	t.Setenv("QUADRANT_STORAGE_BACKEND", "memory")
	t.Setenv("QUADRANT_REMINDERS_LEAD_TIME", "1h")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Storage.Backend != config.BackendMemory {
		t.Errorf("expected env to select memory backend, got %q", cfg.Storage.Backend)
	}
	if cfg.Reminders.LeadTime != time.Hour {
		t.Errorf("expected 1h lead time, got %s", cfg.Reminders.LeadTime)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown backend", content: "[storage]\nbackend = \"postgres\"\n"},
		{name: "unknown log level", content: "[log]\nlevel = \"loud\"\n"},
		{name: "unknown log format", content: "[log]\nformat = \"xml\"\n"},
		{name: "negative lead time", content: "[reminders]\nlead-time = \"-1m\"\n"},
		{name: "malformed toml", content: "[storage\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testsupport.SetupTestHome(t)
			path := writeConfig(t, tt.content)

			if _, err := config.Load(path); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestValidate_NegativeGrace(t *testing.T) {
	cfg := config.Default()
	cfg.Reminders.Grace = -time.Second

	err := cfg.Validate()
	if !errors.Is(err, config.ErrNegativeDuration) {
		t.Fatalf("expected ErrNegativeDuration, got %v", err)
	}
}
