package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// EnsureHomeDirs creates the default state and config directories under homeDir.
func EnsureHomeDirs(homeDir string) error {
	if err := os.MkdirAll(filepath.Join(homeDir, ".local", "state", "quadrant"), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(homeDir, ".config", "quadrant"), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return nil
}

// SetupTestHome creates a temp home directory, ensures state/config dirs, and sets HOME.
// QUADRANT_* overrides from the caller's environment are cleared.
func SetupTestHome(t testing.TB) string {
	t.Helper()

	homeDir := t.TempDir()
	if err := EnsureHomeDirs(homeDir); err != nil {
		t.Fatalf("setup home dir: %v", err)
	}
	t.Setenv("HOME", homeDir)
	for _, name := range quadrantEnv {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	return homeDir
}

var quadrantEnv = []string{
	"QUADRANT_CONFIG",
	"QUADRANT_STORAGE_BACKEND",
	"QUADRANT_STORAGE_PATH",
	"QUADRANT_REMINDERS_ENABLED",
	"QUADRANT_REMINDERS_LEAD_TIME",
	"QUADRANT_REMINDERS_GRACE",
	"QUADRANT_REMINDERS_RESCHEDULE_ON_RESTORE",
	"QUADRANT_REMINDERS_SPOOL",
	"QUADRANT_LOG_LEVEL",
	"QUADRANT_LOG_FORMAT",
}
