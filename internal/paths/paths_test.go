package paths

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsDeriveFromHome(t *testing.T) {
	home := filepath.Join(t.TempDir(), "home")
	t.Setenv("HOME", home)
	state := filepath.Join(home, ".local", "state", "quadrant")

	cases := map[string]struct {
		fn   func() (string, error)
		want string
	}{
		"home":     {fn: HomeDir, want: home},
		"state":    {fn: DefaultStateDir, want: state},
		"config":   {fn: DefaultConfigPath, want: filepath.Join(home, ".config", "quadrant", "config.toml")},
		"database": {fn: DefaultDatabasePath, want: filepath.Join(state, "quadrant.db")},
		"data":     {fn: DefaultDataDir, want: filepath.Join(state, "data")},
		"spool":    {fn: DefaultSpoolPath, want: filepath.Join(state, "alerts.jsonl")},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := tc.fn()
			if err != nil {
				t.Fatalf("%s: %v", name, err)
			}
			if got != tc.want {
				t.Fatalf("%s = %q, want %q", name, got, tc.want)
			}
		})
	}
}

func TestWorkingDirFollowsChdir(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	got, err := WorkingDir()
	if err != nil {
		t.Fatalf("working dir: %v", err)
	}
	resolved, err := filepath.EvalSymlinks(got)
	if err != nil {
		t.Fatalf("eval symlinks: %v", err)
	}
	want, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatalf("eval symlinks: %v", err)
	}
	if resolved != want {
		t.Fatalf("working dir = %q, want %q", resolved, want)
	}
}

func TestResolveWithDefault(t *testing.T) {
	calls := 0
	fallback := func() (string, error) {
		calls++
		return "/fallback", nil
	}

	got, err := ResolveWithDefault("/override", fallback)
	if err != nil || got != "/override" {
		t.Fatalf("override: got %q, %v", got, err)
	}
	if calls != 0 {
		t.Fatalf("fallback called %d times with override set", calls)
	}

	got, err = ResolveWithDefault("", fallback)
	if err != nil || got != "/fallback" {
		t.Fatalf("fallback: got %q, %v", got, err)
	}

	_, err = ResolveWithDefault("", func() (string, error) { return "", os.ErrPermission })
	if !errors.Is(err, os.ErrPermission) {
		t.Fatalf("expected permission error, got %v", err)
	}
}
