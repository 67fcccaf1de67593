package testsupport

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

var (
	buildOnce sync.Once
	quadPath  string
	buildErr  error
)

// BuildQuad compiles cmd/quad into a temp dir on first use and returns
// the binary path. Later calls reuse the same binary.
func BuildQuad(t testing.TB) string {
	t.Helper()

	buildOnce.Do(func() {
		root, err := moduleRoot()
		if err != nil {
			buildErr = err
			return
		}
		binDir, err := os.MkdirTemp("", "quad-bin-")
		if err != nil {
			buildErr = err
			return
		}
		quadPath = filepath.Join(binDir, "quad")

		cmd := exec.Command("go", "build", "-ldflags", "-X main.buildVersion=test", "-o", quadPath, "./cmd/quad")
		cmd.Dir = root
		if output, err := cmd.CombinedOutput(); err != nil {
			buildErr = fmt.Errorf("build quad: %w: %s", err, strings.TrimSpace(string(output)))
		}
	})

	if buildErr != nil {
		t.Fatalf("%v", buildErr)
	}
	return quadPath
}

// SetupScriptEnv points $QUAD at the built binary and gives every script
// its own home. Scripts use the file backend so the JSON collections can
// be inspected with cat and grep.
func SetupScriptEnv(t testing.TB, env *testscript.Env) error {
	t.Helper()

	env.Setenv("QUAD", BuildQuad(t))

	home := filepath.Join(env.WorkDir, "home")
	if err := EnsureHomeDirs(home); err != nil {
		return err
	}
	env.Setenv("HOME", home)
	env.Setenv("QUADRANT_STORAGE_BACKEND", "file")
	env.Setenv("QUADRANT_REMINDERS_GRACE", "5s")
	env.Setenv("NO_COLOR", "1")
	return nil
}

// CmdTodoID implements "todoid FILE TITLE VAR" over the output of
// "quad todo list --json".
func CmdTodoID(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("todoid does not support negation")
	}
	if len(args) != 3 {
		ts.Fatalf("usage: todoid FILE TITLE VAR")
	}
	setRecordID(ts, args[0], "title", args[1], args[2])
}

// CmdRecordID implements "recordid FILE NAME VAR" over the JSON list of
// categories or identities, matched by name.
func CmdRecordID(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("recordid does not support negation")
	}
	if len(args) != 3 {
		ts.Fatalf("usage: recordid FILE NAME VAR")
	}
	setRecordID(ts, args[0], "name", args[1], args[2])
}

func setRecordID(ts *testscript.TestScript, file, field, value, variable string) {
	var records []map[string]any
	if err := json.Unmarshal([]byte(ts.ReadFile(file)), &records); err != nil {
		ts.Fatalf("parse %s: %v", file, err)
	}
	for _, record := range records {
		if record[field] != value {
			continue
		}
		id, ok := record["id"].(string)
		if !ok {
			ts.Fatalf("record %q in %s has no id", value, file)
		}
		ts.Setenv(variable, id)
		return
	}
	ts.Fatalf("no record with %s %q in %s", field, value, file)
}

func moduleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found above %s", dir)
		}
		dir = parent
	}
}
