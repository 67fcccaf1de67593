package main

import (
	"bytes"
	"io"
	"os/exec"
	"strings"
	"testing"

	"github.com/amonks/quadrant/internal/testsupport"
	"github.com/charmbracelet/x/ansi"
	"github.com/creack/pty"
)

func quadCommand(t *testing.T, quad string, args ...string) *exec.Cmd {
	t.Helper()
	cmd := exec.Command(quad, args...)
	cmd.Dir = t.TempDir()
	return cmd
}

func TestTodoListHighlightsIDsOnlyOnTerminal(t *testing.T) {
	quad := testsupport.BuildQuad(t)
	testsupport.SetupTestHome(t)
	t.Setenv("QUADRANT_STORAGE_BACKEND", "file")
	t.Setenv("NO_COLOR", "")
	t.Setenv("TERM", "xterm-256color")

	if out, err := quadCommand(t, quad, "todo", "create", "--no-edit", "Pay rent").CombinedOutput(); err != nil {
		t.Fatalf("create todo: %v: %s", err, out)
	}

	plain, err := quadCommand(t, quad, "todo", "list").Output()
	if err != nil {
		t.Fatalf("list todos: %v", err)
	}
	if bytes.Contains(plain, []byte("\x1b[")) {
		t.Fatalf("expected no escape codes when piped, got %q", plain)
	}

	f, err := pty.StartWithSize(quadCommand(t, quad, "todo", "list"), &pty.Winsize{Rows: 40, Cols: 200})
	if err != nil {
		t.Fatalf("start under pty: %v", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	// Reading a pty whose child exited fails with EIO once drained.
	_, _ = io.Copy(&buf, f)
	styled := buf.String()

	if !strings.Contains(styled, "\x1b[") {
		t.Fatalf("expected escape codes on a terminal, got %q", styled)
	}
	if !strings.Contains(ansi.Strip(styled), "Pay rent") {
		t.Fatalf("expected todo title in output, got %q", styled)
	}
}
