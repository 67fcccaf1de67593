package main

import (
	"strings"
	"testing"
)

func TestRootCommandName(t *testing.T) {
	if rootCmd.Use != "quad" {
		t.Fatalf("expected root command name quad, got %q", rootCmd.Use)
	}
}

func TestVersionString(t *testing.T) {
	got := versionString()
	if !strings.HasPrefix(got, "quad ") {
		t.Fatalf("expected version to start with quad, got %q", got)
	}
	if rootCmd.Version != got {
		t.Fatalf("expected root version %q, got %q", got, rootCmd.Version)
	}
}

func TestTopLevelCommandsRegistered(t *testing.T) {
	want := []string{"todo", "category", "identity", "role", "view", "backup", "reminders"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("expected %s command to be registered", name)
		}
	}
}
