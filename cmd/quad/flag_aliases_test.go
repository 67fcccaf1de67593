package main

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestTodoFlagAliasesUseSingleFlag(t *testing.T) {
	var fields todoFieldFlags
	cmd := &cobra.Command{Use: "example"}
	addTodoFlagAliases(cmd)
	fields.register(cmd)

	if err := cmd.Flags().Set("desc", "Hello"); err != nil {
		t.Fatalf("set desc alias: %v", err)
	}
	if err := cmd.Flags().Set("pri", "1"); err != nil {
		t.Fatalf("set pri alias: %v", err)
	}
	if fields.description != "Hello" {
		t.Fatalf("expected description to be set via alias, got %q", fields.description)
	}
	if fields.priority != "1" {
		t.Fatalf("expected priority to be set via alias, got %q", fields.priority)
	}
	if !cmd.Flags().Changed("description") {
		t.Fatal("expected description flag to be marked as changed")
	}

	usage := cmd.Flags().FlagUsages()
	if strings.Contains(usage, "--desc ") {
		t.Fatalf("did not expect alias to appear in usage, got %q", usage)
	}
	if !strings.Contains(usage, "-d, --description") {
		t.Fatalf("expected shorthand to appear inline, got %q", usage)
	}
}
