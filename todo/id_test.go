package todo

import (
	"strings"
	"testing"
	"time"

	"github.com/amonks/quadrant/internal/ids"
)

func TestGenerateIDFormat(t *testing.T) {
	id := GenerateID("File taxes", time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC))

	if len(id) != ids.DefaultLength {
		t.Fatalf("GenerateID length = %d, want %d (%q)", len(id), ids.DefaultLength, id)
	}
	if strings.Trim(id, "abcdefghijklmnopqrstuvwxyz234567") != "" {
		t.Fatalf("GenerateID gave non-base32 id %q", id)
	}
}

func TestGenerateIDDistinctForDuplicateTodos(t *testing.T) {
	at := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	seen := make(map[string]int)
	for i := range 200 {
		id := GenerateID("File taxes", at)
		if prev, ok := seen[id]; ok {
			t.Fatalf("GenerateID repeated %q at %d and %d", id, prev, i)
		}
		seen[id] = i
	}
}
