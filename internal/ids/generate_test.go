package ids

import (
	"strings"
	"testing"
	"time"
)

const base32Alphabet = "abcdefghijklmnopqrstuvwxyz234567"

func TestGenerateShape(t *testing.T) {
	for _, length := range []int{1, 8, 20, 52} {
		id := Generate("groceries", length)
		if len(id) != length {
			t.Fatalf("Generate(_, %d) has length %d: %q", length, len(id), id)
		}
		if strings.Trim(id, base32Alphabet) != "" {
			t.Fatalf("Generate produced non-base32 characters: %q", id)
		}
	}
	if id := Generate("groceries", 0); id != "" {
		t.Fatalf("zero length should give empty id, got %q", id)
	}
	if id := Generate("groceries", 500); len(id) != 52 {
		t.Fatalf("length should cap at the full digest, got %d", len(id))
	}
}

func TestGenerateIsStable(t *testing.T) {
	if Generate("groceries", 10) != Generate("groceries", 10) {
		t.Fatal("same input gave different ids")
	}
	if Generate("groceries", 10) == Generate("laundry", 10) {
		t.Fatal("different inputs gave the same id")
	}
	if !strings.HasPrefix(Generate("groceries", 12), Generate("groceries", 6)) {
		t.Fatal("shorter id should be a prefix of the longer one")
	}
}

func TestGenerateWithTimestampSeparatesInstants(t *testing.T) {
	at := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	first := GenerateWithTimestamp("groceries", at, DefaultLength)
	if again := GenerateWithTimestamp("groceries", at.In(time.FixedZone("x", 3600)), DefaultLength); again != first {
		t.Fatalf("same instant in another zone gave %q, want %q", again, first)
	}
	if later := GenerateWithTimestamp("groceries", at.Add(time.Millisecond), DefaultLength); later == first {
		t.Fatal("different instants gave the same id")
	}
}

func TestNewNeverRepeats(t *testing.T) {
	at := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		id := New("groceries", at)
		if len(id) != DefaultLength {
			t.Fatalf("New gave %q, want length %d", id, DefaultLength)
		}
		if seen[id] {
			t.Fatalf("New repeated %q after %d ids", id, i)
		}
		seen[id] = true
	}
}
