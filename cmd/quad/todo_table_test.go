package main

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/amonks/quadrant/category"
	"github.com/amonks/quadrant/todo"
	"github.com/charmbracelet/x/ansi"
)

func testLookups() lookups {
	return lookups{
		categoryName: func(id string) string {
			if id == "work" {
				return "Work"
			}
			return category.UncategorizedName
		},
		categoryColor: func(id string) category.Color { return category.DefaultColor },
		identityName:  func(id string) string { return "Me" },
		roleName:      func(id string) string { return "Reviewer" },
	}
}

func TestFormatTodoTablePreservesAlignmentWithANSI(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	todos := []todo.Todo{
		{
			ID:         "abc123",
			Priority:   todo.PriorityUrgentImportant,
			Status:     todo.StatusPending,
			Title:      "First item",
			CategoryID: "work",
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		{
			ID:        "abd456",
			Priority:  todo.PriorityUrgentNotImportant,
			Status:    todo.StatusInProgress,
			Title:     "Second item",
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	prefixLengths := todo.NewIDIndex(todos).PrefixLengths()
	plain := formatTodoTable(todos, testLookups(), prefixLengths, func(id string, prefix int) string { return id }, now)
	styled := formatTodoTable(todos, testLookups(), prefixLengths, func(id string, prefix int) string {
		if prefix <= 0 || prefix > len(id) {
			return id
		}
		return "\x1b[1m\x1b[36m" + id[:prefix] + "\x1b[0m" + id[prefix:]
	}, now)

	if ansi.Strip(styled) != plain {
		t.Fatalf("expected ANSI output to align with plain output\nplain:\n%s\nansi:\n%s", plain, styled)
	}
}

func TestFormatTodoTableUsesProvidedPrefixLengths(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	todos := []todo.Todo{
		{
			ID:        "r1234567",
			Priority:  todo.PriorityImportantNotUrgent,
			Status:    todo.StatusPending,
			Title:     "Only listed",
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	prefixLengths := map[string]int{"r1234567": 2}
	output := formatTodoTable(todos, testLookups(), prefixLengths, func(id string, prefix int) string {
		return fmt.Sprintf("%s:%d", id, prefix)
	}, now)

	if !strings.Contains(output, "r1234567:2") {
		t.Fatalf("expected table to use provided prefix length, got:\n%s", output)
	}
}

func TestFormatTodoTableShowsColumns(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	created := now.Add(-2 * time.Hour)
	due := now.Add(-48 * time.Hour)
	todos := []todo.Todo{
		{
			ID:         "abc123",
			Priority:   todo.PriorityUrgentImportant,
			Status:     todo.StatusPending,
			Title:      "Pay rent",
			CategoryID: "work",
			DueDate:    &due,
			CreatedAt:  created,
			UpdatedAt:  created,
		},
	}

	output := formatTodoTable(todos, testLookups(), nil, func(id string, prefix int) string { return id }, now)
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got:\n%s", output)
	}
	for _, header := range []string{"ID", "PRIORITY", "CATEGORY", "DUE", "STATUS", "AGE", "TITLE"} {
		if !strings.Contains(lines[0], header) {
			t.Fatalf("expected header %s, got %q", header, lines[0])
		}
	}
	for _, cell := range []string{"abc123", "urgent & important", "Work", "overdue 2d", "pending", "2h", "Pay rent"} {
		if !strings.Contains(lines[1], cell) {
			t.Fatalf("expected row to contain %q, got %q", cell, lines[1])
		}
	}
}

func TestFormatTodoStatus(t *testing.T) {
	deletedAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		item todo.Todo
		want string
	}{
		{todo.Todo{Status: todo.StatusClaimed}, "claimed"},
		{todo.Todo{Status: todo.StatusCompleted, IsCompleted: true}, "done"},
		{todo.Todo{Status: todo.StatusPending, DeletedAt: &deletedAt}, "deleted"},
	}
	for _, tc := range cases {
		if got := formatTodoStatus(tc.item); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}

func TestFormatTodoTimelineGroupsByDueDay(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	later := time.Date(2025, 1, 3, 9, 0, 0, 0, time.UTC)
	sooner := time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)
	todos := []todo.Todo{
		{ID: "aaa111", Title: "Undated", Priority: todo.PriorityUrgentImportant, Status: todo.StatusPending, CreatedAt: now},
		{ID: "bbb222", Title: "Later", Priority: todo.PriorityUrgentImportant, Status: todo.StatusPending, DueDate: &later, CreatedAt: now},
		{ID: "ccc333", Title: "Sooner", Priority: todo.PriorityUrgentImportant, Status: todo.StatusPending, DueDate: &sooner, CreatedAt: now},
	}

	output := formatTodoTimeline(todos, testLookups(), nil, func(id string, prefix int) string { return id }, now)

	first := strings.Index(output, "2025-01-02 Thu")
	second := strings.Index(output, "2025-01-03 Fri")
	last := strings.Index(output, "No due date")
	if first < 0 || second < 0 || last < 0 {
		t.Fatalf("expected three day headings, got:\n%s", output)
	}
	if !(first < second && second < last) {
		t.Fatalf("expected headings in day order with undated last, got:\n%s", output)
	}
	if strings.Index(output, "Sooner") > second || strings.Index(output, "Undated") < last {
		t.Fatalf("expected todos under their day, got:\n%s", output)
	}
}
