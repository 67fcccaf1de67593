package main

import (
	"strings"
	"testing"
	"time"

	"github.com/amonks/quadrant/backup"
	"github.com/amonks/quadrant/notify"
	"github.com/amonks/quadrant/todo"
)

func TestFormatAlertsEmpty(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	if got := formatAlerts(nil, now); got != "No pending reminders.\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestFormatAlertsShowsWhen(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	alerts := []notify.Alert{
		{ID: notify.AlertID("abc123"), Title: "Pay rent", FireAt: now.Add(3 * time.Hour)},
	}

	got := formatAlerts(alerts, now)
	for _, want := range []string{"TODO", "todo-abc123", "in 3h", "Pay rent"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in:\n%s", want, got)
		}
	}
}

func TestFormatAlertIndentsBody(t *testing.T) {
	got := formatAlert(notify.Alert{Title: "Pay rent", Body: "Pay rent - landlord\nby transfer"})
	want := "Reminder: Pay rent\n  Pay rent - landlord\n  by transfer\n"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFormatSnapshots(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	if got := formatSnapshots(nil, now); got != "No snapshots stored.\n" {
		t.Fatalf("unexpected output %q", got)
	}

	snapshots := []backup.Data{
		{Version: backup.Version, Timestamp: now.Add(-2 * time.Hour), Todos: []todo.Todo{{ID: "a"}, {ID: "b"}}},
	}
	got := formatSnapshots(snapshots, now)
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got:\n%s", got)
	}
	fields := strings.Fields(lines[1])
	if fields[0] != "1" || !strings.Contains(lines[1], "2h ago") {
		t.Fatalf("unexpected row %q", lines[1])
	}
}
