package ui

import (
	"testing"
	"time"
)

func TestFormatDurationShort(t *testing.T) {
	cases := []struct {
		name     string
		duration time.Duration
		want     string
	}{
		{name: "seconds", duration: 45 * time.Second, want: "45s"},
		{name: "minutes", duration: 2*time.Minute + 10*time.Second, want: "2m"},
		{name: "hours", duration: 3*time.Hour + 5*time.Minute, want: "3h"},
		{name: "days", duration: 48 * time.Hour, want: "2d"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FormatDurationShort(tc.duration)
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestFormatTimeAgo(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	then := now.Add(-2 * time.Minute)

	got := FormatTimeAgo(then, now)
	if got != "2m ago" {
		t.Fatalf("expected 2m ago, got %s", got)
	}
}

func TestFormatTimeAgoWithoutTimestamp(t *testing.T) {
	if got := FormatTimeAgo(time.Time{}, time.Now()); got != "-" {
		t.Fatalf("expected -, got %s", got)
	}
}

func TestFormatDue(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		due := now.Add(d)
		return &due
	}

	cases := []struct {
		name string
		due  *time.Time
		want string
	}{
		{name: "none", due: nil, want: "-"},
		{name: "future", due: at(3 * time.Hour), want: "in 3h"},
		{name: "past", due: at(-48 * time.Hour), want: "overdue 2d"},
		{name: "now", due: at(0), want: "overdue 0s"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatDue(tc.due, now); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}
