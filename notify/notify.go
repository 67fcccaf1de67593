// Package notify schedules fire-once alerts and keeps them in step with
// todo due dates.
//
// A Scheduler holds at most one alert per id. The Spool scheduler keeps
// alerts in a JSONL file that `quad reminders fire` drains; Recorder keeps
// them in memory. Reminders listens to todo store events and turns due
// date changes into Schedule and Cancel calls.
package notify

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrPermissionDenied is returned by Schedule when alerts are disabled.
	ErrPermissionDenied = errors.New("notification permission denied")

	// ErrMissingAlertID is returned when scheduling an alert without an id.
	ErrMissingAlertID = errors.New("alert id is required")
)

// Alert is a single scheduled notification.
type Alert struct {
	ID     string    `json:"id"`
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	FireAt time.Time `json:"fireAt"`
}

// Scheduler schedules and cancels alerts. Scheduling an id that is already
// scheduled replaces the earlier alert.
type Scheduler interface {
	// Schedule registers alert and returns its handle.
	Schedule(ctx context.Context, alert Alert) (string, error)

	// Cancel removes the alert with id. Unknown ids are not an error.
	Cancel(ctx context.Context, id string) error
}

// Update cancels any alert with the same id and schedules alert.
func Update(ctx context.Context, s Scheduler, alert Alert) (string, error) {
	if err := s.Cancel(ctx, alert.ID); err != nil {
		return "", err
	}
	return s.Schedule(ctx, alert)
}
