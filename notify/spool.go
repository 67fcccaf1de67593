package notify

import (
	"context"
	"slices"
	"time"
)

// Spool is a Scheduler that keeps pending alerts in a JSONL file. Every
// operation holds an exclusive lock on a sibling lock file.
type Spool struct {
	path    string
	enabled bool
}

// NewSpool returns a spool writing to path. A disabled spool refuses to
// schedule with ErrPermissionDenied but still allows cancelling and draining.
func NewSpool(path string, enabled bool) *Spool {
	return &Spool{path: path, enabled: enabled}
}

// Path returns the spool file location.
func (s *Spool) Path() string {
	return s.path
}

func (s *Spool) lockPath() string {
	return s.path + ".lock"
}

// Schedule adds alert, replacing any pending alert with the same id.
func (s *Spool) Schedule(ctx context.Context, alert Alert) (string, error) {
	if !s.enabled {
		return "", ErrPermissionDenied
	}
	if alert.ID == "" {
		return "", ErrMissingAlertID
	}
	err := s.update(func(alerts []Alert) ([]Alert, error) {
		alerts = slices.DeleteFunc(alerts, func(a Alert) bool {
			return a.ID == alert.ID
		})
		return append(alerts, alert), nil
	})
	if err != nil {
		return "", err
	}
	return alert.ID, nil
}

// Cancel removes the pending alert with id.
func (s *Spool) Cancel(ctx context.Context, id string) error {
	return s.update(func(alerts []Alert) ([]Alert, error) {
		return slices.DeleteFunc(alerts, func(a Alert) bool {
			return a.ID == id
		}), nil
	})
}

// Pending returns every pending alert ordered by fire time.
func (s *Spool) Pending(ctx context.Context) ([]Alert, error) {
	var alerts []Alert
	err := withFileLock(s.lockPath(), func() error {
		var err error
		alerts, err = readJSONL[Alert](s.path)
		return err
	})
	if err != nil {
		return nil, err
	}
	sortByFireAt(alerts)
	return alerts, nil
}

// Due returns the pending alerts whose fire time is at or before now.
func (s *Spool) Due(ctx context.Context, now time.Time) ([]Alert, error) {
	alerts, err := s.Pending(ctx)
	if err != nil {
		return nil, err
	}
	due, _ := splitDue(alerts, now)
	return due, nil
}

// Pop removes and returns the alerts that are due at now.
func (s *Spool) Pop(ctx context.Context, now time.Time) ([]Alert, error) {
	var due []Alert
	err := s.update(func(alerts []Alert) ([]Alert, error) {
		var rest []Alert
		due, rest = splitDue(alerts, now)
		return rest, nil
	})
	if err != nil {
		return nil, err
	}
	sortByFireAt(due)
	return due, nil
}

func (s *Spool) update(fn func(alerts []Alert) ([]Alert, error)) error {
	return withFileLock(s.lockPath(), func() error {
		alerts, err := readJSONL[Alert](s.path)
		if err != nil {
			return err
		}
		next, err := fn(alerts)
		if err != nil {
			return err
		}
		return writeJSONL(s.path, next)
	})
}

func splitDue(alerts []Alert, now time.Time) (due, rest []Alert) {
	for _, alert := range alerts {
		if alert.FireAt.After(now) {
			rest = append(rest, alert)
			continue
		}
		due = append(due, alert)
	}
	return due, rest
}

func sortByFireAt(alerts []Alert) {
	slices.SortStableFunc(alerts, func(a, b Alert) int {
		return a.FireAt.Compare(b.FireAt)
	})
}
