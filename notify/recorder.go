package notify

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// Call is one Schedule or Cancel call seen by a Recorder.
type Call struct {
	Op    string
	ID    string
	Alert Alert
}

// Recorder is an in-memory Scheduler that remembers every call.
type Recorder struct {
	mu        sync.Mutex
	calls     []Call
	scheduled map[string]Alert

	// Denied makes Schedule return ErrPermissionDenied.
	Denied bool

	// Err is returned by every Schedule and Cancel call when set.
	Err error
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{scheduled: make(map[string]Alert)}
}

// Schedule records the call and keeps alert.
func (r *Recorder) Schedule(ctx context.Context, alert Alert) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, Call{Op: "schedule", ID: alert.ID, Alert: alert})
	if r.Denied {
		return "", ErrPermissionDenied
	}
	if r.Err != nil {
		return "", r.Err
	}
	if alert.ID == "" {
		return "", ErrMissingAlertID
	}
	r.scheduled[alert.ID] = alert
	return alert.ID, nil
}

// Cancel records the call and forgets the alert.
func (r *Recorder) Cancel(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, Call{Op: "cancel", ID: id})
	if r.Err != nil {
		return r.Err
	}
	delete(r.scheduled, id)
	return nil
}

// Calls returns the calls seen so far.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

// Scheduled returns the alerts currently scheduled, keyed by id.
func (r *Recorder) Scheduled() map[string]Alert {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.scheduled)
}

// Reset forgets recorded calls but keeps scheduled alerts.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}
