package todo

import "context"

// EventKind identifies a reminder-relevant change.
type EventKind string

const (
	// DueDateChanged is emitted when a todo's reminder needs to be
	// (re)computed: it was created with a due date, or its due date or
	// reminder text changed.
	DueDateChanged EventKind = "due-date-changed"

	// ReminderCancelled is emitted when a todo leaves the active list.
	ReminderCancelled EventKind = "reminder-cancelled"
)

// Event describes a committed change.
type Event struct {
	Kind EventKind

	// Todo is the record after the change. For a permanent delete it is
	// the removed record.
	Todo Todo

	// Previous is the record before the change, nil on create.
	Previous *Todo
}

// Listener receives events after the collection has been written.
type Listener func(ctx context.Context, event Event)
