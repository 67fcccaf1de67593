package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/amonks/quadrant/internal/logging"
	"github.com/amonks/quadrant/todo"
)

const (
	// DefaultLeadTime is how long before the due date a reminder fires.
	DefaultLeadTime = 15 * time.Minute

	// DefaultGrace is how soon a reminder fires when its lead time has passed.
	DefaultGrace = 5 * time.Second

	// ReminderTitle is the title of every todo reminder.
	ReminderTitle = "Todo reminder"
)

// Reminders keeps one alert per dated todo in a Scheduler.
type Reminders struct {
	scheduler Scheduler
	leadTime  time.Duration
	grace     time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// ReminderOptions configures Reminders. Zero durations use the defaults.
type ReminderOptions struct {
	LeadTime time.Duration
	Grace    time.Duration
	Logger   *slog.Logger
	Now      func() time.Time
}

// NewReminders returns a reminder synchronizer over scheduler.
func NewReminders(scheduler Scheduler, opts ReminderOptions) *Reminders {
	if opts.LeadTime == 0 {
		opts.LeadTime = DefaultLeadTime
	}
	if opts.Grace == 0 {
		opts.Grace = DefaultGrace
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Reminders{
		scheduler: scheduler,
		leadTime:  opts.LeadTime,
		grace:     opts.Grace,
		logger:    opts.Logger,
		now:       opts.Now,
	}
}

// AlertID returns the alert id used for a todo's reminder.
func AlertID(todoID string) string {
	return "todo-" + todoID
}

// ReminderBody returns "title - description", or just the title when the
// description is empty.
func ReminderBody(title, description string) string {
	if description == "" {
		return title
	}
	return title + " - " + description
}

// FireTime returns when a reminder for due should fire: lead before due,
// or grace after now when that moment is not in the future.
func FireTime(due, now time.Time, lead, grace time.Duration) time.Time {
	at := due.Add(-lead)
	if at.After(now) {
		return at
	}
	return now.Add(grace)
}

// Handle applies a todo store event. It is a todo.Listener. Scheduler
// failures are logged and never returned.
func (r *Reminders) Handle(ctx context.Context, event todo.Event) {
	id := AlertID(event.Todo.ID)

	switch event.Kind {
	case todo.ReminderCancelled:
		r.cancel(ctx, id)
	case todo.DueDateChanged:
		if event.Previous != nil && event.Previous.HasDueDate() {
			r.cancel(ctx, id)
		}
		if armed(event.Todo) {
			r.schedule(ctx, event.Todo)
		}
	}
}

// Reconcile brings the scheduler in line with after when the todo
// collection was replaced wholesale, as by a backup import. before is the
// collection the scheduler was last synced with. Alerts of todos that
// vanished, lost their due date or went to the recycle bin are cancelled;
// new or changed dated todos are scheduled; untouched ones are left alone.
func (r *Reminders) Reconcile(ctx context.Context, before, after []todo.Todo) {
	previous := make(map[string]todo.Todo, len(before))
	for _, t := range before {
		previous[t.ID] = t
	}

	for _, t := range after {
		old, existed := previous[t.ID]
		delete(previous, t.ID)
		wasArmed := existed && armed(old)

		switch {
		case !armed(t):
			if wasArmed {
				r.cancel(ctx, AlertID(t.ID))
			}
		case !wasArmed:
			r.schedule(ctx, t)
		case alertChanged(old, t):
			r.cancel(ctx, AlertID(t.ID))
			r.schedule(ctx, t)
		}
	}

	for id, old := range previous {
		if armed(old) {
			r.cancel(ctx, AlertID(id))
		}
	}
}

// armed reports whether t should have a live alert.
func armed(t todo.Todo) bool {
	return t.HasDueDate() && !t.IsDeleted()
}

func alertChanged(old, t todo.Todo) bool {
	return !old.DueDate.Equal(*t.DueDate) ||
		old.Title != t.Title ||
		old.Description != t.Description
}

func (r *Reminders) schedule(ctx context.Context, item todo.Todo) {
	alert := Alert{
		ID:     AlertID(item.ID),
		Title:  ReminderTitle,
		Body:   ReminderBody(item.Title, item.Description),
		FireAt: FireTime(*item.DueDate, r.now(), r.leadTime, r.grace),
	}
	if _, err := r.scheduler.Schedule(ctx, alert); err != nil {
		if errors.Is(err, ErrPermissionDenied) {
			r.logger.Warn("reminder not scheduled: notifications disabled", "todo", item.ID)
			return
		}
		r.logger.Warn("schedule reminder", "todo", item.ID, "error", err)
		return
	}
	r.logger.Debug("reminder scheduled", "todo", item.ID, "fire_at", alert.FireAt)
}

func (r *Reminders) cancel(ctx context.Context, id string) {
	if err := r.scheduler.Cancel(ctx, id); err != nil {
		r.logger.Warn("cancel reminder", "alert", id, "error", err)
	}
}
