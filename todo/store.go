package todo

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/amonks/quadrant/internal/logging"
	"github.com/amonks/quadrant/storage"
)

// Store owns the todo collection. Every mutation computes the next
// collection, writes it through the gateway and only then replaces the
// in-memory copy, so a failed write leaves the previous state in place.
type Store struct {
	gw     storage.Gateway
	logger *slog.Logger
	now    func() time.Time

	rescheduleOnRestore bool

	mu        sync.Mutex
	todos     []Todo
	loaded    bool
	listeners []Listener
}

// Options configures a Store.
type Options struct {
	// Logger receives storage failures. Defaults to a discarding logger.
	Logger *slog.Logger

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// RescheduleOnRestore emits DueDateChanged when a dated todo is restored.
	RescheduleOnRestore bool
}

// NewStore returns a store backed by gw. Call Load before use.
func NewStore(gw storage.Gateway, opts Options) *Store {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{
		gw:                  gw,
		logger:              opts.Logger,
		now:                 opts.Now,
		rescheduleOnRestore: opts.RescheduleOnRestore,
	}
}

// Load reads the collection from the gateway, replacing any loaded state.
func (s *Store) Load(ctx context.Context) error {
	todos, err := storage.LoadList[Todo](ctx, s.gw, storage.KeyTodos)
	if err != nil {
		s.logger.Error("load todos", "error", err)
		return fmt.Errorf("load todos: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.todos = todos
	s.loaded = true
	return nil
}

// Subscribe registers a listener for committed changes.
func (s *Store) Subscribe(listener Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

// All returns a copy of the whole collection in stored order.
func (s *Store) All() []Todo {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]Todo, 0, len(s.todos))
	for _, t := range s.todos {
		result = append(result, t.clone())
	}
	return result
}

// Get returns the todo with the exact id.
func (s *Store) Get(id string) (Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.todos, id)
	if idx < 0 {
		return Todo{}, fmt.Errorf("%w: %s", ErrTodoNotFound, id)
	}
	return s.todos[idx].clone(), nil
}

// IDIndex returns an index of all todo IDs in the store.
func (s *Store) IDIndex() IDIndex {
	s.mu.Lock()
	defer s.mu.Unlock()
	return NewIDIndex(s.todos)
}

// Resolve expands a unique ID prefix to a full todo ID.
func (s *Store) Resolve(prefix string) (string, error) {
	return s.IDIndex().Resolve(prefix)
}

// ResolveAll expands several ID prefixes.
func (s *Store) ResolveAll(prefixes []string) ([]string, error) {
	if len(prefixes) == 0 {
		return nil, fmt.Errorf("no todo IDs provided")
	}
	index := s.IDIndex()
	resolved := make([]string, 0, len(prefixes))
	for _, prefix := range prefixes {
		id, err := index.Resolve(prefix)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, id)
	}
	return resolved, nil
}

// mutation is the result of computing a change: the next collection and
// the events to emit once it is written.
type mutation struct {
	todos  []Todo
	events []Event
}

// apply runs fn over a copy of the collection and commits the result.
// fn returns a nil mutation when nothing changed.
func (s *Store) apply(ctx context.Context, fn func(todos []Todo, now time.Time) (*mutation, error)) error {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return ErrNotLoaded
	}

	m, err := fn(slices.Clone(s.todos), s.now())
	if err != nil || m == nil {
		s.mu.Unlock()
		return err
	}

	if err := storage.Save(ctx, s.gw, storage.KeyTodos, m.todos); err != nil {
		s.mu.Unlock()
		s.logger.Error("save todos", "error", err)
		return fmt.Errorf("write todos: %w", err)
	}
	s.todos = m.todos
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, event := range m.events {
		for _, listener := range listeners {
			listener(ctx, event)
		}
	}
	return nil
}

func indexOf(todos []Todo, id string) int {
	return slices.IndexFunc(todos, func(t Todo) bool {
		return t.ID == id
	})
}

func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func (t Todo) clone() Todo {
	c := t
	c.Attachments = slices.Clone(t.Attachments)
	c.Reminders = slices.Clone(t.Reminders)
	c.Comments = slices.Clone(t.Comments)
	c.DueDate = cloneTime(t.DueDate)
	c.DeletedAt = cloneTime(t.DeletedAt)
	if t.RepeatRule != nil {
		rule := *t.RepeatRule
		rule.EndDate = cloneTime(t.RepeatRule.EndDate)
		c.RepeatRule = &rule
	}
	return c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
