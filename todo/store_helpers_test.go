package todo

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/amonks/quadrant/storage"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) listen(ctx context.Context, event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *eventLog) all() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event(nil), l.events...)
}

func (l *eventLog) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
}

type testStore struct {
	*Store
	gw     *storage.Memory
	clock  *testClock
	events *eventLog
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()
	return newTestStoreWithOptions(t, Options{})
}

func newTestStoreWithOptions(t *testing.T, opts Options) *testStore {
	t.Helper()

	gw := storage.NewMemory()
	clock := &testClock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	opts.Now = clock.Now
	store := NewStore(gw, opts)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}

	events := &eventLog{}
	store.Subscribe(events.listen)
	return &testStore{Store: store, gw: gw, clock: clock, events: events}
}

func (s *testStore) mustCreate(t *testing.T, draft Draft) *Todo {
	t.Helper()

	created, err := s.Create(context.Background(), draft)
	if err != nil {
		t.Fatalf("failed to create todo %q: %v", draft.Title, err)
	}
	s.clock.Advance(time.Second)
	return created
}

func (s *testStore) mustGet(t *testing.T, id string) Todo {
	t.Helper()

	item, err := s.Get(id)
	if err != nil {
		t.Fatalf("failed to get todo %s: %v", id, err)
	}
	return item
}

func (s *testStore) persisted(t *testing.T) []Todo {
	t.Helper()

	todos, err := storage.LoadList[Todo](context.Background(), s.gw, storage.KeyTodos)
	if err != nil {
		t.Fatalf("failed to read persisted todos: %v", err)
	}
	return todos
}

func todoIDs(todos []Todo) []string {
	result := make([]string, 0, len(todos))
	for _, t := range todos {
		result = append(result, t.ID)
	}
	return result
}

func titles(todos []Todo) []string {
	result := make([]string, 0, len(todos))
	for _, t := range todos {
		result = append(result, t.Title)
	}
	return result
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func stringPtr(s string) *string {
	return &s
}

func boolPtr(b bool) *bool {
	return &b
}
