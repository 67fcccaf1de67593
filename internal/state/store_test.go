package state

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/amonks/quadrant/storage"
	"github.com/amonks/quadrant/todo"
)

func newTestStore(t *testing.T) (*Store, *storage.Memory) {
	t.Helper()

	gw := storage.NewMemory()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	store := NewStore(gw, Options{Now: func() time.Time {
		now = now.Add(time.Second)
		return now
	}})
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("failed to load state: %v", err)
	}
	return store, gw
}

func TestStore_LoadDefaults(t *testing.T) {
	store, _ := newTestStore(t)

	st := store.Get()
	if st.ViewMode != ViewList || st.SortBy != todo.SortByCreatedAt || st.SortOrder != todo.SortDesc {
		t.Fatalf("unexpected defaults: %+v", st)
	}
	if len(store.History()) != 0 || len(store.Templates()) != 0 {
		t.Fatalf("expected empty history and templates")
	}
}

func TestStore_LoadRepairsInvalidFields(t *testing.T) {
	gw := storage.NewMemory()
	raw := []byte(`{"currentIdentityId":"me","viewMode":"grid","sortBy":"size","sortOrder":"up"}`)
	if err := gw.Set(context.Background(), storage.KeyAppState, raw); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	store := NewStore(gw, Options{})
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	st := store.Get()
	if st.CurrentIdentityID != "me" {
		t.Errorf("expected identity to survive, got %q", st.CurrentIdentityID)
	}
	if st.ViewMode != ViewList || st.SortBy != todo.SortByCreatedAt || st.SortOrder != todo.SortDesc {
		t.Errorf("expected invalid fields to fall back to defaults, got %+v", st)
	}
}

func TestStore_SettersPersist(t *testing.T) {
	ctx := context.Background()
	store, gw := newTestStore(t)
	done := false

	steps := []error{
		store.SetCurrentIdentity(ctx, "me"),
		store.SetViewMode(ctx, ViewTimeline),
		store.SetCurrentCategory(ctx, "work"),
		store.SetSort(ctx, todo.SortByPriority, todo.SortAsc),
		store.SetSearchQuery(ctx, "meeting"),
		store.SetFilter(ctx, todo.FilterOptions{IsCompleted: &done}),
	}
	for i, err := range steps {
		if err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
	}

	reloaded := NewStore(gw, Options{})
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	st := reloaded.Get()
	if st.CurrentIdentityID != "me" || st.ViewMode != ViewTimeline || st.CurrentCategoryID != "work" {
		t.Fatalf("unexpected state: %+v", st)
	}
	if st.SortBy != todo.SortByPriority || st.SortOrder != todo.SortAsc || st.SearchQuery != "meeting" {
		t.Fatalf("unexpected state: %+v", st)
	}
	if st.FilterOptions.IsCompleted == nil || *st.FilterOptions.IsCompleted {
		t.Fatalf("expected isCompleted=false filter, got %+v", st.FilterOptions)
	}
}

func TestStore_SetterValidation(t *testing.T) {
	ctx := context.Background()
	store, gw := newTestStore(t)

	if err := store.SetViewMode(ctx, "grid"); !errors.Is(err, ErrInvalidViewMode) {
		t.Fatalf("expected ErrInvalidViewMode, got %v", err)
	}
	if err := store.SetSort(ctx, "size", todo.SortAsc); !errors.Is(err, todo.ErrInvalidSort) {
		t.Fatalf("expected ErrInvalidSort, got %v", err)
	}
	if gw.Sets() != 0 {
		t.Fatalf("invalid setters should not write")
	}
}

func TestStore_ResetFilters(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	if err := store.SetFilter(ctx, todo.FilterOptions{Priority: []todo.Priority{todo.PriorityUrgentImportant}}); err != nil {
		t.Fatalf("failed to set filter: %v", err)
	}
	if err := store.SetSearchQuery(ctx, "x"); err != nil {
		t.Fatalf("failed to set search: %v", err)
	}
	if err := store.SetSort(ctx, todo.SortByTitle, todo.SortAsc); err != nil {
		t.Fatalf("failed to set sort: %v", err)
	}

	if err := store.ResetFilters(ctx); err != nil {
		t.Fatalf("failed to reset: %v", err)
	}
	st := store.Get()
	if !st.FilterOptions.IsEmpty() || st.SearchQuery != "" {
		t.Fatalf("expected filters cleared, got %+v", st)
	}
	if st.SortBy != todo.SortByTitle {
		t.Fatalf("reset should keep the sort, got %s", st.SortBy)
	}
}

func TestStore_FailedWriteKeepsState(t *testing.T) {
	ctx := context.Background()
	store, gw := newTestStore(t)
	gw.FailSet(storage.KeyAppState, errors.New("disk full"))

	if err := store.SetCurrentIdentity(ctx, "me"); err == nil {
		t.Fatalf("expected write error")
	}
	if got := store.Get().CurrentIdentityID; got != "" {
		t.Fatalf("state changed after failed write: %q", got)
	}
}

func TestStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	if err := store.SetFilter(ctx, todo.FilterOptions{CategoryID: []string{"a"}}); err != nil {
		t.Fatalf("failed to set filter: %v", err)
	}

	st := store.Get()
	st.FilterOptions.CategoryID[0] = "mutated"

	if got := store.Get().FilterOptions.CategoryID[0]; got != "a" {
		t.Fatalf("state leaked through Get: %q", got)
	}
}

func TestAppState_Query(t *testing.T) {
	st := Default()
	st.SearchQuery = "milk"
	st.FilterOptions.CategoryID = []string{"home", "work"}
	st.CurrentCategoryID = "work"

	q := st.Query()
	if q.Search != "milk" || q.SortBy != todo.SortByCreatedAt || q.SortOrder != todo.SortDesc {
		t.Fatalf("unexpected query: %+v", q)
	}
	if len(q.Filter.CategoryID) != 1 || q.Filter.CategoryID[0] != "work" {
		t.Fatalf("current category should narrow the filter, got %v", q.Filter.CategoryID)
	}
	if len(st.FilterOptions.CategoryID) != 2 {
		t.Fatalf("Query must not modify the state")
	}
}

func TestStore_RecordSearch(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	for _, q := range []string{"milk", "eggs", " milk ", "", "bread"} {
		if err := store.RecordSearch(ctx, q); err != nil {
			t.Fatalf("failed to record %q: %v", q, err)
		}
	}

	var got []string
	for _, h := range store.History() {
		got = append(got, h.Query)
	}
	want := []string{"bread", "milk", "eggs"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestStore_RecordSearchCapsHistory(t *testing.T) {
	ctx := context.Background()
	store, gw := newTestStore(t)

	for i := range HistoryLimit + 5 {
		if err := store.RecordSearch(ctx, fmt.Sprintf("query %d", i)); err != nil {
			t.Fatalf("failed to record: %v", err)
		}
	}

	history := store.History()
	if len(history) != HistoryLimit {
		t.Fatalf("expected %d entries, got %d", HistoryLimit, len(history))
	}
	if history[0].Query != fmt.Sprintf("query %d", HistoryLimit+4) {
		t.Fatalf("expected newest first, got %q", history[0].Query)
	}

	persisted, err := storage.LoadList[SearchHistory](ctx, gw, storage.KeySearchHistory)
	if err != nil || len(persisted) != HistoryLimit {
		t.Fatalf("expected persisted history of %d, got %d (%v)", HistoryLimit, len(persisted), err)
	}

	if err := store.ClearHistory(ctx); err != nil {
		t.Fatalf("failed to clear: %v", err)
	}
	if n := len(store.History()); n != 0 {
		t.Fatalf("expected empty history, got %d", n)
	}
}

func TestStore_Templates(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	done := true

	urgent, err := store.SaveTemplate(ctx, "Urgent", todo.FilterOptions{Priority: []todo.Priority{todo.PriorityUrgentImportant}})
	if err != nil {
		t.Fatalf("failed to save template: %v", err)
	}
	if _, err := store.SaveTemplate(ctx, "Done", todo.FilterOptions{IsCompleted: &done}); err != nil {
		t.Fatalf("failed to save template: %v", err)
	}
	if _, err := store.SaveTemplate(ctx, "  ", todo.FilterOptions{}); !errors.Is(err, ErrEmptyTemplateName) {
		t.Fatalf("expected ErrEmptyTemplateName, got %v", err)
	}

	replaced, err := store.SaveTemplate(ctx, "Urgent", todo.FilterOptions{Priority: []todo.Priority{todo.PriorityUrgentNotImportant}})
	if err != nil {
		t.Fatalf("failed to replace template: %v", err)
	}
	if replaced.ID != urgent.ID {
		t.Fatalf("saving an existing name should keep its id")
	}
	if n := len(store.Templates()); n != 2 {
		t.Fatalf("expected 2 templates, got %d", n)
	}

	tpl, err := store.Template("Urgent")
	if err != nil {
		t.Fatalf("failed to find template: %v", err)
	}
	if tpl.Filters.Priority[0] != todo.PriorityUrgentNotImportant {
		t.Fatalf("expected replaced filters, got %+v", tpl.Filters)
	}

	if err := store.DeleteTemplate(ctx, urgent.ID); err != nil {
		t.Fatalf("failed to delete template: %v", err)
	}
	if _, err := store.Template("Urgent"); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
	if err := store.DeleteTemplate(ctx, "Urgent"); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}
