package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/amonks/quadrant/internal/ids"
	"github.com/amonks/quadrant/internal/logging"
	"github.com/amonks/quadrant/storage"
	"github.com/amonks/quadrant/todo"
)

var (
	// ErrInvalidViewMode is returned for an unknown view mode.
	ErrInvalidViewMode = errors.New("invalid view mode")

	// ErrEmptyTemplateName is returned when saving a template without a name.
	ErrEmptyTemplateName = errors.New("template name cannot be empty")

	// ErrTemplateNotFound is returned when no template matches.
	ErrTemplateNotFound = errors.New("filter template not found")

	// ErrNotLoaded is returned when a Store is used before Load.
	ErrNotLoaded = errors.New("state store not loaded")
)

// Store manages view state, search history and filter templates.
type Store struct {
	gw     storage.Gateway
	logger *slog.Logger
	now    func() time.Time

	mu        sync.Mutex
	state     AppState
	history   []SearchHistory
	templates []FilterTemplate
	loaded    bool
}

// Options configures a Store.
type Options struct {
	Logger *slog.Logger
	Now    func() time.Time
}

// NewStore returns a store backed by gw. Call Load before use.
func NewStore(gw storage.Gateway, opts Options) *Store {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{gw: gw, logger: opts.Logger, now: opts.Now, state: Default()}
}

// Load reads state, history and templates. Missing state loads as Default.
func (s *Store) Load(ctx context.Context) error {
	st, ok, err := storage.LoadValue[AppState](ctx, s.gw, storage.KeyAppState)
	if err != nil {
		s.logger.Error("load app state", "error", err)
		return fmt.Errorf("load app state: %w", err)
	}
	if !ok {
		st = Default()
	}
	fillDefaults(&st)

	history, err := storage.LoadList[SearchHistory](ctx, s.gw, storage.KeySearchHistory)
	if err != nil {
		s.logger.Error("load search history", "error", err)
		return fmt.Errorf("load search history: %w", err)
	}
	templates, err := storage.LoadList[FilterTemplate](ctx, s.gw, storage.KeyFilterTemplates)
	if err != nil {
		s.logger.Error("load filter templates", "error", err)
		return fmt.Errorf("load filter templates: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
	s.history = history
	s.templates = templates
	s.loaded = true
	return nil
}

func fillDefaults(st *AppState) {
	defaults := Default()
	if !st.ViewMode.IsValid() {
		st.ViewMode = defaults.ViewMode
	}
	if !st.SortBy.IsValid() {
		st.SortBy = defaults.SortBy
	}
	if !st.SortOrder.IsValid() {
		st.SortOrder = defaults.SortOrder
	}
}

// Get returns the current state.
func (s *Store) Get() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.FilterOptions = cloneFilter(st.FilterOptions)
	return st
}

// Update applies fn to a copy of the state and writes the result. The
// stored state is unchanged if fn or the write fails.
func (s *Store) Update(ctx context.Context, fn func(st *AppState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}

	next := s.state
	next.FilterOptions = cloneFilter(next.FilterOptions)
	if err := fn(&next); err != nil {
		return err
	}
	if err := storage.Save(ctx, s.gw, storage.KeyAppState, next); err != nil {
		s.logger.Error("save app state", "error", err)
		return fmt.Errorf("write app state: %w", err)
	}
	s.state = next
	return nil
}

// SetCurrentIdentity switches the identity whose todos are shown.
func (s *Store) SetCurrentIdentity(ctx context.Context, id string) error {
	return s.Update(ctx, func(st *AppState) error {
		st.CurrentIdentityID = id
		return nil
	})
}

// SetViewMode switches between list and timeline views.
func (s *Store) SetViewMode(ctx context.Context, mode ViewMode) error {
	if !mode.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidViewMode, mode)
	}
	return s.Update(ctx, func(st *AppState) error {
		st.ViewMode = mode
		return nil
	})
}

// SetCurrentCategory narrows the list to one category. An empty id clears it.
func (s *Store) SetCurrentCategory(ctx context.Context, id string) error {
	return s.Update(ctx, func(st *AppState) error {
		st.CurrentCategoryID = id
		return nil
	})
}

// SetSort sets the list order.
func (s *Store) SetSort(ctx context.Context, by todo.SortBy, order todo.SortOrder) error {
	if !by.IsValid() || !order.IsValid() {
		return fmt.Errorf("%w: %s %s", todo.ErrInvalidSort, by, order)
	}
	return s.Update(ctx, func(st *AppState) error {
		st.SortBy = by
		st.SortOrder = order
		return nil
	})
}

// SetSearchQuery sets the active search.
func (s *Store) SetSearchQuery(ctx context.Context, query string) error {
	return s.Update(ctx, func(st *AppState) error {
		st.SearchQuery = query
		return nil
	})
}

// SetFilter replaces the active filters.
func (s *Store) SetFilter(ctx context.Context, opts todo.FilterOptions) error {
	return s.Update(ctx, func(st *AppState) error {
		st.FilterOptions = cloneFilter(opts)
		return nil
	})
}

// ResetFilters clears the filters, search query and current category.
func (s *Store) ResetFilters(ctx context.Context) error {
	return s.Update(ctx, func(st *AppState) error {
		st.FilterOptions = todo.FilterOptions{}
		st.SearchQuery = ""
		st.CurrentCategoryID = ""
		return nil
	})
}

// History returns recent searches, newest first.
func (s *Store) History() []SearchHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.history)
}

// RecordSearch remembers query at the front of the history. Repeating a
// query moves it to the front; blank queries are ignored.
func (s *Store) RecordSearch(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}

	now := s.now()
	entry := SearchHistory{ID: ids.New(query, now), Query: query, CreatedAt: now}
	next := []SearchHistory{entry}
	for _, h := range s.history {
		if h.Query != query {
			next = append(next, h)
		}
	}
	if len(next) > HistoryLimit {
		next = next[:HistoryLimit]
	}

	if err := storage.Save(ctx, s.gw, storage.KeySearchHistory, next); err != nil {
		s.logger.Error("save search history", "error", err)
		return fmt.Errorf("write search history: %w", err)
	}
	s.history = next
	return nil
}

// ClearHistory forgets every recorded search.
func (s *Store) ClearHistory(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}

	if err := storage.Save(ctx, s.gw, storage.KeySearchHistory, []SearchHistory{}); err != nil {
		s.logger.Error("save search history", "error", err)
		return fmt.Errorf("write search history: %w", err)
	}
	s.history = []SearchHistory{}
	return nil
}

// Templates returns the saved filter templates in creation order.
func (s *Store) Templates() []FilterTemplate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.templates)
}

// Template finds a template by exact name or id.
func (s *Store) Template(ref string) (FilterTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tpl := range s.templates {
		if tpl.Name == ref || tpl.ID == ref {
			return tpl, nil
		}
	}
	return FilterTemplate{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, ref)
}

// SaveTemplate stores filters under name. Saving an existing name replaces
// its filters.
func (s *Store) SaveTemplate(ctx context.Context, name string, filters todo.FilterOptions) (*FilterTemplate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyTemplateName
	}

	var saved FilterTemplate
	err := s.applyTemplates(ctx, func(templates []FilterTemplate, now time.Time) ([]FilterTemplate, error) {
		for i := range templates {
			if templates[i].Name == name {
				templates[i].Filters = cloneFilter(filters)
				saved = templates[i]
				return templates, nil
			}
		}
		saved = FilterTemplate{
			ID:        ids.New(name, now),
			Name:      name,
			Filters:   cloneFilter(filters),
			CreatedAt: now,
		}
		return append(templates, saved), nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// DeleteTemplate removes the template matching ref by name or id.
func (s *Store) DeleteTemplate(ctx context.Context, ref string) error {
	return s.applyTemplates(ctx, func(templates []FilterTemplate, now time.Time) ([]FilterTemplate, error) {
		idx := slices.IndexFunc(templates, func(tpl FilterTemplate) bool {
			return tpl.Name == ref || tpl.ID == ref
		})
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, ref)
		}
		return slices.Delete(templates, idx, idx+1), nil
	})
}

func (s *Store) applyTemplates(ctx context.Context, fn func(templates []FilterTemplate, now time.Time) ([]FilterTemplate, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}

	next, err := fn(slices.Clone(s.templates), s.now())
	if err != nil {
		return err
	}
	if err := storage.Save(ctx, s.gw, storage.KeyFilterTemplates, next); err != nil {
		s.logger.Error("save filter templates", "error", err)
		return fmt.Errorf("write filter templates: %w", err)
	}
	s.templates = next
	return nil
}

func cloneFilter(opts todo.FilterOptions) todo.FilterOptions {
	c := opts
	c.Priority = slices.Clone(opts.Priority)
	c.CategoryID = slices.Clone(opts.CategoryID)
	if opts.DateRange != nil {
		r := *opts.DateRange
		c.DateRange = &r
	}
	if opts.IsCompleted != nil {
		v := *opts.IsCompleted
		c.IsCompleted = &v
	}
	return c
}
