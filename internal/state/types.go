// Package state holds quadrant's view state: the current identity, how the
// list is sorted and filtered, recent searches and saved filter templates.
//
// Each part is stored under its own gateway key and written back whole on
// every change.
package state

import (
	"time"

	"github.com/amonks/quadrant/todo"
)

// HistoryLimit is how many recent searches are kept.
const HistoryLimit = 10

// ViewMode selects how the todo list is presented.
type ViewMode string

const (
	// ViewList shows todos as a table.
	ViewList ViewMode = "list"
	// ViewTimeline groups todos by due day.
	ViewTimeline ViewMode = "timeline"
)

// ValidViewModes returns all valid view modes.
func ValidViewModes() []ViewMode {
	return []ViewMode{ViewList, ViewTimeline}
}

// IsValid returns true if the view mode is a known value.
func (m ViewMode) IsValid() bool {
	for _, valid := range ValidViewModes() {
		if m == valid {
			return true
		}
	}
	return false
}

// AppState is the persisted view state.
type AppState struct {
	CurrentIdentityID string             `json:"currentIdentityId"`
	ViewMode          ViewMode           `json:"viewMode"`
	CurrentCategoryID string             `json:"currentCategoryId,omitempty"`
	SortBy            todo.SortBy        `json:"sortBy"`
	SortOrder         todo.SortOrder     `json:"sortOrder"`
	SearchQuery       string             `json:"searchQuery"`
	FilterOptions     todo.FilterOptions `json:"filterOptions"`
}

// Default returns the state used before anything has been saved.
func Default() AppState {
	return AppState{
		ViewMode:  ViewList,
		SortBy:    todo.SortByCreatedAt,
		SortOrder: todo.SortDesc,
	}
}

// Query returns the list query described by the state. The current
// category, when set, narrows the saved category filter to that category.
func (s AppState) Query() todo.Query {
	filter := s.FilterOptions
	if s.CurrentCategoryID != "" {
		filter.CategoryID = []string{s.CurrentCategoryID}
	}
	return todo.Query{
		Filter:    filter,
		SortBy:    s.SortBy,
		SortOrder: s.SortOrder,
		Search:    s.SearchQuery,
	}
}

// SearchHistory is one remembered search.
type SearchHistory struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	CreatedAt time.Time `json:"createdAt"`
}

// FilterTemplate is a named, saved set of filters.
type FilterTemplate struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Filters   todo.FilterOptions `json:"filters"`
	CreatedAt time.Time          `json:"createdAt"`
}
