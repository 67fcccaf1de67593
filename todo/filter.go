package todo

import (
	"slices"
	"time"
)

// DateRange bounds a due date, inclusive at both ends.
// A zero Start or End leaves that side open.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

// FilterOptions is a composable todo predicate. Unset fields match
// everything; set fields must all match. List fields match any member.
type FilterOptions struct {
	Priority    []Priority `json:"priority,omitempty"`
	CategoryID  []string   `json:"categoryId,omitempty"`
	DateRange   *DateRange `json:"dateRange,omitempty"`
	IsCompleted *bool      `json:"isCompleted,omitempty"`
	IdentityID  string     `json:"identityId,omitempty"`
	AssigneeID  string     `json:"assigneeId,omitempty"`
}

// IsEmpty reports whether no field is set.
func (o FilterOptions) IsEmpty() bool {
	return len(o.Priority) == 0 &&
		len(o.CategoryID) == 0 &&
		o.DateRange == nil &&
		o.IsCompleted == nil &&
		o.IdentityID == "" &&
		o.AssigneeID == ""
}

// Matches reports whether a single todo satisfies every set field.
// It does not look at DeletedAt.
func (o FilterOptions) Matches(t Todo) bool {
	if o.IsCompleted != nil && t.IsCompleted != *o.IsCompleted {
		return false
	}
	if len(o.Priority) > 0 && !slices.Contains(o.Priority, t.Priority) {
		return false
	}
	if len(o.CategoryID) > 0 {
		if t.CategoryID == "" || !slices.Contains(o.CategoryID, t.CategoryID) {
			return false
		}
	}
	if o.DateRange != nil {
		if t.DueDate == nil || !o.DateRange.Contains(*t.DueDate) {
			return false
		}
	}
	if o.IdentityID != "" && t.IdentityID != o.IdentityID {
		return false
	}
	if o.AssigneeID != "" && t.AssigneeID != o.AssigneeID {
		return false
	}
	return true
}

// Filter returns the todos matching options, in collection order.
// With includeDeleted false only active todos are considered; with
// includeDeleted true only soft-deleted todos are.
func Filter(todos []Todo, options FilterOptions, includeDeleted bool) []Todo {
	result := make([]Todo, 0, len(todos))
	for _, t := range todos {
		if t.IsDeleted() != includeDeleted {
			continue
		}
		if !options.Matches(t) {
			continue
		}
		result = append(result, t)
	}
	return result
}

// Active returns the todos that are not soft-deleted.
func Active(todos []Todo) []Todo {
	return Filter(todos, FilterOptions{}, false)
}

// Deleted returns the soft-deleted todos.
func Deleted(todos []Todo) []Todo {
	return Filter(todos, FilterOptions{}, true)
}
