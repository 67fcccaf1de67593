package todo

import "time"

// Stats aggregates counts over a todo collection.
type Stats struct {
	Total      int              `json:"total"`
	Completed  int              `json:"completed"`
	Pending    int              `json:"pending"`
	Overdue    int              `json:"overdue"`
	Deleted    int              `json:"deleted"`
	ByPriority map[Priority]int `json:"byPriority"`
}

// ComputeStats counts active todos by completion, overdue state and
// priority, and counts soft-deleted todos separately. ByPriority always
// has an entry for each of the four priorities.
func ComputeStats(todos []Todo, now time.Time) Stats {
	stats := Stats{ByPriority: make(map[Priority]int, 4)}
	for _, p := range ValidPriorities() {
		stats.ByPriority[p] = 0
	}

	for _, t := range todos {
		if t.IsDeleted() {
			stats.Deleted++
			continue
		}
		stats.Total++
		if t.IsCompleted {
			stats.Completed++
		} else {
			stats.Pending++
			if t.DueDate != nil && IsOverdue(*t.DueDate, now) {
				stats.Overdue++
			}
		}
		if t.Priority.IsValid() {
			stats.ByPriority[t.Priority]++
		}
	}
	return stats
}

// IsOverdue reports whether due is before now and on an earlier calendar
// day, in now's location. A due date earlier today is not overdue.
func IsOverdue(due, now time.Time) bool {
	if !due.Before(now) {
		return false
	}
	return !sameDay(due.In(now.Location()), now)
}

// IsDueToday reports whether due falls on now's calendar day.
func IsDueToday(due, now time.Time) bool {
	return sameDay(due.In(now.Location()), now)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
