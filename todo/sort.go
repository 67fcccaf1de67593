package todo

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sort returns a copy of todos ordered by sortBy. The sort is stable.
// SortDesc negates the whole comparator, so under dueDate/desc the
// undated todos come first.
func Sort(todos []Todo, sortBy SortBy, sortOrder SortOrder) []Todo {
	sorted := slices.Clone(todos)
	compare := comparator(sortBy)
	if sortOrder == SortDesc {
		slices.SortStableFunc(sorted, func(a, b Todo) int {
			return -compare(a, b)
		})
	} else {
		slices.SortStableFunc(sorted, compare)
	}
	return sorted
}

func comparator(sortBy SortBy) func(a, b Todo) int {
	switch sortBy {
	case SortByPriority:
		return comparePriority
	case SortByDueDate:
		return compareDueDate
	case SortByCompleted:
		return compareCompleted
	case SortByTitle:
		collator := collate.New(language.Und)
		return func(a, b Todo) int {
			return collator.CompareString(a.Title, b.Title)
		}
	default:
		return compareCreatedAt
	}
}

func comparePriority(a, b Todo) int {
	return cmp.Compare(a.Priority.Rank(), b.Priority.Rank())
}

func compareDueDate(a, b Todo) int {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return 0
	case a.DueDate == nil:
		return 1
	case b.DueDate == nil:
		return -1
	default:
		return a.DueDate.Compare(*b.DueDate)
	}
}

func compareCompleted(a, b Todo) int {
	return cmp.Compare(boolRank(a.IsCompleted), boolRank(b.IsCompleted))
}

func compareCreatedAt(a, b Todo) int {
	return a.CreatedAt.Compare(b.CreatedAt)
}

func boolRank(v bool) int {
	if v {
		return 1
	}
	return 0
}
