package todo

import internalstrings "github.com/amonks/quadrant/internal/strings"

// Query is the list pipeline used by views.
type Query struct {
	Filter         FilterOptions
	IncludeDeleted bool
	SortBy         SortBy
	SortOrder      SortOrder
	Search         string
}

// Run applies the query to todos.
//
// Without a search term the todos are filtered and then sorted. With a
// search term the ranked matches are filtered and keep their rank order;
// search never returns soft-deleted todos, so a recycle-bin query with a
// search term is empty.
func (q Query) Run(todos []Todo) []Todo {
	if internalstrings.IsBlank(q.Search) {
		return Sort(Filter(todos, q.Filter, q.IncludeDeleted), q.SortBy, q.SortOrder)
	}
	if q.IncludeDeleted {
		return []Todo{}
	}
	return Filter(SearchTodos(todos, q.Search), q.Filter, false)
}
