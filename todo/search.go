package todo

import (
	"slices"
	"strings"

	internalstrings "github.com/amonks/quadrant/internal/strings"
)

const (
	titleMatchScore       = 10
	descriptionMatchScore = 5
)

// Match is a search hit with its score.
type Match struct {
	Todo  Todo
	Score int
}

// Search ranks active todos against query. Soft-deleted todos never match.
//
// A blank query returns every active todo in collection order with score 0.
// Otherwise a todo matches when its title or description contains the
// query, case-insensitively; a title match scores 10 and a description
// match adds 5. Results are ordered by descending score, ties in
// collection order.
func Search(todos []Todo, query string) []Match {
	matches := make([]Match, 0, len(todos))
	if internalstrings.IsBlank(query) {
		for _, t := range todos {
			if t.IsDeleted() {
				continue
			}
			matches = append(matches, Match{Todo: t})
		}
		return matches
	}

	needle := strings.ToLower(query)
	for _, t := range todos {
		if t.IsDeleted() {
			continue
		}
		score := Score(t, needle)
		if score == 0 {
			continue
		}
		matches = append(matches, Match{Todo: t, Score: score})
	}

	slices.SortStableFunc(matches, func(a, b Match) int {
		return b.Score - a.Score
	})
	return matches
}

// SearchTodos is Search without the scores.
func SearchTodos(todos []Todo, query string) []Todo {
	matches := Search(todos, query)
	result := make([]Todo, 0, len(matches))
	for _, m := range matches {
		result = append(result, m.Todo)
	}
	return result
}

// Score returns the relevance of t for query. Blank queries score 0.
func Score(t Todo, query string) int {
	if internalstrings.IsBlank(query) {
		return 0
	}
	needle := strings.ToLower(query)
	score := 0
	if strings.Contains(strings.ToLower(t.Title), needle) {
		score += titleMatchScore
	}
	if t.Description != "" && strings.Contains(strings.ToLower(t.Description), needle) {
		score += descriptionMatchScore
	}
	return score
}
