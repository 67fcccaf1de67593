package todo

import (
	"fmt"
	"strings"

	"github.com/amonks/quadrant/internal/ids"
)

// IDIndex resolves typed id prefixes against a fixed set of todos,
// trashed ones included.
type IDIndex struct {
	normalized []string
}

// NewIDIndex indexes the ids of todos.
func NewIDIndex(todos []Todo) IDIndex {
	all := make([]string, len(todos))
	for i, t := range todos {
		all[i] = t.ID
	}
	return IDIndex{normalized: ids.NormalizeUniqueIDs(all)}
}

// Resolve maps prefix to a full id. Case is ignored and an exact id wins
// over longer ids sharing it as a prefix.
func (x IDIndex) Resolve(prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", ErrTodoNotFound
	}
	match, found, ambiguous := ids.MatchPrefixNormalized(x.normalized, prefix)
	switch {
	case !found:
		return "", fmt.Errorf("%w: %s", ErrTodoNotFound, prefix)
	case ambiguous:
		return "", fmt.Errorf("%w: %s", ErrAmbiguousTodoIDPrefix, prefix)
	}
	return match, nil
}

// PrefixLengths maps every id to the length of its shortest unique prefix.
func (x IDIndex) PrefixLengths() map[string]int {
	return ids.UniquePrefixLengthsNormalized(x.normalized)
}

// Len returns how many distinct ids are indexed.
func (x IDIndex) Len() int {
	return len(x.normalized)
}
