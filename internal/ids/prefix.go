package ids

import (
	"slices"
	"strings"
)

// NormalizeUniqueIDs lowercases ids, dropping empty values and duplicates.
// Order of first appearance is preserved.
func NormalizeUniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.ToLower(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// UniquePrefixLengths returns the shortest unique prefix length for each ID,
// keyed by the lowercased ID.
func UniquePrefixLengths(ids []string) map[string]int {
	return UniquePrefixLengthsNormalized(NormalizeUniqueIDs(ids))
}

// UniquePrefixLengthsNormalized is UniquePrefixLengths for ids that already
// went through NormalizeUniqueIDs.
//
// After sorting, the longest prefix an id shares with any other id is the
// one it shares with a neighbour, so one pass over the sorted slice is enough.
func UniquePrefixLengthsNormalized(ids []string) map[string]int {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)

	lengths := make(map[string]int, len(sorted))
	for i, id := range sorted {
		shared := 0
		if i > 0 {
			shared = max(shared, commonPrefix(id, sorted[i-1]))
		}
		if i+1 < len(sorted) {
			shared = max(shared, commonPrefix(id, sorted[i+1]))
		}
		lengths[id] = min(shared+1, len(id))
	}
	return lengths
}

// MatchPrefixNormalized finds the id starting with prefix. An exact match
// always wins over longer ids sharing the prefix.
func MatchPrefixNormalized(ids []string, prefix string) (match string, found bool, ambiguous bool) {
	prefix = strings.ToLower(prefix)
	if slices.Contains(ids, prefix) {
		return prefix, true, false
	}
	for _, id := range ids {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		if found {
			return "", true, true
		}
		match, found = id, true
	}
	return match, found, false
}

func commonPrefix(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
