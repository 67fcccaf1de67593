package todo

import (
	"strings"

	internalstrings "github.com/amonks/quadrant/internal/strings"
)

func normalizeInput(value string) string {
	return internalstrings.NormalizeLowerTrimSpace(value)
}

func normalizeDashes(value string) string {
	return strings.ReplaceAll(value, "_", "-")
}

func extension(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}
