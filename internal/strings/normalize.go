// Package strings holds the small text helpers shared by quadrant's
// domain packages and terminal renderers.
package strings

import "strings"

// IsBlank reports whether value is empty or only whitespace.
func IsBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}

// NormalizeLowerTrimSpace folds user input such as "  Urgent-Important "
// to its canonical lowercase form.
func NormalizeLowerTrimSpace(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// NormalizeNewlines converts CRLF and lone CR line endings to LF.
func NormalizeNewlines(value string) string {
	if !strings.ContainsRune(value, '\r') {
		return value
	}
	return strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(value)
}

// TrimTrailingNewlines drops line endings from the end of value.
func TrimTrailingNewlines(value string) string {
	return strings.TrimRight(value, "\r\n")
}

// IndentBlock prefixes every non-empty line of value with spaces. Empty
// lines stay empty so rendered paragraphs carry no trailing whitespace.
func IndentBlock(value string, spaces int) string {
	if spaces <= 0 || value == "" {
		return value
	}
	prefix := strings.Repeat(" ", spaces)
	lines := strings.Split(value, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
