package ui

import (
	"os"
	"strings"

	"github.com/amonks/quadrant/internal/ids"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var renderer = newRenderer()

func newRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(os.Stdout)
	r.SetColorProfile(termenv.ANSI256)
	return r
}

var idPrefixStyle = renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))

// ansiEnabled reports whether stdout should receive escape codes.
var ansiEnabled = func() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// HighlightID returns an ID with its unique prefix highlighted.
func HighlightID(id string, prefixLen int) string {
	if id == "" || prefixLen <= 0 || prefixLen > len(id) {
		return id
	}
	if !ansiEnabled() {
		return id
	}
	return idPrefixStyle.Render(id[:prefixLen]) + id[prefixLen:]
}

// UniqueIDPrefixLengths returns the shortest unique prefix length for each
// ID, keyed by the lowercased ID.
func UniqueIDPrefixLengths(list []string) map[string]int {
	return ids.UniquePrefixLengths(list)
}

// PrefixLength looks up id in lengths case-insensitively.
func PrefixLength(lengths map[string]int, id string) int {
	if lengths == nil || id == "" {
		return 0
	}
	return lengths[strings.ToLower(id)]
}
