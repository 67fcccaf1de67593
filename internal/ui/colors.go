package ui

import (
	"github.com/amonks/quadrant/category"
	"github.com/amonks/quadrant/todo"
	"github.com/charmbracelet/lipgloss"
)

var priorityColors = map[todo.Priority]lipgloss.Color{
	todo.PriorityUrgentImportant:       "#ef4444",
	todo.PriorityImportantNotUrgent:    "#f59e0b",
	todo.PriorityUrgentNotImportant:    "#06b6d4",
	todo.PriorityNotUrgentNotImportant: "#6b7280",
}

var (
	completedStyle = renderer.NewStyle().Strikethrough(true).Faint(true)
	overdueStyle   = renderer.NewStyle().Foreground(lipgloss.Color("#ef4444")).Bold(true)
	headingStyle   = renderer.NewStyle().Bold(true)
)

// PriorityColor returns the display color of a priority.
func PriorityColor(p todo.Priority) lipgloss.Color {
	if c, ok := priorityColors[p]; ok {
		return c
	}
	return priorityColors[todo.DefaultPriority]
}

// FormatPriority returns the priority label in its quadrant color.
func FormatPriority(p todo.Priority) string {
	return paint(renderer.NewStyle().Foreground(PriorityColor(p)), p.Label())
}

// FormatCategory returns a category name in its color.
func FormatCategory(name string, color category.Color) string {
	return paint(renderer.NewStyle().Foreground(lipgloss.Color(color.Hex())), name)
}

// FormatTitle strikes through completed titles.
func FormatTitle(t todo.Todo) string {
	if t.IsCompleted {
		return paint(completedStyle, t.Title)
	}
	return t.Title
}

// FormatOverdue highlights text for an overdue todo.
func FormatOverdue(text string) string {
	return paint(overdueStyle, text)
}

// Heading renders a bold section heading.
func Heading(text string) string {
	return paint(headingStyle, text)
}

func paint(style lipgloss.Style, text string) string {
	if text == "" || !ansiEnabled() {
		return text
	}
	return style.Render(text)
}
