package main

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/amonks/quadrant/internal/ui"
	"github.com/amonks/quadrant/todo"
)

// printTodoTable prints todos in a table format.
func printTodoTable(todos []todo.Todo, names lookups, prefixLengths map[string]int, now time.Time) {
	if len(todos) == 0 {
		fmt.Println("No todos found.")
		return
	}

	fmt.Print(formatTodoTable(todos, names, prefixLengths, ui.HighlightID, now))
}

// printTodoTimeline prints todos grouped by due day.
func printTodoTimeline(todos []todo.Todo, names lookups, prefixLengths map[string]int, now time.Time) {
	if len(todos) == 0 {
		fmt.Println("No todos found.")
		return
	}

	fmt.Print(formatTodoTimeline(todos, names, prefixLengths, ui.HighlightID, now))
}

func formatTodoTable(todos []todo.Todo, names lookups, prefixLengths map[string]int, highlight func(string, int) string, now time.Time) string {
	builder := ui.NewTableBuilder([]string{"ID", "PRIORITY", "CATEGORY", "DUE", "STATUS", "AGE", "TITLE"}, len(todos))

	if prefixLengths == nil {
		prefixLengths = todo.NewIDIndex(todos).PrefixLengths()
	}

	for _, t := range todos {
		builder.AddRow(
			highlight(t.ID, ui.PrefixLength(prefixLengths, t.ID)),
			ui.FormatPriority(t.Priority),
			ui.FormatCategory(names.categoryName(t.CategoryID), names.categoryColor(t.CategoryID)),
			formatTodoDue(t, now),
			formatTodoStatus(t),
			ui.FormatTimeAgeShort(t.CreatedAt, now),
			ui.TruncateTableCell(ui.FormatTitle(t)),
		)
	}

	return builder.String()
}

func formatTodoDue(t todo.Todo, now time.Time) string {
	due := ui.FormatDue(t.DueDate, now)
	if t.DueDate != nil && !t.IsCompleted && todo.IsOverdue(*t.DueDate, now) {
		return ui.FormatOverdue(due)
	}
	return due
}

func formatTodoStatus(t todo.Todo) string {
	if t.IsDeleted() {
		return "deleted"
	}
	if t.IsCompleted {
		return "done"
	}
	return string(t.Status)
}

// formatTodoTimeline groups todos under one heading per due day, in
// day order, with undated todos last.
func formatTodoTimeline(todos []todo.Todo, names lookups, prefixLengths map[string]int, highlight func(string, int) string, now time.Time) string {
	const undated = "No due date"

	var days []string
	groups := map[string][]todo.Todo{}
	for _, t := range todos {
		day := undated
		if t.DueDate != nil {
			day = t.DueDate.In(now.Location()).Format("2006-01-02 Mon")
		}
		if _, ok := groups[day]; !ok && day != undated {
			days = append(days, day)
		}
		groups[day] = append(groups[day], t)
	}
	slices.Sort(days)
	if len(groups[undated]) > 0 {
		days = append(days, undated)
	}

	var b strings.Builder
	for i, day := range days {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(ui.Heading(day))
		b.WriteString("\n")
		b.WriteString(formatTodoTable(groups[day], names, prefixLengths, highlight, now))
	}
	return b.String()
}
