package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/amonks/quadrant/app"
	"github.com/amonks/quadrant/category"
	"github.com/amonks/quadrant/internal/markdown"
	"github.com/amonks/quadrant/internal/ui"
	"github.com/amonks/quadrant/todo"
)

const todoDetailLineWidth = 80

// lookups turns the ids stored on a todo into display names.
type lookups struct {
	categoryName  func(id string) string
	categoryColor func(id string) category.Color
	identityName  func(id string) string
	roleName      func(id string) string
}

func detailLookups(a *app.App) lookups {
	return lookups{
		categoryName:  a.Categories.Name,
		categoryColor: a.Categories.Color,
		identityName:  a.Identities.Name,
		roleName:      a.Identities.RoleName,
	}
}

// formatTodoDetail renders every field of a todo.
func formatTodoDetail(t todo.Todo, names lookups, highlight func(string) string, now time.Time) string {
	var b strings.Builder
	line := func(label, value string) {
		fmt.Fprintf(&b, "%-10s%s\n", label+":", value)
	}

	line("ID", highlight(t.ID))
	line("Title", ui.FormatTitle(t))
	line("Priority", ui.FormatPriority(t.Priority))
	line("Category", ui.FormatCategory(names.categoryName(t.CategoryID), names.categoryColor(t.CategoryID)))
	line("Status", string(t.Status))
	line("Completed", yesNo(t.IsCompleted))
	if t.DueDate != nil {
		due := fmt.Sprintf("%s (%s)", ui.FormatDate(t.DueDate), ui.FormatDue(t.DueDate, now))
		if !t.IsCompleted && todo.IsOverdue(*t.DueDate, now) {
			due = ui.FormatOverdue(due)
		}
		line("Due", due)
	}
	if t.RepeatRule != nil {
		line("Repeats", formatRepeatRule(*t.RepeatRule))
	}
	line("Identity", names.identityName(t.IdentityID))
	if t.AssigneeID != "" {
		line("Assignee", names.roleName(t.AssigneeID))
	}
	line("Created", t.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	line("Updated", t.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	if t.DeletedAt != nil {
		line("Deleted", t.DeletedAt.Local().Format("2006-01-02 15:04:05"))
	}

	if t.Description != "" {
		fmt.Fprintf(&b, "\n%s\n%s\n", ui.Heading("Description:"), formatTodoDescription(t.Description))
	}

	if len(t.Attachments) > 0 {
		fmt.Fprintf(&b, "\n%s\n", ui.Heading("Attachments:"))
		for _, att := range t.Attachments {
			fmt.Fprintf(&b, "  %s (%s, %s)\n", att.Name, att.Type, formatBytes(att.Size))
		}
	}

	if len(t.Comments) > 0 {
		fmt.Fprintf(&b, "\n%s\n", ui.Heading("Comments:"))
		for _, c := range t.Comments {
			fmt.Fprintf(&b, "  %s, %s\n", names.identityName(c.AuthorID), ui.FormatTimeAgo(c.CreatedAt, now))
			fmt.Fprintf(&b, "%s\n", markdown.Wrap(todoDetailLineWidth, 4, c.Content))
		}
	}
	return b.String()
}

func formatTodoDescription(value string) string {
	rendered := markdown.SafeRender(todoDetailLineWidth, 2, []byte(value))
	if len(rendered) == 0 {
		return "  -"
	}
	return string(rendered)
}

func formatRepeatRule(rule todo.RepeatRule) string {
	unit := map[todo.RepeatType]string{
		todo.RepeatDaily:   "day",
		todo.RepeatWeekly:  "week",
		todo.RepeatMonthly: "month",
		todo.RepeatYearly:  "year",
	}[rule.Type]
	text := "every " + unit
	if rule.Interval > 1 {
		text = fmt.Sprintf("every %d %ss", rule.Interval, unit)
	}
	if rule.EndDate != nil {
		text += " until " + ui.FormatDate(rule.EndDate)
	}
	if !rule.IsEnabled {
		text += " (paused)"
	}
	return text
}

func formatBytes(size int64) string {
	switch {
	case size >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(size)/(1<<20))
	case size >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(size)/(1<<10))
	default:
		return fmt.Sprintf("%d B", size)
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
