// Package listflags defines the filter and sort flags shared by the
// commands that print todo listings.
package listflags

import (
	"github.com/spf13/cobra"
)

// Query holds the raw values of the shared listing flags.
type Query struct {
	All       bool
	Identity  string
	Category  string
	Priority  string
	Status    string
	Completed bool
	Pending   bool
	DueFrom   string
	DueTo     string
	SortBy    string
	SortOrder string
	JSON      bool
}

// AddAllFlag adds a shared --all flag to list commands.
func AddAllFlag(cmd *cobra.Command, target *bool) {
	if target == nil {
		cmd.Flags().Bool("all", false, "Ignore the saved view filters")
		return
	}

	cmd.Flags().BoolVar(target, "all", false, "Ignore the saved view filters")
}

// AddQueryFlags registers the filter and sort flags on cmd.
func AddQueryFlags(cmd *cobra.Command, q *Query) {
	flags := cmd.Flags()
	AddAllFlag(cmd, &q.All)
	flags.StringVar(&q.Identity, "identity", "", "List todos of this identity instead of the current one")
	flags.StringVar(&q.Category, "category", "", "Filter by category name or ID")
	flags.StringVar(&q.Priority, "priority", "", "Filter by priority")
	flags.StringVar(&q.Status, "status", "", "Filter by status")
	flags.BoolVar(&q.Completed, "completed", false, "Only completed todos")
	flags.BoolVar(&q.Pending, "pending", false, "Only todos that are not completed")
	flags.StringVar(&q.DueFrom, "due-from", "", "Only todos due at or after this date")
	flags.StringVar(&q.DueTo, "due-to", "", "Only todos due at or before this date")
	flags.StringVar(&q.SortBy, "sort", "", "Sort field (priority, dueDate, createdAt, completed, title)")
	flags.StringVar(&q.SortOrder, "order", "", "Sort order (asc, desc)")
	flags.BoolVar(&q.JSON, "json", false, "Output JSON")
	cmd.MarkFlagsMutuallyExclusive("completed", "pending")
}

// Changed reports whether any filter flag was set on the command line.
func Changed(cmd *cobra.Command) bool {
	for _, name := range []string{"category", "priority", "status", "completed", "pending", "due-from", "due-to"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}
