package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/amonks/quadrant/app"
	"github.com/amonks/quadrant/internal/state"
	"github.com/amonks/quadrant/internal/ui"
	"github.com/amonks/quadrant/internal/validation"
	"github.com/amonks/quadrant/todo"
	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Show and change the saved view",
	Long: `Show and change the saved view.

The view holds the filters, sort order, search term and current
category that "quad todo list" starts from. It persists between runs.`,
}

var viewShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved view",
	Args:  cobra.NoArgs,
	RunE:  runViewShow,
}

var viewShowJSON bool

var viewModeCmd = &cobra.Command{
	Use:   "mode <mode>",
	Short: "Set the view mode (" + validation.FormatValidValues(state.ValidViewModes()) + ")",
	Args:  cobra.ExactArgs(1),
	RunE:  runViewMode,
}

var viewSortCmd = &cobra.Command{
	Use:   "sort <field> [asc|desc]",
	Short: "Set the sort field and order",
	Long: `Set the sort field and order.

Fields: ` + validation.FormatValidValues(todo.ValidSortFields()) + `.
The order is left unchanged when omitted.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runViewSort,
}

var viewFilterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Change the saved filters",
	Long: `Change the saved filters.

Only the flags given are changed. An empty value clears that filter;
--clear clears every filter first.`,
	Args: cobra.NoArgs,
	RunE: runViewFilter,
}

var viewFilterFlags struct {
	clear     bool
	priority  string
	category  string
	completed bool
	pending   bool
	any       bool
	dueFrom   string
	dueTo     string
	assignee  string
}

var viewCategoryCmd = &cobra.Command{
	Use:   "category <category>",
	Short: "Focus the view on one category (none to clear)",
	Args:  cobra.ExactArgs(1),
	RunE:  runViewCategory,
}

var viewSearchCmd = &cobra.Command{
	Use:   "search [query]...",
	Short: "Set the saved search term (no arguments to clear)",
	Args:  cobra.ArbitraryArgs,
	RunE:  runViewSearch,
}

var viewResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear filters, search and current category",
	Args:  cobra.NoArgs,
	RunE:  runViewReset,
}

var viewSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the current filters as a template",
	Args:  cobra.ExactArgs(1),
	RunE:  runViewSave,
}

var viewTemplatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List filter templates",
	Args:  cobra.NoArgs,
	RunE:  runViewTemplates,
}

var viewApplyCmd = &cobra.Command{
	Use:   "apply <template>",
	Short: "Replace the saved filters with a template's",
	Args:  cobra.ExactArgs(1),
	RunE:  runViewApply,
}

var viewForgetCmd = &cobra.Command{
	Use:   "forget <template>",
	Short: "Delete a filter template",
	Args:  cobra.ExactArgs(1),
	RunE:  runViewForget,
}

var viewHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent searches",
	Args:  cobra.NoArgs,
	RunE:  runViewHistory,
}

var viewHistoryClear bool

func init() {
	rootCmd.AddCommand(viewCmd)
	viewCmd.AddCommand(viewShowCmd, viewModeCmd, viewSortCmd, viewFilterCmd, viewCategoryCmd,
		viewSearchCmd, viewResetCmd, viewSaveCmd, viewTemplatesCmd, viewApplyCmd, viewForgetCmd,
		viewHistoryCmd)

	viewShowCmd.Flags().BoolVar(&viewShowJSON, "json", false, "Output as JSON")

	flags := viewFilterCmd.Flags()
	flags.BoolVar(&viewFilterFlags.clear, "clear", false, "Clear every filter before applying flags")
	flags.StringVarP(&viewFilterFlags.priority, "priority", "p", "", "Comma-separated priorities")
	flags.StringVarP(&viewFilterFlags.category, "category", "c", "", "Comma-separated categories")
	flags.BoolVar(&viewFilterFlags.completed, "completed", false, "Only completed todos")
	flags.BoolVar(&viewFilterFlags.pending, "pending", false, "Only pending todos")
	flags.BoolVar(&viewFilterFlags.any, "any", false, "Completed and pending todos")
	flags.StringVar(&viewFilterFlags.dueFrom, "due-from", "", "Earliest due date")
	flags.StringVar(&viewFilterFlags.dueTo, "due-to", "", "Latest due date")
	flags.StringVar(&viewFilterFlags.assignee, "assignee", "", "Assigned role")
	viewFilterCmd.MarkFlagsMutuallyExclusive("completed", "pending", "any")

	viewHistoryCmd.Flags().BoolVar(&viewHistoryClear, "clear", false, "Forget every recorded search")
}

func withState(cmd *cobra.Command, fn func(a *app.App) error) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func runViewShow(cmd *cobra.Command, args []string) error {
	return withState(cmd, func(a *app.App) error {
		st := a.State.Get()
		if viewShowJSON {
			return encodeJSONToStdout(st)
		}
		fmt.Print(formatViewState(st, detailLookups(a)))
		return nil
	})
}

func formatViewState(st state.AppState, names lookups) string {
	category := "-"
	if st.CurrentCategoryID != "" {
		category = ui.FormatCategory(names.categoryName(st.CurrentCategoryID), names.categoryColor(st.CurrentCategoryID))
	}
	search := "-"
	if st.SearchQuery != "" {
		search = fmt.Sprintf("%q", st.SearchQuery)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Identity: %s\n", names.identityName(st.CurrentIdentityID))
	fmt.Fprintf(&b, "Mode:     %s\n", st.ViewMode)
	fmt.Fprintf(&b, "Category: %s\n", category)
	fmt.Fprintf(&b, "Sort:     %s %s\n", st.SortBy, st.SortOrder)
	fmt.Fprintf(&b, "Search:   %s\n", search)
	fmt.Fprintf(&b, "Filters:  %s\n", formatFilter(st.FilterOptions, names))
	return b.String()
}

// formatFilter describes the set fields of a filter on one line.
func formatFilter(opts todo.FilterOptions, names lookups) string {
	var parts []string
	if len(opts.Priority) > 0 {
		labels := make([]string, 0, len(opts.Priority))
		for _, p := range opts.Priority {
			labels = append(labels, string(p))
		}
		parts = append(parts, "priority="+strings.Join(labels, ","))
	}
	if len(opts.CategoryID) > 0 {
		categories := make([]string, 0, len(opts.CategoryID))
		for _, id := range opts.CategoryID {
			categories = append(categories, names.categoryName(id))
		}
		parts = append(parts, "category="+strings.Join(categories, ","))
	}
	if opts.IsCompleted != nil {
		if *opts.IsCompleted {
			parts = append(parts, "completed")
		} else {
			parts = append(parts, "pending")
		}
	}
	if opts.DateRange != nil {
		from, to := "", ""
		if !opts.DateRange.Start.IsZero() {
			from = ui.FormatDate(&opts.DateRange.Start)
		}
		if !opts.DateRange.End.IsZero() {
			to = ui.FormatDate(&opts.DateRange.End)
		}
		parts = append(parts, fmt.Sprintf("due=%s..%s", from, to))
	}
	if opts.AssigneeID != "" {
		parts = append(parts, "assignee="+names.roleName(opts.AssigneeID))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

func runViewMode(cmd *cobra.Command, args []string) error {
	mode := state.ViewMode(strings.ToLower(strings.TrimSpace(args[0])))
	if !mode.IsValid() {
		return validation.FormatInvalidValueError(state.ErrInvalidViewMode, mode, state.ValidViewModes())
	}
	return withState(cmd, func(a *app.App) error {
		if err := a.State.SetViewMode(cmd.Context(), mode); err != nil {
			return err
		}
		fmt.Printf("View mode: %s\n", mode)
		return nil
	})
}

func runViewSort(cmd *cobra.Command, args []string) error {
	by, err := todo.ParseSortBy(args[0])
	if err != nil {
		return err
	}
	return withState(cmd, func(a *app.App) error {
		order := a.State.Get().SortOrder
		if len(args) == 2 {
			if order, err = todo.ParseSortOrder(args[1]); err != nil {
				return err
			}
		}
		if err := a.State.SetSort(cmd.Context(), by, order); err != nil {
			return err
		}
		fmt.Printf("Sorting by %s %s\n", by, order)
		return nil
	})
}

func runViewFilter(cmd *cobra.Command, args []string) error {
	return withState(cmd, func(a *app.App) error {
		identityID, err := currentIdentityID(a)
		if err != nil {
			return err
		}
		opts := a.State.Get().FilterOptions
		if viewFilterFlags.clear {
			opts = todo.FilterOptions{}
		}
		if err := applyFilterFlags(cmd, a, identityID, &opts); err != nil {
			return err
		}
		if err := a.State.SetFilter(cmd.Context(), opts); err != nil {
			return err
		}
		fmt.Printf("Filters: %s\n", formatFilter(opts, detailLookups(a)))
		return nil
	})
}

func applyFilterFlags(cmd *cobra.Command, a *app.App, identityID string, opts *todo.FilterOptions) error {
	changed := cmd.Flags().Changed
	if changed("priority") {
		priorities, err := parsePriorityList(viewFilterFlags.priority)
		if err != nil {
			return err
		}
		opts.Priority = priorities
	}
	if changed("category") {
		opts.CategoryID = nil
		for _, ref := range strings.Split(viewFilterFlags.category, ",") {
			if strings.TrimSpace(ref) == "" {
				continue
			}
			id, err := resolveCategory(a, identityID, ref)
			if err != nil {
				return err
			}
			if id != "" {
				opts.CategoryID = append(opts.CategoryID, id)
			}
		}
	}
	switch {
	case viewFilterFlags.completed:
		completed := true
		opts.IsCompleted = &completed
	case viewFilterFlags.pending:
		completed := false
		opts.IsCompleted = &completed
	case viewFilterFlags.any:
		opts.IsCompleted = nil
	}
	if changed("due-from") || changed("due-to") {
		var dateRange todo.DateRange
		if opts.DateRange != nil {
			dateRange = *opts.DateRange
		}
		if changed("due-from") {
			from, err := ui.ParseDate(viewFilterFlags.dueFrom, a.Now())
			if err != nil {
				return err
			}
			dateRange.Start = derefTime(from)
		}
		if changed("due-to") {
			to, err := ui.ParseDate(viewFilterFlags.dueTo, a.Now())
			if err != nil {
				return err
			}
			dateRange.End = derefTime(to)
		}
		opts.DateRange = &dateRange
		if dateRange.Start.IsZero() && dateRange.End.IsZero() {
			opts.DateRange = nil
		}
	}
	if changed("assignee") {
		roleID, err := resolveRole(a, identityID, viewFilterFlags.assignee)
		if err != nil {
			return err
		}
		opts.AssigneeID = roleID
	}
	return nil
}

func runViewCategory(cmd *cobra.Command, args []string) error {
	return withState(cmd, func(a *app.App) error {
		identityID, err := currentIdentityID(a)
		if err != nil {
			return err
		}
		categoryID, err := resolveCategory(a, identityID, args[0])
		if err != nil {
			return err
		}
		if err := a.State.SetCurrentCategory(cmd.Context(), categoryID); err != nil {
			return err
		}
		if categoryID == "" {
			fmt.Println("Showing all categories")
			return nil
		}
		fmt.Printf("Showing category %s\n", a.Categories.Name(categoryID))
		return nil
	})
}

func runViewSearch(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	return withState(cmd, func(a *app.App) error {
		if err := a.State.SetSearchQuery(cmd.Context(), query); err != nil {
			return err
		}
		if query == "" {
			fmt.Println("Cleared search")
			return nil
		}
		if err := a.State.RecordSearch(cmd.Context(), query); err != nil {
			return err
		}
		fmt.Printf("Searching for %q\n", query)
		return nil
	})
}

func runViewReset(cmd *cobra.Command, args []string) error {
	return withState(cmd, func(a *app.App) error {
		if err := a.State.ResetFilters(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Reset filters")
		return nil
	})
}

func runViewSave(cmd *cobra.Command, args []string) error {
	return withState(cmd, func(a *app.App) error {
		tpl, err := a.State.SaveTemplate(cmd.Context(), args[0], a.State.Get().FilterOptions)
		if err != nil {
			return err
		}
		fmt.Printf("Saved template %s\n", tpl.Name)
		return nil
	})
}

func runViewTemplates(cmd *cobra.Command, args []string) error {
	return withState(cmd, func(a *app.App) error {
		templates := a.State.Templates()
		if len(templates) == 0 {
			fmt.Println("No templates saved.")
			return nil
		}
		names := detailLookups(a)
		builder := ui.NewTableBuilder([]string{"NAME", "FILTERS", "CREATED"}, len(templates))
		for _, tpl := range templates {
			builder.AddRow(tpl.Name, formatFilter(tpl.Filters, names), ui.FormatTimeAgo(tpl.CreatedAt, a.Now()))
		}
		fmt.Print(builder.String())
		return nil
	})
}

func runViewApply(cmd *cobra.Command, args []string) error {
	return withState(cmd, func(a *app.App) error {
		tpl, err := a.State.Template(args[0])
		if err != nil {
			return err
		}
		if err := a.State.SetFilter(cmd.Context(), tpl.Filters); err != nil {
			return err
		}
		fmt.Printf("Applied template %s\n", tpl.Name)
		return nil
	})
}

func runViewForget(cmd *cobra.Command, args []string) error {
	return withState(cmd, func(a *app.App) error {
		if err := a.State.DeleteTemplate(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted template %s\n", args[0])
		return nil
	})
}

func runViewHistory(cmd *cobra.Command, args []string) error {
	return withState(cmd, func(a *app.App) error {
		if viewHistoryClear {
			if err := a.State.ClearHistory(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Cleared search history")
			return nil
		}
		history := a.State.History()
		if len(history) == 0 {
			fmt.Println("No recent searches.")
			return nil
		}
		for _, h := range history {
			fmt.Printf("%s  %s\n", h.Query, ui.FormatTimeAgo(h.CreatedAt, a.Now()))
		}
		return nil
	})
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
