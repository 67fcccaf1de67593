package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/amonks/quadrant/app"
	"github.com/amonks/quadrant/internal/listflags"
	"github.com/amonks/quadrant/internal/state"
	"github.com/amonks/quadrant/internal/ui"
	"github.com/amonks/quadrant/todo"
	"github.com/spf13/cobra"
)

// todo list
var todoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List todos using the saved view",
	Long: `List todos of the current identity.

The saved view (see "quad view") supplies the default filters, sort and
search term. Flags override it for this listing only; --all starts from
an empty filter instead.`,
	Args: cobra.NoArgs,
	RunE: runTodoList,
}

var todoListFlags listflags.Query

// todo trash
var todoTrashCmd = &cobra.Command{
	Use:   "trash",
	Short: "List todos in the recycle bin",
	Args:  cobra.NoArgs,
	RunE:  runTodoTrash,
}

var todoTrashFlags listflags.Query

// todo empty-trash
var todoEmptyTrashCmd = &cobra.Command{
	Use:   "empty-trash",
	Short: fmt.Sprintf("Permanently delete todos that have been in the recycle bin for %d days", todo.RecycleRetentionDays),
	Args:  cobra.NoArgs,
	RunE:  runTodoEmptyTrash,
}

// todo search
var todoSearchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Search titles and descriptions",
	Long: `Search titles and descriptions of active todos.

Title matches rank above description matches. The query is added to the
search history (see "quad view history").`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTodoSearch,
}

var todoSearchFlags listflags.Query

// todo stats
var todoStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show counts for the current identity",
	Args:  cobra.NoArgs,
	RunE:  runTodoStats,
}

var todoStatsJSON bool

// todo move
var todoMoveCmd = &cobra.Command{
	Use:   "move <id>...",
	Short: "Move todos to another category or identity",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTodoMove,
}

var (
	todoMoveCategory string
	todoMoveIdentity string
)

// todo reorder
var todoReorderCmd = &cobra.Command{
	Use:   "reorder <id>...",
	Short: "Put todos first in stored order",
	Long: `Put the listed todos at the front of the stored order, in the order
given. Every other todo keeps its relative position after them.

With --index, takes two positions instead and moves the todo at the
first position to the second.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTodoReorder,
}

var todoReorderIndex bool

func init() {
	todoCmd.AddCommand(todoListCmd, todoTrashCmd, todoEmptyTrashCmd, todoSearchCmd,
		todoStatsCmd, todoMoveCmd, todoReorderCmd)

	listflags.AddQueryFlags(todoListCmd, &todoListFlags)
	listflags.AddQueryFlags(todoTrashCmd, &todoTrashFlags)
	listflags.AddQueryFlags(todoSearchCmd, &todoSearchFlags)

	todoStatsCmd.Flags().BoolVar(&todoStatsJSON, "json", false, "Output as JSON")

	todoMoveCmd.Flags().StringVarP(&todoMoveCategory, "category", "c", "", "Target category (none for uncategorized)")
	todoMoveCmd.Flags().StringVar(&todoMoveIdentity, "identity", "", "Target identity")
	todoMoveCmd.MarkFlagsOneRequired("category", "identity")

	todoReorderCmd.Flags().BoolVar(&todoReorderIndex, "index", false, "Arguments are <from> <to> positions")
}

// listQuery is a todo.Query plus the status filter, which FilterOptions
// does not carry.
type listQuery struct {
	todo.Query
	status todo.Status
}

func (q listQuery) run(a *app.App) ([]todo.Todo, error) {
	todos, err := a.List(q.Query)
	if err != nil {
		return nil, err
	}
	if q.status == "" {
		return todos, nil
	}
	return slices.DeleteFunc(todos, func(t todo.Todo) bool { return t.Status != q.status }), nil
}

// buildListQuery starts from the saved view, or an empty one with --all,
// and applies the listing flags.
func buildListQuery(cmd *cobra.Command, a *app.App, flags listflags.Query) (listQuery, error) {
	saved := a.State.Get()
	q := listQuery{Query: saved.Query()}
	if flags.All {
		q.Query = todo.Query{SortBy: saved.SortBy, SortOrder: saved.SortOrder}
	}

	identityID, err := resolveIdentity(a, flags.Identity)
	if err != nil {
		return q, err
	}
	q.Filter.IdentityID = identityID

	if cmd.Flags().Changed("category") {
		categoryID, err := resolveCategory(a, identityID, flags.Category)
		if err != nil {
			return q, err
		}
		q.Filter.CategoryID = nil
		if categoryID != "" {
			q.Filter.CategoryID = []string{categoryID}
		}
	}
	if flags.Priority != "" {
		priorities, err := parsePriorityList(flags.Priority)
		if err != nil {
			return q, err
		}
		q.Filter.Priority = priorities
	}
	if flags.Status != "" {
		if q.status, err = parseStatusFlag(flags.Status); err != nil {
			return q, err
		}
	}
	if flags.Completed || flags.Pending {
		completed := flags.Completed
		q.Filter.IsCompleted = &completed
	}
	if flags.DueFrom != "" || flags.DueTo != "" {
		from, err := ui.ParseDate(flags.DueFrom, a.Now())
		if err != nil {
			return q, err
		}
		to, err := ui.ParseDate(flags.DueTo, a.Now())
		if err != nil {
			return q, err
		}
		var dateRange todo.DateRange
		if from != nil {
			dateRange.Start = *from
		}
		if to != nil {
			dateRange.End = *to
		}
		q.Filter.DateRange = &dateRange
	}
	if flags.SortBy != "" {
		if q.SortBy, err = todo.ParseSortBy(flags.SortBy); err != nil {
			return q, err
		}
	}
	if flags.SortOrder != "" {
		if q.SortOrder, err = todo.ParseSortOrder(flags.SortOrder); err != nil {
			return q, err
		}
	}
	return q, nil
}

// parsePriorityList reads a comma-separated priority list.
func parsePriorityList(value string) ([]todo.Priority, error) {
	var priorities []todo.Priority
	for _, part := range strings.Split(value, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		priority, err := parsePriorityFlag(part)
		if err != nil {
			return nil, err
		}
		priorities = append(priorities, priority)
	}
	return priorities, nil
}

func runTodoList(cmd *cobra.Command, args []string) error {
	return listTodos(cmd, todoListFlags, func(q *listQuery) {})
}

func runTodoTrash(cmd *cobra.Command, args []string) error {
	return listTodos(cmd, todoTrashFlags, func(q *listQuery) {
		q.IncludeDeleted = true
		q.Search = ""
	})
}

func runTodoSearch(cmd *cobra.Command, args []string) error {
	term := strings.Join(args, " ")
	return listTodos(cmd, todoSearchFlags, func(q *listQuery) {
		q.Search = term
	}, func(cmd *cobra.Command, a *app.App) error {
		return a.State.RecordSearch(cmd.Context(), term)
	})
}

func listTodos(cmd *cobra.Command, flags listflags.Query, adjust func(q *listQuery), after ...func(*cobra.Command, *app.App) error) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	q, err := buildListQuery(cmd, a, flags)
	if err != nil {
		return err
	}
	adjust(&q)

	todos, err := q.run(a)
	if err != nil {
		return err
	}
	for _, fn := range after {
		if err := fn(cmd, a); err != nil {
			return err
		}
	}

	if flags.JSON {
		return encodeJSONToStdout(todos)
	}
	if a.State.Get().ViewMode == state.ViewTimeline {
		printTodoTimeline(todos, detailLookups(a), a.Todos.IDIndex().PrefixLengths(), a.Now())
		return nil
	}
	printTodoTable(todos, detailLookups(a), a.Todos.IDIndex().PrefixLengths(), a.Now())
	return nil
}

func runTodoEmptyTrash(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	count, err := a.Todos.EmptyRecycleBin(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("Permanently deleted %s\n", plural(count, "todo"))
	return nil
}

func runTodoStats(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	stats, err := a.Stats()
	if err != nil {
		return err
	}
	if todoStatsJSON {
		return encodeJSONToStdout(stats)
	}
	fmt.Print(formatStats(stats))
	return nil
}

func formatStats(stats todo.Stats) string {
	builder := ui.NewTableBuilder([]string{"", "COUNT"}, 5+len(stats.ByPriority))
	builder.AddRow("total", strconv.Itoa(stats.Total))
	builder.AddRow("completed", strconv.Itoa(stats.Completed))
	builder.AddRow("pending", strconv.Itoa(stats.Pending))
	builder.AddRow("overdue", strconv.Itoa(stats.Overdue))
	builder.AddRow("in recycle bin", strconv.Itoa(stats.Deleted))
	for _, p := range todo.ValidPriorities() {
		builder.AddRow(ui.FormatPriority(p), strconv.Itoa(stats.ByPriority[p]))
	}
	return builder.String()
}

func runTodoMove(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ids, err := a.Todos.ResolveAll(args)
	if err != nil {
		return err
	}

	var opts todo.UpdateOptions
	targetIdentity := ""
	if cmd.Flags().Changed("identity") {
		if targetIdentity, err = a.Identities.Resolve(todoMoveIdentity); err != nil {
			return err
		}
		opts.IdentityID = &targetIdentity
		// Categories belong to one identity, so moving drops the category
		// unless a category of the target identity is named.
		none := ""
		opts.CategoryID = &none
	}
	if cmd.Flags().Changed("category") {
		owner := targetIdentity
		if owner == "" {
			if owner, err = currentIdentityID(a); err != nil {
				return err
			}
		}
		categoryID, err := resolveCategory(a, owner, todoMoveCategory)
		if err != nil {
			return err
		}
		opts.CategoryID = &categoryID
	}

	count := 0
	for _, id := range ids {
		updated, err := a.UpdateTodo(cmd.Context(), id, opts)
		if err != nil {
			return err
		}
		if updated != nil {
			count++
		}
	}
	fmt.Printf("Moved %s\n", plural(count, "todo"))
	return nil
}

func runTodoReorder(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if todoReorderIndex {
		if len(args) != 2 {
			return fmt.Errorf("--index takes exactly two positions")
		}
		from, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid position %q", args[0])
		}
		to, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid position %q", args[1])
		}
		if err := a.Todos.Reorder(cmd.Context(), from, to); err != nil {
			return err
		}
		fmt.Printf("Moved position %d to %d\n", from, to)
		return nil
	}

	first, err := a.Todos.ResolveAll(args)
	if err != nil {
		return err
	}
	if err := a.Todos.ReorderByID(cmd.Context(), frontOrder(first, a.Todos.All())); err != nil {
		return err
	}
	fmt.Printf("Reordered %s\n", plural(len(first), "todo"))
	return nil
}

// frontOrder lists first, then every other todo id in stored order.
func frontOrder(first []string, todos []todo.Todo) []string {
	order := make([]string, 0, len(todos))
	seen := make(map[string]bool, len(todos))
	for _, id := range first {
		if !seen[id] {
			seen[id] = true
			order = append(order, id)
		}
	}
	for _, t := range todos {
		if !seen[t.ID] {
			order = append(order, t.ID)
		}
	}
	return order
}
