package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/amonks/quadrant/app"
	"github.com/amonks/quadrant/internal/editor"
	"github.com/amonks/quadrant/internal/ui"
	"github.com/amonks/quadrant/internal/validation"
	"github.com/amonks/quadrant/todo"
	"github.com/spf13/cobra"
)

var todoCmd = &cobra.Command{
	Use:   "todo",
	Short: "Manage todos of the current identity",
}

// todo create
var todoCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new todo",
	Long: `Create a new todo.

By default, opens $EDITOR to edit a TOML representation of the todo
when running interactively. Use --no-edit to skip the editor, or
--edit to force opening the editor even when not interactive.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTodoCreate,
}

var (
	todoCreateFields todoFieldFlags
	todoCreateEdit   bool
	todoCreateNoEdit bool
)

// todo update
var todoUpdateCmd = &cobra.Command{
	Use:   "update <id>...",
	Short: "Update one or more todos",
	Long: `Update one or more todos.

By default, opens $EDITOR to edit a TOML representation of the todo
when running interactively and no update flags are provided (one editor session per ID).
Use --no-edit to skip the editor, or --edit to force opening the editor even when not interactive.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTodoUpdate,
}

var (
	todoUpdateFields   todoFieldFlags
	todoUpdateTitle    string
	todoUpdateNoRepeat bool
	todoUpdateEdit     bool
	todoUpdateNoEdit   bool
)

// todo done
var todoDoneCmd = &cobra.Command{
	Use:   "done <id>...",
	Short: "Mark one or more todos as completed",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTodoDone,
}

var todoDoneUndo bool

// todo toggle
var todoToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a todo between completed and not completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runTodoToggle,
}

// todo delete
var todoDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Move todos to the recycle bin",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTodoDelete,
}

// todo restore
var todoRestoreCmd = &cobra.Command{
	Use:   "restore <id>...",
	Short: "Take todos out of the recycle bin",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTodoRestore,
}

// todo purge
var todoPurgeCmd = &cobra.Command{
	Use:   "purge <id>...",
	Short: "Permanently delete todos",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTodoPurge,
}

// todo show
var todoShowCmd = &cobra.Command{
	Use:   "show <id>...",
	Short: "Show detailed information about todos",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTodoShow,
}

var todoShowJSON bool

func init() {
	rootCmd.AddCommand(todoCmd)
	todoCmd.AddCommand(todoCreateCmd, todoUpdateCmd, todoDoneCmd, todoToggleCmd,
		todoDeleteCmd, todoRestoreCmd, todoPurgeCmd, todoShowCmd)

	addTodoFlagAliases(todoCreateCmd, todoUpdateCmd)

	// todo create flags
	todoCreateFields.register(todoCreateCmd)
	todoCreateCmd.Flags().BoolVarP(&todoCreateEdit, "edit", "e", false, "Open $EDITOR (default if interactive)")
	todoCreateCmd.Flags().BoolVar(&todoCreateNoEdit, "no-edit", false, "Do not open $EDITOR")

	// todo update flags
	todoUpdateCmd.Flags().StringVar(&todoUpdateTitle, "title", "", "New title")
	todoUpdateFields.register(todoUpdateCmd)
	todoUpdateCmd.Flags().BoolVar(&todoUpdateNoRepeat, "no-repeat", false, "Remove the repeat rule")
	todoUpdateCmd.Flags().BoolVarP(&todoUpdateEdit, "edit", "e", false, "Open $EDITOR (default if interactive)")
	todoUpdateCmd.Flags().BoolVar(&todoUpdateNoEdit, "no-edit", false, "Do not open $EDITOR")

	todoDoneCmd.Flags().BoolVar(&todoDoneUndo, "undo", false, "Mark as not completed instead")

	todoShowCmd.Flags().BoolVar(&todoShowJSON, "json", false, "Output as JSON")
}

// todoFieldFlags are the flags shared by create and update.
type todoFieldFlags struct {
	description string
	priority    string
	category    string
	due         string
	status      string
	assignee    string
	repeat      string
	every       int
	repeatUntil string
}

var todoFieldFlagNames = []string{"description", "priority", "category", "due", "status", "assignee", "repeat", "every", "repeat-until"}

func (f *todoFieldFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.description, "description", "d", "", "Description, markdown (use '-' to read from stdin)")
	flags.StringVarP(&f.priority, "priority", "p", "", "Priority: "+validation.FormatValidValues(todo.ValidPriorities())+" or 1-4")
	flags.StringVarP(&f.category, "category", "c", "", "Category name or ID (none for uncategorized)")
	flags.StringVar(&f.due, "due", "", "Due date: YYYY-MM-DD [HH:MM], today, tomorrow, +2h, +3d, none")
	flags.StringVar(&f.status, "status", "", "Status: "+validation.FormatValidValues(todo.ValidStatuses()))
	flags.StringVar(&f.assignee, "assignee", "", "Role name or ID to assign (none to clear)")
	flags.StringVar(&f.repeat, "repeat", "", "Repeat: "+validation.FormatValidValues(todo.ValidRepeatTypes()))
	flags.IntVar(&f.every, "every", 1, "Repeat interval, in units of --repeat")
	flags.StringVar(&f.repeatUntil, "repeat-until", "", "Stop repeating after this date")
}

func anyChanged(cmd *cobra.Command, names ...string) bool {
	for _, name := range names {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func parsePriorityFlag(value string) (todo.Priority, error) {
	priority, err := todo.ParsePriority(value)
	if err != nil {
		return "", validation.FormatInvalidValueError(todo.ErrInvalidPriority, todo.Priority(value), todo.ValidPriorities())
	}
	return priority, nil
}

func parseStatusFlag(value string) (todo.Status, error) {
	status, err := todo.ParseStatus(value)
	if err != nil {
		return "", validation.FormatInvalidValueError(todo.ErrInvalidStatus, todo.Status(value), todo.ValidStatuses())
	}
	return status, nil
}

// repeatRule builds a rule from the repeat flags, nil when --repeat is unset.
func (f *todoFieldFlags) repeatRule(now time.Time) (*todo.RepeatRule, error) {
	if strings.TrimSpace(f.repeat) == "" {
		return nil, nil
	}
	kind := todo.RepeatType(strings.ToLower(strings.TrimSpace(f.repeat)))
	if !kind.IsValid() {
		return nil, validation.FormatInvalidValueError(todo.ErrInvalidRepeatRule, kind, todo.ValidRepeatTypes())
	}
	until, err := ui.ParseDate(f.repeatUntil, now)
	if err != nil {
		return nil, err
	}
	return &todo.RepeatRule{Type: kind, Interval: f.every, EndDate: until, IsEnabled: true}, nil
}

func runTodoCreate(cmd *cobra.Command, args []string) error {
	fields := &todoCreateFields
	if cmd.Flags().Changed("description") {
		desc, err := resolveDescriptionFromStdin(fields.description, os.Stdin)
		if err != nil {
			return err
		}
		fields.description = desc
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	identityID, err := currentIdentityID(a)
	if err != nil {
		return err
	}

	// Determine whether to open editor:
	// - --edit forces editor
	// - --no-edit skips editor
	// - otherwise, open editor if interactive
	useEditor := todoCreateEdit || (!todoCreateNoEdit && editor.IsInteractive())

	var draft todo.Draft
	if useEditor {
		data := editor.DefaultCreateData(categoryNames(a, identityID))
		if len(args) > 0 {
			data.Title = args[0]
		}
		data.Description = fields.description
		data.Category = fields.category
		data.Due = fields.due
		if fields.priority != "" {
			if data.Priority, err = parsePriorityFlag(fields.priority); err != nil {
				return err
			}
		}

		parsed, err := editor.EditTodo(data, a.Now())
		if err != nil {
			return err
		}
		categoryID, err := resolveCategory(a, identityID, parsed.Category)
		if err != nil {
			return err
		}
		draft = parsed.ToDraft(identityID, categoryID)
	} else {
		// Non-editor path: title is required
		if len(args) == 0 {
			return fmt.Errorf("title is required (use --edit to open editor)")
		}
		draft, err = draftFromFlags(a, identityID, args[0], fields)
		if err != nil {
			return err
		}
	}

	if draft.RepeatRule, err = fields.repeatRule(a.Now()); err != nil {
		return err
	}
	if draft.AssigneeID, err = resolveRole(a, identityID, fields.assignee); err != nil {
		return err
	}
	if fields.status != "" && draft.Status == "" {
		if draft.Status, err = parseStatusFlag(fields.status); err != nil {
			return err
		}
	}

	created, err := a.CreateTodo(cmd.Context(), draft)
	if err != nil {
		return err
	}

	highlight := todoHighlighter(a)
	fmt.Printf("Created todo %s: %s\n", highlight(created.ID), created.Title)
	return nil
}

func draftFromFlags(a *app.App, identityID, title string, fields *todoFieldFlags) (todo.Draft, error) {
	draft := todo.Draft{
		Title:       title,
		Description: fields.description,
		IdentityID:  identityID,
	}

	var err error
	if fields.priority != "" {
		if draft.Priority, err = parsePriorityFlag(fields.priority); err != nil {
			return todo.Draft{}, err
		}
	}
	if draft.CategoryID, err = resolveCategory(a, identityID, fields.category); err != nil {
		return todo.Draft{}, err
	}
	if draft.DueDate, err = ui.ParseDate(fields.due, a.Now()); err != nil {
		return todo.Draft{}, err
	}
	return draft, nil
}

func runTodoUpdate(cmd *cobra.Command, args []string) error {
	fields := &todoUpdateFields
	if cmd.Flags().Changed("description") {
		desc, err := resolveDescriptionFromStdin(fields.description, os.Stdin)
		if err != nil {
			return err
		}
		fields.description = desc
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ids, err := a.Todos.ResolveAll(args)
	if err != nil {
		return err
	}

	hasFlags := anyChanged(cmd, append([]string{"title", "no-repeat"}, todoFieldFlagNames...)...)

	// Determine whether to open editor:
	// - --edit forces editor
	// - --no-edit skips editor
	// - otherwise, open editor only when no update flags and interactive
	useEditor := shouldUseTodoUpdateEditor(hasFlags, todoUpdateEdit, todoUpdateNoEdit, editor.IsInteractive())

	if !useEditor && !hasFlags {
		return fmt.Errorf("at least one update flag is required (use --edit to open editor)")
	}

	updatedItems := make([]todo.Todo, 0, len(ids))
	for _, id := range ids {
		existing, err := a.Todos.Get(id)
		if err != nil {
			return err
		}

		var opts todo.UpdateOptions
		if useEditor {
			opts, err = editUpdateOptions(cmd, a, existing)
		} else {
			opts, err = updateOptionsFromFlags(cmd, a, existing)
		}
		if err != nil {
			return err
		}

		updated, err := a.UpdateTodo(cmd.Context(), id, opts)
		if err != nil {
			return err
		}
		if updated != nil {
			updatedItems = append(updatedItems, *updated)
		}
	}

	highlight := todoHighlighter(a)
	for _, item := range updatedItems {
		fmt.Printf("Updated %s: %s\n", highlight(item.ID), item.Title)
	}
	return nil
}

func shouldUseTodoUpdateEditor(hasUpdateFlags bool, editFlag bool, noEditFlag bool, interactive bool) bool {
	if editFlag {
		return true
	}
	if noEditFlag {
		return false
	}
	if hasUpdateFlags {
		return false
	}
	return interactive
}

func editUpdateOptions(cmd *cobra.Command, a *app.App, existing todo.Todo) (todo.UpdateOptions, error) {
	fields := &todoUpdateFields
	data := editor.DataFromTodo(existing, categoryRef(a, existing.CategoryID), categoryNames(a, existing.IdentityID))
	if cmd.Flags().Changed("title") {
		data.Title = todoUpdateTitle
	}
	if cmd.Flags().Changed("description") {
		data.Description = fields.description
	}
	if cmd.Flags().Changed("category") {
		data.Category = fields.category
	}
	if cmd.Flags().Changed("due") {
		data.Due = fields.due
	}

	parsed, err := editor.EditTodo(data, a.Now())
	if err != nil {
		return todo.UpdateOptions{}, err
	}
	categoryID, err := resolveCategory(a, existing.IdentityID, parsed.Category)
	if err != nil {
		return todo.UpdateOptions{}, err
	}
	return parsed.ToUpdateOptions(categoryID), nil
}

// categoryRef is the name shown in the editor for a category id; dangling
// and empty ids show as empty.
func categoryRef(a *app.App, id string) string {
	if id == "" {
		return ""
	}
	c, err := a.Categories.Get(id)
	if err != nil {
		return ""
	}
	return c.Name
}

func updateOptionsFromFlags(cmd *cobra.Command, a *app.App, existing todo.Todo) (todo.UpdateOptions, error) {
	fields := &todoUpdateFields
	opts := todo.UpdateOptions{}
	var err error

	if cmd.Flags().Changed("title") {
		opts.Title = &todoUpdateTitle
	}
	if cmd.Flags().Changed("description") {
		opts.Description = &fields.description
	}
	if cmd.Flags().Changed("priority") {
		priority, err := parsePriorityFlag(fields.priority)
		if err != nil {
			return opts, err
		}
		opts.Priority = &priority
	}
	if cmd.Flags().Changed("status") {
		status, err := parseStatusFlag(fields.status)
		if err != nil {
			return opts, err
		}
		opts.Status = &status
	}
	if cmd.Flags().Changed("category") {
		categoryID, err := resolveCategory(a, existing.IdentityID, fields.category)
		if err != nil {
			return opts, err
		}
		opts.CategoryID = &categoryID
	}
	if cmd.Flags().Changed("assignee") {
		assigneeID, err := resolveRole(a, existing.IdentityID, fields.assignee)
		if err != nil {
			return opts, err
		}
		opts.AssigneeID = &assigneeID
	}
	if cmd.Flags().Changed("due") {
		due, err := ui.ParseDate(fields.due, a.Now())
		if err != nil {
			return opts, err
		}
		if due == nil {
			opts.ClearDueDate = true
		} else {
			opts.DueDate = due
		}
	}
	if todoUpdateNoRepeat {
		opts.ClearRepeatRule = true
	} else if opts.RepeatRule, err = fields.repeatRule(a.Now()); err != nil {
		return opts, err
	}
	return opts, nil
}

func runTodoDone(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ids, err := a.Todos.ResolveAll(args)
	if err != nil {
		return err
	}
	count, err := a.Todos.BatchSetComplete(cmd.Context(), ids, !todoDoneUndo)
	if err != nil {
		return err
	}

	verb := "Completed"
	if todoDoneUndo {
		verb = "Reopened"
	}
	fmt.Printf("%s %s\n", verb, plural(count, "todo"))
	return nil
}

func runTodoToggle(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.Todos.Resolve(args[0])
	if err != nil {
		return err
	}
	toggled, err := a.Todos.ToggleComplete(cmd.Context(), id)
	if err != nil {
		return err
	}
	if toggled == nil {
		return fmt.Errorf("%w: %s", todo.ErrTodoNotFound, id)
	}

	state := "not completed"
	if toggled.IsCompleted {
		state = "completed"
	}
	highlight := todoHighlighter(a)
	fmt.Printf("Marked %s %s: %s\n", highlight(toggled.ID), state, toggled.Title)
	return nil
}

func runTodoDelete(cmd *cobra.Command, args []string) error {
	return runTodoBatch(cmd, args, func(a *app.App, ids []string) (string, error) {
		count, err := a.Todos.BatchSoftDelete(cmd.Context(), ids)
		return fmt.Sprintf("Moved %s to the recycle bin", plural(count, "todo")), err
	})
}

func runTodoRestore(cmd *cobra.Command, args []string) error {
	return runTodoBatch(cmd, args, func(a *app.App, ids []string) (string, error) {
		count, err := a.Todos.BatchRestore(cmd.Context(), ids)
		return fmt.Sprintf("Restored %s", plural(count, "todo")), err
	})
}

func runTodoPurge(cmd *cobra.Command, args []string) error {
	return runTodoBatch(cmd, args, func(a *app.App, ids []string) (string, error) {
		count, err := a.Todos.BatchPermanentDelete(cmd.Context(), ids)
		return fmt.Sprintf("Permanently deleted %s", plural(count, "todo")), err
	})
}

func runTodoBatch(cmd *cobra.Command, args []string, fn func(a *app.App, ids []string) (string, error)) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ids, err := a.Todos.ResolveAll(args)
	if err != nil {
		return err
	}
	message, err := fn(a, ids)
	if err != nil {
		return err
	}
	fmt.Println(message)
	return nil
}

func runTodoShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ids, err := a.Todos.ResolveAll(args)
	if err != nil {
		return err
	}
	todos := make([]todo.Todo, 0, len(ids))
	for _, id := range ids {
		item, err := a.Todos.Get(id)
		if err != nil {
			return err
		}
		todos = append(todos, item)
	}

	if todoShowJSON {
		return encodeJSONToStdout(todos)
	}

	highlight := todoHighlighter(a)
	for i, t := range todos {
		if i > 0 {
			fmt.Println("---")
		}
		fmt.Print(formatTodoDetail(t, detailLookups(a), highlight, a.Now()))
	}
	return nil
}
