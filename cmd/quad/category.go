package main

import (
	"fmt"
	"strconv"

	"github.com/amonks/quadrant/category"
	"github.com/amonks/quadrant/internal/ui"
	"github.com/amonks/quadrant/internal/validation"
	"github.com/spf13/cobra"
)

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage categories of the current identity",
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a category",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoryAdd,
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	Args:  cobra.NoArgs,
	RunE:  runCategoryList,
}

var categoryUpdateCmd = &cobra.Command{
	Use:   "update <category>",
	Short: "Rename or recolor a category",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoryUpdate,
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete <category>",
	Short: "Delete a category",
	Long: `Delete a category.

Todos in the category are kept and show as uncategorized.`,
	Args: cobra.ExactArgs(1),
	RunE: runCategoryDelete,
}

var (
	categoryColor    string
	categoryNewName  string
	categoryListJSON bool
)

func init() {
	rootCmd.AddCommand(categoryCmd)
	categoryCmd.AddCommand(categoryAddCmd, categoryListCmd, categoryUpdateCmd, categoryDeleteCmd)

	colorUsage := "Color: " + validation.FormatValidValues(category.ValidColors())
	categoryAddCmd.Flags().StringVar(&categoryColor, "color", string(category.DefaultColor), colorUsage)
	categoryUpdateCmd.Flags().StringVar(&categoryColor, "color", "", colorUsage)
	categoryUpdateCmd.Flags().StringVar(&categoryNewName, "name", "", "New name")
	categoryUpdateCmd.MarkFlagsOneRequired("color", "name")
	categoryListCmd.Flags().BoolVar(&categoryListJSON, "json", false, "Output as JSON")
}

func parseColorFlag(value string) (category.Color, error) {
	color, err := category.ParseColor(value)
	if err != nil {
		return "", validation.FormatInvalidValueError(category.ErrInvalidColor, category.Color(value), category.ValidColors())
	}
	return color, nil
}

func runCategoryAdd(cmd *cobra.Command, args []string) error {
	color, err := parseColorFlag(categoryColor)
	if err != nil {
		return err
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
	created, err := a.Categories.Add(cmd.Context(), category.Draft{Name: args[0], Color: color, IdentityID: identityID})
	if err != nil {
		return err
	}
	fmt.Printf("Created category %s (%s)\n", ui.FormatCategory(created.Name, created.Color), created.ID)
	return nil
}

func runCategoryList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	identityID, err := currentIdentityID(a)
	if err != nil {
		return err
	}
	categories := a.Categories.ForIdentity(identityID)
	if categoryListJSON {
		return encodeJSONToStdout(categories)
	}
	if len(categories) == 0 {
		fmt.Println("No categories found.")
		return nil
	}

	counts := map[string]int{}
	for _, t := range a.Todos.All() {
		if !t.IsDeleted() {
			counts[t.CategoryID]++
		}
	}

	builder := ui.NewTableBuilder([]string{"ID", "NAME", "COLOR", "TODOS"}, len(categories))
	for _, c := range categories {
		builder.AddRow(c.ID, ui.FormatCategory(c.Name, c.Color), string(c.Color), strconv.Itoa(counts[c.ID]))
	}
	fmt.Print(builder.String())
	return nil
}

func runCategoryUpdate(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	identityID, err := currentIdentityID(a)
	if err != nil {
		return err
	}
	id, err := a.Categories.Resolve(identityID, args[0])
	if err != nil {
		return err
	}

	var opts category.UpdateOptions
	if cmd.Flags().Changed("name") {
		opts.Name = &categoryNewName
	}
	if cmd.Flags().Changed("color") {
		color, err := parseColorFlag(categoryColor)
		if err != nil {
			return err
		}
		opts.Color = &color
	}

	updated, err := a.Categories.Update(cmd.Context(), id, opts)
	if err != nil {
		return err
	}
	fmt.Printf("Updated category %s\n", ui.FormatCategory(updated.Name, updated.Color))
	return nil
}

func runCategoryDelete(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	identityID, err := currentIdentityID(a)
	if err != nil {
		return err
	}
	id, err := a.Categories.Resolve(identityID, args[0])
	if err != nil {
		return err
	}
	name := a.Categories.Name(id)
	if err := a.Categories.Delete(cmd.Context(), id); err != nil {
		return err
	}
	if a.State.Get().CurrentCategoryID == id {
		if err := a.State.SetCurrentCategory(cmd.Context(), ""); err != nil {
			return err
		}
	}
	fmt.Printf("Deleted category %s\n", name)
	return nil
}
