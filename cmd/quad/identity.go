package main

import (
	"fmt"
	"strings"

	"github.com/amonks/quadrant/app"
	"github.com/amonks/quadrant/identity"
	"github.com/amonks/quadrant/internal/ui"
	"github.com/spf13/cobra"
)

var identityCmd = &cobra.Command{
	Use:   "identity",
	Short: "Manage identities",
	Long: `Manage identities.

Every todo and category belongs to one identity. Commands act on the
current identity; "quad identity use" switches it.`,
}

var identityAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create an identity",
	Args:  cobra.ExactArgs(1),
	RunE:  runIdentityAdd,
}

var identityListCmd = &cobra.Command{
	Use:   "list",
	Short: "List identities",
	Args:  cobra.NoArgs,
	RunE:  runIdentityList,
}

var identityUpdateCmd = &cobra.Command{
	Use:   "update <identity>",
	Short: "Rename an identity or change its avatar",
	Args:  cobra.ExactArgs(1),
	RunE:  runIdentityUpdate,
}

var identityUseCmd = &cobra.Command{
	Use:   "use <identity>",
	Short: "Switch the current identity",
	Args:  cobra.ExactArgs(1),
	RunE:  runIdentityUse,
}

var identityDefaultCmd = &cobra.Command{
	Use:   "default <identity>",
	Short: "Make an identity the default",
	Args:  cobra.ExactArgs(1),
	RunE:  runIdentityDefault,
}

var identityDeleteCmd = &cobra.Command{
	Use:   "delete <identity>",
	Short: "Delete an identity",
	Long: `Delete an identity.

Its todos, categories and roles move to the default identity. The
default identity itself cannot be deleted.`,
	Args: cobra.ExactArgs(1),
	RunE: runIdentityDelete,
}

var (
	identityAvatar   string
	identityMakeDef  bool
	identityNewName  string
	identityListJSON bool
)

// role commands
var roleCmd = &cobra.Command{
	Use:   "role",
	Short: "Manage roles todos can be assigned to",
}

var roleAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a role",
	Args:  cobra.ExactArgs(1),
	RunE:  runRoleAdd,
}

var roleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List roles",
	Args:  cobra.NoArgs,
	RunE:  runRoleList,
}

var roleRenameCmd = &cobra.Command{
	Use:   "rename <role> <name>",
	Short: "Rename a role",
	Args:  cobra.ExactArgs(2),
	RunE:  runRoleRename,
}

var roleDeleteCmd = &cobra.Command{
	Use:   "delete <role>",
	Short: "Delete a role",
	Args:  cobra.ExactArgs(1),
	RunE:  runRoleDelete,
}

var roleIdentity string

func init() {
	rootCmd.AddCommand(identityCmd, roleCmd)
	identityCmd.AddCommand(identityAddCmd, identityListCmd, identityUpdateCmd, identityUseCmd,
		identityDefaultCmd, identityDeleteCmd)
	roleCmd.AddCommand(roleAddCmd, roleListCmd, roleRenameCmd, roleDeleteCmd)

	identityAddCmd.Flags().StringVar(&identityAvatar, "avatar", "", "Avatar (an emoji or image path)")
	identityAddCmd.Flags().BoolVar(&identityMakeDef, "default", false, "Make this the default identity")
	identityUpdateCmd.Flags().StringVar(&identityNewName, "name", "", "New name")
	identityUpdateCmd.Flags().StringVar(&identityAvatar, "avatar", "", "New avatar")
	identityUpdateCmd.MarkFlagsOneRequired("name", "avatar")
	identityListCmd.Flags().BoolVar(&identityListJSON, "json", false, "Output as JSON")

	roleCmd.PersistentFlags().StringVar(&roleIdentity, "identity", "", "Identity owning the roles (default current)")
}

func runIdentityAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	created, err := a.Identities.Add(cmd.Context(), identity.Draft{
		Name:      args[0],
		Avatar:    identityAvatar,
		IsDefault: identityMakeDef,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Created identity %s (%s)\n", created.Name, created.ID)
	return nil
}

func runIdentityList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	identities := a.Identities.All()
	if identityListJSON {
		return encodeJSONToStdout(identities)
	}

	current := a.State.Get().CurrentIdentityID
	builder := ui.NewTableBuilder([]string{"", "ID", "NAME", "DEFAULT", "ROLES"}, len(identities))
	for _, ident := range identities {
		marker := ""
		if ident.ID == current {
			marker = "*"
		}
		roles := make([]string, 0, len(ident.Roles))
		for _, r := range ident.Roles {
			roles = append(roles, r.Name)
		}
		name := ident.Name
		if ident.Avatar != "" {
			name = ident.Avatar + " " + name
		}
		builder.AddRow(marker, ident.ID, name, yesNo(ident.IsDefault), strings.Join(roles, ", "))
	}
	fmt.Print(builder.String())
	return nil
}

func runIdentityUpdate(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.Identities.Resolve(args[0])
	if err != nil {
		return err
	}
	var opts identity.UpdateOptions
	if cmd.Flags().Changed("name") {
		opts.Name = &identityNewName
	}
	if cmd.Flags().Changed("avatar") {
		opts.Avatar = &identityAvatar
	}
	updated, err := a.Identities.Update(cmd.Context(), id, opts)
	if err != nil {
		return err
	}
	fmt.Printf("Updated identity %s\n", updated.Name)
	return nil
}

func runIdentityUse(cmd *cobra.Command, args []string) error {
	return withIdentity(cmd, args[0], func(a *app.App, id string) error {
		if err := a.State.SetCurrentIdentity(cmd.Context(), id); err != nil {
			return err
		}
		// The current category belongs to the previous identity.
		if err := a.State.SetCurrentCategory(cmd.Context(), ""); err != nil {
			return err
		}
		fmt.Printf("Now using identity %s\n", a.Identities.Name(id))
		return nil
	})
}

func runIdentityDefault(cmd *cobra.Command, args []string) error {
	return withIdentity(cmd, args[0], func(a *app.App, id string) error {
		if err := a.Identities.SetDefault(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("Default identity is now %s\n", a.Identities.Name(id))
		return nil
	})
}

func runIdentityDelete(cmd *cobra.Command, args []string) error {
	return withIdentity(cmd, args[0], func(a *app.App, id string) error {
		name := a.Identities.Name(id)
		fallbackID, err := a.DeleteIdentity(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted identity %s; its data moved to %s\n", name, a.Identities.Name(fallbackID))
		return nil
	})
}

func withIdentity(cmd *cobra.Command, ref string, fn func(a *app.App, id string) error) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.Identities.Resolve(ref)
	if err != nil {
		return err
	}
	return fn(a, id)
}

func runRoleAdd(cmd *cobra.Command, args []string) error {
	return withRoleIdentity(cmd, func(a *app.App, identityID string) error {
		role, err := a.Identities.AddRole(cmd.Context(), identityID, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Created role %s (%s)\n", role.Name, role.ID)
		return nil
	})
}

func runRoleList(cmd *cobra.Command, args []string) error {
	return withRoleIdentity(cmd, func(a *app.App, identityID string) error {
		roles := a.Identities.RolesFor(identityID)
		if len(roles) == 0 {
			fmt.Println("No roles found.")
			return nil
		}
		builder := ui.NewTableBuilder([]string{"ID", "NAME"}, len(roles))
		for _, r := range roles {
			builder.AddRow(r.ID, r.Name)
		}
		fmt.Print(builder.String())
		return nil
	})
}

func runRoleRename(cmd *cobra.Command, args []string) error {
	return withRoleIdentity(cmd, func(a *app.App, identityID string) error {
		id, err := a.Identities.ResolveRole(identityID, args[0])
		if err != nil {
			return err
		}
		role, err := a.Identities.UpdateRole(cmd.Context(), id, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Renamed role to %s\n", role.Name)
		return nil
	})
}

func runRoleDelete(cmd *cobra.Command, args []string) error {
	return withRoleIdentity(cmd, func(a *app.App, identityID string) error {
		id, err := a.Identities.ResolveRole(identityID, args[0])
		if err != nil {
			return err
		}
		name := a.Identities.RoleName(id)
		if err := a.Identities.DeleteRole(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("Deleted role %s\n", name)
		return nil
	})
}

func withRoleIdentity(cmd *cobra.Command, fn func(a *app.App, identityID string) error) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	identityID, err := resolveIdentity(a, roleIdentity)
	if err != nil {
		return err
	}
	return fn(a, identityID)
}
