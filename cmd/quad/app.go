package main

import (
	"fmt"
	"strings"

	"github.com/amonks/quadrant/app"
	"github.com/amonks/quadrant/category"
	"github.com/amonks/quadrant/internal/config"
	"github.com/amonks/quadrant/internal/ui"
	"github.com/spf13/cobra"
)

// openApp loads the config and opens every store, creating the default
// identity on first run. Callers must Close the app.
func openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := config.Load(rootConfigPath)
	if err != nil {
		return nil, err
	}
	if rootEphemeral {
		cfg.Storage.Backend = config.BackendMemory
	}

	a, err := app.Open(cmd.Context(), app.Options{Config: cfg})
	if err != nil {
		return nil, err
	}
	if _, err := a.Bootstrap(cmd.Context()); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// currentIdentityID returns the identity commands act on.
func currentIdentityID(a *app.App) (string, error) {
	current, err := a.CurrentIdentity()
	if err != nil {
		return "", err
	}
	return current.ID, nil
}

// resolveIdentity maps a name or id prefix to an identity id. An empty
// reference means the current identity.
func resolveIdentity(a *app.App, ref string) (string, error) {
	if strings.TrimSpace(ref) == "" {
		return currentIdentityID(a)
	}
	return a.Identities.Resolve(ref)
}

// resolveCategory maps a name or id prefix to a category of identityID.
// Empty, "none" and "uncategorized" select no category.
func resolveCategory(a *app.App, identityID, ref string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(ref)) {
	case "", "none", category.UncategorizedID:
		return "", nil
	}
	return a.Categories.Resolve(identityID, ref)
}

// resolveRole maps a role name or id prefix of identityID to a role id.
// Empty and "none" clear the assignee.
func resolveRole(a *app.App, identityID, ref string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(ref)) {
	case "", "none":
		return "", nil
	}
	return a.Identities.ResolveRole(identityID, ref)
}

func categoryNames(a *app.App, identityID string) []string {
	categories := a.Categories.ForIdentity(identityID)
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return names
}

// todoHighlighter highlights todo ids by their shortest unique prefix.
func todoHighlighter(a *app.App) func(string) string {
	prefixLengths := a.Todos.IDIndex().PrefixLengths()
	return func(id string) string {
		return ui.HighlightID(id, ui.PrefixLength(prefixLengths, id))
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
