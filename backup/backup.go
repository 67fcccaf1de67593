// Package backup exports and imports the todo, category, identity and role
// collections as a single versioned document, and keeps a rolling set of
// snapshots under the @backups key.
package backup

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/amonks/quadrant/category"
	"github.com/amonks/quadrant/identity"
	"github.com/amonks/quadrant/storage"
	"github.com/amonks/quadrant/todo"
	"golang.org/x/sync/errgroup"
)

// Version is written into every export.
const Version = "1.0.0"

// RetentionDays is how long snapshots are kept.
const RetentionDays = 7

// Mode selects how Import combines incoming data with local data.
type Mode string

const (
	// ModeOverwrite replaces all four collections.
	ModeOverwrite Mode = "overwrite"

	// ModeMerge appends incoming records whose id is not present locally.
	ModeMerge Mode = "merge"
)

// ValidModes returns all valid import modes.
func ValidModes() []Mode {
	return []Mode{ModeMerge, ModeOverwrite}
}

var (
	// ErrInvalidMode is returned for an unknown import mode.
	ErrInvalidMode = errors.New("invalid import mode")

	// ErrUnsupportedVersion is returned when a backup's major version is not 1.
	ErrUnsupportedVersion = errors.New("unsupported backup version")
)

// ParseMode parses an import mode name.
func ParseMode(input string) (Mode, error) {
	mode := Mode(strings.ToLower(strings.TrimSpace(input)))
	if !slices.Contains(ValidModes(), mode) {
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, input)
	}
	return mode, nil
}

// Data is an exported copy of the four core collections.
type Data struct {
	Version    string              `json:"version"`
	Timestamp  time.Time           `json:"timestamp"`
	Todos      []todo.Todo         `json:"todos"`
	Categories []category.Category `json:"categories"`
	Identities []identity.Identity `json:"identities"`
	Roles      []identity.Role     `json:"roles"`
}

// Export reads the four collections from gw.
func Export(ctx context.Context, gw storage.Gateway, now time.Time) (Data, error) {
	data := Data{Version: Version, Timestamp: now}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		data.Todos, err = storage.LoadList[todo.Todo](gctx, gw, storage.KeyTodos)
		return err
	})
	g.Go(func() error {
		var err error
		data.Categories, err = storage.LoadList[category.Category](gctx, gw, storage.KeyCategories)
		return err
	})
	g.Go(func() error {
		var err error
		data.Identities, err = storage.LoadList[identity.Identity](gctx, gw, storage.KeyIdentities)
		return err
	})
	g.Go(func() error {
		var err error
		data.Roles, err = storage.LoadList[identity.Role](gctx, gw, storage.KeyRoles)
		return err
	})
	if err := g.Wait(); err != nil {
		return Data{}, fmt.Errorf("export: %w", err)
	}
	return data, nil
}

// Import writes data into gw. Collections are written one key at a time in
// the order todos, categories, identities, roles; a failure part way leaves
// the earlier keys written.
//
// In merge mode existing records are never updated and incoming records
// with an id already seen are dropped. Either way, at most one identity is
// left marked default, preferring the local one.
func Import(ctx context.Context, gw storage.Gateway, data Data, mode Mode) error {
	if err := checkVersion(data.Version); err != nil {
		return err
	}

	var next Data
	switch mode {
	case ModeOverwrite:
		next = data
	case ModeMerge:
		local, err := Export(ctx, gw, data.Timestamp)
		if err != nil {
			return err
		}
		next = Data{
			Todos:      mergeByID(local.Todos, data.Todos, func(t todo.Todo) string { return t.ID }),
			Categories: mergeByID(local.Categories, data.Categories, func(c category.Category) string { return c.ID }),
			Identities: mergeByID(local.Identities, data.Identities, func(i identity.Identity) string { return i.ID }),
			Roles:      mergeByID(local.Roles, data.Roles, func(r identity.Role) string { return r.ID }),
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	next.Identities = singleDefault(next.Identities)

	writes := []struct {
		key   storage.Key
		value any
	}{
		{storage.KeyTodos, nonNil(next.Todos)},
		{storage.KeyCategories, nonNil(next.Categories)},
		{storage.KeyIdentities, nonNil(next.Identities)},
		{storage.KeyRoles, nonNil(next.Roles)},
	}
	for _, w := range writes {
		if err := storage.Save(ctx, gw, w.key, w.value); err != nil {
			return fmt.Errorf("import: %w", err)
		}
	}
	return nil
}

func checkVersion(version string) error {
	major, _, _ := strings.Cut(version, ".")
	if major != "1" {
		return fmt.Errorf("%w: %q", ErrUnsupportedVersion, version)
	}
	return nil
}

// mergeByID appends the incoming records whose id is not yet present.
func mergeByID[T any](existing, incoming []T, id func(T) string) []T {
	merged := slices.Clone(existing)
	seen := make(map[string]bool, len(existing)+len(incoming))
	for _, item := range existing {
		seen[id(item)] = true
	}
	for _, item := range incoming {
		if seen[id(item)] {
			continue
		}
		seen[id(item)] = true
		merged = append(merged, item)
	}
	return merged
}

// singleDefault clears IsDefault on every identity after the first default.
func singleDefault(identities []identity.Identity) []identity.Identity {
	result := slices.Clone(identities)
	found := false
	for i := range result {
		if !result[i].IsDefault {
			continue
		}
		if found {
			result[i].IsDefault = false
		}
		found = true
	}
	return result
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
