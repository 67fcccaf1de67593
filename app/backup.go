package app

import (
	"context"
	"fmt"

	"github.com/amonks/quadrant/backup"
)

// Export returns a backup of the four core collections.
func (a *App) Export(ctx context.Context) (backup.Data, error) {
	return backup.Export(ctx, a.backend, a.now())
}

// Import writes data into the backend and reloads every store from it.
// Reminders follow the new todo collection and the default identity is
// re-established afterwards.
func (a *App) Import(ctx context.Context, data backup.Data, mode backup.Mode) error {
	before := a.Todos.All()
	if err := backup.Import(ctx, a.backend, data, mode); err != nil {
		a.Logger.Error("import backup", "mode", mode, "error", err)
		return err
	}
	if err := a.Load(ctx); err != nil {
		return fmt.Errorf("reload after import: %w", err)
	}
	a.Reminders.Reconcile(ctx, before, a.Todos.All())
	if _, err := a.Bootstrap(ctx); err != nil {
		return err
	}
	a.Logger.Info("backup imported", "mode", mode, "todos", len(data.Todos))
	return nil
}

// Snapshot stores a backup under the @backups key, pruning old ones.
func (a *App) Snapshot(ctx context.Context) (backup.Data, error) {
	return backup.Snapshot(ctx, a.backend, a.now())
}

// Snapshots lists stored backups, newest first.
func (a *App) Snapshots(ctx context.Context) ([]backup.Data, error) {
	return backup.List(ctx, a.backend)
}
