// Package app wires quadrant's stores to one gateway, scheduler and logger
// and implements the operations that span several stores.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/amonks/quadrant/category"
	"github.com/amonks/quadrant/identity"
	"github.com/amonks/quadrant/internal/config"
	"github.com/amonks/quadrant/internal/logging"
	"github.com/amonks/quadrant/internal/paths"
	"github.com/amonks/quadrant/internal/state"
	"github.com/amonks/quadrant/notify"
	"github.com/amonks/quadrant/storage"
	"github.com/amonks/quadrant/todo"
	"golang.org/x/sync/errgroup"
)

// Options configures Open.
type Options struct {
	// Config defaults to config.Default().
	Config *config.Config

	// Logger defaults to a logger built from Config.Log writing to stderr.
	Logger *slog.Logger

	// Now defaults to time.Now.
	Now func() time.Time

	// Backend overrides the backend selected by Config.Storage.
	Backend storage.Backend

	// Scheduler overrides the alert spool selected by Config.Reminders.
	Scheduler notify.Scheduler
}

// App holds every store over a single backend.
type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	Todos      *todo.Store
	Categories *category.Store
	Identities *identity.Store
	State      *state.Store
	Scheduler  notify.Scheduler
	Reminders  *notify.Reminders

	backend storage.Backend
	now     func() time.Time
}

// Open builds the stores, loads every collection and subscribes reminder
// synchronization to the todo store. It does not create the default
// identity; call Bootstrap for that.
func Open(ctx context.Context, opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.New(os.Stderr, cfg.Log)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	backend := opts.Backend
	if backend == nil {
		var err error
		backend, err = storage.Open(ctx, cfg.Storage)
		if err != nil {
			logger.Error("open storage", "backend", cfg.Storage.Backend, "error", err)
			return nil, err
		}
	}

	scheduler := opts.Scheduler
	if scheduler == nil {
		spoolPath, err := paths.ResolveWithDefault(cfg.Reminders.Spool, paths.DefaultSpoolPath)
		if err != nil {
			backend.Close()
			return nil, fmt.Errorf("resolve alert spool: %w", err)
		}
		scheduler = notify.NewSpool(spoolPath, cfg.Reminders.Enabled)
	}

	a := &App{
		Config: cfg,
		Logger: logger,
		Todos: todo.NewStore(backend, todo.Options{
			Logger:              logger,
			Now:                 now,
			RescheduleOnRestore: cfg.Reminders.RescheduleOnRestore,
		}),
		Categories: category.NewStore(backend, category.Options{Logger: logger, Now: now}),
		Identities: identity.NewStore(backend, identity.Options{Logger: logger, Now: now}),
		State:      state.NewStore(backend, state.Options{Logger: logger, Now: now}),
		Scheduler:  scheduler,
		Reminders: notify.NewReminders(scheduler, notify.ReminderOptions{
			LeadTime: cfg.Reminders.LeadTime,
			Grace:    cfg.Reminders.Grace,
			Logger:   logger,
			Now:      now,
		}),
		backend: backend,
		now:     now,
	}

	if err := a.Load(ctx); err != nil {
		backend.Close()
		return nil, err
	}
	a.Todos.Subscribe(a.Reminders.Handle)
	return a, nil
}

// Load reads every collection concurrently.
func (a *App) Load(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.Todos.Load(gctx) })
	g.Go(func() error { return a.Categories.Load(gctx) })
	g.Go(func() error { return a.Identities.Load(gctx) })
	g.Go(func() error { return a.State.Load(gctx) })
	return g.Wait()
}

// Gateway returns the backend the stores write through.
func (a *App) Gateway() storage.Gateway {
	return a.backend
}

// Now returns the app clock's current time.
func (a *App) Now() time.Time {
	return a.now()
}

// Close releases the backend.
func (a *App) Close() error {
	return a.backend.Close()
}

// Bootstrap makes sure a default identity exists and that the current
// identity points at a known identity, falling back to the default.
func (a *App) Bootstrap(ctx context.Context) (identity.Identity, error) {
	def, created, err := a.Identities.EnsureDefault(ctx)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("ensure default identity: %w", err)
	}
	if created {
		a.Logger.Info("default identity ready", "identity", def.ID)
	}

	current := a.State.Get().CurrentIdentityID
	if current != "" {
		if existing, err := a.Identities.Get(current); err == nil {
			return existing, nil
		}
	}
	if err := a.State.SetCurrentIdentity(ctx, def.ID); err != nil {
		return identity.Identity{}, err
	}
	return def, nil
}

// CurrentIdentity returns the identity the views are scoped to.
func (a *App) CurrentIdentity() (identity.Identity, error) {
	id := a.State.Get().CurrentIdentityID
	if id == "" {
		return a.Identities.Default()
	}
	return a.Identities.Get(id)
}

// DeleteIdentity removes a non-default identity. Its todos, categories and
// roles move to the default identity first, and the current identity
// switches to the default if it was the removed one. It returns the
// default identity's id.
func (a *App) DeleteIdentity(ctx context.Context, id string) (string, error) {
	fallbackID, err := a.Identities.Fallback(id)
	if err != nil {
		return "", err
	}

	if _, err := a.Todos.ReassignIdentity(ctx, id, fallbackID); err != nil {
		return "", fmt.Errorf("move todos: %w", err)
	}
	if _, err := a.Categories.ReassignIdentity(ctx, id, fallbackID); err != nil {
		return "", fmt.Errorf("move categories: %w", err)
	}
	if _, err := a.Identities.ReassignRoles(ctx, id, fallbackID); err != nil {
		return "", fmt.Errorf("move roles: %w", err)
	}
	if a.State.Get().CurrentIdentityID == id {
		if err := a.State.SetCurrentIdentity(ctx, fallbackID); err != nil {
			return "", err
		}
	}

	if _, err := a.Identities.Delete(ctx, id); err != nil {
		return "", err
	}
	a.Logger.Info("identity deleted", "identity", id, "fallback", fallbackID)
	return fallbackID, nil
}
