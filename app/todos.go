package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/amonks/quadrant/category"
	"github.com/amonks/quadrant/todo"
)

var (
	// ErrIdentityRequired is returned when a todo would be left without an owner.
	ErrIdentityRequired = errors.New("todo must belong to an identity")

	// ErrForeignCategory is returned when a todo's category belongs to
	// another identity.
	ErrForeignCategory = errors.New("category belongs to another identity")
)

// CreateTodo creates a todo after checking that its identity exists and
// that its category, if any, belongs to that identity. A draft without an
// identity goes to the current identity.
func (a *App) CreateTodo(ctx context.Context, draft todo.Draft) (*todo.Todo, error) {
	if draft.IdentityID == "" {
		current, err := a.CurrentIdentity()
		if err != nil {
			return nil, err
		}
		draft.IdentityID = current.ID
	}
	if err := a.checkTodoRefs(draft.IdentityID, draft.CategoryID); err != nil {
		return nil, err
	}
	return a.Todos.Create(ctx, draft)
}

// UpdateTodo applies opts to the todo with the given id. When opts moves
// the todo to another identity or category, the resulting pair is checked
// the same way CreateTodo checks it. Like todo.Store.Update, an unknown id
// is a no-op returning nil, nil.
func (a *App) UpdateTodo(ctx context.Context, id string, opts todo.UpdateOptions) (*todo.Todo, error) {
	if opts.IdentityID != nil || opts.CategoryID != nil {
		existing, err := a.Todos.Get(id)
		if errors.Is(err, todo.ErrTodoNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		identityID, categoryID := existing.IdentityID, existing.CategoryID
		if opts.IdentityID != nil {
			identityID = *opts.IdentityID
		}
		if opts.CategoryID != nil {
			categoryID = *opts.CategoryID
		}
		if err := a.checkTodoRefs(identityID, categoryID); err != nil {
			return nil, err
		}
	}
	return a.Todos.Update(ctx, id, opts)
}

func (a *App) checkTodoRefs(identityID, categoryID string) error {
	if identityID == "" {
		return ErrIdentityRequired
	}
	if _, err := a.Identities.Get(identityID); err != nil {
		return err
	}
	if categoryID == "" || categoryID == category.UncategorizedID {
		return nil
	}
	c, err := a.Categories.Get(categoryID)
	if err != nil {
		return err
	}
	if c.IdentityID != identityID {
		return fmt.Errorf("%w: %s is not a category of %s", ErrForeignCategory, c.Name, a.Identities.Name(identityID))
	}
	return nil
}
