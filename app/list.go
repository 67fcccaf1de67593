package app

import "github.com/amonks/quadrant/todo"

// List runs q over the current identity's todos. A query that already
// names an identity is left alone.
func (a *App) List(q todo.Query) ([]todo.Todo, error) {
	if q.Filter.IdentityID == "" {
		current, err := a.CurrentIdentity()
		if err != nil {
			return nil, err
		}
		q.Filter.IdentityID = current.ID
	}
	return q.Run(a.Todos.All()), nil
}

// View runs the query saved in the app state, over the recycle bin when
// trash is set.
func (a *App) View(trash bool) ([]todo.Todo, error) {
	q := a.State.Get().Query()
	q.IncludeDeleted = trash
	return a.List(q)
}

// Stats computes statistics over the current identity's todos.
func (a *App) Stats() (todo.Stats, error) {
	current, err := a.CurrentIdentity()
	if err != nil {
		return todo.Stats{}, err
	}
	var owned []todo.Todo
	for _, t := range a.Todos.All() {
		if t.IdentityID == current.ID {
			owned = append(owned, t)
		}
	}
	return todo.ComputeStats(owned, a.now()), nil
}
