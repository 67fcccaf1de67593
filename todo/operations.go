package todo

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	internalstrings "github.com/amonks/quadrant/internal/strings"
)

// Draft holds the fields of a new todo.
type Draft struct {
	Title       string
	Description string
	CategoryID  string

	// Priority defaults to DefaultPriority when empty.
	Priority Priority

	DueDate    *time.Time
	RepeatRule *RepeatRule
	IdentityID string
	AssigneeID string

	// Status defaults to StatusPending when empty.
	Status Status
}

// Create validates draft, assigns a fresh ID and prepends the new todo.
func (s *Store) Create(ctx context.Context, draft Draft) (*Todo, error) {
	if draft.Priority == "" {
		draft.Priority = DefaultPriority
	}
	if draft.Status == "" {
		draft.Status = StatusPending
	}

	var created Todo
	err := s.apply(ctx, func(todos []Todo, now time.Time) (*mutation, error) {
		item := Todo{
			Title:       strings.TrimSpace(draft.Title),
			Description: draft.Description,
			CategoryID:  draft.CategoryID,
			Priority:    draft.Priority,
			DueDate:     cloneTime(draft.DueDate),
			Attachments: []Attachment{},
			Reminders:   []Reminder{},
			IdentityID:  draft.IdentityID,
			AssigneeID:  draft.AssigneeID,
			Status:      draft.Status,
			Comments:    []Comment{},
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if draft.RepeatRule != nil {
			rule := *draft.RepeatRule
			if rule.ID == "" {
				rule.ID = GenerateID("repeat", now)
			}
			item.RepeatRule = &rule
		}
		if err := ValidateTodo(&item); err != nil {
			return nil, err
		}

		item.ID = uniqueID(todos, item.Title, now)
		created = item

		m := &mutation{todos: append([]Todo{item}, todos...)}
		if item.HasDueDate() {
			m.events = append(m.events, Event{Kind: DueDateChanged, Todo: item.clone()})
		}
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func uniqueID(todos []Todo, title string, now time.Time) string {
	for {
		id := GenerateID(title, now)
		if indexOf(todos, id) < 0 {
			return id
		}
	}
}

// UpdateOptions configures fields to update on a todo.
// Nil pointers mean "don't update this field".
type UpdateOptions struct {
	Title       *string
	Description *string

	// CategoryID set to "" moves the todo to uncategorized.
	CategoryID *string

	Priority    *Priority
	DueDate     *time.Time
	IsCompleted *bool
	Status      *Status
	RepeatRule  *RepeatRule
	IdentityID  *string

	// AssigneeID set to "" clears the assignee.
	AssigneeID *string

	ClearDueDate    bool
	ClearRepeatRule bool
}

func (opts UpdateOptions) validate() error {
	if opts.Title != nil {
		if err := ValidateTitle(*opts.Title); err != nil {
			return err
		}
	}
	if opts.Description != nil {
		if err := ValidateDescription(*opts.Description); err != nil {
			return err
		}
	}
	if opts.Priority != nil {
		if err := ValidatePriority(*opts.Priority); err != nil {
			return err
		}
	}
	if opts.Status != nil && !opts.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, *opts.Status)
	}
	return ValidateRepeatRule(opts.RepeatRule)
}

// Update merges opts into the todo with the given id and stamps UpdatedAt.
// Updating an unknown id changes nothing and returns nil, nil.
func (s *Store) Update(ctx context.Context, id string, opts UpdateOptions) (*Todo, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	var updated *Todo
	err := s.apply(ctx, func(todos []Todo, now time.Time) (*mutation, error) {
		idx := indexOf(todos, id)
		if idx < 0 {
			return nil, nil
		}
		event, err := applyUpdate(todos, idx, opts, now)
		if err != nil {
			return nil, err
		}
		result := todos[idx].clone()
		updated = &result

		m := &mutation{todos: todos}
		if event != nil {
			m.events = append(m.events, *event)
		}
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// applyUpdate merges opts into todos[idx] in place. It returns a
// DueDateChanged event when the reminder needs to be recomputed.
func applyUpdate(todos []Todo, idx int, opts UpdateOptions, now time.Time) (*Event, error) {
	previous := todos[idx].clone()
	item := previous.clone()

	if opts.Title != nil {
		item.Title = strings.TrimSpace(*opts.Title)
	}
	if opts.Description != nil {
		item.Description = *opts.Description
	}
	if opts.CategoryID != nil {
		item.CategoryID = *opts.CategoryID
	}
	if opts.Priority != nil {
		item.Priority = *opts.Priority
	}
	if opts.ClearDueDate {
		item.DueDate = nil
	}
	if opts.DueDate != nil {
		item.DueDate = cloneTime(opts.DueDate)
	}
	if opts.IsCompleted != nil {
		item.IsCompleted = *opts.IsCompleted
	}
	if opts.Status != nil {
		item.Status = *opts.Status
	}
	if opts.ClearRepeatRule {
		item.RepeatRule = nil
	}
	if opts.RepeatRule != nil {
		rule := *opts.RepeatRule
		if rule.ID == "" {
			if item.RepeatRule != nil {
				rule.ID = item.RepeatRule.ID
			} else {
				rule.ID = GenerateID("repeat", now)
			}
		}
		item.RepeatRule = &rule
	}
	if opts.IdentityID != nil {
		item.IdentityID = *opts.IdentityID
	}
	if opts.AssigneeID != nil {
		item.AssigneeID = *opts.AssigneeID
	}
	item.UpdatedAt = now

	if err := ValidateTodo(&item); err != nil {
		return nil, fmt.Errorf("validate todo %s: %w", item.ID, err)
	}
	todos[idx] = item

	// Trashed todos had their reminder cancelled on the way in.
	if item.IsDeleted() {
		return nil, nil
	}
	if !previous.HasDueDate() && !item.HasDueDate() {
		return nil, nil
	}
	if !dueDateChanged(previous.DueDate, item.DueDate) &&
		previous.Title == item.Title &&
		previous.Description == item.Description {
		return nil, nil
	}
	return &Event{Kind: DueDateChanged, Todo: item.clone(), Previous: &previous}, nil
}

func dueDateChanged(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a != b
	}
	return !a.Equal(*b)
}

// ToggleComplete flips IsCompleted through the update path. Like Update,
// toggling an unknown id changes nothing and returns nil, nil.
func (s *Store) ToggleComplete(ctx context.Context, id string) (*Todo, error) {
	var updated *Todo
	err := s.apply(ctx, func(todos []Todo, now time.Time) (*mutation, error) {
		idx := indexOf(todos, id)
		if idx < 0 {
			return nil, nil
		}
		done := !todos[idx].IsCompleted
		event, err := applyUpdate(todos, idx, UpdateOptions{IsCompleted: &done}, now)
		if err != nil {
			return nil, err
		}
		result := todos[idx].clone()
		updated = &result

		m := &mutation{todos: todos}
		if event != nil {
			m.events = append(m.events, *event)
		}
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// BatchSetComplete sets IsCompleted on every listed todo and returns how
// many changed.
func (s *Store) BatchSetComplete(ctx context.Context, ids []string, done bool) (int, error) {
	targets := idSet(ids)
	count := 0
	err := s.apply(ctx, func(todos []Todo, now time.Time) (*mutation, error) {
		m := &mutation{todos: todos}
		for i := range todos {
			if !targets[todos[i].ID] || todos[i].IsCompleted == done {
				continue
			}
			event, err := applyUpdate(todos, i, UpdateOptions{IsCompleted: &done}, now)
			if err != nil {
				return nil, err
			}
			if event != nil {
				m.events = append(m.events, *event)
			}
			count++
		}
		if count == 0 {
			return nil, nil
		}
		return m, nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// SoftDelete moves one todo to the recycle bin.
func (s *Store) SoftDelete(ctx context.Context, id string) error {
	_, err := s.BatchSoftDelete(ctx, []string{id})
	return err
}

// BatchSoftDelete stamps DeletedAt on every listed active todo. Todos
// already in the recycle bin keep their original DeletedAt.
func (s *Store) BatchSoftDelete(ctx context.Context, ids []string) (int, error) {
	targets := idSet(ids)
	count := 0
	err := s.apply(ctx, func(todos []Todo, now time.Time) (*mutation, error) {
		m := &mutation{todos: todos}
		for i := range todos {
			if !targets[todos[i].ID] || todos[i].IsDeleted() {
				continue
			}
			deletedAt := now
			todos[i].DeletedAt = &deletedAt
			todos[i].UpdatedAt = now
			m.events = append(m.events, Event{Kind: ReminderCancelled, Todo: todos[i].clone()})
			count++
		}
		if count == 0 {
			return nil, nil
		}
		return m, nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Restore takes one todo out of the recycle bin.
func (s *Store) Restore(ctx context.Context, id string) error {
	_, err := s.BatchRestore(ctx, []string{id})
	return err
}

// BatchRestore clears DeletedAt on every listed soft-deleted todo.
// Reminders are not rescheduled unless the store was built with
// RescheduleOnRestore.
func (s *Store) BatchRestore(ctx context.Context, ids []string) (int, error) {
	targets := idSet(ids)
	count := 0
	err := s.apply(ctx, func(todos []Todo, now time.Time) (*mutation, error) {
		m := &mutation{todos: todos}
		for i := range todos {
			if !targets[todos[i].ID] || !todos[i].IsDeleted() {
				continue
			}
			previous := todos[i].clone()
			todos[i].DeletedAt = nil
			todos[i].UpdatedAt = now
			if s.rescheduleOnRestore && todos[i].HasDueDate() {
				m.events = append(m.events, Event{Kind: DueDateChanged, Todo: todos[i].clone(), Previous: &previous})
			}
			count++
		}
		if count == 0 {
			return nil, nil
		}
		return m, nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// PermanentDelete removes one todo from the collection.
func (s *Store) PermanentDelete(ctx context.Context, id string) error {
	_, err := s.BatchPermanentDelete(ctx, []string{id})
	return err
}

// BatchPermanentDelete removes every listed todo. This cannot be undone.
func (s *Store) BatchPermanentDelete(ctx context.Context, ids []string) (int, error) {
	targets := idSet(ids)
	count := 0
	err := s.apply(ctx, func(todos []Todo, now time.Time) (*mutation, error) {
		m := &mutation{todos: make([]Todo, 0, len(todos))}
		for _, t := range todos {
			if targets[t.ID] {
				m.events = append(m.events, Event{Kind: ReminderCancelled, Todo: t.clone()})
				count++
				continue
			}
			m.todos = append(m.todos, t)
		}
		if count == 0 {
			return nil, nil
		}
		return m, nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// EmptyRecycleBin permanently removes soft-deleted todos whose DeletedAt
// is at least RecycleRetentionDays old.
func (s *Store) EmptyRecycleBin(ctx context.Context) (int, error) {
	count := 0
	err := s.apply(ctx, func(todos []Todo, now time.Time) (*mutation, error) {
		cutoff := now.AddDate(0, 0, -RecycleRetentionDays)
		kept := make([]Todo, 0, len(todos))
		for _, t := range todos {
			if t.DeletedAt != nil && !t.DeletedAt.After(cutoff) {
				count++
				continue
			}
			kept = append(kept, t)
		}
		if count == 0 {
			return nil, nil
		}
		return &mutation{todos: kept}, nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Reorder moves the todo at position from to position to in stored order.
func (s *Store) Reorder(ctx context.Context, from, to int) error {
	return s.apply(ctx, func(todos []Todo, now time.Time) (*mutation, error) {
		if from < 0 || from >= len(todos) || to < 0 || to >= len(todos) {
			return nil, fmt.Errorf("%w: move %d to %d in %d todos", ErrIndexOutOfRange, from, to, len(todos))
		}
		if from == to {
			return nil, nil
		}
		item := todos[from]
		todos = slices.Delete(todos, from, from+1)
		todos = slices.Insert(todos, to, item)
		return &mutation{todos: todos}, nil
	})
}

// ReorderByID rebuilds the collection in the order of ids. Todos whose ID
// is absent from ids are dropped; unknown and repeated IDs are ignored.
func (s *Store) ReorderByID(ctx context.Context, ids []string) error {
	return s.apply(ctx, func(todos []Todo, now time.Time) (*mutation, error) {
		byID := make(map[string]Todo, len(todos))
		for _, t := range todos {
			byID[t.ID] = t
		}
		ordered := make([]Todo, 0, len(ids))
		for _, id := range ids {
			t, ok := byID[id]
			if !ok {
				continue
			}
			ordered = append(ordered, t)
			delete(byID, id)
		}
		return &mutation{todos: ordered}, nil
	})
}

// AddComment appends a comment to a todo.
func (s *Store) AddComment(ctx context.Context, id, content, authorID string) (*Comment, error) {
	if internalstrings.IsBlank(content) {
		return nil, ErrEmptyComment
	}

	var comment Comment
	err := s.apply(ctx, func(todos []Todo, now time.Time) (*mutation, error) {
		idx := indexOf(todos, id)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", ErrTodoNotFound, id)
		}
		comment = Comment{
			ID:        GenerateID(content, now),
			TodoID:    id,
			Content:   strings.TrimSpace(content),
			AuthorID:  authorID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		todos[idx].Comments = append(slices.Clone(todos[idx].Comments), comment)
		todos[idx].UpdatedAt = now
		return &mutation{todos: todos}, nil
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// AttachmentDraft describes a file to attach.
type AttachmentDraft struct {
	Name string
	URI  string
	Size int64
}

// AddAttachment validates and appends an attachment to a todo.
func (s *Store) AddAttachment(ctx context.Context, id string, draft AttachmentDraft) (*Attachment, error) {
	if err := ValidateFileSize(draft.Size); err != nil {
		return nil, err
	}
	kind, ok := AttachmentTypeFor(draft.Name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFileType, draft.Name)
	}

	var attachment Attachment
	err := s.apply(ctx, func(todos []Todo, now time.Time) (*mutation, error) {
		idx := indexOf(todos, id)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", ErrTodoNotFound, id)
		}
		attachment = Attachment{
			ID:        GenerateID(draft.Name, now),
			Name:      draft.Name,
			URI:       draft.URI,
			Type:      kind,
			Size:      draft.Size,
			CreatedAt: now,
		}
		todos[idx].Attachments = append(slices.Clone(todos[idx].Attachments), attachment)
		todos[idx].UpdatedAt = now
		return &mutation{todos: todos}, nil
	})
	if err != nil {
		return nil, err
	}
	return &attachment, nil
}

// ReassignIdentity moves every todo owned by from to to.
func (s *Store) ReassignIdentity(ctx context.Context, from, to string) (int, error) {
	count := 0
	err := s.apply(ctx, func(todos []Todo, now time.Time) (*mutation, error) {
		for i := range todos {
			if todos[i].IdentityID != from {
				continue
			}
			todos[i].IdentityID = to
			todos[i].UpdatedAt = now
			count++
		}
		if count == 0 {
			return nil, nil
		}
		return &mutation{todos: todos}, nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
