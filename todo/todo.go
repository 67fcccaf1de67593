package todo

import "time"

// Todo represents a single task.
type Todo struct {
	// ID is a unique 8-char identifier.
	ID string `json:"id"`

	// Title is the short summary of the todo (max 50 chars).
	Title string `json:"title"`

	// Description provides additional context about the todo.
	Description string `json:"description,omitempty"`

	// CategoryID references a category. Empty means uncategorized.
	CategoryID string `json:"categoryId,omitempty"`

	Priority Priority `json:"priority"`

	DueDate *time.Time `json:"dueDate,omitempty"`

	IsCompleted bool `json:"isCompleted"`

	Attachments []Attachment `json:"attachments"`

	Reminders []Reminder `json:"reminders"`

	RepeatRule *RepeatRule `json:"repeatRule,omitempty"`

	// IdentityID is the owning identity.
	IdentityID string `json:"identityId"`

	// AssigneeID is an optional role the todo is assigned to.
	AssigneeID string `json:"assigneeId,omitempty"`

	Status Status `json:"status"`

	Comments []Comment `json:"comments"`

	CreatedAt time.Time `json:"createdAt"`

	UpdatedAt time.Time `json:"updatedAt"`

	// DeletedAt is when the todo was moved to the recycle bin (nil if active).
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// IsDeleted reports whether the todo is in the recycle bin.
func (t Todo) IsDeleted() bool {
	return t.DeletedAt != nil
}

// HasDueDate reports whether the todo carries a due date.
func (t Todo) HasDueDate() bool {
	return t.DueDate != nil
}

// Attachment is a file reference stored with a todo.
type Attachment struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	URI       string         `json:"uri"`
	Type      AttachmentType `json:"type"`
	Size      int64          `json:"size"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Reminder records an alert attached to a todo.
type Reminder struct {
	ID        string    `json:"id"`
	TodoID    string    `json:"todoId"`
	Time      time.Time `json:"time"`
	IsEnabled bool      `json:"isEnabled"`
	CreatedAt time.Time `json:"createdAt"`
}

// RepeatRule describes how a todo recurs.
type RepeatRule struct {
	ID        string     `json:"id"`
	Type      RepeatType `json:"type"`
	Interval  int        `json:"interval"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	IsEnabled bool       `json:"isEnabled"`
}

// Comment is a note left on a todo.
type Comment struct {
	ID        string    `json:"id"`
	TodoID    string    `json:"todoId"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
