// Package todo implements quadrant's task records.
//
// Todos live in a single collection that is rewritten wholesale on every
// change. The package is split in three:
//   - the record types and their validation
//   - pure query functions (Filter, Sort, Search, ComputeStats) over a slice
//   - Store, which serializes mutations and writes through a storage.Gateway
package todo

import (
	"fmt"
	"strings"
)

// Priority is one of the four Eisenhower quadrants.
type Priority string

const (
	PriorityUrgentImportant       Priority = "urgent-important"
	PriorityImportantNotUrgent    Priority = "important-not-urgent"
	PriorityUrgentNotImportant    Priority = "urgent-not-important"
	PriorityNotUrgentNotImportant Priority = "not-urgent-not-important"
)

// DefaultPriority is used when a draft has no priority.
const DefaultPriority = PriorityNotUrgentNotImportant

// ValidPriorities returns all priorities in rank order.
func ValidPriorities() []Priority {
	return []Priority{
		PriorityUrgentImportant,
		PriorityImportantNotUrgent,
		PriorityUrgentNotImportant,
		PriorityNotUrgentNotImportant,
	}
}

// IsValid returns true if the priority is a known value.
func (p Priority) IsValid() bool {
	return p.Rank() != 0
}

// Rank returns the fixed sort rank, 1 (urgent-important) through 4.
// Unknown priorities rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgentImportant:
		return 1
	case PriorityImportantNotUrgent:
		return 2
	case PriorityUrgentNotImportant:
		return 3
	case PriorityNotUrgentNotImportant:
		return 4
	default:
		return 0
	}
}

// Label returns a short human-readable name.
func (p Priority) Label() string {
	switch p {
	case PriorityUrgentImportant:
		return "urgent & important"
	case PriorityImportantNotUrgent:
		return "important"
	case PriorityUrgentNotImportant:
		return "urgent"
	case PriorityNotUrgentNotImportant:
		return "later"
	default:
		return "unknown"
	}
}

// PriorityPtr returns a pointer to the provided priority.
func PriorityPtr(priority Priority) *Priority {
	return &priority
}

// Status is the workflow state of a todo.
type Status string

const (
	StatusPending    Status = "pending"
	StatusClaimed    Status = "claimed"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// ValidStatuses returns all valid status values.
func ValidStatuses() []Status {
	return []Status{StatusPending, StatusClaimed, StatusInProgress, StatusCompleted}
}

// IsValid returns true if the status is a known valid value.
func (s Status) IsValid() bool {
	for _, valid := range ValidStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// AttachmentType distinguishes images from documents.
type AttachmentType string

const (
	AttachmentImage    AttachmentType = "image"
	AttachmentDocument AttachmentType = "document"
)

// RepeatType is the unit of a repeat rule.
type RepeatType string

const (
	RepeatDaily   RepeatType = "daily"
	RepeatWeekly  RepeatType = "weekly"
	RepeatMonthly RepeatType = "monthly"
	RepeatYearly  RepeatType = "yearly"
)

// ValidRepeatTypes returns all valid repeat types.
func ValidRepeatTypes() []RepeatType {
	return []RepeatType{RepeatDaily, RepeatWeekly, RepeatMonthly, RepeatYearly}
}

// IsValid returns true if the repeat type is a known value.
func (r RepeatType) IsValid() bool {
	for _, valid := range ValidRepeatTypes() {
		if r == valid {
			return true
		}
	}
	return false
}

// SortBy names the field a listing is ordered by.
type SortBy string

const (
	SortByPriority  SortBy = "priority"
	SortByDueDate   SortBy = "dueDate"
	SortByCreatedAt SortBy = "createdAt"
	SortByCompleted SortBy = "completed"
	SortByTitle     SortBy = "title"
)

// ValidSortFields returns all sort fields.
func ValidSortFields() []SortBy {
	return []SortBy{SortByPriority, SortByDueDate, SortByCreatedAt, SortByCompleted, SortByTitle}
}

// IsValid returns true if the sort field is known.
func (s SortBy) IsValid() bool {
	for _, valid := range ValidSortFields() {
		if s == valid {
			return true
		}
	}
	return false
}

// SortOrder is asc or desc.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// IsValid returns true if the order is asc or desc.
func (o SortOrder) IsValid() bool {
	return o == SortAsc || o == SortDesc
}

const (
	// MaxTitleLength is the maximum title length in characters.
	MaxTitleLength = 50

	// MaxDescriptionLength is the maximum description length in characters.
	MaxDescriptionLength = 500

	// MaxAttachmentSize is the largest accepted attachment, in bytes.
	MaxAttachmentSize = 10 * 1024 * 1024

	// RecycleRetentionDays is how long soft-deleted todos survive EmptyRecycleBin.
	RecycleRetentionDays = 7
)

var imageExtensions = []string{"jpg", "jpeg", "png", "gif", "webp"}

var documentExtensions = []string{"pdf", "txt", "doc", "docx", "xls", "xlsx", "ppt", "pptx"}

// ParsePriority accepts a priority name or its rank digit.
func ParsePriority(input string) (Priority, error) {
	normalized := Priority(normalizeInput(input))
	if normalized.IsValid() {
		return normalized, nil
	}
	for _, p := range ValidPriorities() {
		if fmt.Sprint(p.Rank()) == string(normalized) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPriority, input)
}

// ParseStatus accepts a status name. Underscores are read as dashes.
func ParseStatus(input string) (Status, error) {
	normalized := Status(normalizeDashes(normalizeInput(input)))
	if !normalized.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, input)
	}
	return normalized, nil
}

// ParseSortBy accepts a sort field name case-insensitively, with or without
// dashes ("due-date" and "dueDate" both work).
func ParseSortBy(input string) (SortBy, error) {
	normalized := strings.ReplaceAll(normalizeInput(input), "-", "")
	for _, field := range ValidSortFields() {
		if strings.ToLower(string(field)) == normalized {
			return field, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSort, input)
}

// ParseSortOrder accepts asc or desc.
func ParseSortOrder(input string) (SortOrder, error) {
	order := SortOrder(normalizeInput(input))
	if !order.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSort, input)
	}
	return order, nil
}
