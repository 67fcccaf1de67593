package todo

import (
	"errors"
	"fmt"
	"slices"
	"unicode/utf8"

	internalstrings "github.com/amonks/quadrant/internal/strings"
)

var (
	// ErrEmptyTitle is returned when a todo title is blank.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrTitleTooLong is returned when a todo title exceeds MaxTitleLength.
	ErrTitleTooLong = errors.New("title exceeds maximum length")

	// ErrDescriptionTooLong is returned when a description exceeds MaxDescriptionLength.
	ErrDescriptionTooLong = errors.New("description exceeds maximum length")

	// ErrInvalidPriority is returned when an unknown priority is provided.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrInvalidStatus is returned when an invalid status is provided.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidRepeatRule is returned when a repeat rule has an unknown type or an interval below 1.
	ErrInvalidRepeatRule = errors.New("invalid repeat rule")

	// ErrAttachmentTooLarge is returned when an attachment exceeds MaxAttachmentSize.
	ErrAttachmentTooLarge = errors.New("attachment exceeds 10MB")

	// ErrUnsupportedFileType is returned when an attachment extension is not allowed.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrEmptyComment is returned when a comment has no content.
	ErrEmptyComment = errors.New("comment cannot be empty")

	// ErrTodoNotFound is returned when a todo with the given ID doesn't exist.
	ErrTodoNotFound = errors.New("todo not found")

	// ErrAmbiguousTodoIDPrefix is returned when an ID prefix matches multiple todos.
	ErrAmbiguousTodoIDPrefix = errors.New("ambiguous todo ID prefix")

	// ErrInvalidSort is returned for an unknown sort field or order.
	ErrInvalidSort = errors.New("invalid sort")

	// ErrIndexOutOfRange is returned when Reorder is given a position outside the collection.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrNotLoaded is returned when a Store is used before Load.
	ErrNotLoaded = errors.New("todo store not loaded")
)

// ValidateTitle checks that the title is non-blank and short enough.
func ValidateTitle(title string) error {
	if internalstrings.IsBlank(title) {
		return ErrEmptyTitle
	}
	if n := utf8.RuneCountInString(title); n > MaxTitleLength {
		return fmt.Errorf("%w: %d > %d", ErrTitleTooLong, n, MaxTitleLength)
	}
	return nil
}

// ValidateDescription checks the description length.
func ValidateDescription(description string) error {
	if n := utf8.RuneCountInString(description); n > MaxDescriptionLength {
		return fmt.Errorf("%w: %d > %d", ErrDescriptionTooLong, n, MaxDescriptionLength)
	}
	return nil
}

// ValidatePriority checks if the priority is one of the four quadrants.
func ValidatePriority(priority Priority) error {
	if !priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, priority)
	}
	return nil
}

// ValidateRepeatRule checks a repeat rule. A nil rule is valid.
func ValidateRepeatRule(rule *RepeatRule) error {
	if rule == nil {
		return nil
	}
	if !rule.Type.IsValid() {
		return fmt.Errorf("%w: type %q", ErrInvalidRepeatRule, rule.Type)
	}
	if rule.Interval < 1 {
		return fmt.Errorf("%w: interval %d", ErrInvalidRepeatRule, rule.Interval)
	}
	return nil
}

// ValidateFileSize checks an attachment size.
func ValidateFileSize(size int64) error {
	if size > MaxAttachmentSize {
		return fmt.Errorf("%w: %d bytes", ErrAttachmentTooLarge, size)
	}
	return nil
}

// ValidateFileType checks the attachment's extension against the allowed list.
func ValidateFileType(name string) error {
	if _, ok := AttachmentTypeFor(name); !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedFileType, name)
	}
	return nil
}

// AttachmentTypeFor classifies a file name by extension.
func AttachmentTypeFor(name string) (AttachmentType, bool) {
	ext := extension(name)
	switch {
	case slices.Contains(imageExtensions, ext):
		return AttachmentImage, true
	case slices.Contains(documentExtensions, ext):
		return AttachmentDocument, true
	default:
		return "", false
	}
}

// ValidateTodo checks every user-editable field of a todo.
func ValidateTodo(t *Todo) error {
	if err := ValidateTitle(t.Title); err != nil {
		return err
	}
	if err := ValidateDescription(t.Description); err != nil {
		return err
	}
	if err := ValidatePriority(t.Priority); err != nil {
		return err
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	if err := ValidateRepeatRule(t.RepeatRule); err != nil {
		return err
	}
	for _, attachment := range t.Attachments {
		if err := ValidateFileSize(attachment.Size); err != nil {
			return err
		}
		if err := ValidateFileType(attachment.Name); err != nil {
			return err
		}
	}
	return nil
}
