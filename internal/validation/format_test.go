package validation

import (
	"errors"
	"testing"

	"github.com/amonks/quadrant/category"
	"github.com/amonks/quadrant/todo"
)

func TestFormatValidValues(t *testing.T) {
	got := FormatValidValues([]todo.SortOrder{todo.SortAsc, todo.SortDesc})
	want := "asc, desc"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFormatValidValuesEmpty(t *testing.T) {
	if got := FormatValidValues([]category.Color(nil)); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestFormatInvalidValueError(t *testing.T) {
	err := FormatInvalidValueError(todo.ErrInvalidStatus, todo.Status("blocked"), todo.ValidStatuses())
	if !errors.Is(err, todo.ErrInvalidStatus) {
		t.Fatalf("expected error to wrap %v", todo.ErrInvalidStatus)
	}

	want := `invalid status: "blocked" (valid: pending, claimed, in-progress, completed)`
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}
