package todo

import (
	"errors"
	"testing"
)

func TestStatus_IsValid(t *testing.T) {
	tests := []struct {
		status Status
		valid  bool
	}{
		{StatusPending, true},
		{StatusClaimed, true},
		{StatusInProgress, true},
		{StatusCompleted, true},
		{Status("in_progress"), false},
		{Status("invalid"), false},
		{Status(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsValid(); got != tt.valid {
				t.Errorf("Status(%q).IsValid() = %v, want %v", tt.status, got, tt.valid)
			}
		})
	}
}

func TestPriority_Rank(t *testing.T) {
	tests := []struct {
		priority Priority
		rank     int
	}{
		{PriorityUrgentImportant, 1},
		{PriorityImportantNotUrgent, 2},
		{PriorityUrgentNotImportant, 3},
		{PriorityNotUrgentNotImportant, 4},
		{Priority("high"), 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.priority), func(t *testing.T) {
			if got := tt.priority.Rank(); got != tt.rank {
				t.Errorf("Priority(%q).Rank() = %d, want %d", tt.priority, got, tt.rank)
			}
			if got := tt.priority.IsValid(); got != (tt.rank != 0) {
				t.Errorf("Priority(%q).IsValid() = %v", tt.priority, got)
			}
		})
	}
}

func TestValidPrioritiesInRankOrder(t *testing.T) {
	for i, p := range ValidPriorities() {
		if p.Rank() != i+1 {
			t.Errorf("ValidPriorities()[%d] = %s has rank %d", i, p, p.Rank())
		}
	}
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		input   string
		want    Priority
		wantErr bool
	}{
		{"urgent-important", PriorityUrgentImportant, false},
		{"  Important-Not-Urgent ", PriorityImportantNotUrgent, false},
		{"3", PriorityUrgentNotImportant, false},
		{"4", PriorityNotUrgentNotImportant, false},
		{"5", "", true},
		{"high", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePriority(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPriority) {
					t.Fatalf("expected ErrInvalidPriority, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	got, err := ParseStatus("IN_PROGRESS")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != StatusInProgress {
		t.Fatalf("expected in-progress, got %s", got)
	}

	if _, err := ParseStatus("done"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestSortFieldsAndOrders(t *testing.T) {
	for _, field := range ValidSortFields() {
		if !field.IsValid() {
			t.Errorf("expected %s to be valid", field)
		}
	}
	if SortBy("updatedAt").IsValid() {
		t.Error("expected updatedAt to be invalid")
	}
	if !SortAsc.IsValid() || !SortDesc.IsValid() || SortOrder("up").IsValid() {
		t.Error("unexpected sort order validity")
	}
}

func TestParseSortBy(t *testing.T) {
	tests := []struct {
		input   string
		want    SortBy
		wantErr bool
	}{
		{"priority", SortByPriority, false},
		{"dueDate", SortByDueDate, false},
		{"due-date", SortByDueDate, false},
		{" CREATEDAT ", SortByCreatedAt, false},
		{"title", SortByTitle, false},
		{"size", "", true},
	}

	for _, tt := range tests {
		got, err := ParseSortBy(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidSort) {
				t.Errorf("ParseSortBy(%q): expected ErrInvalidSort, got %v", tt.input, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseSortBy(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
		}
	}
}

func TestParseSortOrder(t *testing.T) {
	if got, err := ParseSortOrder("DESC"); err != nil || got != SortDesc {
		t.Fatalf("ParseSortOrder(DESC) = %q, %v", got, err)
	}
	if _, err := ParseSortOrder("up"); !errors.Is(err, ErrInvalidSort) {
		t.Fatalf("expected ErrInvalidSort, got %v", err)
	}
}
