package editor

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/amonks/quadrant/internal/ui"
	"github.com/amonks/quadrant/internal/validation"
	"github.com/amonks/quadrant/todo"
)

// TodoData represents the data used to render the TOML template.
type TodoData struct {
	// IsUpdate is true when editing an existing todo.
	IsUpdate bool
	// ID is the todo ID (only for updates).
	ID string
	Title    string
	Priority todo.Priority
	// Category is the category name, empty for uncategorized.
	Category string
	// Categories lists the names offered in the template comment.
	Categories []string
	// Due is formatted with ui.DateLayout, empty when unset.
	Due string
	// Status is the todo status (only for updates).
	Status      todo.Status
	Description string
}

// DefaultCreateData returns TodoData with default values for creating a new todo.
func DefaultCreateData(categories []string) TodoData {
	return TodoData{
		Priority:   todo.DefaultPriority,
		Categories: categories,
	}
}

// DataFromTodo creates TodoData from an existing todo for editing.
func DataFromTodo(t todo.Todo, categoryName string, categories []string) TodoData {
	data := TodoData{
		IsUpdate:    true,
		ID:          t.ID,
		Title:       t.Title,
		Priority:    t.Priority,
		Category:    categoryName,
		Categories:  categories,
		Status:      t.Status,
		Description: t.Description,
	}
	if t.DueDate != nil {
		data.Due = t.DueDate.Local().Format(ui.DateLayout)
	}
	return data
}

var todoTemplate = template.Must(template.New("todo").Funcs(template.FuncMap{
	"join": func(values []string) string {
		if len(values) == 0 {
			return "none yet"
		}
		return strings.Join(values, ", ")
	},
	"priorities": func() string { return validation.FormatValidValues(todo.ValidPriorities()) },
	"statuses":   func() string { return validation.FormatValidValues(todo.ValidStatuses()) },
}).Parse(`title = {{ printf "%q" .Title }}
priority = {{ printf "%q" .Priority }} # {{ priorities }}
category = {{ printf "%q" .Category }} # {{ join .Categories }}
due = {{ printf "%q" .Due }} # YYYY-MM-DD HH:MM, today, tomorrow, +2h, +3d
{{- if .IsUpdate }}
status = {{ printf "%q" .Status }} # {{ statuses }}
{{- end }}
---
{{ .Description }}
`))

// RenderTodoTOML renders the todo data as a TOML string for editing.
func RenderTodoTOML(data TodoData) (string, error) {
	var buf bytes.Buffer
	if err := todoTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// ParsedTodo represents the parsed result from the TOML editor output.
type ParsedTodo struct {
	Title    string
	Priority todo.Priority
	// Category is the raw category reference typed by the user.
	Category string
	Due      string
	// DueDate is Due parsed, nil when empty.
	DueDate *time.Time
	// Status is nil when the template had no status line.
	Status      *todo.Status
	Description string
}

// ParseTodoTOML parses and validates the content from the editor. Relative
// due dates are resolved against now.
func ParseTodoTOML(content string, now time.Time) (*ParsedTodo, error) {
	frontmatter, body := splitFrontmatter(content)

	var raw struct {
		Title    string  `toml:"title"`
		Priority string  `toml:"priority"`
		Category string  `toml:"category"`
		Due      string  `toml:"due"`
		Status   *string `toml:"status"`
	}
	if _, err := toml.Decode(frontmatter, &raw); err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}

	parsed := ParsedTodo{
		Title:       strings.TrimSpace(raw.Title),
		Category:    strings.TrimSpace(raw.Category),
		Due:         strings.TrimSpace(raw.Due),
		Description: strings.TrimSpace(body),
	}

	if err := todo.ValidateTitle(parsed.Title); err != nil {
		return nil, err
	}
	if err := todo.ValidateDescription(parsed.Description); err != nil {
		return nil, err
	}

	parsed.Priority = todo.DefaultPriority
	if strings.TrimSpace(raw.Priority) != "" {
		priority, err := todo.ParsePriority(raw.Priority)
		if err != nil {
			return nil, validation.FormatInvalidValueError(todo.ErrInvalidPriority, todo.Priority(raw.Priority), todo.ValidPriorities())
		}
		parsed.Priority = priority
	}

	if raw.Status != nil {
		status, err := todo.ParseStatus(*raw.Status)
		if err != nil {
			return nil, validation.FormatInvalidValueError(todo.ErrInvalidStatus, todo.Status(*raw.Status), todo.ValidStatuses())
		}
		parsed.Status = &status
	}

	due, err := ui.ParseDate(parsed.Due, now)
	if err != nil {
		return nil, err
	}
	parsed.DueDate = due

	return &parsed, nil
}

func splitFrontmatter(content string) (string, string) {
	content = strings.TrimLeft(content, "\n")
	if content == "" {
		return "", ""
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "---" {
			return strings.Join(lines[:i], "\n"), strings.Join(lines[i+1:], "\n")
		}
	}
	return content, ""
}

// EditTodo opens the editor with pre-populated data and returns the parsed
// result.
func EditTodo(data TodoData, now time.Time) (*ParsedTodo, error) {
	content, err := RenderTodoTOML(data)
	if err != nil {
		return nil, err
	}

	tmpfile, err := os.CreateTemp("", "quad-todo-*.md")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpfile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpfile.WriteString(content); err != nil {
		tmpfile.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpfile.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	if err := Edit(tmpPath); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read edited file: %w", err)
	}

	return ParseTodoTOML(string(edited), now)
}

// ToDraft converts a ParsedTodo to a todo.Draft. The category reference is
// resolved by the caller.
func (p *ParsedTodo) ToDraft(identityID, categoryID string) todo.Draft {
	draft := todo.Draft{
		Title:       p.Title,
		Description: p.Description,
		CategoryID:  categoryID,
		Priority:    p.Priority,
		DueDate:     p.DueDate,
		IdentityID:  identityID,
	}
	if p.Status != nil {
		draft.Status = *p.Status
	}
	return draft
}

// ToUpdateOptions converts a ParsedTodo to todo.UpdateOptions. Every field
// in the template is applied, so an emptied due date clears it.
func (p *ParsedTodo) ToUpdateOptions(categoryID string) todo.UpdateOptions {
	opts := todo.UpdateOptions{
		Title:       &p.Title,
		Description: &p.Description,
		CategoryID:  &categoryID,
		Priority:    &p.Priority,
		Status:      p.Status,
	}
	if p.DueDate != nil {
		opts.DueDate = p.DueDate
	} else {
		opts.ClearDueDate = true
	}
	return opts
}
