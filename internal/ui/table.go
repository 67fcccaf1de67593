package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"golang.org/x/term"
)

const tableCellMaxWidth = 50
const tableCellEllipsis = "..."
const tableColumnGap = 2

// tableViewportWidth returns the terminal width, or 0 when stdout is not a
// terminal and tables may grow freely.
var tableViewportWidth = func() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// TableBuilder collects rows and renders a formatted table.
type TableBuilder struct {
	headers []string
	rows    [][]string
}

// NewTableBuilder returns a builder with preallocated rows.
func NewTableBuilder(headers []string, capacity int) *TableBuilder {
	return &TableBuilder{headers: headers, rows: make([][]string, 0, capacity)}
}

// AddRow appends a row to the table.
func (builder *TableBuilder) AddRow(row ...string) {
	builder.rows = append(builder.rows, row)
}

// Len returns the number of rows added so far.
func (builder *TableBuilder) Len() int {
	return len(builder.rows)
}

// String renders the table output.
func (builder *TableBuilder) String() string {
	return FormatTable(builder.headers, builder.rows)
}

// FormatTable renders headers and rows as a left-aligned table. When the
// terminal is narrower than the table, the widest columns are truncated
// until it fits.
func FormatTable(headers []string, rows [][]string) string {
	header := normalizeRow(headers)
	body := make([][]string, 0, len(rows))
	for _, row := range rows {
		body = append(body, normalizeRow(row))
	}

	widths := make([]int, len(header))
	for i, cell := range header {
		widths[i] = displayWidth(cell)
	}
	for _, row := range body {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			widths[i] = max(widths[i], displayWidth(cell))
		}
	}
	fitWidths(widths, tableViewportWidth())

	var builder strings.Builder
	writeRow := func(row []string) {
		for i := range widths {
			cell := ""
			if i < len(row) {
				cell = fitCell(row[i], widths[i])
			}
			builder.WriteString(cell)
			padding := widths[i] - displayWidth(cell)
			if i < len(widths)-1 {
				padding += tableColumnGap
			}
			builder.WriteString(strings.Repeat(" ", max(padding, 0)))
		}
		builder.WriteByte('\n')
	}

	writeRow(header)
	for _, row := range body {
		writeRow(row)
	}
	return builder.String()
}

// fitWidths shrinks the widest column one cell at a time until the table
// fits in viewport. A viewport of zero or less leaves widths alone.
func fitWidths(widths []int, viewport int) {
	if viewport <= 0 || len(widths) == 0 {
		return
	}
	total := func() int {
		sum := tableColumnGap * (len(widths) - 1)
		for _, w := range widths {
			sum += w
		}
		return sum
	}
	minWidth := len(tableCellEllipsis) + 1
	for total() > viewport {
		widest := 0
		for i, w := range widths {
			if w > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= minWidth {
			return
		}
		widths[widest]--
	}
}

func fitCell(cell string, width int) string {
	if displayWidth(cell) <= width {
		return cell
	}
	return truncate.StringWithTail(cell, uint(width), tableCellEllipsis)
}

// TruncateTableCell limits cell width while preserving visible characters.
func TruncateTableCell(value string) string {
	return fitCell(normalizeTableCell(value), tableCellMaxWidth)
}

func normalizeRow(row []string) []string {
	normalized := make([]string, len(row))
	for i, cell := range row {
		normalized[i] = normalizeTableCell(cell)
	}
	return normalized
}

func displayWidth(value string) int {
	return lipgloss.Width(value)
}

func normalizeTableCell(value string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(value)
}
