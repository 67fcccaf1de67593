package ui

import (
	"strings"
	"testing"
)

func noViewport(t *testing.T) {
	t.Helper()
	setViewport(t, 0)
}

func setViewport(t *testing.T, width int) {
	t.Helper()
	original := tableViewportWidth
	tableViewportWidth = func() int { return width }
	t.Cleanup(func() { tableViewportWidth = original })
}

func TestTruncateTableCellCountsRunes(t *testing.T) {
	value := strings.Repeat("a", tableCellMaxWidth-1) + "é"

	got := TruncateTableCell(value)

	if got != value {
		t.Fatalf("expected value to remain untruncated, got %q", got)
	}
}

func TestTruncateTableCellAddsEllipsis(t *testing.T) {
	value := strings.Repeat("a", tableCellMaxWidth+10)

	got := TruncateTableCell(value)

	if displayWidth(got) != tableCellMaxWidth {
		t.Fatalf("expected width %d, got %d", tableCellMaxWidth, displayWidth(got))
	}
	if !strings.HasSuffix(got, tableCellEllipsis) {
		t.Fatalf("expected ellipsis, got %q", got)
	}
}

func TestTruncateTableCellNormalizesLineBreaks(t *testing.T) {
	value := "Hello\nWorld\r\nAgain\tTab"

	got := TruncateTableCell(value)

	if got != "Hello World Again Tab" {
		t.Fatalf("expected line breaks to normalize, got %q", got)
	}
}

func TestTruncateTableCellIgnoresANSICodes(t *testing.T) {
	value := "\x1b[1m\x1b[36m" + strings.Repeat("a", tableCellMaxWidth) + "\x1b[0m"

	got := TruncateTableCell(value)

	if got != value {
		t.Fatalf("expected value to remain untruncated, got %q", got)
	}
}

func TestFormatTableNormalizesLineBreaks(t *testing.T) {
	noViewport(t)
	headers := []string{"COL"}
	rows := [][]string{{"Hello\nWorld\r\nAgain\tTab"}}

	got := FormatTable(headers, rows)

	expected := "COL                  \nHello World Again Tab\n"
	if got != expected {
		t.Fatalf("expected normalized table output, got %q", got)
	}
}

func TestFormatTableAlignsColumns(t *testing.T) {
	noViewport(t)
	builder := NewTableBuilder([]string{"ID", "TITLE"}, 2)
	builder.AddRow("abc", "Buy milk")
	builder.AddRow("d", "Call")

	got := builder.String()

	expected := "ID   TITLE   \nabc  Buy milk\nd    Call    \n"
	if got != expected {
		t.Fatalf("unexpected table:\n%q\nwant\n%q", got, expected)
	}
	if builder.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", builder.Len())
	}
}

func TestFormatTableUsesViewportWidth(t *testing.T) {
	setViewport(t, 10)

	headers := []string{"COL1", "COL2"}
	rows := [][]string{{"A", "B"}}

	got := FormatTable(headers, rows)

	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	for _, line := range lines {
		if width := displayWidth(line); width != 10 {
			t.Fatalf("expected table width 10, got %d in %q", width, line)
		}
	}
}

func TestFormatTableShrinksWidestColumn(t *testing.T) {
	setViewport(t, 20)

	headers := []string{"ID", "TITLE"}
	rows := [][]string{{"abc", strings.Repeat("x", 40)}}

	got := FormatTable(headers, rows)

	for _, line := range strings.Split(strings.TrimSuffix(got, "\n"), "\n") {
		if width := displayWidth(line); width != 20 {
			t.Fatalf("expected width 20, got %d in %q", width, line)
		}
	}
	if !strings.Contains(got, tableCellEllipsis) {
		t.Fatalf("expected truncated title, got %q", got)
	}
}
