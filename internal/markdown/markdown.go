// Package markdown renders todo descriptions and comments for the terminal.
package markdown

import (
	"strings"
	"sync"

	internalstrings "github.com/amonks/quadrant/internal/strings"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/muesli/reflow/wordwrap"
)

type termRenderer interface {
	Render(string) (string, error)
}

var (
	rendererMu sync.Mutex
	renderers  = map[int]termRenderer{}
)

// Render formats markdown text for terminal output at the given width,
// indenting every line by indent spaces. Blank input renders to nil.
func Render(width, indent int, input []byte) []byte {
	value := normalize(input)
	if value == "" {
		return nil
	}
	renderWidth := max(width-max(indent, 0), 1)

	rendered := value
	if renderer := markdownRenderer(renderWidth); renderer != nil {
		if formatted, err := renderer.Render(value); err == nil {
			rendered = formatted
		}
	}
	return finish(rendered, indent)
}

// SafeRender is Render that falls back to the input when the renderer
// panics on malformed markdown.
func SafeRender(width, indent int, input []byte) (out []byte) {
	defer func() {
		if recover() != nil {
			out = finish(normalize(input), indent)
		}
	}()
	return Render(width, indent, input)
}

// Wrap word-wraps plain text, such as a comment, and indents it.
func Wrap(width, indent int, text string) string {
	value := normalize([]byte(text))
	if value == "" {
		return ""
	}
	wrapped := wordwrap.String(value, max(width-max(indent, 0), 1))
	return internalstrings.IndentBlock(wrapped, indent)
}

func normalize(input []byte) string {
	value := internalstrings.NormalizeNewlines(string(input))
	value = internalstrings.TrimTrailingNewlines(value)
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return value
}

func finish(rendered string, indent int) []byte {
	rendered = internalstrings.TrimTrailingNewlines(rendered)
	if strings.TrimSpace(rendered) == "" {
		return nil
	}
	return []byte(internalstrings.IndentBlock(rendered, indent))
}

func markdownRenderer(width int) termRenderer {
	rendererMu.Lock()
	defer rendererMu.Unlock()
	if cached, ok := renderers[width]; ok {
		return cached
	}
	style := styles.ASCIIStyleConfig
	style.Document.Margin = uintPtr(0)
	style.Item.BlockPrefix = "- "
	created, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	renderers[width] = created
	return created
}

func uintPtr(v uint) *uint { return &v }
