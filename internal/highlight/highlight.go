// Package highlight renders classified documents through chroma
// formatters and styles.
//
// Tokens come from the engine's lexical tracker rather than a chroma lexer,
// so the colors follow the same language switching the editor uses
// (script and style blocks embedded in markup).
package highlight

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/dshills/scoop/internal/engine"
)

var (
	// ErrUnknownStyle indicates no chroma style has the requested name.
	ErrUnknownStyle = errors.New("unknown style")

	// ErrUnknownFormatter indicates no chroma formatter has the requested name.
	ErrUnknownFormatter = errors.New("unknown formatter")
)

// Source is a document that can be rendered. *engine.Engine implements it.
type Source interface {
	LineCount() int
	Tokens(line int) []engine.Token
}

// Highlighter pairs a style with a formatter.
type Highlighter struct {
	style     *chroma.Style
	formatter chroma.Formatter
}

// New creates a highlighter from registered chroma names.
func New(styleName, formatterName string) (*Highlighter, error) {
	style, ok := styles.Registry[styleName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStyle, styleName)
	}
	formatter, ok := formatters.Registry[formatterName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormatter, formatterName)
	}
	return &Highlighter{style: style, formatter: formatter}, nil
}

// Render writes the whole document.
func (h *Highlighter) Render(w io.Writer, src Source) error {
	return h.RenderLines(w, src, 0, src.LineCount()-1)
}

// RenderLines writes lines first through last inclusive, clamped to the
// document.
func (h *Highlighter) RenderLines(w io.Writer, src Source, first, last int) error {
	tokens := Collect(src, first, last)
	if err := h.formatter.Format(w, h.style, chroma.Literator(tokens...)); err != nil {
		return fmt.Errorf("formatting: %w", err)
	}
	return nil
}

// Collect converts lines first through last into chroma tokens, with a
// newline token between lines.
func Collect(src Source, first, last int) []chroma.Token {
	first = max(first, 0)
	last = min(last, src.LineCount()-1)

	var tokens []chroma.Token
	for i := first; i <= last; i++ {
		if i > first {
			tokens = append(tokens, chroma.Token{Type: chroma.TextWhitespace, Value: "\n"})
		}
		for _, tok := range src.Tokens(i) {
			tokens = append(tokens, tok.Chroma())
		}
	}
	return tokens
}

// Styles returns the registered style names, sorted.
func Styles() []string {
	return sortedKeys(styles.Registry)
}

// Formatters returns the registered formatter names, sorted.
func Formatters() []string {
	return sortedKeys(formatters.Registry)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
