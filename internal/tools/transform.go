package tools

import (
	"strings"
	"unicode"

	"github.com/dshills/scoop/internal/engine/lexer"
)

// StripComments removes every comment from lines and reports how many
// comment runs were dropped.
//
// A line whose only non-blank content was comment text is removed
// entirely; any other line loses the comment bytes and the whitespace left
// dangling before a trailing comment. Lines skipped by the analysis are
// kept as they are. The result always holds at least one line.
func StripComments(lines []string, a *lexer.Analysis) ([]string, int) {
	out := make([]string, 0, len(lines))
	removed := 0

	for i, line := range lines {
		spans := a.Spans(i, line)
		if len(spans) == 0 {
			if line == "" && insideComment(a.Line(i)) {
				continue
			}
			out = append(out, line)
			continue
		}

		var b strings.Builder
		comments := 0
		for _, sp := range spans {
			if sp.Kind == lexer.SpanComment {
				comments++
				continue
			}
			b.WriteString(line[sp.Start:sp.End])
		}
		if comments == 0 {
			out = append(out, line)
			continue
		}
		removed += comments

		kept := b.String()
		if strings.TrimSpace(kept) == "" {
			continue
		}
		if spans[len(spans)-1].Kind == lexer.SpanComment {
			kept = strings.TrimRightFunc(kept, unicode.IsSpace)
		}
		out = append(out, kept)
	}

	if len(out) == 0 {
		out = append(out, "")
	}
	return out, removed
}

func insideComment(st lexer.LineState) bool {
	k := st.Carry.Kind
	return k == lexer.CarryBlockComment || k == lexer.CarryMarkupComment
}

// TrimTrailingWhitespace strips trailing whitespace from every unprotected
// line and reports how many lines changed.
func TrimTrailingWhitespace(lines []string, a *lexer.Analysis) ([]string, int) {
	out := make([]string, len(lines))
	changed := 0
	for i, line := range lines {
		if a.Protected(i) {
			out[i] = line
			continue
		}
		out[i] = strings.TrimRightFunc(line, unicode.IsSpace)
		if len(out[i]) != len(line) {
			changed++
		}
	}
	return out, changed
}

// RemoveEmptyLines drops blank lines that are not protected and reports
// how many were dropped. The result always holds at least one line.
func RemoveEmptyLines(lines []string, a *lexer.Analysis) ([]string, int) {
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) != "" || a.Protected(i) {
			out = append(out, line)
		}
	}
	removed := len(lines) - len(out)
	if len(out) == 0 {
		out = append(out, "")
	}
	return out, removed
}

// UnindentLine removes one leading tab, or up to two leading spaces.
func UnindentLine(line string) (string, bool) {
	switch {
	case strings.HasPrefix(line, "\t"):
		return line[1:], true
	case strings.HasPrefix(line, "  "):
		return line[2:], true
	case strings.HasPrefix(line, " "):
		return line[1:], true
	}
	return line, false
}

// Unindent applies UnindentLine to lines[first:last+1], skipping protected
// lines. It returns the rewritten block and whether anything changed.
func Unindent(lines []string, a *lexer.Analysis, first, last int) ([]string, bool) {
	block := make([]string, 0, last-first+1)
	changed := false
	for i := first; i <= last && i < len(lines); i++ {
		if a.Protected(i) {
			block = append(block, lines[i])
			continue
		}
		line, ok := UnindentLine(lines[i])
		changed = changed || ok
		block = append(block, line)
	}
	return block, changed
}
