package tools

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dshills/scoop/internal/engine/buffer"
	"github.com/dshills/scoop/internal/engine/column"
	"github.com/dshills/scoop/internal/engine/lexer"
)

// Target selects what CycleNext looks for.
type Target uint8

const (
	// TargetComment finds comment openers.
	TargetComment Target = iota
	// TargetFunction finds function, class and method declarations in script.
	TargetFunction
)

// String returns the target name.
func (t Target) String() string {
	switch t {
	case TargetComment:
		return "comment"
	case TargetFunction:
		return "function"
	default:
		return "unknown"
	}
}

// ParseTarget parses "comment" or "function".
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(s) {
	case "comment", "comments":
		return TargetComment, nil
	case "function", "functions", "func":
		return TargetFunction, nil
	}
	return 0, fmt.Errorf("unknown cycle target %q", s)
}

// Jump is a navigation result. When Select is set the range Start..End
// should be selected; otherwise the caret moves to Start.
type Jump struct {
	Start  buffer.Point
	End    buffer.Point
	Select bool
}

// CycleNext finds the first target strictly after pos, wrapping around to
// the first target in the document.
func CycleNext(t Target, lines []string, a *lexer.Analysis, pos buffer.Point) (Jump, bool) {
	var first, next *Jump
	visit := func(j Jump) bool {
		if first == nil {
			jj := j
			first = &jj
		}
		if j.Start.Line > pos.Line || (j.Start.Line == pos.Line && j.Start.Column > pos.Column) {
			next = &j
			return false
		}
		return true
	}

	switch t {
	case TargetComment:
		walkComments(lines, a, visit)
	case TargetFunction:
		walkFunctions(lines, a, visit)
	}

	if next != nil {
		return *next, true
	}
	if first != nil {
		return *first, true
	}
	return Jump{}, false
}

// walkComments reports each comment opener in document order until visit
// returns false.
func walkComments(lines []string, a *lexer.Analysis, visit func(Jump) bool) {
	for i, line := range lines {
		for _, sp := range a.Spans(i, line) {
			if sp.Kind != lexer.SpanComment || !sp.Opened {
				continue
			}
			end := sp.End
			switch {
			case strings.HasPrefix(line[sp.Start:], "<!--"):
				end = sp.Start + 4
			case strings.HasPrefix(line[sp.Start:], "/*"):
				end = sp.Start + 2
			}
			j := Jump{
				Start:  buffer.Point{Line: i, Column: column.FromByte(line, sp.Start)},
				End:    buffer.Point{Line: i, Column: column.FromByte(line, end)},
				Select: true,
			}
			if !visit(j) {
				return
			}
		}
	}
}

var (
	declPattern   = regexp.MustCompile(`(?:^|\s)(?:export\s+)?(?:async\s+)?(?:function\*?|class)\s+[\w$]+`)
	methodPattern = regexp.MustCompile(`^\s*(?:static\s+|async\s+|get\s+|set\s+)?([\w$]+)\s*\(.*?\)\s*\{`)
)

// walkFunctions reports declaration sites on script lines that start
// outside any carried construct.
func walkFunctions(lines []string, a *lexer.Analysis, visit func(Jump) bool) {
	for i, line := range lines {
		st := a.Line(i)
		if st.Language != lexer.Script || st.Protected() || st.Skipped {
			continue
		}
		off := declarationOffset(line)
		if off < 0 || !inCode(a.Spans(i, line), off) {
			continue
		}
		p := buffer.Point{Line: i, Column: column.FromByte(line, off)}
		if !visit(Jump{Start: p, End: p}) {
			return
		}
	}
}

// declarationOffset returns the byte offset of the first declaration on
// line, or -1.
func declarationOffset(line string) int {
	if loc := declPattern.FindStringIndex(line); loc != nil {
		return skipBlank(line, loc[0])
	}
	if m := methodPattern.FindStringSubmatchIndex(line); m != nil {
		if lexer.IsScriptKeyword(line[m[2]:m[3]]) {
			return -1
		}
		return skipBlank(line, m[0])
	}
	return -1
}

func inCode(spans []lexer.Span, off int) bool {
	for _, sp := range spans {
		if off >= sp.Start && off < sp.End {
			return sp.Kind == lexer.SpanCode
		}
	}
	return false
}

func skipBlank(line string, i int) int {
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return i
}
