package engine

import (
	"strings"

	"github.com/dshills/scoop/internal/engine/column"
	"github.com/dshills/scoop/internal/engine/cursor"
	"github.com/dshills/scoop/internal/tools"
)

// Direction selects which side of the caret a deletion removes.
type Direction int

const (
	// Backward deletes before the caret (Backspace).
	Backward Direction = iota
	// Forward deletes after the caret (Delete).
	Forward
)

// pairs maps auto-paired openers to their closers.
var pairs = map[rune]rune{
	'(': ')',
	'{': '}',
	'[': ']',
	'"': '"',
	'\'': '\'',
	'`': '`',
}

// ============================================================================
// Write Operations
// ============================================================================

// InsertText replaces the selection, or inserts at the caret, and returns
// the new caret.
func (e *Engine) InsertText(text string) Point {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applyChangeLocked(text)
}

// applyChangeLocked replaces the anchor..caret range, which is empty
// without an anchor.
func (e *Engine) applyChangeLocked(text string) Point {
	r, _ := e.selectionLocked()
	caret, _ := e.replaceLocked(r.Start, r.End, text)
	return caret
}

// selectionLocked returns the ordered anchor..caret range and whether it
// is non-empty.
func (e *Engine) selectionLocked() (Range, bool) {
	sel := e.cur.Selection()
	return sel.Range(), !sel.IsEmpty()
}

// DeleteSelectionOrChar deletes the selection when there is one. Otherwise
// it deletes one grapheme cluster, or a word run when word is set, in
// direction dir; at a line edge the adjacent line is joined. Forward
// deletion leaves the caret in place. It reports whether anything changed.
func (e *Engine) DeleteSelectionOrChar(dir Direction, word bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if r, ok := e.selectionLocked(); ok {
		e.replaceLocked(r.Start, r.End, "")
		return true
	}
	e.cur = e.cur.ClearAnchor()

	head := e.cur.Head()
	line := e.buf.LineText(head.Line)

	if dir == Backward {
		switch {
		case head.Column > 0:
			from := Point{Line: head.Line, Column: column.Prev(line, head.Column)}
			if word {
				from = cursor.WordBoundary(e.buf, head, -1)
			}
			e.replaceLocked(from, head, "")
			return true
		case head.Line > 0:
			prev := head.Line - 1
			e.replaceLocked(Point{Line: prev, Column: e.buf.LineLen(prev)}, head, "")
			return true
		}
		return false
	}

	switch {
	case head.Column < column.Len(line):
		to := Point{Line: head.Line, Column: column.Next(line, head.Column)}
		if word {
			to = cursor.WordBoundary(e.buf, head, 1)
		}
		e.replaceLocked(head, to, "")
		return true
	case head.Line < e.buf.LineCount()-1:
		e.replaceLocked(head, Point{Line: head.Line + 1}, "")
		return true
	}
	return false
}

// Newline inserts a line break. The new line repeats the indentation of the
// caret line, plus one indent unit after an opening brace.
func (e *Engine) Newline() Point {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, _ := e.selectionLocked()
	at := r.Start
	if at.Column == 0 {
		return e.applyChangeLocked("\n")
	}

	line := e.buf.LineText(at.Line)
	before := line[:column.ToByte(line, at.Column)]
	indent := line[:cursor.IndentWidth(line)]
	if strings.HasSuffix(strings.TrimSpace(before), "{") {
		indent += e.indentUnit
	}
	return e.applyChangeLocked("\n" + indent)
}

// Indent prefixes every selected line with the indent unit and reselects
// the block. Without a selection it inserts the indent unit at the caret.
func (e *Engine) Indent() {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, ok := e.selectionLocked()
	if !ok {
		e.applyChangeLocked(e.indentUnit)
		return
	}

	block := make([]string, 0, r.LineCount())
	for i := r.Start.Line; i <= r.End.Line; i++ {
		block = append(block, e.indentUnit+e.buf.LineText(i))
	}
	e.replaceBlockLocked(r.Start.Line, r.End.Line, block)
}

// Unindent removes one tab or up to two spaces from the start of each
// selected line, or the caret line, leaving protected lines alone.
func (e *Engine) Unindent() {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, ok := e.selectionLocked()
	if _, anchored := e.cur.Anchor(); anchored {
		ok = true
	}
	block, changed := tools.Unindent(e.buf.Lines(), e.analysis, r.Start.Line, r.End.Line)
	if !changed {
		return
	}

	if ok {
		e.replaceBlockLocked(r.Start.Line, r.End.Line, block)
		return
	}

	head := e.cur.Head()
	removed := e.buf.LineLen(head.Line) - column.Len(block[0])
	e.replaceBlockLocked(head.Line, head.Line, block)
	e.cur = cursor.New(e.clampLocked(Point{Line: head.Line, Column: max(head.Column-removed, 0)}))
}

// replaceBlockLocked replaces whole lines first..last and selects the
// result from the start of first to the end of the last line.
func (e *Engine) replaceBlockLocked(first, last int, block []string) {
	start := Point{Line: first}
	end := Point{Line: last, Column: e.buf.LineLen(last)}
	caret, _ := e.replaceLocked(start, end, strings.Join(block, "\n"))
	e.cur = e.cur.Select(start, caret)
}

// TypeRune inserts a typed character. Openers and quotes are auto-paired
// with the caret left between the pair; typing a closer or quote that is
// already under the caret steps over it.
func (e *Engine) TypeRune(r rune) Point {
	e.mu.Lock()
	defer e.mu.Unlock()

	head := e.cur.Head()
	if !e.cur.HasSelection() && isCloser(r) {
		if next, ok := column.RuneAt(e.buf.LineText(head.Line), head.Column); ok && next == r {
			e.history.Break()
			e.cur = cursor.New(Point{Line: head.Line, Column: head.Column + column.Units(r)})
			return e.cur.Head()
		}
	}

	closer, paired := pairs[r]
	if !paired {
		return e.applyChangeLocked(string(r))
	}
	caret := e.applyChangeLocked(string(r) + string(closer))
	caret.Column -= column.Units(closer)
	e.cur = cursor.New(caret)
	return caret
}

func isCloser(r rune) bool {
	switch r {
	case ')', '}', ']', '"', '\'', '`':
		return true
	}
	return false
}

// Duplicate inserts a copy of the selection after itself and selects the
// copy. Without a selection it duplicates the caret line below and moves
// the caret down one line.
func (e *Engine) Duplicate() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if r, ok := e.selectionLocked(); ok {
		text := e.buf.TextRange(r.Start, r.End)
		caret, _ := e.replaceLocked(r.End, r.End, text)
		e.cur = e.cur.Select(r.End, caret)
		return
	}

	head := e.cur.Head()
	line := e.buf.LineText(head.Line)
	eol := Point{Line: head.Line, Column: column.Len(line)}
	e.replaceLocked(eol, eol, "\n"+line)
	e.cur = cursor.New(e.clampLocked(Point{Line: head.Line + 1, Column: head.Column}))
}

// Skeleton is the page template inserted by InsertSkeleton.
const Skeleton = `<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>New Page</title>
    <style>
      body {
        margin: 0;
        padding: 20px;
        font-family: system-ui, sans-serif;
      }
    </style>
  </head>
  <body>
    <h1>Hello</h1>

    <script>
      "use strict";
      console.log("loaded");
    </script>
  </body>
</html>`

// InsertSkeleton inserts the page template at the caret, replacing any
// selection, as one undoable edit.
func (e *Engine) InsertSkeleton() Point {
	e.mu.Lock()
	defer e.mu.Unlock()

	caret := e.applyChangeLocked(Skeleton)
	e.setStatusLocked("Template inserted")
	return caret
}
