package engine

import (
	"github.com/dshills/scoop/internal/engine/column"
	"github.com/dshills/scoop/internal/engine/cursor"
	"github.com/dshills/scoop/internal/engine/lexer"
)

// ============================================================================
// Cursor Operations
// ============================================================================

// Caret returns the caret position.
func (e *Engine) Caret() Point {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cur.Head()
}

// Anchor returns the selection anchor, if set.
func (e *Engine) Anchor() (Point, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cur.Anchor()
}

// Selection returns the ordered selection and whether it is non-empty.
func (e *Engine) Selection() (Range, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.selectionLocked()
}

// DesiredColumn returns the sticky column used by vertical motion.
func (e *Engine) DesiredColumn() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cur.DesiredColumn()
}

// SetCaret moves the caret to p, clamped. The anchor is kept, so a drag is
// an anchor set on press followed by SetCaret calls.
func (e *Engine) SetCaret(p Point) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cur = e.cur.MoveTo(e.clampLocked(p))
}

// SetSelectionAnchor sets the anchor to p, clamped, or clears it when p is
// nil.
func (e *Engine) SetSelectionAnchor(p *Point) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p == nil {
		e.cur = e.cur.ClearAnchor()
		return
	}
	e.cur = e.cur.WithAnchor(e.clampLocked(*p))
}

// Select sets both ends of the selection.
func (e *Engine) Select(anchor, head Point) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cur = e.cur.Select(e.clampLocked(anchor), e.clampLocked(head))
}

// MouseUp drops an anchor that equals the caret.
func (e *Engine) MouseUp() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cur = e.cur.Collapse()
}

// Move applies a caret motion. With extend set the selection grows from
// the current anchor, creating one at the caret if needed; otherwise the
// selection is dropped.
func (e *Engine) Move(m Motion, extend bool) Point {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cur = e.cur.MovePage(e.buf, m, extend, e.pageSize)
	return e.cur.Head()
}

// SelectAll selects the whole document.
func (e *Engine) SelectAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cur = e.cur.Select(Point{}, e.buf.EndPoint())
}

// SelectionText returns the selected text, or "" without a selection.
func (e *Engine) SelectionText() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	r, ok := e.selectionLocked()
	if !ok {
		return ""
	}
	return e.buf.TextRange(r.Start, r.End)
}

// SelectWordAt selects what a double click at p selects: the interior of
// the quoted string strictly containing p, else the word touching p. With
// neither, the caret moves to p.
func (e *Engine) SelectWordAt(p Point) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p = e.clampLocked(p)
	line := e.buf.LineText(p.Line)

	if start, end, ok := e.stringInteriorLocked(p.Line, line, p.Column); ok {
		e.cur = e.cur.Select(Point{Line: p.Line, Column: start}, Point{Line: p.Line, Column: end})
		return
	}
	if start, end, ok := cursor.WordAt(line, p.Column); ok {
		e.cur = e.cur.Select(Point{Line: p.Line, Column: start}, Point{Line: p.Line, Column: end})
		return
	}
	e.cur = cursor.New(p)
}

// stringInteriorLocked finds a string span on line that strictly contains
// col and returns its columns without the quotes.
func (e *Engine) stringInteriorLocked(row int, line string, col int) (int, int, bool) {
	off := column.ToByte(line, col)
	for _, sp := range e.analysis.Spans(row, line) {
		if sp.Kind != lexer.SpanString || off <= sp.Start || off >= sp.End {
			continue
		}
		start, end := sp.Start, sp.End
		if sp.Opened {
			q := line[start]
			start++
			if end-start >= 1 && line[end-1] == q {
				end--
			}
		}
		if start >= end {
			return 0, 0, false
		}
		return column.FromByte(line, start), column.FromByte(line, end), true
	}
	return 0, 0, false
}

// SelectLineAt selects a line from its first non-blank column to its end,
// as a triple click does.
func (e *Engine) SelectLineAt(row int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.clampLocked(Point{Line: row})
	line := e.buf.LineText(p.Line)
	e.cur = e.cur.Select(
		Point{Line: p.Line, Column: cursor.IndentWidth(line)},
		Point{Line: p.Line, Column: column.Len(line)},
	)
}

// SelectLineFull selects a whole line from column 0, as a gutter click
// does.
func (e *Engine) SelectLineFull(row int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.clampLocked(Point{Line: row})
	e.cur = e.cur.Select(p, Point{Line: p.Line, Column: e.buf.LineLen(p.Line)})
}
