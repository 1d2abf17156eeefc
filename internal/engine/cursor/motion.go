package cursor

import "github.com/dshills/scoop/internal/engine/column"

// Motion identifies a caret movement.
type Motion uint8

const (
	MotionLeft Motion = iota
	MotionRight
	MotionWordLeft
	MotionWordRight
	MotionUp
	MotionDown
	MotionHome
	MotionEnd
	MotionPageUp
	MotionPageDown
	MotionDocStart
	MotionDocEnd
)

// DefaultPageSize is the number of lines PageUp and PageDown move.
const DefaultPageSize = 30

// Move applies a motion. With extend set, an anchor is created at the old
// head if none exists; otherwise the selection is dropped. Vertical motions
// keep the sticky column; all others reset it.
func (c Cursor) Move(lines Lines, m Motion, extend bool) Cursor {
	return c.MovePage(lines, m, extend, DefaultPageSize)
}

// MovePage is Move with an explicit page size.
func (c Cursor) MovePage(lines Lines, m Motion, extend bool, page int) Cursor {
	if extend {
		if !c.hasAnchor {
			c = c.WithAnchor(c.head)
		}
	} else {
		c = c.ClearAnchor()
	}

	p := c.head
	switch m {
	case MotionLeft:
		return c.MoveTo(Left(lines, p))
	case MotionRight:
		return c.MoveTo(Right(lines, p))
	case MotionWordLeft:
		return c.MoveTo(WordBoundary(lines, p, -1))
	case MotionWordRight:
		return c.MoveTo(WordBoundary(lines, p, 1))
	case MotionHome:
		return c.MoveTo(Home(lines, p))
	case MotionEnd:
		return c.MoveTo(Point{Line: p.Line, Column: column.Len(lines.LineText(p.Line))})
	case MotionDocStart:
		return c.MoveTo(Point{})
	case MotionDocEnd:
		last := lines.LineCount() - 1
		return c.MoveTo(Point{Line: last, Column: column.Len(lines.LineText(last))})
	case MotionUp:
		return c.vertical(lines, -1)
	case MotionDown:
		return c.vertical(lines, 1)
	case MotionPageUp:
		return c.vertical(lines, -page)
	case MotionPageDown:
		return c.vertical(lines, page)
	}
	return c
}

func (c Cursor) vertical(lines Lines, delta int) Cursor {
	desired := c.DesiredColumn()
	line := c.head.Line + delta
	if line < 0 {
		line = 0
	}
	if last := lines.LineCount() - 1; line > last {
		line = last
	}
	c.head = Point{Line: line, Column: column.Snap(lines.LineText(line), desired)}
	c.desired = desired
	return c
}

// Left returns the position one grapheme cluster before p, wrapping to the
// end of the previous line.
func Left(lines Lines, p Point) Point {
	if p.Column > 0 {
		return Point{Line: p.Line, Column: column.Prev(lines.LineText(p.Line), p.Column)}
	}
	if p.Line > 0 {
		return Point{Line: p.Line - 1, Column: column.Len(lines.LineText(p.Line - 1))}
	}
	return p
}

// Right returns the position one grapheme cluster after p, wrapping to the
// start of the next line.
func Right(lines Lines, p Point) Point {
	text := lines.LineText(p.Line)
	if p.Column < column.Len(text) {
		return Point{Line: p.Line, Column: column.Next(text, p.Column)}
	}
	if p.Line < lines.LineCount()-1 {
		return Point{Line: p.Line + 1}
	}
	return p
}

// Home returns the first non-blank column of p's line, or column 0 when p
// is already there.
func Home(lines Lines, p Point) Point {
	first := IndentWidth(lines.LineText(p.Line))
	if p.Column == first {
		first = 0
	}
	return Point{Line: p.Line, Column: first}
}

// IndentWidth returns the number of leading spaces and tabs in line.
func IndentWidth(line string) int {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return n
}
