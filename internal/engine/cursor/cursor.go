package cursor

import "fmt"

// Lines is the read-only view of a document that motions need.
// *buffer.Buffer and *buffer.Snapshot both implement it.
type Lines interface {
	LineCount() int
	LineText(line int) string
}

// Cursor is a caret with an optional selection anchor and a sticky column.
// Cursor is an immutable value type.
type Cursor struct {
	head      Point
	anchor    Point
	hasAnchor bool
	desired   int // sticky column for vertical motion, -1 when unset
}

// New creates a cursor at p with no selection.
func New(p Point) Cursor {
	return Cursor{head: p, desired: -1}
}

// Head returns the caret position.
func (c Cursor) Head() Point {
	return c.head
}

// Anchor returns the selection anchor, if one is set.
func (c Cursor) Anchor() (Point, bool) {
	return c.anchor, c.hasAnchor
}

// Selection returns the anchor/head selection. Without an anchor the
// selection is collapsed at the head.
func (c Cursor) Selection() Selection {
	if !c.hasAnchor {
		return Selection{Anchor: c.head, Head: c.head}
	}
	return Selection{Anchor: c.anchor, Head: c.head}
}

// HasSelection reports whether a non-empty range is selected.
func (c Cursor) HasSelection() bool {
	return c.hasAnchor && c.anchor != c.head
}

// DesiredColumn returns the sticky column used by vertical motion.
func (c Cursor) DesiredColumn() int {
	if c.desired < 0 {
		return c.head.Column
	}
	return c.desired
}

// MoveTo returns a cursor with the head at p. The anchor is kept and the
// sticky column is reset.
func (c Cursor) MoveTo(p Point) Cursor {
	c.head = p
	c.desired = -1
	return c
}

// WithAnchor returns a cursor anchored at p.
func (c Cursor) WithAnchor(p Point) Cursor {
	c.anchor = p
	c.hasAnchor = true
	return c
}

// ClearAnchor returns a cursor with no selection.
func (c Cursor) ClearAnchor() Cursor {
	c.anchor = Point{}
	c.hasAnchor = false
	return c
}

// Select returns a cursor selecting from anchor to head.
func (c Cursor) Select(anchor, head Point) Cursor {
	return c.MoveTo(head).WithAnchor(anchor)
}

// Collapse drops an anchor that equals the head, as a mouse-up does after
// a click without a drag.
func (c Cursor) Collapse() Cursor {
	if c.hasAnchor && c.anchor == c.head {
		return c.ClearAnchor()
	}
	return c
}

// Clamp returns a cursor with head and anchor passed through clamp.
func (c Cursor) Clamp(clamp func(Point) Point) Cursor {
	c.head = clamp(c.head)
	if c.hasAnchor {
		c.anchor = clamp(c.anchor)
	}
	return c
}

// String returns a string representation of the cursor.
func (c Cursor) String() string {
	if c.hasAnchor {
		return fmt.Sprintf("Cursor(%s anchor %s)", c.head, c.anchor)
	}
	return fmt.Sprintf("Cursor(%s)", c.head)
}
