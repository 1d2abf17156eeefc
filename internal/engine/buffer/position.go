package buffer

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/dshills/scoop/internal/engine/column"
)

// Point represents a line and column position.
// Both Line and Column are 0-indexed.
// Column is measured in UTF-16 code units from the start of the line.
type Point struct {
	Line   int // 0-indexed line number
	Column int // 0-indexed column in UTF-16 code units
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Point) Compare(other Point) int {
	if p.Line < other.Line {
		return -1
	}
	if p.Line > other.Line {
		return 1
	}
	if p.Column < other.Column {
		return -1
	}
	if p.Column > other.Column {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Point) Before(other Point) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Point) After(other Point) bool {
	return p.Compare(other) > 0
}

// IsZero returns true if this is the zero point (0:0).
func (p Point) IsZero() bool {
	return p.Line == 0 && p.Column == 0
}

// MinPoint returns the earlier of two points.
func MinPoint(a, b Point) Point {
	if b.Before(a) {
		return b
	}
	return a
}

// MaxPoint returns the later of two points.
func MaxPoint(a, b Point) Point {
	if b.After(a) {
		return b
	}
	return a
}

// EndOf returns the position reached after inserting text at start.
// The text must already use "\n" line breaks.
func EndOf(start Point, text string) Point {
	nl := strings.LastIndexByte(text, '\n')
	if nl < 0 {
		return Point{Line: start.Line, Column: start.Column + column.Len(text)}
	}
	return Point{
		Line:   start.Line + strings.Count(text, "\n"),
		Column: column.Len(text[nl+1:]),
	}
}

// RevisionID uniquely identifies a buffer revision.
// Each modification to the buffer creates a new revision.
type RevisionID uint64

// revisionCounter is used to generate unique revision IDs.
var revisionCounter uint64

// NewRevisionID generates a new unique revision ID.
// This is thread-safe using atomic operations.
func NewRevisionID() RevisionID {
	return RevisionID(atomic.AddUint64(&revisionCounter, 1))
}
