package history

import (
	"time"

	"github.com/dshills/scoop/internal/engine/buffer"
	"github.com/dshills/scoop/internal/engine/column"
)

// Point is an alias for buffer.Point for convenience.
type Point = buffer.Point

// Kind classifies an operation by shape.
type Kind uint8

const (
	KindBlock  Kind = iota // anything that is not a single-character edit
	KindInsert             // one character inserted, nothing removed
	KindDelete             // one character removed, nothing inserted
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInsert:
		return "insert"
	case KindDelete:
		return "delete"
	default:
		return "block"
	}
}

// Operation represents a single undoable edit.
// It captures all information needed to undo or redo the edit.
type Operation struct {
	// Edit data
	Start   Point  // Start of the replaced range
	End     Point  // End of the replaced range, before the edit
	OldText string // Text that was replaced (for undo)
	NewText string // Text that was inserted (for redo)

	// Caret state for restore
	CaretBefore Point
	CaretAfter  Point

	// Metadata
	Kind      Kind
	Timestamp time.Time
}

// NewOperation creates an operation and classifies it by shape.
func NewOperation(start, end Point, oldText, newText string) *Operation {
	op := &Operation{
		Start:      start,
		End:        end,
		OldText:    oldText,
		NewText:    newText,
		CaretAfter: buffer.EndOf(start, newText),
	}
	switch {
	case oldText == "" && column.IsSingleCluster(newText):
		op.Kind = KindInsert
	case newText == "" && column.IsSingleCluster(oldText):
		op.Kind = KindDelete
	}
	return op
}

// WithCarets sets the caret state and returns the operation for chaining.
func (op *Operation) WithCarets(before, after Point) *Operation {
	op.CaretBefore = before
	op.CaretAfter = after
	return op
}

// InsertedEnd returns the end of the inserted text after the edit.
func (op *Operation) InsertedEnd() Point {
	return buffer.EndOf(op.Start, op.NewText)
}

// Size returns the larger of the removed and inserted text lengths in
// UTF-16 code units.
func (op *Operation) Size() int {
	return max(column.Len(op.OldText), column.Len(op.NewText))
}

// IsNoop returns true if this operation makes no changes.
func (op *Operation) IsNoop() bool {
	return op.OldText == op.NewText
}

// merge folds next into op when next continues op's keystroke run.
func (op *Operation) merge(next *Operation) bool {
	if op.Kind != next.Kind {
		return false
	}
	switch op.Kind {
	case KindInsert:
		if next.Start != op.InsertedEnd() {
			return false
		}
		op.NewText += next.NewText
	case KindDelete:
		switch {
		case next.End == op.Start:
			op.OldText = next.OldText + op.OldText
			op.Start = next.Start
		case next.Start == op.Start:
			op.OldText += next.OldText
		default:
			return false
		}
		op.End = buffer.EndOf(op.Start, op.OldText)
	default:
		return false
	}
	op.CaretAfter = next.CaretAfter
	op.Timestamp = next.Timestamp
	return true
}

// Clone creates a copy of the operation.
func (op *Operation) Clone() *Operation {
	clone := *op
	return &clone
}
