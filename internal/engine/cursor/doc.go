// Package cursor provides the caret and selection model for text editing.
//
// The cursor package handles:
//
//   - Caret positioning with the Cursor type
//   - Text selections with an anchor/head model via Selection
//   - Grapheme-aware horizontal motion and word boundaries
//   - A sticky desired column for vertical motion
//
// Selection Model:
//
// A Cursor always has a head, the caret, and optionally an anchor. With an
// anchor set, the text between anchor and head is selected; the selection
// may run forward or backward. A selection whose anchor equals its head is
// collapsed and selects nothing.
//
// Columns are UTF-16 code units (see package column). Horizontal motion
// moves by whole grapheme clusters, so the caret never stops inside a
// surrogate pair or a combined emoji sequence.
//
// Basic usage:
//
//	c := cursor.New(buffer.Point{Line: 0, Column: 4})
//
//	// Shift+Right: extend a selection one character
//	c = c.Move(buf, cursor.MotionRight, true)
//
//	// Plain Down: clear the selection, keep the desired column
//	c = c.Move(buf, cursor.MotionDown, false)
//
// Thread Safety:
//
// Cursor and Selection are immutable value types and safe for concurrent use.
package cursor
