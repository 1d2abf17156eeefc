// Package history provides undo/redo functionality for the text editor engine.
//
// # Operations
//
// An Operation represents a single edit with before/after state:
//   - The replaced range, in the document as it was before the edit
//   - The removed and inserted text
//   - The caret before and after
//   - A Kind derived from its shape: a one-character insert, a
//     one-character delete, or anything else (a block edit)
//
// "One character" means one grapheme cluster, so typing or deleting an
// emoji behaves like any other keystroke.
//
// # Coalescing
//
// Recording an operation within the coalescing window (500ms by default)
// of the previous one may extend the top entry instead of pushing a new one:
//
//   - an insert that starts where the previous insert ended is appended
//   - a backspace that ends where the previous delete started is prepended
//   - a forward delete at the previous delete's start is appended
//
// Typing "a", "b", "c" quickly therefore yields one "abc" entry.
//
// # History Stack
//
//	h := NewHistory(WithMaxEntries(300))
//
//	h.Record(op)  // after applying op to the document
//	h.Undo(applier)
//	h.Redo(applier)
//
// Undo and Redo replay through an Applier, which changes the document
// without recording history. Any new Record clears the redo stack. When the
// undo stack exceeds its limit the oldest entry is dropped. An operation
// whose text exceeds the size ceiling clears both stacks instead of being
// recorded.
package history
