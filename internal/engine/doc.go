// Package engine is the editing core of scoop.
//
// An Engine owns one document and combines the line buffer, the caret and
// selection model, undo/redo history, the lexical tracker and the search
// engine behind a single thread-safe API.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - column: UTF-16 column arithmetic and grapheme-cluster stepping
//   - buffer: line storage with range replace and snapshots
//   - cursor: caret, selection anchor, motions and word boundaries
//   - history: coalescing undo/redo stacks replayed through an Applier
//   - lexer: per-line sub-language and carry state for mixed documents
//   - search: case-insensitive substring matching
//
// # Mutation Funnel
//
// Every content change goes through one internal replace. It applies the
// buffer splice, places the caret at the end of the inserted text, reruns
// the lexical analysis, invalidates search results and records history.
// Undo and redo replay through the same buffer path without recording.
//
// # Positions
//
// Positions are (line, column) pairs where the column counts UTF-16 code
// units. Public editing calls clamp invalid positions instead of failing;
// a column inside a surrogate pair snaps past the pair. ApplyEdit is the
// strict variant for collaborators that must know when a range is wrong.
//
// # Basic Usage
//
//	e := engine.New(engine.WithContent("hello"), engine.WithName("a.js"))
//	e.SetCaret(engine.Point{Line: 0, Column: 5})
//	e.InsertText(" world")
//	e.Undo() // "hello"
//
// # Thread Safety
//
// All Engine methods are safe for concurrent use. Notifier callbacks run
// with the engine locked and must not call back into it.
package engine
