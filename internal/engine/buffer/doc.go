// Package buffer provides the line-oriented text buffer at the bottom of the
// editing engine.
//
// A Buffer stores a document as an ordered slice of lines without their line
// terminators. It always holds at least one line; the empty document is a
// single empty line.
//
// The buffer package provides:
//
//   - Thread-safe read/write access via sync.RWMutex
//   - Range replacement with splice semantics (Replace)
//   - Wholesale reconstruction for full-document replaces
//   - Line/column positions with UTF-16 code-unit columns
//   - Clamping of arbitrary positions onto valid ones
//   - Read-only snapshots for concurrent access
//   - Line ending detection and normalization
//   - Revision tracking for change management
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Hello, World!")
//
//	// Replace "World" with "Go"
//	res, _ := buf.Replace(buffer.Point{Line: 0, Column: 7}, buffer.Point{Line: 0, Column: 12}, "Go")
//	// res.NewRange.End is the caret position after the edit
//
// Position Types:
//
// Point is a 0-indexed line and column. The column counts UTF-16 code units
// so that positions agree with clients that index strings that way. Use
// Clamp to turn arbitrary user input into a valid Point.
//
// Thread Safety:
//
// All Buffer methods are thread-safe. For scenarios requiring multiple reads
// without the possibility of intervening writes, use Snapshot() to obtain a
// consistent read-only view.
package buffer
