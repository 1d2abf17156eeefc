package engine

import (
	"fmt"
	"slices"

	"github.com/dshills/scoop/internal/engine/buffer"
	"github.com/dshills/scoop/internal/tools"
)

// ============================================================================
// Bulk Operations
// ============================================================================

// Each bulk operation submits one full-document replace, so it is one
// undo step, and keeps the caret at its row and column, clamped.

// ApplyText replaces the whole document with text. It reports whether the
// document changed.
func (e *Engine) ApplyText(text string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applyLinesLocked(buffer.SplitLines(text))
}

func (e *Engine) applyLinesLocked(lines []string) bool {
	if slices.Equal(lines, e.buf.Lines()) {
		return false
	}
	e.replaceAllLocked(lines)
	return true
}

// StripComments removes all comments and returns how many were removed.
func (e *Engine) StripComments() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	lines, n := tools.StripComments(e.buf.Lines(), e.analysis)
	if n == 0 || !e.applyLinesLocked(lines) {
		e.setStatusLocked("No comments found")
		return 0
	}
	e.setStatusLocked("Comments removed")
	return n
}

// TrimTrailingWhitespace strips trailing whitespace from unprotected lines
// and returns how many lines changed.
func (e *Engine) TrimTrailingWhitespace() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	lines, n := tools.TrimTrailingWhitespace(e.buf.Lines(), e.analysis)
	if n == 0 || !e.applyLinesLocked(lines) {
		e.setStatusLocked("No trailing whitespace")
		return 0
	}
	e.setStatusLocked("Trailing whitespace removed")
	return n
}

// RemoveEmptyLines drops unprotected blank lines and returns how many were
// dropped.
func (e *Engine) RemoveEmptyLines() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	lines, n := tools.RemoveEmptyLines(e.buf.Lines(), e.analysis)
	if n == 0 || !e.applyLinesLocked(lines) {
		e.setStatusLocked("No empty lines found")
		return 0
	}
	e.setStatusLocked("Empty lines removed")
	return n
}

// TransformFunc computes a new document from a snapshot.
type TransformFunc func(Snapshot) (string, error)

// ApplyTransform runs fn on a snapshot without holding the engine lock and
// applies the result as one edit. If the document changed while fn ran,
// the result is discarded and ErrStale returned. It reports whether the
// document changed.
func (e *Engine) ApplyTransform(fn TransformFunc) (bool, error) {
	snap := e.Snapshot()

	text, err := fn(snap)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrTransformFailed, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.buf.RevisionID() != snap.RevisionID() {
		e.logger.Warn("discarding transform of %q: document changed", e.name)
		return false, ErrStale
	}
	return e.applyLinesLocked(buffer.SplitLines(text)), nil
}

// CycleNext moves to the next comment opener or declaration after the
// caret, wrapping to the first. Comment openers are selected. It reports
// whether a target was found.
func (e *Engine) CycleNext(target tools.Target) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	j, ok := tools.CycleNext(target, e.buf.Lines(), e.analysis, e.cur.Head())
	if !ok {
		e.setStatusLocked(fmt.Sprintf("No %s found", target))
		return false
	}
	if j.Select {
		e.cur = e.cur.Select(j.Start, j.End)
	} else {
		e.cur = e.cur.ClearAnchor().MoveTo(j.Start)
	}
	e.setStatusLocked(fmt.Sprintf("Found %s", target))
	return true
}
