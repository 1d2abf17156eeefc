package history

import (
	"errors"
	"sync"
	"time"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Defaults for a new History.
const (
	DefaultMaxEntries       = 300
	DefaultCoalesceWindow   = 500 * time.Millisecond
	DefaultMaxOperationSize = 1_000_000
)

// Applier changes the document on behalf of undo and redo.
// Implementations must not record the change in history.
type Applier interface {
	ApplyRaw(start, end Point, text string) error
	SetCaret(p Point)
}

// Option configures a History.
type Option func(*History)

// WithMaxEntries sets the undo stack limit.
func WithMaxEntries(n int) Option {
	return func(h *History) {
		if n > 0 {
			h.maxEntries = n
		}
	}
}

// WithCoalesceWindow sets how close in time keystrokes must be to merge.
// A zero window disables coalescing.
func WithCoalesceWindow(d time.Duration) Option {
	return func(h *History) {
		if d >= 0 {
			h.window = d
		}
	}
}

// WithMaxOperationSize sets the text size above which recording an
// operation clears history.
func WithMaxOperationSize(n int) Option {
	return func(h *History) {
		if n > 0 {
			h.maxSize = n
		}
	}
}

// WithClock sets the time source used for coalescing.
func WithClock(now func() time.Time) Option {
	return func(h *History) {
		if now != nil {
			h.now = now
		}
	}
}

// History manages undo/redo state for a document.
type History struct {
	mu sync.Mutex

	undoStack []*Operation
	redoStack []*Operation
	lastEdit  time.Time

	// Configuration
	maxEntries int
	window     time.Duration
	maxSize    int
	now        func() time.Time
}

// NewHistory creates a new history manager.
func NewHistory(opts ...Option) *History {
	h := &History{
		maxEntries: DefaultMaxEntries,
		window:     DefaultCoalesceWindow,
		maxSize:    DefaultMaxOperationSize,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Record adds an applied operation to the undo stack, merging it into the
// top entry when it continues a keystroke run. Record clears the redo stack.
// It reports false, and clears all history, when op exceeds the size ceiling.
// A no-op is ignored and leaves both stacks untouched.
func (h *History) Record(op *Operation) bool {
	if op.IsNoop() {
		return true
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.redoStack = nil

	if op.Size() > h.maxSize {
		h.undoStack = nil
		h.lastEdit = time.Time{}
		return false
	}

	now := h.now()
	op.Timestamp = now

	if n := len(h.undoStack); n > 0 && !h.lastEdit.IsZero() && now.Sub(h.lastEdit) < h.window {
		if h.undoStack[n-1].merge(op) {
			h.lastEdit = now
			return true
		}
	}

	h.undoStack = append(h.undoStack, op)
	h.lastEdit = now

	// Enforce max entries
	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
	return true
}

// Undo reverts the last entry through a.
// The lock is released while a applies the change.
func (h *History) Undo(a Applier) error {
	h.mu.Lock()
	if len(h.undoStack) == 0 {
		h.mu.Unlock()
		return ErrNothingToUndo
	}

	entry := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.lastEdit = time.Time{}
	h.mu.Unlock()

	if err := a.ApplyRaw(entry.Start, entry.InsertedEnd(), entry.OldText); err != nil {
		// Restore entry on failure
		h.mu.Lock()
		h.undoStack = append(h.undoStack, entry)
		h.mu.Unlock()
		return err
	}
	a.SetCaret(entry.CaretBefore)

	h.mu.Lock()
	h.redoStack = append(h.redoStack, entry)
	h.mu.Unlock()
	return nil
}

// Redo reapplies the last undone entry through a.
// The lock is released while a applies the change.
func (h *History) Redo(a Applier) error {
	h.mu.Lock()
	if len(h.redoStack) == 0 {
		h.mu.Unlock()
		return ErrNothingToRedo
	}

	entry := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.lastEdit = time.Time{}
	h.mu.Unlock()

	if err := a.ApplyRaw(entry.Start, entry.End, entry.NewText); err != nil {
		// Restore entry on failure
		h.mu.Lock()
		h.redoStack = append(h.redoStack, entry)
		h.mu.Unlock()
		return err
	}
	a.SetCaret(entry.CaretAfter)

	h.mu.Lock()
	h.undoStack = append(h.undoStack, entry)
	h.mu.Unlock()
	return nil
}

// Break ends the current keystroke run so the next operation starts a new
// entry.
func (h *History) Break() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastEdit = time.Time{}
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo operations available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo operations available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// Peek returns a copy of the top undo entry, or nil.
func (h *History) Peek() *Operation {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.undoStack) == 0 {
		return nil
	}
	return h.undoStack[len(h.undoStack)-1].Clone()
}

// Clear removes all history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undoStack = nil
	h.redoStack = nil
	h.lastEdit = time.Time{}
}
