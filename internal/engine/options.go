package engine

import (
	"time"

	"github.com/dshills/scoop/internal/engine/buffer"
	"github.com/dshills/scoop/internal/engine/cursor"
	"github.com/dshills/scoop/internal/engine/history"
	"github.com/dshills/scoop/internal/engine/lexer"
	"github.com/dshills/scoop/internal/engine/search"
	"github.com/dshills/scoop/internal/logging"
)

// Default configuration values.
const (
	DefaultIndentUnit = "  "
	DefaultPageSize   = cursor.DefaultPageSize
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial content of the engine.
func WithContent(content string) Option {
	return func(e *Engine) {
		e.initContent = content
	}
}

// WithName sets the document name. The extension decides whether the
// lexical tracker locks the document to script or style.
func WithName(name string) Option {
	return func(e *Engine) {
		e.name = name
	}
}

// WithLineEnding sets the line ending used by Serialize.
// Without it the ending is detected from the initial content.
func WithLineEnding(ending buffer.LineEnding) Option {
	return func(e *Engine) {
		e.lineEnding = ending
		e.lineEndingSet = true
	}
}

// WithMaxUndoEntries sets the maximum number of undo entries.
func WithMaxUndoEntries(n int) Option {
	return func(e *Engine) {
		e.historyOpts = append(e.historyOpts, history.WithMaxEntries(n))
	}
}

// WithCoalesceWindow sets how close in time two keystrokes must be to merge
// into one undo entry.
func WithCoalesceWindow(d time.Duration) Option {
	return func(e *Engine) {
		e.historyOpts = append(e.historyOpts, history.WithCoalesceWindow(d))
	}
}

// WithMaxOperationSize sets the size above which an edit clears history.
func WithMaxOperationSize(n int) Option {
	return func(e *Engine) {
		e.historyOpts = append(e.historyOpts, history.WithMaxOperationSize(n))
	}
}

// WithClock sets the time source used for keystroke coalescing.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.historyOpts = append(e.historyOpts, history.WithClock(now))
		}
	}
}

// WithScanLimit sets the line length above which lines are not classified.
func WithScanLimit(n int) Option {
	return func(e *Engine) {
		e.trackerOpts = append(e.trackerOpts, lexer.WithScanLimit(n))
	}
}

// WithOverlappingSearch controls whether Find reports overlapping matches.
func WithOverlappingSearch(on bool) Option {
	return func(e *Engine) {
		e.searchOpts = append(e.searchOpts, search.WithOverlapping(on))
	}
}

// WithIndentUnit sets the text inserted by Indent and after an opening brace.
func WithIndentUnit(unit string) Option {
	return func(e *Engine) {
		if unit != "" {
			e.indentUnit = unit
		}
	}
}

// WithPageSize sets the number of lines moved by PageUp and PageDown.
func WithPageSize(lines int) Option {
	return func(e *Engine) {
		if lines > 0 {
			e.pageSize = lines
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithNotifier registers a callback that receives every status notice.
func WithNotifier(fn func(msg string)) Option {
	return func(e *Engine) {
		e.notify = fn
	}
}
