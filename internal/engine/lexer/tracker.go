package lexer

import "github.com/dshills/scoop/internal/engine/column"

// DefaultScanLimit is the line length, in UTF-16 code units, above which a
// line is not scanned.
const DefaultScanLimit = 3000

// Option configures a Tracker.
type Option func(*Tracker)

// WithScanLimit sets the maximum scanned line length.
func WithScanLimit(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.limit = n
		}
	}
}

// Tracker classifies the lines of a document.
// A Tracker holds only configuration and is safe for concurrent use.
type Tracker struct {
	limit int
}

// NewTracker creates a Tracker.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{limit: DefaultScanLimit}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ScanLimit returns the configured line length limit.
func (t *Tracker) ScanLimit() int {
	return t.limit
}

// Analyze uses a default Tracker to classify lines.
func Analyze(lines []string, name string) *Analysis {
	return NewTracker().Analyze(lines, name)
}

// Analyze scans every line of a document and records its sub-language and
// carry-in state.
func (t *Tracker) Analyze(lines []string, name string) *Analysis {
	a := &Analysis{
		states:  make([]LineState, len(lines)),
		entries: make([]State, len(lines)),
		limit:   t.limit,
	}

	st := Initial(name)
	for i, line := range lines {
		a.entries[i] = st
		ls := LineState{Language: st.Language, Carry: st.Carry()}

		if t.tooLong(line) {
			ls.Skipped = true
			a.states[i] = ls
			continue
		}

		first := firstNonBlank(line)
		found := false
		st = ScanLine(line, st, func(sp Span) {
			if !found && first >= 0 && sp.End > first {
				ls.Language = sp.Language
				found = true
			}
		})
		a.states[i] = ls
	}
	a.final = st
	return a
}

func (t *Tracker) tooLong(line string) bool {
	return len(line) > t.limit && column.Len(line) > t.limit
}

func firstNonBlank(line string) int {
	for i := 0; i < len(line); i++ {
		if line[i] != ' ' && line[i] != '\t' {
			return i
		}
	}
	return -1
}

// Analysis is the per-line classification of a document.
type Analysis struct {
	states  []LineState
	entries []State
	final   State
	limit   int
}

// Len returns the number of analyzed lines.
func (a *Analysis) Len() int {
	return len(a.states)
}

// Line returns the state of line i. Out-of-range lines report the zero state.
func (a *Analysis) Line(i int) LineState {
	if i < 0 || i >= len(a.states) {
		return LineState{}
	}
	return a.states[i]
}

// States returns a copy of all line states.
func (a *Analysis) States() []LineState {
	out := make([]LineState, len(a.states))
	copy(out, a.states)
	return out
}

// Protected reports whether line i starts inside a multi-line construct.
func (a *Analysis) Protected(i int) bool {
	return a.Line(i).Protected()
}

// Entry returns the scanner state at the start of line i.
func (a *Analysis) Entry(i int) State {
	if i < 0 || i >= len(a.entries) {
		return a.final
	}
	return a.entries[i]
}

// Final returns the scanner state after the last line.
func (a *Analysis) Final() State {
	return a.final
}

// Spans rescans line i, which must be the text the analysis was built
// from, and returns its spans. Skipped lines return nil.
func (a *Analysis) Spans(i int, line string) []Span {
	if a.Line(i).Skipped {
		return nil
	}
	var spans []Span
	ScanLine(line, a.Entry(i), func(sp Span) {
		spans = append(spans, sp)
	})
	return spans
}
