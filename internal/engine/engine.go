package engine

import (
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/dshills/scoop/internal/engine/buffer"
	"github.com/dshills/scoop/internal/engine/cursor"
	"github.com/dshills/scoop/internal/engine/history"
	"github.com/dshills/scoop/internal/engine/lexer"
	"github.com/dshills/scoop/internal/engine/search"
	"github.com/dshills/scoop/internal/logging"
)

// Re-export commonly used types for convenience.
type (
	// Point is a line/column position; the column counts UTF-16 code units.
	Point = buffer.Point

	// Range is a pair of points.
	Range = buffer.PointRange

	// Selection is an anchor/head pair.
	Selection = cursor.Selection

	// Motion is a caret movement.
	Motion = cursor.Motion

	// LineEnding specifies the line ending style.
	LineEnding = buffer.LineEnding

	// RevisionID identifies a document revision.
	RevisionID = buffer.RevisionID

	// LineState is the lexical state of a line.
	LineState = lexer.LineState

	// Token is a classified run of a line.
	Token = lexer.Token

	// Match is a search hit.
	Match = search.Match
)

// Re-export constants.
const (
	LineEndingLF   = buffer.LineEndingLF
	LineEndingCRLF = buffer.LineEndingCRLF
	LineEndingCR   = buffer.LineEndingCR

	MotionLeft      = cursor.MotionLeft
	MotionRight     = cursor.MotionRight
	MotionWordLeft  = cursor.MotionWordLeft
	MotionWordRight = cursor.MotionWordRight
	MotionUp        = cursor.MotionUp
	MotionDown      = cursor.MotionDown
	MotionHome      = cursor.MotionHome
	MotionEnd       = cursor.MotionEnd
	MotionPageUp    = cursor.MotionPageUp
	MotionPageDown  = cursor.MotionPageDown
	MotionDocStart  = cursor.MotionDocStart
	MotionDocEnd    = cursor.MotionDocEnd
)

// Engine is the editing facade for a single document.
//
// All operations are thread-safe and can be called from multiple goroutines.
type Engine struct {
	mu sync.RWMutex

	// Core components
	buf      *buffer.Buffer
	cur      cursor.Cursor
	history  *history.History
	tracker  *lexer.Tracker
	analysis *lexer.Analysis
	search   *search.Searcher

	name   string
	dirty  bool
	status string

	logger *logging.Logger
	notify func(string)

	// Configuration
	indentUnit    string
	pageSize      int
	lineEnding    buffer.LineEnding
	lineEndingSet bool
	historyOpts   []history.Option
	trackerOpts   []lexer.Option
	searchOpts    []search.Option

	// Initialization
	initContent string
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := configure(opts)
	e.buf = buffer.NewBufferFromString(e.initContent, e.bufferOptions(e.initContent)...)
	e.initContent = ""
	e.reanalyzeLocked()
	return e
}

// NewFromReader creates an Engine from an io.Reader.
func NewFromReader(r io.Reader, opts ...Option) (*Engine, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return New(append(opts, WithContent(string(data)))...), nil
}

func configure(opts []Option) *Engine {
	e := &Engine{
		indentUnit: DefaultIndentUnit,
		pageSize:   DefaultPageSize,
		logger:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.cur = cursor.New(Point{})
	e.history = history.NewHistory(e.historyOpts...)
	e.tracker = lexer.NewTracker(e.trackerOpts...)
	e.search = search.New(e.searchOpts...)
	e.logger = e.logger.WithComponent("engine")
	return e
}

func (e *Engine) bufferOptions(text string) []buffer.Option {
	if e.lineEndingSet {
		return []buffer.Option{buffer.WithLineEnding(e.lineEnding)}
	}
	return []buffer.Option{buffer.WithDetectedLineEnding(text)}
}

// ============================================================================
// Document Lifecycle
// ============================================================================

// LoadDocument replaces the document with text and renames it. History,
// search state, the selection and the dirty flag are reset and the caret
// moves to the start.
func (e *Engine) LoadDocument(text, name string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.name = name
	e.buf = buffer.NewBufferFromString(text, e.bufferOptions(text)...)
	e.resetLocked()
	e.logger.Debug("loaded %q (%d lines)", name, e.buf.LineCount())
}

// Reload replaces the document with text from its backing file. Unlike
// LoadDocument it keeps the name and the caret and selection, clamped to the
// new content. History and search state are reset and the document is clean.
func (e *Engine) Reload(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cur := e.cur
	e.buf = buffer.NewBufferFromString(text, e.bufferOptions(text)...)
	e.resetLocked()
	e.cur = cur.Clamp(e.buf.Clamp)
	e.logger.Debug("reloaded %q (%d lines)", e.name, e.buf.LineCount())
}

// LoadLines is LoadDocument for a line slice. An empty slice is rejected.
func (e *Engine) LoadLines(lines []string, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var opts []buffer.Option
	if e.lineEndingSet {
		opts = append(opts, buffer.WithLineEnding(e.lineEnding))
	}
	buf, err := buffer.NewBufferFromLines(lines, opts...)
	if err != nil {
		return err
	}
	e.name = name
	e.buf = buf
	e.resetLocked()
	return nil
}

func (e *Engine) resetLocked() {
	e.cur = cursor.New(Point{})
	e.history.Clear()
	e.search.Reset()
	e.dirty = false
	e.reanalyzeLocked()
}

// Serialize returns the document joined with its line ending.
func (e *Engine) Serialize() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Serialize()
}

// Name returns the document name.
func (e *Engine) Name() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.name
}

// Rename changes the document name and reclassifies the document, since
// the extension decides the base language.
func (e *Engine) Rename(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.name = name
	e.reanalyzeLocked()
}

// IsDirty reports whether the document changed since it was loaded or last
// marked clean.
func (e *Engine) IsDirty() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.dirty
}

// MarkClean clears the dirty flag, typically after a save.
func (e *Engine) MarkClean() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dirty = false
}

// Status returns the most recent status notice.
func (e *Engine) Status() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status
}

func (e *Engine) setStatusLocked(msg string) {
	e.status = msg
	if e.notify != nil {
		e.notify(msg)
	}
}

// ============================================================================
// Read Operations
// ============================================================================

// Text returns the document joined with "\n".
func (e *Engine) Text() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Text()
}

// Lines returns a copy of the document lines.
func (e *Engine) Lines() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Lines()
}

// LineCount returns the number of lines. It is always at least one.
func (e *Engine) LineCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineCount()
}

// LineText returns the text of a line, or "" when out of range.
func (e *Engine) LineText(line int) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineText(line)
}

// TextRange returns the text between two points.
func (e *Engine) TextRange(start, end Point) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.TextRange(start, end)
}

// Revision returns the current revision id.
func (e *Engine) Revision() RevisionID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.RevisionID()
}

// LineEnding returns the serialization line ending.
func (e *Engine) LineEnding() LineEnding {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineEnding()
}

// LineStates returns the lexical state of every line.
func (e *Engine) LineStates() []LineState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.analysis.States()
}

// Tokens classifies a line. Out-of-range lines return nil.
func (e *Engine) Tokens(line int) []Token {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if line < 0 || line >= e.buf.LineCount() {
		return nil
	}
	return e.analysis.Tokens(line, e.buf.LineText(line))
}

// ============================================================================
// Snapshot
// ============================================================================

// Snapshot is an immutable copy of everything a view needs to draw the
// document. The embedded buffer snapshot provides the text, line ending
// and revision.
type Snapshot struct {
	*buffer.Snapshot

	Name    string
	States  []LineState
	Caret   Point
	Anchor  *Point
	Desired int
	Dirty   bool
	Status  string
}

// Selection returns the snapshot's ordered selection range and whether it
// is non-empty.
func (s Snapshot) Selection() (Range, bool) {
	if s.Anchor == nil || *s.Anchor == s.Caret {
		return Range{Start: s.Caret, End: s.Caret}, false
	}
	return Range{
		Start: buffer.MinPoint(*s.Anchor, s.Caret),
		End:   buffer.MaxPoint(*s.Anchor, s.Caret),
	}, true
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s := Snapshot{
		Snapshot: e.buf.Snapshot(),
		Name:     e.name,
		States:   e.analysis.States(),
		Caret:    e.cur.Head(),
		Desired:  e.cur.DesiredColumn(),
		Dirty:    e.dirty,
		Status:   e.status,
	}
	if a, ok := e.cur.Anchor(); ok {
		s.Anchor = &a
	}
	return s
}

// ============================================================================
// Mutation Funnel
// ============================================================================

// ReplaceRange replaces the text between two positions and returns the new
// caret and the removed text. Positions are clamped and swapped into order.
// The selection anchor is cleared and the caret lands at the end of the
// inserted text.
func (e *Engine) ReplaceRange(start, end Point, text string) (Point, string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.replaceLocked(start, end, text)
}

// ApplyEdit is ReplaceRange for collaborators: it returns ErrRangeInvalid
// instead of clamping.
func (e *Engine) ApplyEdit(start, end Point, text string) (Point, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.buf.Clamp(start) != start || e.buf.Clamp(end) != end || end.Before(start) {
		return Point{}, ErrRangeInvalid
	}
	caret, _ := e.replaceLocked(start, end, text)
	return caret, nil
}

// replaceLocked is the single path by which content changes outside of
// history replay.
func (e *Engine) replaceLocked(start, end Point, text string) (Point, string) {
	start, end = e.buf.Clamp(start), e.buf.Clamp(end)
	if end.Before(start) {
		start, end = end, start
	}
	text = buffer.NormalizeLineEndings(text)
	before := e.cur.Head()
	if start == end && text == "" {
		e.cur = cursor.New(start)
		return start, ""
	}

	res, err := e.buf.Replace(start, end, text)
	if err != nil {
		// Clamped positions are always valid.
		e.logger.Error("replace %s-%s: %v", start, end, err)
		return before, ""
	}

	e.cur = cursor.New(res.NewRange.End)
	e.afterChangeLocked()

	op := history.NewOperation(start, end, res.OldText, text).WithCarets(before, res.NewRange.End)
	if !e.history.Record(op) {
		e.logger.Warn("edit of %d units exceeds the history ceiling; history cleared", op.Size())
		e.setStatusLocked("Edit too large to undo: history cleared")
	}
	return res.NewRange.End, res.OldText
}

// replaceAllLocked replaces the whole document and keeps the caret at its
// row and column, clamped, with the anchor cleared.
func (e *Engine) replaceAllLocked(lines []string) {
	saved := e.cur.Head()
	e.history.Break()
	e.replaceLocked(Point{}, e.buf.EndPoint(), strings.Join(lines, "\n"))
	e.history.Break()
	e.cur = cursor.New(e.clampLocked(saved))
}

func (e *Engine) afterChangeLocked() {
	e.dirty = true
	e.search.Invalidate()
	e.reanalyzeLocked()
}

func (e *Engine) reanalyzeLocked() {
	e.analysis = e.tracker.Analyze(e.buf.Lines(), e.name)
}

func (e *Engine) clampLocked(p Point) Point {
	return e.buf.Clamp(p)
}

// ============================================================================
// Undo/Redo Operations
// ============================================================================

// replayer applies history entries without recording them. It runs with
// the engine lock held.
type replayer struct {
	e *Engine
}

func (r replayer) ApplyRaw(start, end Point, text string) error {
	if _, err := r.e.buf.Replace(start, end, text); err != nil {
		return err
	}
	r.e.afterChangeLocked()
	return nil
}

func (r replayer) SetCaret(p Point) {
	r.e.cur = cursor.New(r.e.clampLocked(p))
}

// Undo reverts the last undo entry. It reports false when there is nothing
// to undo.
func (e *Engine) Undo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.replayLocked(e.history.Undo, history.ErrNothingToUndo, "Undo")
}

// Redo reapplies the last undone entry. It reports false when there is
// nothing to redo.
func (e *Engine) Redo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.replayLocked(e.history.Redo, history.ErrNothingToRedo, "Redo")
}

func (e *Engine) replayLocked(step func(history.Applier) error, empty error, label string) bool {
	if err := step(replayer{e}); err != nil {
		if !errors.Is(err, empty) {
			e.logger.Error("%s failed: %v", label, err)
		}
		return false
	}
	e.setStatusLocked(label)
	return true
}

// CanUndo reports whether Undo would do anything.
func (e *Engine) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo reports whether Redo would do anything.
func (e *Engine) CanRedo() bool {
	return e.history.CanRedo()
}

// UndoCount returns the number of undo entries.
func (e *Engine) UndoCount() int {
	return e.history.UndoCount()
}

// RedoCount returns the number of redo entries.
func (e *Engine) RedoCount() int {
	return e.history.RedoCount()
}

// BreakUndo ends the current keystroke run.
func (e *Engine) BreakUndo() {
	e.history.Break()
}

// ClearHistory drops all undo and redo entries.
func (e *Engine) ClearHistory() {
	e.history.Clear()
}
