package engine

import (
	"errors"
	"math/rand"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dshills/scoop/internal/engine/cursor"
	"github.com/dshills/scoop/internal/engine/lexer"
	"github.com/dshills/scoop/internal/tools"
)

func pt(line, col int) Point {
	return Point{Line: line, Column: col}
}

// frozenClock keeps every edit inside the coalescing window.
func frozenClock() func() time.Time {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time { return t0 }
}

// steppingClock advances one second per call so nothing coalesces.
func steppingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

// ============================================================================
// Basic Operations
// ============================================================================

func TestNew(t *testing.T) {
	e := New()
	if e.Text() != "" {
		t.Errorf("expected empty text, got %q", e.Text())
	}
	if e.LineCount() != 1 {
		t.Errorf("expected one line, got %d", e.LineCount())
	}
	if e.IsDirty() {
		t.Error("new engine should be clean")
	}
}

func TestNewFromReader(t *testing.T) {
	e, err := NewFromReader(strings.NewReader("a\r\nb"), WithName("x.txt"))
	if err != nil {
		t.Fatalf("NewFromReader: %v", err)
	}
	if e.Text() != "a\nb" {
		t.Errorf("Text = %q", e.Text())
	}
	if e.Serialize() != "a\r\nb" {
		t.Errorf("Serialize = %q, want CRLF preserved", e.Serialize())
	}
	if e.Name() != "x.txt" {
		t.Errorf("Name = %q", e.Name())
	}
}

func TestLoadDocumentResets(t *testing.T) {
	e := New(WithContent("one"))
	e.SetCaret(pt(0, 3))
	e.InsertText(" two")
	e.Find("one")

	e.LoadDocument("fresh\ntext", "b.js")

	if e.CanUndo() || e.CanRedo() {
		t.Error("history should be cleared")
	}
	if i, n := e.SearchIndex(); i != 0 || n != 0 {
		t.Errorf("search should be cleared, got %d of %d", i, n)
	}
	if e.Caret() != pt(0, 0) || e.IsDirty() {
		t.Errorf("caret %v dirty %v after load", e.Caret(), e.IsDirty())
	}
	if got := e.LineStates()[0].Language; got != lexer.Script {
		t.Errorf("b.js should be script, got %s", got)
	}
}

func TestLoadLinesRejectsEmpty(t *testing.T) {
	e := New(WithContent("keep"))
	if err := e.LoadLines(nil, "x"); !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
	if e.Text() != "keep" {
		t.Errorf("document changed after rejected load: %q", e.Text())
	}
	if err := e.LoadLines([]string{"a", "b"}, "y"); err != nil {
		t.Fatalf("LoadLines: %v", err)
	}
	if e.Text() != "a\nb" {
		t.Errorf("Text = %q", e.Text())
	}
}

// ============================================================================
// Mutation Funnel
// ============================================================================

func TestReplaceRange(t *testing.T) {
	e := New(WithContent("hello\nbig\nworld"))

	caret, removed := e.ReplaceRange(pt(0, 2), pt(2, 3), "y\nthe")
	if removed != "llo\nbig\nwor" {
		t.Errorf("removed = %q", removed)
	}
	if caret != pt(1, 3) {
		t.Errorf("caret = %v, want 1:3", caret)
	}
	if e.Text() != "hey\ntheld" {
		t.Errorf("Text = %q", e.Text())
	}
	if !e.IsDirty() {
		t.Error("expected dirty after edit")
	}
}

func TestReplaceRangeClampsAndSwaps(t *testing.T) {
	e := New(WithContent("abc"))
	caret, removed := e.ReplaceRange(pt(9, 9), pt(0, 1), "X")
	if removed != "bc" || e.Text() != "aX" || caret != pt(0, 2) {
		t.Errorf("got text %q removed %q caret %v", e.Text(), removed, caret)
	}
}

func TestApplyEditStrict(t *testing.T) {
	e := New(WithContent("abc"))
	if _, err := e.ApplyEdit(pt(0, 2), pt(0, 1), ""); !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("reversed range: got %v", err)
	}
	if _, err := e.ApplyEdit(pt(0, 0), pt(0, 4), ""); !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("column past end: got %v", err)
	}
	if _, err := e.ApplyEdit(pt(0, 1), pt(0, 2), "Z"); err != nil || e.Text() != "aZc" {
		t.Errorf("valid edit: err %v text %q", err, e.Text())
	}
}

func TestEditInvalidatesSearch(t *testing.T) {
	e := New(WithContent("foo foo"))
	if len(e.Find("foo")) != 2 {
		t.Fatal("expected two matches")
	}
	e.InsertText("x")
	if i, n := e.SearchIndex(); i != 0 || n != 0 {
		t.Errorf("matches should be stale after an edit, got %d of %d", i, n)
	}
}

func TestEditReanalyzes(t *testing.T) {
	e := New(WithContent("a\nb"), WithName("a.js"))
	if e.LineStates()[1].Protected() {
		t.Fatal("line 1 should not start protected")
	}
	e.InsertText("/* open")
	if !e.LineStates()[1].Protected() {
		t.Error("line 1 should be inside a block comment")
	}
}

// ============================================================================
// Undo/Redo Operations
// ============================================================================

func TestTypingCoalesces(t *testing.T) {
	e := New(WithClock(frozenClock()))
	for _, s := range []string{"a", "b", "c"} {
		e.InsertText(s)
	}
	if e.UndoCount() != 1 {
		t.Fatalf("UndoCount = %d, want 1", e.UndoCount())
	}
	if !e.Undo() {
		t.Fatal("Undo failed")
	}
	if e.Text() != "" || e.Caret() != pt(0, 0) {
		t.Errorf("after undo: text %q caret %v", e.Text(), e.Caret())
	}
	if !e.Redo() || e.Text() != "abc" || e.Caret() != pt(0, 3) {
		t.Errorf("after redo: text %q caret %v", e.Text(), e.Caret())
	}
}

func TestTypingOutsideWindowDoesNotCoalesce(t *testing.T) {
	e := New(WithClock(steppingClock()))
	e.InsertText("a")
	e.InsertText("b")
	if e.UndoCount() != 2 {
		t.Errorf("UndoCount = %d, want 2", e.UndoCount())
	}
}

func TestBackspaceCoalesces(t *testing.T) {
	e := New(WithContent("hello"), WithClock(frozenClock()))
	e.SetCaret(pt(0, 5))
	for range 3 {
		e.DeleteSelectionOrChar(Backward, false)
	}
	if e.Text() != "he" || e.UndoCount() != 1 {
		t.Fatalf("text %q entries %d", e.Text(), e.UndoCount())
	}
	e.Undo()
	if e.Text() != "hello" || e.Caret() != pt(0, 5) {
		t.Errorf("undo: text %q caret %v", e.Text(), e.Caret())
	}
}

func TestUndoRestoresPreEditCaret(t *testing.T) {
	e := New(WithContent("abcdef"))
	e.Select(pt(0, 4), pt(0, 1))
	e.InsertText("X")
	e.Undo()
	if e.Caret() != pt(0, 1) {
		t.Errorf("caret after undo = %v, want 0:1", e.Caret())
	}
}

func TestUndoRedoExactness(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pieces := []string{"", "x", "yz", "\n", "a\nb", "\U0001F600", "é", "  "}
	e := New(WithContent("start\nof the\ndocument"), WithClock(steppingClock()))

	var states []string
	states = append(states, e.Text())
	for range 60 {
		lc := e.LineCount()
		a := pt(rng.Intn(lc), rng.Intn(8))
		b := pt(rng.Intn(lc), rng.Intn(8))
		before := e.Text()
		e.ReplaceRange(a, b, pieces[rng.Intn(len(pieces))])
		if e.Text() != before {
			states = append(states, e.Text())
		}
	}

	for i := len(states) - 1; i > 0; i-- {
		if e.Text() != states[i] {
			t.Fatalf("undo step %d: got %q want %q", i, e.Text(), states[i])
		}
		if !e.Undo() {
			t.Fatalf("undo %d failed", i)
		}
	}
	if e.Text() != states[0] {
		t.Fatalf("fully undone: %q", e.Text())
	}
	if e.Undo() {
		t.Error("undo on empty stack should report false")
	}
	for i := 1; i < len(states); i++ {
		if !e.Redo() || e.Text() != states[i] {
			t.Fatalf("redo step %d: got %q want %q", i, e.Text(), states[i])
		}
	}
}

func TestReload(t *testing.T) {
	e := New(WithContent("first line\nsecond"), WithName("a.txt"))
	e.SetCaret(pt(1, 6))
	e.InsertText("x")
	e.Select(pt(0, 2), pt(1, 0))

	e.Reload("replaced\nsec")

	if e.Text() != "replaced\nsec" || e.Name() != "a.txt" {
		t.Fatalf("text %q name %q", e.Text(), e.Name())
	}
	if a, ok := e.Anchor(); !ok || a != pt(0, 2) || e.Caret() != pt(1, 0) {
		t.Errorf("selection %v %v caret %v", a, ok, e.Caret())
	}
	if e.CanUndo() || e.IsDirty() {
		t.Error("reload should reset history and the dirty flag")
	}

	e.Select(pt(1, 3), pt(0, 7))
	e.Reload("ab")
	if a, _ := e.Anchor(); a != pt(0, 2) || e.Caret() != pt(0, 2) {
		t.Errorf("clamped anchor %v caret %v", a, e.Caret())
	}
}

func TestNoopReplaceNotRecorded(t *testing.T) {
	e := New(WithContent("abc"))
	e.ReplaceRange(pt(0, 0), pt(0, 1), "x")
	e.Undo()
	e.ReplaceRange(pt(0, 0), pt(0, 3), "abc")
	if e.CanUndo() || !e.CanRedo() {
		t.Errorf("no-op edit touched history: undo %d redo %d", e.UndoCount(), e.RedoCount())
	}
}

func TestNewEditClearsRedo(t *testing.T) {
	e := New(WithClock(steppingClock()))
	e.InsertText("a")
	e.Undo()
	if !e.CanRedo() {
		t.Fatal("expected redo entry")
	}
	e.InsertText("b")
	if e.CanRedo() {
		t.Error("new edit should clear redo")
	}
}

func TestOversizedEditClearsHistory(t *testing.T) {
	var notices []string
	e := New(
		WithMaxOperationSize(10),
		WithClock(steppingClock()),
		WithNotifier(func(msg string) { notices = append(notices, msg) }),
	)
	e.InsertText("small")
	e.InsertText(strings.Repeat("x", 11))

	if e.CanUndo() || e.CanRedo() {
		t.Error("history should be cleared")
	}
	if len(notices) != 1 || !strings.Contains(notices[0], "history cleared") {
		t.Errorf("notices = %q", notices)
	}
	if e.Status() != notices[0] {
		t.Errorf("Status = %q", e.Status())
	}
}

func TestUndoCap(t *testing.T) {
	e := New(WithMaxUndoEntries(3), WithClock(steppingClock()))
	for range 5 {
		e.InsertText("ab")
	}
	if e.UndoCount() != 3 {
		t.Errorf("UndoCount = %d, want 3", e.UndoCount())
	}
}

// ============================================================================
// Deletion
// ============================================================================

func TestDeleteClusterAware(t *testing.T) {
	flag := "\U0001F1F3\U0001F1F4" // one cluster, four code units
	e := New(WithContent("x" + flag + "y"))

	e.SetCaret(pt(0, 1))
	if got := e.Move(cursor.MotionRight, false); got != pt(0, 5) {
		t.Fatalf("Right over flag = %v, want 0:5", got)
	}
	if got := e.Move(cursor.MotionLeft, false); got != pt(0, 1) {
		t.Fatalf("Left over flag = %v, want 0:1", got)
	}

	e.SetCaret(pt(0, 5))
	e.DeleteSelectionOrChar(Backward, false)
	if e.Text() != "xy" || e.Caret() != pt(0, 1) {
		t.Fatalf("backspace: text %q caret %v", e.Text(), e.Caret())
	}
	e.Undo()
	if e.Text() != "x"+flag+"y" || e.Caret() != pt(0, 5) {
		t.Errorf("undo: text %q caret %v", e.Text(), e.Caret())
	}

	e.SetCaret(pt(0, 1))
	e.DeleteSelectionOrChar(Forward, false)
	if e.Text() != "xy" || e.Caret() != pt(0, 1) {
		t.Errorf("delete: text %q caret %v", e.Text(), e.Caret())
	}
}

func TestSetCaretSnapsOutOfPair(t *testing.T) {
	e := New(WithContent("\U0001F600"))
	e.SetCaret(pt(0, 1))
	if e.Caret() != pt(0, 2) {
		t.Errorf("caret = %v, want 0:2", e.Caret())
	}
}

func TestDeleteJoinsLines(t *testing.T) {
	e := New(WithContent("ab\ncd"))
	e.SetCaret(pt(1, 0))
	e.DeleteSelectionOrChar(Backward, false)
	if e.Text() != "abcd" || e.Caret() != pt(0, 2) {
		t.Errorf("backspace join: %q %v", e.Text(), e.Caret())
	}

	e.LoadDocument("ab\ncd", "")
	e.SetCaret(pt(0, 2))
	e.DeleteSelectionOrChar(Forward, false)
	if e.Text() != "abcd" || e.Caret() != pt(0, 2) {
		t.Errorf("delete join: %q %v", e.Text(), e.Caret())
	}

	e.SetCaret(pt(0, 0))
	if e.DeleteSelectionOrChar(Backward, false) {
		t.Error("backspace at document start should do nothing")
	}
}

func TestDeleteWord(t *testing.T) {
	e := New(WithContent("foo bar.baz"))
	e.SetCaret(pt(0, 11))
	e.DeleteSelectionOrChar(Backward, true)
	if e.Text() != "foo bar." {
		t.Errorf("word backspace: %q", e.Text())
	}
	e.SetCaret(pt(0, 0))
	e.DeleteSelectionOrChar(Forward, true)
	if e.Text() != "bar." {
		t.Errorf("word delete: %q", e.Text())
	}
}

func TestDeleteSelection(t *testing.T) {
	e := New(WithContent("one\ntwo\nthree"))
	e.Select(pt(2, 2), pt(0, 1))
	e.DeleteSelectionOrChar(Forward, false)
	if e.Text() != "oree" || e.Caret() != pt(0, 1) {
		t.Errorf("text %q caret %v", e.Text(), e.Caret())
	}
	if _, ok := e.Anchor(); ok {
		t.Error("anchor should be cleared")
	}
}

// ============================================================================
// Typing Helpers
// ============================================================================

func TestNewlineIndents(t *testing.T) {
	e := New(WithContent("  if (x) {"))
	e.SetCaret(pt(0, 10))
	if got := e.Newline(); got != pt(1, 4) {
		t.Errorf("caret = %v, want 1:4", got)
	}
	if e.LineText(1) != "    " {
		t.Errorf("new line = %q", e.LineText(1))
	}

	e.LoadDocument("  plain", "")
	e.SetCaret(pt(0, 7))
	e.Newline()
	if e.LineText(1) != "  " {
		t.Errorf("new line = %q", e.LineText(1))
	}

	e.SetCaret(pt(0, 0))
	e.Newline()
	if e.LineText(0) != "" || e.LineText(1) != "  plain" {
		t.Errorf("newline at column 0: %q", e.Lines())
	}
}

func TestNewlineInsideIndent(t *testing.T) {
	e := New(WithContent("    foo"))
	e.SetCaret(pt(0, 2))
	if got := e.Newline(); got != pt(1, 4) {
		t.Errorf("caret = %v, want 1:4", got)
	}
	if e.LineText(0) != "  " || e.LineText(1) != "      foo" {
		t.Errorf("lines = %q", e.Lines())
	}
}

func TestInsertSkeleton(t *testing.T) {
	e := New(WithName("index.html"))
	e.InsertSkeleton()

	if e.Text() != Skeleton || e.Status() != "Template inserted" {
		t.Fatalf("text %q status %q", e.Text(), e.Status())
	}
	langs := make(map[string]lexer.Language)
	for i, line := range e.Lines() {
		langs[strings.TrimSpace(line)] = e.LineStates()[i].Language
	}
	if langs["margin: 0;"] != lexer.Style {
		t.Errorf("style body = %s", langs["margin: 0;"])
	}
	if langs[`console.log("loaded");`] != lexer.Script {
		t.Errorf("script body = %s", langs[`console.log("loaded");`])
	}
	if langs["</html>"] != lexer.Markup {
		t.Errorf("closing tag = %s", langs["</html>"])
	}
	if !e.Undo() || e.Text() != "" {
		t.Errorf("undo left %q", e.Text())
	}
}

func TestIndentUnindentBlock(t *testing.T) {
	e := New(WithContent("a\nb"))
	e.SelectAll()
	e.Indent()
	if e.Text() != "  a\n  b" {
		t.Fatalf("indent: %q", e.Text())
	}
	if r, ok := e.Selection(); !ok || r.Start != pt(0, 0) || r.End != pt(1, 3) {
		t.Errorf("selection after indent = %v %v", r, ok)
	}
	e.Unindent()
	if e.Text() != "a\nb" {
		t.Errorf("unindent: %q", e.Text())
	}
}

func TestIndentInsertsUnit(t *testing.T) {
	e := New(WithContent("x"), WithIndentUnit("\t"))
	e.Indent()
	if e.Text() != "\tx" {
		t.Errorf("Text = %q", e.Text())
	}
}

func TestUnindentCaretLine(t *testing.T) {
	e := New(WithContent("    x"))
	e.SetCaret(pt(0, 5))
	e.Unindent()
	if e.Text() != "  x" || e.Caret() != pt(0, 3) {
		t.Errorf("text %q caret %v", e.Text(), e.Caret())
	}
	if _, ok := e.Anchor(); ok {
		t.Error("unindent without selection should not select")
	}
}

func TestUnindentSkipsProtected(t *testing.T) {
	e := New(WithContent("  /*\n  inside\n  */"), WithName("a.css"))
	e.SelectAll()
	e.Unindent()
	if e.Text() != "/*\n  inside\n  */" {
		t.Errorf("Text = %q", e.Text())
	}
}

func TestTypeRunePairs(t *testing.T) {
	e := New()
	e.TypeRune('(')
	if e.Text() != "()" || e.Caret() != pt(0, 1) {
		t.Fatalf("pair: %q %v", e.Text(), e.Caret())
	}
	e.TypeRune('x')
	e.TypeRune(')')
	if e.Text() != "(x)" || e.Caret() != pt(0, 3) {
		t.Errorf("step over: %q %v", e.Text(), e.Caret())
	}

	e.TypeRune('"')
	e.TypeRune('"')
	if e.Text() != `(x)""` || e.Caret() != pt(0, 5) {
		t.Errorf("quote step over: %q %v", e.Text(), e.Caret())
	}
}

func TestTypeRuneReplacesSelection(t *testing.T) {
	e := New(WithContent("abc"))
	e.Select(pt(0, 0), pt(0, 3))
	e.TypeRune('[')
	if e.Text() != "[]" || e.Caret() != pt(0, 1) {
		t.Errorf("Text = %q caret %v", e.Text(), e.Caret())
	}
}

func TestDuplicate(t *testing.T) {
	e := New(WithContent("ab\ncd"))
	e.SetCaret(pt(0, 1))
	e.Duplicate()
	if e.Text() != "ab\nab\ncd" || e.Caret() != pt(1, 1) {
		t.Errorf("line: %q %v", e.Text(), e.Caret())
	}

	e.Select(pt(2, 0), pt(2, 2))
	e.Duplicate()
	if e.Text() != "ab\nab\ncdcd" || e.SelectionText() != "cd" {
		t.Errorf("selection: %q sel %q", e.Text(), e.SelectionText())
	}
	if r, _ := e.Selection(); r.Start != pt(2, 2) {
		t.Errorf("copy should be selected, got %v", r)
	}
}

// ============================================================================
// Cursor Operations
// ============================================================================

func TestMoveStickyColumn(t *testing.T) {
	e := New(WithContent("abcdef\nab\nabcdef"))
	e.SetCaret(pt(0, 5))
	if got := e.Move(cursor.MotionDown, false); got != pt(1, 2) {
		t.Errorf("down = %v", got)
	}
	if got := e.Move(cursor.MotionDown, false); got != pt(2, 5) {
		t.Errorf("down again = %v", got)
	}
	if e.DesiredColumn() != 5 {
		t.Errorf("desired = %d", e.DesiredColumn())
	}
}

func TestMoveExtend(t *testing.T) {
	e := New(WithContent("hello world"))
	e.Move(cursor.MotionWordRight, true)
	if e.SelectionText() != "hello " {
		t.Errorf("selection = %q", e.SelectionText())
	}
	e.Move(cursor.MotionEnd, false)
	if _, ok := e.Anchor(); ok {
		t.Error("plain motion should clear the anchor")
	}
}

func TestPageSize(t *testing.T) {
	e := New(WithContent(strings.Repeat("x\n", 20)), WithPageSize(5))
	if got := e.Move(cursor.MotionPageDown, false); got != pt(5, 0) {
		t.Errorf("page down = %v", got)
	}
}

func TestMouseUpCollapses(t *testing.T) {
	e := New(WithContent("abc"))
	p := pt(0, 1)
	e.SetSelectionAnchor(&p)
	e.SetCaret(p)
	e.MouseUp()
	if _, ok := e.Anchor(); ok {
		t.Error("click without drag should leave no anchor")
	}

	e.SetSelectionAnchor(&p)
	e.SetCaret(pt(0, 3))
	e.MouseUp()
	if e.SelectionText() != "bc" {
		t.Errorf("drag selection = %q", e.SelectionText())
	}
}

func TestSelectWordAt(t *testing.T) {
	e := New(WithContent(`x = "hello world"; y_z`), WithName("a.js"))

	e.SelectWordAt(pt(0, 8))
	if e.SelectionText() != "hello world" {
		t.Errorf("string interior = %q", e.SelectionText())
	}
	e.SelectWordAt(pt(0, 20))
	if e.SelectionText() != "y_z" {
		t.Errorf("word = %q", e.SelectionText())
	}
	e.SelectWordAt(pt(0, 2))
	if e.SelectionText() != "" || e.Caret() != pt(0, 2) {
		t.Errorf("punctuation click: %q %v", e.SelectionText(), e.Caret())
	}
}

func TestSelectLine(t *testing.T) {
	e := New(WithContent("   abc\nnext"))
	e.SelectLineAt(0)
	if e.SelectionText() != "abc" {
		t.Errorf("triple click = %q", e.SelectionText())
	}
	e.SelectLineFull(0)
	if e.SelectionText() != "   abc" {
		t.Errorf("gutter click = %q", e.SelectionText())
	}
	e.SelectAll()
	if e.SelectionText() != "   abc\nnext" {
		t.Errorf("select all = %q", e.SelectionText())
	}
}

// ============================================================================
// Search Operations
// ============================================================================

func TestFindOverlapping(t *testing.T) {
	e := New(WithContent("aaa"))
	got := e.Find("aa")
	want := []Match{{Line: 0, Column: 0, Length: 2}, {Line: 0, Column: 1, Length: 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Find = %+v, want %+v", got, want)
	}
	if n := e.ReplaceAll("aa", "b"); n != 1 || e.Text() != "ba" {
		t.Errorf("ReplaceAll: n %d text %q", n, e.Text())
	}
}

func TestFindNonOverlappingOption(t *testing.T) {
	e := New(WithContent("aaaa"), WithOverlappingSearch(false))
	if got := len(e.Find("aa")); got != 2 {
		t.Errorf("matches = %d, want 2", got)
	}
}

func TestFindNextCycles(t *testing.T) {
	e := New(WithContent("foo bar FOO"))
	var starts []Point
	for range 3 {
		m, ok := e.FindNext("foo")
		if !ok {
			t.Fatal("FindNext failed")
		}
		starts = append(starts, m.Range().Start)
		if e.SelectionText() != e.TextRange(m.Range().Start, m.Range().End) {
			t.Errorf("selection does not frame match")
		}
	}
	want := []Point{pt(0, 0), pt(0, 8), pt(0, 0)}
	if !reflect.DeepEqual(starts, want) {
		t.Errorf("starts = %v, want %v", starts, want)
	}
	if e.Status() != "1 of 2" {
		t.Errorf("Status = %q", e.Status())
	}
}

func TestFindNextStartsAtCaret(t *testing.T) {
	e := New(WithContent("ab ab ab"))
	e.SetCaret(pt(0, 4))
	m, _ := e.FindNext("ab")
	if m.Column != 6 {
		t.Errorf("first match from caret = %d, want 6", m.Column)
	}
}

func TestFindNextGoToLine(t *testing.T) {
	e := New(WithContent("a\nb\nc"))
	e.Select(pt(0, 0), pt(0, 1))
	if _, ok := e.FindNext(":2"); ok {
		t.Error("goto should not report a match")
	}
	if e.Caret() != pt(1, 0) || e.SelectionText() != "" {
		t.Errorf("caret %v selection %q", e.Caret(), e.SelectionText())
	}
	e.FindNext(":99")
	if e.Caret() != pt(2, 0) {
		t.Errorf("clamped goto = %v", e.Caret())
	}
	if e.GoToLine(0) != pt(0, 0) {
		t.Error("GoToLine(0) should clamp to the first line")
	}
}

func TestFindNextEmptyAndMissing(t *testing.T) {
	e := New(WithContent("abc"))
	if _, ok := e.FindNext(""); ok {
		t.Error("empty query should not match")
	}
	if _, ok := e.FindNext("zzz"); ok {
		t.Error("missing query should not match")
	}
	if e.Status() != "No matches" {
		t.Errorf("Status = %q", e.Status())
	}
}

func TestReplaceCurrentGuard(t *testing.T) {
	e := New(WithContent("foo bar foo"))
	e.FindNext("foo")

	if !e.ReplaceCurrent("baz") {
		t.Fatal("replace should happen when the selection frames the match")
	}
	if e.Text() != "baz bar foo" {
		t.Errorf("Text = %q", e.Text())
	}
	if r, ok := e.Selection(); !ok || r.Start != pt(0, 8) {
		t.Errorf("next match should be selected, got %v", r)
	}

	e.SetSelectionAnchor(nil)
	if e.ReplaceCurrent("qux") {
		t.Error("replace without a framing selection must not edit")
	}
	if e.Text() != "baz bar foo" {
		t.Errorf("Text = %q", e.Text())
	}
	if e.SelectionText() != "foo" {
		t.Errorf("guard failure should advance to a match, got %q", e.SelectionText())
	}
}

func TestReplaceCurrentRecursiveReplacement(t *testing.T) {
	e := New(WithContent("a a"))
	e.FindNext("a")
	e.ReplaceCurrent("aa")
	if r, _ := e.Selection(); r.Start != pt(0, 3) {
		t.Errorf("should advance past the replacement, got %v", r)
	}
}

func TestReplaceAllSingleUndo(t *testing.T) {
	e := New(WithContent("Cat cat\ncAT"), WithClock(frozenClock()))
	e.SetCaret(pt(1, 2))
	if n := e.ReplaceAll("cat", "dog"); n != 3 {
		t.Fatalf("n = %d", n)
	}
	if e.Text() != "dog dog\ndog" {
		t.Errorf("Text = %q", e.Text())
	}
	if e.Caret() != pt(1, 2) {
		t.Errorf("caret should be preserved, got %v", e.Caret())
	}
	if e.Status() != "Replaced 3 occurrences" {
		t.Errorf("Status = %q", e.Status())
	}
	e.Undo()
	if e.Text() != "Cat cat\ncAT" {
		t.Errorf("undo: %q", e.Text())
	}
	if e.ReplaceAll("zzz", "y") != 0 || e.Status() != "Nothing found" {
		t.Errorf("no-match status = %q", e.Status())
	}
}

// ============================================================================
// Lexical State
// ============================================================================

func TestCommentedClosingTag(t *testing.T) {
	e := New(WithContent("<script>\n/* </script> */\nlet a = 1;\n</script>\n<p>"), WithName("index.html"))
	states := e.LineStates()
	if states[2].Language != lexer.Script {
		t.Errorf("line 2 = %s, want script", states[2].Language)
	}
	if states[4].Language != lexer.Markup {
		t.Errorf("line 4 = %s, want markup", states[4].Language)
	}
}

func TestDivisionIsNotRegex(t *testing.T) {
	e := New(WithContent("a = b / c / d;"), WithName("a.js"))
	slashes := 0
	for _, tok := range e.Tokens(0) {
		if tok.Kind == lexer.TokenRegex {
			t.Fatalf("unexpected regex token %q", tok.Text)
		}
		slashes += strings.Count(tok.Text, "/")
	}
	if slashes != 2 {
		t.Errorf("slashes = %d, want 2", slashes)
	}
}

func TestSnapshot(t *testing.T) {
	e := New(WithContent("abc"), WithName("n.txt"))
	e.Select(pt(0, 1), pt(0, 3))
	s := e.Snapshot()
	if s.Name != "n.txt" || s.Caret != pt(0, 3) || s.Anchor == nil || *s.Anchor != pt(0, 1) {
		t.Errorf("snapshot = %+v", s)
	}
	if r, ok := s.Selection(); !ok || r.Start != pt(0, 1) || r.End != pt(0, 3) {
		t.Errorf("snapshot selection = %v %v", r, ok)
	}
	if s.Text() != "abc" || s.RevisionID() != e.Revision() {
		t.Errorf("snapshot content = %q rev %d", s.Text(), s.RevisionID())
	}
	e.InsertText("x")
	if s.Text() != "abc" || s.LineText(0) != "abc" {
		t.Errorf("snapshot followed a later edit: %q", s.Text())
	}
}

// ============================================================================
// Bulk Operations
// ============================================================================

func TestStripCommentsUndoable(t *testing.T) {
	src := "// head\nlet a = 1; // tail\nlet b = 2;"
	e := New(WithContent(src), WithName("a.js"))
	e.SetCaret(pt(2, 4))

	if n := e.StripComments(); n != 2 {
		t.Fatalf("removed = %d", n)
	}
	if e.Text() != "let a = 1;\nlet b = 2;" {
		t.Errorf("Text = %q", e.Text())
	}
	if e.Caret() != pt(1, 4) {
		t.Errorf("caret = %v, want clamped 1:4", e.Caret())
	}
	if e.UndoCount() != 1 {
		t.Errorf("UndoCount = %d", e.UndoCount())
	}
	e.Undo()
	if e.Text() != src {
		t.Errorf("undo: %q", e.Text())
	}
	if e.StripComments(); e.Status() != "Comments removed" {
		t.Errorf("Status = %q", e.Status())
	}
}

func TestWhitespaceTools(t *testing.T) {
	e := New(WithContent("a  \n\n\nb\t"), WithName("a.txt"))
	if n := e.TrimTrailingWhitespace(); n != 2 {
		t.Errorf("trimmed = %d", n)
	}
	if n := e.RemoveEmptyLines(); n != 2 {
		t.Errorf("removed = %d", n)
	}
	if e.Text() != "a\nb" {
		t.Errorf("Text = %q", e.Text())
	}
	if n := e.RemoveEmptyLines(); n != 0 || e.Status() != "No empty lines found" {
		t.Errorf("second pass: %d %q", n, e.Status())
	}
}

func TestApplyText(t *testing.T) {
	e := New(WithContent("one\ntwo"))
	e.SetCaret(pt(1, 3))
	if !e.ApplyText("uno\ndos\ntres") {
		t.Fatal("ApplyText reported no change")
	}
	if e.Caret() != pt(1, 3) {
		t.Errorf("caret = %v", e.Caret())
	}
	if e.ApplyText("uno\ndos\ntres") {
		t.Error("identical text should not change the document")
	}
}

func TestApplyTransform(t *testing.T) {
	e := New(WithContent("abc"))
	changed, err := e.ApplyTransform(func(s Snapshot) (string, error) {
		return strings.ToUpper(strings.Join(s.Lines(), "\n")), nil
	})
	if err != nil || !changed || e.Text() != "ABC" {
		t.Fatalf("transform: changed %v err %v text %q", changed, err, e.Text())
	}

	boom := errors.New("boom")
	if _, err := e.ApplyTransform(func(Snapshot) (string, error) { return "", boom }); !errors.Is(err, boom) || !errors.Is(err, ErrTransformFailed) {
		t.Errorf("failing transform: %v", err)
	}

	_, err = e.ApplyTransform(func(s Snapshot) (string, error) {
		e.InsertText("!")
		return "late", nil
	})
	if !errors.Is(err, ErrStale) {
		t.Errorf("expected ErrStale, got %v", err)
	}
	if e.Text() != "!ABC" {
		t.Errorf("stale result must be discarded, got %q", e.Text())
	}
}

func TestCycleNext(t *testing.T) {
	e := New(WithContent("let a; // one\nfunction f() {}\n/* two */"), WithName("a.js"))

	if !e.CycleNext(tools.TargetComment) || e.SelectionText() != "// one" {
		t.Errorf("first comment: %q", e.SelectionText())
	}
	if !e.CycleNext(tools.TargetComment) || e.SelectionText() != "/*" {
		t.Errorf("second comment: %q", e.SelectionText())
	}
	if !e.CycleNext(tools.TargetFunction) || e.Caret() != pt(1, 0) {
		t.Errorf("function: %v", e.Caret())
	}
	if e.Status() != "Found function" {
		t.Errorf("Status = %q", e.Status())
	}

	e.LoadDocument("plain", "a.txt")
	if e.CycleNext(tools.TargetFunction) {
		t.Error("no function expected")
	}
}

// ============================================================================
// Concurrency
// ============================================================================

func TestConcurrentAccess(t *testing.T) {
	e := New(WithContent("seed"))
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for range 50 {
				if i%2 == 0 {
					e.InsertText("x")
				} else {
					_ = e.Snapshot()
					_ = e.Find("x")
				}
			}
		}(i)
	}
	wg.Wait()
	if got := strings.Count(e.Text(), "x"); got != 200 {
		t.Errorf("inserted %d, want 200", got)
	}
}
