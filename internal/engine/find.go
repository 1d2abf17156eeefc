package engine

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/dshills/scoop/internal/engine/cursor"
)

var gotoLinePattern = regexp.MustCompile(`^:(\d+)$`)

// ============================================================================
// Search Operations
// ============================================================================

// Find runs a case-insensitive search and returns every match in document
// order. It does not move the caret. An empty query clears the search.
func (e *Engine) Find(query string) []Match {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.search.Find(e.buf.Lines(), query)
}

// FindNext selects the next match of query, wrapping after the last one.
//
// A new query, or the same query after the document changed, searches
// again and selects the first match at or after the selection start. A
// query of the form ":N" jumps to line N instead. An empty query clears
// the search.
func (e *Engine) FindNext(query string) (Match, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.findNextLocked(query)
}

func (e *Engine) findNextLocked(query string) (Match, bool) {
	if query == "" {
		e.search.Reset()
		e.setStatusLocked("Search cleared")
		return Match{}, false
	}
	if m := gotoLinePattern.FindStringSubmatch(query); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			n = math.MaxInt
		}
		e.goToLineLocked(n)
		return Match{}, false
	}

	var (
		m  Match
		ok bool
	)
	if e.search.SameQuery(query) && e.search.Valid() {
		m, ok = e.search.Next()
	} else {
		e.search.Find(e.buf.Lines(), query)
		r, _ := e.selectionLocked()
		m, ok = e.search.Seek(r.Start)
	}
	if !ok {
		e.setStatusLocked("No matches")
		return Match{}, false
	}

	r := m.Range()
	e.cur = e.cur.Select(r.Start, r.End)
	idx, total := e.search.Index()
	e.setStatusLocked(fmt.Sprintf("%d of %d", idx, total))
	return m, true
}

// SearchIndex returns the 1-based index of the current match and the match
// count, or zeros when the results are stale.
func (e *Engine) SearchIndex() (int, int) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.search.Index()
}

// ClearSearch drops the query and matches.
func (e *Engine) ClearSearch() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.search.Reset()
}

// GoToLine moves the caret to the start of 1-based line n, clamped to the
// document, and clears the selection.
func (e *Engine) GoToLine(n int) Point {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.goToLineLocked(n)
}

func (e *Engine) goToLineLocked(n int) Point {
	row := min(max(n-1, 0), e.buf.LineCount()-1)
	e.cur = cursor.New(Point{Line: row})
	e.setStatusLocked(fmt.Sprintf("Jumped to Ln %d", n))
	return e.cur.Head()
}

// ReplaceCurrent replaces the current match with replacement, but only if
// the selection still frames exactly that match; then it selects the next
// match after the replacement. Otherwise it just advances to the next
// match. It reports whether a replacement happened.
func (e *Engine) ReplaceCurrent(replacement string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	query := e.search.Query()
	cur, ok := e.search.Current()
	sel, selected := e.selectionLocked()
	if !ok || !selected || sel != cur.Range() {
		e.findNextLocked(query)
		return false
	}

	caret := e.applyChangeLocked(replacement)
	e.search.Find(e.buf.Lines(), query)
	if m, found := e.search.Seek(caret); found {
		r := m.Range()
		e.cur = e.cur.Select(r.Start, r.End)
		idx, total := e.search.Index()
		e.setStatusLocked(fmt.Sprintf("Replaced; %d of %d", idx, total))
	} else {
		e.setStatusLocked("Replaced; no more matches")
	}
	return true
}

// ReplaceAll replaces every non-overlapping, case-insensitive occurrence of
// query as one undoable edit and returns the number of replacements. The
// search is cleared.
func (e *Engine) ReplaceAll(query, replacement string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	if query == "" {
		return 0
	}
	lines, n := e.search.ReplaceAll(e.buf.Lines(), query, replacement)
	if n == 0 {
		e.setStatusLocked("Nothing found")
		return 0
	}
	e.replaceAllLocked(lines)
	e.search.Reset()
	e.setStatusLocked(fmt.Sprintf("Replaced %d occurrences", n))
	return n
}
