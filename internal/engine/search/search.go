package search

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/dshills/scoop/internal/engine/buffer"
	"github.com/dshills/scoop/internal/engine/column"
)

// Match is one occurrence of the query. Column and Length are UTF-16 units.
type Match struct {
	Line   int
	Column int
	Length int
}

// Range returns the matched range.
func (m Match) Range() buffer.PointRange {
	return buffer.PointRange{
		Start: buffer.Point{Line: m.Line, Column: m.Column},
		End:   buffer.Point{Line: m.Line, Column: m.Column + m.Length},
	}
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithOverlapping selects whether Find reports overlapping matches.
func WithOverlapping(on bool) Option {
	return func(s *Searcher) {
		s.overlapping = on
	}
}

// Searcher holds the current query and its matches.
type Searcher struct {
	folder      cases.Caser
	folded      map[rune]string
	overlapping bool

	query   string
	matches []Match
	current int
	valid   bool
}

// New creates a Searcher.
func New(opts ...Option) *Searcher {
	s := &Searcher{
		folder:      cases.Fold(),
		folded:      make(map[rune]string),
		overlapping: true,
		current:     -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Find scans lines for query and makes the result current. An empty query
// clears the search and returns nil.
func (s *Searcher) Find(lines []string, query string) []Match {
	s.Reset()
	if query == "" {
		return nil
	}
	s.query = query
	needle := s.fold(query)
	for i, line := range lines {
		s.matches = s.scan(s.matches, i, line, needle, s.overlapping)
	}
	s.valid = true
	return s.Matches()
}

// SameQuery reports whether query equals the current query ignoring case.
func (s *Searcher) SameQuery(query string) bool {
	return s.query != "" && strings.EqualFold(s.query, query)
}

// Query returns the current query.
func (s *Searcher) Query() string {
	return s.query
}

// Valid reports whether the matches reflect the current document.
func (s *Searcher) Valid() bool {
	return s.valid
}

// Matches returns a copy of the current matches.
func (s *Searcher) Matches() []Match {
	out := make([]Match, len(s.matches))
	copy(out, s.matches)
	return out
}

// Next advances to the following match, wrapping after the last.
func (s *Searcher) Next() (Match, bool) {
	if !s.valid || len(s.matches) == 0 {
		return Match{}, false
	}
	s.current = (s.current + 1) % len(s.matches)
	return s.matches[s.current], true
}

// Seek makes the first match starting at or after p current, wrapping to
// the first match when none follows p.
func (s *Searcher) Seek(p buffer.Point) (Match, bool) {
	if !s.valid || len(s.matches) == 0 {
		return Match{}, false
	}
	s.current = 0
	for i, m := range s.matches {
		if !m.Range().Start.Before(p) {
			s.current = i
			break
		}
	}
	return s.matches[s.current], true
}

// Current returns the match last returned by Next or Seek.
func (s *Searcher) Current() (Match, bool) {
	if !s.valid || s.current < 0 || s.current >= len(s.matches) {
		return Match{}, false
	}
	return s.matches[s.current], true
}

// Index returns the 1-based position of the current match and the count.
func (s *Searcher) Index() (int, int) {
	if !s.valid {
		return 0, 0
	}
	return s.current + 1, len(s.matches)
}

// Invalidate marks the matches stale after a document change. The query is
// kept so the next search can rerun it.
func (s *Searcher) Invalidate() {
	s.valid = false
	s.matches = nil
	s.current = -1
}

// Reset clears the query and matches.
func (s *Searcher) Reset() {
	s.Invalidate()
	s.query = ""
}

// ReplaceAll replaces every non-overlapping occurrence of query in lines and
// returns the new lines and the number of replacements. lines is not
// modified.
func (s *Searcher) ReplaceAll(lines []string, query, replacement string) ([]string, int) {
	out := make([]string, len(lines))
	copy(out, lines)
	if query == "" {
		return out, 0
	}

	needle := s.fold(query)
	count := 0
	for i, line := range lines {
		found := s.scan(nil, i, line, needle, false)
		if len(found) == 0 {
			continue
		}
		var sb strings.Builder
		prev := 0
		for _, m := range found {
			start := column.ToByte(line, m.Column)
			sb.WriteString(line[prev:start])
			sb.WriteString(replacement)
			prev = column.ToByte(line, m.Column+m.Length)
		}
		sb.WriteString(line[prev:])
		out[i] = sb.String()
		count += len(found)
	}
	return out, count
}

// fold returns the case-folded form of each rune of text.
func (s *Searcher) fold(text string) []string {
	out := make([]string, 0, len(text))
	for _, r := range text {
		out = append(out, s.foldRune(r))
	}
	return out
}

func (s *Searcher) foldRune(r rune) string {
	if f, ok := s.folded[r]; ok {
		return f
	}
	f := s.folder.String(string(r))
	s.folded[r] = f
	return f
}

// scan appends the matches of needle in line to dst.
func (s *Searcher) scan(dst []Match, lineNo int, line string, needle []string, overlapping bool) []Match {
	if len(needle) == 0 || line == "" {
		return dst
	}
	hay := s.fold(line)
	if len(hay) < len(needle) {
		return dst
	}

	cols := make([]int, len(hay)+1)
	c := 0
	i := 0
	for _, r := range line {
		cols[i] = c
		c += column.Units(r)
		i++
	}
	cols[len(hay)] = c

	for start := 0; start+len(needle) <= len(hay); {
		if !equalAt(hay, start, needle) {
			start++
			continue
		}
		end := start + len(needle)
		dst = append(dst, Match{Line: lineNo, Column: cols[start], Length: cols[end] - cols[start]})
		if overlapping {
			start++
		} else {
			start = end
		}
	}
	return dst
}

func equalAt(hay []string, start int, needle []string) bool {
	for j, n := range needle {
		if hay[start+j] != n {
			return false
		}
	}
	return true
}
