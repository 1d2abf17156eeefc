package cursor

import (
	"unicode"

	"github.com/dshills/scoop/internal/engine/column"
)

type runeClass uint8

const (
	classSpace runeClass = iota
	classWord
	classPunct
)

// IsWordRune reports whether r belongs to a word: letters, digits, '_' and '$'.
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || r == '_' || r == '$'
}

func classOf(r rune) runeClass {
	switch {
	case unicode.IsSpace(r):
		return classSpace
	case IsWordRune(r):
		return classWord
	default:
		return classPunct
	}
}

// WordBoundary returns the next word boundary from p in direction dir
// (negative for backward). Whitespace runs are skipped; a run of word
// characters or a run of punctuation forms one stop. At a line edge the
// boundary is the adjacent line's end or start.
func WordBoundary(lines Lines, p Point, dir int) Point {
	text := lines.LineText(p.Line)
	runes, cols := decode(text)
	idx := indexAt(cols, p.Column)

	if dir < 0 {
		if idx == 0 {
			return Left(lines, Point{Line: p.Line})
		}
		i := idx
		for i > 0 && classOf(runes[i-1]) == classSpace {
			i--
		}
		if i > 0 {
			cls := classOf(runes[i-1])
			for i > 0 && classOf(runes[i-1]) == cls {
				i--
			}
		}
		return Point{Line: p.Line, Column: cols[i]}
	}

	if idx == len(runes) {
		return Right(lines, p)
	}
	i := idx
	cls := classOf(runes[i])
	if cls != classSpace {
		for i < len(runes) && classOf(runes[i]) == cls {
			i++
		}
	}
	for i < len(runes) && classOf(runes[i]) == classSpace {
		i++
	}
	return Point{Line: p.Line, Column: cols[i]}
}

// WordAt returns the column range of the word touching col, preferring the
// word to the right. ok is false when col touches no word character.
func WordAt(line string, col int) (start, end int, ok bool) {
	runes, cols := decode(line)
	idx := indexAt(cols, col)

	switch {
	case idx < len(runes) && IsWordRune(runes[idx]):
	case idx > 0 && IsWordRune(runes[idx-1]):
		idx--
	default:
		return col, col, false
	}

	s, e := idx, idx
	for s > 0 && IsWordRune(runes[s-1]) {
		s--
	}
	for e < len(runes) && IsWordRune(runes[e]) {
		e++
	}
	return cols[s], cols[e], true
}

// decode returns the runes of s and the UTF-16 column of each rune start,
// with a final entry for the end of the line.
func decode(s string) ([]rune, []int) {
	runes := make([]rune, 0, len(s))
	cols := make([]int, 0, len(s)+1)
	c := 0
	for _, r := range s {
		runes = append(runes, r)
		cols = append(cols, c)
		c += column.Units(r)
	}
	cols = append(cols, c)
	return runes, cols
}

// indexAt returns the rune index whose column is the first at or after col.
func indexAt(cols []int, col int) int {
	for i, c := range cols {
		if c >= col {
			return i
		}
	}
	return len(cols) - 1
}
