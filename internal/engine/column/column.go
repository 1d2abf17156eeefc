package column

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Units returns the number of UTF-16 code units needed to encode r.
func Units(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}

// Len returns the length of s in UTF-16 code units.
func Len(s string) int {
	n := 0
	for _, r := range s {
		n += Units(r)
	}
	return n
}

// ToByte converts a UTF-16 column to a byte offset within s.
// Columns past the end clamp to len(s). A column inside a surrogate pair
// resolves to the byte offset after the pair.
func ToByte(s string, col int) int {
	if col <= 0 {
		return 0
	}
	c := 0
	for i, r := range s {
		if c >= col {
			return i
		}
		c += Units(r)
	}
	return len(s)
}

// FromByte converts a byte offset within s to a UTF-16 column.
// Offsets inside a multi-byte sequence round up to the next rune boundary.
func FromByte(s string, off int) int {
	if off <= 0 {
		return 0
	}
	if off > len(s) {
		off = len(s)
	}
	c := 0
	for i, r := range s {
		if i >= off {
			return c
		}
		c += Units(r)
	}
	return c
}

// Snap clamps col to [0, Len(s)] and moves it forward out of a surrogate pair.
func Snap(s string, col int) int {
	if col <= 0 {
		return 0
	}
	c := 0
	for _, r := range s {
		if c >= col {
			return c
		}
		c += Units(r)
	}
	return c
}

// Slice returns the substring of s between two UTF-16 columns.
func Slice(s string, from, to int) string {
	if to < from {
		to = from
	}
	return s[ToByte(s, from):ToByte(s, to)]
}

// RuneAt returns the rune that starts at col, or utf8.RuneError and false when
// col is at or past the end of s.
func RuneAt(s string, col int) (rune, bool) {
	b := ToByte(s, col)
	if b >= len(s) {
		return utf8.RuneError, false
	}
	r, _ := utf8.DecodeRuneInString(s[b:])
	return r, true
}

// RuneBefore returns the rune that ends at col.
func RuneBefore(s string, col int) (rune, bool) {
	b := ToByte(s, col)
	if b <= 0 {
		return utf8.RuneError, false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:b])
	return r, true
}

// Next returns the column just past the grapheme cluster that contains col.
// At or past the end of s it returns Len(s).
func Next(s string, col int) int {
	c := 0
	state := -1
	rest := s
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		c += Len(cluster)
		if c > col {
			return c
		}
	}
	return c
}

// Prev returns the column at the start of the grapheme cluster that ends at
// or contains col. At column 0 it returns 0.
func Prev(s string, col int) int {
	if col <= 0 {
		return 0
	}
	c := 0
	state := -1
	rest := s
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		n := Len(cluster)
		if c+n >= col {
			return c
		}
		c += n
	}
	return c
}

// IsSingleCluster reports whether s is exactly one grapheme cluster.
func IsSingleCluster(s string) bool {
	if s == "" {
		return false
	}
	return uniseg.GraphemeClusterCount(s) == 1
}
