package buffer

import (
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/dshills/scoop/internal/engine/column"
)

// Errors returned by buffer operations.
var (
	ErrRangeInvalid  = errors.New("invalid range")
	ErrEmptyDocument = errors.New("document must contain at least one line")
)

// LineEnding specifies the line ending style used when serializing.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// Buffer holds a document as a slice of lines.
// It provides the primary interface for text manipulation.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	lines      []string
	revisionID RevisionID
	lineEnding LineEnding
	wholesale  int
}

// NewBuffer creates a new empty buffer holding a single empty line.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		lines:      []string{""},
		revisionID: NewRevisionID(),
		lineEnding: LineEndingLF,
		wholesale:  DefaultWholesaleThreshold,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NewBufferFromString creates a buffer with initial content.
// Any line ending style is accepted.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	b.lines = SplitLines(s)
	return b
}

// NewBufferFromLines creates a buffer from a line slice.
// An empty slice is rejected; lines containing breaks are re-split.
func NewBufferFromLines(lines []string, opts ...Option) (*Buffer, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyDocument
	}
	b := NewBuffer(opts...)
	b.lines = SplitLines(strings.Join(lines, "\n"))
	return b, nil
}

// NormalizeLineEndings converts CRLF and lone CR to LF.
func NormalizeLineEndings(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// SplitLines splits text into lines after normalizing line endings.
// The result always has at least one element.
func SplitLines(s string) []string {
	return strings.Split(NormalizeLineEndings(s), "\n")
}

// Read Operations

// Text returns the full buffer content joined with "\n".
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return strings.Join(b.lines, "\n")
}

// Serialize returns the buffer content joined with the buffer's line ending.
func (b *Buffer) Serialize() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return strings.Join(b.lines, b.lineEnding.Sequence())
}

// Lines returns a copy of the buffer's lines.
func (b *Buffer) Lines() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.lines)
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}

// LineText returns the text of a specific line, or "" when out of range.
func (b *Buffer) LineText(line int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if line < 0 || line >= len(b.lines) {
		return ""
	}
	return b.lines[line]
}

// LineLen returns the length of a line in UTF-16 code units.
func (b *Buffer) LineLen(line int) int {
	return column.Len(b.LineText(line))
}

// IsEmpty returns true if the buffer holds a single empty line.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines) == 1 && b.lines[0] == ""
}

// EndPoint returns the position after the last character.
func (b *Buffer) EndPoint() Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.endPoint()
}

func (b *Buffer) endPoint() Point {
	last := len(b.lines) - 1
	return Point{Line: last, Column: column.Len(b.lines[last])}
}

// FullRange returns the range covering the whole document.
func (b *Buffer) FullRange() PointRange {
	return PointRange{End: b.EndPoint()}
}

// Clamp maps an arbitrary point onto the nearest valid position: the line is
// clamped to the document, the column to the line, and a column inside a
// surrogate pair moves past it.
func (b *Buffer) Clamp(p Point) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.clamp(p)
}

func (b *Buffer) clamp(p Point) Point {
	if p.Line < 0 {
		p.Line = 0
	}
	if p.Line >= len(b.lines) {
		p.Line = len(b.lines) - 1
	}
	p.Column = column.Snap(b.lines[p.Line], p.Column)
	return p
}

// TextRange returns the text between two points, clamping both.
func (b *Buffer) TextRange(start, end Point) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	start, end = b.clamp(start), b.clamp(end)
	if end.Before(start) {
		start, end = end, start
	}
	return b.textRange(start, end)
}

func (b *Buffer) textRange(start, end Point) string {
	first := b.lines[start.Line]
	if start.Line == end.Line {
		return first[column.ToByte(first, start.Column):column.ToByte(first, end.Column)]
	}
	var sb strings.Builder
	sb.WriteString(first[column.ToByte(first, start.Column):])
	for i := start.Line + 1; i < end.Line; i++ {
		sb.WriteByte('\n')
		sb.WriteString(b.lines[i])
	}
	last := b.lines[end.Line]
	sb.WriteByte('\n')
	sb.WriteString(last[:column.ToByte(last, end.Column)])
	return sb.String()
}

// Write Operations

// Replace replaces the text between start and end with text.
//
// The head of the start line prefixes the first inserted segment and the
// tail of the end line suffixes the last; lines in between are excised in
// one step. Both points must be valid positions with start <= end.
func (b *Buffer) Replace(start, end Point, text string) (EditResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.clamp(start) != start || b.clamp(end) != end || end.Before(start) {
		return EditResult{}, ErrRangeInvalid
	}
	return b.replace(start, end, NormalizeLineEndings(text)), nil
}

// SetText replaces the whole document.
func (b *Buffer) SetText(text string) EditResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.replace(Point{}, b.endPoint(), NormalizeLineEndings(text))
}

func (b *Buffer) replace(start, end Point, text string) EditResult {
	oldText := b.textRange(start, end)
	full := start.IsZero() && end == b.endPoint()

	segs := strings.Split(text, "\n")
	head := b.lines[start.Line]
	head = head[:column.ToByte(head, start.Column)]
	tail := b.lines[end.Line]
	tail = tail[column.ToByte(tail, end.Column):]

	last := len(segs) - 1
	newEnd := Point{Line: start.Line + last, Column: column.Len(segs[last])}
	if last == 0 {
		newEnd.Column += start.Column
	}
	segs[0] = head + segs[0]
	segs[last] += tail

	if full || len(b.lines) >= b.wholesale || len(segs) >= b.wholesale {
		rebuilt := make([]string, 0, len(b.lines)-(end.Line-start.Line+1)+len(segs))
		rebuilt = append(rebuilt, b.lines[:start.Line]...)
		rebuilt = append(rebuilt, segs...)
		rebuilt = append(rebuilt, b.lines[end.Line+1:]...)
		b.lines = rebuilt
	} else {
		b.lines = slices.Replace(b.lines, start.Line, end.Line+1, segs...)
	}

	b.revisionID = NewRevisionID()
	return EditResult{
		OldRange:    PointRange{Start: start, End: end},
		NewRange:    PointRange{Start: start, End: newEnd},
		OldText:     oldText,
		FullReplace: full,
		Revision:    b.revisionID,
	}
}

// Metadata

// RevisionID returns the current revision.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// LineEnding returns the line ending used by Serialize.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// Snapshot returns a read-only view of the current content.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return &Snapshot{
		lines:      slices.Clone(b.lines),
		revisionID: b.revisionID,
		lineEnding: b.lineEnding,
	}
}
