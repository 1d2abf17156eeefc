package lexer

import "strings"

// State is the scanner state between lines.
type State struct {
	Language      Language
	Locked        bool // language fixed by file extension
	Block         bool // inside /* */
	Quote         byte // inside a string opened with Quote
	MarkupComment bool // inside <!-- -->
	TagPending    bool // saw <script or <style, waiting for '>'
	TagTarget     Language
}

// Carry returns the construct open in s.
func (s State) Carry() Carry {
	switch {
	case s.MarkupComment:
		return Carry{Kind: CarryMarkupComment}
	case s.Block:
		return Carry{Kind: CarryBlockComment}
	case s.Quote != 0:
		return Carry{Kind: CarryString, Quote: s.Quote}
	}
	return Carry{}
}

// SpanKind classifies a run of bytes reported by ScanLine.
type SpanKind uint8

const (
	SpanCode    SpanKind = iota // script or style source outside literals
	SpanMarkup                  // markup text and tags
	SpanComment                 // any comment, including <!-- -->
	SpanString
	SpanRegex
)

// String returns the span kind name.
func (k SpanKind) String() string {
	switch k {
	case SpanMarkup:
		return "markup"
	case SpanComment:
		return "comment"
	case SpanString:
		return "string"
	case SpanRegex:
		return "regex"
	default:
		return "code"
	}
}

// Span is a classified byte range of a line.
type Span struct {
	Kind     SpanKind
	Language Language
	Start    int  // byte offset, inclusive
	End      int  // byte offset, exclusive
	Opened   bool // the construct's opening delimiter is at Start
}

// regexPrefix lists the characters after which '/' opens a regex literal.
const regexPrefix = "(=,:?[{!&|;+-*/%^<>~"

var regexKeywords = map[string]bool{
	"return": true, "case": true, "throw": true, "await": true,
	"typeof": true, "void": true, "yield": true, "delete": true,
}

// ScanLine scans one line starting in state st and returns the state at the
// end of the line. Each classified span is passed to emit in order;
// adjacent spans of the same kind and language are merged. emit may be nil.
func ScanLine(line string, st State, emit func(Span)) State {
	s := scanner{line: line, st: st, emit: emit}
	s.run()
	return s.st
}

type scanner struct {
	line string
	st   State
	emit func(Span)

	pending   Span
	hasPend   bool
	continued bool // line ends inside a string with a backslash

	lastSig     byte
	lastWord    string
	lastWasWord bool
}

func (s *scanner) run() {
	n := len(s.line)
	for i := 0; i < n; {
		switch {
		case s.st.MarkupComment:
			i = s.markupComment(i, i, false)
		case s.st.Language == Markup:
			i = s.markup(i)
		case s.st.Block:
			i = s.blockComment(i, i, false)
		case s.st.Quote != 0:
			i = s.str(i, i, false)
		default:
			i = s.code(i)
		}
	}
	s.flush()

	if s.st.Quote != 0 && s.st.Quote != '`' && !s.continued {
		s.st.Quote = 0
	}
}

func (s *scanner) span(kind SpanKind, start, end int, opened bool) {
	if start >= end || s.emit == nil {
		return
	}
	lang := s.st.Language
	if kind == SpanMarkup || (kind == SpanComment && s.st.MarkupComment) {
		lang = Markup
	}
	if s.hasPend && !opened && s.pending.Kind == kind && s.pending.Language == lang && s.pending.End == start {
		s.pending.End = end
		return
	}
	s.flush()
	s.pending = Span{Kind: kind, Language: lang, Start: start, End: end, Opened: opened}
	s.hasPend = true
}

func (s *scanner) flush() {
	if s.hasPend {
		s.emit(s.pending)
		s.hasPend = false
	}
}

// operand records that the last significant token was a value, so a
// following '/' divides.
func (s *scanner) operand() {
	s.lastWasWord = false
	s.lastSig = ')'
}

func (s *scanner) resetExpr() {
	s.lastWasWord = false
	s.lastSig = 0
	s.lastWord = ""
}

func (s *scanner) regexAllowed() bool {
	if s.lastWasWord {
		return regexKeywords[s.lastWord]
	}
	if s.lastSig == 0 {
		return true
	}
	return strings.IndexByte(regexPrefix, s.lastSig) >= 0
}

func (s *scanner) markup(i int) int {
	line := s.line
	n := len(line)

	if s.st.TagPending {
		j := strings.IndexByte(line[i:], '>')
		if j < 0 {
			s.span(SpanMarkup, i, n, false)
			return n
		}
		end := i + j + 1
		s.span(SpanMarkup, i, end, false)
		s.st.TagPending = false
		s.st.Language = s.st.TagTarget
		s.resetExpr()
		return end
	}

	for j := i; ; {
		k := strings.IndexByte(line[j:], '<')
		if k < 0 {
			s.span(SpanMarkup, i, n, false)
			return n
		}
		k += j
		if strings.HasPrefix(line[k:], "<!--") {
			s.span(SpanMarkup, i, k, false)
			s.st.MarkupComment = true
			return s.markupComment(k, k+4, true)
		}
		if lang, size := openingTag(line[k:]); size > 0 {
			s.span(SpanMarkup, i, k+size, false)
			s.st.TagPending = true
			s.st.TagTarget = lang
			return k + size
		}
		j = k + 1
	}
}

func (s *scanner) markupComment(start, from int, opened bool) int {
	n := len(s.line)
	j := strings.Index(s.line[from:], "-->")
	if j < 0 {
		s.span(SpanComment, start, n, opened)
		return n
	}
	end := from + j + 3
	s.span(SpanComment, start, end, opened)
	s.st.MarkupComment = false
	return end
}

func (s *scanner) blockComment(start, from int, opened bool) int {
	n := len(s.line)
	j := strings.Index(s.line[from:], "*/")
	if j < 0 {
		s.span(SpanComment, start, n, opened)
		return n
	}
	end := from + j + 2
	s.span(SpanComment, start, end, opened)
	s.st.Block = false
	return end
}

func (s *scanner) str(start, from int, opened bool) int {
	line := s.line
	n := len(line)
	q := s.st.Quote
	for k := from; k < n; {
		c := line[k]
		if c == '\\' {
			if k+1 >= n {
				s.continued = true
			}
			k += 2
			continue
		}
		k++
		if c == q {
			s.span(SpanString, start, k, opened)
			s.st.Quote = 0
			s.operand()
			return k
		}
	}
	s.span(SpanString, start, n, opened)
	return n
}

func (s *scanner) code(i int) int {
	line := s.line
	n := len(line)
	lang := s.st.Language

	for k := i; k < n; {
		c := line[k]
		switch {
		case c == '<' && !s.st.Locked && closingTag(line[k:], lang):
			s.span(SpanCode, i, k, false)
			s.st.Language = Markup
			return k
		case c == '/' && k+1 < n && line[k+1] == '*':
			s.span(SpanCode, i, k, false)
			s.st.Block = true
			return s.blockComment(k, k+2, true)
		case c == '/' && k+1 < n && line[k+1] == '/' && lang == Script:
			s.span(SpanCode, i, k, false)
			return s.lineComment(k)
		case c == '"' || c == '\'' || (c == '`' && lang == Script):
			s.span(SpanCode, i, k, false)
			s.st.Quote = c
			return s.str(k, k+1, true)
		case c == '/' && lang == Script && s.regexAllowed():
			s.span(SpanCode, i, k, false)
			return s.regex(k)
		case isWordByte(c):
			e := k + 1
			for e < n && isWordByte(line[e]) {
				e++
			}
			s.lastWord = line[k:e]
			s.lastWasWord = true
			s.lastSig = line[e-1]
			k = e
			continue
		case c == ' ' || c == '\t':
		default:
			s.lastSig = c
			s.lastWasWord = false
		}
		k++
	}
	s.span(SpanCode, i, n, false)
	return n
}

// lineComment scans a // comment. Outside locked documents an unquoted
// </script closes the element even inside the comment; text between double
// quotes or backticks in the comment body is skipped.
func (s *scanner) lineComment(k int) int {
	line := s.line
	n := len(line)
	if !s.st.Locked {
		for m := k + 2; m < n; {
			c := line[m]
			if c == '"' || c == '`' {
				e := strings.IndexByte(line[m+1:], c)
				if e < 0 {
					break
				}
				m += e + 2
				continue
			}
			if c == '<' && closingTag(line[m:], Script) {
				s.span(SpanComment, k, m, true)
				s.st.Language = Markup
				return m
			}
			m++
		}
	}
	s.span(SpanComment, k, n, true)
	return n
}

func (s *scanner) regex(k int) int {
	line := s.line
	n := len(line)
	inClass := false
	for m := k + 1; m < n; {
		c := line[m]
		switch {
		case c == '\\':
			m += 2
			continue
		case c == '[':
			inClass = true
		case c == ']':
			inClass = false
		case c == '/' && !inClass:
			m++
			for m < n && isAlpha(line[m]) {
				m++
			}
			s.span(SpanRegex, k, m, true)
			s.operand()
			return m
		}
		m++
	}
	s.span(SpanRegex, k, n, true)
	s.operand()
	return n
}

// openingTag reports whether rest starts with <script or <style and returns
// the embedded language and the length of the matched prefix.
func openingTag(rest string) (Language, int) {
	switch {
	case hasTagPrefix(rest, "<script"):
		return Script, len("<script")
	case hasTagPrefix(rest, "<style"):
		return Style, len("<style")
	}
	return Markup, 0
}

func closingTag(rest string, lang Language) bool {
	switch lang {
	case Script:
		return hasTagPrefix(rest, "</script")
	case Style:
		return hasTagPrefix(rest, "</style")
	}
	return false
}

// hasTagPrefix matches a tag name case-insensitively and requires that the
// name is not followed by another name character.
func hasTagPrefix(rest, prefix string) bool {
	if len(rest) < len(prefix) || !strings.EqualFold(rest[:len(prefix)], prefix) {
		return false
	}
	if len(rest) == len(prefix) {
		return true
	}
	c := rest[len(prefix)]
	return !isAlpha(c) && !isDigit(c) && c != '-'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// isWordByte reports identifier bytes. Bytes of multi-byte UTF-8 sequences
// count, so non-ASCII letters stay inside identifiers.
func isWordByte(c byte) bool {
	return isAlpha(c) || isDigit(c) || c == '_' || c == '$' || c >= 0x80
}
