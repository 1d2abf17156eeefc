package lexer

import (
	"strings"

	"github.com/alecthomas/chroma/v2"

	"github.com/dshills/scoop/internal/engine/column"
)

// TokenKind classifies a token for display.
type TokenKind uint8

const (
	TokenText TokenKind = iota
	TokenWhitespace     // trailing whitespace
	TokenPunctuation
	TokenComment
	TokenString
	TokenRegex
	TokenNumber
	TokenKeyword
	TokenFunction
	TokenTag
	TokenAttribute
	TokenSelector
	TokenProperty
	TokenAtRule
)

var tokenNames = [...]string{
	TokenText:        "text",
	TokenWhitespace:  "whitespace",
	TokenPunctuation: "punctuation",
	TokenComment:     "comment",
	TokenString:      "string",
	TokenRegex:       "regex",
	TokenNumber:      "number",
	TokenKeyword:     "keyword",
	TokenFunction:    "function",
	TokenTag:         "tag",
	TokenAttribute:   "attribute",
	TokenSelector:    "selector",
	TokenProperty:    "property",
	TokenAtRule:      "at-rule",
}

// String returns the token kind name.
func (k TokenKind) String() string {
	if int(k) < len(tokenNames) {
		return tokenNames[k]
	}
	return "text"
}

// Type returns the chroma token type used to style k.
func (k TokenKind) Type() chroma.TokenType {
	switch k {
	case TokenWhitespace:
		return chroma.TextWhitespace
	case TokenPunctuation:
		return chroma.Punctuation
	case TokenComment:
		return chroma.Comment
	case TokenString:
		return chroma.LiteralString
	case TokenRegex:
		return chroma.LiteralStringRegex
	case TokenNumber:
		return chroma.LiteralNumber
	case TokenKeyword:
		return chroma.Keyword
	case TokenFunction:
		return chroma.NameFunction
	case TokenTag:
		return chroma.NameTag
	case TokenAttribute:
		return chroma.NameAttribute
	case TokenSelector:
		return chroma.NameClass
	case TokenProperty:
		return chroma.NameProperty
	case TokenAtRule:
		return chroma.KeywordReserved
	default:
		return chroma.Text
	}
}

// Token is a classified run of a line. Start and End are UTF-16 columns.
type Token struct {
	Kind  TokenKind
	Start int
	End   int
	Text  string
}

// Chroma converts the token to a chroma token.
func (t Token) Chroma() chroma.Token {
	return chroma.Token{Type: t.Kind.Type(), Value: t.Text}
}

var scriptKeywords = map[string]bool{
	"async": true, "await": true, "break": true, "case": true, "catch": true,
	"class": true, "const": true, "continue": true, "default": true,
	"delete": true, "do": true, "else": true, "export": true, "extends": true,
	"false": true, "finally": true, "for": true, "from": true,
	"function": true, "if": true, "import": true, "in": true,
	"instanceof": true, "let": true, "new": true, "null": true, "of": true,
	"return": true, "super": true, "switch": true, "this": true,
	"throw": true, "true": true, "try": true, "typeof": true,
	"undefined": true, "var": true, "void": true, "while": true,
	"yield": true,
}

// IsScriptKeyword reports whether word is a reserved script word.
func IsScriptKeyword(word string) bool {
	return scriptKeywords[word]
}

// Tokens classifies line i, which must be the text the analysis was built
// from. The returned tokens cover the line without gaps.
func (a *Analysis) Tokens(i int, line string) []Token {
	if line == "" {
		return nil
	}
	tb := tokenBuilder{line: line}
	if a.Line(i).Skipped {
		tb.add(TokenText, 0, len(line))
		return tb.finish()
	}

	for _, sp := range a.Spans(i, line) {
		switch sp.Kind {
		case SpanComment:
			tb.add(TokenComment, sp.Start, sp.End)
		case SpanString:
			tb.add(TokenString, sp.Start, sp.End)
		case SpanRegex:
			tb.add(TokenRegex, sp.Start, sp.End)
		case SpanMarkup:
			tb.markup(sp.Start, sp.End)
		case SpanCode:
			if sp.Language == Style {
				tb.style(sp.Start, sp.End)
			} else {
				tb.script(sp.Start, sp.End)
			}
		}
	}
	tb.trailing()
	return tb.finish()
}

// tokenBuilder accumulates byte-offset tokens and converts them to UTF-16
// columns once at the end.
type tokenBuilder struct {
	line string
	toks []Token
}

func (tb *tokenBuilder) add(kind TokenKind, start, end int) {
	if start >= end {
		return
	}
	if n := len(tb.toks); n > 0 {
		last := &tb.toks[n-1]
		if last.Kind == kind && last.End == start && mergeable(kind) {
			last.End = end
			return
		}
	}
	tb.toks = append(tb.toks, Token{Kind: kind, Start: start, End: end})
}

func mergeable(kind TokenKind) bool {
	switch kind {
	case TokenText, TokenPunctuation, TokenWhitespace, TokenComment, TokenString:
		return true
	}
	return false
}

// trailing splits trailing blanks off a final text token.
func (tb *tokenBuilder) trailing() {
	trimmed := len(strings.TrimRight(tb.line, " \t"))
	if trimmed == len(tb.line) || len(tb.toks) == 0 {
		return
	}
	last := &tb.toks[len(tb.toks)-1]
	if last.Kind != TokenText && last.Kind != TokenPunctuation {
		return
	}
	if last.Start >= trimmed {
		last.Kind = TokenWhitespace
		return
	}
	end := last.End
	last.End = trimmed
	tb.toks = append(tb.toks, Token{Kind: TokenWhitespace, Start: trimmed, End: end})
}

func (tb *tokenBuilder) finish() []Token {
	// token boundaries always fall on rune starts
	cols := make([]int, len(tb.line)+1)
	c := 0
	for i, r := range tb.line {
		cols[i] = c
		c += column.Units(r)
	}
	cols[len(tb.line)] = c

	for i := range tb.toks {
		t := &tb.toks[i]
		t.Text = tb.line[t.Start:t.End]
		t.Start, t.End = cols[t.Start], cols[t.End]
	}
	return tb.toks
}

func (tb *tokenBuilder) script(start, end int) {
	line := tb.line
	for k := start; k < end; {
		c := line[k]
		switch {
		case c == ' ' || c == '\t':
			e := k + 1
			for e < end && (line[e] == ' ' || line[e] == '\t') {
				e++
			}
			tb.add(TokenText, k, e)
			k = e
		case isDigit(c):
			e := scanNumber(line, k, end)
			tb.add(TokenNumber, k, e)
			k = e
		case isWordByte(c):
			e := k + 1
			for e < end && isWordByte(line[e]) {
				e++
			}
			word := line[k:e]
			switch {
			case scriptKeywords[word]:
				tb.add(TokenKeyword, k, e)
			case e < end && line[e] == '(':
				tb.add(TokenFunction, k, e)
			default:
				tb.add(TokenText, k, e)
			}
			k = e
		default:
			tb.add(TokenPunctuation, k, k+1)
			k++
		}
	}
}

func scanNumber(line string, k, end int) int {
	e := k + 1
	for e < end && (isDigit(line[e]) || isAlpha(line[e]) || line[e] == '_' || line[e] == '.') {
		e++
	}
	return e
}

func (tb *tokenBuilder) style(start, end int) {
	line := tb.line
	for k := start; k < end; {
		c := line[k]
		switch {
		case c == ' ' || c == '\t':
			e := k + 1
			for e < end && (line[e] == ' ' || line[e] == '\t') {
				e++
			}
			tb.add(TokenText, k, e)
			k = e
		case c == '@':
			e := k + 1
			for e < end && isStyleName(line[e]) {
				e++
			}
			tb.add(TokenAtRule, k, e)
			k = e
		case isDigit(c) || ((c == '-' || c == '.') && k+1 < end && isDigit(line[k+1])):
			e := k + 1
			for e < end && (isDigit(line[e]) || line[e] == '.') {
				e++
			}
			for e < end && (isAlpha(line[e]) || line[e] == '%') {
				e++
			}
			tb.add(TokenNumber, k, e)
			k = e
		case isStyleName(c) || ((c == '.' || c == '#') && k+1 < end && isStyleName(line[k+1])):
			e := k + 1
			for e < end && isStyleName(line[e]) {
				e++
			}
			tb.add(styleNameKind(line, e, end), k, e)
			k = e
		default:
			tb.add(TokenPunctuation, k, k+1)
			k++
		}
	}
}

// styleNameKind classifies a name by the first significant character that
// follows it: ':' makes a property, '{' or ',' a selector.
func styleNameKind(line string, e, end int) TokenKind {
	for e < end && (line[e] == ' ' || line[e] == '\t') {
		e++
	}
	if e >= end {
		return TokenText
	}
	switch line[e] {
	case ':':
		return TokenProperty
	case '{', ',':
		return TokenSelector
	}
	return TokenText
}

func isStyleName(c byte) bool {
	return isAlpha(c) || isDigit(c) || c == '-' || c == '_' || c >= 0x80
}

func (tb *tokenBuilder) markup(start, end int) {
	line := tb.line
	inTag := false
	for k := start; k < end; {
		c := line[k]
		if !inTag {
			if c == '<' && k+1 < end && (isAlpha(line[k+1]) || line[k+1] == '/' || line[k+1] == '!') {
				e := k + 1
				if line[e] == '/' || line[e] == '!' {
					e++
				}
				tb.add(TokenPunctuation, k, e)
				n := e
				for n < end && (isAlpha(line[n]) || isDigit(line[n]) || line[n] == '-' || line[n] == ':') {
					n++
				}
				tb.add(TokenTag, e, n)
				inTag = true
				k = n
				continue
			}
			e := k + 1
			for e < end && line[e] != '<' {
				e++
			}
			tb.add(TokenText, k, e)
			k = e
			continue
		}

		switch {
		case c == '>':
			tb.add(TokenPunctuation, k, k+1)
			inTag = false
			k++
		case c == '/' || c == '=':
			tb.add(TokenPunctuation, k, k+1)
			k++
		case c == '"' || c == '\'':
			e := strings.IndexByte(line[k+1:end], c)
			if e < 0 {
				tb.add(TokenString, k, end)
				k = end
				continue
			}
			tb.add(TokenString, k, k+e+2)
			k += e + 2
		case c == ' ' || c == '\t':
			tb.add(TokenText, k, k+1)
			k++
		default:
			e := k + 1
			for e < end && !strings.ContainsRune(" \t=>/\"'", rune(line[e])) {
				e++
			}
			tb.add(TokenAttribute, k, e)
			k = e
		}
	}
}
