package lexer

import (
	"path/filepath"
	"strings"
)

// Language identifies one of the embedded languages.
type Language uint8

const (
	Markup Language = iota
	Script
	Style
)

// String returns the language name.
func (l Language) String() string {
	switch l {
	case Script:
		return "script"
	case Style:
		return "style"
	default:
		return "markup"
	}
}

// CarryKind identifies a construct that continues onto the next line.
type CarryKind uint8

const (
	CarryNone CarryKind = iota
	CarryBlockComment
	CarryString
	CarryMarkupComment
)

// String returns a short name for the carry kind.
func (k CarryKind) String() string {
	switch k {
	case CarryBlockComment:
		return "block-comment"
	case CarryString:
		return "string"
	case CarryMarkupComment:
		return "markup-comment"
	default:
		return "none"
	}
}

// Carry is the lexical construct open at the start of a line.
type Carry struct {
	Kind  CarryKind
	Quote byte // delimiter when Kind is CarryString
}

// String returns a short description, e.g. "string(`)".
func (c Carry) String() string {
	if c.Kind == CarryString {
		return "string(" + string(c.Quote) + ")"
	}
	return c.Kind.String()
}

// LineState is the per-line result of analysis.
type LineState struct {
	Language Language // language at the line's first non-blank character
	Carry    Carry    // construct carried in from the previous line
	Skipped  bool     // line exceeded the scan limit
}

// Protected reports whether the line starts inside a multi-line construct.
func (s LineState) Protected() bool {
	return s.Carry.Kind != CarryNone
}

// LanguageForFile returns the locked language for a file name, and whether
// the name locks it at all.
func LanguageForFile(name string) (Language, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".js", ".mjs", ".cjs", ".ts", ".json":
		return Script, true
	case ".css":
		return Style, true
	}
	return Markup, false
}

// Initial returns the scanner state at the top of a document named name.
func Initial(name string) State {
	lang, locked := LanguageForFile(name)
	return State{Language: lang, Locked: locked}
}
