// Package column converts between byte offsets and UTF-16 code-unit columns
// and steps across grapheme clusters.
//
// Every column handed out by the engine counts UTF-16 code units, the unit
// browser-hosted and LSP-speaking clients use. Lines themselves are stored as
// UTF-8 Go strings, so each package that indexes into a line goes through the
// helpers here.
//
// A valid column never falls inside a surrogate pair. Horizontal caret
// motion goes further and never stops inside a grapheme cluster, so a
// flag, a skin-toned emoji, or a ZWJ sequence is traversed in one step.
package column
