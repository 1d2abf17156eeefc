// Package lexer tracks the lexical state of documents that mix three
// languages: markup, script embedded in <script> elements, and style sheets
// embedded in <style> elements.
//
// Everything is built on one primitive, ScanLine, which walks a single line
// from a given State and reports Spans (code, markup, comment, string,
// regex) to a caller-supplied function. The tracker, the tokenizer, the
// comment stripper and comment/function navigation all differ only in what
// they do with those spans.
//
// Analyze runs ScanLine over every line and records, for each line, the
// sub-language it belongs to and the construct carried into it from the
// previous line (block comment, string, markup comment). A line whose
// carry-in state is not CarryNone is protected: bulk edits that could
// corrupt the construct skip it.
//
// Documents whose file name has a .js, .mjs, .cjs, .ts or .json extension
// are scanned as script throughout, and .css files as style; tag
// switching is disabled for them. Any other name starts in markup.
//
// Lines longer than the scan limit are not scanned. Their entry state is
// passed through unchanged and they tokenize as plain text.
package lexer
