// Package tools implements whole-document text transforms and navigation
// helpers that run over a lexical analysis.
//
// Every function takes the document lines together with the
// lexer.Analysis built from those same lines, and none of them mutate
// their input. Transforms return fresh line slices that the engine applies
// as a single full-document replace, so each transform is one undo step.
//
// Lines that begin inside a multi-line construct (a block comment, a
// carried string or a markup comment) are protected: whitespace transforms
// leave them byte-for-byte intact.
package tools
