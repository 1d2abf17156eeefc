// Package search implements case-insensitive substring search over a
// document's lines.
//
// Matching folds case one rune at a time with golang.org/x/text/cases, so a
// match's column and length are measured on the original line and select
// exactly the matched text. Matches never span lines.
//
// By default Find enumerates overlapping matches: "aa" occurs twice in "aaa",
// at columns 0 and 1. ReplaceAll always replaces non-overlapping matches
// from left to right, so replacing "aa" with "b" in "aaa" gives "ba".
//
// A Searcher is not safe for concurrent use; the engine owns one per
// document and guards it with its own lock.
package search
