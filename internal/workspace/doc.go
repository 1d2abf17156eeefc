// Package workspace keeps the set of open documents and tracks which one
// is active.
//
// Each Document owns its own engine, so caret, selection, history and
// search state survive switching between documents. Documents are keyed by
// a random uuid; paths are resolved to absolute form and a file that is
// already open is reactivated rather than loaded twice.
//
// The registry is never empty. It starts with one scratch document and
// refuses to close the last one. A pristine scratch document (never edited,
// still empty) is replaced in place when a file is opened.
//
// Usage:
//
//	reg := workspace.New(workspace.WithEngineOptions(cfg.EngineOptions()...))
//	doc, err := reg.Open("main.js")
//	doc.Engine.InsertText("// hello\n")
//	err = reg.Save(doc.ID)
package workspace
