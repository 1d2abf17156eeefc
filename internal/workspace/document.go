package workspace

import (
	"github.com/google/uuid"

	"github.com/dshills/scoop/internal/engine"
)

// Document is an open file or scratch buffer with its editing engine.
type Document struct {
	// ID identifies the document for the lifetime of the registry.
	ID uuid.UUID

	// Path is the absolute file path (empty for scratch documents).
	Path string

	// Name is the display name.
	Name string

	// Engine is the text buffer and editing engine.
	Engine *engine.Engine
}

// IsScratch returns true if the document has no backing file.
func (d *Document) IsScratch() bool {
	return d.Path == ""
}

// IsDirty returns true if the document has unsaved changes.
func (d *Document) IsDirty() bool {
	return d.Engine.IsDirty()
}

// Content returns the full document content.
func (d *Document) Content() string {
	return d.Engine.Text()
}

// pristine reports whether a scratch document was never touched and may be
// replaced by the next opened file.
func (d *Document) pristine() bool {
	if !d.IsScratch() || d.Engine.IsDirty() || d.Engine.CanUndo() {
		return false
	}
	return d.Engine.LineCount() == 1 && d.Engine.LineText(0) == ""
}
