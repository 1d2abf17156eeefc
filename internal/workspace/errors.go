package workspace

import (
	"errors"
	"fmt"
)

// Sentinel errors for registry operations.
var (
	// ErrDocumentNotFound indicates the document id is not registered.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrLastDocument indicates an attempt to close the only open document.
	ErrLastDocument = errors.New("cannot close the last document")

	// ErrUnsavedChanges indicates the document has unsaved changes.
	ErrUnsavedChanges = errors.New("document has unsaved changes")

	// ErrNoPath indicates a scratch document was saved without a path.
	ErrNoPath = errors.New("document has no file path")
)

// OperationError wraps a failure of a registry operation with the
// document it was applied to.
type OperationError struct {
	Op     string // Operation name (e.g., "open", "save")
	Target string // Path or document name
	Err    error  // Underlying error
}

// newOpError creates a new OperationError.
func newOpError(op, target string, err error) *OperationError {
	return &OperationError{Op: op, Target: target, Err: err}
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Op
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
