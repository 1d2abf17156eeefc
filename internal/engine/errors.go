package engine

import (
	"errors"

	"github.com/dshills/scoop/internal/engine/buffer"
)

// Errors returned by engine operations.
var (
	// ErrRangeInvalid indicates a position outside the document or a range
	// whose end precedes its start.
	ErrRangeInvalid = buffer.ErrRangeInvalid

	// ErrEmptyDocument indicates an attempt to load zero lines.
	ErrEmptyDocument = buffer.ErrEmptyDocument

	// ErrStale indicates the document changed while a transform was computed.
	ErrStale = errors.New("document changed during transform")

	// ErrTransformFailed wraps an error returned by a transform function.
	ErrTransformFailed = errors.New("transform failed")
)
