package script

import "errors"

// Errors for script compilation and execution.
var (
	// ErrNoTransform is returned when a script does not define transform.
	ErrNoTransform = errors.New("script does not define a transform function")

	// ErrBadResult is returned when transform returns something other than
	// a string, a table of strings or nil.
	ErrBadResult = errors.New("transform must return a string, a table of lines or nil")

	// ErrTimeout is returned when a script runs past its deadline.
	ErrTimeout = errors.New("script execution timeout")
)
