package engine

import "errors"

var (
	// ErrExecutionNotFound means Get/Forget was asked about an
	// execution ID this process has no record of.
	ErrExecutionNotFound = errors.New("engine: execution not found")
)
