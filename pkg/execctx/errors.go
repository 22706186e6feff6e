package execctx

import "errors"

// Sentinel errors for execution context operations.
var (
	ErrInputAlreadyPending = errors.New("a user input request is already pending for this execution")
	ErrUserInputTimeout    = errors.New("timed out waiting for user input")
	ErrUserCancelled       = errors.New("execution cancelled while waiting for user input")
	ErrVariableNotFound    = errors.New("variable not found")
)
