package actions

import "errors"

// Sentinel errors surfaced by action Run functions, wrapped with
// node-specific detail at the call site.
var (
	ErrMissingConfig = errors.New("actions: required config field missing")
	ErrNoBrowser     = errors.New("actions: no browser session for this execution")
	ErrConditionType = errors.New("actions: condition expression did not evaluate to a boolean")
	ErrURLNotAllowed = errors.New("actions: url blocked by network policy")
)
