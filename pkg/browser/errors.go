package browser

import "errors"

// Sentinel errors for session management.
var (
	ErrConnectFailed     = errors.New("failed to connect to browser")
	ErrNoSession         = errors.New("no active browser session")
	ErrConnectionClosed  = errors.New("browser connection closed")
	ErrInvalidStorageState = errors.New("invalid storage_state payload")
)
