package storage

import "errors"

var (
	ErrMissingExecutionID = errors.New("storage: execution id is required")
	ErrExecutionNotFound  = errors.New("storage: execution record not found")
	ErrStoreUnavailable   = errors.New("storage: backing store unavailable")
	ErrEncodeFailed       = errors.New("storage: failed to encode execution record")
	ErrDecodeFailed       = errors.New("storage: failed to decode execution record")
)
