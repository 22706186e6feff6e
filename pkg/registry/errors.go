package registry

import (
	"errors"
	"fmt"

	"github.com/webauto/engine/pkg/types"
)

// Sentinel errors for action validation/dispatch.
var (
	ErrValidation  = errors.New("action parameter validation failed")
	ErrLocation    = errors.New("element could not be located")
	ErrUserCancel  = errors.New("execution cancelled by user")
	ErrUnknownName = errors.New("unknown action type")
)

// ErrUnknownAction formats ErrUnknownName with the offending type name.
func ErrUnknownAction(actionType types.ActionType) error {
	return fmt.Errorf("%w: %s", ErrUnknownName, actionType)
}
