package builder

import (
	"errors"
	"fmt"
)

// ErrUnknownTemplate is returned for a layout name that is not available.
var ErrUnknownTemplate = errors.New("unknown template")

// Error represents a failure building a resume document
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("builder error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("builder error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
