package critique

import "fmt"

// Error reports a failed AI critique. Cause holds the client error, if any.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("critique failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("critique failed: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
