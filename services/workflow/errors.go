package workflow

import (
	"errors"
	"fmt"
)

// ValidationError rejects one step input. It is recovered locally: the
// machine re-prompts the same step and never surfaces it to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError is unrecoverable within a run: duplicate license plate,
// vanished category. The workflow terminates with a message.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// UpstreamError wraps a dependency failure (photo store, persistence).
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// IsConflict reports whether err terminates the workflow as a data conflict.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
