package report

import (
	"errors"
	"fmt"
)

// ErrConfirmationRequired is wrapped by every PreconditionError returned from Clear
var ErrConfirmationRequired = errors.New("confirmation required")

// ValidationError describes a rejected report submission
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PreconditionError is returned when a destructive action lacks its confirmation token
type PreconditionError struct {
	Hint string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%v: %s", ErrConfirmationRequired, e.Hint)
}

func (e *PreconditionError) Unwrap() error {
	return ErrConfirmationRequired
}
