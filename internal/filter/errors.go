package filter

import (
	"errors"
	"fmt"
)

// Error kinds
const (
	// ErrKindInvalidArgument marks a token that matched a variant's loose
	// recognition pattern but failed strict validation during accumulation.
	ErrKindInvalidArgument = "invalid_argument"

	// ErrKindEmptyFilterState marks a predicate rendering attempt on a
	// filter that never accumulated a token. This is an internal
	// consistency fault, not a user error.
	ErrKindEmptyFilterState = "empty_filter_state"
)

// Error represents a filter error with a machine-readable kind
type Error struct {
	Kind    string
	Message string
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewInvalidArgument creates an invalid-argument error
func NewInvalidArgument(message string, cause error) *Error {
	return &Error{
		Kind:    ErrKindInvalidArgument,
		Message: message,
		Cause:   cause,
	}
}

// NewEmptyFilterState creates an empty-filter-state error
func NewEmptyFilterState(message string) *Error {
	return &Error{
		Kind:    ErrKindEmptyFilterState,
		Message: message,
	}
}

// IsInvalidArgument reports whether err carries the invalid-argument kind
func IsInvalidArgument(err error) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == ErrKindInvalidArgument
}

// IsEmptyFilterState reports whether err carries the empty-filter-state kind
func IsEmptyFilterState(err error) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == ErrKindEmptyFilterState
}
