package storage

import (
	"errors"
	"fmt"
)

// UnavailableError wraps failures to open or query the event store.
// The tool is a single-shot local reader, so these are always fatal and
// never retried.
type UnavailableError struct {
	Op    string
	Path  string
	Cause error
}

// Error implements the error interface
func (e *UnavailableError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("event store unavailable (%s %s): %v", e.Op, e.Path, e.Cause)
	}
	return fmt.Sprintf("event store unavailable (%s): %v", e.Op, e.Cause)
}

// Unwrap returns the underlying error for error unwrapping
func (e *UnavailableError) Unwrap() error {
	return e.Cause
}

// IsUnavailable reports whether err is a store-unavailable error
func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}
