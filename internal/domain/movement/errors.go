package movement

import (
	"errors"
	"fmt"
)

// ErrStoreUnavailable marks failures reaching the document store
var ErrStoreUnavailable = errors.New("movement store unavailable")

// ValidationError reports a malformed or out-of-range input field
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is matches any ValidationError when the target has no field set
func (e ValidationError) Is(target error) bool {
	t, ok := target.(ValidationError)
	if !ok {
		return false
	}
	if t.Field == "" {
		return true
	}
	return e.Field == t.Field
}

// ErrMovementNotFound indicates the referenced movement does not exist
type ErrMovementNotFound struct {
	ID string
}

func (e ErrMovementNotFound) Error() string {
	return "movement not found: " + e.ID
}

// Is implements the errors.Is interface for ErrMovementNotFound
func (e ErrMovementNotFound) Is(target error) bool {
	t, ok := target.(ErrMovementNotFound)
	if !ok {
		return false
	}
	// An empty target ID matches any ErrMovementNotFound
	if t.ID == "" {
		return true
	}
	return e.ID == t.ID
}
