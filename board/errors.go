// ABOUTME: Error taxonomy for board operations: validation, not-found, conflict, transition, state, storage.
// ABOUTME: Each typed error matches its sentinel via errors.Is so callers can branch on the kind alone.
package board

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed or empty input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a reference to an unknown card or rule.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks an operation that violates a structural precondition.
	ErrConflict = errors.New("conflict")

	// ErrInvalidTransition marks a stage change denied by a rule.
	ErrInvalidTransition = errors.New("invalid stage transition")

	// ErrState marks a board whose own state is unusable.
	ErrState = errors.New("invalid board state")

	// ErrStorage marks a failure in the underlying map store.
	ErrStorage = errors.New("storage failure")
)

// ValidationError reports a field that failed validation.
type ValidationError struct {
	Op     string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("couldn't %s: %s %s", e.Op, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError reports an unknown identifier.
type NotFoundError struct {
	Op   string
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("couldn't %s: %s with id=%s not found", e.Op, e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ConflictError reports a violated precondition.
type ConflictError struct {
	Op     string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("couldn't %s: %s", e.Op, e.Reason)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// InvalidTransitionError reports a stage change blocked by a rule.
type InvalidTransitionError struct {
	CardID string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("couldn't update card with id=%s: invalid stage transition from %s to %s", e.CardID, e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// StateError reports board state that should never occur after construction.
type StateError struct {
	Reason string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("invalid board state: %s", e.Reason)
}

func (e *StateError) Is(target error) bool { return target == ErrState }

// StorageError wraps a failure returned by a map or settings store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("couldn't %s: storage: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
