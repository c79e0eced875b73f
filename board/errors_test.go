// ABOUTME: Tests for the board error types and their sentinels.
// ABOUTME: Checks errors.Is matching, message formatting and retagging.
package board

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		err      error
		sentinel error
		want     string
	}{
		{&ValidationError{Op: "add kanban card", Field: "description", Reason: "can't be empty"}, ErrValidation,
			"couldn't add kanban card: description can't be empty"},
		{&NotFoundError{Op: "get kanban card", Kind: "kanban card", ID: "42"}, ErrNotFound,
			"couldn't get kanban card: kanban card with id=42 not found"},
		{&ConflictError{Op: "update configuration", Reason: "there is at least one kanban card"}, ErrConflict,
			"couldn't update configuration: there is at least one kanban card"},
		{&InvalidTransitionError{CardID: "7", From: "Requested", To: "Done"}, ErrInvalidTransition,
			"couldn't update card with id=7: invalid stage transition from Requested to Done"},
		{&StateError{Reason: "configuration is not initialized"}, ErrState,
			"invalid board state: configuration is not initialized"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.err.Error())
		assert.ErrorIs(t, tc.err, tc.sentinel)
	}
}

func TestErrorKindsDoNotOverlap(t *testing.T) {
	sentinels := []error{ErrValidation, ErrNotFound, ErrConflict, ErrInvalidTransition, ErrState, ErrStorage}
	err := &ConflictError{Op: "x", Reason: "y"}
	for _, s := range sentinels {
		assert.Equal(t, s == ErrConflict, errors.Is(err, s), "sentinel %v", s)
	}
}

func TestStorageErrorUnwraps(t *testing.T) {
	inner := errors.New("disk full")
	err := storageErr("add kanban card", inner)
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "couldn't add kanban card: storage: disk full", err.Error())
}

func TestRetag(t *testing.T) {
	err := retag(&NotFoundError{Op: "get stage transition", Kind: "stage transition", ID: "1"}, "update stage transition")
	assert.Equal(t, "couldn't update stage transition: stage transition with id=1 not found", err.Error())

	other := errors.New("untouched")
	assert.Same(t, other, retag(other, "anything"))
}
