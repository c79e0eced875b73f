// ABOUTME: Shared fixtures for board tests: in-memory stores, sequential ids, and a ticking clock.
// ABOUTME: Lives in board_test so it can use the store package without an import cycle.
package board_test

import (
	"errors"
	"fmt"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/2389-research/kanban/board"
	"github.com/2389-research/kanban/store"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type testBoard struct {
	*board.Board
	rules    *store.Memory[board.TransitionRule]
	cards    *store.Memory[board.Card]
	settings *store.MemorySettings
}

// newTestBoard builds a board over fresh memory stores. Ids are id-0001,
// id-0002, ... and each clock reading is one second after the previous.
func newTestBoard(t require.TestingT, mods ...func(*board.Options)) *testBoard {
	tb := &testBoard{
		rules:    store.NewMemory[board.TransitionRule](),
		cards:    store.NewMemory[board.Card](),
		settings: store.NewMemorySettings(),
	}
	opts := board.Options{
		Rules:    tb.rules,
		Cards:    tb.cards,
		Settings: tb.settings,
		IDs:      sequentialIDs(),
		Clock:    tickingClock(),
	}
	for _, mod := range mods {
		mod(&opts)
	}
	b, err := board.New(opts)
	require.NoError(t, err)
	tb.Board = b
	return tb
}

func sequentialIDs() board.IDGenerator {
	n := 0
	return board.IDGeneratorFunc(func() string {
		n++
		return fmt.Sprintf("id-%04d", n)
	})
}

func tickingClock() board.Clock {
	n := 0
	return board.ClockFunc(func() time.Time {
		n++
		return epoch.Add(time.Duration(n) * time.Second)
	})
}

func cardPayload(description, assignee string) board.CardPayload {
	return board.CardPayload{
		Description: description,
		Assignee:    assignee,
		Deadline:    epoch.Add(72 * time.Hour),
	}
}

func rulePayload(from, to string) board.RulePayload {
	return board.RulePayload{StageFrom: from, StageTo: to}
}

var errDiskGone = errors.New("disk gone")

// brokenMap fails every call with errDiskGone.
type brokenMap[V any] struct{}

func (brokenMap[V]) Get(string) (V, bool, error) {
	var zero V
	return zero, false, errDiskGone
}

func (brokenMap[V]) Insert(string, V) (V, bool, error) {
	var zero V
	return zero, false, errDiskGone
}

func (brokenMap[V]) Remove(string) (V, bool, error) {
	var zero V
	return zero, false, errDiskGone
}

func (brokenMap[V]) Values() ([]V, error) { return nil, errDiskGone }

func (brokenMap[V]) Count() (int, error) { return 0, errDiskGone }

type brokenSettings struct {
	loadErr error
	saveErr error
}

func (s brokenSettings) LoadConfiguration() (board.Configuration, bool, error) {
	return board.Configuration{}, false, s.loadErr
}

func (s brokenSettings) SaveConfiguration(board.Configuration) error { return s.saveErr }
