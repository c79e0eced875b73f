// ABOUTME: Tests for the in-memory key-ordered map and settings store.
// ABOUTME: Covers ordering, conflicts, value isolation and settings.
package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/2389-research/kanban/board"
	"github.com/2389-research/kanban/store"
)

func TestMemory_InsertReturnsPrevious(t *testing.T) {
	m := store.NewMemory[string]()

	prev, existed, err := m.Insert("a", "one")
	require.NoError(t, err)
	assert.False(t, existed)
	assert.Equal(t, "", prev)

	prev, existed, err = m.Insert("a", "two")
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, "one", prev)

	got, ok, err := m.Get("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two", got)

	n, err := m.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemory_RemoveReturnsRemoved(t *testing.T) {
	m := store.NewMemory[string]()
	_, _, err := m.Insert("a", "one")
	require.NoError(t, err)

	removed, ok, err := m.Remove("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "one", removed)

	_, ok, err = m.Remove("a")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = m.Get("a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory_ValuesInKeyOrder(t *testing.T) {
	m := store.NewMemory[string]()
	for _, k := range []string{"c", "a", "d", "b"} {
		_, _, err := m.Insert(k, "v-"+k)
		require.NoError(t, err)
	}
	_, _, err := m.Remove("d")
	require.NoError(t, err)

	values, err := m.Values()
	require.NoError(t, err)
	assert.Equal(t, []string{"v-a", "v-b", "v-c"}, values)
	assert.Equal(t, []string{"a", "b", "c"}, m.Keys())
}

func TestMemory_EmptyValuesIsNotNil(t *testing.T) {
	values, err := store.NewMemory[int]().Values()
	require.NoError(t, err)
	assert.NotNil(t, values)
	assert.Empty(t, values)
}

// Keys stay sorted and consistent with the data under any insert/remove mix.
func TestMemory_KeysStaySorted(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		m := store.NewMemory[int]()
		model := map[string]int{}

		ops := rapid.IntRange(1, 50).Draw(r, "ops")
		for i := 0; i < ops; i++ {
			key := rapid.StringMatching(`[a-e]{1,2}`).Draw(r, "key")
			if rapid.Bool().Draw(r, "insert") {
				_, _, err := m.Insert(key, i)
				require.NoError(r, err)
				model[key] = i
			} else {
				_, _, err := m.Remove(key)
				require.NoError(r, err)
				delete(model, key)
			}
		}

		keys := m.Keys()
		assert.Len(r, keys, len(model))
		for i := 1; i < len(keys); i++ {
			assert.Less(r, keys[i-1], keys[i])
		}
		for _, k := range keys {
			v, ok, err := m.Get(k)
			require.NoError(r, err)
			assert.True(r, ok)
			assert.Equal(r, model[k], v)
		}
	})
}

func TestMemorySettings(t *testing.T) {
	s := store.NewMemorySettings()

	_, ok, err := s.LoadConfiguration()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SaveConfiguration(board.Configuration{InitialStage: "Backlog"}))
	cfg, ok, err := s.LoadConfiguration()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Backlog", cfg.InitialStage)
}

func TestMemory_ValuesDoNotAliasStoredRecords(t *testing.T) {
	m := store.NewMemory[board.Card]()
	stamp := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	card := board.Card{ID: "c1", Description: "write docs", Assignee: "ada", Stage: "Review", UpdatedAt: &stamp}
	_, _, err := m.Insert(card.ID, card)
	require.NoError(t, err)

	// Mutating the inserted pointer leaves the stored copy alone.
	stamp = stamp.Add(time.Hour)

	got, ok, err := m.Get(card.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, got.UpdatedAt)
	assert.Equal(t, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), *got.UpdatedAt)

	*got.UpdatedAt = time.Time{}
	values, err := m.Values()
	require.NoError(t, err)
	require.Len(t, values, 1)
	*values[0].UpdatedAt = time.Time{}

	again, _, err := m.Get(card.ID)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), *again.UpdatedAt)

	rules := store.NewMemory[board.TransitionRule]()
	rule := board.TransitionRule{ID: "r1", StageFrom: "A", StageTo: "B", UpdatedAt: &stamp}
	_, _, err = rules.Insert(rule.ID, rule)
	require.NoError(t, err)
	stored, _, err := rules.Get(rule.ID)
	require.NoError(t, err)
	assert.NotSame(t, rule.UpdatedAt, stored.UpdatedAt)
	assert.Equal(t, *rule.UpdatedAt, *stored.UpdatedAt)
}
