// ABOUTME: Tests for the YAML board snapshot writer.
// ABOUTME: Checks the document layout and ordering of cards and rules.
package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/2389-research/kanban/board"
)

func TestExportYAML(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	updated := t0.Add(time.Hour)
	snap := board.Snapshot{
		Configuration: board.Configuration{InitialStage: "Requested"},
		Rules: []board.TransitionRule{
			{ID: "r1", StageFrom: "Requested", StageTo: "Done", CreatedAt: t0},
		},
		Cards: []board.Card{
			{ID: "c3", Description: "ship", Assignee: "ada", Stage: "Done", CreatedAt: t0, Deadline: t0, UpdatedAt: &updated},
			{ID: "c2", Description: "review", Assignee: "grace", Stage: "Requested", CreatedAt: t0.Add(2 * time.Minute), Deadline: t0},
			{ID: "c1", Description: "draft", Assignee: "ada", Stage: "Requested", CreatedAt: t0.Add(time.Minute), Deadline: t0},
			{ID: "c4", Description: "test", Assignee: "linus", Stage: "Backlog", CreatedAt: t0, Deadline: t0},
		},
	}

	out, err := ExportYAML(snap)
	require.NoError(t, err)

	var doc YamlBoard
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))

	assert.Equal(t, "Requested", doc.InitialStage)
	assert.Equal(t, []YamlRule{{ID: "r1", From: "Requested", To: "Done"}}, doc.DisallowedTransitions)

	require.Len(t, doc.Stages, 3)
	assert.Equal(t, "Requested", doc.Stages[0].Name)
	assert.Equal(t, "Backlog", doc.Stages[1].Name)
	assert.Equal(t, "Done", doc.Stages[2].Name)

	requested := doc.Stages[0].Cards
	require.Len(t, requested, 2)
	assert.Equal(t, "c1", requested[0].ID)
	assert.Equal(t, "c2", requested[1].ID)

	done := doc.Stages[2].Cards[0]
	assert.Equal(t, "2026-03-01T10:00:00Z", done.UpdatedAt)
	assert.Equal(t, "2026-03-01T09:00:00Z", done.Deadline)
	assert.Empty(t, requested[0].UpdatedAt)
}

func TestExportYAML_EmptyBoard(t *testing.T) {
	out, err := ExportYAML(board.Snapshot{Configuration: board.Configuration{InitialStage: "Requested"}})
	require.NoError(t, err)
	assert.Contains(t, out, "initial_stage: Requested")
	assert.Contains(t, out, "disallowed_transitions: []")
	assert.Contains(t, out, "stages: []")
}
