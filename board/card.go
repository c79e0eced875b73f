// ABOUTME: Card is a kanban work item that moves through free-form stages on the board.
// ABOUTME: Only the three caller-editable fields and the stage are ever mutated after creation.
package board

import "time"

// Card is a single work item on the board.
type Card struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Assignee    string     `json:"assignee"`
	Deadline    time.Time  `json:"deadline"`
	Stage       string     `json:"stage"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// CardPayload carries the fields a caller may set on a card. The stage is
// deliberately absent: new cards always start in the configured initial stage.
type CardPayload struct {
	Description string    `json:"description" jsonschema:"minLength=1"`
	Assignee    string    `json:"assignee" jsonschema:"minLength=1"`
	Deadline    time.Time `json:"deadline"`
}

// StagePayload is the body of a stage change request.
type StagePayload struct {
	Stage string `json:"stage"`
}

func newCard(id string, p CardPayload, stage string, now time.Time) Card {
	return Card{
		ID:          id,
		Description: p.Description,
		Assignee:    p.Assignee,
		Deadline:    p.Deadline.UTC(),
		Stage:       stage,
		CreatedAt:   now,
	}
}

// Clone returns a copy that shares no memory with c.
func (c Card) Clone() Card {
	c.UpdatedAt = cloneTime(c.UpdatedAt)
	return c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// withFields returns a copy with description, assignee, and deadline replaced.
// Identity, stage, and creation time are never touched here.
func (c Card) withFields(p CardPayload, now time.Time) Card {
	c.Description = p.Description
	c.Assignee = p.Assignee
	c.Deadline = p.Deadline.UTC()
	c.UpdatedAt = &now
	return c
}

// withStage returns a copy moved to stage.
func (c Card) withStage(stage string, now time.Time) Card {
	c.Stage = stage
	c.UpdatedAt = &now
	return c
}
