// ABOUTME: TransitionRule forbids moving a card directly from one stage to another.
// ABOUTME: Rules form a denylist: any pair without a matching rule is allowed.
package board

import "time"

// TransitionRule is a disallowed (stage_from, stage_to) pair. Its identity is
// the generated ID, not the pair.
type TransitionRule struct {
	ID        string     `json:"id"`
	StageFrom string     `json:"stage_from"`
	StageTo   string     `json:"stage_to"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Clone returns a copy that shares no memory with r.
func (r TransitionRule) Clone() TransitionRule {
	r.UpdatedAt = cloneTime(r.UpdatedAt)
	return r
}

// RulePayload carries the two stage names of a rule.
type RulePayload struct {
	StageFrom string `json:"stage_from" jsonschema:"minLength=1"`
	StageTo   string `json:"stage_to" jsonschema:"minLength=1"`
}

// Blocks reports whether the rule denies the exact transition from -> to.
// Comparison is case-sensitive and untrimmed.
func (r TransitionRule) Blocks(from, to string) bool {
	return r.StageFrom == from && r.StageTo == to
}

func (r TransitionRule) withStages(p RulePayload, now time.Time) TransitionRule {
	r.StageFrom = p.StageFrom
	r.StageTo = p.StageTo
	r.UpdatedAt = &now
	return r
}
