// ABOUTME: Exports a board snapshot as a YAML document: configuration, denylist, and cards by stage.
// ABOUTME: Uses gopkg.in/yaml.v3 with deterministic ordering so exports diff cleanly.
package export

import (
	"fmt"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/2389-research/kanban/board"
)

// YamlRule is a serializable disallowed transition.
type YamlRule struct {
	ID   string `yaml:"id"`
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// YamlCard is a serializable card within a stage.
type YamlCard struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
	Assignee    string `yaml:"assignee"`
	Deadline    string `yaml:"deadline"`
	CreatedAt   string `yaml:"created_at"`
	UpdatedAt   string `yaml:"updated_at,omitempty"`
}

// YamlStage groups the cards currently in one stage.
type YamlStage struct {
	Name  string     `yaml:"name"`
	Cards []YamlCard `yaml:"cards"`
}

// YamlBoard is the top-level export document.
type YamlBoard struct {
	InitialStage          string      `yaml:"initial_stage"`
	DisallowedTransitions []YamlRule  `yaml:"disallowed_transitions"`
	Stages                []YamlStage `yaml:"stages"`
}

// ExportYAML renders snap as YAML.
//
// Stages are listed with the initial stage first, then the rest
// alphabetically. Rules keep their store order. Cards within a stage are
// sorted by creation time, then id.
func ExportYAML(snap board.Snapshot) (string, error) {
	doc := YamlBoard{
		InitialStage:          snap.Configuration.InitialStage,
		DisallowedTransitions: make([]YamlRule, 0, len(snap.Rules)),
		Stages:                []YamlStage{},
	}
	for _, r := range snap.Rules {
		doc.DisallowedTransitions = append(doc.DisallowedTransitions, YamlRule{ID: r.ID, From: r.StageFrom, To: r.StageTo})
	}

	byStage := make(map[string][]board.Card)
	for _, c := range snap.Cards {
		byStage[c.Stage] = append(byStage[c.Stage], c)
	}
	for _, name := range orderedStages(snap.Configuration.InitialStage, byStage) {
		cards := byStage[name]
		sort.SliceStable(cards, func(i, j int) bool {
			if !cards[i].CreatedAt.Equal(cards[j].CreatedAt) {
				return cards[i].CreatedAt.Before(cards[j].CreatedAt)
			}
			return cards[i].ID < cards[j].ID
		})
		stage := YamlStage{Name: name, Cards: make([]YamlCard, 0, len(cards))}
		for _, c := range cards {
			stage.Cards = append(stage.Cards, toYamlCard(c))
		}
		doc.Stages = append(doc.Stages, stage)
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return "", fmt.Errorf("marshal board yaml: %w", err)
	}
	return string(data), nil
}

func orderedStages(initial string, byStage map[string][]board.Card) []string {
	var rest []string
	for name := range byStage {
		if name != initial {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	if _, ok := byStage[initial]; ok {
		return append([]string{initial}, rest...)
	}
	return rest
}

func toYamlCard(c board.Card) YamlCard {
	yc := YamlCard{
		ID:          c.ID,
		Description: c.Description,
		Assignee:    c.Assignee,
		Deadline:    c.Deadline.Format(time.RFC3339),
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
	}
	if c.UpdatedAt != nil {
		yc.UpdatedAt = c.UpdatedAt.Format(time.RFC3339)
	}
	return yc
}
