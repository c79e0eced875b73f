// ABOUTME: Board wires the configuration holder, rule registry, card registry, and validator together.
// ABOUTME: Each public operation runs inside an OpenTelemetry span named after the operation.
package board

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationScope = "github.com/2389-research/kanban/board"

// Options configures New. Rules, Cards, and Settings are required.
type Options struct {
	Rules    Map[TransitionRule]
	Cards    Map[Card]
	Settings SettingsStore

	IDs   IDGenerator // default: ULIDGenerator
	Clock Clock       // default: SystemClock

	// DefaultInitialStage seeds the configuration of a board that has none
	// persisted. Blank means DefaultInitialStage.
	DefaultInitialStage string

	// AllowDuplicateRules lets several rules share a (from, to) pair.
	AllowDuplicateRules bool

	Tracer trace.Tracer // default: the global otel tracer
}

// Board is the stage-transition workflow engine. It performs no locking of
// its own: callers must serialize mutating operations.
type Board struct {
	config    *ConfigHolder
	rules     *Rules
	cards     *Cards
	validator *Validator
	tracer    trace.Tracer
}

// Snapshot is a point-in-time copy of everything on the board.
type Snapshot struct {
	Configuration Configuration
	Rules         []TransitionRule
	Cards         []Card
}

// New assembles a Board from its collaborators.
func New(opts Options) (*Board, error) {
	if opts.Rules == nil || opts.Cards == nil || opts.Settings == nil {
		return nil, fmt.Errorf("board: rules, cards, and settings stores are required")
	}
	if opts.IDs == nil {
		opts.IDs = ULIDGenerator{}
	}
	if opts.Clock == nil {
		opts.Clock = &SystemClock{}
	}
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer(instrumentationScope)
	}

	config, err := NewConfigHolder(opts.Settings, opts.Cards, opts.DefaultInitialStage)
	if err != nil {
		return nil, err
	}
	rules := NewRules(opts.Rules, opts.IDs, opts.Clock, opts.AllowDuplicateRules)
	validator := NewValidator(rules)
	cards := NewCards(opts.Cards, config, validator, opts.IDs, opts.Clock)

	return &Board{
		config:    config,
		rules:     rules,
		cards:     cards,
		validator: validator,
		tracer:    opts.Tracer,
	}, nil
}

func (b *Board) span(ctx context.Context, name string, attrs ...attribute.KeyValue) trace.Span {
	_, span := b.tracer.Start(ctx, "board."+name, trace.WithAttributes(attrs...))
	return span
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// GetConfiguration returns the current configuration.
func (b *Board) GetConfiguration(ctx context.Context) (cfg Configuration, err error) {
	span := b.span(ctx, "GetConfiguration")
	defer func() { finish(span, err) }()
	return b.config.Get()
}

// SetConfiguration replaces the initial stage. It fails while any card exists.
func (b *Board) SetConfiguration(ctx context.Context, initialStage string) (cfg Configuration, err error) {
	span := b.span(ctx, "SetConfiguration", attribute.String("kanban.initial_stage", initialStage))
	defer func() { finish(span, err) }()
	return b.config.Set(initialStage)
}

// AddRule registers a disallowed transition.
func (b *Board) AddRule(ctx context.Context, p RulePayload) (rule TransitionRule, err error) {
	span := b.span(ctx, "AddRule", stageAttrs(p.StageFrom, p.StageTo)...)
	defer func() { finish(span, err) }()
	return b.rules.Add(p)
}

// UpdateRule replaces the stages of an existing rule.
func (b *Board) UpdateRule(ctx context.Context, id string, p RulePayload) (rule TransitionRule, err error) {
	span := b.span(ctx, "UpdateRule", append(stageAttrs(p.StageFrom, p.StageTo), attribute.String("kanban.rule.id", id))...)
	defer func() { finish(span, err) }()
	return b.rules.Update(id, p)
}

// DeleteRule removes a rule.
func (b *Board) DeleteRule(ctx context.Context, id string) (rule TransitionRule, err error) {
	span := b.span(ctx, "DeleteRule", attribute.String("kanban.rule.id", id))
	defer func() { finish(span, err) }()
	return b.rules.Delete(id)
}

// GetRule returns a rule by id.
func (b *Board) GetRule(ctx context.Context, id string) (rule TransitionRule, err error) {
	span := b.span(ctx, "GetRule", attribute.String("kanban.rule.id", id))
	defer func() { finish(span, err) }()
	return b.rules.Get(id)
}

// ListRules returns all rules.
func (b *Board) ListRules(ctx context.Context) (rules []TransitionRule, err error) {
	span := b.span(ctx, "ListRules")
	defer func() { finish(span, err) }()
	return b.rules.List()
}

// IsTransitionAllowed asks the validator about a (from, to) pair without
// touching any card.
func (b *Board) IsTransitionAllowed(ctx context.Context, from, to string) (allowed bool, err error) {
	span := b.span(ctx, "IsTransitionAllowed", stageAttrs(from, to)...)
	defer func() { finish(span, err) }()
	allowed, err = b.validator.IsTransitionAllowed(from, to)
	if err != nil {
		return false, retag(err, "check stage transition")
	}
	return allowed, nil
}

// AddCard creates a card in the configured initial stage.
func (b *Board) AddCard(ctx context.Context, p CardPayload) (card Card, err error) {
	span := b.span(ctx, "AddCard", attribute.String("kanban.card.assignee", p.Assignee))
	defer func() { finish(span, err) }()
	return b.cards.Add(p)
}

// UpdateCard overwrites the editable fields of a card.
func (b *Board) UpdateCard(ctx context.Context, id string, p CardPayload) (card Card, err error) {
	span := b.span(ctx, "UpdateCard", attribute.String("kanban.card.id", id))
	defer func() { finish(span, err) }()
	return b.cards.Update(id, p)
}

// DeleteCard removes a card.
func (b *Board) DeleteCard(ctx context.Context, id string) (card Card, err error) {
	span := b.span(ctx, "DeleteCard", attribute.String("kanban.card.id", id))
	defer func() { finish(span, err) }()
	return b.cards.Delete(id)
}

// UpdateCardStage moves a card to stage if no rule forbids it.
func (b *Board) UpdateCardStage(ctx context.Context, id, stage string) (newStage string, err error) {
	span := b.span(ctx, "UpdateCardStage",
		attribute.String("kanban.card.id", id),
		attribute.String("kanban.stage_to", stage))
	defer func() { finish(span, err) }()
	return b.cards.UpdateStage(id, stage)
}

// GetCard returns a card by id.
func (b *Board) GetCard(ctx context.Context, id string) (card Card, err error) {
	span := b.span(ctx, "GetCard", attribute.String("kanban.card.id", id))
	defer func() { finish(span, err) }()
	return b.cards.Get(id)
}

// ListCards returns all cards.
func (b *Board) ListCards(ctx context.Context) (cards []Card, err error) {
	span := b.span(ctx, "ListCards")
	defer func() { finish(span, err) }()
	return b.cards.List()
}

// ListCardsByAssignee returns the cards assigned to assignee.
func (b *Board) ListCardsByAssignee(ctx context.Context, assignee string) (cards []Card, err error) {
	span := b.span(ctx, "ListCardsByAssignee", attribute.String("kanban.card.assignee", assignee))
	defer func() { finish(span, err) }()
	return b.cards.ListByAssignee(assignee)
}

// ListCardsByStage returns the cards in stage, compared loosely.
func (b *Board) ListCardsByStage(ctx context.Context, stage string) (cards []Card, err error) {
	span := b.span(ctx, "ListCardsByStage", attribute.String("kanban.stage", stage))
	defer func() { finish(span, err) }()
	return b.cards.ListByStage(stage)
}

// Snapshot returns the configuration, rules, and cards in one value.
func (b *Board) Snapshot(ctx context.Context) (snap Snapshot, err error) {
	span := b.span(ctx, "Snapshot")
	defer func() { finish(span, err) }()

	if snap.Configuration, err = b.config.Get(); err != nil {
		return Snapshot{}, err
	}
	if snap.Rules, err = b.rules.List(); err != nil {
		return Snapshot{}, err
	}
	if snap.Cards, err = b.cards.List(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func stageAttrs(from, to string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("kanban.stage_from", from),
		attribute.String("kanban.stage_to", to),
	}
}
