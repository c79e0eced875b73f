// ABOUTME: Card registry: CRUD over cards plus the gated stage change.
// ABOUTME: Every stage change is checked by the transition validator before it is stored.
package board

// Cards is the card registry. It exclusively owns its map store.
type Cards struct {
	store     Map[Card]
	config    *ConfigHolder
	validator *Validator
	ids       IDGenerator
	clock     Clock
}

// NewCards builds a registry over store. New cards take their stage from
// config; stage changes are decided by validator.
func NewCards(store Map[Card], config *ConfigHolder, validator *Validator, ids IDGenerator, clock Clock) *Cards {
	return &Cards{store: store, config: config, validator: validator, ids: ids, clock: clock}
}

// Add creates a card in the configured initial stage.
func (c *Cards) Add(p CardPayload) (Card, error) {
	const op = "add kanban card"
	if err := requireNonBlank(op, "description", p.Description); err != nil {
		return Card{}, err
	}
	if err := requireNonBlank(op, "assignee", p.Assignee); err != nil {
		return Card{}, err
	}
	stage, err := c.config.initialStage()
	if err != nil {
		return Card{}, err
	}

	card := newCard(c.ids.NewID(), p, stage, c.clock.Now())
	if _, _, err := c.store.Insert(card.ID, card); err != nil {
		return Card{}, storageErr(op, err)
	}
	return card, nil
}

// Update overwrites description, assignee, and deadline of card id. The
// assignee is not re-validated here.
func (c *Cards) Update(id string, p CardPayload) (Card, error) {
	const op = "update kanban card"
	if err := requireNonBlank(op, "description", p.Description); err != nil {
		return Card{}, err
	}
	existing, err := c.lookup(op, id)
	if err != nil {
		return Card{}, err
	}

	updated := existing.withFields(p, c.clock.Now())
	if _, _, err := c.store.Insert(id, updated); err != nil {
		return Card{}, storageErr(op, err)
	}
	return updated, nil
}

// Delete removes card id and returns it.
func (c *Cards) Delete(id string) (Card, error) {
	const op = "delete kanban card"
	removed, ok, err := c.store.Remove(id)
	if err != nil {
		return Card{}, storageErr(op, err)
	}
	if !ok {
		return Card{}, &NotFoundError{Op: op, Kind: "kanban card", ID: id}
	}
	return removed, nil
}

// UpdateStage moves card id to stage if no rule denies the transition from
// its current stage, and returns the new stage. Any string is an acceptable
// destination, the empty string included; only a matching rule refuses it.
func (c *Cards) UpdateStage(id, stage string) (string, error) {
	const op = "update kanban card stage"
	card, err := c.lookup(op, id)
	if err != nil {
		return "", err
	}

	allowed, err := c.validator.IsTransitionAllowed(card.Stage, stage)
	if err != nil {
		return "", retag(err, op)
	}
	if !allowed {
		return "", &InvalidTransitionError{CardID: id, From: card.Stage, To: stage}
	}

	if _, _, err := c.store.Insert(id, card.withStage(stage, c.clock.Now())); err != nil {
		return "", storageErr(op, err)
	}
	return stage, nil
}

// Get returns card id.
func (c *Cards) Get(id string) (Card, error) {
	return c.lookup("get kanban card", id)
}

// List returns every card in store key order. An empty board yields an
// empty slice, not an error.
func (c *Cards) List() ([]Card, error) {
	cards, err := c.store.Values()
	if err != nil {
		return nil, storageErr("list kanban cards", err)
	}
	if cards == nil {
		cards = []Card{}
	}
	return cards, nil
}

// ListByAssignee returns the cards whose assignee equals assignee exactly.
func (c *Cards) ListByAssignee(assignee string) ([]Card, error) {
	const op = "list kanban cards by assignee"
	if err := requireNonBlank(op, "assignee", assignee); err != nil {
		return nil, err
	}
	return c.filter(op, func(card Card) bool { return card.Assignee == assignee })
}

// ListByStage returns the cards whose stage matches stage ignoring case and
// surrounding whitespace. This is looser than the transition validator,
// which compares stages exactly.
func (c *Cards) ListByStage(stage string) ([]Card, error) {
	const op = "list kanban cards by stage"
	if err := requireNonBlank(op, "stage", stage); err != nil {
		return nil, err
	}
	want := stageKey(stage)
	return c.filter(op, func(card Card) bool { return stageKey(card.Stage) == want })
}

func (c *Cards) lookup(op, id string) (Card, error) {
	card, ok, err := c.store.Get(id)
	if err != nil {
		return Card{}, storageErr(op, err)
	}
	if !ok {
		return Card{}, &NotFoundError{Op: op, Kind: "kanban card", ID: id}
	}
	return card, nil
}

func (c *Cards) filter(op string, keep func(Card) bool) ([]Card, error) {
	all, err := c.store.Values()
	if err != nil {
		return nil, storageErr(op, err)
	}
	out := []Card{}
	for _, card := range all {
		if keep(card) {
			out = append(out, card)
		}
	}
	return out, nil
}
