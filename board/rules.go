// ABOUTME: Rule registry: CRUD over disallowed stage transitions.
// ABOUTME: Exact duplicate pairs are rejected unless the registry runs in duplicate-tolerant mode.
package board

// Rules is the transition rule registry. It exclusively owns its map store.
type Rules struct {
	store           Map[TransitionRule]
	ids             IDGenerator
	clock           Clock
	allowDuplicates bool
}

// NewRules builds a registry over store. With allowDuplicates set, several
// rules may carry the same (from, to) pair; this exists for boards imported
// from older data and is off by default.
func NewRules(store Map[TransitionRule], ids IDGenerator, clock Clock, allowDuplicates bool) *Rules {
	return &Rules{store: store, ids: ids, clock: clock, allowDuplicates: allowDuplicates}
}

// Add registers a new disallowed transition.
func (r *Rules) Add(p RulePayload) (TransitionRule, error) {
	const op = "add stage transition"
	if err := validateRulePayload(op, p); err != nil {
		return TransitionRule{}, err
	}
	if err := r.checkDuplicate(op, "", p); err != nil {
		return TransitionRule{}, err
	}

	rule := TransitionRule{
		ID:        r.ids.NewID(),
		StageFrom: p.StageFrom,
		StageTo:   p.StageTo,
		CreatedAt: r.clock.Now(),
	}
	if _, _, err := r.store.Insert(rule.ID, rule); err != nil {
		return TransitionRule{}, storageErr(op, err)
	}
	return rule, nil
}

// Update replaces both stage names of rule id.
func (r *Rules) Update(id string, p RulePayload) (TransitionRule, error) {
	const op = "update stage transition"
	if err := validateRulePayload(op, p); err != nil {
		return TransitionRule{}, err
	}
	existing, err := r.Get(id)
	if err != nil {
		return TransitionRule{}, retag(err, op)
	}
	if err := r.checkDuplicate(op, id, p); err != nil {
		return TransitionRule{}, err
	}

	updated := existing.withStages(p, r.clock.Now())
	if _, _, err := r.store.Insert(id, updated); err != nil {
		return TransitionRule{}, storageErr(op, err)
	}
	return updated, nil
}

// Delete removes rule id and returns it.
func (r *Rules) Delete(id string) (TransitionRule, error) {
	const op = "delete stage transition"
	removed, ok, err := r.store.Remove(id)
	if err != nil {
		return TransitionRule{}, storageErr(op, err)
	}
	if !ok {
		return TransitionRule{}, &NotFoundError{Op: op, Kind: "stage transition", ID: id}
	}
	return removed, nil
}

// Get returns rule id.
func (r *Rules) Get(id string) (TransitionRule, error) {
	const op = "get stage transition"
	rule, ok, err := r.store.Get(id)
	if err != nil {
		return TransitionRule{}, storageErr(op, err)
	}
	if !ok {
		return TransitionRule{}, &NotFoundError{Op: op, Kind: "stage transition", ID: id}
	}
	return rule, nil
}

// List returns every rule in store key order.
func (r *Rules) List() ([]TransitionRule, error) {
	rules, err := r.store.Values()
	if err != nil {
		return nil, storageErr("list stage transitions", err)
	}
	if rules == nil {
		rules = []TransitionRule{}
	}
	return rules, nil
}

func (r *Rules) checkDuplicate(op, selfID string, p RulePayload) error {
	if r.allowDuplicates {
		return nil
	}
	rules, err := r.List()
	if err != nil {
		return retag(err, op)
	}
	for _, existing := range rules {
		if existing.ID != selfID && existing.Blocks(p.StageFrom, p.StageTo) {
			return &ConflictError{Op: op, Reason: "stage transition from " + p.StageFrom + " to " + p.StageTo + " already exists"}
		}
	}
	return nil
}

// validateRulePayload rejects only empty stage names. Rules match stages
// exactly, so a whitespace-only stage is a legitimate rule endpoint.
func validateRulePayload(op string, p RulePayload) error {
	if err := requireNonEmpty(op, "stage_from", p.StageFrom); err != nil {
		return err
	}
	return requireNonEmpty(op, "stage_to", p.StageTo)
}

// retag rewrites the operation name on errors produced by an inner lookup so
// messages name the operation the caller asked for.
func retag(err error, op string) error {
	switch e := err.(type) {
	case *NotFoundError:
		return &NotFoundError{Op: op, Kind: e.Kind, ID: e.ID}
	case *StorageError:
		return &StorageError{Op: op, Err: e.Err}
	default:
		return err
	}
}
