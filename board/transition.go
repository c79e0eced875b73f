// ABOUTME: Transition validator: the single-step denylist gate applied to every stage change.
// ABOUTME: A transition is allowed unless some rule matches the exact (from, to) pair.
package board

// RuleSource lists the currently registered rules. *Rules implements it.
type RuleSource interface {
	List() ([]TransitionRule, error)
}

// Validator decides whether a stage change is permitted. It only reads rules.
type Validator struct {
	rules RuleSource
}

// NewValidator returns a validator backed by rules.
func NewValidator(rules RuleSource) *Validator {
	return &Validator{rules: rules}
}

// IsTransitionAllowed reports whether moving from -> to is permitted. Stage
// names are compared exactly: no case folding, no trimming. Any destination
// is acceptable unless a rule denies it. The scan is linear in the number of
// rules, which are administrator-curated and expected to stay small.
func (v *Validator) IsTransitionAllowed(from, to string) (bool, error) {
	rules, err := v.rules.List()
	if err != nil {
		return false, err
	}
	for _, rule := range rules {
		if rule.Blocks(from, to) {
			return false, nil
		}
	}
	return true, nil
}
