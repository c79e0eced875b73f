// ABOUTME: Shared input checks used by the configuration holder and both registries.
package board

import "strings"

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func requireNonBlank(op, field, value string) error {
	if isBlank(value) {
		return &ValidationError{Op: op, Field: field, Reason: "can't be empty"}
	}
	return nil
}

func requireNonEmpty(op, field, value string) error {
	if value == "" {
		return &ValidationError{Op: op, Field: field, Reason: "can't be empty"}
	}
	return nil
}

// stageKey normalizes a stage name for listing filters. The transition
// validator does not use it; rules match stages exactly.
func stageKey(stage string) string {
	return strings.ToLower(strings.TrimSpace(stage))
}
