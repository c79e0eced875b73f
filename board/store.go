// ABOUTME: Collaborator contracts for the board: a key-ordered persistent map and a settings store.
// ABOUTME: Implementations live in the store package; the board only depends on these interfaces.
package board

// Map is a persistent map keyed by string identifier. Values returns entries
// in key order. Insert and Remove report the previous value, if any.
type Map[V any] interface {
	Get(key string) (V, bool, error)
	Insert(key string, value V) (V, bool, error)
	Remove(key string) (V, bool, error)
	Values() ([]V, error)
	Count() (int, error)
}

// SettingsStore persists the board configuration.
type SettingsStore interface {
	LoadConfiguration() (Configuration, bool, error)
	SaveConfiguration(cfg Configuration) error
}
