// ABOUTME: Configuration holder for the stage assigned to newly created cards.
// ABOUTME: The value may only be replaced while the card registry is empty.
package board

// DefaultInitialStage is the initial stage of a board that was never configured.
const DefaultInitialStage = "Requested"

// Configuration is the board-wide settings record.
type Configuration struct {
	InitialStage string `json:"initial_stage" jsonschema:"minLength=1"`
}

// cardCounter is the slice of the card store the holder needs.
type cardCounter interface {
	Count() (int, error)
}

// ConfigHolder owns the current Configuration and guards its replacement.
// It is handed to the card registry at construction instead of living in a
// package-level variable.
type ConfigHolder struct {
	settings SettingsStore
	cards    cardCounter
	current  *Configuration
}

// NewConfigHolder loads the persisted configuration, falling back to
// defaultStage (or DefaultInitialStage when blank) for a fresh board.
func NewConfigHolder(settings SettingsStore, cards cardCounter, defaultStage string) (*ConfigHolder, error) {
	if isBlank(defaultStage) {
		defaultStage = DefaultInitialStage
	}
	cfg, ok, err := settings.LoadConfiguration()
	if err != nil {
		return nil, storageErr("load configuration", err)
	}
	if !ok || isBlank(cfg.InitialStage) {
		cfg = Configuration{InitialStage: defaultStage}
	}
	return &ConfigHolder{settings: settings, cards: cards, current: &cfg}, nil
}

// Get returns the current configuration.
func (h *ConfigHolder) Get() (Configuration, error) {
	if h.current == nil || isBlank(h.current.InitialStage) {
		return Configuration{}, &StateError{Reason: "configuration is not initialized"}
	}
	return *h.current, nil
}

// Set replaces the configuration. A blank stage is always a validation error;
// otherwise the call fails with a conflict while any card exists.
func (h *ConfigHolder) Set(initialStage string) (Configuration, error) {
	const op = "update configuration"
	if err := requireNonBlank(op, "initial_stage", initialStage); err != nil {
		return Configuration{}, err
	}
	n, err := h.cards.Count()
	if err != nil {
		return Configuration{}, storageErr(op, err)
	}
	if n > 0 {
		return Configuration{}, &ConflictError{Op: op, Reason: "there is at least one kanban card"}
	}

	cfg := Configuration{InitialStage: initialStage}
	if err := h.settings.SaveConfiguration(cfg); err != nil {
		return Configuration{}, storageErr(op, err)
	}
	h.current = &cfg
	return cfg, nil
}

func (h *ConfigHolder) initialStage() (string, error) {
	cfg, err := h.Get()
	if err != nil {
		return "", err
	}
	return cfg.InitialStage, nil
}
