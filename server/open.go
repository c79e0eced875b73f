// ABOUTME: Builds a ready-to-serve Board from a Config: picks the store driver and id scheme.
// ABOUTME: Returns a closer that releases the underlying store.
package server

import (
	"fmt"
	"io"
	"log"
	"os"

	"go.opentelemetry.io/otel/trace"

	"github.com/2389-research/kanban/board"
	"github.com/2389-research/kanban/store"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenBoard opens the configured store and assembles a Board over it. The
// tracer may be nil.
func OpenBoard(cfg *Config, tracer trace.Tracer) (*board.Board, io.Closer, error) {
	ids, err := board.NewIDGenerator(cfg.IDScheme)
	if err != nil {
		return nil, nil, err
	}

	opts := board.Options{
		IDs:                 ids,
		DefaultInitialStage: cfg.InitialStage,
		AllowDuplicateRules: cfg.Rules.AllowDuplicates,
		Tracer:              tracer,
	}

	var closer io.Closer = nopCloser{}
	switch cfg.Store {
	case DriverMemory:
		opts.Rules = store.NewMemory[board.TransitionRule]()
		opts.Cards = store.NewMemory[board.Card]()
		opts.Settings = store.NewMemorySettings()
	case DriverSQLite:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create data dir: %w", err)
		}
		db, err := store.OpenSQLite(cfg.DatabasePath())
		if err != nil {
			return nil, nil, err
		}
		opts.Rules = db.Rules()
		opts.Cards = db.Cards()
		opts.Settings = db
		closer = db
	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}

	b, err := board.New(opts)
	if err != nil {
		_ = closer.Close()
		return nil, nil, err
	}
	log.Printf("component=server action=board_opened store=%s id_scheme=%s allow_duplicate_rules=%t",
		cfg.Store, cfg.IDScheme, cfg.Rules.AllowDuplicates)
	return b, closer, nil
}
