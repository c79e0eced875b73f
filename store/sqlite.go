// ABOUTME: SQLite-backed durable store holding the rule map, the card map, and board settings.
// ABOUTME: Values are stored as JSON documents keyed by id; the schema is managed by golang-migrate.
package store

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"

	"github.com/2389-research/kanban/board"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const configurationKey = "configuration"

// SQLite is a single database file containing both board maps and the
// settings table.
type SQLite struct {
	db    *sql.DB
	rules *table[board.TransitionRule]
	cards *table[board.Card]
}

// OpenSQLite opens or creates the database at path and migrates it to the
// latest schema version.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps writers from tripping over SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if err := migrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLite{
		db:    db,
		rules: &table[board.TransitionRule]{db: db, name: "rules"},
		cards: &table[board.Card]{db: db, name: "cards"},
	}, nil
}

func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	// m.Close would close db through the driver, so only the source is released.
	defer func() { _ = src.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Rules returns the map view over the rules table.
func (s *SQLite) Rules() board.Map[board.TransitionRule] {
	return s.rules
}

// Cards returns the map view over the cards table.
func (s *SQLite) Cards() board.Map[board.Card] {
	return s.cards
}

// LoadConfiguration reads the persisted configuration, if one was saved.
func (s *SQLite) LoadConfiguration() (board.Configuration, bool, error) {
	var raw string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", configurationKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return board.Configuration{}, false, nil
	}
	if err != nil {
		return board.Configuration{}, false, fmt.Errorf("query configuration: %w", err)
	}
	var cfg board.Configuration
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return board.Configuration{}, false, fmt.Errorf("decode configuration: %w", err)
	}
	return cfg, true, nil
}

// SaveConfiguration upserts the configuration row.
func (s *SQLite) SaveConfiguration(cfg board.Configuration) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode configuration: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		configurationKey, string(data))
	if err != nil {
		return fmt.Errorf("save configuration: %w", err)
	}
	return nil
}

// table is a board.Map over one (id, doc) table.
type table[V any] struct {
	db   *sql.DB
	name string
}

type querier interface {
	QueryRow(query string, args ...any) *sql.Row
}

func (t *table[V]) get(q querier, key string) (V, bool, error) {
	var zero V
	var doc string
	err := q.QueryRow(fmt.Sprintf("SELECT doc FROM %s WHERE id = ?", t.name), key).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("query %s %s: %w", t.name, key, err)
	}
	var v V
	if err := json.Unmarshal([]byte(doc), &v); err != nil {
		return zero, false, fmt.Errorf("decode %s %s: %w", t.name, key, err)
	}
	return v, true, nil
}

func (t *table[V]) Get(key string) (V, bool, error) {
	return t.get(t.db, key)
}

func (t *table[V]) Insert(key string, value V) (V, bool, error) {
	var zero V
	doc, err := json.Marshal(value)
	if err != nil {
		return zero, false, fmt.Errorf("encode %s %s: %w", t.name, key, err)
	}

	tx, err := t.db.Begin()
	if err != nil {
		return zero, false, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	prev, existed, err := t.get(tx, key)
	if err != nil {
		return zero, false, err
	}
	_, err = tx.Exec(fmt.Sprintf(
		`INSERT INTO %s (id, doc) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET doc = excluded.doc`, t.name),
		key, string(doc))
	if err != nil {
		return zero, false, fmt.Errorf("upsert %s %s: %w", t.name, key, err)
	}
	if err := tx.Commit(); err != nil {
		return zero, false, fmt.Errorf("commit: %w", err)
	}
	return prev, existed, nil
}

func (t *table[V]) Remove(key string) (V, bool, error) {
	var zero V
	tx, err := t.db.Begin()
	if err != nil {
		return zero, false, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	prev, existed, err := t.get(tx, key)
	if err != nil || !existed {
		return zero, false, err
	}
	if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE id = ?", t.name), key); err != nil {
		return zero, false, fmt.Errorf("delete %s %s: %w", t.name, key, err)
	}
	if err := tx.Commit(); err != nil {
		return zero, false, fmt.Errorf("commit: %w", err)
	}
	return prev, true, nil
}

func (t *table[V]) Values() ([]V, error) {
	rows, err := t.db.Query(fmt.Sprintf("SELECT id, doc FROM %s ORDER BY id ASC", t.name))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", t.name, err)
	}
	defer func() { _ = rows.Close() }()

	out := []V{}
	for rows.Next() {
		var id, doc string
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", t.name, err)
		}
		var v V
		if err := json.Unmarshal([]byte(doc), &v); err != nil {
			return nil, fmt.Errorf("decode %s %s: %w", t.name, id, err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (t *table[V]) Count() (int, error) {
	var n int
	if err := t.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", t.name)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", t.name, err)
	}
	return n, nil
}

var _ board.SettingsStore = (*SQLite)(nil)
