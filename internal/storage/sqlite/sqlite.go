// Package sqlite implements the entity stores on a single SQLite
// database file. The schema is created idempotently on open; foreign
// keys and WAL are always enabled.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/notesd/internal/notes"
	"github.com/fyrsmithlabs/notesd/internal/storage"
)

// timeFormat is fixed-width UTC with microseconds so stored timestamps
// sort lexicographically.
const timeFormat = "2006-01-02T15:04:05.000000Z"

const defaultBusyTimeout = 5 * time.Second

const schema = `
CREATE TABLE IF NOT EXISTS categories (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  description TEXT,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tags (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  color TEXT,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS notes (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  content TEXT NOT NULL,
  category_id INTEGER REFERENCES categories(id) ON DELETE SET NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS note_tags (
  note_id INTEGER NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
  tag_id INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
  PRIMARY KEY (note_id, tag_id)
);

CREATE TABLE IF NOT EXISTS action_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  description TEXT NOT NULL,
  completed INTEGER NOT NULL DEFAULT 0,
  note_id INTEGER REFERENCES notes(id) ON DELETE CASCADE,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_tags_name ON tags(name COLLATE NOCASE);
CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name ON categories(name COLLATE NOCASE);
CREATE INDEX IF NOT EXISTS idx_notes_category ON notes(category_id);
CREATE INDEX IF NOT EXISTS idx_note_tags_tag ON note_tags(tag_id);
CREATE INDEX IF NOT EXISTS idx_action_items_note ON action_items(note_id);
CREATE INDEX IF NOT EXISTS idx_action_items_completed ON action_items(completed);
`

// Options configures Open.
type Options struct {
	// Path is the database file location. Parent directories are
	// created as needed.
	Path string

	// BusyTimeout bounds waits on a locked database. Defaults to 5s.
	BusyTimeout time.Duration

	// SeedPath optionally names a SQL file whose ;-separated statements
	// run once, when the database file is first created.
	SeedPath string
}

// Store owns the database handle and hands out the per-entity stores.
type Store struct {
	db     *sql.DB
	path   string
	logger *zap.Logger

	notes      *noteStore
	items      *itemStore
	tags       *tagStore
	categories *categoryStore
}

// Open opens or creates the database at opts.Path and initializes the
// schema.
func Open(opts Options, logger *zap.Logger) (*Store, error) {
	if opts.Path == "" {
		return nil, errors.New("database path is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	busy := opts.BusyTimeout
	if busy <= 0 {
		busy = defaultBusyTimeout
	}

	if dir := filepath.Dir(opts.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	_, statErr := os.Stat(opts.Path)
	fresh := os.IsNotExist(statErr)

	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL&_foreign_keys=on",
		opts.Path, busy.Milliseconds())
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	s := &Store{
		db:         db,
		path:       opts.Path,
		logger:     logger,
		notes:      &noteStore{db: db},
		items:      &itemStore{db: db},
		tags:       &tagStore{db: db},
		categories: &categoryStore{db: db},
	}

	if fresh && opts.SeedPath != "" {
		if err := s.applySeed(opts.SeedPath); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply seed: %w", err)
		}
	}

	logger.Info("opened database", zap.String("path", opts.Path), zap.Bool("fresh", fresh))
	return s, nil
}

// Notes returns the note store.
func (s *Store) Notes() notes.NoteStore { return s.notes }

// Items returns the action item store.
func (s *Store) Items() notes.ItemStore { return s.items }

// Tags returns the tag store.
func (s *Store) Tags() notes.TagStore { return s.tags }

// Categories returns the category store.
func (s *Store) Categories() notes.CategoryStore { return s.categories }

// DB returns the underlying handle for direct queries.
func (s *Store) DB() *sql.DB { return s.db }

// EntityCounts reports how many rows each entity table holds.
type EntityCounts struct {
	Notes       int64
	ActionItems int64
	Tags        int64
	Categories  int64
}

// Counts reads the table sizes in one query.
func (s *Store) Counts(ctx context.Context) (EntityCounts, error) {
	const query = `SELECT
  (SELECT COUNT(*) FROM notes),
  (SELECT COUNT(*) FROM action_items),
  (SELECT COUNT(*) FROM tags),
  (SELECT COUNT(*) FROM categories)`

	var counts EntityCounts
	err := s.db.QueryRowContext(ctx, query).Scan(
		&counts.Notes, &counts.ActionItems, &counts.Tags, &counts.Categories)
	if err != nil {
		return EntityCounts{}, wrapErr("count entities", err)
	}
	return counts, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// applySeed runs the ;-separated statements of the seed file in one
// transaction. A missing seed file is not an error.
func (s *Store) applySeed(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read seed file: %w", err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	applied := 0
	for _, statement := range strings.Split(string(raw), ";") {
		statement = strings.TrimSpace(statement)
		if statement == "" {
			continue
		}
		if _, err := tx.Exec(statement); err != nil {
			return fmt.Errorf("execute seed statement: %w", err)
		}
		applied++
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed transaction: %w", err)
	}

	s.logger.Info("applied seed file", zap.String("path", path), zap.Int("statements", applied))
	return nil
}

// now returns the current time at the precision the store persists.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// parseTime decodes a stored timestamp.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t, nil
}

// wrapErr maps driver errors onto the domain's error kinds and adds
// operation context.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var se sqlite3.Error
	if errors.As(err, &se) {
		switch {
		case se.ExtendedCode == sqlite3.ErrConstraintUnique ||
			se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%s: %s: %w", op, err, notes.ErrConflict)
		case se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked:
			return fmt.Errorf("%s: %s: %w", op, err, notes.ErrUnavailable)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// notFound builds the store-level not found error for an entity id.
func notFound(entity string, id int64) error {
	return fmt.Errorf("%s %d: %w", entity, id, notes.ErrNotFound)
}

// sortClause renders an ORDER BY for a parsed sort expression. Columns
// not in allowed fall back to created_at, keeping the requested
// direction; the id column breaks ties so pagination stays stable.
func sortClause(allowed map[string]bool, sort, prefix string) string {
	if sort == "" {
		sort = "-created_at"
	}
	field, descending := storage.ParseSort(sort)
	if !allowed[field] {
		field = "created_at"
	}
	direction := "ASC"
	if descending {
		direction = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s%s %s, %sid %s", prefix, field, direction, prefix, direction)
}

// limitClause renders LIMIT/OFFSET for the pagination options. A zero
// limit means no cap.
func limitClause(opts storage.ListOptions) string {
	switch {
	case opts.Limit > 0:
		return fmt.Sprintf(" LIMIT %d OFFSET %d", opts.Limit, opts.Skip)
	case opts.Skip > 0:
		return fmt.Sprintf(" LIMIT -1 OFFSET %d", opts.Skip)
	default:
		return ""
	}
}

// placeholders renders n comma-separated SQL placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// execAffectingOne runs an exec that must touch exactly one row,
// returning a not found error when it touches none.
func execAffectingOne(ctx context.Context, db *sql.DB, entity string, id int64, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapErr(entity, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return wrapErr(entity, err)
	}
	if affected == 0 {
		return notFound(entity, id)
	}
	return nil
}
