// Package store persists telemetry documents to a local SQLite database.
// The control loop treats it as an opaque sink: inserts either succeed or
// fail, and failures are non-fatal.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Document is one telemetry record. Fields are schema-free; Kind
// distinguishes readings from relay state changes.
type Document struct {
	Time   time.Time
	Kind   string
	Fields map[string]any
}

// Document kinds written by the control loop.
const (
	KindReading    = "reading"
	KindRelayState = "relay_state"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	ts     TEXT NOT NULL,
	kind   TEXT NOT NULL,
	fields TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_kind_ts ON documents(kind, ts);
`

// SQLite is a Document sink backed by a SQLite file.
type SQLite struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens (creating if necessary) the database at path and ensures the
// schema exists.
func Open(path string, log *slog.Logger) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	// busy_timeout covers the admin server reading while the loop writes;
	// WAL keeps those readers from blocking inserts.
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("db schema: %w", err)
	}

	return &SQLite{db: db, log: log}, nil
}

// Insert writes one document.
func (s *SQLite) Insert(doc Document) error {
	fields, err := json.Marshal(doc.Fields)
	if err != nil {
		return fmt.Errorf("encode fields: %w", err)
	}
	_, err = s.db.Exec(
		"INSERT INTO documents (ts, kind, fields) VALUES (?, ?, ?)",
		doc.Time.UTC().Format(time.RFC3339), doc.Kind, string(fields),
	)
	if err != nil {
		return fmt.Errorf("insert %s: %w", doc.Kind, err)
	}
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
