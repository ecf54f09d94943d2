// Package history persists process lifecycle events in SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"bgproc/internal/registry"
)

const DefaultLimit = 50

// Store is an append-only event log. It implements registry.Recorder.
type Store struct {
	db *sql.DB
}

// Open creates the database file and its directory if needed and migrates
// the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS events (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		kind       TEXT NOT NULL,
		process_id TEXT NOT NULL,
		session_id TEXT NOT NULL DEFAULT '',
		name       TEXT NOT NULL DEFAULT '',
		command    TEXT NOT NULL DEFAULT '',
		pid        INTEGER NOT NULL DEFAULT 0,
		detail     TEXT NOT NULL DEFAULT '',
		at_unix_ns INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_session ON events(session_id, at_unix_ns);
	CREATE INDEX IF NOT EXISTS idx_events_process ON events(process_id, at_unix_ns);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordEvent appends ev.
func (s *Store) RecordEvent(ctx context.Context, ev registry.Event) error {
	at := ev.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (kind, process_id, session_id, name, command, pid, detail, at_unix_ns) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(ev.Kind), ev.ProcessID, ev.SessionID, ev.Name, ev.Command, ev.PID, ev.Detail, at.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// Query narrows List. Zero values match everything.
type Query struct {
	SessionID string
	ProcessID string
	Limit     int
}

// List returns the newest matching events, oldest first.
func (s *Store) List(ctx context.Context, q Query) ([]registry.Event, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, process_id, session_id, name, command, pid, detail, at_unix_ns FROM (
			SELECT * FROM events
			WHERE (? = '' OR session_id = ?) AND (? = '' OR process_id = ?)
			ORDER BY at_unix_ns DESC, seq DESC
			LIMIT ?
		) ORDER BY at_unix_ns ASC, seq ASC`,
		q.SessionID, q.SessionID, q.ProcessID, q.ProcessID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []registry.Event{}
	for rows.Next() {
		var ev registry.Event
		var kind string
		var atNS int64
		if err := rows.Scan(&kind, &ev.ProcessID, &ev.SessionID, &ev.Name, &ev.Command, &ev.PID, &ev.Detail, &atNS); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Kind = registry.EventKind(kind)
		ev.At = time.Unix(0, atNS).UTC()
		events = append(events, ev)
	}
	return events, rows.Err()
}
