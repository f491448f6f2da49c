// Package journal persists a record of every toolkit invocation to a
// local SQLite database. The journal is optional: a nil *Journal (no
// path configured) accepts writes and reads as no-ops, so callers never
// branch on whether journaling is enabled.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/bio-mcp/bio-mcp-seqkit/internal/log"
)

// Outcome tags for recorded invocations.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS invocations (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at  TEXT    NOT NULL,
	operation   TEXT    NOT NULL,
	argv        TEXT    NOT NULL,
	exit_code   INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	outcome     TEXT    NOT NULL,
	error       TEXT    NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_invocations_operation ON invocations(operation);
`

// Entry is one recorded invocation.
type Entry struct {
	ID         int64
	StartedAt  time.Time
	Operation  string
	Argv       string
	ExitCode   int
	DurationMS int64
	Outcome    string
	Error      string
}

// Journal is a handle to the invocation database.
type Journal struct {
	db *sql.DB
}

// Open opens (creating if needed) the journal at path. An empty path
// disables journaling: Open returns a nil Journal whose methods are
// no-ops.
func Open(path string) (*Journal, error) {
	if path == "" {
		return nil, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(wal)")
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	// One writer process, one connection. Avoids SQLITE_BUSY juggling.
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	log.Info(log.CatJournal, "journal opened", "path", path)
	return &Journal{db: db}, nil
}

func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("reading journal schema version: %w", err)
	}
	if version >= schemaVersion {
		return nil
	}
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("initializing journal schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("stamping journal schema version: %w", err)
	}
	return nil
}

// Record appends one invocation. Safe on a nil Journal.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	if j == nil {
		return nil
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO invocations (started_at, operation, argv, exit_code, duration_ms, outcome, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.StartedAt.UTC().Format(time.RFC3339Nano),
		e.Operation, e.Argv, e.ExitCode, e.DurationMS, e.Outcome, e.Error)
	if err != nil {
		return fmt.Errorf("recording invocation: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first, optionally filtered
// to one operation. Safe on a nil Journal, which reports no entries.
func (j *Journal) Recent(ctx context.Context, limit int, operation string) ([]Entry, error) {
	if j == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, started_at, operation, argv, exit_code, duration_ms, outcome, error
		FROM invocations`
	args := []any{}
	if operation != "" {
		query += ` WHERE operation = ?`
		args = append(args, operation)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var started string
		if err := rows.Scan(&e.ID, &started, &e.Operation, &e.Argv,
			&e.ExitCode, &e.DurationMS, &e.Outcome, &e.Error); err != nil {
			return nil, fmt.Errorf("scanning journal row: %w", err)
		}
		e.StartedAt, err = time.Parse(time.RFC3339Nano, started)
		if err != nil {
			return nil, fmt.Errorf("parsing journal timestamp %q: %w", started, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close releases the database handle. Safe on a nil Journal.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	return j.db.Close()
}
