// Package audit records tool calls in a SQLite file.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	pkgsqlite "github.com/bnema/mcp-docker/pkg/sqlite"
)

const tableName = "tool_calls"

// Entry is one recorded tool call.
type Entry struct {
	ID         string    `sql:"id,primary_key"`
	Tool       string    `sql:"tool"`
	Arguments  string    `sql:"arguments"`
	StartedAt  time.Time `sql:"started_at"`
	DurationMS int64     `sql:"duration_ms"`
	Error      string    `sql:"error"`
}

// Store appends tool calls to the audit table.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the audit database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create audit directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}
	// One writer at a time
	db.SetMaxOpenConns(1)

	if _, err := pkgsqlite.EnsureTable(ctx, db, Entry{}, tableName); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare audit table: %w", err)
	}

	log.Debug("Audit store ready", "path", path)
	return &Store{db: db, now: time.Now}, nil
}

// Record inserts an entry, assigning an id when it has none.
func (s *Store) Record(ctx context.Context, e Entry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tool_calls (id, tool, arguments, started_at, duration_ms, error) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Tool, e.Arguments, e.StartedAt.UTC().Format(time.RFC3339Nano), e.DurationMS, e.Error)
	if err != nil {
		return "", fmt.Errorf("failed to record tool call: %w", err)
	}
	return e.ID, nil
}

// Recent returns up to n entries, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tool, arguments, started_at, duration_ms, error FROM tool_calls ORDER BY started_at DESC, rowid DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query tool calls: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			started string
			errText sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Tool, &e.Arguments, &started, &e.DurationMS, &errText); err != nil {
			return nil, fmt.Errorf("failed to scan tool call: %w", err)
		}
		e.StartedAt, err = time.Parse(time.RFC3339Nano, started)
		if err != nil {
			return nil, fmt.Errorf("failed to parse start time of %s: %w", e.ID, err)
		}
		e.Error = errText.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// encodeArguments renders tool arguments for storage. Unencodable values are kept as a marker.
func encodeArguments(args map[string]any) string {
	if len(args) == 0 {
		return "{}"
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Sprintf(`{"_unencodable":%q}`, err.Error())
	}
	return string(data)
}
