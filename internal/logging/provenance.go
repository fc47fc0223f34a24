package logging

import (
	"database/sql"
	"fmt"
	"time"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS command_log (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	invocation_id  TEXT NOT NULL,
	command        TEXT NOT NULL,
	args_json      TEXT,
	map_id         INTEGER NOT NULL DEFAULT 0,
	decision       TEXT NOT NULL,
	reason         TEXT,
	writes         INTEGER NOT NULL DEFAULT 0,
	created_at     TEXT NOT NULL
);
`

// #endregion schema

// #region recorder

// Recorder appends command invocations to the command_log table.
type Recorder struct {
	db *sql.DB
}

// NewRecorder creates the command_log table if needed.
func NewRecorder(db *sql.DB) (*Recorder, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate command_log: %w", err)
	}
	return &Recorder{db: db}, nil
}

// Record writes one invocation.
func (r *Recorder) Record(entry InvocationEntry) error {
	return LogInvocation(r.db, entry)
}

// List returns the most recent invocations, oldest first.
func (r *Recorder) List(limit int) ([]InvocationEntry, error) {
	return ListInvocations(r.db, limit)
}

// #endregion recorder

// #region log-invocation

// LogInvocation writes an entry to the command_log table.
func LogInvocation(db *sql.DB, entry InvocationEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO command_log (invocation_id, command, args_json, map_id, decision, reason, writes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.InvocationID,
		entry.Command,
		nullIfEmpty(entry.ArgsJSON),
		entry.MapID,
		entry.Decision,
		nullIfEmpty(entry.Reason),
		entry.Writes,
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log invocation: %w", err)
	}
	return nil
}

// ListInvocations returns up to limit recent entries in chronological order.
// A non-positive limit returns every entry.
func ListInvocations(db *sql.DB, limit int) ([]InvocationEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.Query(
		`SELECT invocation_id, command, args_json, map_id, decision, reason, writes, created_at
		 FROM (SELECT * FROM command_log ORDER BY id DESC LIMIT ?) ORDER BY id ASC`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list invocations: %w", err)
	}
	defer rows.Close()

	var entries []InvocationEntry
	for rows.Next() {
		var e InvocationEntry
		var argsJSON, reason sql.NullString
		var createdStr string
		if err := rows.Scan(&e.InvocationID, &e.Command, &argsJSON, &e.MapID, &e.Decision, &reason, &e.Writes, &createdStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		e.ArgsJSON = argsJSON.String
		e.Reason = reason.String
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// #endregion log-invocation

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
