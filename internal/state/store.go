package state

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS self_switches (
	map_id      INTEGER NOT NULL,
	event_id    INTEGER NOT NULL,
	switch      TEXT NOT NULL CHECK (switch IN ('A', 'B', 'C', 'D')),
	value       INTEGER NOT NULL,
	updated_at  TEXT NOT NULL,
	PRIMARY KEY (map_id, event_id, switch)
);
`

// #endregion schema

// #region store-struct

// Store persists self switch values in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// #endregion store-struct

// #region constructor

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

// #endregion constructor

// #region close

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion close

// #region read-write

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRow(query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
}

// Value reads a switch. A key that was never written reads as false.
func (s *Store) Value(key Key) (bool, error) {
	return readValue(s.db, key)
}

// SetValue writes a switch, replacing any previous value.
func (s *Store) SetValue(key Key, value bool) error {
	return writeValue(s.db, key, value, s.now())
}

func readValue(q queryer, key Key) (bool, error) {
	if !key.Switch.Valid() {
		return false, fmt.Errorf("read %s: %w", key, ErrInvalidSwitch)
	}
	var v int64
	err := q.QueryRow(
		`SELECT value FROM self_switches WHERE map_id = ? AND event_id = ? AND switch = ?`,
		key.MapID, key.EventID, string(key.Switch),
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	return v != 0, nil
}

func writeValue(q queryer, key Key, value bool, now time.Time) error {
	if !key.Switch.Valid() {
		return fmt.Errorf("write %s: %w", key, ErrInvalidSwitch)
	}
	_, err := q.Exec(
		`INSERT INTO self_switches (map_id, event_id, switch, value, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(map_id, event_id, switch) DO UPDATE SET
		   value = excluded.value, updated_at = excluded.updated_at`,
		key.MapID, key.EventID, string(key.Switch), boolToInt(value), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// #endregion read-write

// #region atomically

type txReadWriter struct {
	tx  *sql.Tx
	now time.Time
}

func (t txReadWriter) Value(key Key) (bool, error) {
	return readValue(t.tx, key)
}

func (t txReadWriter) SetValue(key Key, value bool) error {
	return writeValue(t.tx, key, value, t.now)
}

// Atomically runs fn inside one transaction. Nothing fn wrote is kept if it
// returns an error.
func (s *Store) Atomically(fn func(rw ReadWriter) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(txReadWriter{tx: tx, now: s.now()}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// #endregion atomically

// #region list

// List returns every stored switch on a map ordered by event and switch.
func (s *Store) List(mapID int) ([]Entry, error) {
	return s.list(
		`SELECT map_id, event_id, switch, value, updated_at FROM self_switches
		 WHERE map_id = ? ORDER BY event_id, switch`, mapID,
	)
}

// ListAll returns every stored switch ordered by map, event and switch.
func (s *Store) ListAll() ([]Entry, error) {
	return s.list(
		`SELECT map_id, event_id, switch, value, updated_at FROM self_switches
		 ORDER BY map_id, event_id, switch`,
	)
}

func (s *Store) list(query string, args ...any) ([]Entry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list switches: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var sw string
		var v int64
		var updatedStr string
		if err := rows.Scan(&e.Key.MapID, &e.Key.EventID, &sw, &v, &updatedStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		e.Key.Switch = Switch(sw)
		e.Value = v != 0
		e.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedStr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Reset deletes every stored switch on a map, returning how many were removed.
func (s *Store) Reset(mapID int) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM self_switches WHERE map_id = ?`, mapID)
	if err != nil {
		return 0, fmt.Errorf("reset map %d: %w", mapID, err)
	}
	return res.RowsAffected()
}

// #endregion list
