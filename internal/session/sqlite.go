package session

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteBackend persists the session in a small local SQLite database so it
// survives reloads of the console.
type SQLiteBackend struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the session database at path.
func OpenSQLite(path string) (*SQLiteBackend, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating session directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening session database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging session database: %w", err)
	}

	// Single-row table; id is constrained to 1.
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS session (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		token TEXT NOT NULL,
		user_json TEXT NOT NULL,
		saved_at TIMESTAMP NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating session table: %w", err)
	}

	return &SQLiteBackend{db: db}, nil
}

// Close releases the underlying database handle.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

func (b *SQLiteBackend) Save(s Session) error {
	userJSON, err := json.Marshal(s.User)
	if err != nil {
		return fmt.Errorf("marshaling user profile: %w", err)
	}

	_, err = b.db.Exec(
		`INSERT INTO session (id, token, user_json, saved_at) VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET token = excluded.token, user_json = excluded.user_json, saved_at = excluded.saved_at`,
		s.Token, string(userJSON), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) Load() (*Session, error) {
	var s Session
	var userJSON string
	err := b.db.QueryRow(`SELECT token, user_json FROM session WHERE id = 1`).Scan(&s.Token, &userJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if err := json.Unmarshal([]byte(userJSON), &s.User); err != nil {
		return nil, fmt.Errorf("unmarshaling user profile: %w", err)
	}
	return &s, nil
}

func (b *SQLiteBackend) Clear() error {
	if _, err := b.db.Exec(`DELETE FROM session WHERE id = 1`); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}
