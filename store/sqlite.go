package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	name TEXT PRIMARY KEY,
	content TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);`

// SQLite stores snapshots in a single table of a SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens, or creates, the database file at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create snapshots table in %s: %w", path, err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() error { return s.db.Close() }

// Load returns the snapshot content. An unknown name is an error wrapping
// fs.ErrNotExist.
func (s *SQLite) Load(ctx context.Context, name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	var content string
	err := s.db.QueryRowContext(ctx, "SELECT content FROM snapshots WHERE name = ?", name).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("snapshot %q: %w", name, fs.ErrNotExist)
	}
	if err != nil {
		return "", fmt.Errorf("could not read snapshot %q: %w", name, err)
	}
	return content, nil
}

// Save inserts or replaces the snapshot.
func (s *SQLite) Save(ctx context.Context, name, text string) error {
	if err := checkName(name); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO snapshots (name, content, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
		name, text, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("could not save snapshot %q: %w", name, err)
	}
	return nil
}

// List returns the stored ledger names, sorted.
func (s *SQLite) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM snapshots ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("could not list snapshots: %w", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
