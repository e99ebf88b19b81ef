package kv

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a Store backed by a single SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens the store in dataDir, creating the directory, database and
// schema as needed. The database is opened with:
// - WAL mode for concurrent reads during writes
// - a single writer connection (SQLite has no multi-writer support)
func Open(dataDir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "agrilens.db")

	// modernc.org/sqlite is pure Go, no CGO
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS kv_entries (
		key   TEXT    NOT NULL,
		pos   INTEGER NOT NULL,
		value TEXT    NOT NULL,
		PRIMARY KEY (key, pos)
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// GetStringList implements Store.
func (s *SQLiteStore) GetStringList(ctx context.Context, key string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT value FROM kv_entries WHERE key = ? ORDER BY pos", key)
	if err != nil {
		return nil, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan value for key %q: %w", key, err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate key %q: %w", key, err)
	}
	return values, nil
}

// PutStringList implements Store. The replace happens in one transaction so
// readers never observe a partially written list.
func (s *SQLiteStore) PutStringList(ctx context.Context, key string, values []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM kv_entries WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to clear key %q: %w", key, err)
	}
	for i, v := range values {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO kv_entries (key, pos, value) VALUES (?, ?, ?)", key, i, v); err != nil {
			return fmt.Errorf("failed to write key %q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit key %q: %w", key, err)
	}
	return nil
}

// DeleteKey implements Store.
func (s *SQLiteStore) DeleteKey(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv_entries WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
