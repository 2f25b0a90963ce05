package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteTokenStore persists tokens in a local sqlite file so sessions survive restarts
// without a Redis instance.
type SQLiteTokenStore struct {
	db *sql.DB
}

func NewSQLiteTokenStore(path string) (*SQLiteTokenStore, error) {
	// Create the database directory if missing
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to session database: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS session_tokens (
		key TEXT PRIMARY KEY,
		token TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create session table: %w", err)
	}

	return &SQLiteTokenStore{db: db}, nil
}

func (r *SQLiteTokenStore) GetToken(ctx context.Context, key string) (string, error) {
	var token string
	err := r.db.QueryRowContext(ctx, `SELECT token FROM session_tokens WHERE key = ?`, key).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return token, nil
}

func (r *SQLiteTokenStore) SetToken(ctx context.Context, key, token string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO session_tokens (key, token, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at`,
		key, token, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

func (r *SQLiteTokenStore) DeleteToken(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session_tokens WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

func (r *SQLiteTokenStore) PingContext(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteTokenStore) Close() error {
	return r.db.Close()
}
