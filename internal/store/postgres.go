package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const createKVTable = `
	CREATE TABLE IF NOT EXISTS palette_kv (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

// PostgresBackend stores values in a palette_kv table.
type PostgresBackend struct {
	database *sql.DB
}

// OpenPostgres connects to dsn, verifies the connection and creates the
// palette_kv table if needed.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresBackend, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not establish connection with database: %w", err)
	}
	backend, err := NewPostgresBackend(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return backend, nil
}

// NewPostgresBackend wraps an open database and ensures the table exists.
func NewPostgresBackend(ctx context.Context, db *sql.DB) (*PostgresBackend, error) {
	if _, err := db.ExecContext(ctx, createKVTable); err != nil {
		return nil, fmt.Errorf("failed to create palette_kv table: %w", err)
	}
	return &PostgresBackend{database: db}, nil
}

// Get returns the value stored under key.
func (p *PostgresBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := p.database.QueryRowContext(ctx,
		`SELECT value FROM palette_kv WHERE key = $1`, key,
	).Scan(&value)

	switch err {
	case sql.ErrNoRows:
		return nil, ErrNotFound
	case nil:
		return []byte(value), nil
	default:
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
}

// Set upserts the value stored under key.
func (p *PostgresBackend) Set(ctx context.Context, key string, value []byte) error {
	sqlStatement := `
		INSERT INTO palette_kv (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

	if _, err := p.database.ExecContext(ctx, sqlStatement, key, string(value)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Close closes the database connection.
func (p *PostgresBackend) Close() error {
	return p.database.Close()
}
