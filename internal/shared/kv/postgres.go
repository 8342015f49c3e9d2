package kv

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore implements Store on a single kv_entries table. It is the
// durable backend for deployment records.
type PostgresStore struct {
	conn *sql.DB
}

const kvSchema = `
	CREATE TABLE IF NOT EXISTS kv_entries (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		expires_at TIMESTAMPTZ
	)
`

// NewPostgres creates a new PostgreSQL-backed store
func NewPostgres(databaseURL string) (*PostgresStore, error) {
	conn, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool
	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(10)
	conn.SetConnMaxLifetime(5 * time.Minute)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if _, err := conn.ExecContext(ctx, kvSchema); err != nil {
		return nil, fmt.Errorf("failed to ensure kv schema: %w", err)
	}

	return &PostgresStore{conn: conn}, nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.conn.Close()
}

// Get retrieves a value by key, ignoring expired entries
func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	query := `
		SELECT value FROM kv_entries
		WHERE key = $1 AND (expires_at IS NULL OR expires_at > NOW())
	`

	var value string
	err := s.conn.QueryRowContext(ctx, query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("database error: %w", err)
	}

	return value, true, nil
}

// Put upserts a value under key
func (s *PostgresStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	query := `
		INSERT INTO kv_entries (key, value, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at
	`

	var expires sql.NullTime
	if ttl > 0 {
		expires = sql.NullTime{Time: time.Now().Add(ttl), Valid: true}
	}

	_, err := s.conn.ExecContext(ctx, query, key, value, expires)
	return err
}

// List returns all live keys beginning with prefix
func (s *PostgresStore) List(ctx context.Context, prefix string) ([]string, error) {
	query := `
		SELECT key FROM kv_entries
		WHERE key LIKE $1 || '%' AND (expires_at IS NULL OR expires_at > NOW())
	`

	rows, err := s.conn.QueryContext(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
