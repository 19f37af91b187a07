package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresBackend keeps the document in a single row of a two-column
// table. The table is a key/value shelf, not a relational model; the
// document is opaque to SQL.
type PostgresBackend struct {
	db  *sql.DB
	key string
}

// NewPostgresBackend creates the holding table if it does not exist
func NewPostgresBackend(db *sql.DB, key string) (*PostgresBackend, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS app_state (
			key TEXT PRIMARY KEY,
			doc JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create app_state table: %w", err)
	}
	return &PostgresBackend{db: db, key: key}, nil
}

func (p *PostgresBackend) Read(ctx context.Context) ([]byte, error) {
	var data []byte
	err := p.db.QueryRowContext(ctx,
		`SELECT doc FROM app_state WHERE key = $1`, p.key,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoDocument
		}
		return nil, err
	}
	return data, nil
}

func (p *PostgresBackend) Write(ctx context.Context, data []byte) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO app_state (key, doc, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET doc = EXCLUDED.doc, updated_at = NOW()
	`, p.key, data)
	return err
}

func (p *PostgresBackend) Name() string {
	return "postgres"
}
