package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres keeps the contract state in a single key/value table so several
// gateway replicas can share one durable store.
type Postgres struct {
	pool *pgxpool.Pool
}

const createStateTable = `
CREATE TABLE IF NOT EXISTS contract_state (
    key   BYTEA PRIMARY KEY,
    value BYTEA NOT NULL
)`

// NewPostgres connects to the database described by connString and ensures the
// state table exists.
func NewPostgres(ctx context.Context, connString string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, createStateTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to create state table: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Get(ctx context.Context, key []byte) ([]byte, bool, error) {
	var value []byte
	err := p.pool.QueryRow(ctx, "SELECT value FROM contract_state WHERE key = $1", key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (p *Postgres) Set(ctx context.Context, key, value []byte) error {
	_, err := p.pool.Exec(ctx,
		"INSERT INTO contract_state (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value",
		key, value)
	return err
}

func (p *Postgres) Remove(ctx context.Context, key []byte) error {
	_, err := p.pool.Exec(ctx, "DELETE FROM contract_state WHERE key = $1", key)
	return err
}

func (p *Postgres) Contains(ctx context.Context, key []byte) (bool, error) {
	var exists bool
	err := p.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM contract_state WHERE key = $1)", key).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
