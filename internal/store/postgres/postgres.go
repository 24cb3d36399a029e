// Package postgres is the primary relational adapter of the store port,
// built on pgx with hand-written SQL.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/updrift/updrift/internal/store"
)

// Store implements store.Backend against Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// New connects a pool and returns the adapter.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	return &Store{pool: pool}, nil
}

// NewWithPool wraps an existing pool (used by tests and the migrator).
func NewWithPool(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Name() string { return "postgres" }

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Pool exposes the underlying pool for migrations.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

func (s *Store) CountRows(ctx context.Context, table string) (int64, error) {
	if !validTable(table) {
		return 0, fmt.Errorf("unknown table %q", table)
	}
	var n int64
	// Table name is validated against the fixed reconciliation list; it
	// cannot be a bind parameter.
	err := s.pool.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

func validTable(table string) bool {
	for _, t := range store.Tables {
		if t == table {
			return true
		}
	}
	return false
}
