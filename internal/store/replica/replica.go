// Package replica is the read-replica adapter of the store port, an embedded
// SQLite database kept in sync by an external replication pipeline. It
// exposes the same contract as the primary so the engine can shift read
// traffic between the two without behavioral drift.
package replica

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/updrift/updrift/internal/store"
)

// Store implements store.Backend against SQLite.
type Store struct {
	db *sql.DB
}

// New opens the replica database file.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open replica db: %w", err)
	}
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing handle (used by tests).
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Name() string { return "replica" }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for migrations.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) CountRows(ctx context.Context, table string) (int64, error) {
	if !validTable(table) {
		return 0, fmt.Errorf("unknown table %q", table)
	}
	var n int64
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)).Scan(&n)
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
