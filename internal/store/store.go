package store

import (
	"database/sql"
	"fmt"

	"github.com/K9MKE/archivewrapped/internal/migration"
	_ "github.com/mattn/go-sqlite3"
)

// Store owns the sqlite database that backs one analysis run.
type Store struct {
	db *sql.DB
}

// New opens (or creates) a database at the given path.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &Store{db: db}, nil
}

// NewMemory opens an in-memory database. Analysis runs hold no state
// between invocations, so this is the normal mode.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for the analysis queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

func createTables(db *sql.DB) error {
	if _, err := db.Exec(migration.Create); err != nil {
		return fmt.Errorf("executing migration: %w", err)
	}
	return nil
}
