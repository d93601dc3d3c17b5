// Package store provides SQLite storage for airdraw preferences: the toolbar
// palette and key/value settings. Drawings are never persisted.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/ayusman/airdraw/internal/canvas"
)

// Store represents a SQLite database connection for palette and settings data.
type Store struct {
	db   *sql.DB
	path string
}

// New creates a new Store with the given database path.
// It opens the database connection, enables foreign keys, runs migrations and
// seeds the default palette into an empty colors table.
func New(dbPath string) (*Store, error) {
	return NewWithPalette(dbPath, nil)
}

// NewWithPalette is like New but seeds palette into an empty colors table.
// An empty palette falls back to canvas.DefaultPalette. A table that already
// holds colors is left alone.
func NewWithPalette(dbPath string, palette []canvas.Color) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := s.Colors().seed(palette); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed palette: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}
