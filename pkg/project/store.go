// Package project persists document snapshots in PostgreSQL. It is the
// thin room/project CRUD adapter behind the CLI's project commands; the
// editor core never depends on it.
package project

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a project name has no saved snapshot.
var ErrNotFound = errors.New("project not found")

// Record is one saved project snapshot.
type Record struct {
	Name      string
	Document  []byte
	UpdatedAt time.Time
}

// Store is a pgx-backed project snapshot store.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a store over an existing connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Connect opens a pool and returns a store over it.
func Connect(ctx context.Context, dbURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Initialize creates the projects table if it doesn't exist.
func (s *Store) Initialize(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS projects (
			name VARCHAR(255) PRIMARY KEY,
			document JSONB NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		);
	`
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create projects table: %w", err)
	}
	return nil
}

// Save upserts a project snapshot.
func (s *Store) Save(ctx context.Context, name string, snapshot []byte) error {
	query := `
		INSERT INTO projects (name, document, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE SET document = $2, updated_at = NOW()
	`
	if _, err := s.pool.Exec(ctx, query, name, snapshot); err != nil {
		return fmt.Errorf("failed to save project %q: %w", name, err)
	}
	return nil
}

// Load returns the snapshot saved under name.
func (s *Store) Load(ctx context.Context, name string) (*Record, error) {
	var rec Record
	rec.Name = name
	err := s.pool.QueryRow(ctx,
		`SELECT document, updated_at FROM projects WHERE name = $1`, name,
	).Scan(&rec.Document, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load project %q: %w", name, err)
	}
	return &rec, nil
}

// List returns every saved project, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT name, document, updated_at FROM projects ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.Name, &rec.Document, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read project rows: %w", err)
	}
	return records, nil
}

// Delete removes a saved project.
func (s *Store) Delete(ctx context.Context, name string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM projects WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("failed to delete project %q: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
