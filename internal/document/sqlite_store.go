package document

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQLiteStore implements Store on a single SQLite table. Documents
// are stored as JSON text keyed by name — they are opaque blobs to
// the database, so no ORM sits in between.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an opened database handle. The caller owns the
// handle; modernc.org/sqlite works best with a single open
// connection.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Migrate creates the documents table. Run once at startup.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			name       TEXT PRIMARY KEY,
			body       TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("creating documents table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, name string) (map[string]any, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE name = ?`, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return doc, nil
}

func (s *SQLiteStore) Save(ctx context.Context, name string, doc map[string]any) error {
	if err := checkName(name); err != nil {
		return err
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (name, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		name, string(body), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("saving %s: %w", name, err)
	}
	return nil
}
