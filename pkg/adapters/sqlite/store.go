// Package sqlite persists documents as JSON payloads in a single SQLite
// table, keyed by (collection, id). It trades the fs adapter's
// inspectability for a single portable file and real transactions on the
// read-merge-write path.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/leetscape/leetscape/pkg/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	payload    TEXT NOT NULL,
	PRIMARY KEY (collection, id)
);`

// Store is a core.DocumentStore backed by a SQLite database file.
type Store struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore opens (or creates) the database at path and ensures the schema.
// Use ":memory:" for an ephemeral store.
func NewStore(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store %s: %w", path, err)
	}
	// SQLite serializes writers anyway; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize sqlite schema: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Set fully overwrites the document at (collection, id).
func (s *Store) Set(ctx context.Context, collection, id string, payload core.Fields) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode document %s/%s: %w", collection, id, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, payload) VALUES (?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE SET payload = excluded.payload`,
		collection, id, string(data))
	if err != nil {
		return fmt.Errorf("failed to write document %s/%s: %w", collection, id, err)
	}
	return nil
}

// Update merges partial into an existing document inside a transaction.
// A nil field value clears the stored field.
func (s *Store) Update(ctx context.Context, collection, id string, partial core.Fields) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin update: %w", err)
	}
	defer tx.Rollback()

	var raw string
	err = tx.GetContext(ctx, &raw,
		`SELECT payload FROM documents WHERE collection = ? AND id = ?`, collection, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read document %s/%s: %w", collection, id, err)
	}

	var fields core.Fields
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return fmt.Errorf("failed to decode document %s/%s: %w", collection, id, err)
	}
	for k, v := range partial {
		if v == nil {
			delete(fields, k)
			continue
		}
		fields[k] = v
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode document %s/%s: %w", collection, id, err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE documents SET payload = ? WHERE collection = ? AND id = ?`,
		string(data), collection, id); err != nil {
		return fmt.Errorf("failed to write document %s/%s: %w", collection, id, err)
	}
	return tx.Commit()
}

// Get returns the document at (collection, id).
func (s *Store) Get(ctx context.Context, collection, id string) (core.Fields, error) {
	var raw string
	err := s.db.GetContext(ctx, &raw,
		`SELECT payload FROM documents WHERE collection = ? AND id = ?`, collection, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s/%s: %w", collection, id, err)
	}

	var fields core.Fields
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("failed to decode document %s/%s: %w", collection, id, err)
	}
	return fields, nil
}

// Delete removes the document at (collection, id). Missing documents are a
// no-op.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return fmt.Errorf("failed to delete document %s/%s: %w", collection, id, err)
	}
	return nil
}

// QueryByField returns every document in the collection whose field equals
// value. Payloads are filtered in Go after decode so the equality semantics
// match the other adapters exactly.
func (s *Store) QueryByField(ctx context.Context, collection, field string, value any) ([]core.Fields, error) {
	var rows []string
	err := s.db.SelectContext(ctx, &rows,
		`SELECT payload FROM documents WHERE collection = ? ORDER BY id`, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to scan collection %s: %w", collection, err)
	}

	var result []core.Fields
	for _, raw := range rows {
		var fields core.Fields
		if err := json.Unmarshal([]byte(raw), &fields); err != nil {
			s.logger.Warn("skipping undecodable document", "collection", collection, "error", err)
			continue
		}
		if core.FieldEquals(fields[field], value) {
			result = append(result, fields)
		}
	}
	return result, nil
}

var _ core.DocumentStore = (*Store)(nil)
