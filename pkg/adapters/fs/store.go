// Package fs persists documents as pretty-printed JSON files under
// root/collection/id.json. It is the default adapter: inspectable with a
// text editor and diff-friendly.
package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/leetscape/leetscape/pkg/core"
)

// Config holds filesystem store configuration.
type Config struct {
	// Path is the root directory; one subdirectory per collection.
	Path string
	// Logger for store diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// Store is a core.DocumentStore backed by a directory tree.
type Store struct {
	path   string
	logger *slog.Logger

	// Serializes writers. Readers rely on atomic renames instead.
	mu sync.Mutex
}

// NewStore creates a filesystem store rooted at cfg.Path and ensures the
// root directory exists.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("fs store requires a path")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store root %s: %w", cfg.Path, err)
	}

	return &Store{path: cfg.Path, logger: logger}, nil
}

// Path returns the root directory of the store.
func (s *Store) Path() string { return s.path }

func validName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid document path segment %q", name)
	}
	return nil
}

func (s *Store) docPath(collection, id string) (string, error) {
	if err := validName(collection); err != nil {
		return "", err
	}
	if err := validName(id); err != nil {
		return "", err
	}
	return filepath.Join(s.path, collection, id+".json"), nil
}

// Set fully overwrites the document at (collection, id). The write is
// atomic: a temp file in the same directory followed by a rename.
func (s *Store) Set(ctx context.Context, collection, id string, payload core.Fields) error {
	path, err := s.docPath(collection, id)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document %s/%s: %w", collection, id, err)
	}
	data = append(data, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create collection dir: %w", err)
	}
	return writeFileAtomic(path, data, 0o644)
}

// Update merges partial into an existing document; read-merge-write under
// the writer lock. A nil field value clears the stored field.
func (s *Store) Update(ctx context.Context, collection, id string, partial core.Fields) error {
	path, err := s.docPath(collection, id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.read(path, collection, id)
	if err != nil {
		return err
	}
	for k, v := range partial {
		if v == nil {
			delete(existing, k)
			continue
		}
		existing[k] = v
	}

	data, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document %s/%s: %w", collection, id, err)
	}
	data = append(data, '\n')
	return writeFileAtomic(path, data, 0o644)
}

// Get returns the document at (collection, id).
func (s *Store) Get(ctx context.Context, collection, id string) (core.Fields, error) {
	path, err := s.docPath(collection, id)
	if err != nil {
		return nil, err
	}
	return s.read(path, collection, id)
}

func (s *Store) read(path, collection, id string) (core.Fields, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s/%s: %w", collection, id, err)
	}

	var fields core.Fields
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode document %s/%s: %w", collection, id, err)
	}
	return fields, nil
}

// Delete removes the document at (collection, id). Missing documents are a
// no-op.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	path, err := s.docPath(collection, id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete document %s/%s: %w", collection, id, err)
	}
	return nil
}

// QueryByField scans the collection directory and returns every document
// whose field equals value. Undecodable files are skipped with a warning so
// one corrupt document cannot take out the whole query.
func (s *Store) QueryByField(ctx context.Context, collection, field string, value any) ([]core.Fields, error) {
	if err := validName(collection); err != nil {
		return nil, err
	}

	dir := filepath.Join(s.path, collection)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan collection %s: %w", collection, err)
	}

	var result []core.Fields
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		id := strings.TrimSuffix(entry.Name(), ".json")
		fields, err := s.read(filepath.Join(dir, entry.Name()), collection, id)
		if err != nil {
			s.logger.Warn("skipping unreadable document", "collection", collection, "id", id, "error", err)
			continue
		}
		if core.FieldEquals(fields[field], value) {
			result = append(result, fields)
		}
	}
	return result, nil
}

var _ core.DocumentStore = (*Store)(nil)
