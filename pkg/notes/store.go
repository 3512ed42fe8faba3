// Package notes owns per-problem study notes. Unlike progress reads, note
// operations fail closed: every failure surfaces as an error the caller must
// handle, because silently dropping user-authored text is worse than showing
// an error.
package notes

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/leetscape/leetscape/pkg/core"
	"github.com/leetscape/leetscape/pkg/typed"
)

// Store reads and writes note records against the remote document store.
// One note per (user, problem); the document id is the composite key.
type Store struct {
	docs   core.DocumentStore
	coll   *typed.Collection[core.NoteRecord]
	logger *slog.Logger
	now    func() time.Time
}

// NewStore creates a note store on top of docs.
func NewStore(docs core.DocumentStore, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		docs:   docs,
		coll:   typed.NewCollection[core.NoteRecord](docs, core.CollectionNotes),
		logger: logger,
		now:    time.Now,
	}
}

// SetClock overrides the timestamp source.
func (s *Store) SetClock(now func() time.Time) { s.now = now }

func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return &core.ValidationError{Field: "content", Reason: "must not be empty"}
	}
	return nil
}

// Create writes the note for (uid, problemID), replacing any existing note
// for the same problem. CreatedAt and UpdatedAt are both stamped now.
func (s *Store) Create(ctx context.Context, uid string, problemID int, title, content string, tags []string) error {
	if err := validateContent(content); err != nil {
		return err
	}

	now := s.now().UTC()
	key := core.ProgressKey(uid, problemID)
	rec := core.NoteRecord{
		UID:          uid,
		NoteID:       key,
		ProblemID:    problemID,
		ProblemTitle: title,
		Content:      content,
		Tags:         tags,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.coll.Set(ctx, key, rec); err != nil {
		return &core.WriteError{Op: "create note", Collection: core.CollectionNotes, ID: key, Err: err}
	}
	return nil
}

// Update rewrites the content and tags of an existing note, refreshing
// UpdatedAt but preserving CreatedAt. Updating a note that does not exist is
// an error, not an upsert.
func (s *Store) Update(ctx context.Context, uid string, problemID int, content string, tags []string) error {
	if err := validateContent(content); err != nil {
		return err
	}

	partial := core.Fields{
		"content":   content,
		"tags":      tags,
		"updatedAt": s.now().UTC(),
	}

	key := core.ProgressKey(uid, problemID)
	if err := s.docs.Update(ctx, core.CollectionNotes, key, partial); err != nil {
		return &core.WriteError{Op: "update note", Collection: core.CollectionNotes, ID: key, Err: err}
	}
	return nil
}

// Delete removes the note for (uid, problemID). Deleting an absent note is
// a no-op.
func (s *Store) Delete(ctx context.Context, uid string, problemID int) error {
	key := core.ProgressKey(uid, problemID)
	if err := s.coll.Delete(ctx, key); err != nil {
		return &core.WriteError{Op: "delete note", Collection: core.CollectionNotes, ID: key, Err: err}
	}
	return nil
}

// GetOne returns the note for (uid, problemID), or (nil, nil) when no note
// exists. Transport failures surface as a ReadError.
func (s *Store) GetOne(ctx context.Context, uid string, problemID int) (*core.NoteRecord, error) {
	key := core.ProgressKey(uid, problemID)
	rec, err := s.coll.Get(ctx, key)
	if core.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, &core.ReadError{Collection: core.CollectionNotes, ID: key, Err: err}
	}
	return rec, nil
}

// GetAll returns every note for uid, most recently updated first.
func (s *Store) GetAll(ctx context.Context, uid string) ([]core.NoteRecord, error) {
	records, err := s.coll.QueryByField(ctx, "uid", uid)
	if err != nil {
		return nil, &core.ReadError{Collection: core.CollectionNotes, Err: err}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].UpdatedAt.After(records[j].UpdatedAt)
	})
	return records, nil
}
