// Package progress owns per-user solved/bookmarked records: the remote
// read/write layer (Store) and the synchronous in-memory view the UI reads
// (View).
package progress

import (
	"context"
	"log/slog"
	"time"

	"github.com/leetscape/leetscape/pkg/core"
	"github.com/leetscape/leetscape/pkg/typed"
)

// Store reads and writes progress records against the remote document store.
//
// Failure policy is asymmetric on purpose: reads fail open (empty result +
// log) so the UI keeps rendering in a degraded state, writes fail closed so
// the caller never assumes a lost write succeeded. Exactly one attempt per
// operation, no retries.
type Store struct {
	docs   core.DocumentStore
	coll   *typed.Collection[core.ProgressRecord]
	logger *slog.Logger
	now    func() time.Time
}

// NewStore creates a progress store on top of docs.
func NewStore(docs core.DocumentStore, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		docs:   docs,
		coll:   typed.NewCollection[core.ProgressRecord](docs, core.CollectionProgress),
		logger: logger,
		now:    time.Now,
	}
}

// SetClock overrides the timestamp source.
func (s *Store) SetClock(now func() time.Time) { s.now = now }

// MarkSolved sets the solved flag for (uid, problemID), stamping solvedAt
// when solved is true and clearing it otherwise.
//
// Writes are field-level merges, so the bookmarked flag is untouched: solved
// and bookmarked are independently settable. (The historical behavior was a
// full-document overwrite that silently dropped the other flag.) The first
// write for a key falls back to creating the full record.
func (s *Store) MarkSolved(ctx context.Context, uid string, problemID int, title string, solved bool) error {
	now := s.now().UTC()
	partial := core.Fields{
		"uid":          uid,
		"problemId":    problemID,
		"problemTitle": title,
		"solved":       solved,
	}
	if solved {
		partial["solvedAt"] = now
	} else {
		partial["solvedAt"] = nil
	}

	err := s.write(ctx, uid, problemID, partial, func(rec *core.ProgressRecord) {
		rec.Solved = solved
		if solved {
			rec.SolvedAt = &now
		}
	})
	if err != nil {
		return &core.WriteError{
			Op:         "mark solved",
			Collection: core.CollectionProgress,
			ID:         core.ProgressKey(uid, problemID),
			Err:        err,
		}
	}
	return nil
}

// ToggleBookmark sets the bookmarked flag for (uid, problemID), symmetric to
// MarkSolved.
func (s *Store) ToggleBookmark(ctx context.Context, uid string, problemID int, title string, bookmarked bool) error {
	now := s.now().UTC()
	partial := core.Fields{
		"uid":          uid,
		"problemId":    problemID,
		"problemTitle": title,
		"bookmarked":   bookmarked,
	}
	if bookmarked {
		partial["bookmarkedAt"] = now
	} else {
		partial["bookmarkedAt"] = nil
	}

	err := s.write(ctx, uid, problemID, partial, func(rec *core.ProgressRecord) {
		rec.Bookmarked = bookmarked
		if bookmarked {
			rec.BookmarkedAt = &now
		}
	})
	if err != nil {
		return &core.WriteError{
			Op:         "toggle bookmark",
			Collection: core.CollectionProgress,
			ID:         core.ProgressKey(uid, problemID),
			Err:        err,
		}
	}
	return nil
}

// write merges partial into the record, creating it on first toggle.
// Toggling "off" still writes a record with the flag false rather than
// deleting the document.
func (s *Store) write(ctx context.Context, uid string, problemID int, partial core.Fields, init func(*core.ProgressRecord)) error {
	key := core.ProgressKey(uid, problemID)

	err := s.docs.Update(ctx, core.CollectionProgress, key, partial)
	if !core.IsNotFound(err) {
		return err
	}

	rec := core.ProgressRecord{
		UID:          uid,
		ProblemID:    problemID,
		ProblemTitle: partial["problemTitle"].(string),
	}
	init(&rec)
	return s.coll.Set(ctx, key, rec)
}

// GetAll returns every progress record for uid, in store-native order.
// It fails open: on read failure it logs and returns an empty set, and
// records that no longer decode are skipped individually.
func (s *Store) GetAll(ctx context.Context, uid string) []core.ProgressRecord {
	docs, err := s.docs.QueryByField(ctx, core.CollectionProgress, "uid", uid)
	if err != nil {
		rerr := &core.ReadError{Collection: core.CollectionProgress, Err: err}
		s.logger.Error("failed to load progress, serving empty set", "uid", uid, "error", rerr)
		return nil
	}

	records := make([]core.ProgressRecord, 0, len(docs))
	for _, fields := range docs {
		rec, err := typed.Decode[core.ProgressRecord](fields)
		if err != nil {
			s.logger.Warn("skipping undecodable progress record", "uid", uid, "error", err)
			continue
		}
		records = append(records, *rec)
	}
	return records
}

// GetOne returns the record for (uid, problemID), or nil when absent.
// Like GetAll it fails open: a read failure also yields nil, distinguishable
// only through the log.
func (s *Store) GetOne(ctx context.Context, uid string, problemID int) *core.ProgressRecord {
	key := core.ProgressKey(uid, problemID)
	rec, err := s.coll.Get(ctx, key)
	if core.IsNotFound(err) {
		return nil
	}
	if err != nil {
		rerr := &core.ReadError{Collection: core.CollectionProgress, ID: key, Err: err}
		s.logger.Error("failed to load progress record", "error", rerr)
		return nil
	}
	return rec
}
