package notes

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/leetscape/leetscape/pkg/adapters/memory"
	"github.com/leetscape/leetscape/pkg/core"
)

var testTime = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(memory.NewStore(), slog.New(slog.DiscardHandler))
	store.SetClock(func() time.Time { return testTime })
	return store
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	err := store.Create(ctx, "u1", 1, "Two Sum", "Use a hash map.", []string{"arrays"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	note, err := store.GetOne(ctx, "u1", 1)
	if err != nil {
		t.Fatalf("GetOne failed: %v", err)
	}
	if note == nil {
		t.Fatal("expected note")
	}
	if note.Content != "Use a hash map." || note.ProblemTitle != "Two Sum" {
		t.Errorf("unexpected note: %+v", note)
	}
	if !note.CreatedAt.Equal(testTime) || !note.UpdatedAt.Equal(testTime) {
		t.Errorf("unexpected timestamps: %+v", note)
	}
}

func TestCreateRejectsEmptyContent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, content := range []string{"", "   ", "\n\t"} {
		err := store.Create(ctx, "u1", 1, "Two Sum", content, nil)
		var verr *core.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("content %q: expected ValidationError, got %v", content, err)
		}
	}
}

func TestUpdatePreservesCreatedAt(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.Create(ctx, "u1", 1, "Two Sum", "v1", nil); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	later := testTime.Add(time.Hour)
	store.SetClock(func() time.Time { return later })

	if err := store.Update(ctx, "u1", 1, "v2", []string{"revisit"}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	note, err := store.GetOne(ctx, "u1", 1)
	if err != nil || note == nil {
		t.Fatalf("GetOne failed: %v", err)
	}
	if note.Content != "v2" {
		t.Errorf("content not updated: %+v", note)
	}
	if !note.CreatedAt.Equal(testTime) {
		t.Errorf("CreatedAt changed: %+v", note)
	}
	if !note.UpdatedAt.Equal(later) {
		t.Errorf("UpdatedAt not refreshed: %+v", note)
	}
}

func TestUpdateMissingNoteFails(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	err := store.Update(ctx, "u1", 99, "content", nil)
	if err == nil {
		t.Fatal("expected error updating a missing note")
	}
	if !core.IsNotFound(err) {
		t.Errorf("expected wrapped ErrNotFound, got %v", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.Create(ctx, "u1", 1, "Two Sum", "note", nil); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Delete(ctx, "u1", 1); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, "u1", 1); err != nil {
		t.Errorf("second delete should be a no-op, got %v", err)
	}

	note, err := store.GetOne(ctx, "u1", 1)
	if err != nil {
		t.Fatalf("GetOne failed: %v", err)
	}
	if note != nil {
		t.Errorf("note survived delete: %+v", note)
	}
}

func TestGetAllOrdersByUpdatedAtDesc(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	times := []time.Time{testTime, testTime.Add(2 * time.Hour), testTime.Add(time.Hour)}
	for i, ts := range times {
		store.SetClock(func() time.Time { return ts })
		if err := store.Create(ctx, "u1", i+1, "Problem", "note", nil); err != nil {
			t.Fatalf("Create %d failed: %v", i+1, err)
		}
	}

	records, err := store.GetAll(ctx, "u1")
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 notes, got %d", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i-1].UpdatedAt.Before(records[i].UpdatedAt) {
			t.Fatal("notes not ordered most-recent first")
		}
	}
	if records[0].ProblemID != 2 {
		t.Errorf("expected note 2 (latest) first, got %d", records[0].ProblemID)
	}
}

func TestGetAllScopedToUser(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_ = store.Create(ctx, "u1", 1, "Two Sum", "mine", nil)
	_ = store.Create(ctx, "u2", 1, "Two Sum", "theirs", nil)

	records, err := store.GetAll(ctx, "u1")
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(records) != 1 || records[0].Content != "mine" {
		t.Errorf("unexpected records: %+v", records)
	}
}

// failingStore errors on every operation.
type failingStore struct{}

var errBoom = errors.New("boom")

func (failingStore) Set(context.Context, string, string, core.Fields) error    { return errBoom }
func (failingStore) Update(context.Context, string, string, core.Fields) error { return errBoom }
func (failingStore) Get(context.Context, string, string) (core.Fields, error) {
	return nil, errBoom
}
func (failingStore) Delete(context.Context, string, string) error { return errBoom }
func (failingStore) QueryByField(context.Context, string, string, any) ([]core.Fields, error) {
	return nil, errBoom
}

func TestReadsFailClosed(t *testing.T) {
	ctx := context.Background()
	store := NewStore(failingStore{}, slog.New(slog.DiscardHandler))

	if _, err := store.GetAll(ctx, "u1"); err == nil {
		t.Error("expected GetAll to surface the read failure")
	}
	if _, err := store.GetOne(ctx, "u1", 1); err == nil {
		t.Error("expected GetOne to surface the read failure")
	}
}

func TestWritesFailClosed(t *testing.T) {
	ctx := context.Background()
	store := NewStore(failingStore{}, slog.New(slog.DiscardHandler))

	var werr *core.WriteError
	if err := store.Create(ctx, "u1", 1, "Two Sum", "note", nil); !errors.As(err, &werr) {
		t.Errorf("expected WriteError from Create, got %v", err)
	}
	if err := store.Delete(ctx, "u1", 1); !errors.As(err, &werr) {
		t.Errorf("expected WriteError from Delete, got %v", err)
	}
}
