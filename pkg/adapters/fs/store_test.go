package fs

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/leetscape/leetscape/pkg/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(Config{Path: t.TempDir(), Logger: slog.New(slog.DiscardHandler)})
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return store
}

func TestSetGetRoundtrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	in := core.Fields{"uid": "u1", "solved": true, "problemId": float64(1)}
	if err := store.Set(ctx, "userProgress", "u1_1", in); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	out, err := store.Get(ctx, "userProgress", "u1_1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if out["uid"] != "u1" || out["solved"] != true || out["problemId"] != float64(1) {
		t.Errorf("unexpected fields: %v", out)
	}
}

func TestDocumentIsPlainJSONOnDisk(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.Set(ctx, "users", "u1", core.Fields{"uid": "u1"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	path := filepath.Join(store.Path(), "users", "u1.json")
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected document file at %s: %v", path, err)
	}
}

func TestGetMissing(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Get(context.Background(), "users", "ghost"); !core.IsNotFound(err) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateMergesAndClears(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_ = store.Set(ctx, "userProgress", "u1_1", core.Fields{"solved": true, "solvedAt": "2026-03-14"})

	err := store.Update(ctx, "userProgress", "u1_1", core.Fields{"solved": false, "solvedAt": nil})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	out, _ := store.Get(ctx, "userProgress", "u1_1")
	if out["solved"] != false {
		t.Errorf("merge did not apply: %v", out)
	}
	if _, present := out["solvedAt"]; present {
		t.Errorf("nil value should clear the field: %v", out)
	}
}

func TestUpdateMissing(t *testing.T) {
	store := newTestStore(t)
	err := store.Update(context.Background(), "users", "ghost", core.Fields{"a": 1})
	if !core.IsNotFound(err) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_ = store.Set(ctx, "users", "u1", core.Fields{"uid": "u1"})
	if err := store.Delete(ctx, "users", "u1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, "users", "u1"); err != nil {
		t.Errorf("second delete should be a no-op: %v", err)
	}
}

func TestQueryByField(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_ = store.Set(ctx, "userNotes", "u1_1", core.Fields{"uid": "u1"})
	_ = store.Set(ctx, "userNotes", "u1_2", core.Fields{"uid": "u1"})
	_ = store.Set(ctx, "userNotes", "u2_1", core.Fields{"uid": "u2"})

	docs, err := store.QueryByField(ctx, "userNotes", "uid", "u1")
	if err != nil {
		t.Fatalf("QueryByField failed: %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("expected 2 documents, got %d", len(docs))
	}
}

func TestQueryMissingCollection(t *testing.T) {
	store := newTestStore(t)
	docs, err := store.QueryByField(context.Background(), "nothing", "uid", "u1")
	if err != nil {
		t.Fatalf("expected empty result for missing collection, got %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("expected no documents, got %d", len(docs))
	}
}

func TestQuerySkipsCorruptDocuments(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_ = store.Set(ctx, "userNotes", "good", core.Fields{"uid": "u1"})

	corrupt := filepath.Join(store.Path(), "userNotes", "bad.json")
	if err := os.WriteFile(corrupt, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to plant corrupt file: %v", err)
	}

	docs, err := store.QueryByField(ctx, "userNotes", "uid", "u1")
	if err != nil {
		t.Fatalf("QueryByField failed: %v", err)
	}
	if len(docs) != 1 {
		t.Errorf("expected corrupt document to be skipped, got %d docs", len(docs))
	}
}

func TestRejectsPathTraversal(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.Set(ctx, "users", "../escape", core.Fields{}); err == nil {
		t.Error("expected invalid id error")
	}
	if _, err := store.Get(ctx, "../users", "u1"); err == nil {
		t.Error("expected invalid collection error")
	}
}
