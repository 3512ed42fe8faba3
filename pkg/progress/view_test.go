package progress

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/leetscape/leetscape/pkg/adapters/memory"
	"github.com/leetscape/leetscape/pkg/core"
)

func newTestView(t *testing.T) (*View, *memory.Store) {
	t.Helper()
	store, docs := newTestStore(t)
	view := NewView(store, slog.New(slog.DiscardHandler))
	view.SetUser("u1")
	return view, docs
}

func TestToggleWithoutUser(t *testing.T) {
	store, _ := newTestStore(t)
	view := NewView(store, slog.New(slog.DiscardHandler))

	err := view.MarkSolved(context.Background(), 1, "Two Sum", true)
	if !errors.Is(err, ErrNoUser) {
		t.Errorf("expected ErrNoUser, got %v", err)
	}
}

func TestMarkSolvedCommits(t *testing.T) {
	ctx := context.Background()
	view, _ := newTestView(t)

	if err := view.MarkSolved(ctx, 1, "Two Sum", true); err != nil {
		t.Fatalf("MarkSolved failed: %v", err)
	}

	if !view.Solved(1) {
		t.Error("expected solved flag in snapshot")
	}
	if view.WriteState(1) != KeyCommitted {
		t.Errorf("expected committed state, got %s", view.WriteState(1))
	}
	if view.Busy(1) {
		t.Error("key still busy after settled write")
	}
}

func TestRollbackOnWriteFailure(t *testing.T) {
	ctx := context.Background()
	store := NewStore(failingStore{}, slog.New(slog.DiscardHandler))
	view := NewView(store, slog.New(slog.DiscardHandler))
	view.SetUser("u1")

	err := view.MarkSolved(ctx, 1, "Two Sum", true)
	if err == nil {
		t.Fatal("expected write error")
	}

	if view.Solved(1) {
		t.Error("optimistic update not rolled back")
	}
	if _, ok := view.Get(1); ok {
		t.Error("record created by a failed first write should be removed")
	}
	if view.WriteState(1) != KeyRolledBack {
		t.Errorf("expected rolled-back state, got %s", view.WriteState(1))
	}
}

func TestRollbackRestoresPreviousRecord(t *testing.T) {
	ctx := context.Background()
	docs := memory.NewStore()
	flaky := &gateStore{Store: docs}
	store := NewStore(flaky, slog.New(slog.DiscardHandler))
	view := NewView(store, slog.New(slog.DiscardHandler))
	view.SetUser("u1")

	if err := view.MarkSolved(ctx, 1, "Two Sum", true); err != nil {
		t.Fatalf("seed write failed: %v", err)
	}

	flaky.fail = true
	if err := view.ToggleBookmark(ctx, 1, "Two Sum", true); err == nil {
		t.Fatal("expected write error")
	}

	if view.Bookmarked(1) {
		t.Error("bookmark not rolled back")
	}
	if !view.Solved(1) {
		t.Error("rollback lost the pre-existing solved flag")
	}
}

func TestBusyKeyRefusesConcurrentToggle(t *testing.T) {
	ctx := context.Background()
	docs := memory.NewStore()
	gate := &gateStore{Store: docs, block: make(chan struct{}), blockID: "u1_1"}
	store := NewStore(gate, slog.New(slog.DiscardHandler))
	view := NewView(store, slog.New(slog.DiscardHandler))
	view.SetUser("u1")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = view.MarkSolved(ctx, 1, "Two Sum", true)
	}()

	gate.waitEntered()

	if err := view.MarkSolved(ctx, 1, "Two Sum", false); !errors.Is(err, ErrKeyBusy) {
		t.Errorf("expected ErrKeyBusy, got %v", err)
	}
	// A different problem is not affected by the busy key.
	if err := view.MarkSolved(ctx, 2, "Add Two Numbers", true); err != nil {
		t.Errorf("unrelated key blocked: %v", err)
	}

	close(gate.block)
	wg.Wait()

	if !view.Solved(1) {
		t.Error("expected first toggle to commit")
	}
}

func TestUserSwitchDiscardsInFlightWrite(t *testing.T) {
	ctx := context.Background()
	docs := memory.NewStore()
	gate := &gateStore{Store: docs, block: make(chan struct{})}
	store := NewStore(gate, slog.New(slog.DiscardHandler))
	view := NewView(store, slog.New(slog.DiscardHandler))
	view.SetUser("u1")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = view.MarkSolved(ctx, 1, "Two Sum", true)
	}()

	gate.waitEntered()
	view.SetUser("u2")
	close(gate.block)
	wg.Wait()

	// The write settled under the old epoch and must not leak into the new
	// user's snapshot.
	if view.Solved(1) {
		t.Error("stale write leaked into fresh snapshot")
	}
	if view.Busy(1) {
		t.Error("stale write left the key busy")
	}
	if view.User() != "u2" {
		t.Errorf("unexpected user: %s", view.User())
	}
}

func TestRefreshDiscardsStaleSnapshot(t *testing.T) {
	ctx := context.Background()
	docs := memory.NewStore()
	gate := &gateStore{Store: docs, blockReads: true, block: make(chan struct{})}
	store := NewStore(gate, slog.New(slog.DiscardHandler))
	view := NewView(store, slog.New(slog.DiscardHandler))
	view.SetUser("u1")

	seed := NewStore(docs, slog.New(slog.DiscardHandler))
	if err := seed.MarkSolved(ctx, "u1", 1, "Two Sum", true); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		view.Refresh(ctx)
	}()

	gate.waitEntered()
	view.SetUser("u2")
	close(gate.block)
	wg.Wait()

	if view.Solved(1) {
		t.Error("stale snapshot applied after user switch")
	}
}

func TestCountsAndRecords(t *testing.T) {
	ctx := context.Background()
	view, _ := newTestView(t)

	_ = view.MarkSolved(ctx, 20, "Valid Parentheses", true)
	_ = view.MarkSolved(ctx, 1, "Two Sum", true)
	_ = view.ToggleBookmark(ctx, 42, "Trapping Rain Water", true)

	solved, bookmarked := view.Counts()
	if solved != 2 || bookmarked != 1 {
		t.Errorf("expected 2 solved / 1 bookmarked, got %d/%d", solved, bookmarked)
	}

	records := view.Records()
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i-1].ProblemID > records[i].ProblemID {
			t.Fatal("records not ordered by problem id")
		}
	}
}

// gateStore wraps the memory store to fail or block operations on demand.
// When blockID is set, only writes to that document id block.
type gateStore struct {
	*memory.Store

	mu         sync.Mutex
	fail       bool
	block      chan struct{}
	blockID    string
	blockReads bool
	entered    chan struct{}
	once       sync.Once
}

func (g *gateStore) waitEntered() {
	g.mu.Lock()
	if g.entered == nil {
		g.entered = make(chan struct{})
	}
	ch := g.entered
	g.mu.Unlock()
	<-ch
}

func (g *gateStore) signalEntered() {
	g.mu.Lock()
	if g.entered == nil {
		g.entered = make(chan struct{})
	}
	g.mu.Unlock()
	g.once.Do(func() { close(g.entered) })
}

func (g *gateStore) gate(id string) error {
	if g.blockID != "" && id != g.blockID {
		g.mu.Lock()
		fail := g.fail
		g.mu.Unlock()
		if fail {
			return errBoom
		}
		return nil
	}
	g.signalEntered()
	if g.block != nil {
		<-g.block
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail {
		return errBoom
	}
	return nil
}

func (g *gateStore) Set(ctx context.Context, collection, id string, payload core.Fields) error {
	if err := g.gate(id); err != nil {
		return err
	}
	return g.Store.Set(ctx, collection, id, payload)
}

func (g *gateStore) Update(ctx context.Context, collection, id string, partial core.Fields) error {
	g.mu.Lock()
	fail := g.fail
	g.mu.Unlock()
	if fail {
		g.signalEntered()
		return errBoom
	}
	return g.Store.Update(ctx, collection, id, partial)
}

func (g *gateStore) QueryByField(ctx context.Context, collection, field string, value any) ([]core.Fields, error) {
	if g.blockReads {
		if err := g.gate(g.blockID); err != nil {
			return nil, err
		}
	}
	return g.Store.QueryByField(ctx, collection, field, value)
}
