package progress

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/leetscape/leetscape/pkg/core"
)

// ErrKeyBusy is returned when a toggle is refused because a write for the
// same problem is still in flight. The caller should retry after the pending
// write settles.
var ErrKeyBusy = errors.New("a write for this problem is already in flight")

// ErrNoUser is returned when a mutation is attempted with no signed-in user.
var ErrNoUser = errors.New("no authenticated user")

// KeyState is the per-key write state machine:
// Idle -> Pending -> {Committed | RolledBack}.
type KeyState int

const (
	KeyIdle KeyState = iota
	KeyPending
	KeyCommitted
	KeyRolledBack
)

func (k KeyState) String() string {
	switch k {
	case KeyPending:
		return "pending"
	case KeyCommitted:
		return "committed"
	case KeyRolledBack:
		return "rolled-back"
	}
	return "idle"
}

// View is the synchronous in-memory snapshot of one user's progress.
//
// Mutations are optimistic with rollback: the local record is updated before
// the remote write settles, and reverted to its pre-optimistic value if the
// write fails. Concurrent toggles on the same problem are refused via a
// per-key busy map; toggles on different problems may be in flight
// simultaneously.
//
// A fetch epoch guards against stale replies: any snapshot reset (user
// change) bumps the epoch, and in-flight reads or writes that started under
// an older epoch are discarded on arrival instead of clobbering fresh state.
type View struct {
	store  *Store
	logger *slog.Logger

	mu      sync.RWMutex
	uid     string
	epoch   uint64
	records map[int]core.ProgressRecord
	busy    map[int]bool
	states  map[int]KeyState
}

// NewView creates an empty view bound to store. Call SetUser (or run a
// Refresher) before mutating.
func NewView(store *Store, logger *slog.Logger) *View {
	if logger == nil {
		logger = slog.Default()
	}
	return &View{
		store:   store,
		logger:  logger,
		records: make(map[int]core.ProgressRecord),
		busy:    make(map[int]bool),
		states:  make(map[int]KeyState),
	}
}

// SetUser resets the snapshot for a new identity (empty uid means signed
// out). The fetch epoch is bumped so stale in-flight responses are dropped.
func (v *View) SetUser(uid string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.uid = uid
	v.epoch++
	v.records = make(map[int]core.ProgressRecord)
	v.busy = make(map[int]bool)
	v.states = make(map[int]KeyState)
}

// User returns the uid the snapshot currently belongs to.
func (v *View) User() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.uid
}

// Refresh re-fetches the full record set and replaces the snapshot,
// discarding the reply if the snapshot was reset while the read was in
// flight. Read failures fail open inside the store, so Refresh never errors.
func (v *View) Refresh(ctx context.Context) {
	v.mu.RLock()
	uid, epoch := v.uid, v.epoch
	v.mu.RUnlock()

	if uid == "" {
		return
	}

	records := v.store.GetAll(ctx, uid)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.epoch != epoch {
		v.logger.Debug("discarding stale progress snapshot", "uid", uid, "epoch", epoch)
		return
	}
	v.records = make(map[int]core.ProgressRecord, len(records))
	for _, r := range records {
		v.records[r.ProblemID] = r
	}
}

// MarkSolved optimistically toggles the solved flag and confirms it against
// the remote store, rolling the local record back on write failure.
func (v *View) MarkSolved(ctx context.Context, problemID int, title string, solved bool) error {
	now := v.store.now().UTC()
	return v.toggle(problemID,
		func(rec core.ProgressRecord) core.ProgressRecord {
			rec.ProblemTitle = title
			rec.Solved = solved
			rec.SolvedAt = nil
			if solved {
				rec.SolvedAt = &now
			}
			return rec
		},
		func(uid string) error {
			return v.store.MarkSolved(ctx, uid, problemID, title, solved)
		})
}

// ToggleBookmark is the bookmark counterpart of MarkSolved.
func (v *View) ToggleBookmark(ctx context.Context, problemID int, title string, bookmarked bool) error {
	now := v.store.now().UTC()
	return v.toggle(problemID,
		func(rec core.ProgressRecord) core.ProgressRecord {
			rec.ProblemTitle = title
			rec.Bookmarked = bookmarked
			rec.BookmarkedAt = nil
			if bookmarked {
				rec.BookmarkedAt = &now
			}
			return rec
		},
		func(uid string) error {
			return v.store.ToggleBookmark(ctx, uid, problemID, title, bookmarked)
		})
}

func (v *View) toggle(problemID int, mutate func(core.ProgressRecord) core.ProgressRecord, write func(uid string) error) error {
	v.mu.Lock()
	if v.uid == "" {
		v.mu.Unlock()
		return ErrNoUser
	}
	if v.busy[problemID] {
		v.mu.Unlock()
		return ErrKeyBusy
	}
	uid, epoch := v.uid, v.epoch
	prev, existed := v.records[problemID]

	base := prev
	if !existed {
		base = core.ProgressRecord{UID: uid, ProblemID: problemID}
	}
	v.records[problemID] = mutate(base)
	v.busy[problemID] = true
	v.states[problemID] = KeyPending
	v.mu.Unlock()

	err := write(uid)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.epoch != epoch {
		// Snapshot was reset mid-flight; the fresh state owns the key now.
		return err
	}
	v.busy[problemID] = false
	if err != nil {
		if existed {
			v.records[problemID] = prev
		} else {
			delete(v.records, problemID)
		}
		v.states[problemID] = KeyRolledBack
		return err
	}
	v.states[problemID] = KeyCommitted
	return nil
}

// Solved reports the snapshot's solved flag for a problem.
func (v *View) Solved(problemID int) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.records[problemID].Solved
}

// Bookmarked reports the snapshot's bookmarked flag for a problem.
func (v *View) Bookmarked(problemID int) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.records[problemID].Bookmarked
}

// Busy reports whether a write for the problem is still in flight. Callers
// are expected to disable further toggles on busy keys.
func (v *View) Busy(problemID int) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.busy[problemID]
}

// WriteState returns the write state machine position for a problem.
func (v *View) WriteState(problemID int) KeyState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.states[problemID]
}

// Get returns a copy of the snapshot record for a problem.
func (v *View) Get(problemID int) (core.ProgressRecord, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	rec, ok := v.records[problemID]
	return rec, ok
}

// Records returns a point-in-time copy of the snapshot, ordered by problem id
// for deterministic presentation.
func (v *View) Records() []core.ProgressRecord {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]core.ProgressRecord, 0, len(v.records))
	for _, rec := range v.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProblemID < out[j].ProblemID })
	return out
}

// Counts returns the snapshot's solved and bookmarked totals.
func (v *View) Counts() (solved, bookmarked int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, rec := range v.records {
		if rec.Solved {
			solved++
		}
		if rec.Bookmarked {
			bookmarked++
		}
	}
	return solved, bookmarked
}
