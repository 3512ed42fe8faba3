package integration

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	leetscape "github.com/leetscape/leetscape"
	"github.com/leetscape/leetscape/pkg/core"
)

// runScenario exercises the full tracker flow against one adapter: sign-in,
// toggles, notes, stats, and a user switch.
func runScenario(t *testing.T, adapter, uri string) {
	t.Helper()
	ctx := context.Background()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	tracker, err := leetscape.New(uri,
		leetscape.WithAdapter(adapter),
		leetscape.WithLogger(logger),
	)
	require.NoError(t, err)
	defer tracker.Close()

	tracker.Progress.SetUser("u1")
	tracker.Progress.Refresh(ctx)

	// Progress: solve and bookmark are independent merge writes.
	require.NoError(t, tracker.Progress.MarkSolved(ctx, 1, "Two Sum", true))
	require.NoError(t, tracker.Progress.ToggleBookmark(ctx, 1, "Two Sum", true))
	require.NoError(t, tracker.Progress.MarkSolved(ctx, 42, "Trapping Rain Water", true))

	assert.True(t, tracker.Progress.Solved(1))
	assert.True(t, tracker.Progress.Bookmarked(1))
	assert.True(t, tracker.Progress.Solved(42))

	// A fresh load from the store sees both flags on problem 1.
	tracker.Progress.Refresh(ctx)
	rec, ok := tracker.Progress.Get(1)
	require.True(t, ok)
	assert.True(t, rec.Solved, "solved flag lost across refresh")
	assert.True(t, rec.Bookmarked, "bookmark flag lost across refresh")

	// Notes.
	require.NoError(t, tracker.Notes.Create(ctx, "u1", 1, "Two Sum", "Hash map.", []string{"arrays"}))
	note, err := tracker.Notes.GetOne(ctx, "u1", 1)
	require.NoError(t, err)
	require.NotNil(t, note)
	assert.Equal(t, "Hash map.", note.Content)

	// Stats reflect the snapshot.
	breakdown := tracker.DifficultyBreakdown()
	assert.Equal(t, 1, breakdown[core.Easy].Solved)
	assert.Equal(t, 1, breakdown[core.Hard].Solved)

	focus := tracker.CompanyFocus(4)
	require.NotEmpty(t, focus)
	assert.Greater(t, focus[0].Count, 0)

	// Switching users isolates all per-user state.
	tracker.Progress.SetUser("u2")
	tracker.Progress.Refresh(ctx)
	solved, bookmarked := tracker.Progress.Counts()
	assert.Zero(t, solved)
	assert.Zero(t, bookmarked)

	notes, err := tracker.Notes.GetAll(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, notes)

	// And switching back restores it from the store.
	tracker.Progress.SetUser("u1")
	tracker.Progress.Refresh(ctx)
	solved, bookmarked = tracker.Progress.Counts()
	assert.Equal(t, 2, solved)
	assert.Equal(t, 1, bookmarked)
}

func TestTrackerMemory(t *testing.T) {
	runScenario(t, "memory", "")
}

func TestTrackerFS(t *testing.T) {
	runScenario(t, "fs", filepath.Join(t.TempDir(), "docs"))
}

func TestTrackerSQLite(t *testing.T) {
	runScenario(t, "sqlite", filepath.Join(t.TempDir(), "docs.db"))
}

func TestFSPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "docs")

	tracker, err := leetscape.New(dir)
	require.NoError(t, err)
	tracker.Progress.SetUser("u1")
	require.NoError(t, tracker.Progress.MarkSolved(ctx, 1, "Two Sum", true))
	require.NoError(t, tracker.Close())

	reopened, err := leetscape.New(dir)
	require.NoError(t, err)
	defer reopened.Close()

	reopened.Progress.SetUser("u1")
	reopened.Progress.Refresh(ctx)
	assert.True(t, reopened.Progress.Solved(1), "state lost across reopen")
}

func TestUnknownAdapter(t *testing.T) {
	_, err := leetscape.New("", leetscape.WithAdapter("carrier-pigeon"))
	assert.Error(t, err)
}
