// Package platform wires the tracker together: adapter selection, catalog
// loading, and the lifecycle of the progress view, note store and profile
// service.
package platform

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/leetscape/leetscape/pkg/adapters/fs"
	lcadapter "github.com/leetscape/leetscape/pkg/adapters/lifecycle"
	"github.com/leetscape/leetscape/pkg/adapters/memory"
	"github.com/leetscape/leetscape/pkg/adapters/sqlite"
	"github.com/leetscape/leetscape/pkg/catalog"
	"github.com/leetscape/leetscape/pkg/core"
	"github.com/leetscape/leetscape/pkg/notes"
	"github.com/leetscape/leetscape/pkg/profile"
	"github.com/leetscape/leetscape/pkg/progress"
	"github.com/leetscape/leetscape/pkg/stats"
)

// Tracker is the assembled application: catalog, progress view, note store
// and profile service over one document store.
type Tracker struct {
	Catalog  *catalog.Catalog
	Progress *progress.View
	Notes    *notes.Store
	Profile  *profile.Service

	store     core.DocumentStore
	refresher *progress.Refresher
	logger    *slog.Logger
	watch     bool
}

// New builds a tracker. The uri argument is adapter-specific: a directory
// for "fs", a database path (or ":memory:") for "sqlite", ignored for
// "memory".
func New(uri string, opts ...Option) (*Tracker, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	store, err := initStore(uri, o)
	if err != nil {
		return nil, err
	}

	cat, err := initCatalog(o)
	if err != nil {
		return nil, err
	}

	progressStore := progress.NewStore(store, o.logger)
	view := progress.NewView(progressStore, o.logger)
	noteStore := notes.NewStore(store, o.logger)
	profileService := profile.NewService(store, o.provider, o.logger)
	if o.clock != nil {
		progressStore.SetClock(o.clock)
		noteStore.SetClock(o.clock)
		profileService.SetClock(o.clock)
	}

	return &Tracker{
		Catalog:   cat,
		Progress:  view,
		Notes:     noteStore,
		Profile:   profileService,
		store:     store,
		refresher: progress.NewRefresher(view, o.provider, o.logger),
		logger:    o.logger,
		watch:     o.watch,
	}, nil
}

func initStore(uri string, o *options) (core.DocumentStore, error) {
	if o.store != nil {
		return o.store, nil
	}

	switch o.adapter {
	case "fs":
		return fs.NewStore(fs.Config{Path: uri, Logger: o.logger})
	case "sqlite":
		return sqlite.NewStore(uri, o.logger)
	case "memory":
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}

func initCatalog(o *options) (*catalog.Catalog, error) {
	if o.catalog != nil {
		return o.catalog, nil
	}
	if o.catalogFile != "" {
		return catalog.LoadFile(o.catalogFile)
	}
	return catalog.Default(), nil
}

// Start launches the refresh loop and the profile service's identity
// subscription. The loop stops when ctx is cancelled.
func (t *Tracker) Start(ctx context.Context) error {
	if err := t.Profile.Init(ctx); err != nil {
		return err
	}

	if t.watch {
		if watcher, ok := t.store.(core.Watcher); ok {
			events, err := watcher.Watch(ctx, core.CollectionProgress+"/*")
			if err != nil {
				return fmt.Errorf("failed to start store watch: %w", err)
			}
			t.refresher.ObserveChanges(lcadapter.NewSource(events))
		} else {
			t.logger.Warn("store does not support watching, ignoring watch option")
		}
	}

	return t.refresher.Start(ctx)
}

// Stop releases identity subscriptions. The refresh loop itself stops with
// the context passed to Start.
func (t *Tracker) Stop() {
	t.refresher.Stop()
	t.Profile.Dispose()
}

// Close stops the tracker and releases the underlying store, when it holds
// releasable resources (the sqlite adapter does).
func (t *Tracker) Close() error {
	t.Stop()
	if closer, ok := t.store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Resume signals that the application regained foreground visibility,
// triggering a progress refresh.
func (t *Tracker) Resume() {
	t.refresher.Resume()
}

// DifficultyBreakdown computes the solved/total tally per difficulty from
// the current progress snapshot.
func (t *Tracker) DifficultyBreakdown() map[core.Difficulty]stats.Tally {
	return stats.DifficultyBreakdown(t.Progress.Records(), t.Catalog)
}

// CompanyFocus ranks companies by solved problems from the current progress
// snapshot.
func (t *Tracker) CompanyFocus(topN int) []stats.CompanyCount {
	return stats.CompanyFocus(t.Progress.Records(), t.Catalog, topN)
}
