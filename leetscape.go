package leetscape

import (
	"log/slog"
	"time"

	"github.com/leetscape/leetscape/internal/platform"
	"github.com/leetscape/leetscape/pkg/catalog"
	"github.com/leetscape/leetscape/pkg/core"
	"github.com/leetscape/leetscape/pkg/stats"
)

// --- Types ---

// Tracker is the assembled application facade.
type Tracker = platform.Tracker

// Difficulty is a problem difficulty level.
type Difficulty = core.Difficulty

// ProgressRecord is one user's state for one problem.
type ProgressRecord = core.ProgressRecord

// NoteRecord is one study note.
type NoteRecord = core.NoteRecord

// UserProfile is the per-user profile document.
type UserProfile = core.UserProfile

// Identity is the account information from the external identity provider.
type Identity = core.Identity

// Catalog is the read-only problem catalog.
type Catalog = catalog.Catalog

// Criteria describes a catalog search/filter/sort request.
type Criteria = catalog.Criteria

// Tally is a solved/total pair for one difficulty.
type Tally = stats.Tally

// CompanyCount is one row of the company-focus ranking.
type CompanyCount = stats.CompanyCount

// --- Configuration ---

// Option defines a functional option for configuring the tracker.
type Option = platform.Option

// WithLogger sets the logger for the tracker and its components.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithDocumentStore injects a custom document store.
func WithDocumentStore(store core.DocumentStore) Option {
	return platform.WithDocumentStore(store)
}

// WithAdapter selects the storage adapter by name: "fs", "sqlite" or
// "memory".
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithIdentityProvider wires the external authentication source.
func WithIdentityProvider(provider core.IdentityProvider) Option {
	return platform.WithIdentityProvider(provider)
}

// WithCatalog replaces the embedded problem catalog.
func WithCatalog(cat *catalog.Catalog) Option {
	return platform.WithCatalog(cat)
}

// WithCatalogFile loads the problem catalog from a YAML file.
func WithCatalogFile(path string) Option {
	return platform.WithCatalogFile(path)
}

// WithClock overrides the timestamp source, for tests.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithWatch refreshes the progress snapshot when another process writes to
// the store.
func WithWatch(enabled bool) Option {
	return platform.WithWatch(enabled)
}

// --- Factory ---

// New creates a tracker. The uri argument is adapter-specific: a directory
// for "fs", a database path for "sqlite", ignored for "memory".
func New(uri string, opts ...Option) (*Tracker, error) {
	return platform.New(uri, opts...)
}

// --- Catalog helpers ---

// FilterAndSort returns the ordered subset of the catalog matching crit.
func FilterAndSort(c *Catalog, crit Criteria) []catalog.Entry {
	return catalog.FilterAndSort(c, crit)
}

// FindDataDir looks upwards for an existing data directory.
func FindDataDir(startDir string) (string, error) {
	return platform.FindDataDir(startDir)
}
