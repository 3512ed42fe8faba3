package platform

import (
	"log/slog"
	"time"

	"github.com/leetscape/leetscape/pkg/catalog"
	"github.com/leetscape/leetscape/pkg/core"
)

// options holds the internal configuration for the tracker.
type options struct {
	store       core.DocumentStore
	provider    core.IdentityProvider
	catalog     *catalog.Catalog
	catalogFile string
	logger      *slog.Logger
	adapter     string
	clock       func() time.Time
	watch       bool
}

// Option defines a functional option for configuring the tracker.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: "fs",
	}
}

// WithLogger sets the logger for the tracker and its components.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDocumentStore injects a custom document store (e.g. a mock or a remote
// backend). When provided, the adapter selection is skipped.
func WithDocumentStore(store core.DocumentStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithAdapter selects the storage adapter by name: "fs" (default), "sqlite"
// or "memory".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithIdentityProvider wires the external authentication source. Without it
// the tracker starts signed out and callers drive SetUser directly.
func WithIdentityProvider(provider core.IdentityProvider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithCatalog replaces the embedded problem catalog.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(o *options) {
		o.catalog = cat
	}
}

// WithCatalogFile loads the problem catalog from a YAML file instead of the
// embedded default.
func WithCatalogFile(path string) Option {
	return func(o *options) {
		o.catalogFile = path
	}
}

// WithClock overrides the timestamp source, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// WithWatch refreshes the progress snapshot when another process writes to
// the store. Only effective with adapters that support watching (fs).
func WithWatch(enabled bool) Option {
	return func(o *options) {
		o.watch = enabled
	}
}
