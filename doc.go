// Package leetscape is the Composition Root for the coding-practice tracker.
//
// It connects the domain packages (catalog, progress, notes, profile, stats)
// with the storage adapters using the Hexagonal Architecture pattern.
//
// Philosophy:
//
// Leetscape is a client-side state layer over a remote document store. The
// store is treated as dumb document storage (collections of JSON documents
// keyed by id); every behavior (optimistic toggles with rollback, refresh
// on resume, fail-open reads) lives on this side of the wire. The default
// adapter persists to the local filesystem, but the core is agnostic.
//
// Features:
//
//   - **Problem catalog**: embedded YAML catalog with pure search/filter/sort.
//   - **Progress tracking**: solved/bookmarked flags, optimistic writes with
//     rollback, per-problem write serialization.
//   - **Study notes**: one note per problem, fail-closed persistence.
//   - **Profiles**: lazy get-or-create on sign-in, custom username flow.
//   - **Statistics**: difficulty breakdown and company-focus ranking.
//   - **Adapters**: filesystem (default), SQLite, and in-memory.
//
// Usage:
//
//	tracker, err := leetscape.New("./.leetscape",
//		leetscape.WithIdentityProvider(hub),
//		leetscape.WithLogger(logger),
//	)
//
//	// Mark a problem solved
//	err = tracker.Progress.MarkSolved(ctx, 1, "Two Sum", true)
package leetscape
