// Package memory provides an in-memory DocumentStore and identity hub,
// suitable for tests and single-process use.
package memory

import (
	"context"
	"sync"

	"github.com/leetscape/leetscape/pkg/core"
)

// Store is a map-backed core.DocumentStore. Safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]core.Fields
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{collections: make(map[string]map[string]core.Fields)}
}

func cloneFields(fields core.Fields) core.Fields {
	out := make(core.Fields, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// Set fully overwrites the document at (collection, id).
func (s *Store) Set(ctx context.Context, collection, id string, payload core.Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string]core.Fields)
		s.collections[collection] = docs
	}
	docs[id] = cloneFields(payload)
	return nil
}

// Update merges partial into an existing document. A nil field value clears
// the stored field. Returns core.ErrNotFound for absent documents.
func (s *Store) Update(ctx context.Context, collection, id string, partial core.Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.collections[collection]
	if !ok {
		return core.ErrNotFound
	}
	existing, ok := docs[id]
	if !ok {
		return core.ErrNotFound
	}
	for k, v := range partial {
		if v == nil {
			delete(existing, k)
			continue
		}
		existing[k] = v
	}
	return nil
}

// Get returns a copy of the document at (collection, id).
func (s *Store) Get(ctx context.Context, collection, id string) (core.Fields, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs, ok := s.collections[collection]
	if !ok {
		return nil, core.ErrNotFound
	}
	fields, ok := docs[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return cloneFields(fields), nil
}

// Delete removes the document at (collection, id). Missing ids are a no-op.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if docs, ok := s.collections[collection]; ok {
		delete(docs, id)
	}
	return nil
}

// QueryByField returns copies of every document whose field equals value.
func (s *Store) QueryByField(ctx context.Context, collection, field string, value any) ([]core.Fields, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []core.Fields
	for _, fields := range s.collections[collection] {
		if core.FieldEquals(fields[field], value) {
			result = append(result, cloneFields(fields))
		}
	}
	return result, nil
}

var _ core.DocumentStore = (*Store)(nil)

// IdentityHub is an in-process core.IdentityProvider for tests and the CLI.
// Subscribers receive the current identity on subscription, then every
// SignIn/SignOut transition.
type IdentityHub struct {
	mu      sync.Mutex
	nextID  int
	subs    map[int]func(*core.Identity)
	current *core.Identity
}

// NewIdentityHub creates a hub with no signed-in identity.
func NewIdentityHub() *IdentityHub {
	return &IdentityHub{subs: make(map[int]func(*core.Identity))}
}

// Subscribe implements core.IdentityProvider.
func (h *IdentityHub) Subscribe(fn func(*core.Identity)) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	current := h.current
	h.mu.Unlock()

	fn(current)

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

// SignIn publishes identity to all subscribers.
func (h *IdentityHub) SignIn(identity *core.Identity) {
	h.broadcast(identity)
}

// SignOut publishes a nil identity to all subscribers.
func (h *IdentityHub) SignOut() {
	h.broadcast(nil)
}

func (h *IdentityHub) broadcast(identity *core.Identity) {
	h.mu.Lock()
	h.current = identity
	fns := make([]func(*core.Identity), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(identity)
	}
}

var _ core.IdentityProvider = (*IdentityHub)(nil)
