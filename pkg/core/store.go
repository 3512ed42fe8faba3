package core

import "context"

// Fields is the wire payload of a single document: flexible key-value pairs
// that survive a JSON round-trip.
type Fields map[string]any

// DocumentStore defines the contract with the remote document database.
// Adhering to this interface keeps the tracker core independent of the
// underlying storage mechanism (in-memory, filesystem, SQLite, a cloud
// document service).
//
// Every mutation is a single-document operation; the core never relies on
// multi-document transactions.
type DocumentStore interface {
	// Set fully overwrites the document at (collection, id), creating it if
	// it does not exist.
	Set(ctx context.Context, collection, id string, payload Fields) error

	// Update merges partial into the existing document. A nil value removes
	// the field on decode (JSON null). Returns ErrNotFound if the document
	// does not exist.
	Update(ctx context.Context, collection, id string, partial Fields) error

	// Get retrieves a document. Returns ErrNotFound if it does not exist.
	Get(ctx context.Context, collection, id string) (Fields, error)

	// Delete removes a document. Deleting a missing id is not an error.
	Delete(ctx context.Context, collection, id string) error

	// QueryByField returns all documents in collection whose field equals
	// value. Order is store-native and unspecified.
	QueryByField(ctx context.Context, collection, field string, value any) ([]Fields, error)
}

// EventType represents the type of change in the store.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a document.
type Event struct {
	Type       EventType
	Collection string
	ID         string
	Timestamp  int64 // Unix timestamp
}

// String implements fmt.Stringer (and the lifecycle event contract).
func (e Event) String() string {
	return string(e.Type) + " " + e.Collection + "/" + e.ID
}

// Watcher is an optional capability of a DocumentStore: a change stream of
// document events matched against a "collection/id" glob pattern.
type Watcher interface {
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

// FieldEquals compares a stored field value against a query value, treating
// all numeric types as equivalent. JSON decoding turns numbers into float64
// while in-process payloads keep their Go types, so a plain DeepEqual would
// miss matches like int(7) vs float64(7).
func FieldEquals(stored, query any) bool {
	if sf, ok := asFloat(stored); ok {
		if qf, qok := asFloat(query); qok {
			return sf == qf
		}
		return false
	}
	return stored == query
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
