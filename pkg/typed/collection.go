// Package typed provides a type-safe view over a core.DocumentStore
// collection via a JSON round-trip.
package typed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/leetscape/leetscape/pkg/core"
)

// Collection wraps one named collection of a core.DocumentStore with
// type-safe access.
type Collection[T any] struct {
	store core.DocumentStore
	name  string
}

// NewCollection creates a typed wrapper for the named collection.
func NewCollection[T any](store core.DocumentStore, name string) *Collection[T] {
	return &Collection[T]{store: store, name: name}
}

// Name returns the underlying collection name.
func (c *Collection[T]) Name() string { return c.name }

// Set fully overwrites the document at id with record.
func (c *Collection[T]) Set(ctx context.Context, id string, record T) error {
	fields, err := Encode(record)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, c.name, id, fields)
}

// Update merges partial into the document at id.
// Returns core.ErrNotFound if the document does not exist.
func (c *Collection[T]) Update(ctx context.Context, id string, partial core.Fields) error {
	return c.store.Update(ctx, c.name, id, partial)
}

// Get retrieves and decodes the document at id.
func (c *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	fields, err := c.store.Get(ctx, c.name, id)
	if err != nil {
		return nil, err
	}
	return Decode[T](fields)
}

// Delete removes the document at id. Missing ids are not an error.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	return c.store.Delete(ctx, c.name, id)
}

// QueryByField returns all decoded documents whose field equals value.
func (c *Collection[T]) QueryByField(ctx context.Context, field string, value any) ([]T, error) {
	docs, err := c.store.QueryByField(ctx, c.name, field, value)
	if err != nil {
		return nil, err
	}

	result := make([]T, 0, len(docs))
	for _, fields := range docs {
		record, err := Decode[T](fields)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s document: %w", c.name, err)
		}
		result = append(result, *record)
	}
	return result, nil
}

// Encode converts a typed record to wire fields.
func Encode[T any](record T) (core.Fields, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}

	var fields core.Fields
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to convert record to fields: %w", err)
	}
	return fields, nil
}

// Decode converts wire fields back into a typed record.
func Decode[T any](fields core.Fields) (*T, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("fields marshal failed: %w", err)
	}

	var record T
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("unmarshal to target type failed: %w", err)
	}
	return &record, nil
}
