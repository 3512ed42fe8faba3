package core

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by DocumentStore.Get and Update when no document
// exists at the requested id.
var ErrNotFound = errors.New("document not found")

// IsNotFound reports whether err is, or wraps, ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// ReadError is a transport or permission failure while reading from the
// remote store. Progress reads swallow it (fail open); note reads surface it.
type ReadError struct {
	Collection string
	ID         string // empty for collection queries
	Err        error
}

func (e *ReadError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("read %s: %v", e.Collection, e.Err)
	}
	return fmt.Sprintf("read %s/%s: %v", e.Collection, e.ID, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError is a transport or permission failure while writing to the
// remote store. Writes always fail closed: the caller must not assume the
// write succeeded.
type WriteError struct {
	Op         string // e.g. "mark solved", "create note"
	Collection string
	ID         string
	Err        error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s (%s/%s): %v", e.Op, e.Collection, e.ID, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ValidationError rejects malformed input before it reaches the store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
