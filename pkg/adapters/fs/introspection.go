package fs

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Path        string         `json:"path"`
	Collections map[string]int `json:"collections"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	state := StoreState{Path: s.path, Collections: map[string]int{}}

	entries, err := os.ReadDir(s.path)
	if err != nil {
		return state
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		docs, err := os.ReadDir(filepath.Join(s.path, entry.Name()))
		if err != nil {
			continue
		}
		count := 0
		for _, doc := range docs {
			if strings.HasSuffix(doc.Name(), ".json") {
				count++
			}
		}
		state.Collections[entry.Name()] = count
	}
	return state
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "fs-store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
