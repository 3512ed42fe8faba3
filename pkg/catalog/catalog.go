// Package catalog holds the static, immutable table of practice problems and
// the pure filter/sort engine over it.
//
// The catalog is loaded once at startup (from the embedded default set or a
// YAML file) and never mutated during a session.
package catalog

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/leetscape/leetscape/pkg/core"
)

//go:embed problems.yaml
var defaultProblems []byte

// Entry is the immutable metadata of one practice problem.
type Entry struct {
	ID             int             `yaml:"id" json:"id"`
	Title          string          `yaml:"title" json:"title"`
	Difficulty     core.Difficulty `yaml:"difficulty" json:"difficulty"`
	Tags           []string        `yaml:"tags" json:"tags"`
	Companies      []string        `yaml:"companies" json:"companies"`
	AcceptanceRate string          `yaml:"acceptanceRate" json:"acceptanceRate"`
}

// Catalog is an immutable, id-indexed problem table.
type Catalog struct {
	entries []Entry
	byID    map[int]Entry
}

// New builds a catalog from entries, preserving their order.
func New(entries []Entry) *Catalog {
	c := &Catalog{
		entries: make([]Entry, len(entries)),
		byID:    make(map[int]Entry, len(entries)),
	}
	copy(c.entries, entries)
	for _, e := range c.entries {
		c.byID[e.ID] = e
	}
	return c
}

// Load parses a YAML problem list from r.
func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return parse(data)
}

// LoadFile parses a YAML problem list from a file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Catalog, error) {
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("invalid catalog yaml: %w", err)
	}

	seen := make(map[int]bool, len(entries))
	for _, e := range entries {
		if seen[e.ID] {
			return nil, fmt.Errorf("duplicate problem id %d", e.ID)
		}
		seen[e.ID] = true
		if !e.Difficulty.Valid() {
			return nil, fmt.Errorf("problem %d: unknown difficulty %q", e.ID, e.Difficulty)
		}
	}
	return New(entries), nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded problem set, parsed once per process.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := parse(defaultProblems)
		if err != nil {
			// The embedded catalog is validated by tests; a parse failure
			// here is a build defect.
			panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Len returns the number of problems.
func (c *Catalog) Len() int { return len(c.entries) }

// Entries returns a point-in-time copy of all problems in catalog order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// ByID looks up a problem by its stable id.
func (c *Catalog) ByID(id int) (Entry, bool) {
	e, ok := c.byID[id]
	return e, ok
}
