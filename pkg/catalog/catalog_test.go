package catalog

import (
	"strings"
	"testing"
)

const sampleYAML = `
- id: 1
  title: Two Sum
  difficulty: Easy
  tags: [Array, Hash Table]
  companies: [Google, Amazon]
  acceptanceRate: "49.1%"
- id: 42
  title: Trapping Rain Water
  difficulty: Hard
  tags: [Array, Two Pointers]
  companies: [Amazon]
  acceptanceRate: "59.5%"
`

func TestLoad(t *testing.T) {
	cat, err := Load(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cat.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", cat.Len())
	}

	entry, ok := cat.ByID(42)
	if !ok {
		t.Fatal("expected to find problem 42")
	}
	if entry.Title != "Trapping Rain Water" {
		t.Errorf("unexpected title: %s", entry.Title)
	}
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	yaml := `
- id: 1
  title: A
  difficulty: Easy
- id: 1
  title: B
  difficulty: Easy
`
	if _, err := Load(strings.NewReader(yaml)); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestLoadRejectsUnknownDifficulty(t *testing.T) {
	yaml := `
- id: 1
  title: A
  difficulty: Impossible
`
	if _, err := Load(strings.NewReader(yaml)); err == nil {
		t.Fatal("expected difficulty validation error")
	}
}

func TestDefaultCatalog(t *testing.T) {
	cat := Default()
	if cat.Len() == 0 {
		t.Fatal("embedded catalog is empty")
	}

	entry, ok := cat.ByID(1)
	if !ok || entry.Title != "Two Sum" {
		t.Errorf("expected embedded catalog to contain Two Sum, got %+v", entry)
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	cat, err := Load(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	entries := cat.Entries()
	entries[0].Title = "mutated"

	fresh, _ := cat.ByID(entries[0].ID)
	if fresh.Title == "mutated" {
		t.Error("Entries leaked internal state")
	}
}
