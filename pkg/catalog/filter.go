package catalog

import (
	"sort"
	"strconv"
	"strings"

	"github.com/leetscape/leetscape/pkg/core"
)

// SortKey selects the ordering of FilterAndSort results.
type SortKey string

const (
	SortByID         SortKey = "id" // default
	SortByTitle      SortKey = "title"
	SortByDifficulty SortKey = "difficulty"
	SortByAcceptance SortKey = "acceptance"
)

// Criteria describes one search/filter/sort request.
//
// Search matches case-insensitively against the title or any tag.
// Difficulty filters on the exact level; empty or "all" passes everything.
type Criteria struct {
	Search     string
	Difficulty string
	Sort       SortKey
}

// FilterAndSort returns the ordered subset of the catalog matching crit.
// It is pure: identical inputs always yield identical output ordering, and
// ties retain catalog order (stable sort).
func FilterAndSort(c *Catalog, crit Criteria) []Entry {
	search := strings.ToLower(crit.Search)

	matched := make([]Entry, 0, c.Len())
	for _, e := range c.entries {
		if !matchesSearch(e, search) {
			continue
		}
		if crit.Difficulty != "" && crit.Difficulty != "all" &&
			e.Difficulty != core.Difficulty(crit.Difficulty) {
			continue
		}
		matched = append(matched, e)
	}

	switch crit.Sort {
	case SortByTitle:
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].Title < matched[j].Title
		})
	case SortByDifficulty:
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].Difficulty.Rank() < matched[j].Difficulty.Rank()
		})
	case SortByAcceptance:
		sort.SliceStable(matched, func(i, j int) bool {
			return parseRate(matched[i].AcceptanceRate) < parseRate(matched[j].AcceptanceRate)
		})
	default:
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].ID < matched[j].ID
		})
	}
	return matched
}

func matchesSearch(e Entry, search string) bool {
	if search == "" {
		return true
	}
	if strings.Contains(strings.ToLower(e.Title), search) {
		return true
	}
	for _, tag := range e.Tags {
		if strings.Contains(strings.ToLower(tag), search) {
			return true
		}
	}
	return false
}

// parseRate extracts the numeric value from a percentage string like "49.1%".
// Unparsable rates sort as zero.
func parseRate(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	seenDot := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= '0' && c <= '9' {
			end = i + 1
			continue
		}
		if c == '.' && !seenDot && end == i {
			seenDot = true
			end = i + 1
			continue
		}
		break
	}
	if end == 0 {
		return 0
	}
	value, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0
	}
	return value
}
