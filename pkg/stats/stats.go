// Package stats derives aggregate statistics from a progress record set and
// the problem catalog. All functions are pure.
package stats

import (
	"sort"

	"github.com/leetscape/leetscape/pkg/catalog"
	"github.com/leetscape/leetscape/pkg/core"
)

// Tally is a solved/total pair for one difficulty level.
type Tally struct {
	Solved int `json:"solved"`
	Total  int `json:"total"`
}

// CompanyCount is one row of the company-focus ranking.
type CompanyCount struct {
	Company string `json:"company"`
	Count   int    `json:"count"`
}

// DefaultCompanies pads the company-focus ranking so the output shape stays
// stable even when fewer companies have solved problems.
var DefaultCompanies = []string{"Google", "Amazon", "Microsoft", "Meta"}

// DifficultyBreakdown counts solved and total problems per difficulty.
// Total comes from the catalog alone; Solved counts records with solved=true
// whose problemId still resolves to a catalog entry. Orphaned records
// (a since-removed catalog id) are silently excluded.
func DifficultyBreakdown(records []core.ProgressRecord, cat *catalog.Catalog) map[core.Difficulty]Tally {
	breakdown := make(map[core.Difficulty]Tally, len(core.Difficulties))
	for _, d := range core.Difficulties {
		breakdown[d] = Tally{}
	}

	for _, e := range cat.Entries() {
		t := breakdown[e.Difficulty]
		t.Total++
		breakdown[e.Difficulty] = t
	}

	for _, r := range records {
		if !r.Solved {
			continue
		}
		e, ok := cat.ByID(r.ProblemID)
		if !ok {
			continue
		}
		t := breakdown[e.Difficulty]
		t.Solved++
		breakdown[e.Difficulty] = t
	}
	return breakdown
}

// CompanyFocus ranks companies by how many solved problems mention them.
// A problem tagged with several companies increments each of them. Ties are
// broken by the order companies first appear in the catalog. When fewer than
// topN companies have any solved problems, the result is padded with
// DefaultCompanies at count 0 to keep a stable presentation shape.
func CompanyFocus(records []core.ProgressRecord, cat *catalog.Catalog, topN int) []CompanyCount {
	if topN <= 0 {
		return nil
	}

	// Company declaration order, scanning the catalog once.
	order := make(map[string]int)
	for _, e := range cat.Entries() {
		for _, company := range e.Companies {
			if _, seen := order[company]; !seen {
				order[company] = len(order)
			}
		}
	}

	counts := make(map[string]int)
	for _, r := range records {
		if !r.Solved {
			continue
		}
		e, ok := cat.ByID(r.ProblemID)
		if !ok {
			continue
		}
		for _, company := range e.Companies {
			counts[company]++
		}
	}

	ranked := make([]CompanyCount, 0, len(counts))
	for company, count := range counts {
		ranked = append(ranked, CompanyCount{Company: company, Count: count})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return order[ranked[i].Company] < order[ranked[j].Company]
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	// Pad with the fixed default list, skipping companies already ranked.
	for _, company := range DefaultCompanies {
		if len(ranked) >= topN {
			break
		}
		if _, counted := counts[company]; counted {
			continue
		}
		ranked = append(ranked, CompanyCount{Company: company, Count: 0})
	}
	return ranked
}
