package progress

import (
	"github.com/aretw0/introspection"
)

// ViewState exposes internal state for observability.
type ViewState struct {
	UID         string `json:"uid"`
	Epoch       uint64 `json:"epoch"`
	Records     int    `json:"records"`
	PendingKeys int    `json:"pending_keys"`
	Solved      int    `json:"solved"`
	Bookmarked  int    `json:"bookmarked"`
}

// State implements introspection.Introspectable.
func (v *View) State() any {
	v.mu.RLock()
	defer v.mu.RUnlock()

	pending := 0
	for _, b := range v.busy {
		if b {
			pending++
		}
	}
	solved, bookmarked := 0, 0
	for _, rec := range v.records {
		if rec.Solved {
			solved++
		}
		if rec.Bookmarked {
			bookmarked++
		}
	}

	return ViewState{
		UID:         v.uid,
		Epoch:       v.epoch,
		Records:     len(v.records),
		PendingKeys: pending,
		Solved:      solved,
		Bookmarked:  bookmarked,
	}
}

// ComponentType implements introspection.Component.
func (v *View) ComponentType() string {
	return "progress-view"
}

var _ introspection.Introspectable = (*View)(nil)
var _ introspection.Component = (*View)(nil)
