package progress

import (
	"context"
	"log/slog"

	"github.com/aretw0/lifecycle"

	"github.com/leetscape/leetscape/pkg/core"
)

// Refresher re-issues a full snapshot load on the two automatic triggers:
// identity change of the authenticated user, and the application regaining
// the foreground (Resume). Both are refresh-on-resume semantics: the whole
// list is re-fetched and the prior snapshot discarded, never an incremental
// sync.
//
// There is no cancellation of in-flight reads; the View's fetch epoch drops
// stale replies instead.
type Refresher struct {
	view     *View
	provider core.IdentityProvider
	logger   *slog.Logger

	identities  chan *core.Identity
	resume      chan struct{}
	source      lifecycle.Source
	changes     <-chan lifecycle.Event
	unsubscribe func()
}

// NewRefresher wires view to the identity stream. provider may be nil when
// the caller drives SetUser/Refresh manually.
func NewRefresher(view *View, provider core.IdentityProvider, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		view:       view,
		provider:   provider,
		logger:     logger,
		identities: make(chan *core.Identity, 16),
		resume:     make(chan struct{}, 1),
	}
}

// ObserveChanges additionally refreshes the snapshot on document change
// events delivered by source (e.g. the fs adapter's watch channel bridged
// through the lifecycle adapter). Must be called before Start.
func (r *Refresher) ObserveChanges(source lifecycle.Source) {
	r.source = source
}

// Start subscribes to the identity stream, starts the change-event source
// when one is attached, and launches the refresh loop. The loop runs until
// ctx is cancelled.
func (r *Refresher) Start(ctx context.Context) error {
	if r.provider != nil {
		r.unsubscribe = r.provider.Subscribe(func(identity *core.Identity) {
			select {
			case r.identities <- identity:
			default:
				r.logger.Warn("identity event dropped, refresh queue full")
			}
		})
	}

	if r.source != nil {
		if err := r.source.Start(ctx); err != nil {
			return err
		}
		r.changes = r.source.Events()
	}

	lifecycle.Go(ctx, r.run)
	return nil
}

// Resume signals that the application regained foreground visibility.
// Coalesced: at most one pending resume is kept.
func (r *Refresher) Resume() {
	select {
	case r.resume <- struct{}{}:
	default:
	}
}

// Stop unsubscribes from the identity stream. The refresh loop itself stops
// with the context passed to Start.
func (r *Refresher) Stop() {
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
}

func (r *Refresher) run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case identity := <-r.identities:
			uid := ""
			if identity != nil {
				uid = identity.UID
			}
			r.view.SetUser(uid)
			if uid != "" {
				r.view.Refresh(ctx)
			}
		case <-r.resume:
			r.view.Refresh(ctx)
		case ev, ok := <-r.changes:
			if !ok {
				r.changes = nil
				continue
			}
			if change, ok := ev.(core.Event); ok && change.Collection == core.CollectionProgress {
				r.view.Refresh(ctx)
			}
		}
	}
}
