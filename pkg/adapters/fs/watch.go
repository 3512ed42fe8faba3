package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/leetscape/leetscape/pkg/core"
)

// Watch emits a change event for every document whose "collection/id" key
// matches the doublestar pattern (e.g. "userProgress/*" or "**"). The event
// channel closes when ctx is cancelled.
//
// Only collection directories that exist when Watch is called are observed;
// collections created later need a new Watch call.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(s.path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", s.path, err)
	}
	for _, collection := range []string{core.CollectionUsers, core.CollectionProgress, core.CollectionNotes} {
		dir := filepath.Join(s.path, collection)
		if err := watcher.Add(dir); err != nil {
			s.logger.Debug("collection dir not watchable yet", "dir", dir, "error", err)
		}
	}

	events := make(chan core.Event, 16)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return nil

			case fsEvent, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				event, ok := s.mapEvent(fsEvent, pattern)
				if !ok {
					continue
				}
				select {
				case events <- event:
				case <-ctx.Done():
					return nil
				}

			case werr, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				s.logger.Error("fsnotify error", "error", werr)
			}
		}
	})

	return events, nil
}

// mapEvent converts a raw fsnotify event into a document change event,
// filtering out temp files and non-matching keys.
func (s *Store) mapEvent(fsEvent fsnotify.Event, pattern string) (core.Event, bool) {
	name := filepath.Base(fsEvent.Name)
	if strings.HasPrefix(name, TempFilePrefix) || !strings.HasSuffix(name, ".json") {
		return core.Event{}, false
	}

	rel, err := filepath.Rel(s.path, fsEvent.Name)
	if err != nil {
		return core.Event{}, false
	}
	key := strings.TrimSuffix(filepath.ToSlash(rel), ".json")

	matched, err := doublestar.Match(pattern, key)
	if err != nil || !matched {
		return core.Event{}, false
	}

	var eventType core.EventType
	switch {
	case fsEvent.Has(fsnotify.Create):
		eventType = core.EventCreate
	case fsEvent.Has(fsnotify.Write) || fsEvent.Has(fsnotify.Rename):
		// Atomic writes surface as a rename onto the target path.
		eventType = core.EventModify
	case fsEvent.Has(fsnotify.Remove):
		eventType = core.EventDelete
	default:
		return core.Event{}, false
	}

	collection, id := key, ""
	if idx := strings.IndexByte(key, '/'); idx >= 0 {
		collection, id = key[:idx], key[idx+1:]
	}

	return core.Event{
		Type:       eventType,
		Collection: collection,
		ID:         id,
		Timestamp:  time.Now().Unix(),
	}, true
}

var _ core.Watcher = (*Store)(nil)
