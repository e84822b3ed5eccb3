package diskv

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/julianstephens/habitual/internal/logger"
)

// Watch reports changes to habit and trigger records made by any process.
// Bursts are coalesced: at most one notification is pending at a time.
func (s *Store) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}

	for _, bucket := range []string{habitsBucket, triggersBucket} {
		dir := filepath.Join(s.dataPath(), bucket)
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("store: watch %s: %w", dir, err)
		}
	}

	changes := make(chan struct{}, 1)
	go func() {
		defer close(changes)
		defer watcher.Close()

		notify := func() {
			select {
			case changes <- struct{}{}:
			default:
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Store watcher error", "error", err)
				notify()
			case _, ok := <-watcher.Events:
				if !ok {
					return
				}
				notify()
			}
		}
	}()

	return changes, nil
}
