package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of filesystem events editors
// produce for a single save.
const watchDebounce = 300 * time.Millisecond

// Watch re-runs fn whenever the source file changes, until the context
// is cancelled. The watch is placed on the parent directory so the
// rename-and-replace strategy editors use still triggers.
func Watch(ctx context.Context, path string, fn func(context.Context) error) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("unable to resolve watch path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("unable to create watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("unable to watch %s: %w", filepath.Dir(abs), err)
	}

	log.Info("Watching for changes", "path", abs)

	var timer *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("Watch error", "err", err)

		case <-pending:
			log.Info("Source changed, reconverting", "path", abs)
			if err := fn(ctx); err != nil {
				// Keep watching: a transient failure (mid-save read,
				// provider hiccup) should not end the session.
				log.Error("Reconversion failed", "err", err)
			}
		}
	}
}
