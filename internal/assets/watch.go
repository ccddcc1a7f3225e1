package assets

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/anvil/internal/logger"
	"github.com/Faultbox/anvil/pkg/formats"
)

// Watch reloads the library from dir whenever an .obj file in it is
// created, written, removed or renamed. A failed reload is logged and the
// previous contents stay in place. Watching stops when ctx is done.
func (l *Library) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !formats.IsWavefront(event.Name) {
					continue
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				if _, err := l.LoadDir(dir); err != nil {
					logger.Warn("mesh library reload failed",
						zap.String("trigger", event.Name),
						zap.Error(err))
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("mesh library watcher error", zap.Error(err))
			}
		}
	}()

	return nil
}
