package secretsfile

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay collapses the burst of events an editor or atomic rename
// produces for a single logical change.
const debounceDelay = 250 * time.Millisecond

// Watch watches the secrets file and invokes onChange (debounced) whenever it
// is written, created, removed, or renamed. The parent directory is watched
// rather than the file itself so that atomic writes (write temp + rename) and
// files that do not exist yet are still observed. Watch blocks until ctx is
// canceled; it returns an error only when the watcher cannot be started.
func (s *Store) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		return err
	}
	slog.Info("watching secrets file", "path", s.path)

	target := filepath.Clean(s.path)
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, onChange)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("secrets watcher error", "error", err)
		}
	}
}
