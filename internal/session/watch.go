// pattern: Imperative Shell

package session

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchHead watches gitDir for rewrites of HEAD. Each change invalidates the
// memo and then calls onChange on the watching goroutine, so onChange runs
// sequentially. WatchHead blocks until ctx is done.
func (s *Session) WatchHead(ctx context.Context, gitDir string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create HEAD watcher: %w", err)
	}
	defer watcher.Close()

	// git replaces HEAD through HEAD.lock, so watch the directory, not the file.
	if err := watcher.Add(gitDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", gitDir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != "HEAD" {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			s.Invalidate()
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("HEAD watcher: %w", err)
		}
	}
}
