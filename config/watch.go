package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch starts watching the directory containing the last Load-ed path
// and calls Reload whenever that file is written or recreated (editors
// commonly replace a file rather than write in place, which fsnotify
// surfaces as a Create on the same name). It runs until ctx is cancelled.
// Grounded on the watcher-goroutine pattern used for on-disk change
// notification elsewhere in the example pack, adapted here to drive
// ConfigManager-style reload() rather than invalidate a cache entry.
func (s *Store) Watch(ctx context.Context) error {
	s.mu.Lock()
	path := s.configPath
	s.mu.Unlock()
	if path == "" {
		return ErrNoConfigLoaded
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return err
	}

	target := filepath.Clean(path)
	go s.runWatch(ctx, watcher, target)
	return nil
}

func (s *Store) runWatch(ctx context.Context, watcher *fsnotify.Watcher, target string) {
	defer watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				_ = s.Reload()
			}
		case _, ok := <-watcher.Errors:
			if !ok {
				return
			}
		}
	}
}
