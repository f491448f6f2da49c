package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/bio-mcp/bio-mcp-seqkit/internal/log"
)

// Watch monitors the config file and invokes onReload with freshly loaded
// settings after each change. It blocks until ctx is done; callers run it
// on its own goroutine. Reload failures are logged and skipped, the
// previous settings stay in effect.
//
// The parent directory is watched rather than the file itself so that
// editors which replace the file (rename-over-write) keep being seen.
func Watch(ctx context.Context, path string, onReload func(Settings)) error {
	if path == "" {
		return fmt.Errorf("config watch requires a file path")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	log.Debug(log.CatConfig, "config watch started", "path", path)

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			settings, err := Load(path)
			if err != nil {
				log.ErrorErr(log.CatConfig, "config reload failed, keeping previous settings", err, "path", path)
				continue
			}
			log.Info(log.CatConfig, "config reloaded", "path", path)
			onReload(settings)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.ErrorErr(log.CatConfig, "config watch error", err)
		}
	}
}
