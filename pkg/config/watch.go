package config

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"

	"github.com/archbench/archbench-engine/pkg/logger"
	"github.com/archbench/archbench-engine/pkg/models"
)

// WatchScenario calls onChange with the reloaded scenario, or the load error,
// each time the file at path is written. It runs until ctx is cancelled.
func WatchScenario(ctx context.Context, path string, onChange func(*models.Scenario, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	logger.Debug("watching scenario for changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Atomic saves show up as Create after a rename.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			scenario, err := LoadScenario(path)
			if err != nil {
				logger.Warn("scenario reload failed", "path", path, "error", err)
			}
			onChange(scenario, err)

			// Re-add the file in case an atomic save replaced the inode.
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("scenario watcher error", "path", path, "error", err)
		}
	}
}
