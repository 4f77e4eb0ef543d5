package scene

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// Watch reloads the scene file at path whenever it changes and passes each
// valid version to onChange. Invalid versions are logged and skipped. The
// parent directory is watched so editors that replace the file are handled.
// Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, logger core.Logger, onChange func(*File)) error {
	if logger == nil {
		logger = core.NopLogger{}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer watcher.Close()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve %s", path)
	}
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return errors.Wrapf(err, "failed to watch %s", filepath.Dir(absPath))
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absPath || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			f, err := LoadFile(absPath)
			if err != nil {
				logger.Printf("Warning: ignoring scene change: %v\n", err)
				continue
			}
			logger.Printf("Reloaded scene %s (%d spheres)\n", path, len(f.Spheres))
			onChange(f)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Printf("Warning: scene watcher: %v\n", err)
		}
	}
}
