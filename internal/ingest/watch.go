package ingest

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/elcfinder/elcfinder/internal/contract"
	"github.com/elcfinder/elcfinder/schema"
	"github.com/fsnotify/fsnotify"
)

// Watch monitors path and reloads source each time the file is written or
// replaced. The parent directory is watched so that atomic saves, which
// rename a new file over path, keep triggering reloads.
// onChange receives the schools of every successful reload. onFailure, when
// non-nil, receives reload errors; the previous data stays active.
// It runs until ctx is cancelled.
func Watch(ctx context.Context, path string, source contract.SchoolSource,
	onChange func([]schema.School), onFailure func(error),
) error {
	target := filepath.Clean(path)
	if _, err := os.Stat(target); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}

	slog.Info("source: watching for changes", "path", path)

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
			// Atomic saves arrive as Create when the new file is renamed into place.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			schools, err := source.Load(ctx)
			if err != nil {
				slog.Error("source: reload failed, keeping previous schools", "path", path, "err", err)
				if onFailure != nil {
					onFailure(err)
				}
				continue
			}

			slog.Info("source: reloaded", "path", path, "schools", len(schools))
			onChange(schools)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("source: watcher error", "err", err)
		}
	}
}
