package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay collapses the several events one save produces.
const reloadDelay = 150 * time.Millisecond

// Watch reloads config.json whenever it changes on disk and passes the result
// to onChange. Files that fail to parse are skipped; onError, if set, hears
// about them. Watch blocks until ctx is done.
func Watch(ctx context.Context, onChange func(*Config), onError func(error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config watcher: %w", err)
	}
	defer w.Close()

	if err := os.MkdirAll(dir(), 0755); err != nil {
		return err
	}
	// Watch the directory: editors replace the file rather than write it.
	if err := w.Add(dir()); err != nil {
		return fmt.Errorf("watching %s: %w", dir(), err)
	}
	target := filepath.Clean(path())

	timer := time.NewTimer(reloadDelay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			timer.Reset(reloadDelay)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if onError != nil {
				onError(err)
			}
		case <-timer.C:
			cfg, err := Load()
			if err != nil {
				if onError != nil {
					onError(err)
				}
				continue
			}
			onChange(cfg)
		}
	}
}
