package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watchConfig re-applies keyboard timing from dir/config.yml whenever the
// file is written, until ctx is done. Changes land between key strokes
// because the keyboard lock serializes them with running operations.
func watchConfig(ctx context.Context, dir string, kb KeyboardObject, report Reporter) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	// Watch the directory so editors that replace the file are seen.
	if err := w.Add(dir); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != configFileName || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				reloadKeyboardConfig(dir, kb, report)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				report.Report("config watcher: %v", err)
			}
		}
	}()
	return nil
}

func reloadKeyboardConfig(dir string, kb KeyboardObject, report Reporter) {
	cfg, err := LoadAppConfig(dir)
	if err != nil {
		report.Report("reload config: %v", err)
		return
	}
	cfg.Keyboard.Apply(kb)
	dbg("reloaded keyboard timing: press=%d release=%d multiplier=%v",
		kb.PressDelay(), kb.ReleaseDelay(), kb.Multiplier())
}
