package repository

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow coalesces the burst of fsnotify events an editor or an
// atomic rename produces into a single onChange call.
const debounceWindow = 500 * time.Millisecond

// WatchFile watches the portfolio file for out-of-band edits and calls
// onChange after writes settle. The watch is placed on the parent directory
// because the store (and most editors) replace the file by rename, which
// would silently kill a watch on the file itself.
func WatchFile(ctx context.Context, path string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()

		var timer *time.Timer
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != base {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(debounceWindow, onChange)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("⚠️  Portfolio watcher error: %v", err)
			}
		}
	}()

	return nil
}
