package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/gridtext/internal/schedule"
)

// reloadQuiet coalesces the editor-save write bursts some tools produce
// into a single reload.
const reloadQuiet = 200 * time.Millisecond

// Watcher reloads the config file when it changes on disk.
type Watcher struct {
	fsw  *fsnotify.Watcher
	done chan struct{}
}

// Watch monitors path and calls onChange with the reloaded config, or
// with the load error, after each change settles. The parent directory
// is watched so atomic rename-over saves are seen.
func Watch(path string, onChange func(*Config, error)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("config watcher: %w", err)
	}

	w := &Watcher{fsw: fsw, done: make(chan struct{})}
	reload := schedule.NewDebouncer(reloadQuiet, func() {
		onChange(Load(path))
	})

	go func() {
		target := filepath.Clean(path)
		for {
			select {
			case ev, ok := <-fsw.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					reload.Trigger()
				}
			case _, ok := <-fsw.Errors:
				if !ok {
					return
				}
			case <-w.done:
				reload.Cancel()
				return
			}
		}
	}()
	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
