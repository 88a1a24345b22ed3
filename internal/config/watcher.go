package config

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the settings file when it changes on disk and publishes
// every successfully loaded version on Updates. Invalid files are logged
// and skipped.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	updates chan *Settings
	done    chan struct{}
	logger  *slog.Logger
}

// Watch starts watching path. The directory is watched rather than the
// file, so editors that replace the file on save are still seen.
func Watch(path string, logger *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}
	w := &Watcher{
		path:    filepath.Clean(path),
		watcher: fw,
		updates: make(chan *Settings, 1),
		done:    make(chan struct{}),
		logger:  logger,
	}
	go w.run()
	return w, nil
}

// Updates delivers reloaded settings. Only the latest unread version is
// kept.
func (w *Watcher) Updates() <-chan *Settings { return w.updates }

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("settings watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	s, err := Load(w.path)
	if err != nil {
		w.logger.Warn("settings not reloaded", "path", w.path, "error", err)
		return
	}
	// drop an unread older version
	select {
	case <-w.updates:
	default:
	}
	w.updates <- s
	w.logger.Info("settings reloaded", "path", w.path)
}

// Close stops watching and waits for the watch goroutine to exit
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
