package config

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher delivers a freshly loaded config every time the file changes.
// Invalid edits are logged and skipped. Only the newest pending config is
// kept, so a slow reader never blocks the watcher.
type Watcher struct {
	Updates <-chan *Config

	fs   *fsnotify.Watcher
	done chan struct{}
}

// Watch watches the directory holding path so that editors that replace
// the file on save are seen too.
func Watch(path string, logger *zap.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch config: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch config: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch config: %w", err)
	}

	updates := make(chan *Config, 1)
	w := &Watcher{Updates: updates, fs: fw, done: make(chan struct{})}
	go w.loop(abs, updates, logger)
	return w, nil
}

func (w *Watcher) loop(path string, updates chan *Config, logger *zap.Logger) {
	defer close(updates)
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			cfg, err := Load(path)
			if err != nil {
				logger.Warn("config reload failed", zap.Error(err))
				continue
			}
			select {
			case <-updates:
			default:
			}
			updates <- cfg
			logger.Info("config reloaded", zap.String("path", path))
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logger.Warn("config watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) Close() error {
	close(w.done)
	return w.fs.Close()
}
