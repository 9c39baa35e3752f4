package config

import (
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// FileWatcher polls file modification times and triggers a callback on change.
type FileWatcher struct {
	Paths    []string
	Interval time.Duration

	onChange  func(string) // called with the path that changed
	stopCh    chan struct{}
	stopOnce  sync.Once
	lastMTime map[string]time.Time
}

// NewFileWatcher creates a watcher for the given paths and interval.
func NewFileWatcher(paths []string, interval time.Duration, onChange func(string)) *FileWatcher {
	return &FileWatcher{
		Paths:     paths,
		Interval:  interval,
		onChange:  onChange,
		stopCh:    make(chan struct{}),
		lastMTime: make(map[string]time.Time),
	}
}

// Start primes the mtimes and begins polling in a goroutine.
func (w *FileWatcher) Start() {
	w.scanAll(true)
	ticker := time.NewTicker(w.Interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.scanAll(false)
			case <-w.stopCh:
				return
			}
		}
	}()
}

// Stop terminates the watcher. It is safe to call more than once.
func (w *FileWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

// scanAll checks mtimes and invokes onChange for files that changed since the
// last scan. A file that appears after priming counts as a change.
func (w *FileWatcher) scanAll(prime bool) {
	for _, p := range w.Paths {
		fi, err := os.Stat(p)
		if err != nil {
			continue
		}
		mt := fi.ModTime()
		last, ok := w.lastMTime[p]
		w.lastMTime[p] = mt
		if prime || (ok && !mt.After(last)) {
			continue
		}
		if w.onChange != nil {
			w.onChange(p)
		}
	}
}

// Watch reloads machine whenever one of its files changes and hands valid
// settings to apply. Invalid edits are logged and skipped.
func (l *Loader) Watch(machine string, o Overrides, interval time.Duration, logger *zap.Logger, apply func(Settings)) *FileWatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := NewFileWatcher(l.Paths(machine), interval, func(path string) {
		l.Invalidate()
		_, s, err := l.Resolve(machine, o)
		if err != nil {
			logger.Warn("config reload rejected", zap.String("path", path), zap.Error(err))
			return
		}
		logger.Info("config reloaded", zap.String("path", path), zap.String("version", s.Version))
		apply(s)
	})
	w.Start()
	return w
}
