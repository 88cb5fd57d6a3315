package codebase

import (
	"io/fs"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

const DefaultPollInterval = time.Second

// ChangeFunc is called after a file was recompiled. info is nil when the
// file was removed.
type ChangeFunc func(path string, info *FileInfo)

type WatcherOption func(*FileWatcher)

func WithPollInterval(d time.Duration) WatcherOption {
	return func(w *FileWatcher) {
		w.pollInterval = d
	}
}

// OnChange registers fn for every change the watcher picks up.
func OnChange(fn ChangeFunc) WatcherOption {
	return func(w *FileWatcher) {
		w.onChange = fn
	}
}

// FileWatcher polls the codebase root for added, modified and removed
// source files.
type FileWatcher struct {
	codebase     *Codebase
	stopCh       chan struct{}
	done         chan struct{}
	stopOnce     sync.Once
	started      atomic.Bool
	pollInterval time.Duration
	modTimes     map[string]time.Time
	onChange     ChangeFunc
}

func NewFileWatcher(c *Codebase, opts ...WatcherOption) *FileWatcher {
	w := &FileWatcher{
		codebase:     c,
		stopCh:       make(chan struct{}),
		done:         make(chan struct{}),
		pollInterval: DefaultPollInterval,
		modTimes:     make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start scans once and then keeps polling in the background until Stop.
func (w *FileWatcher) Start() {
	if w.started.CompareAndSwap(false, true) {
		go w.run()
	}
}

// Stop ends polling and waits for an in-flight scan to finish. It is safe
// to call more than once.
func (w *FileWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
	if w.started.Load() {
		<-w.done
	}
}

func (w *FileWatcher) run() {
	defer close(w.done)
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.Scan()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Scan()
		}
	}
}

// Scan performs one polling pass and returns the number of changes seen.
func (w *FileWatcher) Scan() int {
	changes := 0
	current := make(map[string]bool)

	root := w.codebase.RootDir()
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && isHidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !isSource(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}

		current[path] = true
		lastMod, known := w.modTimes[path]
		if known && !info.ModTime().After(lastMod) {
			return nil
		}
		if err := w.codebase.ScanFile(path); err != nil {
			w.codebase.log.Warningf("watch: %s", err)
			return nil
		}
		w.modTimes[path] = info.ModTime()
		changes++
		w.notify(path, w.codebase.GetFile(path))
		return nil
	})

	for path := range w.modTimes {
		if !current[path] {
			delete(w.modTimes, path)
			w.codebase.RemoveFile(path)
			changes++
			w.notify(path, nil)
		}
	}
	return changes
}

func (w *FileWatcher) notify(path string, info *FileInfo) {
	if w.onChange != nil {
		w.onChange(path, info)
	}
}
