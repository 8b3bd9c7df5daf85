// Package watcher reports task board changes made outside the current process.
package watcher

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDelay coalesces bursts of file events (a bulk update rewrites many
// task files) into a single notification.
const DefaultDelay = 100 * time.Millisecond

// Option configures a Watcher.
type Option func(*Watcher)

// WithDelay sets the debounce delay.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) { w.delay = d }
}

// Ignore skips events for files whose base name equals one of names or
// starts with one of them followed by "-". The prefix form covers sidecar
// files such as "timesheet.db-wal".
func Ignore(names ...string) Option {
	return func(w *Watcher) { w.ignore = append(w.ignore, names...) }
}

// Watcher watches board directories and invokes a callback, debounced,
// whenever a relevant file changes.
type Watcher struct {
	fsw      *fsnotify.Watcher
	mu       sync.Mutex
	timer    *time.Timer
	callback func()
	delay    time.Duration
	ignore   []string
}

// New creates a Watcher that monitors the given paths.
func New(paths []string, callback func(), opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, p := range paths {
		if err := fsw.Add(p); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}

	w := &Watcher{fsw: fsw, callback: callback, delay: DefaultDelay}
	for _, o := range opts {
		o(w)
	}
	return w, nil
}

// Run starts the watch loop. It blocks until the context is canceled or the
// watcher is closed. Errors from fsnotify go to errFn when it is non-nil.
func (w *Watcher) Run(ctx context.Context, errFn func(error)) {
	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if w.ignored(event.Name) {
				continue
			}
			w.debounce()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if errFn != nil {
				errFn(err)
			}
		}
	}
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) ignored(path string) bool {
	base := filepath.Base(path)
	for _, name := range w.ignore {
		if base == name || strings.HasPrefix(base, name+"-") {
			return true
		}
	}
	return false
}

func (w *Watcher) debounce() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.callback)
}
