// Package watch regenerates documentation when the source tree changes and,
// optionally, on a fixed interval.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docsetgen/internal/generation"
	"git.home.luguber.info/inful/docsetgen/internal/logfields"
)

// DefaultDebounce is how long the watcher waits for a burst of changes to settle.
const DefaultDebounce = 300 * time.Millisecond

// RebuildFunc regenerates documentation. Calls never overlap.
type RebuildFunc func(ctx context.Context, trigger generation.Trigger)

// Watcher watches a source root and calls a RebuildFunc after changes.
type Watcher struct {
	root     string
	ignored  []string
	debounce time.Duration
	interval time.Duration
	rebuild  RebuildFunc
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a change triggers a rebuild.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithInterval also rebuilds every d. Zero disables scheduled rebuilds.
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) { w.interval = d }
}

// WithIgnoredDirs excludes directories, typically the output path, from watching.
func WithIgnoredDirs(dirs ...string) Option {
	return func(w *Watcher) {
		for _, dir := range dirs {
			if dir == "" {
				continue
			}
			if abs, err := filepath.Abs(dir); err == nil {
				dir = abs
			}
			w.ignored = append(w.ignored, filepath.Clean(dir))
		}
	}
}

// New returns a Watcher for root.
func New(root string, rebuild RebuildFunc, opts ...Option) *Watcher {
	w := &Watcher{
		root:     root,
		debounce: DefaultDebounce,
		rebuild:  rebuild,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx is done, then waits for an in-flight rebuild to return.
func (w *Watcher) Run(ctx context.Context) error {
	if st, err := os.Stat(w.root); err != nil || !st.IsDir() {
		return fmt.Errorf("watch root not found or not a directory: %s", w.root)
	}

	watcher, err := w.setupFileWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	// capacity one: a request arriving during a rebuild is kept, later ones coalesce
	requests := make(chan generation.Trigger, 1)
	trigger, stopDebounce := setupRebuildDebouncer(w.debounce, requests)
	defer stopDebounce()

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()

	wg.Add(1)
	go func() {
		defer wg.Done()
		w.rebuildWorker(ctx, requests)
	}()

	if w.interval > 0 {
		sched, err := newSchedule(w.interval, requests)
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	slog.Info("Watching for changes",
		logfields.Path(w.root),
		slog.Duration("debounce", w.debounce),
		slog.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping watcher", logfields.Path(w.root))
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleFileEvent(watcher, ev, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) setupFileWatcher() (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	if err := w.addDirsRecursive(watcher, w.root); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	return watcher, nil
}

func (w *Watcher) addDirsRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && (strings.HasPrefix(d.Name(), ".") || w.isIgnoredDir(path)) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

func (w *Watcher) handleFileEvent(fw *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) || w.isIgnoredDir(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = w.addDirsRecursive(fw, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

// isIgnoredDir reports whether path is an ignored directory or inside one.
func (w *Watcher) isIgnoredDir(path string) bool {
	path = filepath.Clean(path)
	for _, dir := range w.ignored {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) rebuildWorker(ctx context.Context, requests <-chan generation.Trigger) {
	for {
		select {
		case <-ctx.Done():
			return
		case trigger := <-requests:
			if ctx.Err() != nil {
				return
			}
			slog.Info("Regenerating documentation", logfields.Trigger(string(trigger)))
			w.rebuild(ctx, trigger)
		}
	}
}

// setupRebuildDebouncer returns a trigger that requests a watch rebuild once
// no further trigger has arrived for d.
func setupRebuildDebouncer(d time.Duration, requests chan<- generation.Trigger) (trigger func(), stop func()) {
	var mu sync.Mutex
	var timer *time.Timer

	trigger = func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			request(requests, generation.TriggerWatch)
		})
	}
	stop = func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return trigger, stop
}

func request(requests chan<- generation.Trigger, trigger generation.Trigger) {
	select {
	case requests <- trigger:
	default:
	}
}

// shouldIgnoreEvent returns true for filesystem events that should not trigger rebuilds.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	// hidden files, including .DS_Store and emacs lock files
	if strings.HasPrefix(base, ".") {
		return true
	}

	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasSuffix(base, ".tmp") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}

	return base == "Thumbs.db" || base == "4913"
}
