// Package watcher watches a set of files and reports, after a quiet period,
// which of them changed.
package watcher

import (
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/glint/internal/log"
)

// Watcher monitors files for changes and sends their paths.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	paths     map[string]bool // cleaned absolute paths
	debounce  time.Duration
	onChange  chan string
	done      chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	Paths       []string
	DebounceDur time.Duration
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(paths ...string) Config {
	return Config{
		Paths:       paths,
		DebounceDur: 300 * time.Millisecond,
	}
}

// New creates a new file watcher.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Paths) == 0 {
		return nil, fmt.Errorf("watcher: no paths to watch")
	}

	paths := make(map[string]bool, len(cfg.Paths))
	for _, p := range cfg.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		paths[filepath.Clean(abs)] = true
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		paths:     paths,
		debounce:  cfg.DebounceDur,
		onChange:  make(chan string, len(paths)),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching the directories that contain the configured files.
// Directories are watched rather than files so editors that save by
// replacing the file keep being tracked.
// The returned channel receives the absolute path of each changed file once
// per quiet period.
func (w *Watcher) Start() (<-chan string, error) {
	dirs := make(map[string]bool)
	for p := range w.paths {
		dirs[filepath.Dir(p)] = true
	}
	for dir := range dirs {
		if err := w.fsWatcher.Add(dir); err != nil {
			return nil, fmt.Errorf("watching directory %s: %w", dir, err)
		}
	}
	log.Debug(log.CatWatcher, "Watching files", "files", len(w.paths), "dirs", len(dirs))

	go w.loop()

	return w.onChange, nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

// loop processes file system events with debouncing. Every relevant event
// restarts the timer; when it fires, each file touched since the last flush
// is sent once.
func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending = make(map[string]bool)
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			path, relevant := w.relevantPath(event)
			if !relevant {
				continue
			}
			pending[path] = true

			// Reset or start debounce timer
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					// Drain the timer channel if it already fired
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			w.flush(pending)
			clear(pending)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "File watcher error", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// flush sends pending paths in sorted order. A path whose previous
// notification has not been consumed yet is dropped; the consumer will read
// the file's latest content anyway.
func (w *Watcher) flush(pending map[string]bool) {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
	}
	slices.Sort(paths)

	for _, p := range paths {
		select {
		case w.onChange <- p:
			log.Debug(log.CatWatcher, "File changed", "path", p)
		default:
			log.Debug(log.CatWatcher, "Change dropped, consumer busy", "path", p)
		}
	}
}

// relevantPath reports whether the event is a write or create on a watched file.
func (w *Watcher) relevantPath(event fsnotify.Event) (string, bool) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return "", false
	}

	path := filepath.Clean(event.Name)
	if !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", false
		}
		path = abs
	}
	return path, w.paths[path]
}
