package config

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reports changes to a config file and its local overlay. The
// directory is watched rather than the files so editors that save by
// renaming a temp file are still seen.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	names     map[string]bool
	events    chan string
	done      chan struct{}
	stopOnce  sync.Once
	logger    *slog.Logger

	debounce time.Duration
	mu       sync.Mutex
	timer    *time.Timer
}

// NewWatcher watches the directory holding path.
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	return &Watcher{
		fsWatcher: fsWatcher,
		names: map[string]bool{
			filepath.Base(path):                   true,
			filepath.Base(LocalOverlayPath(path)): true,
		},
		events:   make(chan string, 1),
		done:     make(chan struct{}),
		logger:   logger.With("component", "config-watcher"),
		debounce: DefaultDebounce,
	}, nil
}

// Events delivers the path of the last changed file once writes settle.
// Bursts collapse into one notification.
func (w *Watcher) Events() <-chan string {
	return w.events
}

// Start begins processing file system events.
func (w *Watcher) Start() {
	go w.processEvents()
}

// Stop releases the watch.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		_ = w.fsWatcher.Close()
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
	})
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}
	if !w.names[filepath.Base(event.Name)] {
		return
	}
	w.logger.Debug("config file changed", "path", event.Name, "op", event.Op.String())

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	path := event.Name
	w.timer = time.AfterFunc(w.debounce, func() { w.notify(path) })
}

func (w *Watcher) notify(path string) {
	select {
	case <-w.done:
		return
	default:
	}
	select {
	case w.events <- path:
	default:
	}
}
