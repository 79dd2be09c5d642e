package loader

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"geomap/internal/logging"
)

// Watcher reports tracked files that changed on disk. fsnotify watches
// directories, so the parent of each tracked file is watched and events
// for other files in it are dropped.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	log      *logrus.Entry

	mu      sync.Mutex
	tracked map[string]bool
	dirs    map[string]int // tracked files per watched dir
	timers  map[string]*time.Timer

	changes chan string
	done    chan struct{}
	once    sync.Once
}

func NewWatcher(debounce time.Duration, log *logrus.Entry) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.NewLogger("watcher")
	}
	return &Watcher{
		fsw:      fsw,
		debounce: debounce,
		log:      log,
		tracked:  make(map[string]bool),
		dirs:     make(map[string]int),
		timers:   make(map[string]*time.Timer),
		changes:  make(chan string, 16),
		done:     make(chan struct{}),
	}, nil
}

// Changes delivers the cleaned absolute path of each changed file, once per
// burst of writes. It is closed by Close.
func (w *Watcher) Changes() <-chan string { return w.changes }

// Track starts reporting changes to path. Tracking a path twice is a no-op.
func (w *Watcher) Track(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.tracked[abs] {
		return nil
	}
	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
		w.log.WithField("dir", dir).Debug("watching")
	}
	w.dirs[dir]++
	w.tracked[abs] = true
	return nil
}

// Untrack stops reporting changes to path.
func (w *Watcher) Untrack(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.tracked[abs] {
		return
	}
	delete(w.tracked, abs)
	if t, ok := w.timers[abs]; ok {
		t.Stop()
		delete(w.timers, abs)
	}
	dir := filepath.Dir(abs)
	w.dirs[dir]--
	if w.dirs[dir] == 0 {
		delete(w.dirs, dir)
		if err := w.fsw.Remove(dir); err != nil {
			w.log.WithError(err).WithField("dir", dir).Debug("unwatch failed")
		}
	}
}

// Run forwards events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.touch(filepath.Clean(ev.Name))
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("watch error")
		case <-ctx.Done():
			w.Close()
			return
		case <-w.done:
			return
		}
	}
}

// touch (re)arms the trailing debounce timer of a tracked path. A timer
// only reports if it is still the current one for its path, so a burst
// yields a single change even when a timer fires while being replaced.
func (w *Watcher) touch(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	select {
	case <-w.done:
		return
	default:
	}
	if !w.tracked[path] {
		return
	}
	if old, ok := w.timers[path]; ok {
		old.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.timers[path] != t {
			return
		}
		delete(w.timers, path)
		w.log.WithField("path", path).Info("changed on disk")
		// Close closes done before taking mu, so this cannot hold mu forever
		select {
		case w.changes <- path:
		case <-w.done:
		}
	})
	w.timers[path] = t
}

// Close stops watching and closes Changes. Pending changes are dropped.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		w.mu.Lock()
		for p, t := range w.timers {
			t.Stop()
			delete(w.timers, p)
		}
		close(w.changes)
		w.mu.Unlock()
		err = w.fsw.Close()
	})
	return err
}
