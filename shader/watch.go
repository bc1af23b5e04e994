package shader

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports when any of a set of shader files changes on disk.
// Editors often replace a file rather than write it in place, so the
// parent directories are watched and events are filtered by name.
type Watcher struct {
	watcher *fsnotify.Watcher
	files   map[string]bool
	changes chan string
	done    chan struct{}
	wg      sync.WaitGroup
	logger  *log.Logger
}

// Watch starts watching the given files. A nil logger uses log.Default().
func Watch(logger *log.Logger, paths ...string) (*Watcher, error) {
	if logger == nil {
		logger = log.Default()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create shader watcher: %w", err)
	}
	w := &Watcher{
		watcher: fw,
		files:   make(map[string]bool),
		changes: make(chan string, 1),
		done:    make(chan struct{}),
		logger:  logger,
	}
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		w.files[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !w.files[name] {
				continue
			}
			// coalesce bursts; the render loop only needs to know something changed
			select {
			case w.changes <- name:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Printf("shader watcher: %v", err)
		}
	}
}

// Changes delivers the path of a changed file. Changes that arrive while a
// previous one is still pending are merged into it.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Changed reports, without blocking, whether a change is pending.
func (w *Watcher) Changed() bool {
	select {
	case <-w.changes:
		return true
	default:
		return false
	}
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}
