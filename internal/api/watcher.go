package api

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher debounces filesystem change notifications for a set of files.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]time.Time
	onChange func(string)
	mu       sync.RWMutex
	done     chan struct{}
}

func NewWatcher(onChange func(string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  fsw,
		files:    make(map[string]time.Time),
		onChange: onChange,
		done:     make(chan struct{}),
	}

	go w.run()
	return w, nil
}

func (w *Watcher) Add(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.files[absPath]; exists {
		return nil
	}
	if err := w.watcher.Add(absPath); err != nil {
		return err
	}
	w.files[absPath] = time.Now()
	return nil
}

func (w *Watcher) run() {
	debounce := make(map[string]*time.Timer)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			// Editors fire bursts of writes; collapse them.
			if timer, exists := debounce[event.Name]; exists {
				timer.Stop()
			}
			debounce[event.Name] = time.AfterFunc(100*time.Millisecond, func() {
				w.mu.RLock()
				_, watching := w.files[event.Name]
				w.mu.RUnlock()
				if watching && w.onChange != nil {
					w.onChange(event.Name)
				}
				delete(debounce, event.Name)
			})

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
