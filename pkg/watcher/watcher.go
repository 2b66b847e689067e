package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher invokes a callback when a watched file changes, with
// debouncing so editors that write in bursts trigger a single reload.
// The parent directory is watched rather than the file itself, because
// many tools replace files atomically and the original watch handle
// would go stale.
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	mu        sync.Mutex
	debounce  time.Duration
	timers    map[string]*time.Timer
	targets   map[string]func(string)
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a file watcher with the given debounce interval
func New(debounce time.Duration) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	fw := &FileWatcher{
		watcher:  w,
		debounce: debounce,
		timers:   make(map[string]*time.Timer),
		targets:  make(map[string]func(string)),
		done:     make(chan struct{}),
	}
	go fw.run()
	return fw, nil
}

// Watch registers a file; callback runs after the file is written or
// recreated and the debounce interval has passed.
func (fw *FileWatcher) Watch(file string, callback func(string)) error {
	absPath, err := filepath.Abs(file)
	if err != nil {
		return fmt.Errorf("failed to resolve path %s: %w", file, err)
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if err := fw.watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", absPath, err)
	}
	fw.targets[absPath] = callback
	return nil
}

func (fw *FileWatcher) run() {
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				fw.handleChange(event.Name)
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fmt.Printf("Warning: watcher error: %v\n", err)

		case <-fw.done:
			return
		}
	}
}

func (fw *FileWatcher) handleChange(path string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	callback, ok := fw.targets[path]
	if !ok {
		return
	}

	if timer, exists := fw.timers[path]; exists {
		timer.Stop()
	}
	fw.timers[path] = time.AfterFunc(fw.debounce, func() {
		callback(path)
	})
}

// Close stops the watcher and all pending callbacks. Closing an
// already-closed watcher is a no-op.
func (fw *FileWatcher) Close() error {
	var err error
	fw.closeOnce.Do(func() {
		fw.mu.Lock()
		for _, timer := range fw.timers {
			timer.Stop()
		}
		fw.mu.Unlock()

		close(fw.done)
		err = fw.watcher.Close()
	})
	return err
}
