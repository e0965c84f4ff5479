// monitor.go
package file

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Monitor watches the dataset file and invokes a handler whenever it is
// rewritten. Repeated write events for the same modification time are
// swallowed, since editors and exporters tend to fire several per save.
type Monitor struct {
	target  string
	watcher *fsnotify.Watcher
	lastMod time.Time
	mu      sync.Mutex
}

// NewMonitor watches the directory containing target, so the watch survives
// rename-and-replace saves.
func NewMonitor(target string) (*Monitor, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		watcher.Close()
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, err
	}

	return &Monitor{
		target:  abs,
		watcher: watcher,
	}, nil
}

// Watch blocks, calling handler with the dataset path on each fresh write.
// It returns when the watcher is closed or fails.
func (m *Monitor) Watch(handler func(string)) error {
	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || abs != m.target {
				continue
			}
			info, err := os.Stat(abs)
			if err != nil {
				continue
			}

			m.mu.Lock()
			fresh := info.ModTime().After(m.lastMod)
			if fresh {
				m.lastMod = info.ModTime()
			}
			m.mu.Unlock()

			if fresh {
				handler(abs)
			}
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

// Close stops the underlying watcher, unblocking Watch.
func (m *Monitor) Close() error {
	return m.watcher.Close()
}
