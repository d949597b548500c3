// Package filemon implements the "file-monitor" backend for
// Start/Stop (§4.D server/lifecycle family), watching a directory
// with fsnotify and emitting RepositoryChangedEvent-shaped filesystem
// events.
package filemon

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/arolang/aro-sub008/events"
)

// Monitor watches one directory and publishes change events to a bus.
type Monitor struct {
	watcher *fsnotify.Watcher
	path    string
	bus     *events.Bus
	done    chan struct{}
}

// Start begins watching path, publishing a RepositoryChangedEvent-shaped
// event (reusing the same event type since a file-monitor change is
// structurally the same "something changed under a name" notification)
// to bus for every create/write/remove/rename fsnotify reports.
func Start(path string, bus *events.Bus) (*Monitor, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(path); err != nil {
		_ = w.Close()
		return nil, err
	}
	m := &Monitor{watcher: w, path: path, bus: bus, done: make(chan struct{})}
	go m.loop()
	return m, nil
}

func (m *Monitor) loop() {
	for {
		select {
		case ev, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			m.publish(ev)
		case _, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
		case <-m.done:
			return
		}
	}
}

func (m *Monitor) publish(ev fsnotify.Event) {
	if m.bus == nil {
		return
	}
	kind := events.Updated
	switch {
	case ev.Op&fsnotify.Create != 0:
		kind = events.Created
	case ev.Op&fsnotify.Remove != 0, ev.Op&fsnotify.Rename != 0:
		kind = events.Deleted
	}
	m.bus.Publish(events.RepositoryChangedEvent{
		RepositoryName: filepath.Base(m.path),
		ChangeType:     kind,
		EntityID:       ev.Name,
		At:             time.Now(),
	})
}

// Stop closes the underlying watcher, the inverse of Start (§4.D Stop).
func (m *Monitor) Stop() error {
	close(m.done)
	return m.watcher.Close()
}

// Path returns the watched directory.
func (m *Monitor) Path() string { return m.path }

// Registry tracks one Monitor per watched path and satisfies
// actions.FileMonitorService, the collaborator Start/Stop's
// "file-monitor" branch looks up.
type Registry struct {
	bus      *events.Bus
	mu       sync.Mutex
	monitors map[string]*Monitor
}

// NewRegistry returns a Registry publishing to bus.
func NewRegistry(bus *events.Bus) *Registry {
	return &Registry{bus: bus, monitors: make(map[string]*Monitor)}
}

// Watch starts a Monitor on path, a no-op if path is already watched.
func (r *Registry) Watch(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.monitors[path]; ok {
		return nil
	}
	m, err := Start(path, r.bus)
	if err != nil {
		return err
	}
	r.monitors[path] = m
	return nil
}

// Unwatch stops the Monitor on path.
func (r *Registry) Unwatch(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.monitors[path]
	if !ok {
		return fmt.Errorf("filemon: %s is not being watched", path)
	}
	delete(r.monitors, path)
	return m.Stop()
}
