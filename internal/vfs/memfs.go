package vfs

import (
	"errors"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"time"
)

type fileInfo struct {
	name string
	size int64
	mode fs.FileMode
	mod  time.Time
}

func (fi fileInfo) Name() string       { return fi.name }
func (fi fileInfo) Size() int64        { return fi.size }
func (fi fileInfo) Mode() fs.FileMode  { return fi.mode }
func (fi fileInfo) ModTime() time.Time { return fi.mod }
func (fi fileInfo) IsDir() bool        { return fi.mode.IsDir() }
func (fi fileInfo) Sys() any           { return nil }

type memFile struct {
	data []byte
	mod  time.Time
}

// MemFS is an in-memory filesystem. Writes and removals are published to
// watchers created with Watch.
type MemFS struct {
	mu       sync.RWMutex
	files    map[string]*memFile
	watchers []*memWatcher
}

func NewMem() *MemFS { return &MemFS{files: make(map[string]*memFile)} }

func norm(p string) string {
	return strings.TrimPrefix(Clean("/"+p), "/")
}

// WriteFile creates or replaces a file
func (m *MemFS) WriteFile(name string, data []byte) {
	m.mu.Lock()
	key := norm(name)
	_, existed := m.files[key]
	m.files[key] = &memFile{data: append([]byte(nil), data...), mod: time.Now()}
	m.mu.Unlock()

	op := OpWrite
	if !existed {
		op = OpCreate
	}
	m.publish(Event{Path: key, Op: op, Time: time.Now()})
}

// Remove deletes a file
func (m *MemFS) Remove(name string) error {
	m.mu.Lock()
	key := norm(name)
	if _, ok := m.files[key]; !ok {
		m.mu.Unlock()
		return fs.ErrNotExist
	}
	delete(m.files, key)
	m.mu.Unlock()
	m.publish(Event{Path: key, Op: OpRemove, Time: time.Now()})
	return nil
}

func (m *MemFS) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f := m.files[norm(name)]
	if f == nil {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), f.data...), nil
}

func (m *MemFS) Stat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	key := norm(name)
	if f := m.files[key]; f != nil {
		return fileInfo{name: path.Base(key), size: int64(len(f.data)), mod: f.mod}, nil
	}
	prefix := key + "/"
	for k := range m.files {
		if key == "" || strings.HasPrefix(k, prefix) {
			return fileInfo{name: path.Base(key), mode: fs.ModeDir}, nil
		}
	}
	return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
}

// Walk visits the files under root in lexical order
func (m *MemFS) Walk(root string, fn func(fullPath string, d fs.DirEntry, err error) error) error {
	if fn == nil {
		return errors.New("nil walk fn")
	}
	key := norm(root)
	m.mu.RLock()
	var names []string
	for k := range m.files {
		if key == "" || k == key || strings.HasPrefix(k, key+"/") {
			names = append(names, k)
		}
	}
	m.mu.RUnlock()
	sort.Strings(names)

	for _, n := range names {
		info, err := m.Stat(n)
		if err != nil {
			continue
		}
		if err := fn(n, fs.FileInfoToDirEntry(info), nil); err != nil {
			return err
		}
	}
	return nil
}

// Watch returns a watcher receiving this filesystem's changes
func (m *MemFS) Watch() Watcher {
	w := &memWatcher{fs: m, evC: make(chan Event, 128), erC: make(chan error, 1), paths: make(map[string]bool)}
	m.mu.Lock()
	m.watchers = append(m.watchers, w)
	m.mu.Unlock()
	return w
}

func (m *MemFS) publish(ev Event) {
	m.mu.RLock()
	ws := append([]*memWatcher(nil), m.watchers...)
	m.mu.RUnlock()
	for _, w := range ws {
		w.deliver(ev)
	}
}

func (m *MemFS) detach(w *memWatcher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, x := range m.watchers {
		if x == w {
			m.watchers = append(m.watchers[:i], m.watchers[i+1:]...)
			return
		}
	}
}

type memWatcher struct {
	fs     *MemFS
	mu     sync.Mutex
	paths  map[string]bool
	evC    chan Event
	erC    chan error
	closed bool
}

func (w *memWatcher) deliver(ev Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || !w.matches(ev.Path) {
		return
	}
	select {
	case w.evC <- ev:
	default:
	}
}

// matches reports whether a watched file or directory covers p
func (w *memWatcher) matches(p string) bool {
	if len(w.paths) == 0 {
		return false
	}
	for q := range w.paths {
		if q == "" || q == p || strings.HasPrefix(p, q+"/") {
			return true
		}
	}
	return false
}

func (w *memWatcher) Events() <-chan Event { return w.evC }
func (w *memWatcher) Errors() <-chan error { return w.erC }

func (w *memWatcher) Add(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.paths[norm(name)] = true
	return nil
}

func (w *memWatcher) Remove(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.paths, norm(name))
	return nil
}

func (w *memWatcher) Close() error {
	w.fs.detach(w)
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.closed {
		w.closed = true
		close(w.evC)
	}
	return nil
}
