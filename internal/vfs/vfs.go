// Package vfs abstracts where LeekScript units are read from and how
// changes to them are observed. The compiler only reads; writes exist for
// the in-memory filesystem used by tests and editors.
package vfs

import (
	"io/fs"
	"path"
	"time"
)

// FileSystem is the read side the unit loader needs
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	Stat(name string) (fs.FileInfo, error)
	Walk(root string, fn func(fullPath string, d fs.DirEntry, err error) error) error
}

// WatchOp indicates a change operation in the filesystem.
type WatchOp uint32

const (
	OpCreate WatchOp = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

// Changed reports whether the op can alter a unit's text
func (op WatchOp) Changed() bool {
	return op&(OpCreate|OpWrite|OpRemove|OpRename) != 0
}

func (op WatchOp) String() string {
	var s string
	for _, n := range []struct {
		op   WatchOp
		name string
	}{{OpCreate, "create"}, {OpWrite, "write"}, {OpRemove, "remove"}, {OpRename, "rename"}, {OpChmod, "chmod"}} {
		if op&n.op != 0 {
			if s != "" {
				s += "|"
			}
			s += n.name
		}
	}
	return s
}

// Event describes a filesystem change event.
type Event struct {
	Path string
	Op   WatchOp
	Time time.Time
}

// Watcher provides a platform-independent file watching API.
type Watcher interface {
	Events() <-chan Event
	Errors() <-chan error
	Add(name string) error
	Remove(name string) error
	Close() error
}

// Join joins any number of path elements into a single path, using forward slashes.
func Join(elem ...string) string { return path.Join(elem...) }

// Clean returns the shortest path name equivalent to path by purely lexical processing.
func Clean(p string) string { return path.Clean(p) }

// IsSource reports whether name looks like a LeekScript unit
func IsSource(name string) bool {
	switch path.Ext(name) {
	case ".leek", ".ls", "":
		return true
	}
	return false
}
