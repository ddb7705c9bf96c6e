package vfs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// OSFS reads units from the host filesystem
type OSFS struct{}

func NewOS() *OSFS { return &OSFS{} }

func (fsys *OSFS) ReadFile(name string) ([]byte, error)  { return os.ReadFile(name) }
func (fsys *OSFS) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }

func (fsys *OSFS) Walk(root string, fn func(fullPath string, d fs.DirEntry, err error) error) error {
	if fn == nil {
		return errors.New("nil walk fn")
	}
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		return fn(p, d, err)
	})
}
