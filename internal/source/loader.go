package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/leekwars/leekc/internal/vfs"
)

// Extension is appended to include names written without one
const Extension = ".leek"

// Loader reads units from a filesystem through a cache. It implements
// Resolver: include names are tried relative to the including unit, then
// relative to Root.
type Loader struct {
	fs      vfs.FileSystem
	cache   *Cache
	root    string
	version int
	logger  *slog.Logger
}

// LoaderConfig configures a Loader
type LoaderConfig struct {
	Root    string
	Version int
	Cache   *Cache
	Logger  *slog.Logger
}

// NewLoader creates a loader over fsys
func NewLoader(fsys vfs.FileSystem, cfg LoaderConfig) (*Loader, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cache := cfg.Cache
	if cache == nil {
		var err error
		if cache, err = NewCache(DefaultCacheSize, logger); err != nil {
			return nil, err
		}
	}
	return &Loader{fs: fsys, cache: cache, root: cfg.Root, version: cfg.Version, logger: logger}, nil
}

// Cache returns the loader's unit cache
func (l *Loader) Cache() *Cache {
	return l.cache
}

// Version returns the language version units are lexed with
func (l *Loader) Version() int {
	return l.version
}

// Load reads and lexes the unit at path
func (l *Loader) Load(ctx context.Context, path string) (*Unit, error) {
	return l.load(ctx, path, path)
}

func (l *Loader) load(ctx context.Context, name, path string) (*Unit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path = filepath.Clean(path)
	return l.cache.Get(path, l.version, func() (*Unit, error) {
		data, err := l.fs.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		l.logger.Debug("lexing unit", "path", path, "bytes", len(data), "version", l.version)
		return NewUnit(name, path, string(data), l.version), nil
	})
}

// Resolve implements Resolver
func (l *Loader) Resolve(ctx context.Context, from *Unit, name string) (*Unit, error) {
	for _, candidate := range l.candidates(from, name) {
		info, err := l.fs.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		return l.load(ctx, name, candidate)
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

func (l *Loader) candidates(from *Unit, name string) []string {
	var dirs []string
	if filepath.IsAbs(name) {
		dirs = []string{""}
	} else {
		if from != nil {
			dirs = append(dirs, filepath.Dir(from.Path))
		}
		if l.root != "" {
			dirs = append(dirs, l.root)
		}
		if len(dirs) == 0 {
			dirs = []string{"."}
		}
	}
	var out []string
	for _, dir := range dirs {
		p := filepath.Join(dir, name)
		out = append(out, p)
		if filepath.Ext(name) == "" {
			out = append(out, p+Extension)
		}
	}
	return out
}

// Watch invalidates cached units as w reports changes, until ctx ends or
// the watcher closes. onChange, when set, is called after each invalidation.
func (l *Loader) Watch(ctx context.Context, w vfs.Watcher, onChange func(path string)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			if !ev.Op.Changed() {
				continue
			}
			path := filepath.Clean(ev.Path)
			l.cache.Invalidate(path)
			l.logger.Info("unit changed", "path", path, "op", ev.Op.String())
			if onChange != nil {
				onChange(path)
			}
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			l.logger.Warn("watch error", "err", err)
		}
	}
}
