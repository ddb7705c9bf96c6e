// Package source loads LeekScript units, lexes them once per language
// version and keeps the token streams in a shared cache that file changes
// invalidate.
package source

import (
	"context"
	"errors"

	"github.com/leekwars/leekc/internal/diagnostic"
	"github.com/leekwars/leekc/internal/lexer"
	"github.com/leekwars/leekc/internal/position"
)

// ErrNotFound is returned when an include name resolves to no unit
var ErrNotFound = errors.New("unit not found")

// Unit is one lexed source file. Units are immutable and may be shared by
// concurrent compiles; each compile walks Tokens with its own cursor.
type Unit struct {
	// Name is how the unit was requested
	Name string
	// Path is the resolved location, also the cache key
	Path    string
	Version int
	File    *position.SourceFile
	Tokens  []lexer.Token
	// Problems are the lexical diagnostics of the unit
	Problems []diagnostic.Diagnostic
}

// NewUnit lexes content into a unit
func NewUnit(name, path, content string, version int) *Unit {
	file := position.NewSourceFile(path, content)
	tokens, problems := lexer.Tokenize(file, version)
	return &Unit{Name: name, Path: path, Version: version, File: file, Tokens: tokens, Problems: problems}
}

// Stream returns a fresh cursor over the unit's tokens
func (u *Unit) Stream() *lexer.Stream {
	return lexer.NewStream(u.Tokens)
}

// Resolver finds the unit an include statement names
type Resolver interface {
	Resolve(ctx context.Context, from *Unit, name string) (*Unit, error)
}

// MapResolver resolves includes from units registered by name
type MapResolver map[string]*Unit

// Resolve implements Resolver
func (m MapResolver) Resolve(_ context.Context, _ *Unit, name string) (*Unit, error) {
	if u, ok := m[name]; ok {
		return u, nil
	}
	return nil, ErrNotFound
}
