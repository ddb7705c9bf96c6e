package parser

import (
	"github.com/leekwars/leekc/internal/ast"
	"github.com/leekwars/leekc/internal/position"
	"github.com/leekwars/leekc/internal/types"
)

// DeclKind enumerates what a Declaration introduces
type DeclKind int

const (
	DeclVariable DeclKind = iota
	DeclGlobal
	DeclParameter
	DeclFunction
	DeclClass
	DeclField
	DeclMethod
	DeclConstructor
	DeclThis
)

var declKindNames = [...]string{
	DeclVariable:    "variable",
	DeclGlobal:      "global",
	DeclParameter:   "parameter",
	DeclFunction:    "function",
	DeclClass:       "class",
	DeclField:       "field",
	DeclMethod:      "method",
	DeclConstructor: "constructor",
	DeclThis:        "this",
}

func (k DeclKind) String() string {
	if int(k) < len(declKindNames) {
		return declKindNames[k]
	}
	return "unknown"
}

// Declaration is a binding reported to a Sink while the second pass runs
type Declaration struct {
	Kind DeclKind
	Name string
	// Type is the declared type, nil when none was written
	Type *types.Type
	Span position.Span
	// Scope is the block the binding lives in. Class members and functions
	// live in the main scope.
	Scope ast.ScopeID
	// Class names the owning class of members and this, or the parent class
	// of a class declaration in Parent
	Class  string
	Parent string
	Params []*ast.Param
	Return *types.Type
	Access ast.Access
	Static bool
	Final  bool
}

// Sink observes declarations and scope boundaries as they are parsed.
// Every BlockOpened is matched by exactly one BlockClosed, and every
// variable-like declaration made inside a block is withdrawn with
// RemoveDeclaration before that block's BlockClosed.
type Sink interface {
	AddDeclaration(d *Declaration)
	RemoveDeclaration(d *Declaration, closing position.Span)
	BlockOpened(scope ast.ScopeID, kind ast.BlockKind, span position.Span)
	BlockClosed(scope ast.ScopeID, kind ast.BlockKind, span position.Span)
}

// NopSink ignores every event
type NopSink struct{}

func (NopSink) AddDeclaration(*Declaration)                           {}
func (NopSink) RemoveDeclaration(*Declaration, position.Span)         {}
func (NopSink) BlockOpened(ast.ScopeID, ast.BlockKind, position.Span) {}
func (NopSink) BlockClosed(ast.ScopeID, ast.BlockKind, position.Span) {}
