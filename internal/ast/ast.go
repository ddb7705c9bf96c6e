// Package ast defines the syntax tree produced by the LeekScript parser.
// Blocks are instructions that own an ordered body; expressions are a closed
// set of node types switched on by consumers.
package ast

import (
	"github.com/leekwars/leekc/internal/position"
)

// Node is the base interface for all tree nodes
type Node interface {
	// GetSpan returns the source span covered by this node
	GetSpan() position.Span
	// String returns a compact source-like rendering
	String() string
}

// Instruction represents a statement inside a block body
type Instruction interface {
	Node
	instructionNode()
}

// Expression represents all expression nodes
type Expression interface {
	Node
	expressionNode()
}

// Stats counts what a compile produced
type Stats struct {
	Instructions int
	Functions    int
	Classes      int
	Lambdas      int
}

// Program is the result of a successful compile: the main block holding
// the instruction tree plus the flat declaration lists.
type Program struct {
	Main               *MainBlock
	Functions          []*FunctionBlock
	AnonymousFunctions []*AnonymousFunctionBlock
	Classes            []*ClassDecl
	Globals            []*GlobalDecl
	// Includes lists the resolved names of included units in inclusion order
	Includes []string
	Stats    Stats
}

// NewProgram creates a program with an empty main block for the given file
func NewProgram(file string) *Program {
	m := &MainBlock{}
	m.Scope = 1
	m.Braced = true
	m.Span = position.Span{
		Start: position.Position{Filename: file, Line: 1, Column: 1},
		End:   position.Position{Filename: file, Line: 1, Column: 1},
	}
	return &Program{Main: m}
}

// Function returns the named user function, or nil
func (p *Program) Function(name string) *FunctionBlock {
	for _, f := range p.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Class returns the named class, or nil
func (p *Program) Class(name string) *ClassDecl {
	for _, c := range p.Classes {
		if c.Name == name {
			return c
		}
	}
	return nil
}
