package ast

import (
	"fmt"
	"strings"

	"github.com/leekwars/leekc/internal/position"
	"github.com/leekwars/leekc/internal/types"
)

// VarDecl declares a local variable
type VarDecl struct {
	Span  position.Span
	Name  string
	Type  *types.Type
	Value Expression
	Scope ScopeID
}

func (v *VarDecl) GetSpan() position.Span { return v.Span }
func (v *VarDecl) instructionNode()       {}
func (v *VarDecl) String() string {
	return declString("var", v.Type, v.Name, v.Value)
}

// GlobalDecl declares a global variable
type GlobalDecl struct {
	Span  position.Span
	Name  string
	Type  *types.Type
	Value Expression
}

func (g *GlobalDecl) GetSpan() position.Span { return g.Span }
func (g *GlobalDecl) instructionNode()       {}
func (g *GlobalDecl) String() string {
	return declString("global", g.Type, g.Name, g.Value)
}

func declString(keyword string, t *types.Type, name string, value Expression) string {
	var b strings.Builder
	if t != nil {
		if keyword == "global" {
			b.WriteString("global ")
		}
		b.WriteString(t.String())
	} else {
		b.WriteString(keyword)
	}
	b.WriteString(" ")
	b.WriteString(name)
	if value != nil {
		b.WriteString(" = ")
		b.WriteString(value.String())
	}
	return b.String()
}

// ExprStmt evaluates an expression for its effects
type ExprStmt struct {
	X Expression
}

func (e *ExprStmt) GetSpan() position.Span { return e.X.GetSpan() }
func (e *ExprStmt) instructionNode()       {}
func (e *ExprStmt) String() string         { return e.X.String() }

// Return leaves the enclosing function. Optional returns (return?) only
// return when the value is not null.
type Return struct {
	Span     position.Span
	Value    Expression
	Optional bool
}

func (r *Return) GetSpan() position.Span { return r.Span }
func (r *Return) instructionNode()       {}
func (r *Return) String() string {
	kw := "return"
	if r.Optional {
		kw = "return?"
	}
	if r.Value == nil {
		return kw
	}
	return kw + " " + r.Value.String()
}

// Break leaves the innermost loop
type Break struct {
	Span position.Span
}

func (b *Break) GetSpan() position.Span { return b.Span }
func (b *Break) instructionNode()       {}
func (b *Break) String() string         { return "break" }

// Continue jumps to the next iteration of the innermost loop
type Continue struct {
	Span position.Span
}

func (c *Continue) GetSpan() position.Span { return c.Span }
func (c *Continue) instructionNode()       {}
func (c *Continue) String() string         { return "continue" }

// Blank is the empty instruction of `while (c);`
type Blank struct {
	Span position.Span
}

func (b *Blank) GetSpan() position.Span { return b.Span }
func (b *Blank) instructionNode()       {}
func (b *Blank) String() string         { return ";" }

// Include marks where another unit's instructions were spliced in
type Include struct {
	Span position.Span
	Name string
	// Resolved is the unit's resolved path, empty when it was not found
	Resolved string
}

func (i *Include) GetSpan() position.Span { return i.Span }
func (i *Include) instructionNode()       {}
func (i *Include) String() string         { return fmt.Sprintf("include(%q)", i.Name) }
