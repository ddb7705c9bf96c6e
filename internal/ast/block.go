package ast

import (
	"fmt"
	"strings"

	"github.com/leekwars/leekc/internal/position"
	"github.com/leekwars/leekc/internal/types"
)

// ScopeID identifies a block while it is on the parser's block stack.
// It is the block's depth, so an ID is reused once its block has closed.
type ScopeID int

// BlockKind enumerates the block variants
type BlockKind int

const (
	KindMain BlockKind = iota
	KindFunction
	KindAnonymousFunction
	KindFor
	KindForeach
	KindForeachKeyValue
	KindWhile
	KindDoWhile
	KindConditional
	KindClassMethod
)

var blockKindNames = [...]string{
	KindMain:              "main",
	KindFunction:          "function",
	KindAnonymousFunction: "anonymous function",
	KindFor:               "for",
	KindForeach:           "foreach",
	KindForeachKeyValue:   "foreach key value",
	KindWhile:             "while",
	KindDoWhile:           "do while",
	KindConditional:       "conditional",
	KindClassMethod:       "method",
}

func (k BlockKind) String() string {
	if int(k) < len(blockKindNames) {
		return blockKindNames[k]
	}
	return "unknown"
}

// Block is an instruction owning an ordered body
type Block interface {
	Instruction
	Kind() BlockKind
	Base() *BlockBase
}

// BlockBase holds the state shared by every block variant.
// Parent is a non-owning back reference, nil for the main block.
type BlockBase struct {
	Scope  ScopeID
	Parent Block
	// Braced is false for single-instruction blocks written without braces
	Braced bool
	// Full is set once a brace-less block has received its instruction
	Full bool
	Span position.Span
	Body []Instruction
	// Variables declared directly in this block, in declaration order
	Variables []string
}

func (b *BlockBase) Base() *BlockBase       { return b }
func (b *BlockBase) GetSpan() position.Span { return b.Span }
func (b *BlockBase) instructionNode()       {}

// Add appends an instruction. A brace-less block is full afterwards.
func (b *BlockBase) Add(in Instruction) {
	b.Body = append(b.Body, in)
	if !b.Braced {
		b.Full = true
	}
}

// Last returns the last instruction of the body, or nil
func (b *BlockBase) Last() Instruction {
	if len(b.Body) == 0 {
		return nil
	}
	return b.Body[len(b.Body)-1]
}

// Declares reports whether name was declared directly in this block
func (b *BlockBase) Declares(name string) bool {
	for _, v := range b.Variables {
		if v == name {
			return true
		}
	}
	return false
}

// Param is a function, lambda or method parameter
type Param struct {
	Name      string
	Type      *types.Type
	Reference bool
	Default   Expression
	Span      position.Span
}

func (p *Param) String() string {
	var b strings.Builder
	if p.Type != nil {
		b.WriteString(p.Type.String())
		b.WriteString(" ")
	}
	if p.Reference {
		b.WriteString("@")
	}
	b.WriteString(p.Name)
	if p.Default != nil {
		b.WriteString(" = ")
		b.WriteString(p.Default.String())
	}
	return b.String()
}

func paramList(params []*Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}

func returnSuffix(t *types.Type) string {
	if t == nil {
		return ""
	}
	return " -> " + t.String()
}

// MainBlock is the root of the instruction tree
type MainBlock struct {
	BlockBase
}

func (b *MainBlock) Kind() BlockKind { return KindMain }
func (b *MainBlock) String() string  { return "main" }

// FunctionBlock is a named user function declared at top level
type FunctionBlock struct {
	BlockBase
	Name   string
	Params []*Param
	Return *types.Type
}

func (b *FunctionBlock) Kind() BlockKind { return KindFunction }
func (b *FunctionBlock) String() string {
	return fmt.Sprintf("function %s(%s)%s", b.Name, paramList(b.Params), returnSuffix(b.Return))
}

// AnonymousFunctionBlock is a function expression or an arrow lambda
type AnonymousFunctionBlock struct {
	BlockBase
	Params []*Param
	Return *types.Type
	// Arrow is set for lambda syntax
	Arrow bool
	// Expr is the body of an expression lambda. Body then holds its Return.
	Expr Expression
	// ID is the position in the program's anonymous function list
	ID int
}

func (b *AnonymousFunctionBlock) Kind() BlockKind { return KindAnonymousFunction }
func (b *AnonymousFunctionBlock) String() string {
	if b.Arrow {
		if b.Expr != nil {
			return fmt.Sprintf("(%s)%s => %s", paramList(b.Params), returnSuffix(b.Return), b.Expr)
		}
		return fmt.Sprintf("(%s)%s => {...}", paramList(b.Params), returnSuffix(b.Return))
	}
	return fmt.Sprintf("function(%s)%s {...}", paramList(b.Params), returnSuffix(b.Return))
}

// LoopVar is a variable introduced by a for header
type LoopVar struct {
	Name      string
	Type      *types.Type
	Declared  bool
	Reference bool
	Span      position.Span
}

func (v *LoopVar) String() string {
	var b strings.Builder
	if v.Type != nil {
		b.WriteString(v.Type.String())
		b.WriteString(" ")
	} else if v.Declared {
		b.WriteString("var ")
	}
	if v.Reference {
		b.WriteString("@")
	}
	b.WriteString(v.Name)
	return b.String()
}

// ForBlock is a counted loop: for (init; cond; incr)
type ForBlock struct {
	BlockBase
	Var  *LoopVar
	Init Expression
	Cond Expression
	Incr Expression
}

func (b *ForBlock) Kind() BlockKind { return KindFor }
func (b *ForBlock) String() string {
	return fmt.Sprintf("for (%s = %s; %s; %s)", b.Var, exprString(b.Init), exprString(b.Cond), exprString(b.Incr))
}

// ForeachBlock iterates the values of a container
type ForeachBlock struct {
	BlockBase
	Var      *LoopVar
	Iterable Expression
}

func (b *ForeachBlock) Kind() BlockKind { return KindForeach }
func (b *ForeachBlock) String() string {
	return fmt.Sprintf("for (%s in %s)", b.Var, exprString(b.Iterable))
}

// ForeachKeyValueBlock iterates the keys and values of a container
type ForeachKeyValueBlock struct {
	BlockBase
	Key      *LoopVar
	Value    *LoopVar
	Iterable Expression
}

func (b *ForeachKeyValueBlock) Kind() BlockKind { return KindForeachKeyValue }
func (b *ForeachKeyValueBlock) String() string {
	return fmt.Sprintf("for (%s : %s in %s)", b.Key, b.Value, exprString(b.Iterable))
}

// WhileBlock is a pre-tested loop
type WhileBlock struct {
	BlockBase
	Cond Expression
}

func (b *WhileBlock) Kind() BlockKind { return KindWhile }
func (b *WhileBlock) String() string  { return fmt.Sprintf("while (%s)", exprString(b.Cond)) }

// DoWhileBlock is a post-tested loop. Cond is set once the trailing while
// has been parsed.
type DoWhileBlock struct {
	BlockBase
	Cond Expression
}

func (b *DoWhileBlock) Kind() BlockKind { return KindDoWhile }
func (b *DoWhileBlock) String() string  { return fmt.Sprintf("do while (%s)", exprString(b.Cond)) }

// ConditionalBlock is an if, else if or else. The chain hangs off Else;
// only the head is an instruction of the enclosing block. Cond is nil for
// a plain else.
type ConditionalBlock struct {
	BlockBase
	Cond Expression
	Else *ConditionalBlock
	// Chained is set on else and else-if links
	Chained bool
}

func (b *ConditionalBlock) Kind() BlockKind { return KindConditional }
func (b *ConditionalBlock) String() string {
	switch {
	case b.Chained && b.Cond == nil:
		return "else"
	case b.Chained:
		return fmt.Sprintf("else if (%s)", b.Cond)
	default:
		return fmt.Sprintf("if (%s)", exprString(b.Cond))
	}
}

// Tail returns the last link of the else chain
func (b *ConditionalBlock) Tail() *ConditionalBlock {
	c := b
	for c.Else != nil {
		c = c.Else
	}
	return c
}

// ClassMethodBlock is a method or constructor body
type ClassMethodBlock struct {
	BlockBase
	Class       string
	Name        string
	Params      []*Param
	Return      *types.Type
	Access      Access
	Static      bool
	Constructor bool
}

func (b *ClassMethodBlock) Kind() BlockKind { return KindClassMethod }
func (b *ClassMethodBlock) String() string {
	var prefix string
	if b.Access != AccessPublic {
		prefix = b.Access.String() + " "
	}
	if b.Static {
		prefix += "static "
	}
	return fmt.Sprintf("%s%s.%s(%s)%s", prefix, b.Class, b.Name, paramList(b.Params), returnSuffix(b.Return))
}

// IsBreakable reports whether break and continue may appear in b.
// Loops are breakable; conditionals inherit from their parent.
func IsBreakable(b Block) bool {
	for b != nil {
		switch b.(type) {
		case *ForBlock, *ForeachBlock, *ForeachKeyValueBlock, *WhileBlock, *DoWhileBlock:
			return true
		case *ConditionalBlock:
			b = b.Base().Parent
		default:
			return false
		}
	}
	return false
}

// IsFunctionBoundary reports whether variable lookups stop at b
func IsFunctionBoundary(b Block) bool {
	switch b.(type) {
	case *MainBlock, *FunctionBlock, *ClassMethodBlock:
		return true
	}
	return false
}
