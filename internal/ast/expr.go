package ast

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/leekwars/leekc/internal/position"
	"github.com/leekwars/leekc/internal/types"
)

func exprString(e Expression) string {
	if e == nil {
		return ""
	}
	return e.String()
}

func exprList(list []Expression) string {
	parts := make([]string, len(list))
	for i, e := range list {
		parts[i] = exprString(e)
	}
	return strings.Join(parts, ", ")
}

// IntegerLit is a 64-bit integer literal
type IntegerLit struct {
	Span  position.Span
	Value int64
}

func (l *IntegerLit) GetSpan() position.Span { return l.Span }
func (l *IntegerLit) expressionNode()        {}
func (l *IntegerLit) String() string         { return strconv.FormatInt(l.Value, 10) }

// BigIntegerLit is an arbitrary precision integer literal
type BigIntegerLit struct {
	Span  position.Span
	Value *big.Int
}

func (l *BigIntegerLit) GetSpan() position.Span { return l.Span }
func (l *BigIntegerLit) expressionNode()        {}
func (l *BigIntegerLit) String() string         { return l.Value.String() + "L" }

// RealLit is a floating point literal, including ∞ and π
type RealLit struct {
	Span  position.Span
	Value float64
}

func (l *RealLit) GetSpan() position.Span { return l.Span }
func (l *RealLit) expressionNode()        {}
func (l *RealLit) String() string {
	switch {
	case math.IsInf(l.Value, 1):
		return "∞"
	case l.Value == math.Pi:
		return "π"
	}
	s := strconv.FormatFloat(l.Value, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

// StringLit is a string literal. Raw keeps the quotes and escapes.
type StringLit struct {
	Span position.Span
	Raw  string
}

func (l *StringLit) GetSpan() position.Span { return l.Span }
func (l *StringLit) expressionNode()        {}
func (l *StringLit) String() string         { return l.Raw }

// BoolLit is true or false
type BoolLit struct {
	Span  position.Span
	Value bool
}

func (l *BoolLit) GetSpan() position.Span { return l.Span }
func (l *BoolLit) expressionNode()        {}
func (l *BoolLit) String() string         { return strconv.FormatBool(l.Value) }

// NullLit is null. It also stands in for expressions that failed to parse.
type NullLit struct {
	Span position.Span
}

func (l *NullLit) GetSpan() position.Span { return l.Span }
func (l *NullLit) expressionNode()        {}
func (l *NullLit) String() string         { return "null" }

// VarKind tells how a variable reference resolves
type VarKind int

const (
	VarLocal VarKind = iota
	VarGlobal
	VarFunction
	VarClass
	VarSuper
	VarThis
	// VarClassValue is the `class` keyword used as a value
	VarClassValue
)

var varKindNames = [...]string{
	VarLocal:      "local",
	VarGlobal:     "global",
	VarFunction:   "function",
	VarClass:      "class",
	VarSuper:      "super",
	VarThis:       "this",
	VarClassValue: "class value",
}

func (k VarKind) String() string {
	if int(k) < len(varKindNames) {
		return varKindNames[k]
	}
	return "unknown"
}

// Variable is a name reference
type Variable struct {
	Span position.Span
	Name string
	Kind VarKind
}

func (v *Variable) GetSpan() position.Span { return v.Span }
func (v *Variable) expressionNode()        {}
func (v *Variable) String() string         { return v.Name }

// Unary applies a prefix or postfix operator
type Unary struct {
	Span    position.Span
	Op      Operator
	Operand Expression
}

func (u *Unary) GetSpan() position.Span { return u.Span }
func (u *Unary) expressionNode()        {}
func (u *Unary) String() string {
	if u.Op.IsPostfix() {
		return exprString(u.Operand) + u.Op.Symbol()
	}
	if u.Op == OpNew {
		return "new " + exprString(u.Operand)
	}
	return u.Op.Symbol() + exprString(u.Operand)
}

// Binary applies a binary or assignment operator
type Binary struct {
	Span  position.Span
	Op    Operator
	Left  Expression
	Right Expression
}

func (b *Binary) GetSpan() position.Span { return b.Span }
func (b *Binary) expressionNode()        {}
func (b *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", exprString(b.Left), b.Op.Symbol(), exprString(b.Right))
}

// Ternary is cond ? then : else
type Ternary struct {
	Span position.Span
	Cond Expression
	Then Expression
	Else Expression
}

func (t *Ternary) GetSpan() position.Span { return t.Span }
func (t *Ternary) expressionNode()        {}
func (t *Ternary) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", exprString(t.Cond), exprString(t.Then), exprString(t.Else))
}

// Call is a function or method invocation
type Call struct {
	Span   position.Span
	Callee Expression
	Args   []Expression
}

func (c *Call) GetSpan() position.Span { return c.Span }
func (c *Call) expressionNode()        {}
func (c *Call) String() string         { return fmt.Sprintf("%s(%s)", exprString(c.Callee), exprList(c.Args)) }

// Member is object.name
type Member struct {
	Span   position.Span
	Object Expression
	Name   string
}

func (m *Member) GetSpan() position.Span { return m.Span }
func (m *Member) expressionNode()        {}
func (m *Member) String() string         { return exprString(m.Object) + "." + m.Name }

// Index is object[key] or a slice object[start:end:stride]
type Index struct {
	Span   position.Span
	Object Expression
	Key    Expression
	// Slice is set when a colon was written; Key is then the start
	Slice  bool
	End    Expression
	Stride Expression
}

func (x *Index) GetSpan() position.Span { return x.Span }
func (x *Index) expressionNode()        {}
func (x *Index) String() string {
	if !x.Slice {
		return fmt.Sprintf("%s[%s]", exprString(x.Object), exprString(x.Key))
	}
	s := fmt.Sprintf("%s[%s:%s", exprString(x.Object), exprString(x.Key), exprString(x.End))
	if x.Stride != nil {
		s += ":" + x.Stride.String()
	}
	return s + "]"
}

// ArrayLit is [a, b]. Legacy arrays are the pre-v4 associative arrays;
// Keys is set for their keyed form.
type ArrayLit struct {
	Span   position.Span
	Values []Expression
	Keys   []Expression
	Legacy bool
}

func (a *ArrayLit) GetSpan() position.Span { return a.Span }
func (a *ArrayLit) expressionNode()        {}
func (a *ArrayLit) String() string {
	if a.Keys == nil {
		if len(a.Values) == 0 && a.Legacy {
			return "[]"
		}
		return "[" + exprList(a.Values) + "]"
	}
	if len(a.Keys) == 0 {
		return "[:]"
	}
	return "[" + pairList(a.Keys, a.Values) + "]"
}

func pairList(keys, values []Expression) string {
	parts := make([]string, len(keys))
	for i := range keys {
		parts[i] = exprString(keys[i]) + ": " + exprString(values[i])
	}
	return strings.Join(parts, ", ")
}

// MapLit is [k: v] from version 4
type MapLit struct {
	Span   position.Span
	Keys   []Expression
	Values []Expression
}

func (m *MapLit) GetSpan() position.Span { return m.Span }
func (m *MapLit) expressionNode()        {}
func (m *MapLit) String() string {
	if len(m.Keys) == 0 {
		return "[:]"
	}
	return "[" + pairList(m.Keys, m.Values) + "]"
}

// SetLit is <a, b>
type SetLit struct {
	Span   position.Span
	Values []Expression
}

func (s *SetLit) GetSpan() position.Span { return s.Span }
func (s *SetLit) expressionNode()        {}
func (s *SetLit) String() string         { return "<" + exprList(s.Values) + ">" }

// ObjectLit is {key: value}
type ObjectLit struct {
	Span   position.Span
	Keys   []string
	Values []Expression
}

func (o *ObjectLit) GetSpan() position.Span { return o.Span }
func (o *ObjectLit) expressionNode()        {}
func (o *ObjectLit) String() string {
	parts := make([]string, len(o.Keys))
	for i := range o.Keys {
		parts[i] = o.Keys[i] + ": " + exprString(o.Values[i])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// IntervalLit is [from..to] with either bound optional. An opening ']'
// or a closing '[' excludes that bound.
type IntervalLit struct {
	Span      position.Span
	From      Expression
	To        Expression
	Step      Expression
	OpenStart bool
	OpenEnd   bool
}

func (i *IntervalLit) GetSpan() position.Span { return i.Span }
func (i *IntervalLit) expressionNode()        {}
func (i *IntervalLit) String() string {
	var b strings.Builder
	if i.OpenStart {
		b.WriteString("]")
	} else {
		b.WriteString("[")
	}
	b.WriteString(exprString(i.From))
	b.WriteString("..")
	b.WriteString(exprString(i.To))
	if i.Step != nil {
		b.WriteString("::")
		b.WriteString(i.Step.String())
	}
	if i.OpenEnd {
		b.WriteString("[")
	} else {
		b.WriteString("]")
	}
	return b.String()
}

// FunctionLit wraps an anonymous function used as a value
type FunctionLit struct {
	Block *AnonymousFunctionBlock
}

func (f *FunctionLit) GetSpan() position.Span { return f.Block.Span }
func (f *FunctionLit) expressionNode()        {}
func (f *FunctionLit) String() string         { return f.Block.String() }

// Paren is a parenthesized expression
type Paren struct {
	Span  position.Span
	Inner Expression
}

func (p *Paren) GetSpan() position.Span { return p.Span }
func (p *Paren) expressionNode()        {}
func (p *Paren) String() string         { return "(" + exprString(p.Inner) + ")" }

// TypeExpr is the type operand of `as`
type TypeExpr struct {
	Span position.Span
	Type *types.Type
}

func (t *TypeExpr) GetSpan() position.Span { return t.Span }
func (t *TypeExpr) expressionNode()        {}
func (t *TypeExpr) String() string         { return t.Type.String() }

// IsAssignable reports whether e may appear on the left of an assignment
func IsAssignable(e Expression) bool {
	switch x := e.(type) {
	case *Variable:
		return x.Kind != VarSuper && x.Kind != VarThis && x.Kind != VarClassValue
	case *Index:
		return !x.Slice
	case *Member:
		return true
	case *Paren:
		return IsAssignable(x.Inner)
	}
	return false
}
