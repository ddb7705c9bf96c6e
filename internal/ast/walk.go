package ast

// Visitor is called for each node reached by Walk. If the returned visitor
// w is not nil, Walk visits the children of node with w, then calls
// w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses a tree depth-first in source order
func Walk(v Visitor, node Node) {
	if node == nil {
		return
	}
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	// Blocks
	case *MainBlock:
		walkBody(v, &n.BlockBase)
	case *FunctionBlock:
		walkParams(v, n.Params)
		walkBody(v, &n.BlockBase)
	case *AnonymousFunctionBlock:
		walkParams(v, n.Params)
		walkBody(v, &n.BlockBase)
	case *ClassMethodBlock:
		walkParams(v, n.Params)
		walkBody(v, &n.BlockBase)
	case *ForBlock:
		walkExprs(v, n.Init, n.Cond, n.Incr)
		walkBody(v, &n.BlockBase)
	case *ForeachBlock:
		walkExprs(v, n.Iterable)
		walkBody(v, &n.BlockBase)
	case *ForeachKeyValueBlock:
		walkExprs(v, n.Iterable)
		walkBody(v, &n.BlockBase)
	case *WhileBlock:
		walkExprs(v, n.Cond)
		walkBody(v, &n.BlockBase)
	case *DoWhileBlock:
		walkBody(v, &n.BlockBase)
		walkExprs(v, n.Cond)
	case *ConditionalBlock:
		walkExprs(v, n.Cond)
		walkBody(v, &n.BlockBase)
		if n.Else != nil {
			Walk(v, n.Else)
		}

	// Instructions
	case *VarDecl:
		walkExprs(v, n.Value)
	case *GlobalDecl:
		walkExprs(v, n.Value)
	case *ExprStmt:
		walkExprs(v, n.X)
	case *Return:
		walkExprs(v, n.Value)
	case *ClassDecl:
		for _, list := range [][]*FieldDecl{n.StaticFields, n.Fields} {
			for _, f := range list {
				walkExprs(v, f.Value)
			}
		}
		for _, list := range [][]*ClassMethodBlock{n.Constructors, n.StaticMethods, n.Methods} {
			for _, m := range list {
				Walk(v, m)
			}
		}
	case *Break, *Continue, *Blank, *Include:

	// Expressions
	case *Unary:
		walkExprs(v, n.Operand)
	case *Binary:
		walkExprs(v, n.Left, n.Right)
	case *Ternary:
		walkExprs(v, n.Cond, n.Then, n.Else)
	case *Call:
		walkExprs(v, n.Callee)
		walkExprs(v, n.Args...)
	case *Member:
		walkExprs(v, n.Object)
	case *Index:
		walkExprs(v, n.Object, n.Key, n.End, n.Stride)
	case *ArrayLit:
		for i, val := range n.Values {
			if i < len(n.Keys) {
				walkExprs(v, n.Keys[i])
			}
			walkExprs(v, val)
		}
	case *MapLit:
		for i := range n.Keys {
			walkExprs(v, n.Keys[i], n.Values[i])
		}
	case *SetLit:
		walkExprs(v, n.Values...)
	case *ObjectLit:
		walkExprs(v, n.Values...)
	case *IntervalLit:
		walkExprs(v, n.From, n.To, n.Step)
	case *FunctionLit:
		Walk(v, n.Block)
	case *Paren:
		walkExprs(v, n.Inner)
	case *IntegerLit, *BigIntegerLit, *RealLit, *StringLit, *BoolLit, *NullLit, *Variable, *TypeExpr:
	}

	v.Visit(nil)
}

func walkBody(v Visitor, b *BlockBase) {
	for _, in := range b.Body {
		Walk(v, in)
	}
}

func walkParams(v Visitor, params []*Param) {
	for _, p := range params {
		walkExprs(v, p.Default)
	}
}

func walkExprs(v Visitor, list ...Expression) {
	for _, e := range list {
		if e != nil {
			Walk(v, e)
		}
	}
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect calls f for each node in depth-first order, and f(nil) after the
// children of a node. Children are skipped when f returns false.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}
