package parser

import (
	"math"
	"strings"

	"github.com/leekwars/leekc/internal/ast"
	cerrors "github.com/leekwars/leekc/internal/errors"
	"github.com/leekwars/leekc/internal/lexer"
	"github.com/leekwars/leekc/internal/position"
	"github.com/leekwars/leekc/internal/version"
)

// exprFlag tells readExpression where the expression sits
type exprFlag int

const (
	// inList: inside a comma separated list, so `x,` does not start a lambda
	inList exprFlag = 1 << iota
	// inSet: `>` closes the set instead of comparing
	inSet
	// inInterval: `[` closes the interval instead of indexing
	inInterval
)

type opToken struct {
	op  ast.Operator
	tok lexer.Token
}

// exprBuilder collects operands and operators in source order. Postfix
// forms (calls, indexes, members, `++`) bind to the last operand as they
// are read; binary precedence is resolved once the expression ends.
type exprBuilder struct {
	terms     []ast.Expression
	prefixes  [][]opToken
	ops       []opToken
	pending   []opToken
	ternaries int
	invalid   ast.Expression
	next      int
}

func (e *exprBuilder) needOperator() bool {
	return len(e.terms) > len(e.ops)
}

func (e *exprBuilder) operand(x ast.Expression) {
	e.terms = append(e.terms, x)
	e.prefixes = append(e.prefixes, e.pending)
	e.pending = nil
}

func (e *exprBuilder) prefix(op ast.Operator, tok lexer.Token) {
	e.pending = append(e.pending, opToken{op, tok})
}

func (e *exprBuilder) binary(op ast.Operator, tok lexer.Token) {
	e.ops = append(e.ops, opToken{op, tok})
}

func (e *exprBuilder) last() ast.Expression {
	return e.terms[len(e.terms)-1]
}

func (e *exprBuilder) replaceLast(x ast.Expression) {
	e.terms[len(e.terms)-1] = x
}

func (e *exprBuilder) postfix(op ast.Operator, tok lexer.Token) {
	x := e.last()
	e.check(op, x)
	e.replaceLast(&ast.Unary{Span: cover(x.GetSpan(), tok.Span), Op: op, Operand: x})
}

// check remembers the first operand a mutating operator cannot write
func (e *exprBuilder) check(op ast.Operator, target ast.Expression) {
	if op.Mutates() && !ast.IsAssignable(target) && e.invalid == nil {
		e.invalid = target
	}
}

// build resolves precedence. It returns nil when an operand is missing.
func (e *exprBuilder) build() ast.Expression {
	if len(e.terms) == 0 || len(e.pending) > 0 || len(e.ops) >= len(e.terms) {
		return nil
	}
	for i, x := range e.terms {
		prefixes := e.prefixes[i]
		for j := len(prefixes) - 1; j >= 0; j-- {
			pre := prefixes[j]
			e.check(pre.op, x)
			x = &ast.Unary{Span: cover(pre.tok.Span, x.GetSpan()), Op: pre.op, Operand: x}
		}
		e.terms[i] = x
	}
	e.next = 0
	x := e.climb(0)
	if e.next-1 < len(e.ops) {
		return nil
	}
	return x
}

// climb is precedence climbing over the collected terms. The ternary
// branches are read at assignment level so `a ? b = c : d` nests.
func (e *exprBuilder) climb(min int) ast.Expression {
	left := e.terms[e.next]
	e.next++
	for e.next-1 < len(e.ops) {
		o := e.ops[e.next-1]
		prec := o.op.Precedence()
		if o.op == ast.OpColon || prec < min {
			return left
		}
		if o.op == ast.OpTernary {
			then := e.climb(ast.PrecAssignment)
			if then == nil || e.next-1 >= len(e.ops) || e.ops[e.next-1].op != ast.OpColon {
				return nil
			}
			otherwise := e.climb(ast.PrecTernary)
			if otherwise == nil {
				return nil
			}
			left = &ast.Ternary{Span: cover(left.GetSpan(), otherwise.GetSpan()), Cond: left, Then: then, Else: otherwise}
			continue
		}
		next := prec + 1
		if o.op.RightAssociative() {
			next = prec
		}
		right := e.climb(next)
		if right == nil {
			return nil
		}
		if o.op.IsAssignment() {
			e.check(o.op, left)
		}
		left = &ast.Binary{Span: cover(left.GetSpan(), right.GetSpan()), Op: o.op, Left: left, Right: right}
	}
	return left
}

func cover(from, to position.Span) position.Span {
	return position.Span{Start: from.Start, End: to.End}
}

// readExpression reads one expression and leaves the cursor on the first
// token that cannot continue it. A malformed expression is reported and
// replaced by null; only unrecoverable syntax returns an error.
func (p *Parser) readExpression(flags exprFlag) (ast.Expression, error) {
	e := &exprBuilder{}
	fn, err := p.lambda(flags)
	if err != nil {
		return nil, err
	}
	if fn != nil {
		e.operand(fn)
	}

	for p.more() {
		if err := p.interrupted(); err != nil {
			return nil, err
		}
		switch p.cur().Type {
		case lexer.TokenRParen, lexer.TokenRBrace, lexer.TokenSemicolon:
			return p.finishExpression(e)
		}
		if !e.needOperator() {
			if err := p.operand(e); err != nil {
				return nil, err
			}
			continue
		}
		stop, err := p.operatorPosition(e, flags)
		if err != nil {
			return nil, err
		}
		if stop {
			break
		}
	}
	return p.finishExpression(e)
}

func (p *Parser) finishExpression(e *exprBuilder) (ast.Expression, error) {
	if len(e.terms) == 0 && len(e.pending) == 1 && p.s.lang.Has(version.NotAsVariableName) {
		if tok := e.pending[0].tok; tok.Type == lexer.TokenNot {
			return &ast.Variable{Span: tok.Span, Name: tok.Literal, Kind: p.lookup(tok.Literal)}, nil
		}
	}
	x := e.build()
	if x == nil {
		return p.invalidExpression(cerrors.UncompleteExpression), nil
	}
	if e.invalid != nil {
		return p.invalidExpression(cerrors.CantAssignValue, e.invalid.String()), nil
	}
	return x, nil
}

// invalidExpression reports code and stands in a null literal for the
// expression, consuming the offending token unless it closes something
func (p *Parser) invalidExpression(code cerrors.Code, params ...string) ast.Expression {
	tok := p.cur()
	p.errorAt(code, tok, params...)
	switch tok.Type {
	case lexer.TokenRParen, lexer.TokenRBracket, lexer.TokenRBrace, lexer.TokenEOF:
	default:
		p.nextToken()
	}
	return &ast.NullLit{Span: tok.Span}
}

// operatorPosition handles the token following a complete operand. stop
// is set when the token cannot continue the expression.
func (p *Parser) operatorPosition(e *exprBuilder, flags exprFlag) (stop bool, err error) {
	tok := p.cur()
	switch {
	case tok.Type == lexer.TokenLBracket && flags&inInterval == 0:
		return false, p.index(e)
	case tok.Type == lexer.TokenLParen:
		return false, p.call(e)
	case tok.Type == lexer.TokenDot:
		p.member(e)
		return false, nil
	case tok.Type == lexer.TokenIn:
		p.nextToken()
		e.binary(ast.OpIn, tok)
		return false, nil
	case tok.Type == lexer.TokenAs:
		p.nextToken()
		start := p.cur()
		if t, _ := p.eatType(false, true); t != nil {
			e.binary(ast.OpAs, tok)
			e.operand(&ast.TypeExpr{Span: p.spanFrom(start), Type: t})
		}
		return false, nil
	case tok.Type == lexer.TokenOperator && !(tok.Literal == ">" && flags&inSet != 0):
		return p.operator(e), nil
	}
	return true, nil
}

func (p *Parser) operator(e *exprBuilder) (stop bool) {
	tok := p.cur()
	symbol := strings.ToLower(tok.Literal)
	switch symbol {
	case "is":
		p.nextToken()
		if p.currentTokenIs(lexer.TokenNot) {
			e.binary(ast.OpNotEquals, p.eat())
		} else {
			e.binary(ast.OpEquals, tok)
		}
		return false
	case ">":
		// the lexer never joins chevrons, so shifts arrive split
		op := ast.OpGreater
		if p.peekToken(1).Is(">") {
			p.nextToken()
			op = ast.OpShiftRight
			if p.peekToken(1).Is(">=") {
				p.nextToken()
				op = ast.OpShiftUnsignedRightAssign
			} else if p.peekToken(1).Is(">") {
				p.nextToken()
				op = ast.OpShiftUnsignedRight
			}
		} else if p.peekToken(1).Is(">=") {
			p.nextToken()
			op = ast.OpShiftRightAssign
		}
		p.nextToken()
		e.binary(op, tok)
		return false
	case "!":
		if !p.s.lang.Has(version.NonNullAssertion) {
			return true
		}
		p.nextToken()
		e.postfix(ast.OpNonNull, tok)
		return false
	case "++":
		p.nextToken()
		e.postfix(ast.OpPostIncrement, tok)
		return false
	case "--":
		p.nextToken()
		e.postfix(ast.OpPostDecrement, tok)
		return false
	case ":":
		if e.ternaries == 0 {
			return true
		}
		e.ternaries--
	case "?":
		e.ternaries++
	}
	if ast.IsPrefixOnly(symbol) {
		return true
	}
	op, ok := ast.BinaryOperator(symbol)
	if !ok {
		return true
	}
	p.nextToken()
	e.binary(op, tok)
	return false
}

// index reads `[key]` or, with slices, `[start:end:stride]`
func (p *Parser) index(e *exprBuilder) error {
	p.nextToken()
	ix := &ast.Index{Object: e.last()}
	slices := p.s.lang.Has(version.Slices)
	switch {
	case p.currentTokenIs(lexer.TokenRBracket):
		p.errorAt(cerrors.ValueExpected, p.cur())
	case slices && p.currentIs(":"):
		if err := p.slice(ix); err != nil {
			return err
		}
	case !p.atCloser() && !p.currentTokenIs(lexer.TokenComma):
		key, err := p.readExpression(0)
		if err != nil {
			return err
		}
		ix.Key = key
		if slices && p.currentIs(":") {
			if err := p.slice(ix); err != nil {
				return err
			}
		}
	}
	if !p.currentTokenIs(lexer.TokenRBracket) {
		return fatalAt(cerrors.ClosingSquareBracketExpected, p.cur())
	}
	ix.Span = cover(ix.Object.GetSpan(), p.eat().Span)
	e.replaceLast(ix)
	return nil
}

// slice reads `:end:stride` with the cursor on the first colon
func (p *Parser) slice(ix *ast.Index) error {
	ix.Slice = true
	p.nextToken()
	var err error
	if !p.currentIs(":") {
		if p.currentTokenIs(lexer.TokenRBracket) {
			return nil
		}
		if ix.End, err = p.readExpression(0); err != nil {
			return err
		}
		if !p.currentIs(":") {
			return nil
		}
	}
	p.nextToken()
	if !p.currentTokenIs(lexer.TokenRBracket) {
		ix.Stride, err = p.readExpression(0)
	}
	return err
}

func (p *Parser) call(e *exprBuilder) error {
	p.nextToken()
	c := &ast.Call{Callee: e.last()}
	for !p.endOfList(lexer.TokenRParen) {
		if err := p.interrupted(); err != nil {
			return err
		}
		arg, err := p.readExpression(inList)
		if err != nil {
			return err
		}
		c.Args = append(c.Args, arg)
		if p.currentTokenIs(lexer.TokenComma) {
			p.nextToken()
		}
	}
	if p.currentTokenIs(lexer.TokenRParen) {
		c.Span = cover(c.Callee.GetSpan(), p.eat().Span)
	} else {
		p.errorAt(cerrors.ParenthesisExpectedAfterParams, p.cur())
		c.Span = cover(c.Callee.GetSpan(), p.tokens.Previous().Span)
	}
	e.replaceLast(c)
	return nil
}

// endOfList reports whether a delimited list stops here: on its closer,
// another closing delimiter, a statement end or EOF
func (p *Parser) endOfList(closer lexer.TokenType) bool {
	return p.currentTokenIs(closer) || p.atCloser() || p.currentTokenIs(lexer.TokenSemicolon)
}

func (p *Parser) member(e *exprBuilder) {
	dot := p.eat()
	object := e.last()
	m := &ast.Member{Object: object, Span: cover(object.GetSpan(), dot.Span)}
	switch name := p.cur(); name.Type {
	case lexer.TokenIdentifier, lexer.TokenClass, lexer.TokenSuper:
		p.nextToken()
		m.Name = name.Literal
		m.Span = cover(object.GetSpan(), name.Span)
	default:
		p.errorAt(cerrors.ValueExpected, dot)
	}
	e.replaceLast(m)
}

// operand reads the token in operand position. It always consumes at
// least one token.
func (p *Parser) operand(e *exprBuilder) error {
	tok := p.cur()
	switch tok.Type {
	case lexer.TokenNumber:
		p.nextToken()
		e.operand(p.number(tok))
	case lexer.TokenLemniscate:
		p.nextToken()
		e.operand(&ast.RealLit{Span: tok.Span, Value: math.Inf(1)})
	case lexer.TokenPi:
		p.nextToken()
		e.operand(&ast.RealLit{Span: tok.Span, Value: math.Pi})
	case lexer.TokenString:
		p.nextToken()
		e.operand(&ast.StringLit{Span: tok.Span, Raw: tok.Literal})
	case lexer.TokenLBracket:
		x, err := p.bracketLiteral()
		if err != nil {
			return err
		}
		e.operand(x)
	case lexer.TokenRBracket:
		x, err := p.openStartInterval()
		if err != nil {
			return err
		}
		e.operand(x)
	case lexer.TokenLBrace:
		if !p.s.lang.Has(version.Classes) {
			p.errorAt(cerrors.ValueExpected, tok)
			p.nextToken()
			return nil
		}
		x, err := p.objectLiteral()
		if err != nil {
			return err
		}
		e.operand(x)
	case lexer.TokenClass:
		p.nextToken()
		e.operand(&ast.Variable{Span: tok.Span, Name: tok.Literal, Kind: ast.VarClassValue})
	case lexer.TokenThis:
		p.nextToken()
		e.operand(&ast.Variable{Span: tok.Span, Name: tok.Literal, Kind: ast.VarThis})
	case lexer.TokenTrue, lexer.TokenFalse:
		p.nextToken()
		e.operand(&ast.BoolLit{Span: tok.Span, Value: tok.Type == lexer.TokenTrue})
	case lexer.TokenNull:
		p.nextToken()
		e.operand(&ast.NullLit{Span: tok.Span})
	case lexer.TokenFunction:
		x, err := p.anonymousFunction()
		if err != nil {
			return err
		}
		e.operand(x)
	case lexer.TokenNew:
		p.nextToken()
		if p.s.lang.Has(version.Classes) {
			e.prefix(ast.OpNew, tok)
		} else {
			e.operand(&ast.Variable{Span: tok.Span, Name: tok.Literal, Kind: p.lookup(tok.Literal)})
		}
	case lexer.TokenNot:
		p.nextToken()
		e.prefix(ast.OpNot, tok)
	case lexer.TokenSuper:
		p.nextToken()
		e.operand(p.super(tok))
	case lexer.TokenIdentifier:
		p.nextToken()
		e.operand(&ast.Variable{Span: tok.Span, Name: tok.Literal, Kind: p.lookup(tok.Literal)})
	case lexer.TokenLParen:
		x, err := p.parenthesized()
		if err != nil {
			return err
		}
		e.operand(x)
	case lexer.TokenOperator:
		if tok.Is("<") {
			x, err := p.setLiteral()
			if err != nil {
				return err
			}
			e.operand(x)
			return nil
		}
		p.nextToken()
		symbol := strings.ToLower(tok.Literal)
		if symbol == "is" {
			e.operand(&ast.Variable{Span: tok.Span, Name: tok.Literal, Kind: p.lookup(tok.Literal)})
			return nil
		}
		if op, ok := ast.PrefixOperator(symbol); ok {
			e.prefix(op, tok)
			return nil
		}
		p.errorAt(cerrors.OperatorUnexpected, tok, tok.Literal)
	default:
		p.errorAt(cerrors.ValueExpected, tok)
		p.nextToken()
	}
	return nil
}

func (p *Parser) super(tok lexer.Token) ast.Expression {
	if p.class == nil {
		p.errorAt(cerrors.KeywordMustBeInClass, tok, tok.Literal)
		return &ast.Variable{Span: tok.Span, Name: tok.Literal, Kind: ast.VarLocal}
	}
	if p.class.Parent == "" {
		p.errorAt(cerrors.SuperNotAvailableParent, tok, p.class.Name)
	}
	return &ast.Variable{Span: tok.Span, Name: tok.Literal, Kind: ast.VarSuper}
}

func (p *Parser) parenthesized() (ast.Expression, error) {
	open := p.eat()
	inner, err := p.readExpression(0)
	if err != nil {
		return nil, err
	}
	// end of input does not close the parenthesis either
	if !p.currentTokenIs(lexer.TokenRParen) {
		return nil, fatalAt(cerrors.ClosingParenthesisExpected, p.cur())
	}
	end := p.eat()
	return &ast.Paren{Span: spanTo(open, end), Inner: inner}, nil
}

// lambda recognizes the arrow function forms `x => e`, `(x, y) => e`,
// `integer x => e`, `() => e` and `x, y => e` at the start of an
// expression. It returns nil with the cursor untouched otherwise.
func (p *Parser) lambda(flags exprFlag) (ast.Expression, error) {
	m := p.speculate()
	var open lexer.Token
	paren := p.currentTokenIs(lexer.TokenLParen)
	if paren {
		open = p.eat()
	}
	first, _ := p.eatType(true, false)
	t1, t2, t3 := p.cur().Type, p.peekToken(1).Type, p.peekToken(2).Type
	ident := t1 == lexer.TokenIdentifier
	matched := t1 == lexer.TokenArrow ||
		((flags&inList == 0 || paren) && ident && t2 == lexer.TokenComma) ||
		(ident && t2 == lexer.TokenArrow) ||
		(paren && ident && t2 == lexer.TokenRParen && t3 == lexer.TokenArrow) ||
		(paren && t1 == lexer.TokenRParen && t2 == lexer.TokenArrow)
	if !matched {
		p.rollback(m)
		return nil, nil
	}
	p.commit(m)

	tok := open
	if !paren {
		tok = p.cur()
		if t1 != lexer.TokenArrow {
			tok = p.peekToken(1)
		}
	}
	b := &ast.AnonymousFunctionBlock{Arrow: true, ID: len(p.s.program.AnonymousFunctions)}
	p.s.program.AnonymousFunctions = append(p.s.program.AnonymousFunctions, b)
	p.s.program.Stats.Lambdas++
	restore := p.enter(b, tok)
	defer restore()

	for !p.currentTokenIs(lexer.TokenRParen) && !p.currentTokenIs(lexer.TokenArrow) && p.more() {
		if err := p.interrupted(); err != nil {
			return nil, err
		}
		if !p.currentTokenIs(lexer.TokenIdentifier) {
			p.errorAt(cerrors.ParameterNameExpected, p.cur())
			break
		}
		t := first
		if len(b.Params) > 0 || t == nil {
			t, _ = p.eatType(false, false)
		}
		name := p.eat()
		if p.currentTokenIs(lexer.TokenComma) {
			p.nextToken()
		}
		b.Params = append(b.Params, &ast.Param{Name: name.Literal, Type: t, Span: name.Span})
		p.declareLocal(b, DeclParameter, name.Literal, t, name.Span)
	}

	surrounded := false
	if paren {
		if p.currentTokenIs(lexer.TokenArrow) {
			surrounded = true
		} else if p.currentTokenIs(lexer.TokenRParen) {
			p.nextToken()
		} else {
			p.errorAt(cerrors.ParenthesisExpectedAfterParams, p.cur())
		}
	}
	if p.currentTokenIs(lexer.TokenArrow) {
		p.nextToken()
	} else {
		p.errorAt(cerrors.ArrowExpected, p.cur())
	}

	rm := p.speculate()
	if ret, _ := p.eatType(false, false); ret != nil && !p.startsLambdaBody() {
		p.rollback(rm)
	} else {
		p.commit(rm)
		b.Return = ret
	}

	if p.currentTokenIs(lexer.TokenLBrace) {
		p.nextToken()
		b.Braced = true
		if err := p.body(b); err != nil {
			return nil, err
		}
		p.closeCurrent(p.eat().Span)
	} else {
		x, err := p.readExpression(0)
		if err != nil {
			return nil, err
		}
		b.Expr = x
		p.add(&ast.Return{Span: x.GetSpan(), Value: x})
		p.closeCurrent(p.tokens.Previous().Span)
	}

	if surrounded {
		if p.currentTokenIs(lexer.TokenRParen) {
			p.nextToken()
		} else {
			p.errorAt(cerrors.ParenthesisExpectedAfterParams, p.cur())
		}
	}
	return &ast.FunctionLit{Block: b}, nil
}

// startsLambdaBody reports whether the token after a return type can begin
// the body. `x => Foo.bar` reads Foo as a value, not a type.
func (p *Parser) startsLambdaBody() bool {
	switch p.cur().Type {
	case lexer.TokenDot, lexer.TokenLParen, lexer.TokenComma, lexer.TokenSemicolon,
		lexer.TokenRParen, lexer.TokenRBracket, lexer.TokenRBrace, lexer.TokenEOF:
		return false
	}
	return true
}
