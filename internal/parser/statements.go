package parser

import (
	"github.com/leekwars/leekc/internal/ast"
	cerrors "github.com/leekwars/leekc/internal/errors"
	"github.com/leekwars/leekc/internal/lexer"
	"github.com/leekwars/leekc/internal/types"
	"github.com/leekwars/leekc/internal/version"
)

// statement dispatches on the token starting a statement
func (p *Parser) statement() error {
	tok := p.cur()
	switch tok.Type {
	case lexer.TokenSemicolon:
		if base := p.current.Base(); !base.Braced && len(base.Body) == 0 {
			p.add(&ast.Blank{Span: tok.Span})
		}
		p.nextToken()
		return nil
	case lexer.TokenRBrace:
		return p.closeBrace()
	case lexer.TokenVar:
		p.nextToken()
		return p.variableDeclaration(nil, tok)
	case lexer.TokenGlobal:
		return p.globalDeclaration()
	case lexer.TokenReturn:
		return p.returnStatement()
	case lexer.TokenBreak, lexer.TokenContinue:
		p.jumpStatement()
		return nil
	case lexer.TokenFor:
		return p.forStatement()
	case lexer.TokenWhile:
		return p.whileStatement()
	case lexer.TokenIf:
		return p.ifStatement()
	case lexer.TokenElse:
		return p.elseStatement()
	case lexer.TokenDo:
		p.nextToken()
		b := &ast.DoWhileBlock{}
		p.openBlock(b, tok, true)
		p.blockStart(b)
		return nil
	case lexer.TokenInclude:
		return p.includeStatement()
	case lexer.TokenClass:
		if p.s.lang.Has(version.Classes) {
			return p.classDeclaration()
		}
	case lexer.TokenFunction:
		if p.isFunctionDeclaration() {
			return p.functionDeclaration()
		}
	}
	return p.fallbackStatement()
}

func (p *Parser) isMain() bool {
	_, ok := p.current.(*ast.MainBlock)
	return ok
}

// variableDeclaration parses `name [= value], ...` after var or a type
func (p *Parser) variableDeclaration(t *types.Type, start lexer.Token) error {
	for first := true; ; first = false {
		if err := p.interrupted(); err != nil {
			return err
		}
		name := p.cur()
		if name.Type != lexer.TokenIdentifier {
			return fatalAt(cerrors.VarNameExpected, name)
		}
		p.nextToken()
		if p.s.reserved(name.Literal) {
			p.errorAt(cerrors.VariableNameUnavailable, name, name.Literal)
		}
		if !first {
			start = name
		}
		decl := &ast.VarDecl{Name: name.Literal, Type: t, Scope: p.current.Base().Scope}
		// declared before its value so a lambda can call itself
		p.declareLocal(p.current, DeclVariable, name.Literal, t, name.Span)
		if p.currentIs("=") {
			p.nextToken()
			var flags exprFlag = inList
			if first && p.arrowAhead() {
				flags = 0
			}
			value, err := p.readExpression(flags)
			if err != nil {
				return err
			}
			decl.Value = value
		}
		decl.Span = p.spanFrom(start)
		p.add(decl)
		if !p.currentTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
	}
	p.skipSemicolon()
	return nil
}

// arrowAhead reports whether a lambda arrow appears before the end of the
// statement, so `a, b => a + b` is read as one value
func (p *Parser) arrowAhead() bool {
	for i := 0; ; i++ {
		switch p.peekToken(i).Type {
		case lexer.TokenArrow:
			return true
		case lexer.TokenSemicolon, lexer.TokenRParen, lexer.TokenEOF:
			return false
		}
	}
}

func (p *Parser) globalDeclaration() error {
	tok := p.eat()
	if !p.isMain() {
		return fatalAt(cerrors.GlobalOnlyInMainBlock, tok)
	}
	m := p.speculate()
	t, _ := p.eatType(false, false)
	if t != nil && p.currentTokenIs(lexer.TokenIdentifier) {
		p.commit(m)
	} else {
		p.rollback(m)
		t = nil
	}

	for first := true; ; first = false {
		if err := p.interrupted(); err != nil {
			return err
		}
		name := p.cur()
		if name.Type != lexer.TokenIdentifier {
			if first {
				return fatalAt(cerrors.VarNameExpectedAfterGlobal, name)
			}
			return fatalAt(cerrors.VarNameExpected, name)
		}
		p.nextToken()
		decl := &ast.GlobalDecl{Name: name.Literal, Type: t}
		if p.currentIs("=") {
			p.nextToken()
			value, err := p.readExpression(inList)
			if err != nil {
				return err
			}
			decl.Value = value
		}
		decl.Span = p.spanFrom(name)
		p.s.program.Globals = append(p.s.program.Globals, decl)
		p.add(decl)
		p.s.sink.AddDeclaration(&Declaration{Kind: DeclGlobal, Name: name.Literal, Type: t, Span: name.Span, Scope: p.s.program.Main.Scope})
		if !p.currentTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
	}
	p.skipSemicolon()
	return nil
}

func (p *Parser) returnStatement() error {
	tok := p.eat()
	ret := &ast.Return{}
	if p.currentIs("?") {
		p.nextToken()
		ret.Optional = true
	}
	if !p.currentTokenIs(lexer.TokenSemicolon) && !p.currentTokenIs(lexer.TokenRBrace) && p.more() {
		value, err := p.readExpression(0)
		if err != nil {
			return err
		}
		ret.Value = value
	}
	ret.Span = p.spanFrom(tok)
	p.skipSemicolon()
	p.add(ret)
	return nil
}

// jumpStatement parses break and continue
func (p *Parser) jumpStatement() {
	tok := p.eat()
	breakable := ast.IsBreakable(p.current)
	p.skipSemicolon()
	if tok.Type == lexer.TokenBreak {
		if !breakable {
			p.errorAt(cerrors.BreakOutOfLoop, tok)
		}
		p.add(&ast.Break{Span: tok.Span})
		return
	}
	if !breakable {
		p.errorAt(cerrors.ContinueOutOfLoop, tok)
	}
	p.add(&ast.Continue{Span: tok.Span})
}

// loopVar parses `[type|var] [@]name` in a for header
func (p *Parser) loopVar() (*ast.LoopVar, error) {
	v := &ast.LoopVar{}
	v.Type, _ = p.eatType(true, false)
	if p.currentTokenIs(lexer.TokenVar) {
		p.nextToken()
		v.Declared = true
	} else if v.Type != nil {
		v.Declared = true
	}
	if p.currentIs("@") {
		ref := p.eat()
		v.Reference = true
		if p.s.lang.Has(version.ReferenceWarning) {
			p.warnAt(cerrors.ReferenceDeprecated, ref)
		}
	}
	name := p.cur()
	if name.Type != lexer.TokenIdentifier {
		return nil, fatalAt(cerrors.VariableNameExpected, name)
	}
	p.nextToken()
	v.Name, v.Span = name.Literal, name.Span
	return v, nil
}

func (p *Parser) declareLoopVar(b ast.Block, v *ast.LoopVar) {
	if v.Declared {
		p.declareLocal(b, DeclVariable, v.Name, v.Type, v.Span)
	}
}

// forStatement parses the three for forms: key/value iteration, value
// iteration and the counted loop
func (p *Parser) forStatement() error {
	tok := p.eat()
	if err := p.expect(lexer.TokenLParen, cerrors.OpeningParenthesisExpected); err != nil {
		return err
	}
	first, err := p.loopVar()
	if err != nil {
		return err
	}

	var b ast.Block
	switch {
	case p.currentIs(":"):
		p.nextToken()
		value, err := p.loopVar()
		if err != nil {
			return err
		}
		if !p.currentTokenIs(lexer.TokenIn) {
			return fatalAt(cerrors.KeywordInExpected, p.cur())
		}
		p.nextToken()
		kv := &ast.ForeachKeyValueBlock{Key: first, Value: value}
		p.openBlock(kv, tok, true)
		if kv.Iterable, err = p.readExpression(0); err != nil {
			return err
		}
		p.declareLoopVar(kv, first)
		p.declareLoopVar(kv, value)
		b = kv

	case p.currentTokenIs(lexer.TokenIn):
		p.nextToken()
		each := &ast.ForeachBlock{Var: first}
		p.openBlock(each, tok, true)
		if each.Iterable, err = p.readExpression(0); err != nil {
			return err
		}
		p.declareLoopVar(each, first)
		b = each

	case p.currentIs("="):
		p.nextToken()
		loop := &ast.ForBlock{Var: first}
		p.openBlock(loop, tok, true)
		if loop.Init, err = p.readExpression(0); err != nil {
			return err
		}
		if err := p.expect(lexer.TokenSemicolon, cerrors.EndOfInstructionExpected); err != nil {
			return err
		}
		p.declareLoopVar(loop, first)
		if loop.Cond, err = p.readExpression(0); err != nil {
			return err
		}
		if err := p.expect(lexer.TokenSemicolon, cerrors.EndOfInstructionExpected); err != nil {
			return err
		}
		if loop.Incr, err = p.readExpression(0); err != nil {
			return err
		}
		if _, bare := loop.Incr.(*ast.Variable); bare {
			return fatalAt(cerrors.UncompleteExpression, p.cur())
		}
		b = loop

	default:
		return fatalAt(cerrors.KeywordUnexpected, p.cur())
	}

	if err := p.expect(lexer.TokenRParen, cerrors.ClosingParenthesisExpected); err != nil {
		return err
	}
	p.blockStart(b)
	return nil
}

func (p *Parser) whileStatement() error {
	tok := p.eat()
	cond, err := p.condition()
	if err != nil {
		return err
	}
	b := &ast.WhileBlock{Cond: cond}
	p.openBlock(b, tok, true)
	p.blockStart(b)
	return nil
}

func (p *Parser) ifStatement() error {
	tok := p.eat()
	cond, err := p.condition()
	if err != nil {
		return err
	}
	b := &ast.ConditionalBlock{Cond: cond}
	p.openBlock(b, tok, true)
	p.blockStart(b)
	return nil
}

// includeStatement splices the instructions of another unit into the main
// block. A unit is parsed once per session; its resolution failure was
// already reported by the first pass.
func (p *Parser) includeStatement() error {
	tok := p.eat()
	if !p.isMain() {
		return fatalAt(cerrors.IncludeOnlyInMainBlock, tok)
	}
	if err := p.expect(lexer.TokenLParen, cerrors.OpeningParenthesisExpected); err != nil {
		return err
	}
	nameTok := p.cur()
	if nameTok.Type != lexer.TokenString {
		return fatalAt(cerrors.AINameExpected, nameTok)
	}
	p.nextToken()
	inc := &ast.Include{Span: spanTo(tok, nameTok), Name: unquote(nameTok.Literal)}
	p.add(inc)

	if u, err := p.s.resolve(p.unit, inc.Name); err == nil {
		inc.Resolved = u.Path
		if !p.s.parsed[u.Path] {
			p.s.parsed[u.Path] = true
			p.s.program.Includes = append(p.s.program.Includes, u.Path)
			sub := p.s.newParser(u)
			sub.current = p.current
			p.s.logger.Debug("parsing include", "from", p.unit.Path, "unit", u.Path)
			if err := sub.secondPass(); err != nil {
				return err
			}
		}
	}

	if err := p.expect(lexer.TokenRParen, cerrors.ClosingParenthesisExpected); err != nil {
		return err
	}
	p.skipSemicolon()
	return nil
}

// isFunctionDeclaration tells a named function from a Function type or an
// anonymous function expression
func (p *Parser) isFunctionDeclaration() bool {
	next := p.peekToken(1)
	if next.Is("<") || next.Type == lexer.TokenLParen {
		return false
	}
	if p.cur().Literal == "Function" && p.peekToken(2).Type != lexer.TokenLParen {
		return false
	}
	return true
}

// functionDeclaration parses a named function and its body
func (p *Parser) functionDeclaration() error {
	tok := p.eat()
	if !p.isMain() {
		p.errorAt(cerrors.FunctionOnlyInMainBlock, tok)
	}
	name := p.cur()
	if name.Type != lexer.TokenIdentifier {
		return fatalAt(cerrors.FunctionNameExpected, name)
	}
	p.nextToken()
	if err := p.expect(lexer.TokenLParen, cerrors.OpeningParenthesisExpected); err != nil {
		return err
	}

	b := &ast.FunctionBlock{Name: name.Literal}
	params, err := p.functionParams()
	if err != nil {
		return err
	}
	b.Params = params
	if p.currentTokenIs(lexer.TokenRParen) {
		p.nextToken()
	} else {
		p.errorAt(cerrors.ParenthesisExpectedAfterParams, p.cur())
	}
	if p.currentTokenIs(lexer.TokenArrow) {
		p.nextToken()
		b.Return, _ = p.eatType(false, true)
	}
	if !p.currentTokenIs(lexer.TokenLBrace) {
		return fatalAt(cerrors.OpeningCurlyBracketExpected, p.cur())
	}

	if !p.s.skipped[name.Span.Start] {
		p.s.program.Functions = append(p.s.program.Functions, b)
		p.s.program.Stats.Functions++
		p.s.sink.AddDeclaration(&Declaration{
			Kind: DeclFunction, Name: name.Literal, Span: name.Span,
			Scope: p.s.program.Main.Scope, Params: params, Return: b.Return,
		})
	}

	restore := p.enter(b, tok)
	defer restore()
	b.Braced = true
	p.nextToken()
	for _, param := range params {
		p.declareLocal(b, DeclParameter, param.Name, param.Type, param.Span)
	}
	if err := p.body(b); err != nil {
		return err
	}
	p.closeCurrent(p.eat().Span)
	return nil
}

// functionParams parses `[type] [@]name, ...` up to the closing parenthesis.
// A lone type word is taken as the name.
func (p *Parser) functionParams() ([]*ast.Param, error) {
	var params []*ast.Param
	for !p.currentTokenIs(lexer.TokenRParen) && p.more() {
		if err := p.interrupted(); err != nil {
			return nil, err
		}
		start := p.cur()
		param := &ast.Param{}
		var simple bool
		param.Type, simple = p.eatType(false, false)
		if p.currentIs("@") {
			ref := p.eat()
			param.Reference = true
			if p.s.lang.Has(version.ReferenceWarning) {
				p.warnAt(cerrors.ReferenceDeprecated, ref)
			}
		}
		switch name := p.cur(); {
		case name.Type == lexer.TokenIdentifier:
			p.nextToken()
			param.Name, param.Span = name.Literal, name.Span
		case simple:
			param.Name, param.Type, param.Span = start.Literal, nil, start.Span
		default:
			p.errorAt(cerrors.ParameterNameExpected, name)
			p.nextToken()
			param = nil
		}
		if p.currentTokenIs(lexer.TokenComma) {
			p.nextToken()
		}
		if param != nil {
			params = append(params, param)
		}
	}
	return params, nil
}

// fallbackStatement reads `Type name ...` declarations and expression
// statements
func (p *Parser) fallbackStatement() error {
	start := p.cur()
	m := p.speculate()
	if t, _ := p.eatType(true, false); t != nil && p.currentTokenIs(lexer.TokenIdentifier) {
		p.commit(m)
		return p.variableDeclaration(t, start)
	}
	p.rollback(m)

	pos := p.tokens.Position()
	x, err := p.readExpression(0)
	if err != nil {
		return err
	}
	p.add(&ast.ExprStmt{X: x})
	if p.tokens.Position() == pos {
		p.nextToken()
	}
	p.skipSemicolon()
	return nil
}
