package parser

import (
	"github.com/leekwars/leekc/internal/ast"
	cerrors "github.com/leekwars/leekc/internal/errors"
	"github.com/leekwars/leekc/internal/lexer"
	"github.com/leekwars/leekc/internal/types"
	"github.com/leekwars/leekc/internal/version"
)

// classDeclaration parses `class Name [extends Parent] { members }`. The
// class was registered by the first pass; members are filled in here.
func (p *Parser) classDeclaration() error {
	tok := p.eat()
	if !p.isMain() {
		p.errorAt(cerrors.ClassOnlyInMainBlock, tok)
	}
	name := p.cur()
	if name.Type != lexer.TokenIdentifier {
		return fatalAt(cerrors.VarNameExpected, name)
	}
	p.nextToken()
	if p.s.reserved(name.Literal) {
		p.errorAt(cerrors.VariableNameUnavailable, name, name.Literal)
	}
	c := p.s.classes[name.Literal]
	if c == nil {
		c = &ast.ClassDecl{Name: name.Literal}
	}
	c.Span = spanTo(tok, name)

	if p.currentTokenIs(lexer.TokenExtends) {
		p.nextToken()
		parent := p.cur()
		if parent.Type != lexer.TokenIdentifier {
			return fatalAt(cerrors.ClassNameExpected, parent)
		}
		p.nextToken()
		c.Parent = parent.Literal
	}
	if !p.currentTokenIs(lexer.TokenLBrace) {
		return fatalAt(cerrors.OpeningCurlyBracketExpected, p.cur())
	}
	open := p.eat()

	p.s.program.Classes = append(p.s.program.Classes, c)
	p.s.program.Stats.Classes++
	p.add(c)
	main := p.s.program.Main.Scope
	p.s.sink.AddDeclaration(&Declaration{Kind: DeclClass, Name: c.Name, Type: types.UserClass(c.Name), Span: name.Span, Scope: main, Parent: c.Parent})

	saved := p.class
	p.class = c
	defer func() { p.class = saved }()

	for !p.currentTokenIs(lexer.TokenRBrace) && p.more() {
		if err := p.interrupted(); err != nil {
			return err
		}
		if err := p.classMember(c); err != nil {
			return err
		}
	}
	if !p.currentTokenIs(lexer.TokenRBrace) {
		return fatalAt(cerrors.EndOfClassExpected, p.cur())
	}
	end := p.eat()
	c.Body = spanTo(open, end)
	p.s.sink.AddDeclaration(&Declaration{Kind: DeclThis, Name: "this", Type: types.UserClass(c.Name), Span: c.Body, Scope: main, Class: c.Name})
	return nil
}

// classMember reads the modifiers of one member: an access level, then
// constructor, or static and final
func (p *Parser) classMember(c *ast.ClassDecl) error {
	access := ast.AccessPublic
	if a, ok := ast.ParseAccess(p.cur().Literal); ok && p.currentTokenIs(lexer.TokenIdentifier) {
		access = a
		p.nextToken()
	}
	if p.modifier("constructor") {
		tok := p.eat()
		return p.classMethod(c, tok, access, false, true, types.Void)
	}
	static := p.modifier("static")
	if static {
		p.nextToken()
	}
	final := p.modifier("final")
	if final {
		p.nextToken()
	}
	return p.fieldOrMethod(c, access, static, final)
}

func (p *Parser) modifier(word string) bool {
	return p.currentTokenIs(lexer.TokenIdentifier) && p.cur().Literal == word
}

// fieldOrMethod parses `[type] name [= value]` or `[type] name(params) {}`
func (p *Parser) fieldOrMethod(c *ast.ClassDecl, access ast.Access, static, final bool) error {
	var t *types.Type
	// string(...) is the conversion method, not a field of type string
	if !(p.cur().Literal == "string" && p.peekTokenIs(1, lexer.TokenLParen)) {
		t, _ = p.eatType(false, false)
	}
	name := p.eat()
	switch name.Type {
	case lexer.TokenIdentifier:
		if p.s.reserved(name.Literal) {
			p.errorAt(cerrors.VariableNameUnavailable, name, name.Literal)
		}
	case lexer.TokenSuper, lexer.TokenClass:
		p.errorAt(cerrors.VariableNameUnavailable, name, name.Literal)
	default:
		p.errorAt(cerrors.VariableNameExpected, name, name.Literal)
		return nil
	}

	if p.currentTokenIs(lexer.TokenLParen) {
		if err := p.classMethod(c, name, access, static, false, t); err != nil {
			return err
		}
		p.skipSemicolon()
		return nil
	}

	f := &ast.FieldDecl{Span: name.Span, Name: name.Literal, Type: t, Access: access, Static: static, Final: final}
	if p.currentIs("=") {
		p.nextToken()
		value, err := p.readExpression(0)
		if err != nil {
			return err
		}
		f.Value = value
		f.Span = p.spanFrom(name)
	}
	c.AddField(f)
	p.s.sink.AddDeclaration(&Declaration{
		Kind: DeclField, Name: f.Name, Type: t, Span: name.Span, Scope: p.s.program.Main.Scope,
		Class: c.Name, Access: access, Static: static, Final: final,
	})
	p.skipSemicolon()
	return nil
}

// classMethod parses the parameters and body of a method or constructor
func (p *Parser) classMethod(c *ast.ClassDecl, name lexer.Token, access ast.Access, static, constructor bool, ret *types.Type) error {
	m := &ast.ClassMethodBlock{
		Class: c.Name, Name: name.Literal, Return: ret,
		Access: access, Static: static, Constructor: constructor,
	}
	if err := p.expect(lexer.TokenLParen, cerrors.OpeningParenthesisExpected); err != nil {
		return err
	}
	for !p.currentTokenIs(lexer.TokenRParen) && p.more() {
		if err := p.interrupted(); err != nil {
			return err
		}
		param := &ast.Param{}
		if p.currentIs("@") {
			ref := p.eat()
			param.Reference = true
			if p.s.lang.Has(version.ReferenceWarning) {
				p.warnAt(cerrors.ReferenceDeprecated, ref)
			}
		}
		param.Type, _ = p.eatType(false, false)
		if !p.currentTokenIs(lexer.TokenIdentifier) {
			p.errorAt(cerrors.ParameterNameExpected, p.cur())
		}
		tok := p.eat()
		param.Name, param.Span = tok.Literal, tok.Span
		if p.currentIs("=") {
			p.nextToken()
			value, err := p.readExpression(inList)
			if err != nil {
				return err
			}
			param.Default = value
		}
		m.Params = append(m.Params, param)
		if p.currentTokenIs(lexer.TokenComma) {
			p.nextToken()
		}
	}
	if p.currentTokenIs(lexer.TokenRParen) {
		p.nextToken()
	} else {
		p.errorAt(cerrors.ParenthesisExpectedAfterParams, p.cur())
	}
	if c.HasMethod(m.Name, len(m.Params), constructor) {
		return fatalAt(cerrors.ConstructorAlreadyExists, p.cur(), m.Name)
	}
	if !p.currentTokenIs(lexer.TokenLBrace) {
		return fatalAt(cerrors.OpeningCurlyBracketExpected, p.cur())
	}

	c.AddMethod(m)
	kind := DeclMethod
	if constructor {
		kind = DeclConstructor
	}
	p.s.sink.AddDeclaration(&Declaration{
		Kind: kind, Name: m.Name, Span: name.Span, Scope: p.s.program.Main.Scope,
		Class: c.Name, Params: m.Params, Return: ret, Access: access, Static: static,
	})

	restore := p.enter(m, name)
	defer restore()
	m.Braced = true
	p.nextToken()
	for _, param := range m.Params {
		p.declareLocal(m, DeclParameter, param.Name, param.Type, param.Span)
	}
	if err := p.body(m); err != nil {
		return err
	}
	p.closeCurrent(p.eat().Span)
	return nil
}
