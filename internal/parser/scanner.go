package parser

import (
	"github.com/leekwars/leekc/internal/ast"
	cerrors "github.com/leekwars/leekc/internal/errors"
	"github.com/leekwars/leekc/internal/lexer"
	"github.com/leekwars/leekc/internal/version"
)

// scan is the first pass: one linear walk registering includes, globals,
// functions and classes so the second pass can resolve forward references.
// Everything else is skipped without being parsed.
func (p *Parser) scan() error {
	p.s.scanned[p.unit.Path] = true
	for _, d := range p.unit.Problems {
		p.s.add(d)
	}
	p.tokens.Reset()
	defer p.tokens.Reset()

	for p.more() {
		if err := p.interrupted(); err != nil {
			return err
		}
		var err error
		switch p.cur().Type {
		case lexer.TokenInclude:
			err = p.scanInclude()
		case lexer.TokenGlobal:
			err = p.scanGlobal()
		case lexer.TokenFunction:
			err = p.scanFunction()
		case lexer.TokenClass:
			err = p.scanClass()
		default:
			p.nextToken()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// scanInclude runs the first pass of an included unit. Malformed syntax is
// left to the second pass.
func (p *Parser) scanInclude() error {
	p.nextToken()
	if !p.currentTokenIs(lexer.TokenLParen) {
		return nil
	}
	p.nextToken()
	tok := p.cur()
	if tok.Type != lexer.TokenString {
		return nil
	}
	p.nextToken()
	name := unquote(tok.Literal)
	u, err := p.s.resolve(p.unit, name)
	if err != nil {
		p.errorAt(cerrors.AINotExisting, tok, name)
		return nil
	}
	if p.s.scanned[u.Path] {
		return nil
	}
	p.s.logger.Debug("scanning include", "from", p.unit.Path, "unit", u.Path)
	return p.s.newParser(u).scan()
}

func (p *Parser) scanGlobal() error {
	p.nextToken()
	m := p.speculate()
	if t, _ := p.eatType(false, false); t != nil && p.currentTokenIs(lexer.TokenIdentifier) {
		p.discard(m)
	} else {
		p.rollback(m)
		// a class declared further down is not known yet
		if p.currentTokenIs(lexer.TokenIdentifier) && p.peekTokenIs(1, lexer.TokenIdentifier) {
			p.nextToken()
		}
	}

	for {
		tok := p.cur()
		if tok.Type != lexer.TokenIdentifier {
			return nil
		}
		p.nextToken()
		if p.s.globalAvailable(tok.Literal) {
			p.s.globals[tok.Literal] = true
		} else {
			p.errorAt(cerrors.VariableNameUnavailable, tok, tok.Literal)
		}
		if p.currentIs("=") {
			p.nextToken()
			if err := p.skipInitializer(); err != nil {
				return err
			}
		}
		if !p.currentTokenIs(lexer.TokenComma) {
			return nil
		}
		p.nextToken()
	}
}

// skipInitializer moves past a global's value: to the next top-level comma,
// statement terminator or statement keyword
func (p *Parser) skipInitializer() error {
	depth := 0
	for p.more() {
		if err := p.interrupted(); err != nil {
			return err
		}
		switch tok := p.cur(); tok.Type {
		case lexer.TokenLParen, lexer.TokenLBracket, lexer.TokenLBrace:
			depth++
		case lexer.TokenRParen, lexer.TokenRBracket:
			if depth == 0 {
				return nil
			}
			depth--
		case lexer.TokenRBrace:
			if depth == 0 {
				return nil
			}
			depth--
		case lexer.TokenComma, lexer.TokenSemicolon:
			if depth == 0 {
				return nil
			}
		default:
			if depth == 0 && startsStatement(tok.Type) {
				return nil
			}
		}
		p.nextToken()
	}
	return nil
}

func startsStatement(tt lexer.TokenType) bool {
	switch tt {
	case lexer.TokenVar, lexer.TokenGlobal, lexer.TokenReturn, lexer.TokenFor, lexer.TokenWhile,
		lexer.TokenDo, lexer.TokenIf, lexer.TokenElse, lexer.TokenBreak, lexer.TokenContinue,
		lexer.TokenFunction, lexer.TokenClass, lexer.TokenInclude:
		return true
	}
	return false
}

// scanFunction registers a named function with its parameter count
func (p *Parser) scanFunction() error {
	keyword := p.eat()
	if p.currentTokenIs(lexer.TokenLParen) || p.currentIs("<") {
		// anonymous function or Function<...> type
		return nil
	}
	name := p.cur()
	if name.Type != lexer.TokenIdentifier {
		return nil
	}
	p.nextToken()
	if !p.currentTokenIs(lexer.TokenLParen) {
		if keyword.Literal == "Function" {
			// `Function f = ...` declares a variable
			p.tokens.Unskip()
			return nil
		}
		return fatalAt(cerrors.OpeningParenthesisExpected, p.cur())
	}
	p.nextToken()

	count := 0
	if !p.currentTokenIs(lexer.TokenRParen) {
		count = 1
	}
	// chevrons tracks type argument lists, whose commas separate types
	chevrons := 0
	for depth := 1; depth > 0; p.nextToken() {
		if !p.more() {
			return fatalAt(cerrors.EndOfScriptUnexpected, p.cur())
		}
		if err := p.interrupted(); err != nil {
			return err
		}
		switch p.cur().Type {
		case lexer.TokenLParen, lexer.TokenLBracket, lexer.TokenLBrace:
			depth++
		case lexer.TokenRParen, lexer.TokenRBracket, lexer.TokenRBrace:
			depth--
		case lexer.TokenComma:
			if depth == 1 && chevrons == 0 {
				count++
			}
		case lexer.TokenOperator:
			if p.currentIs("<") {
				chevrons++
			} else if p.currentIs(">") && chevrons > 0 {
				chevrons--
			}
		}
	}

	if !p.s.functionAvailable(name.Literal) {
		p.errorAt(cerrors.FunctionNameUnavailable, name, name.Literal)
		p.s.skipped[name.Span.Start] = true
		return nil
	}
	p.s.functions[name.Literal] = count
	return nil
}

// scanClass forward-declares a class so it can be used as a type and a value
func (p *Parser) scanClass() error {
	p.nextToken()
	if !p.s.lang.Has(version.Classes) {
		return nil
	}
	name := p.cur()
	if name.Type != lexer.TokenIdentifier {
		return nil
	}
	p.nextToken()
	if p.s.classes[name.Literal] != nil {
		return fatalAt(cerrors.VariableNameUnavailable, name, name.Literal)
	}
	if p.s.reserved(name.Literal) {
		p.errorAt(cerrors.VariableNameUnavailable, name, name.Literal)
		return nil
	}
	p.s.classes[name.Literal] = &ast.ClassDecl{Span: name.Span, Name: name.Literal}
	return nil
}

// unquote strips the delimiters of a string literal
func unquote(lit string) string {
	if len(lit) >= 2 {
		return lit[1 : len(lit)-1]
	}
	return lit
}
