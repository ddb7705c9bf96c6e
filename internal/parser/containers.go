package parser

import (
	"github.com/leekwars/leekc/internal/ast"
	cerrors "github.com/leekwars/leekc/internal/errors"
	"github.com/leekwars/leekc/internal/lexer"
	"github.com/leekwars/leekc/internal/position"
	"github.com/leekwars/leekc/internal/version"
)

// bracketLiteral reads what follows `[`: an array, a map (a legacy keyed
// array before maps existed) or an interval
func (p *Parser) bracketLiteral() (ast.Expression, error) {
	open := p.eat()
	maps := p.s.lang.Has(version.Maps)

	switch {
	case p.currentIs(":"):
		p.nextToken()
		if !p.currentTokenIs(lexer.TokenRBracket) {
			return nil, fatalAt(cerrors.ParenthesisExpectedAfterParams, p.cur())
		}
		span := spanTo(open, p.eat())
		if maps {
			return &ast.MapLit{Span: span}, nil
		}
		return &ast.ArrayLit{Span: span, Keys: []ast.Expression{}, Legacy: true}, nil
	case p.currentTokenIs(lexer.TokenRBracket):
		return &ast.ArrayLit{Span: spanTo(open, p.eat()), Legacy: !maps}, nil
	case p.currentTokenIs(lexer.TokenDotDot):
		p.nextToken()
		return p.interval(open, nil)
	}

	first, err := p.readExpression(inList)
	if err != nil {
		return nil, err
	}
	switch {
	case p.currentIs(":"):
		p.nextToken()
		return p.keyedLiteral(open, first, maps)
	case p.currentTokenIs(lexer.TokenDotDot):
		p.nextToken()
		return p.interval(open, first)
	}
	return p.arrayLiteral(open, first, !maps)
}

// keyedLiteral reads the entries of `[k: v, ...]` after the first colon
func (p *Parser) keyedLiteral(open lexer.Token, key ast.Expression, maps bool) (ast.Expression, error) {
	var keys, values []ast.Expression
	for {
		value, err := p.readExpression(inList)
		if err != nil {
			return nil, err
		}
		keys, values = append(keys, key), append(values, value)
		if p.currentTokenIs(lexer.TokenComma) {
			p.nextToken()
		}
		if p.endOfList(lexer.TokenRBracket) {
			break
		}
		if err := p.interrupted(); err != nil {
			return nil, err
		}
		if key, err = p.readExpression(inList); err != nil {
			return nil, err
		}
		if !p.currentIs(":") {
			return nil, fatalAt(cerrors.SimpleArray, p.cur())
		}
		p.nextToken()
	}
	span := p.closeBracket(open)
	if maps {
		return &ast.MapLit{Span: span, Keys: keys, Values: values}, nil
	}
	return &ast.ArrayLit{Span: span, Keys: keys, Values: values, Legacy: true}, nil
}

// arrayLiteral reads the remaining values of `[a, b, ...]`
func (p *Parser) arrayLiteral(open lexer.Token, first ast.Expression, legacy bool) (ast.Expression, error) {
	values := []ast.Expression{first}
	if p.currentTokenIs(lexer.TokenComma) {
		p.nextToken()
	}
	for !p.endOfList(lexer.TokenRBracket) {
		if err := p.interrupted(); err != nil {
			return nil, err
		}
		value, err := p.readExpression(inList)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
		if p.currentIs(":") {
			return nil, fatalAt(cerrors.AssociativeArray, p.cur())
		}
		if p.currentTokenIs(lexer.TokenComma) {
			p.nextToken()
		}
	}
	return &ast.ArrayLit{Span: p.closeBracket(open), Values: values, Legacy: legacy}, nil
}

// closeBracket consumes the `]` ending a container opened at open
func (p *Parser) closeBracket(open lexer.Token) position.Span {
	if p.currentTokenIs(lexer.TokenRBracket) {
		return spanTo(open, p.eat())
	}
	p.errorAt(cerrors.ClosingSquareBracketExpected, p.cur())
	return p.spanFrom(open)
}

// interval reads `..to]` after the bound opening the interval. `[` closes
// an interval that excludes its upper bound; `::step` sets the stride.
func (p *Parser) interval(open lexer.Token, from ast.Expression) (ast.Expression, error) {
	in := &ast.IntervalLit{From: from, OpenStart: open.Type == lexer.TokenRBracket}
	if !p.closesInterval() {
		to, err := p.readExpression(inList | inInterval)
		if err != nil {
			return nil, err
		}
		in.To = to
		if p.currentIs(":") && p.peekToken(1).Is(":") && p.s.lang.Has(version.Slices) {
			p.nextToken()
			p.nextToken()
			if in.Step, err = p.readExpression(inList | inInterval); err != nil {
				return nil, err
			}
		}
		switch {
		case p.currentIs(":"):
			return nil, fatalAt(cerrors.AssociativeArray, p.cur())
		case p.currentTokenIs(lexer.TokenComma):
			return nil, fatalAt(cerrors.SimpleArray, p.cur())
		case !p.closesInterval():
			return nil, fatalAt(cerrors.ParenthesisExpectedAfterParams, p.cur())
		}
	}
	end := p.eat()
	in.OpenEnd = end.Type == lexer.TokenLBracket
	in.Span = spanTo(open, end)
	return in, nil
}

func (p *Parser) closesInterval() bool {
	return p.currentTokenIs(lexer.TokenRBracket) || p.currentTokenIs(lexer.TokenLBracket)
}

// openStartInterval reads `]from..to]` and `]..to]`
func (p *Parser) openStartInterval() (ast.Expression, error) {
	open := p.eat()
	if p.currentTokenIs(lexer.TokenDotDot) {
		p.nextToken()
		return p.interval(open, nil)
	}
	from, err := p.readExpression(inList)
	if err != nil {
		return nil, err
	}
	if p.currentTokenIs(lexer.TokenDotDot) {
		p.nextToken()
	} else {
		p.errorAt(cerrors.DotDotExpected, open)
	}
	return p.interval(open, from)
}

// setLiteral reads `<a, b>`
func (p *Parser) setLiteral() (ast.Expression, error) {
	open := p.eat()
	set := &ast.SetLit{}
	for !p.currentIs(">") && !p.endOfList(lexer.TokenRBracket) {
		if err := p.interrupted(); err != nil {
			return nil, err
		}
		value, err := p.readExpression(inList | inSet)
		if err != nil {
			return nil, err
		}
		set.Values = append(set.Values, value)
		if p.currentTokenIs(lexer.TokenComma) {
			p.nextToken()
		}
	}
	if p.currentIs(">") {
		set.Span = spanTo(open, p.eat())
	} else {
		p.errorAt(cerrors.ClosingChevronExpected, p.cur())
		set.Span = p.spanFrom(open)
	}
	return set, nil
}

// objectLiteral reads `{key: value, ...}`
func (p *Parser) objectLiteral() (ast.Expression, error) {
	open := p.eat()
	obj := &ast.ObjectLit{}
	for !p.endOfList(lexer.TokenRBrace) {
		if err := p.interrupted(); err != nil {
			return nil, err
		}
		key := p.eat()
		if key.Type != lexer.TokenIdentifier {
			p.errorAt(cerrors.ParenthesisExpectedAfterParams, key)
		}
		if p.currentIs(":") {
			p.nextToken()
		} else {
			p.errorAt(cerrors.ParenthesisExpectedAfterParams, p.cur())
		}
		value, err := p.readExpression(inList)
		if err != nil {
			return nil, err
		}
		obj.Keys = append(obj.Keys, key.Literal)
		obj.Values = append(obj.Values, value)
		if p.currentTokenIs(lexer.TokenComma) {
			p.nextToken()
		}
	}
	if p.currentTokenIs(lexer.TokenRBrace) {
		obj.Span = spanTo(open, p.eat())
	} else {
		p.errorAt(cerrors.ClosingParenthesisExpected, p.cur())
		obj.Span = p.spanFrom(open)
	}
	return obj, nil
}

// anonymousFunction reads `function (params) [-> type] { body }`
func (p *Parser) anonymousFunction() (ast.Expression, error) {
	tok := p.eat()
	if p.currentTokenIs(lexer.TokenLParen) {
		p.nextToken()
	} else {
		p.errorAt(cerrors.ParenthesisExpectedAfterFunction, p.cur())
	}
	params, err := p.functionParams()
	if err != nil {
		return nil, err
	}
	if p.currentTokenIs(lexer.TokenRParen) {
		p.nextToken()
	} else {
		p.errorAt(cerrors.ParenthesisExpectedAfterParams, p.cur())
	}
	b := &ast.AnonymousFunctionBlock{Params: params, ID: len(p.s.program.AnonymousFunctions)}
	if p.currentTokenIs(lexer.TokenArrow) {
		p.nextToken()
		b.Return, _ = p.eatType(false, true)
	}
	if !p.currentTokenIs(lexer.TokenLBrace) {
		return nil, fatalAt(cerrors.OpeningCurlyBracketExpected, p.cur())
	}
	p.s.program.AnonymousFunctions = append(p.s.program.AnonymousFunctions, b)
	p.s.program.Stats.Lambdas++

	restore := p.enter(b, tok)
	defer restore()
	b.Braced = true
	p.nextToken()
	for _, param := range params {
		p.declareLocal(b, DeclParameter, param.Name, param.Type, param.Span)
	}
	if err := p.body(b); err != nil {
		return nil, err
	}
	p.closeCurrent(p.eat().Span)
	return &ast.FunctionLit{Block: b}, nil
}
