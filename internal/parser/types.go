package parser

import (
	cerrors "github.com/leekwars/leekc/internal/errors"
	"github.com/leekwars/leekc/internal/lexer"
	"github.com/leekwars/leekc/internal/types"
)

// eatType reads a type expression: a primary type, an optional `?` and a
// `|` union chain. It returns nil without consuming anything when no type
// starts here; mandatory turns that into a TYPE_EXPECTED diagnostic.
// simple is set when the type was a single token, which lets a parameter
// list treat a lone word as the parameter name.
func (p *Parser) eatType(first, mandatory bool) (t *types.Type, simple bool) {
	start := p.tokens.Position()
	t = p.eatOptionalType(first, mandatory)
	if t == nil {
		return nil, false
	}
	for p.currentIs("|") {
		p.nextToken()
		next := p.eatOptionalType(false, true)
		if next == nil {
			break
		}
		t = types.Union(t, next)
	}
	return t, p.tokens.Position()-start == 1
}

func (p *Parser) eatOptionalType(first, mandatory bool) *types.Type {
	t := p.eatPrimaryType(first, mandatory)
	if t == nil {
		return nil
	}
	if p.currentIs("?") {
		p.nextToken()
		return types.Optional(t)
	}
	return t
}

func (p *Parser) eatPrimaryType(first, mandatory bool) *types.Type {
	tok := p.cur()
	word := typeWord(tok)
	switch word {
	case "":
	case "null":
		// null alone would swallow the null literal
		if !first {
			p.nextToken()
			return types.Null
		}
	case "Array", "Set":
		p.nextToken()
		if !p.currentIs("<") {
			return types.Primitives[word]
		}
		p.nextToken()
		elem, _ := p.eatType(false, true)
		p.closeChevron()
		if word == "Array" {
			return types.ArrayOf(elem)
		}
		return types.SetOf(elem)
	case "Map":
		p.nextToken()
		if !p.currentIs("<") {
			return types.Map
		}
		p.nextToken()
		key, _ := p.eatType(false, true)
		if p.currentTokenIs(lexer.TokenComma) {
			p.nextToken()
		} else {
			p.errorAt(cerrors.CommaExpected, p.cur())
		}
		value, _ := p.eatType(false, true)
		p.closeChevron()
		return types.MapOf(key, value)
	case "Function":
		p.nextToken()
		if !p.currentIs("<") {
			return types.Function
		}
		p.nextToken()
		var params []*types.Type
		if arg, _ := p.eatType(false, false); arg != nil {
			params = append(params, arg)
		}
		for p.currentTokenIs(lexer.TokenComma) {
			p.nextToken()
			if param, _ := p.eatType(false, true); param != nil {
				params = append(params, param)
			}
		}
		var ret *types.Type
		if p.currentTokenIs(lexer.TokenArrow) {
			p.nextToken()
			ret, _ = p.eatType(false, true)
		}
		p.closeChevron()
		return types.FunctionOf(params, ret)
	default:
		if t, ok := types.Primitives[word]; ok {
			p.nextToken()
			return t
		}
		if tok.Type == lexer.TokenIdentifier && p.s.classes[word] != nil {
			p.nextToken()
			return types.UserClass(word)
		}
	}
	if mandatory {
		p.errorAt(cerrors.TypeExpected, tok)
	}
	return nil
}

// typeWord returns the literal of a token that may start a type
func typeWord(tok lexer.Token) string {
	switch tok.Type {
	case lexer.TokenIdentifier, lexer.TokenNull:
		return tok.Literal
	case lexer.TokenFunction:
		if tok.Literal == "Function" {
			return tok.Literal
		}
	case lexer.TokenClass:
		if tok.Literal == "Class" {
			return tok.Literal
		}
	}
	return ""
}

// closeChevron consumes the `>` closing a type argument list
func (p *Parser) closeChevron() {
	if p.currentIs(">") {
		p.nextToken()
		return
	}
	p.errorAt(cerrors.ClosingChevronExpected, p.cur())
}
