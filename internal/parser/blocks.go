package parser

import (
	"github.com/leekwars/leekc/internal/ast"
	cerrors "github.com/leekwars/leekc/internal/errors"
	"github.com/leekwars/leekc/internal/lexer"
	"github.com/leekwars/leekc/internal/position"
)

// secondPass parses every statement of the unit into the current block.
// Included units run it with the main block current, so their
// instructions are spliced where the include appears.
func (p *Parser) secondPass() error {
	p.tokens.Reset()
	for {
		if err := p.interrupted(); err != nil {
			return err
		}
		if err := p.settle(); err != nil {
			return err
		}
		if !p.more() {
			break
		}
		if err := p.statement(); err != nil {
			return err
		}
	}
	return p.endOfUnit()
}

// endOfUnit checks that every block opened in the unit was closed
func (p *Parser) endOfUnit() error {
	if _, ok := p.current.(*ast.MainBlock); ok {
		return nil
	}
	base := p.current.Base()
	if !base.Braced && !base.Full {
		return fatalAt(cerrors.NoBlocToClose, p.cur())
	}
	return fatalAt(cerrors.OpenBlocRemaining, p.cur())
}

// add appends an instruction to the current block
func (p *Parser) add(in ast.Instruction) {
	p.current.Base().Add(in)
	p.s.program.Stats.Instructions++
}

// openBlock makes b the current block. attach adds it to the body of the
// enclosing block first; function-like blocks and else links are not part
// of any body.
func (p *Parser) openBlock(b ast.Block, tok lexer.Token, attach bool) {
	if attach {
		p.add(b)
	}
	base := b.Base()
	base.Parent = p.current
	base.Scope = p.current.Base().Scope + 1
	base.Span = tok.Span
	p.s.sink.BlockOpened(base.Scope, b.Kind(), base.Span)
	p.current = b
}

// blockStart consumes the `{` of a braced body
func (p *Parser) blockStart(b ast.Block) {
	if p.currentTokenIs(lexer.TokenLBrace) {
		p.nextToken()
		b.Base().Braced = true
	}
}

// closeCurrent pops the current block, ending it at the given span
func (p *Parser) closeCurrent(at position.Span) {
	b := p.current
	p.s.closeBlock(b, at)
	p.current = b.Base().Parent
}

// settle pops every brace-less block that already received its instruction.
// A conditional waiting for a following else stays open so the else binds
// to the innermost if.
func (p *Parser) settle() error {
	for {
		b := p.current
		base := b.Base()
		if base.Braced || !base.Full || base.Parent == nil {
			return nil
		}
		if p.currentTokenIs(lexer.TokenElse) && elseTarget(b) {
			return nil
		}
		if dw, ok := b.(*ast.DoWhileBlock); ok {
			if err := p.doWhileEnd(dw); err != nil {
				return err
			}
			continue
		}
		p.closeCurrent(p.tokens.Previous().Span)
	}
}

// elseTarget reports whether b is a brace-less conditional an else can
// still attach to
func elseTarget(b ast.Block) bool {
	c, ok := b.(*ast.ConditionalBlock)
	return ok && !c.Braced && c.Full && c.Cond != nil && c.Else == nil
}

// body parses statements until the `}` closing b and leaves the cursor on
// it. Running out of tokens first is fatal.
func (p *Parser) body(b ast.Block) error {
	for {
		if err := p.interrupted(); err != nil {
			return err
		}
		if err := p.settle(); err != nil {
			return err
		}
		if p.current == b && p.currentTokenIs(lexer.TokenRBrace) {
			return nil
		}
		if !p.more() {
			return fatalAt(cerrors.OpenBlocRemaining, p.cur())
		}
		if err := p.statement(); err != nil {
			return err
		}
	}
}

// enter makes b current for a nested body and returns the function that
// restores the caller's block and class
func (p *Parser) enter(b ast.Block, tok lexer.Token) (restore func()) {
	saved, class := p.current, p.class
	p.openBlock(b, tok, false)
	return func() {
		p.current, p.class = saved, class
	}
}

// closeBrace handles a `}` statement
func (p *Parser) closeBrace() error {
	tok := p.cur()
	b := p.current
	base := b.Base()
	if !base.Braced || base.Parent == nil {
		p.errorAt(cerrors.NoBlocToClose, tok)
		p.nextToken()
		return nil
	}
	p.nextToken()
	if dw, ok := b.(*ast.DoWhileBlock); ok {
		return p.doWhileEnd(dw)
	}
	p.closeCurrent(tok.Span)
	return nil
}

// doWhileEnd parses the `while (cond)` after a do body, then closes the
// loop
func (p *Parser) doWhileEnd(dw *ast.DoWhileBlock) error {
	if !p.currentTokenIs(lexer.TokenWhile) {
		return fatalAt(cerrors.WhileExpectedAfterDo, p.cur())
	}
	p.nextToken()
	if err := p.expect(lexer.TokenLParen, cerrors.OpeningParenthesisExpected); err != nil {
		return err
	}
	cond, err := p.readExpression(0)
	if err != nil {
		return err
	}
	if err := p.expect(lexer.TokenRParen, cerrors.ClosingParenthesisExpected); err != nil {
		return err
	}
	dw.Cond = cond
	p.skipSemicolon()
	p.closeCurrent(p.tokens.Previous().Span)
	return nil
}

// elseStatement attaches an else or else if to the innermost open
// conditional
func (p *Parser) elseStatement() error {
	tok := p.eat()
	var target *ast.ConditionalBlock
	if elseTarget(p.current) {
		target = p.current.(*ast.ConditionalBlock)
		p.closeCurrent(p.tokens.Peek(-2).Span)
	} else if head, ok := p.current.Base().Last().(*ast.ConditionalBlock); ok && head.Tail().Cond != nil {
		target = head.Tail()
	} else {
		return fatalAt(cerrors.NoIfBlock, tok)
	}

	link := &ast.ConditionalBlock{Chained: true}
	if p.currentTokenIs(lexer.TokenIf) {
		p.nextToken()
		cond, err := p.condition()
		if err != nil {
			return err
		}
		link.Cond = cond
	}
	target.Else = link
	p.openBlock(link, tok, false)
	p.blockStart(link)
	return nil
}

// condition parses a parenthesized condition
func (p *Parser) condition() (ast.Expression, error) {
	if err := p.expect(lexer.TokenLParen, cerrors.OpeningParenthesisExpected); err != nil {
		return nil, err
	}
	cond, err := p.readExpression(0)
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.TokenRParen, cerrors.ClosingParenthesisExpected); err != nil {
		return nil, err
	}
	return cond, nil
}

// expect consumes a token of the given type or fails with code
func (p *Parser) expect(tt lexer.TokenType, code cerrors.Code) error {
	if !p.currentTokenIs(tt) {
		return fatalAt(code, p.cur())
	}
	p.nextToken()
	return nil
}
