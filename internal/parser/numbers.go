package parser

import (
	"errors"
	"math/big"
	"strconv"
	"strings"

	"github.com/leekwars/leekc/internal/ast"
	cerrors "github.com/leekwars/leekc/internal/errors"
	"github.com/leekwars/leekc/internal/lexer"
)

// number decodes a numeric literal. Integers that overflow int64 become
// big integers; a trailing L forces one. Underscores separate digits.
func (p *Parser) number(tok lexer.Token) ast.Expression {
	lit := tok.Literal
	if strings.Contains(lit, "__") {
		p.errorAt(cerrors.MultipleNumericSeparators, tok)
	}
	plain := strings.ReplaceAll(lit, "_", "")
	digits, base := plain, 10
	switch {
	case strings.HasPrefix(plain, "0x"):
		digits, base = plain[2:], 16
	case strings.HasPrefix(plain, "0b"):
		digits, base = plain[2:], 2
	}

	if strings.HasSuffix(digits, "L") {
		n, ok := new(big.Int).SetString(strings.TrimSuffix(digits, "L"), base)
		if !ok {
			p.errorAt(cerrors.InvalidNumber, tok, lit)
			n = new(big.Int)
		}
		return &ast.BigIntegerLit{Span: tok.Span, Value: n}
	}
	if v, err := strconv.ParseInt(digits, base, 64); err == nil {
		return &ast.IntegerLit{Span: tok.Span, Value: v}
	}
	if !strings.Contains(digits, ".") {
		if n, ok := new(big.Int).SetString(digits, base); ok {
			return &ast.BigIntegerLit{Span: tok.Span, Value: n}
		}
	}
	// out of range reals saturate to infinity
	if f, err := strconv.ParseFloat(plain, 64); err == nil || errors.Is(err, strconv.ErrRange) {
		return &ast.RealLit{Span: tok.Span, Value: f}
	}
	p.errorAt(cerrors.InvalidNumber, tok, lit)
	return &ast.IntegerLit{Span: tok.Span}
}
