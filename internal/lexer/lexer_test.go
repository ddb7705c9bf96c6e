package lexer

import (
	"testing"

	cerrors "github.com/leekwars/leekc/internal/errors"
	"github.com/leekwars/leekc/internal/position"
)

func lex(t *testing.T, input string, version int) []Token {
	t.Helper()
	tokens, errs := Tokenize(position.NewSourceFile("test", input), version)
	if len(errs) > 0 {
		t.Fatalf("unexpected lexer errors for %q: %v", input, errs)
	}
	return tokens
}

func TestNextToken(t *testing.T) {
	input := `var a = 0x1F; for (k : v in m) { a += k ** 2 }`
	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{TokenVar, "var"},
		{TokenIdentifier, "a"},
		{TokenOperator, "="},
		{TokenNumber, "0x1F"},
		{TokenSemicolon, ";"},
		{TokenFor, "for"},
		{TokenLParen, "("},
		{TokenIdentifier, "k"},
		{TokenOperator, ":"},
		{TokenIdentifier, "v"},
		{TokenIn, "in"},
		{TokenIdentifier, "m"},
		{TokenRParen, ")"},
		{TokenLBrace, "{"},
		{TokenIdentifier, "a"},
		{TokenOperator, "+="},
		{TokenIdentifier, "k"},
		{TokenOperator, "**"},
		{TokenNumber, "2"},
		{TokenRBrace, "}"},
		{TokenEOF, ""},
	}

	tokens := lex(t, input, 4)
	if len(tokens) != len(tests) {
		t.Fatalf("expected %d tokens, got %d: %v", len(tests), len(tokens), tokens)
	}
	for i, tt := range tests {
		if tokens[i].Type != tt.expectedType || tokens[i].Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - expected %s %q, got %s %q", i, tt.expectedType, tt.expectedLiteral, tokens[i].Type, tokens[i].Literal)
		}
	}
}

func TestShiftIsNeverMerged(t *testing.T) {
	tokens := lex(t, "Array<Array<integer>> a >>= 1", 4)
	var ops []string
	for _, tok := range tokens {
		if tok.Type == TokenOperator {
			ops = append(ops, tok.Literal)
		}
	}
	want := []string{"<", "<", ">", ">", ">", ">="}
	if len(ops) != len(want) {
		t.Fatalf("expected %v, got %v", want, ops)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ops)
		}
	}
}

func TestNumbersAndIntervals(t *testing.T) {
	tokens := lex(t, "1.5 1..5 123L 1__2 0b101", 4)
	want := []struct {
		tt  TokenType
		lit string
	}{
		{TokenNumber, "1.5"},
		{TokenNumber, "1"},
		{TokenDotDot, ".."},
		{TokenNumber, "5"},
		{TokenNumber, "123L"},
		{TokenNumber, "1__2"},
		{TokenNumber, "0b101"},
	}
	for i, w := range want {
		if tokens[i].Type != w.tt || tokens[i].Literal != w.lit {
			t.Fatalf("token %d: expected %s %q, got %s", i, w.tt, w.lit, tokens[i])
		}
	}
}

func TestKeywordCaseByVersion(t *testing.T) {
	if tok := lex(t, "WHILE", 2)[0]; tok.Type != TokenWhile || tok.Literal != "WHILE" {
		t.Fatalf("expected case-insensitive keyword in version 2, got %s", tok)
	}
	if tok := lex(t, "WHILE", 3)[0]; tok.Type != TokenIdentifier {
		t.Fatalf("expected identifier in version 3, got %s", tok)
	}
	if tok := lex(t, "xor", 4)[0]; tok.Type != TokenOperator {
		t.Fatalf("expected word operator, got %s", tok)
	}
}

func TestStringsArrowsAndComments(t *testing.T) {
	tokens := lex(t, "// line\n'it\\'s' /* block\n */ => -> ∞ π", 4)
	want := []TokenType{TokenString, TokenArrow, TokenArrow, TokenLemniscate, TokenPi, TokenEOF}
	for i, tt := range want {
		if tokens[i].Type != tt {
			t.Fatalf("token %d: expected %s, got %s", i, tt, tokens[i])
		}
	}
	if tokens[0].Literal != `'it\'s'` || tokens[0].Line() != 2 {
		t.Fatalf("unexpected string token %s", tokens[0])
	}
	if tokens[1].Span.Start.Line != 3 {
		t.Fatalf("expected arrow on line 3, got %d", tokens[1].Span.Start.Line)
	}
}

func TestLexicalErrors(t *testing.T) {
	tests := []struct {
		input string
		code  cerrors.Code
	}{
		{`"abc`, cerrors.UnterminatedString},
		{"/* abc", cerrors.UnterminatedComment},
		{"a # b", cerrors.InvalidChar},
	}
	for _, tt := range tests {
		tokens, errs := Tokenize(position.NewSourceFile("test", tt.input), 4)
		if len(errs) != 1 || errs[0].Code != tt.code {
			t.Fatalf("%q: expected %s, got %v", tt.input, tt.code, errs)
		}
		if tokens[len(tokens)-1].Type != TokenEOF {
			t.Fatalf("%q: token stream must end with EOF", tt.input)
		}
	}
}
