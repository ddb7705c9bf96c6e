package lexer

import (
	"testing"

	"github.com/leekwars/leekc/internal/position"
)

func TestStreamCursor(t *testing.T) {
	tokens, _ := Tokenize(position.NewSourceFile("test", "a + b;"), 4)
	s := NewStream(tokens)

	if s.Current().Literal != "a" || s.Peek(1).Literal != "+" || s.Peek(3).Type != TokenSemicolon {
		t.Fatalf("unexpected lookahead")
	}
	if tok := s.Eat(); tok.Literal != "a" {
		t.Fatalf("expected a, got %s", tok)
	}
	if s.Previous().Literal != "a" {
		t.Fatalf("expected previous token a")
	}
	mark := s.Position()
	s.Skip()
	s.Skip()
	s.Unskip()
	if s.Current().Literal != "b" {
		t.Fatalf("expected b, got %s", s.Current())
	}
	s.SetPosition(mark)
	if s.Current().Literal != "+" {
		t.Fatalf("expected + after restore, got %s", s.Current())
	}
	for s.HasMore() {
		s.Skip()
	}
	s.Skip()
	if s.Current().Type != TokenEOF || s.Peek(10).Type != TokenEOF {
		t.Fatalf("cursor must stay on EOF")
	}
	s.Reset()
	if s.Position() != 0 {
		t.Fatalf("expected reset to zero")
	}
}

func TestStreamsShareTokens(t *testing.T) {
	tokens, _ := Tokenize(position.NewSourceFile("test", "x y"), 4)
	a, b := NewStream(tokens), NewStream(tokens)
	a.Skip()
	if b.Current().Literal != "x" || a.Current().Literal != "y" {
		t.Fatalf("cursors must be independent")
	}
	if NewStream(nil).Current().Type != TokenEOF {
		t.Fatalf("empty stream must yield EOF")
	}
}
