package lexer

// Stream is a repositionable cursor over the tokens of one unit. The token
// slice is shared and never written; the position is private to the Stream.
type Stream struct {
	tokens []Token
	pos    int
}

// NewStream creates a cursor at position zero. tokens must end with TokenEOF.
func NewStream(tokens []Token) *Stream {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != TokenEOF {
		tokens = append(tokens[:len(tokens):len(tokens)], Token{Type: TokenEOF})
	}
	return &Stream{tokens: tokens}
}

// Current returns the token under the cursor
func (s *Stream) Current() Token {
	return s.Peek(0)
}

// Eat consumes and returns the current token
func (s *Stream) Eat() Token {
	tok := s.Current()
	s.Skip()
	return tok
}

// Skip advances by one token without going past EOF
func (s *Stream) Skip() {
	if s.pos < len(s.tokens)-1 {
		s.pos++
	}
}

// Unskip moves back by one token
func (s *Stream) Unskip() {
	if s.pos > 0 {
		s.pos--
	}
}

// Peek returns the token at offset from the cursor. Offsets past either end
// return the EOF token and the first token respectively.
func (s *Stream) Peek(offset int) Token {
	i := s.pos + offset
	if i < 0 {
		i = 0
	}
	if i >= len(s.tokens) {
		i = len(s.tokens) - 1
	}
	return s.tokens[i]
}

// Previous returns the last consumed token
func (s *Stream) Previous() Token {
	return s.Peek(-1)
}

// Position returns the cursor position for a later SetPosition
func (s *Stream) Position() int {
	return s.pos
}

// SetPosition restores a position returned by Position
func (s *Stream) SetPosition(p int) {
	if p < 0 {
		p = 0
	}
	if p > len(s.tokens)-1 {
		p = len(s.tokens) - 1
	}
	s.pos = p
}

// HasMore reports whether tokens remain before EOF
func (s *Stream) HasMore() bool {
	return s.tokens[s.pos].Type != TokenEOF
}

// Reset moves the cursor back to the first token
func (s *Stream) Reset() {
	s.pos = 0
}

// Len returns the number of tokens, EOF included
func (s *Stream) Len() int {
	return len(s.tokens)
}
