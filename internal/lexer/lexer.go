// Package lexer implements the LeekScript lexical analyzer and the token
// cursor the parser walks.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/leekwars/leekc/internal/diagnostic"
	cerrors "github.com/leekwars/leekc/internal/errors"
	"github.com/leekwars/leekc/internal/position"
)

// operators sorted longest first so the scan is greedy. ">>" is never
// produced here; the expression parser joins adjacent '>' tokens.
var operators = []string{
	"===", "!==", "**=", "<<=", "??=",
	"==", "!=", "<=", ">=", "&&", "||", "??", "+=", "-=", "*=", "/=", "%=",
	"\\=", "&=", "|=", "^=", "++", "--", "**", "<<",
	"+", "-", "*", "/", "%", "\\", "<", ">", "&", "|", "^", "~", "!", "=",
	"?", ":", "@",
}

// Lexer turns the text of one source unit into tokens
type Lexer struct {
	file    *position.SourceFile
	input   string
	offset  int
	line    int
	column  int
	version int
	tokens  []Token
	errors  []diagnostic.Diagnostic
}

// New creates a lexer for the given file and language version
func New(file *position.SourceFile, version int) *Lexer {
	return &Lexer{file: file, input: file.Content, line: 1, column: 1, version: version}
}

// Tokenize lexes a whole unit. The returned slice always ends with TokenEOF.
func Tokenize(file *position.SourceFile, version int) ([]Token, []diagnostic.Diagnostic) {
	l := New(file, version)
	for {
		tok := l.NextToken()
		l.tokens = append(l.tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}
	return l.tokens, l.errors
}

func (l *Lexer) pos() position.Position {
	return position.Position{Filename: l.file.Filename, Line: l.line, Column: l.column, Offset: l.offset}
}

func (l *Lexer) peekRune(ahead int) rune {
	off := l.offset
	for i := 0; i < ahead; i++ {
		if off >= len(l.input) {
			return 0
		}
		_, size := utf8.DecodeRuneInString(l.input[off:])
		off += size
	}
	if off >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[off:])
	return r
}

func (l *Lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.input[l.offset:])
	l.offset += size
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return r
}

func (l *Lexer) report(code cerrors.Code, start position.Position, params ...string) {
	l.errors = append(l.errors, diagnostic.Diagnostic{
		Level:  diagnostic.LevelError,
		Code:   code,
		Params: params,
		Span:   position.Span{Start: start, End: l.pos()},
	})
}

// skipWhitespace skips blanks and comments
func (l *Lexer) skipWhitespace() {
	for l.offset < len(l.input) {
		r := l.peekRune(0)
		switch {
		case unicode.IsSpace(r):
			l.advance()
		case r == '/' && l.peekRune(1) == '/':
			for l.offset < len(l.input) && l.peekRune(0) != '\n' {
				l.advance()
			}
		case r == '/' && l.peekRune(1) == '*':
			start := l.pos()
			l.advance()
			l.advance()
			closed := false
			for l.offset < len(l.input) {
				if l.peekRune(0) == '*' && l.peekRune(1) == '/' {
					l.advance()
					l.advance()
					closed = true
					break
				}
				l.advance()
			}
			if !closed {
				l.report(cerrors.UnterminatedComment, start)
			}
		default:
			return
		}
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// NextToken returns the next token of the unit
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()
	start := l.pos()
	if l.offset >= len(l.input) {
		return Token{Type: TokenEOF, Span: position.Span{Start: start, End: start}}
	}

	r := l.peekRune(0)
	switch {
	case isDigit(r):
		return l.readNumber(start)
	case isIdentStart(r):
		return l.readIdentifier(start)
	case r == '"' || r == '\'':
		return l.readString(start, r)
	}

	single := func(tt TokenType) Token {
		l.advance()
		return l.newToken(tt, start)
	}
	switch r {
	case ';':
		return single(TokenSemicolon)
	case '{':
		return single(TokenLBrace)
	case '}':
		return single(TokenRBrace)
	case '(':
		return single(TokenLParen)
	case ')':
		return single(TokenRParen)
	case '[':
		return single(TokenLBracket)
	case ']':
		return single(TokenRBracket)
	case ',':
		return single(TokenComma)
	case '∞':
		return single(TokenLemniscate)
	case 'π':
		return single(TokenPi)
	case '.':
		if l.peekRune(1) == '.' {
			l.advance()
			return single(TokenDotDot)
		}
		return single(TokenDot)
	}

	rest := l.input[l.offset:]
	if strings.HasPrefix(rest, "=>") || strings.HasPrefix(rest, "->") {
		l.advance()
		l.advance()
		return l.newToken(TokenArrow, start)
	}
	for _, op := range operators {
		if strings.HasPrefix(rest, op) {
			for range op {
				l.advance()
			}
			return l.newToken(TokenOperator, start)
		}
	}

	l.advance()
	l.report(cerrors.InvalidChar, start, string(r))
	return l.NextToken()
}

func (l *Lexer) newToken(tt TokenType, start position.Position) Token {
	return Token{
		Type:    tt,
		Literal: l.input[start.Offset:l.offset],
		Span:    position.Span{Start: start, End: l.pos()},
	}
}

func (l *Lexer) readIdentifier(start position.Position) Token {
	for l.offset < len(l.input) && isIdentPart(l.peekRune(0)) {
		l.advance()
	}
	tok := l.newToken(TokenIdentifier, start)
	word := tok.Literal
	if l.version <= 2 {
		word = strings.ToLower(word)
	}
	if tt, ok := keywords[word]; ok {
		tok.Type = tt
	} else if wordOperators[word] {
		tok.Type = TokenOperator
	}
	return tok
}

// readNumber reads digits, letters, separators and a fractional part.
// Decoding and validation belong to the parser.
func (l *Lexer) readNumber(start position.Position) Token {
	for l.offset < len(l.input) {
		r := l.peekRune(0)
		if isDigit(r) || r == '_' || (r < utf8.RuneSelf && unicode.IsLetter(r)) {
			l.advance()
			continue
		}
		if r == '.' && isDigit(l.peekRune(1)) {
			l.advance()
			continue
		}
		break
	}
	return l.newToken(TokenNumber, start)
}

func (l *Lexer) readString(start position.Position, quote rune) Token {
	l.advance()
	for l.offset < len(l.input) {
		r := l.advance()
		if r == '\\' && l.offset < len(l.input) {
			l.advance()
			continue
		}
		if r == quote {
			return l.newToken(TokenString, start)
		}
	}
	l.report(cerrors.UnterminatedString, start)
	return l.newToken(TokenString, start)
}
