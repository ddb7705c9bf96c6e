package lexer

import (
	"fmt"

	"github.com/leekwars/leekc/internal/position"
)

// TokenType represents the type of a token
type TokenType int

// Token types
const (
	TokenEOF TokenType = iota

	// Punctuation
	TokenSemicolon // ;
	TokenLBrace    // {
	TokenRBrace    // }
	TokenLParen    // (
	TokenRParen    // )
	TokenLBracket  // [
	TokenRBracket  // ]
	TokenComma     // ,
	TokenDot       // .
	TokenDotDot    // ..
	TokenArrow     // => or ->

	// Operators and literals
	TokenOperator
	TokenIdentifier
	TokenString
	TokenNumber
	TokenLemniscate // ∞
	TokenPi         // π

	// Keywords
	TokenVar
	TokenGlobal
	TokenReturn
	TokenFor
	TokenWhile
	TokenDo
	TokenIf
	TokenElse
	TokenBreak
	TokenContinue
	TokenFunction
	TokenClass
	TokenInclude
	TokenExtends
	TokenNew
	TokenNot
	TokenSuper
	TokenThis
	TokenTrue
	TokenFalse
	TokenNull
	TokenIn
	TokenAs
)

var tokenNames = map[TokenType]string{
	TokenEOF:        "EOF",
	TokenSemicolon:  ";",
	TokenLBrace:     "{",
	TokenRBrace:     "}",
	TokenLParen:     "(",
	TokenRParen:     ")",
	TokenLBracket:   "[",
	TokenRBracket:   "]",
	TokenComma:      ",",
	TokenDot:        ".",
	TokenDotDot:     "..",
	TokenArrow:      "=>",
	TokenOperator:   "OPERATOR",
	TokenIdentifier: "IDENT",
	TokenString:     "STRING",
	TokenNumber:     "NUMBER",
	TokenLemniscate: "∞",
	TokenPi:         "π",
	TokenVar:        "var",
	TokenGlobal:     "global",
	TokenReturn:     "return",
	TokenFor:        "for",
	TokenWhile:      "while",
	TokenDo:         "do",
	TokenIf:         "if",
	TokenElse:       "else",
	TokenBreak:      "break",
	TokenContinue:   "continue",
	TokenFunction:   "function",
	TokenClass:      "class",
	TokenInclude:    "include",
	TokenExtends:    "extends",
	TokenNew:        "new",
	TokenNot:        "not",
	TokenSuper:      "super",
	TokenThis:       "this",
	TokenTrue:       "true",
	TokenFalse:      "false",
	TokenNull:       "null",
	TokenIn:         "in",
	TokenAs:         "as",
}

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(tt))
}

// IsKeyword reports whether the type is a reserved word
func (tt TokenType) IsKeyword() bool {
	return tt >= TokenVar && tt <= TokenAs
}

var keywords = map[string]TokenType{
	"var":      TokenVar,
	"global":   TokenGlobal,
	"return":   TokenReturn,
	"for":      TokenFor,
	"while":    TokenWhile,
	"do":       TokenDo,
	"if":       TokenIf,
	"else":     TokenElse,
	"break":    TokenBreak,
	"continue": TokenContinue,
	"function": TokenFunction,
	"class":    TokenClass,
	"include":  TokenInclude,
	"extends":  TokenExtends,
	"new":      TokenNew,
	"not":      TokenNot,
	"super":    TokenSuper,
	"this":     TokenThis,
	"true":     TokenTrue,
	"false":    TokenFalse,
	"null":     TokenNull,
	"in":       TokenIn,
	"as":       TokenAs,
}

// wordOperators lex as TokenOperator
var wordOperators = map[string]bool{
	"and":        true,
	"or":         true,
	"xor":        true,
	"instanceof": true,
	"is":         true,
}

// Token is a lexeme with its type and source span. Tokens are immutable
// once produced and shared by every cursor over the same unit.
type Token struct {
	Type    TokenType
	Literal string
	Span    position.Span
}

// Is reports whether the token is an operator with the given literal
func (t Token) Is(op string) bool {
	return t.Type == TokenOperator && t.Literal == op
}

// Line returns the 1-based line of the token start
func (t Token) Line() int {
	return t.Span.Start.Line
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %s", t.Type, t.Literal, t.Span.Start)
}
