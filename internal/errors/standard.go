// Package errors defines the fatal failure type of a compile and the stable
// codes shared by fatal errors and diagnostics.
package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leekwars/leekc/internal/position"
)

// Category groups codes by the stage that raises them
type Category string

const (
	CategoryLexical    Category = "LEXICAL"
	CategorySyntax     Category = "SYNTAX"
	CategorySemantic   Category = "SEMANTIC"
	CategoryResource   Category = "RESOURCE"
	CategoryDeprecated Category = "DEPRECATED"
)

// CompileError is a failure raised while compiling a unit.
// A recoverable error may be turned into a diagnostic by the caller;
// any other error aborts the whole compile.
type CompileError struct {
	Code        Code
	Span        position.Span
	Params      []string
	Recoverable bool
}

// Error implements the error interface
func (e *CompileError) Error() string {
	var b strings.Builder
	if e.Span.Start.IsValid() {
		b.WriteString(e.Span.Start.String())
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "[%s:%s]", e.Code.Category(), e.Code)
	if len(e.Params) > 0 {
		b.WriteString(" ")
		b.WriteString(strings.Join(e.Params, ", "))
	}
	return b.String()
}

// Fatal creates an error that aborts the compile
func Fatal(code Code, span position.Span, params ...string) *CompileError {
	return &CompileError{Code: code, Span: span, Params: params}
}

// Recoverable creates an error the caller may downgrade to a diagnostic
func Recoverable(code Code, span position.Span, params ...string) *CompileError {
	return &CompileError{Code: code, Span: span, Params: params, Recoverable: true}
}

// AsCompileError unwraps err into a CompileError
func AsCompileError(err error) (*CompileError, bool) {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsFatal reports whether err must abort the compile
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	ce, ok := AsCompileError(err)
	return !ok || !ce.Recoverable
}

// IsRecoverable reports whether err can be downgraded to a diagnostic
func IsRecoverable(err error) bool {
	ce, ok := AsCompileError(err)
	return ok && ce.Recoverable
}

// HasCode reports whether err is a CompileError with the given code
func HasCode(err error, code Code) bool {
	ce, ok := AsCompileError(err)
	return ok && ce.Code == code
}
