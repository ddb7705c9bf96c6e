package errors

import (
	"fmt"
	"testing"

	"github.com/leekwars/leekc/internal/position"
)

func TestFatalAndRecoverable(t *testing.T) {
	span := position.Span{
		Start: position.Position{Filename: "ai", Line: 3, Column: 2, Offset: 10},
		End:   position.Position{Filename: "ai", Line: 3, Column: 4, Offset: 12},
	}
	fatal := Fatal(NoIfBlock, span)
	if !IsFatal(fatal) || IsRecoverable(fatal) {
		t.Fatalf("expected fatal error, got %#v", fatal)
	}
	if got := fatal.Error(); got != "ai:3:2: [SYNTAX:NO_IF_BLOCK]" {
		t.Fatalf("unexpected message %q", got)
	}

	rec := Recoverable(InvalidNumber, span, "12x")
	wrapped := fmt.Errorf("literal: %w", rec)
	if IsFatal(wrapped) || !IsRecoverable(wrapped) {
		t.Fatalf("expected wrapped recoverable error")
	}
	if !HasCode(wrapped, InvalidNumber) {
		t.Fatalf("expected INVALID_NUMBER code")
	}
	if !IsFatal(fmt.Errorf("io failure")) {
		t.Fatalf("foreign errors must abort the compile")
	}
	if IsFatal(nil) {
		t.Fatalf("nil is not fatal")
	}
}

func TestCodeCategory(t *testing.T) {
	tests := map[Code]Category{
		UnterminatedString:  CategoryLexical,
		BreakOutOfLoop:      CategorySemantic,
		ReferenceDeprecated: CategoryDeprecated,
		AITimeout:           CategoryResource,
		ValueExpected:       CategorySyntax,
	}
	for code, want := range tests {
		if got := code.Category(); got != want {
			t.Fatalf("%s: expected %s, got %s", code, want, got)
		}
	}
}
