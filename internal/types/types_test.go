package types

import "testing"

func TestUnionNormalization(t *testing.T) {
	tests := []struct {
		name string
		a, b *Type
	}{
		{"optional equals explicit union", Optional(Integer), Union(Integer, Null)},
		{"order independent", Union(String, Integer), Union(Integer, String)},
		{"flattened", Union(Union(Integer, Real), String), Union(Integer, Union(Real, String))},
		{"deduplicated", Union(Integer, Integer, Null), Optional(Integer)},
		{"optional of optional", Optional(Optional(Real)), Optional(Real)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !Equal(tt.a, tt.b) {
				t.Fatalf("expected %s == %s", tt.a, tt.b)
			}
		})
	}
	if u := Union(Integer, Integer); u != Integer {
		t.Fatalf("single member union must collapse, got %s", u)
	}
}

func TestTypeStrings(t *testing.T) {
	tests := []struct {
		typ  *Type
		want string
	}{
		{ArrayOf(Integer), "Array<integer>"},
		{Array, "Array"},
		{MapOf(String, ArrayOf(Integer)), "Map<string, Array<integer>>"},
		{SetOf(Real), "Set<real>"},
		{FunctionOf([]*Type{Integer, String}, Void), "Function<integer, string => void>"},
		{FunctionOf(nil, Integer), "Function<=> integer>"},
		{Function, "Function"},
		{Optional(UserClass("Cell")), "null | Cell"},
		{Union(UserClass("B"), UserClass("A")), "A | B"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Fatalf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestPredicates(t *testing.T) {
	if !Optional(Integer).IsOptional() || Integer.IsOptional() {
		t.Fatalf("unexpected IsOptional results")
	}
	if !Function.IsUnconstrainedFunction() || FunctionOf(nil, Void).IsUnconstrainedFunction() {
		t.Fatalf("unexpected IsUnconstrainedFunction results")
	}
	if Primitives["big_integer"] != BigInteger {
		t.Fatalf("missing primitive keyword")
	}
}
