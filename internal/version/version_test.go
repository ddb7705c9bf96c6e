package version

import "testing"

func TestFeatureGates(t *testing.T) {
	tests := []struct {
		version int
		feature Feature
		want    bool
	}{
		{1, Classes, false},
		{2, Classes, true},
		{1, NotAsVariableName, true},
		{2, NotAsVariableName, false},
		{2, StrictKeywords, false},
		{3, StrictKeywords, true},
		{3, Maps, false},
		{4, Maps, true},
		{4, Slices, true},
		{3, LegacyArrays, true},
		{4, LegacyArrays, false},
		{4, NonNullAssertion, true},
	}
	for _, tt := range tests {
		lang := MustNew(tt.version)
		if got := lang.Has(tt.feature); got != tt.want {
			t.Fatalf("v%d %s: expected %v, got %v", tt.version, tt.feature, tt.want, got)
		}
	}
}

func TestInvalidVersion(t *testing.T) {
	for _, n := range []int{0, 5, -1} {
		if _, err := New(n); err == nil {
			t.Fatalf("expected error for version %d", n)
		}
	}
}

func TestSatisfies(t *testing.T) {
	ok, err := MustNew(3).Satisfies(">= 2, < 4")
	if err != nil || !ok {
		t.Fatalf("expected v3 to satisfy range, got %v %v", ok, err)
	}
	if _, err := MustNew(3).Satisfies("not a constraint"); err == nil {
		t.Fatalf("expected constraint parse error")
	}
	if MustNew(4).String() != "v4" {
		t.Fatalf("unexpected String()")
	}
}
