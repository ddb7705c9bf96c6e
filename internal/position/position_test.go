package position

import (
	"testing"
)

func TestPosition(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		pos      Position
		isValid  bool
	}{
		{
			name:     "Valid position with filename",
			pos:      Position{Filename: "dir/ai.leek", Line: 10, Column: 5, Offset: 100},
			isValid:  true,
			expected: "ai.leek:10:5",
		},
		{
			name:     "Valid position without filename",
			pos:      Position{Line: 1, Column: 1},
			isValid:  true,
			expected: "1:1",
		},
		{
			name: "Invalid position - zero line",
			pos:  Position{Line: 0, Column: 1},
		},
		{
			name: "Invalid position - negative offset",
			pos:  Position{Line: 1, Column: 1, Offset: -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pos.IsValid(); got != tt.isValid {
				t.Fatalf("IsValid() = %v, want %v", got, tt.isValid)
			}
			if tt.expected != "" && tt.pos.String() != tt.expected {
				t.Fatalf("String() = %q, want %q", tt.pos.String(), tt.expected)
			}
		})
	}
}

func TestSpanUnionAndContains(t *testing.T) {
	a := Span{
		Start: Position{Filename: "f", Line: 1, Column: 1, Offset: 0},
		End:   Position{Filename: "f", Line: 1, Column: 4, Offset: 3},
	}
	b := Span{
		Start: Position{Filename: "f", Line: 2, Column: 1, Offset: 10},
		End:   Position{Filename: "f", Line: 2, Column: 3, Offset: 12},
	}
	u := a.Union(b)
	if u.Start.Offset != 0 || u.End.Offset != 12 {
		t.Fatalf("unexpected union %v", u)
	}
	if !u.Contains(Position{Filename: "f", Line: 1, Column: 6, Offset: 5}) {
		t.Fatalf("expected union to contain offset 5")
	}
	if a.Contains(Position{Filename: "g", Line: 1, Column: 1, Offset: 1}) {
		t.Fatalf("span must not contain a position from another file")
	}
	if got := u.String(); got != "f:1:1-2:3" {
		t.Fatalf("unexpected span string %q", got)
	}
}

func TestSourceFileOffsets(t *testing.T) {
	sf := NewSourceFile("ai", "var a = 1;\r\nvar é = 2;\nreturn é;")
	if sf.LineCount() != 3 {
		t.Fatalf("expected 3 lines, got %d", sf.LineCount())
	}
	if got := sf.GetLine(1); got != "var a = 1;" {
		t.Fatalf("unexpected line 1 %q", got)
	}
	pos := sf.PositionFromOffset(len("var a = 1;\r\nvar é"))
	if pos.Line != 2 || pos.Column != 6 {
		t.Fatalf("unexpected position %#v", pos)
	}
	if off := sf.OffsetFromPosition(pos); off != pos.Offset {
		t.Fatalf("round trip offset %d, want %d", off, pos.Offset)
	}
	if off := sf.OffsetFromPosition(Position{Line: 9, Column: 1}); off != -1 {
		t.Fatalf("expected -1 for an out of range line, got %d", off)
	}
}

func TestUTF16Conversion(t *testing.T) {
	// U+1F600 takes two UTF-16 units and four bytes
	sf := NewSourceFile("ai", "a\n\U0001F600b = 1")
	off := sf.OffsetFromUTF16(1, 2)
	if off != 2+4 {
		t.Fatalf("expected offset 6, got %d", off)
	}
	line, char := sf.UTF16FromOffset(off)
	if line != 1 || char != 2 {
		t.Fatalf("expected 1:2, got %d:%d", line, char)
	}
	pos := sf.PositionFromUTF16(1, 2)
	if pos.Line != 2 || pos.Column != 2 {
		t.Fatalf("unexpected cursor position %#v", pos)
	}
	if off := sf.OffsetFromUTF16(0, 99); off != 1 {
		t.Fatalf("expected clamp to line end, got %d", off)
	}
}
