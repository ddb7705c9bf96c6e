// Package position provides source locations for LeekScript units.
// Tokens, diagnostics and declaration events all carry a Span built
// from these types.
package position

import (
	"fmt"
	"path/filepath"
	"sort"
	"unicode/utf8"
)

// Position represents a single point in source code
type Position struct {
	Filename string // Source unit name
	Line     int    // 1-based line number
	Column   int    // 1-based column number, counted in runes
	Offset   int    // 0-based byte offset in source
}

// IsValid returns true if the position is valid
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0 && p.Offset >= 0
}

// String returns a string representation of the position
func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", filepath.Base(p.Filename), p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before returns true if this position comes before other
func (p Position) Before(other Position) bool {
	if p.Filename != other.Filename {
		return p.Filename < other.Filename
	}
	return p.Offset < other.Offset
}

// After returns true if this position comes after other
func (p Position) After(other Position) bool {
	if p.Filename != other.Filename {
		return p.Filename > other.Filename
	}
	return p.Offset > other.Offset
}

// Span represents a range of source code between two positions
type Span struct {
	Start Position // Starting position (inclusive)
	End   Position // Ending position (exclusive)
}

// IsValid returns true if the span is valid
func (s Span) IsValid() bool {
	return s.Start.IsValid() && s.End.IsValid() &&
		s.Start.Filename == s.End.Filename &&
		s.Start.Offset <= s.End.Offset
}

// String returns a string representation of the span
func (s Span) String() string {
	if s.Start.Filename != "" {
		filename := filepath.Base(s.Start.Filename)
		if s.Start.Line == s.End.Line {
			return fmt.Sprintf("%s:%d:%d-%d", filename, s.Start.Line, s.Start.Column, s.End.Column)
		}
		return fmt.Sprintf("%s:%d:%d-%d:%d", filename, s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
	}

	if s.Start.Line == s.End.Line {
		return fmt.Sprintf("%d:%d-%d", s.Start.Line, s.Start.Column, s.End.Column)
	}
	return fmt.Sprintf("%d:%d-%d:%d", s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}

// Contains returns true if the span contains the given position
func (s Span) Contains(pos Position) bool {
	if !s.IsValid() || !pos.IsValid() {
		return false
	}
	if s.Start.Filename != pos.Filename {
		return false
	}
	return s.Start.Offset <= pos.Offset && pos.Offset < s.End.Offset
}

// Union returns a span that encompasses both this span and other
func (s Span) Union(other Span) Span {
	if !s.IsValid() {
		return other
	}
	if !other.IsValid() {
		return s
	}
	if s.Start.Filename != other.Start.Filename {
		return s
	}

	start := s.Start
	if other.Start.Before(start) {
		start = other.Start
	}

	end := s.End
	if other.End.After(end) {
		end = other.End
	}

	return Span{Start: start, End: end}
}

// Length returns the length of the span in bytes
func (s Span) Length() int {
	if !s.IsValid() {
		return 0
	}
	return s.End.Offset - s.Start.Offset
}

// SourceFile holds the text of a unit with a line index
type SourceFile struct {
	Filename   string
	Content    string
	lineStarts []int
}

// NewSourceFile creates a new source file from content
func NewSourceFile(filename, content string) *SourceFile {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &SourceFile{Filename: filename, Content: content, lineStarts: starts}
}

// LineCount returns the number of lines in the file
func (sf *SourceFile) LineCount() int {
	return len(sf.lineStarts)
}

// GetLine returns the specified line (1-based) or empty string if invalid
func (sf *SourceFile) GetLine(lineNum int) string {
	if lineNum < 1 || lineNum > len(sf.lineStarts) {
		return ""
	}
	start := sf.lineStarts[lineNum-1]
	end := len(sf.Content)
	if lineNum < len(sf.lineStarts) {
		end = sf.lineStarts[lineNum] - 1
	}
	if end > start && sf.Content[end-1] == '\r' {
		end--
	}
	return sf.Content[start:end]
}

// GetSpanText returns the text covered by the span
func (sf *SourceFile) GetSpanText(span Span) string {
	if !span.IsValid() || span.Start.Filename != sf.Filename {
		return ""
	}
	if span.Start.Offset > len(sf.Content) || span.End.Offset > len(sf.Content) {
		return ""
	}
	return sf.Content[span.Start.Offset:span.End.Offset]
}

// PositionFromOffset converts a byte offset to a Position
func (sf *SourceFile) PositionFromOffset(offset int) Position {
	if offset < 0 || offset > len(sf.Content) {
		return Position{}
	}
	line := sort.Search(len(sf.lineStarts), func(i int) bool {
		return sf.lineStarts[i] > offset
	})
	start := sf.lineStarts[line-1]
	return Position{
		Filename: sf.Filename,
		Line:     line,
		Column:   utf8.RuneCountInString(sf.Content[start:offset]) + 1,
		Offset:   offset,
	}
}

// OffsetFromPosition converts a line and rune column to a byte offset, or -1
func (sf *SourceFile) OffsetFromPosition(pos Position) int {
	if pos.Line < 1 || pos.Column < 1 || pos.Line > len(sf.lineStarts) {
		return -1
	}
	offset := sf.lineStarts[pos.Line-1]
	for col := 1; col < pos.Column; col++ {
		if offset >= len(sf.Content) || sf.Content[offset] == '\n' {
			return -1
		}
		_, size := utf8.DecodeRuneInString(sf.Content[offset:])
		offset += size
	}
	return offset
}

// UTF16FromOffset converts a byte offset to a 0-based line and UTF-16 character
func (sf *SourceFile) UTF16FromOffset(offset int) (line, char int) {
	if offset < 0 {
		return 0, 0
	}
	if offset > len(sf.Content) {
		offset = len(sf.Content)
	}
	pos := sf.PositionFromOffset(offset)
	line = pos.Line - 1
	for _, r := range sf.Content[sf.lineStarts[line]:offset] {
		char += utf16Width(r)
	}
	return line, char
}

// OffsetFromUTF16 converts a 0-based line and UTF-16 character to a byte offset.
// Characters past the end of the line clamp to the line end.
func (sf *SourceFile) OffsetFromUTF16(line, char int) int {
	if line < 0 {
		return 0
	}
	if line >= len(sf.lineStarts) {
		return len(sf.Content)
	}
	offset := sf.lineStarts[line]
	units := 0
	for offset < len(sf.Content) && units < char {
		r, size := utf8.DecodeRuneInString(sf.Content[offset:])
		if r == '\n' {
			break
		}
		units += utf16Width(r)
		offset += size
	}
	return offset
}

// PositionFromUTF16 converts an editor cursor to a Position
func (sf *SourceFile) PositionFromUTF16(line, char int) Position {
	return sf.PositionFromOffset(sf.OffsetFromUTF16(line, char))
}

func utf16Width(r rune) int {
	if r <= 0xFFFF {
		return 1
	}
	return 2 // Surrogate pair
}
