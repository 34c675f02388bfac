package token

import "fmt"

// noneLine marks a location that was never assigned.
const noneLine = 0xFEEFEE

// SourceLocation is a byte offset into decoded source text together with
// its 1-based line and column. Columns count bytes, not runes.
type SourceLocation struct {
	Index  int
	Line   int
	Column int
}

var (
	// InvalidLocation is a location that does not point into any source.
	InvalidLocation = SourceLocation{Index: -1, Line: 0, Column: 0}
	// NoLocation is an unspecified location.
	NoLocation = SourceLocation{Index: -1, Line: noneLine, Column: 0}
)

// NewLocation returns a location, panicking on impossible coordinates.
func NewLocation(index, line, column int) SourceLocation {
	if index < 0 || line < 1 || column < 1 {
		panic(fmt.Sprintf("token: invalid location %d:%d@%d", line, column, index))
	}
	return SourceLocation{Index: index, Line: line, Column: column}
}

// IsValid reports whether l points at a real position.
func (l SourceLocation) IsValid() bool {
	return l.Line >= 1 && l.Column >= 1 && l.Line != noneLine
}

// IsNone reports whether l is the unspecified location.
func (l SourceLocation) IsNone() bool {
	return l.Line == noneLine
}

// Compare orders locations by index only.
func (l SourceLocation) Compare(other SourceLocation) int {
	switch {
	case l.Index < other.Index:
		return -1
	case l.Index > other.Index:
		return 1
	}
	return 0
}

// Less reports whether l is before other.
func (l SourceLocation) Less(other SourceLocation) bool {
	return l.Index < other.Index
}

// Add returns the location n bytes further on the same line.
func (l SourceLocation) Add(n int) SourceLocation {
	return SourceLocation{Index: l.Index + n, Line: l.Line, Column: l.Column + n}
}

func (l SourceLocation) String() string {
	switch {
	case l.IsNone():
		return "<none>"
	case !l.IsValid():
		return "<invalid>"
	}
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// SourceSpan is a half-open range [Start, End) of source text.
type SourceSpan struct {
	Start SourceLocation
	End   SourceLocation
}

// NoSpan is a span without position meaning.
var NoSpan = SourceSpan{Start: NoLocation, End: NoLocation}

// NewSpan builds a span and checks that start does not follow end.
func NewSpan(start, end SourceLocation) SourceSpan {
	if start.IsValid() && end.IsValid() && end.Index < start.Index {
		panic(fmt.Sprintf("token: span end %v before start %v", end, start))
	}
	return SourceSpan{Start: start, End: end}
}

// EmptySpan returns a zero-length span at l.
func EmptySpan(l SourceLocation) SourceSpan {
	return SourceSpan{Start: l, End: l}
}

// IsNone reports whether s carries no position.
func (s SourceSpan) IsNone() bool {
	return !s.Start.IsValid() || !s.End.IsValid()
}

// IsEmpty reports whether s is missing or has zero length.
func (s SourceSpan) IsEmpty() bool {
	return s.IsNone() || s.Length() == 0
}

// Length returns the number of bytes covered by s.
func (s SourceSpan) Length() int {
	if s.IsNone() {
		return 0
	}
	return s.End.Index - s.Start.Index
}

// Contains reports whether index falls inside s.
func (s SourceSpan) Contains(index int) bool {
	return !s.IsNone() && index >= s.Start.Index && index < s.End.Index
}

// Union returns the smallest span covering both s and other. A none span
// is absorbed.
func (s SourceSpan) Union(other SourceSpan) SourceSpan {
	if s.IsNone() {
		return other
	}
	if other.IsNone() {
		return s
	}
	out := s
	if other.Start.Index < out.Start.Index {
		out.Start = other.Start
	}
	if other.End.Index > out.End.Index {
		out.End = other.End
	}
	return out
}

// IndexSpan returns the offset form of s.
func (s SourceSpan) IndexSpan() IndexSpan {
	if s.IsNone() {
		return IndexSpan{}
	}
	return IndexSpan{Start: s.Start.Index, Length: s.Length()}
}

func (s SourceSpan) String() string {
	if s.IsNone() {
		return "<none>"
	}
	return fmt.Sprintf("%v-%v", s.Start, s.End)
}

// IndexSpan is a (start, length) range of byte offsets.
type IndexSpan struct {
	Start  int
	Length int
}

// End returns the exclusive end offset.
func (s IndexSpan) End() int { return s.Start + s.Length }

// IsEmpty reports whether s has no length.
func (s IndexSpan) IsEmpty() bool { return s.Length == 0 }

// Contains reports whether offset falls inside s.
func (s IndexSpan) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End()
}

func (s IndexSpan) String() string {
	return fmt.Sprintf("[%d, %d)", s.Start, s.End())
}
