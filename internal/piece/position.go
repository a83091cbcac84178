package piece

import (
	"fmt"
	"sync/atomic"
)

// ByteOffset is a byte position in [0, Size()].
type ByteOffset = int64

// Range is a half-open byte range [Start, End).
type Range struct {
	Start ByteOffset
	End   ByteOffset
}

// NewRange creates a Range from start and end offsets.
func NewRange(start, end ByteOffset) Range { return Range{Start: start, End: end} }

// Len returns the length of the range in bytes.
func (r Range) Len() ByteOffset { return r.End - r.Start }

// IsEmpty returns true if the range has zero length.
func (r Range) IsEmpty() bool { return r.Start == r.End }

// IsValid returns true if Start <= End.
func (r Range) IsValid() bool { return r.Start <= r.End }

// Contains returns true if offset is within [Start, End).
func (r Range) Contains(offset ByteOffset) bool {
	return offset >= r.Start && offset < r.End
}

// Overlaps returns true if this range overlaps with another.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// Shift returns a new range shifted by delta.
func (r Range) Shift(delta ByteOffset) Range {
	return Range{Start: r.Start + delta, End: r.End + delta}
}

// String renders the range as "[start:end)".
func (r Range) String() string { return fmt.Sprintf("[%d:%d)", r.Start, r.End) }

// Point is a 0-indexed line/column position; Column counts bytes from
// the start of the line.
type Point struct {
	Line   uint32
	Column uint32
}

// String renders the point as "(line:col)".
func (p Point) String() string { return fmt.Sprintf("(%d:%d)", p.Line, p.Column) }

// RevisionID uniquely identifies a buffer revision. It increases
// monotonically with every successful mutation.
type RevisionID uint64

var revisionCounter uint64

// nextRevisionID generates a new unique, monotonically increasing revision ID.
func nextRevisionID() RevisionID {
	return RevisionID(atomic.AddUint64(&revisionCounter, 1))
}

// MarkID names a tracked position. Callers mint their own ids (e.g.
// from the command language's `k` verb or a rune for a sam-style
// named mark).
type MarkID string
