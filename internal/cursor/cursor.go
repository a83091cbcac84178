package cursor

import (
	"fmt"

	"github.com/martanne/vis/internal/piece"
)

// ByteOffset is an alias for piece.ByteOffset for convenience.
type ByteOffset = piece.ByteOffset

// Range is an alias for piece.Range for convenience.
type Range = piece.Range

// Point is an alias for piece.Point for convenience.
type Point = piece.Point

// Edit is an alias for piece.Edit for convenience.
type Edit = piece.Edit

// Cursor represents a single insertion point in the buffer. Cursor is
// an immutable value type.
type Cursor struct {
	offset ByteOffset
}

// NewCursor creates a cursor at the given offset.
func NewCursor(offset ByteOffset) Cursor {
	if offset < 0 {
		offset = 0
	}
	return Cursor{offset: offset}
}

// Offset returns the cursor's byte offset.
func (c Cursor) Offset() ByteOffset { return c.offset }

// MoveTo returns a new cursor at the given offset.
func (c Cursor) MoveTo(offset ByteOffset) Cursor {
	if offset < 0 {
		offset = 0
	}
	return Cursor{offset: offset}
}

// MoveBy returns a new cursor shifted by delta bytes.
func (c Cursor) MoveBy(delta ByteOffset) Cursor {
	newOffset := c.offset + delta
	if newOffset < 0 {
		newOffset = 0
	}
	return Cursor{offset: newOffset}
}

// Clamp returns a cursor clamped to the valid range [0, maxOffset].
func (c Cursor) Clamp(maxOffset ByteOffset) Cursor {
	switch {
	case c.offset < 0:
		return Cursor{offset: 0}
	case c.offset > maxOffset:
		return Cursor{offset: maxOffset}
	default:
		return c
	}
}

// String renders the cursor for diagnostics.
func (c Cursor) String() string { return fmt.Sprintf("Cursor(%d)", c.offset) }

// Equals returns true if two cursors are at the same position.
func (c Cursor) Equals(other Cursor) bool { return c.offset == other.offset }

// Compare returns -1 if c < other, 0 if equal, 1 if c > other.
func (c Cursor) Compare(other Cursor) int {
	switch {
	case c.offset < other.offset:
		return -1
	case c.offset > other.offset:
		return 1
	default:
		return 0
	}
}

// Before returns true if c is before other.
func (c Cursor) Before(other Cursor) bool { return c.offset < other.offset }

// After returns true if c is after other.
func (c Cursor) After(other Cursor) bool { return c.offset > other.offset }

// ToSelection converts this cursor to a selection with no extent.
func (c Cursor) ToSelection() Selection { return Selection{Anchor: c.offset, Head: c.offset} }
