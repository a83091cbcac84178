package view

import "github.com/martanne/vis/internal/piece"

// StyleID indexes into a per-render StyleTable rather than embedding
// a full Style in every Cell, so a line of identically-styled text
// costs one Style, not one per cell.
type StyleID uint16

// CellFlags marks structural properties of a cell beyond its glyph.
type CellFlags uint8

const (
	FlagNone CellFlags = 0
	// FlagContinuation marks the trailing cell(s) of a wide grapheme.
	FlagContinuation CellFlags = 1 << iota
	// FlagTab marks a cell produced by expanding a tab character.
	FlagTab
	// FlagEOL marks the synthetic cell past the last grapheme of a line.
	FlagEOL
)

// Cell is one rendered terminal cell.
type Cell struct {
	Grapheme    [4]byte
	GraphemeLen uint8
	Width       uint8
	Offset      piece.ByteOffset
	Style       StyleID
	Flags       CellFlags
}

// String returns the cell's grapheme bytes as a string. Multi-rune
// clusters (base + combining marks) only have their leading bytes
// preserved within the 4-byte budget; callers that need the full
// cluster should re-read it from the buffer at Offset.
func (c Cell) String() string { return string(c.Grapheme[:c.GraphemeLen]) }

// IsContinuation reports whether c is a filler cell trailing a
// double-width grapheme to its left.
func (c Cell) IsContinuation() bool { return c.Flags&FlagContinuation != 0 }

// EmptyCell returns a blank cell (a single space) with the given style.
func EmptyCell(style StyleID) Cell {
	c := Cell{GraphemeLen: 1, Width: 1, Style: style}
	c.Grapheme[0] = ' '
	return c
}

// ContinuationCell returns a zero-width filler cell following a wide
// grapheme, at the same source offset and style as its leader.
func ContinuationCell(offset piece.ByteOffset, style StyleID) Cell {
	return Cell{Offset: offset, Style: style, Flags: FlagContinuation}
}

// Line is one visual row produced by View.Render.
type Line struct {
	// Number is the 0-indexed logical line (not visual row) this came from.
	Number uint32
	Cells  []Cell
	// Terminator is the byte length of the line ending that followed
	// this line in the buffer (1 for LF, 2 for CRLF), -1 if the line
	// runs to end-of-buffer with no terminator, or 0 on a wrapped row
	// that is not the last row of its logical line. A lone CR is not
	// a line ending.
	Terminator int
}

// Width returns the total visual width of the line in columns.
func (l Line) Width() int {
	w := 0
	for _, c := range l.Cells {
		if c.Flags&FlagTab != 0 {
			w++ // every tab cell, continuation or not, fills one column
			continue
		}
		w += int(c.Width)
	}
	return w
}

// Text reconstructs the line's rendered text, ignoring continuation
// cells and any synthetic trailing EOL cell.
func (l Line) Text() string {
	b := make([]byte, 0, len(l.Cells))
	for _, c := range l.Cells {
		if c.IsContinuation() || c.Flags&FlagEOL != 0 {
			continue
		}
		b = append(b, c.Grapheme[:c.GraphemeLen]...)
	}
	return string(b)
}
