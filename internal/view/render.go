package view

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/martanne/vis/internal/piece"
)

// WrapMode controls how a logical line wider than the viewport is
// rendered.
type WrapMode uint8

const (
	// WrapNone truncates a line past the viewport's column count.
	WrapNone WrapMode = iota
	// WrapChar wraps a line onto additional visual rows at the
	// nearest cell boundary, without regard to word breaks.
	WrapChar
)

// View renders a window onto buf through viewport, styling cells with
// styler and a tab width taken from buf itself.
type View struct {
	buf      *piece.Buffer
	viewport *Viewport
	styler   Styler
	resolver *Resolver
	wrap     WrapMode
}

// NewView creates a View over buf. A nil styler renders with no
// syntax spans (NullStyler).
func NewView(buf *piece.Buffer, viewport *Viewport, styler Styler) *View {
	if styler == nil {
		styler = NullStyler{}
	}
	return &View{buf: buf, viewport: viewport, styler: styler, resolver: NewResolver()}
}

func (v *View) Viewport() *Viewport { return v.viewport }
func (v *View) Resolver() *Resolver { return v.resolver }
func (v *View) SetWrapMode(w WrapMode) { v.wrap = w }
func (v *View) WrapMode() WrapMode     { return v.wrap }
func (v *View) SetStyler(s Styler) {
	if s == nil {
		s = NullStyler{}
	}
	v.styler = s
}

// Render produces rows visual rows of cols columns starting from the
// buffer line containing topOffset, expanding tabs and segmenting
// grapheme clusters via uniseg/go-runewidth. It returns a fresh
// StyleTable alongside the lines so the caller can resolve each
// Cell.Style back to a view.Style.
func (v *View) Render(topOffset piece.ByteOffset, cols, rows int) ([]Line, *StyleTable) {
	table := NewStyleTable()
	if cols < 1 {
		cols = 1
	}
	size := v.buf.Size()
	tabWidth := v.buf.TabWidth()
	if tabWidth < 1 {
		tabWidth = 1
	}

	lineNum := lineNumberAt(v.buf, topOffset)
	offset := lineStartAt(v.buf, topOffset)

	var out []Line
	for len(out) < rows && offset <= size {
		contentEnd, terminator, next := lineBounds(v.buf, offset, size)
		text := v.buf.TextRange(offset, contentEnd)
		spans := v.styler.Style(piece.NewRange(offset, contentEnd))
		cells := layoutLine(text, offset, tabWidth, spans, v.resolver, table)

		rowsForLine := wrapCells(cells, cols, v.wrap)
		for i, rowCells := range rowsForLine {
			if len(out) >= rows {
				break
			}
			term := 0
			if i == len(rowsForLine)-1 {
				term = terminator
			}
			out = append(out, Line{Number: lineNum, Cells: rowCells, Terminator: term})
		}

		lineNum++
		offset = next
		if contentEnd == size && terminator == -1 {
			break
		}
	}
	return out, table
}

// lineBounds returns, for the logical line starting at offset: the
// offset where its content ends (before any line-ending bytes), the
// terminator length (1 for a lone LF, 2 for CRLF, -1 for "no
// terminator, end of buffer"), and the offset the next line starts
// at. A lone CR with no following LF is not recognized as a line
// ending here — the old Mac convention is not supported for reading,
// only as a LineEnding choice for newly inserted text.
func lineBounds(buf *piece.Buffer, offset, size piece.ByteOffset) (contentEnd piece.ByteOffset, terminator int, next piece.ByteOffset) {
	nl := lineEndAt(buf, offset, size)
	if nl >= size {
		return size, -1, size
	}
	if nl > offset {
		if prev, ok := buf.ByteAt(nl - 1); ok && prev == '\r' {
			return nl - 1, 2, nl + 1
		}
	}
	return nl, 1, nl + 1
}

// lineEndAt returns the offset of the next '\n' at or after offset,
// or size if the line runs to end of buffer.
func lineEndAt(buf *piece.Buffer, offset, size piece.ByteOffset) piece.ByteOffset {
	it := buf.Iter(offset, size)
	cursor := offset
	for {
		chunk, ok := it.Next()
		if !ok {
			return size
		}
		for i, b := range chunk {
			if b == '\n' {
				return cursor + piece.ByteOffset(i)
			}
		}
		cursor += piece.ByteOffset(len(chunk))
	}
}

// lineStartAt returns the offset of the first byte of the line
// containing offset (the byte right after the nearest preceding '\n',
// or 0).
func lineStartAt(buf *piece.Buffer, offset piece.ByteOffset) piece.ByteOffset {
	if offset <= 0 {
		return 0
	}
	it := buf.IterBack(0, offset)
	cursor := offset
	for {
		chunk, ok := it.Next()
		if !ok {
			return 0
		}
		start := cursor - piece.ByteOffset(len(chunk))
		for i := len(chunk) - 1; i >= 0; i-- {
			if chunk[i] == '\n' {
				return start + piece.ByteOffset(i) + 1
			}
		}
		cursor = start
	}
}

// lineNumberAt counts the '\n' bytes strictly before offset, an O(n)
// scan from the start of the buffer — the price of not maintaining a
// global line index alongside the piece chain.
func lineNumberAt(buf *piece.Buffer, offset piece.ByteOffset) uint32 {
	it := buf.Iter(0, offset)
	var n uint32
	for {
		chunk, ok := it.Next()
		if !ok {
			return n
		}
		for _, b := range chunk {
			if b == '\n' {
				n++
			}
		}
	}
}

// LineRange returns the byte range of line n: from its first byte up
// to (and not including) the first byte of line n+1, or buf.Size() if
// n is the last line. Used by the address grammar's bare line-number
// addresses, which name a whole line including its terminator.
func LineRange(buf *piece.Buffer, n uint32) piece.Range {
	start := OffsetFromPoint(buf, piece.Point{Line: n})
	end := OffsetFromPoint(buf, piece.Point{Line: n + 1})
	return piece.NewRange(start, end)
}

// LineCount returns the number of lines in buf, counting a final
// unterminated line as one more.
func LineCount(buf *piece.Buffer) uint32 {
	return lineNumberAt(buf, buf.Size()) + 1
}

// PointFromOffset converts a byte offset to a line/column position.
func PointFromOffset(buf *piece.Buffer, offset piece.ByteOffset) piece.Point {
	line := lineNumberAt(buf, offset)
	start := lineStartAt(buf, offset)
	return piece.Point{Line: line, Column: uint32(offset - start)}
}

// OffsetFromPoint converts a line/column position to a byte offset,
// clamping column to the line's actual length.
func OffsetFromPoint(buf *piece.Buffer, p piece.Point) piece.ByteOffset {
	size := buf.Size()
	offset := piece.ByteOffset(0)
	for l := uint32(0); l < p.Line; l++ {
		end := lineEndAt(buf, offset, size)
		if end >= size {
			return size
		}
		offset = end + 1
	}
	end := lineEndAt(buf, offset, size)
	col := piece.ByteOffset(p.Column)
	if offset+col > end {
		return end
	}
	return offset + col
}

func layoutLine(text string, baseOffset piece.ByteOffset, tabWidth int, spans []StyleSpan, resolver *Resolver, table *StyleTable) []Cell {
	cells := make([]Cell, 0, len(text))
	col := 0
	byteOff := 0
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		cluster := gr.Str()
		clusterOffset := baseOffset + piece.ByteOffset(byteOff)
		byteOff += len(cluster)
		style := resolver.Resolve(clusterOffset, spans)
		id := table.Intern(style)

		if cluster == "\t" {
			width := tabWidth - col%tabWidth
			for i := 0; i < width; i++ {
				c := Cell{Offset: clusterOffset, Style: id, Flags: FlagTab}
				if i == 0 {
					c.GraphemeLen = 1
					c.Grapheme[0] = ' '
					c.Width = 1
				} else {
					c.Flags |= FlagContinuation
				}
				cells = append(cells, c)
				col++
			}
			continue
		}

		w := runewidth.StringWidth(cluster)
		if w < 1 {
			w = 1
		}
		c := Cell{Offset: clusterOffset, Style: id, Width: uint8(w)}
		n := copy(c.Grapheme[:], cluster)
		c.GraphemeLen = uint8(n)
		cells = append(cells, c)
		col++
		for i := 1; i < w; i++ {
			cells = append(cells, ContinuationCell(clusterOffset, id))
			col++
		}
	}
	return cells
}

// wrapCells splits a logical line's cells into one or more visual
// rows of at most cols cells, per mode.
func wrapCells(cells []Cell, cols int, mode WrapMode) [][]Cell {
	if len(cells) <= cols {
		return [][]Cell{cells}
	}
	if mode == WrapNone {
		return [][]Cell{cells[:cols]}
	}
	var rows [][]Cell
	for len(cells) > 0 {
		n := cols
		if n > len(cells) {
			n = len(cells)
		}
		rows = append(rows, cells[:n])
		cells = cells[n:]
	}
	return rows
}
