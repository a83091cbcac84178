package view

import "github.com/martanne/vis/internal/piece"

// ScrollTo moves the viewport so the line containing offset renders
// as the top row.
func (v *View) ScrollTo(offset piece.ByteOffset) {
	v.viewport.SetTopOffset(lineStartAt(v.buf, offset))
}

// ScrollByLines moves the viewport's top line by delta (positive scrolls
// down, negative up), clamped to the start of the buffer.
func (v *View) ScrollByLines(delta int) {
	top := v.viewport.TopOffset()
	line := int(lineNumberAt(v.buf, top))
	target := line + delta
	if target < 0 {
		target = 0
	}
	v.viewport.SetTopOffset(OffsetFromPoint(v.buf, piece.Point{Line: uint32(target)}))
}

// ScrollToReveal adjusts the viewport, if necessary, so offset falls
// within the visible rows, honoring the vertical scroll margins. It
// scrolls the minimum amount needed rather than always centering.
func (v *View) ScrollToReveal(offset piece.ByteOffset, rows int) {
	top := v.viewport.TopOffset()
	topLine := int(lineNumberAt(v.buf, top))
	targetLine := int(lineNumberAt(v.buf, offset))
	marginTop, marginBottom, _, _ := v.viewport.Margins()

	if targetLine < topLine+marginTop {
		v.ScrollByLines(targetLine - marginTop - topLine)
		return
	}
	bottomLine := topLine + rows - 1 - marginBottom
	if targetLine > bottomLine {
		v.ScrollByLines(targetLine - bottomLine)
	}
}

// CenterOn scrolls so offset's line renders at the vertical midpoint
// of a viewport rows rows tall.
func (v *View) CenterOn(offset piece.ByteOffset, rows int) {
	line := int(lineNumberAt(v.buf, offset))
	target := line - rows/2
	if target < 0 {
		target = 0
	}
	v.viewport.SetTopOffset(OffsetFromPoint(v.buf, piece.Point{Line: uint32(target)}))
}

// PageDown scrolls forward by rows lines.
func (v *View) PageDown(rows int) { v.ScrollByLines(rows) }

// PageUp scrolls backward by rows lines.
func (v *View) PageUp(rows int) { v.ScrollByLines(-rows) }

// HalfPageDown scrolls forward by half of rows lines.
func (v *View) HalfPageDown(rows int) { v.ScrollByLines(rows / 2) }

// HalfPageUp scrolls backward by half of rows lines.
func (v *View) HalfPageUp(rows int) { v.ScrollByLines(-(rows / 2)) }
