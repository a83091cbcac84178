package backend

import (
	runewidth "github.com/mattn/go-runewidth"

	"github.com/martanne/vis/internal/view"
)

// ScreenBuffer is a double-buffered cell grid: writes land in the back
// buffer and are tracked as dirty, ComputeDiff reports only the cells
// that differ from what was last shown, and Sync promotes the back
// buffer to front once those changes have been applied.
type ScreenBuffer struct {
	width, height int
	front         [][]Cell
	back          [][]Cell
	dirty         [][]bool
	fullRedraw    bool
}

// NewScreenBuffer creates a screen buffer of the given size.
func NewScreenBuffer(width, height int) *ScreenBuffer {
	sb := &ScreenBuffer{width: width, height: height, fullRedraw: true}
	sb.allocate()
	return sb
}

func (sb *ScreenBuffer) allocate() {
	sb.front = make([][]Cell, sb.height)
	sb.back = make([][]Cell, sb.height)
	sb.dirty = make([][]bool, sb.height)
	for y := 0; y < sb.height; y++ {
		sb.front[y] = make([]Cell, sb.width)
		sb.back[y] = make([]Cell, sb.width)
		sb.dirty[y] = make([]bool, sb.width)
		for x := 0; x < sb.width; x++ {
			sb.front[y][x] = EmptyCell()
			sb.back[y][x] = EmptyCell()
		}
	}
}

// Resize resizes the buffer, preserving as much of the back buffer's
// content as fits and forcing a full redraw on the next diff.
func (sb *ScreenBuffer) Resize(width, height int) {
	if width == sb.width && height == sb.height {
		return
	}
	oldBack := sb.back
	oldWidth, oldHeight := sb.width, sb.height

	sb.width, sb.height = width, height
	sb.allocate()

	copyHeight := min(oldHeight, height)
	copyWidth := min(oldWidth, width)
	for y := 0; y < copyHeight; y++ {
		for x := 0; x < copyWidth; x++ {
			sb.back[y][x] = oldBack[y][x]
		}
	}
	sb.fullRedraw = true
}

func (sb *ScreenBuffer) Size() (int, int) { return sb.width, sb.height }

func (sb *ScreenBuffer) SetCell(x, y int, cell Cell) {
	if x < 0 || x >= sb.width || y < 0 || y >= sb.height {
		return
	}
	sb.back[y][x] = cell
	sb.dirty[y][x] = true
}

func (sb *ScreenBuffer) GetCell(x, y int) Cell {
	if x < 0 || x >= sb.width || y < 0 || y >= sb.height {
		return EmptyCell()
	}
	return sb.back[y][x]
}

// GetFrontCell returns the cell last synced to the front buffer.
func (sb *ScreenBuffer) GetFrontCell(x, y int) Cell {
	if x < 0 || x >= sb.width || y < 0 || y >= sb.height {
		return EmptyCell()
	}
	return sb.front[y][x]
}

func (sb *ScreenBuffer) Fill(rect ScreenRect, cell Cell) {
	for y := rect.Top; y < rect.Bottom && y < sb.height; y++ {
		for x := rect.Left; x < rect.Right && x < sb.width; x++ {
			if x >= 0 && y >= 0 {
				sb.back[y][x] = cell
				sb.dirty[y][x] = true
			}
		}
	}
}

func (sb *ScreenBuffer) Clear() {
	empty := EmptyCell()
	for y := 0; y < sb.height; y++ {
		for x := 0; x < sb.width; x++ {
			sb.back[y][x] = empty
			sb.dirty[y][x] = true
		}
	}
}

func (sb *ScreenBuffer) ClearRegion(rect ScreenRect) {
	sb.Fill(rect, EmptyCell())
}

// SetLine sets a row of cells starting at (x, y).
func (sb *ScreenBuffer) SetLine(x, y int, cells []Cell) {
	if y < 0 || y >= sb.height {
		return
	}
	for i, cell := range cells {
		col := x + i
		if col >= 0 && col < sb.width {
			sb.back[y][col] = cell
			sb.dirty[y][col] = true
		}
	}
}

// SetString writes s starting at (x, y) in the given style, inserting
// a zero-width continuation cell after any double-width rune.
func (sb *ScreenBuffer) SetString(x, y int, s string, style view.Style) {
	if y < 0 || y >= sb.height {
		return
	}
	col := x
	for _, r := range s {
		if col < 0 {
			col++
			continue
		}
		if col >= sb.width {
			break
		}
		width := runewidth.RuneWidth(r)
		sb.back[y][col] = Cell{Rune: r, Width: width, Style: style}
		sb.dirty[y][col] = true
		col++
		if width == 2 && col < sb.width {
			sb.back[y][col] = Cell{Rune: 0, Width: 0, Style: style}
			sb.dirty[y][col] = true
			col++
		}
	}
}

// DiffChange is a single cell that differs between the back and front
// buffers.
type DiffChange struct {
	X, Y int
	Cell Cell
}

// ComputeDiff returns every dirty cell that actually differs from what
// was last synced, or the whole grid when a full redraw is pending.
func (sb *ScreenBuffer) ComputeDiff() []DiffChange {
	var changes []DiffChange
	for y := 0; y < sb.height; y++ {
		for x := 0; x < sb.width; x++ {
			if sb.fullRedraw || sb.dirty[y][x] {
				if sb.fullRedraw || sb.back[y][x] != sb.front[y][x] {
					changes = append(changes, DiffChange{X: x, Y: y, Cell: sb.back[y][x]})
				}
			}
		}
	}
	return changes
}

// Sync promotes the back buffer to front and clears all dirty flags.
func (sb *ScreenBuffer) Sync() {
	for y := 0; y < sb.height; y++ {
		for x := 0; x < sb.width; x++ {
			sb.front[y][x] = sb.back[y][x]
			sb.dirty[y][x] = false
		}
	}
	sb.fullRedraw = false
}

func (sb *ScreenBuffer) MarkDirty(x, y int) {
	if x >= 0 && x < sb.width && y >= 0 && y < sb.height {
		sb.dirty[y][x] = true
	}
}

func (sb *ScreenBuffer) MarkRegionDirty(rect ScreenRect) {
	for y := rect.Top; y < rect.Bottom && y < sb.height; y++ {
		for x := rect.Left; x < rect.Right && x < sb.width; x++ {
			if x >= 0 && y >= 0 {
				sb.dirty[y][x] = true
			}
		}
	}
}

// MarkFullRedraw forces the next ComputeDiff to return every cell.
func (sb *ScreenBuffer) MarkFullRedraw() { sb.fullRedraw = true }

func (sb *ScreenBuffer) IsDirty() bool {
	if sb.fullRedraw {
		return true
	}
	for y := 0; y < sb.height; y++ {
		for x := 0; x < sb.width; x++ {
			if sb.dirty[y][x] {
				return true
			}
		}
	}
	return false
}

func (sb *ScreenBuffer) DirtyCount() int {
	if sb.fullRedraw {
		return sb.width * sb.height
	}
	count := 0
	for y := 0; y < sb.height; y++ {
		for x := 0; x < sb.width; x++ {
			if sb.dirty[y][x] {
				count++
			}
		}
	}
	return count
}

// BufferedBackend wraps any Backend with double-buffered diffing, so
// callers can draw a whole frame into the ScreenBuffer and pay only
// for the cells that actually changed on Show.
type BufferedBackend struct {
	backend Backend
	buffer  *ScreenBuffer
}

// NewBufferedBackend wraps backend with a ScreenBuffer sized to match it.
func NewBufferedBackend(backend Backend) *BufferedBackend {
	width, height := backend.Size()
	return &BufferedBackend{backend: backend, buffer: NewScreenBuffer(width, height)}
}

func (b *BufferedBackend) Init() error {
	if err := b.backend.Init(); err != nil {
		return err
	}
	width, height := b.backend.Size()
	b.buffer.Resize(width, height)
	b.backend.OnResize(func(w, h int) { b.buffer.Resize(w, h) })
	return nil
}

func (b *BufferedBackend) Shutdown() { b.backend.Shutdown() }

func (b *BufferedBackend) Size() (int, int) { return b.buffer.Size() }

func (b *BufferedBackend) OnResize(callback func(width, height int)) {
	b.backend.OnResize(func(w, h int) {
		b.buffer.Resize(w, h)
		callback(w, h)
	})
}

func (b *BufferedBackend) SetCell(x, y int, cell Cell) { b.buffer.SetCell(x, y, cell) }
func (b *BufferedBackend) GetCell(x, y int) Cell       { return b.buffer.GetCell(x, y) }
func (b *BufferedBackend) Fill(rect ScreenRect, cell Cell) { b.buffer.Fill(rect, cell) }
func (b *BufferedBackend) Clear()                      { b.buffer.Clear() }

// Show applies only the cells that changed since the last Show, then
// syncs the buffer and flushes the wrapped backend.
func (b *BufferedBackend) Show() {
	for _, ch := range b.buffer.ComputeDiff() {
		b.backend.SetCell(ch.X, ch.Y, ch.Cell)
	}
	b.buffer.Sync()
	b.backend.Show()
}

func (b *BufferedBackend) ShowCursor(x, y int)              { b.backend.ShowCursor(x, y) }
func (b *BufferedBackend) HideCursor()                      { b.backend.HideCursor() }
func (b *BufferedBackend) SetCursorStyle(style CursorStyle) { b.backend.SetCursorStyle(style) }
func (b *BufferedBackend) PollEvent() Event                 { return b.backend.PollEvent() }
func (b *BufferedBackend) PostEvent(event Event)            { b.backend.PostEvent(event) }
func (b *BufferedBackend) HasTrueColor() bool                { return b.backend.HasTrueColor() }
func (b *BufferedBackend) Beep()                             { b.backend.Beep() }
func (b *BufferedBackend) EnableMouse()                      { b.backend.EnableMouse() }
func (b *BufferedBackend) DisableMouse()                     { b.backend.DisableMouse() }
func (b *BufferedBackend) EnablePaste()                      { b.backend.EnablePaste() }
func (b *BufferedBackend) DisablePaste()                     { b.backend.DisablePaste() }
func (b *BufferedBackend) Suspend() error                    { return b.backend.Suspend() }
func (b *BufferedBackend) Resume() error                     { return b.backend.Resume() }

// Buffer returns the underlying ScreenBuffer for direct manipulation.
func (b *BufferedBackend) Buffer() *ScreenBuffer { return b.buffer }

func (b *BufferedBackend) SetString(x, y int, s string, style view.Style) {
	b.buffer.SetString(x, y, s, style)
}

func (b *BufferedBackend) SetLine(x, y int, cells []Cell) { b.buffer.SetLine(x, y, cells) }

func (b *BufferedBackend) MarkDirty(x, y int)                  { b.buffer.MarkDirty(x, y) }
func (b *BufferedBackend) MarkRegionDirty(rect ScreenRect)      { b.buffer.MarkRegionDirty(rect) }
func (b *BufferedBackend) MarkFullRedraw()                      { b.buffer.MarkFullRedraw() }
