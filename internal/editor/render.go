package editor

import (
	"unicode/utf8"

	"github.com/martanne/vis/internal/backend"
	"github.com/martanne/vis/internal/view"
)

// Render draws the current view and a one-line status/command bar
// onto the backend and flips it to screen. A no-op if no backend is
// configured, so headless Exec-only use doesn't need to guard every
// call site.
func (e *Editor) Render() {
	if e.Backend == nil {
		return
	}

	width, height := e.Backend.Size()
	rows := height - 1
	if rows < 0 {
		rows = 0
	}

	lines, table := e.View.Render(e.Viewport.TopOffset(), width, rows)
	for y := 0; y < rows; y++ {
		if y < len(lines) {
			drawLine(e.Backend, y, width, lines[y], table)
		} else {
			e.Backend.Fill(backend.NewScreenRect(y, 0, y+1, width), backend.EmptyCell())
		}
	}

	drawStatusLine(e.Backend, height-1, width, e.statusLineText())
	e.Backend.Show()
}

func drawLine(b backend.Backend, y, width int, line view.Line, table *view.StyleTable) {
	x := 0
	for _, cell := range line.Cells {
		if x >= width {
			break
		}
		style := table.Style(cell.Style)
		if cell.IsContinuation() {
			b.SetCell(x, y, backend.Cell{Style: style})
			x++
			continue
		}
		r, _ := utf8.DecodeRune(cell.Grapheme[:cell.GraphemeLen])
		if r == utf8.RuneError && cell.GraphemeLen == 0 {
			r = ' '
		}
		w := int(cell.Width)
		if w < 1 {
			w = 1
		}
		b.SetCell(x, y, backend.Cell{Rune: r, Width: w, Style: style})
		x += w
	}
	for ; x < width; x++ {
		b.SetCell(x, y, backend.EmptyCell())
	}
}

func drawStatusLine(b backend.Backend, y, width int, text string) {
	style := view.DefaultStyle().Reverse()
	x := 0
	for _, r := range text {
		if x >= width {
			break
		}
		b.SetCell(x, y, backend.Cell{Rune: r, Width: 1, Style: style})
		x++
	}
	for ; x < width; x++ {
		b.SetCell(x, y, backend.Cell{Rune: ' ', Width: 1, Style: style})
	}
}

// statusLineText returns what the bottom row should show: the
// in-progress command line if one is being typed, otherwise the last
// status message.
func (e *Editor) statusLineText() string {
	if len(e.cmdline) > 0 {
		return ":" + string(e.cmdline)
	}
	return e.status
}
