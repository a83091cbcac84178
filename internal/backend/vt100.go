package backend

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/martanne/vis/internal/view"
)

// VT100Backend draws to any io.Writer using raw VT-100 compatible
// escape sequences instead of a terminfo database, and reads raw bytes
// from an io.Reader for input. It makes no attempt to diff against
// previous frames or to optimize output the way a curses backend
// would: every Show repaints the whole grid, trading flicker for zero
// terminfo dependency. Useful for debugging, fuzzing, or terminals
// curses doesn't recognize.
type VT100Backend struct {
	w  *bufio.Writer
	r  *bufio.Reader
	mu sync.Mutex

	width, height int
	cells         [][]Cell
	resizeHandler func(width, height int)

	cursorVisible bool
}

// NewVT100Backend creates a backend writing to w and reading input
// from r, sized width by height columns and rows.
func NewVT100Backend(w io.Writer, r io.Reader, width, height int) *VT100Backend {
	return &VT100Backend{
		w:      bufio.NewWriter(w),
		r:      bufio.NewReader(r),
		width:  width,
		height: height,
	}
}

func (t *VT100Backend) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cells = make([][]Cell, t.height)
	for y := range t.cells {
		t.cells[y] = make([]Cell, t.width)
		for x := range t.cells[y] {
			t.cells[y][x] = EmptyCell()
		}
	}
	// CSI ? 1049 h: alternate screen buffer; CSI ? 25 l: hide cursor.
	fmt.Fprint(t.w, "\x1b[?1049h\x1b[?25l")
	return t.w.Flush()
}

func (t *VT100Backend) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()
	// CSI 0 m resets attributes, CSI ? 1049 l restores the normal
	// screen buffer, CSI ? 25 h shows the cursor again.
	fmt.Fprint(t.w, "\x1b[0m\x1b[?1049l\x1b[?25h")
	t.w.Flush()
}

func (t *VT100Backend) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width, t.height
}

func (t *VT100Backend) OnResize(callback func(width, height int)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resizeHandler = callback
}

// Resize updates the backend's idea of the terminal size, e.g. after
// a SIGWINCH; VT-100 has no escape sequence to query size so the
// caller must supply it (typically from an ioctl(TIOCGWINSZ)).
func (t *VT100Backend) Resize(width, height int) {
	t.mu.Lock()
	t.width, t.height = width, height
	t.cells = make([][]Cell, height)
	for y := range t.cells {
		t.cells[y] = make([]Cell, width)
		for x := range t.cells[y] {
			t.cells[y][x] = EmptyCell()
		}
	}
	handler := t.resizeHandler
	t.mu.Unlock()
	if handler != nil {
		handler(width, height)
	}
}

func (t *VT100Backend) SetCell(x, y int, cell Cell) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if x >= 0 && x < t.width && y >= 0 && y < t.height {
		t.cells[y][x] = cell
	}
}

func (t *VT100Backend) GetCell(x, y int) Cell {
	t.mu.Lock()
	defer t.mu.Unlock()
	if x >= 0 && x < t.width && y >= 0 && y < t.height {
		return t.cells[y][x]
	}
	return EmptyCell()
}

func (t *VT100Backend) Fill(rect ScreenRect, cell Cell) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for y := rect.Top; y < rect.Bottom && y < t.height; y++ {
		for x := rect.Left; x < rect.Right && x < t.width; x++ {
			if x >= 0 && y >= 0 {
				t.cells[y][x] = cell
			}
		}
	}
}

func (t *VT100Backend) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	empty := EmptyCell()
	for y := range t.cells {
		for x := range t.cells[y] {
			t.cells[y][x] = empty
		}
	}
}

// Show repaints the entire grid: CSI H moves home, CSI 2 J erases the
// display, CSI 0 m resets attributes, then every cell is emitted left
// to right, top to bottom, re-issuing SGR codes only when the style
// changes from the previous cell.
func (t *VT100Backend) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	var b strings.Builder
	b.WriteString("\x1b[H\x1b[2J\x1b[0m")

	attrs, fg, bg := view.AttrNone, view.ColorDefault, view.ColorDefault
	for y := 0; y < t.height; y++ {
		for x := 0; x < t.width; x++ {
			cell := t.cells[y][x]
			if cell.Style.Attributes != attrs {
				writeAttrDiff(&b, attrs, cell.Style.Attributes)
				attrs = cell.Style.Attributes
			}
			if !cell.Style.Foreground.Equals(fg) {
				fg = cell.Style.Foreground
				writeColor(&b, fg, 30)
			}
			if !cell.Style.Background.Equals(bg) {
				bg = cell.Style.Background
				writeColor(&b, bg, 40)
			}
			if cell.Rune == 0 {
				b.WriteRune(' ')
			} else {
				b.WriteRune(cell.Rune)
			}
		}
	}
	io.WriteString(t.w, b.String())
	t.w.Flush()
}

var vt100Attrs = []struct {
	attr   view.Attribute
	on, off string
}{
	{view.AttrBold, "1", "22"},
	{view.AttrItalic, "3", "23"},
	{view.AttrUnderline, "4", "24"},
	{view.AttrBlink, "5", "25"},
	{view.AttrReverse, "7", "27"},
}

func writeAttrDiff(b *strings.Builder, from, to view.Attribute) {
	for _, a := range vt100Attrs {
		if from.Has(a.attr) == to.Has(a.attr) {
			continue
		}
		if to.Has(a.attr) {
			fmt.Fprintf(b, "\x1b[%sm", a.on)
		} else {
			fmt.Fprintf(b, "\x1b[%sm", a.off)
		}
	}
}

// writeColor emits an indexed SGR (base 30 for foreground, 40 for
// background) or a 24-bit "38;2;r;g;b"/"48;2;r;g;b" escape, mirroring
// the two color paths a VT-100-class terminal actually understands.
func writeColor(b *strings.Builder, c view.Color, base int) {
	if c.IsDefault() {
		fmt.Fprintf(b, "\x1b[%dm", base+9)
		return
	}
	if c.Indexed {
		fmt.Fprintf(b, "\x1b[%dm", base+int(c.R)%8)
		return
	}
	mode := 38
	if base == 40 {
		mode = 48
	}
	fmt.Fprintf(b, "\x1b[%d;2;%d;%d;%dm", mode, c.R, c.G, c.B)
}

func (t *VT100Backend) ShowCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cursorVisible = true
	fmt.Fprintf(t.w, "\x1b[?25h\x1b[%d;%dH", y+1, x+1)
	t.w.Flush()
}

func (t *VT100Backend) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cursorVisible = false
	fmt.Fprint(t.w, "\x1b[?25l")
	t.w.Flush()
}

// SetCursorStyle is a no-op: plain VT-100 has no cursor shape escape,
// only DECTCEM visibility, which ShowCursor/HideCursor already drive.
func (t *VT100Backend) SetCursorStyle(CursorStyle) {}

// PollEvent blocks reading one key from the input stream. It decodes
// a small set of CSI cursor/navigation sequences and falls back to
// treating an unrecognized escape-prefixed byte as a bare Escape key,
// since a plain VT-100 backend has no terminfo database to consult.
func (t *VT100Backend) PollEvent() Event {
	r, _, err := t.r.ReadRune()
	if err != nil {
		return Event{Type: EventNone}
	}

	switch r {
	case 0x1b:
		return t.pollEscape()
	case '\r', '\n':
		return Event{Type: EventKey, Key: KeyEnter}
	case '\t':
		return Event{Type: EventKey, Key: KeyTab}
	case 0x7f, 0x08:
		return Event{Type: EventKey, Key: KeyBackspace}
	}
	if r < 0x20 {
		return Event{Type: EventKey, Key: ctrlKey(r), Mod: ModCtrl}
	}
	return Event{Type: EventKey, Key: KeyRune, Rune: r}
}

func (t *VT100Backend) pollEscape() Event {
	r1, _, err := t.r.ReadRune()
	if err != nil {
		return Event{Type: EventKey, Key: KeyEscape}
	}
	if r1 != '[' && r1 != 'O' {
		return Event{Type: EventKey, Key: KeyEscape}
	}
	r2, _, err := t.r.ReadRune()
	if err != nil {
		return Event{Type: EventKey, Key: KeyEscape}
	}
	switch r2 {
	case 'A':
		return Event{Type: EventKey, Key: KeyUp}
	case 'B':
		return Event{Type: EventKey, Key: KeyDown}
	case 'C':
		return Event{Type: EventKey, Key: KeyRight}
	case 'D':
		return Event{Type: EventKey, Key: KeyLeft}
	case 'H':
		return Event{Type: EventKey, Key: KeyHome}
	case 'F':
		return Event{Type: EventKey, Key: KeyEnd}
	case '3':
		t.r.ReadRune() // trailing '~'
		return Event{Type: EventKey, Key: KeyDelete}
	case '5':
		t.r.ReadRune()
		return Event{Type: EventKey, Key: KeyPageUp}
	case '6':
		t.r.ReadRune()
		return Event{Type: EventKey, Key: KeyPageDown}
	default:
		return Event{Type: EventKey, Key: KeyEscape}
	}
}

func ctrlKey(r rune) Key {
	switch r {
	case 1:
		return KeyCtrlA
	case 2:
		return KeyCtrlB
	case 3:
		return KeyCtrlC
	case 4:
		return KeyCtrlD
	case 5:
		return KeyCtrlE
	case 6:
		return KeyCtrlF
	case 7:
		return KeyCtrlG
	case 8:
		return KeyCtrlH
	case 9:
		return KeyCtrlI
	case 10:
		return KeyCtrlJ
	case 11:
		return KeyCtrlK
	case 12:
		return KeyCtrlL
	case 13:
		return KeyCtrlM
	case 14:
		return KeyCtrlN
	case 15:
		return KeyCtrlO
	case 16:
		return KeyCtrlP
	case 17:
		return KeyCtrlQ
	case 18:
		return KeyCtrlR
	case 19:
		return KeyCtrlS
	case 20:
		return KeyCtrlT
	case 21:
		return KeyCtrlU
	case 22:
		return KeyCtrlV
	case 23:
		return KeyCtrlW
	case 24:
		return KeyCtrlX
	case 25:
		return KeyCtrlY
	case 26:
		return KeyCtrlZ
	default:
		return KeyNone
	}
}

// PostEvent is a no-op: a byte-stream backend has no synthetic event
// queue to inject into, unlike tcell's PollEvent loop.
func (t *VT100Backend) PostEvent(Event) {}

// HasTrueColor reports false: plain VT-100 terminals are assumed
// 16/256-color. writeColor has no indexed fallback, though: a
// non-indexed, non-default color is always written as a 24-bit
// 38;2/48;2 sequence.
func (t *VT100Backend) HasTrueColor() bool { return false }

func (t *VT100Backend) Beep() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.w.WriteByte(0x07)
	t.w.Flush()
}

func (t *VT100Backend) EnableMouse()  {}
func (t *VT100Backend) DisableMouse() {}
func (t *VT100Backend) EnablePaste()  {}
func (t *VT100Backend) DisablePaste() {}

// Suspend restores the normal screen buffer and shows the cursor, for
// a shell escape; Resume reverses both.
func (t *VT100Backend) Suspend() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprint(t.w, "\x1b[?25h\x1b[?1049l")
	return t.w.Flush()
}

func (t *VT100Backend) Resume() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprint(t.w, "\x1b[?1049h\x1b[?25l")
	return t.w.Flush()
}
