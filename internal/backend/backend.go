package backend

import "github.com/martanne/vis/internal/view"

// Cell is a single screen position: a rune together with the column
// width it occupies (2 for wide CJK glyphs, 0 for a combining mark
// that attaches to the previous cell) and its resolved style.
type Cell struct {
	Rune  rune
	Width int
	Style view.Style
}

// EmptyCell is a blank cell in the default style.
func EmptyCell() Cell {
	return Cell{Rune: ' ', Width: 1, Style: view.DefaultStyle()}
}

// ScreenRect is a half-open rectangular region of the screen: rows
// [Top,Bottom) and columns [Left,Right).
type ScreenRect struct {
	Top    int
	Left   int
	Bottom int
	Right  int
}

// NewScreenRect builds a ScreenRect from its four edges.
func NewScreenRect(top, left, bottom, right int) ScreenRect {
	return ScreenRect{Top: top, Left: left, Bottom: bottom, Right: right}
}

// CursorStyle selects how the terminal cursor is drawn.
type CursorStyle int

const (
	CursorBlock CursorStyle = iota
	CursorUnderline
	CursorBar
	CursorHidden
)

// EventType identifies what kind of Event was produced.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventPaste
	EventFocus
)

// Event is a single input event read from the terminal.
type Event struct {
	Type EventType

	Key  Key
	Rune rune
	Mod  ModMask

	MouseX, MouseY int
	MouseButton    MouseButton

	Width, Height int

	Focused bool

	PasteText string
}

// Key names a non-printable key. Printable characters arrive as
// KeyRune with the character in Event.Rune.
type Key int

const (
	KeyNone Key = iota
	KeyRune
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyCtrlSpace
	KeyCtrlA
	KeyCtrlB
	KeyCtrlC
	KeyCtrlD
	KeyCtrlE
	KeyCtrlF
	KeyCtrlG
	KeyCtrlH
	KeyCtrlI
	KeyCtrlJ
	KeyCtrlK
	KeyCtrlL
	KeyCtrlM
	KeyCtrlN
	KeyCtrlO
	KeyCtrlP
	KeyCtrlQ
	KeyCtrlR
	KeyCtrlS
	KeyCtrlT
	KeyCtrlU
	KeyCtrlV
	KeyCtrlW
	KeyCtrlX
	KeyCtrlY
	KeyCtrlZ
)

// ModMask is a bitmask of held modifier keys.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether m contains mod.
func (m ModMask) Has(mod ModMask) bool { return m&mod != 0 }

// MouseButton identifies a mouse button or wheel direction.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
	MouseWheelLeft
	MouseWheelRight
)

// Backend draws a grid of cells to a display surface and reads input
// events from it. Implementations must be safe for the editor's single
// render goroutine to drive; PollEvent is typically called from a
// separate input goroutine and PostEvent from anywhere.
type Backend interface {
	// Init prepares the backend for use. Must be called before any
	// other method.
	Init() error

	// Shutdown releases backend resources and restores terminal state.
	Shutdown()

	// Size returns the current display dimensions in columns and rows.
	Size() (width, height int)

	// OnResize registers a callback invoked when the display is resized.
	OnResize(callback func(width, height int))

	// SetCell sets a single cell. Positions outside the display are
	// silently ignored.
	SetCell(x, y int, cell Cell)

	// GetCell returns the cell at the given position, or an empty cell
	// if the position is out of range.
	GetCell(x, y int) Cell

	// Fill paints every cell within rect.
	Fill(rect ScreenRect, cell Cell)

	// Clear resets the entire display to the default empty cell.
	Clear()

	// Show flushes pending cell changes to the display.
	Show()

	// ShowCursor places and displays the cursor.
	ShowCursor(x, y int)

	// HideCursor hides the cursor.
	HideCursor()

	// SetCursorStyle changes the cursor's appearance.
	SetCursorStyle(style CursorStyle)

	// PollEvent blocks until the next input event is available.
	PollEvent() Event

	// PostEvent injects a synthetic event into the input stream.
	PostEvent(event Event)

	// HasTrueColor reports whether the backend can render 24-bit color.
	HasTrueColor() bool

	// Beep rings the terminal bell.
	Beep()

	EnableMouse()
	DisableMouse()
	EnablePaste()
	DisablePaste()

	// Suspend relinquishes the terminal, e.g. for a shell escape.
	Suspend() error

	// Resume reclaims the terminal after a Suspend.
	Resume() error
}
