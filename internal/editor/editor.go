package editor

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/martanne/vis/internal/backend"
	"github.com/martanne/vis/internal/config"
	"github.com/martanne/vis/internal/cursor"
	"github.com/martanne/vis/internal/history"
	"github.com/martanne/vis/internal/pipe"
	"github.com/martanne/vis/internal/piece"
	"github.com/martanne/vis/internal/register"
	"github.com/martanne/vis/internal/view"
)

// ErrNoBackend is returned by Run when the Editor was constructed
// without a backend.Backend to render onto.
var ErrNoBackend = errors.New("editor: no backend configured")

// Options configures a new Editor.
type Options struct {
	// Path is the file to open. Empty starts with an empty, unnamed
	// buffer (the "-" stdin case is the caller's job: read stdin into
	// a string and use NewFromReader directly, then pass the
	// resulting buffer via Buffer instead of Path).
	Path string

	// Buffer, if set, is used directly instead of opening Path. Lets
	// a caller hand in a buffer already built from stdin or a test
	// fixture.
	Buffer *piece.Buffer

	// Settings is the engine configuration; use config.Default() or
	// config.Load if the caller doesn't otherwise care.
	Settings config.Settings

	// Backend is the terminal surface Run draws onto. Nil is valid
	// for tests and for headless Exec-only use; Run refuses to start
	// without one.
	Backend backend.Backend
}

// Editor is the single value holding everything one open file needs:
// the piece-chain buffer, its undo tree, the multi-cursor set, the
// register table, and the view projecting it onto a backend.
type Editor struct {
	Buf       *piece.Buffer
	History   *history.Tree
	Cursors   *cursor.CursorSet
	Registers *register.Table
	View      *view.View
	Viewport  *view.Viewport
	Backend   backend.Backend
	Settings  config.Settings

	dot         piece.Range
	cmdline     []rune
	status      string
	output      []byte
	quit        bool
	interrupted atomic.Bool
}

// New constructs an Editor from opts. The returned Editor's backend,
// if any, is not yet Init'd — Run does that.
func New(opts Options) (*Editor, error) {
	buf := opts.Buffer
	if buf == nil {
		if opts.Path == "" {
			buf = piece.New()
		} else {
			var err error
			buf, err = piece.Open(opts.Path)
			if err != nil {
				return nil, fmt.Errorf("editor: open %s: %w", opts.Path, err)
			}
		}
	}

	settings := opts.Settings
	if settings.TabWidth > 0 {
		buf.SetTabWidth(settings.TabWidth)
	}
	buf.SetLineEnding(mapLineEnding(settings.LineEnding))
	if settings.ClipboardProgram != "" {
		pipe.ClipboardHelper = settings.ClipboardProgram
	}

	width, height := 80, 24
	if opts.Backend != nil {
		width, height = opts.Backend.Size()
	}
	viewport := view.NewViewport(width, height-1) // last row is the status/command line
	v := view.NewView(buf, viewport, nil)
	v.SetWrapMode(mapWrapMode(settings.WrapMode))

	e := &Editor{
		Buf:       buf,
		History:   history.NewTree(buf, settings.MaxUndoEntries),
		Cursors:   cursor.NewCursorSetAt(0),
		Registers: register.NewTable(),
		View:      v,
		Viewport:  viewport,
		Backend:   opts.Backend,
		Settings:  settings,
	}
	return e, nil
}

// Dot returns the current address range ("dot"), the implicit
// address every command that omits its own address operates on.
func (e *Editor) Dot() piece.Range { return e.dot }

// SetDot sets the current address range directly, clamped to the
// buffer's size.
func (e *Editor) SetDot(r piece.Range) {
	size := e.Buf.Size()
	if r.Start < 0 {
		r.Start = 0
	}
	if r.End > size {
		r.End = size
	}
	if r.Start > r.End {
		r.Start = r.End
	}
	e.dot = r
}

// Status returns the last status-line message: a command error, or
// output captured from a 'p' print or '>' pipe-out command.
func (e *Editor) Status() string { return e.status }

// Quit reports whether a q/q! command has ended the session.
func (e *Editor) Quit() bool { return e.quit }

// Close releases the buffer's resources (closing any memory-mapped
// source file).
func (e *Editor) Close() error {
	return e.Buf.Close()
}

func mapWrapMode(w config.WrapMode) view.WrapMode {
	switch w {
	case config.WrapChar:
		return view.WrapChar
	case config.WrapWord:
		// internal/view implements character wrapping only; word
		// wrap has no dedicated mode there yet, so the closest
		// available behavior is used rather than silently falling
		// back to no wrap at all.
		return view.WrapChar
	default:
		return view.WrapNone
	}
}

func mapLineEnding(le config.LineEnding) piece.LineEnding {
	if le == config.LineEndingCRLF {
		return piece.LineEndingCRLF
	}
	return piece.LineEndingLF
}
