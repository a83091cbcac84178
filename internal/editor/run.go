package editor

import (
	"context"

	"github.com/martanne/vis/internal/backend"
)

// Interrupt flags the currently-running Exec (if any) to unwind at
// its next poll point. It is safe to call from any goroutine — a
// frontend's own signal handler (SIGINT) or its raw-mode Ctrl-C key
// watcher is expected to call this concurrently with Run, since Run
// itself blocks the same goroutine for the duration of one Exec and
// cannot notice a Ctrl-C arriving on the same events channel it's
// currently not reading from.
func (e *Editor) Interrupt() { e.interrupted.Store(true) }

// ClearInterrupt resets the interrupt flag; Exec calls this at the
// start of every command so a stale interrupt never poisons the next
// one.
func (e *Editor) ClearInterrupt() { e.interrupted.Store(false) }

// Run is the editor's event loop: read one event, act on it to
// completion, render, repeat, until a quit command sets e.Quit() or
// events closes. It implements spec's single-threaded cooperative
// scheduling model directly — there is no frame ticker and no
// background rendering goroutine, since a "render" here is just
// projecting the buffer through the view onto the backend, cheap
// enough to redo after every single event.
func (e *Editor) Run(ctx context.Context, events <-chan backend.Event) error {
	if e.Backend == nil {
		return ErrNoBackend
	}
	if err := e.Backend.Init(); err != nil {
		return err
	}
	defer e.Backend.Shutdown()

	e.Render()
	for !e.quit {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			e.handleEvent(ctx, ev)
		}
		e.Render()
	}
	return nil
}

func (e *Editor) handleEvent(ctx context.Context, ev backend.Event) {
	switch ev.Type {
	case backend.EventResize:
		e.resize(ev.Width, ev.Height)
	case backend.EventKey:
		e.handleKey(ctx, ev)
	}
}

func (e *Editor) resize(width, height int) {
	rows := height - 1
	if rows < 1 {
		rows = 1
	}
	e.Viewport.Resize(width, rows)
}

func (e *Editor) handleKey(ctx context.Context, ev backend.Event) {
	switch ev.Key {
	case backend.KeyEnter:
		cmdline := string(e.cmdline)
		e.cmdline = e.cmdline[:0]
		_ = e.Exec(ctx, cmdline)
	case backend.KeyBackspace:
		if n := len(e.cmdline); n > 0 {
			e.cmdline = e.cmdline[:n-1]
		}
	case backend.KeyEscape, backend.KeyCtrlC:
		// Aborts in-progress command-line input. A Ctrl-C arriving
		// while a command is already executing doesn't reach here —
		// this goroutine is blocked inside that Exec call — so
		// actually interrupting a running pipe command requires a
		// frontend to call Interrupt from its own signal handler or
		// input-polling goroutine, concurrently with Run.
		e.cmdline = e.cmdline[:0]
	case backend.KeyRune:
		e.cmdline = append(e.cmdline, ev.Rune)
	case backend.KeyTab:
		e.cmdline = append(e.cmdline, '\t')
	}
}
