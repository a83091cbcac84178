package editor

import (
	"bytes"
	"context"

	"github.com/martanne/vis/internal/command"
	"github.com/martanne/vis/internal/cursor"
	"github.com/martanne/vis/internal/history"
	"github.com/martanne/vis/internal/piece"
	"github.com/martanne/vis/internal/view"
)

// Exec parses and interprets one structural command line against the
// current dot, updating dot and the cursor set from the command's
// result. It seals exactly one undo snapshot per call (via
// command.Interp.Run/RunBatch), matching the rule that a whole command
// line produces one history entry regardless of how many edits it
// performed internally.
//
// Three outcomes update Cursors differently:
//   - a bodyless x/y (or a matching bodyless g/v) sets dot to a
//     persistent multi-range selection over what it matched, instead
//     of collapsing to one range;
//   - an addressless leaf edit (a/i/c/d/s) run while dot is already
//     such a multi-range selection is batch-applied across every
//     selection via command.Interp.RunBatch, which updates Cursors
//     itself — Exec must not then collapse it back to one range;
//   - anything else collapses dot/Cursors to the single result range,
//     as every command did before multi-range dot existed.
//
// Exec never returns a parse/exec error as a Go panic; the error is
// both returned and recorded in Status for a status-line display.
func (e *Editor) Exec(ctx context.Context, cmdline string) error {
	e.ClearInterrupt()

	cmd, err := command.Parse(cmdline)
	if err != nil {
		e.status = err.Error()
		return err
	}

	var out bytes.Buffer
	interp := &command.Interp{
		Buf:         e.Buf,
		History:     e.History,
		Registers:   e.Registers,
		Output:      &out,
		Interrupted: e.interruptedFunc,
	}

	batch := cmd.Addr == nil && cmd.IsEditVerb() && e.Cursors.IsMulti()

	var rng piece.Range
	if batch {
		rng, err = interp.RunBatch(ctx, e.Cursors, cmd)
	} else {
		rng, err = interp.Run(ctx, e.dot, cmd)
	}

	// An 'e' command replaces the buffer the Interp points at. Every
	// other component that held a reference to the old *piece.Buffer
	// has to be rebuilt against the new one.
	if interp.Buf != e.Buf {
		e.rebind(interp.Buf)
	}

	if err != nil {
		e.status = err.Error()
		return err
	}

	e.output = out.Bytes()
	if len(e.output) > 0 {
		e.status = string(bytes.TrimRight(e.output, "\n"))
	}

	switch {
	case interp.MultiDotSet:
		e.dot = rng
		if len(interp.MultiDot) == 0 {
			e.Cursors.Set(cursor.NewCursorSelection(rng.Start))
		} else {
			sels := make([]cursor.Selection, len(interp.MultiDot))
			for i, r := range interp.MultiDot {
				sels[i] = cursor.NewRangeSelection(r)
			}
			e.Cursors.SetAll(sels)
		}
	case batch:
		// RunBatch already transformed Cursors via cursor.ApplyBatch.
		e.dot = rng
	default:
		e.dot = rng
		e.Cursors.Set(cursor.NewRangeSelection(rng))
	}

	if interp.Quit {
		e.quit = true
	}
	return nil
}

// Output returns the bytes captured from the most recent command's
// 'p' print or '>' pipe-out, if any.
func (e *Editor) Output() []byte { return e.output }

// rebind points History, View, and the cursor set at a freshly opened
// buffer after an 'e' command, discarding the old undo tree: an undo
// history keyed to pieces from a now-abandoned buffer has nothing
// left to relink.
func (e *Editor) rebind(buf *piece.Buffer) {
	e.Buf = buf
	e.History = history.NewTree(buf, e.Settings.MaxUndoEntries)
	if e.Settings.TabWidth > 0 {
		buf.SetTabWidth(e.Settings.TabWidth)
	}
	buf.SetLineEnding(mapLineEnding(e.Settings.LineEnding))
	e.View = view.NewView(buf, e.Viewport, nil)
	e.View.SetWrapMode(mapWrapMode(e.Settings.WrapMode))
	e.Cursors = cursor.NewCursorSetAt(0)
	e.dot = piece.NewRange(0, 0)
}

func (e *Editor) interruptedFunc() bool { return e.interrupted.Load() }

// Undo reverts the most recent action and moves dot to cover the
// range that action had changed, the same way interpreting a command
// leaves dot on its result.
func (e *Editor) Undo() error {
	id, ok := e.History.Current()
	if err := e.History.Undo(); err != nil {
		return err
	}
	if ok {
		e.syncDotToAction(id)
	}
	return nil
}

// Redo re-applies the most recently undone action (or, after
// RedoBranch picked a different one, that branch) and moves dot to
// cover the range it changed.
func (e *Editor) Redo() error {
	if err := e.History.Redo(); err != nil {
		return err
	}
	if id, ok := e.History.Current(); ok {
		e.syncDotToAction(id)
	}
	return nil
}

// RedoBranch redoes the i'th redo branch from the current action
// (0-indexed in creation order), for picking up a future abandoned by
// an Undo that was followed by a different edit.
func (e *Editor) RedoBranch(i int) error {
	if err := e.History.RedoBranch(i); err != nil {
		return err
	}
	if id, ok := e.History.Current(); ok {
		e.syncDotToAction(id)
	}
	return nil
}

// syncDotToAction sets dot to the union of the byte ranges id's
// changes touched, and collapses the cursor set to match — the undo
// tree doesn't track live cursor positions itself (that belongs to
// whatever frontend drives multi-cursor editing), but the affected
// range is exactly what a sam-style dot should land on after an
// undo/redo, the same as it would after any other command.
func (e *Editor) syncDotToAction(id history.ActionID) {
	changes := e.History.Action(id)
	if len(changes) == 0 {
		return
	}
	rng := changes[0].Splice.Range
	for _, ch := range changes[1:] {
		r := ch.Splice.Range
		if r.Start < rng.Start {
			rng.Start = r.Start
		}
		if r.End > rng.End {
			rng.End = r.End
		}
	}
	e.dot = rng
	e.Cursors.Set(cursor.NewRangeSelection(rng))
}
