package editor

import (
	"context"
	"testing"

	"github.com/martanne/vis/internal/backend"
	"github.com/martanne/vis/internal/config"
	"github.com/martanne/vis/internal/piece"
)

func newTestEditor(t *testing.T, content string) (*Editor, *backend.NullBackend) {
	t.Helper()
	nb := backend.NewNullBackend(40, 10)
	e, err := New(Options{
		Buffer:   piece.NewFromString(content),
		Settings: config.Default(),
		Backend:  nb,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e, nb
}

func TestNewWithoutBackendHasUsableDefaults(t *testing.T) {
	e, err := New(Options{Settings: config.Default()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if e.Buf.Size() != 0 {
		t.Errorf("expected empty buffer, size = %d", e.Buf.Size())
	}
	if w, h := e.Viewport.Width(), e.Viewport.Height(); w != 80 || h != 23 {
		t.Errorf("Viewport = (%d,%d), want (80,23)", w, h)
	}
}

func TestExecUpdatesDot(t *testing.T) {
	e, _ := newTestEditor(t, "a\nb\nc\n")
	if err := e.Exec(context.Background(), "2d"); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if got := e.Buf.Text(); got != "a\nc\n" {
		t.Errorf("got %q, want %q", got, "a\nc\n")
	}
}

func TestExecParseErrorSetsStatus(t *testing.T) {
	e, _ := newTestEditor(t, "a\n")
	err := e.Exec(context.Background(), "Z")
	if err == nil {
		t.Fatal("expected parse error")
	}
	if e.Status() == "" {
		t.Error("expected Status() to report the error")
	}
}

func TestExecQuitSetsQuit(t *testing.T) {
	e, _ := newTestEditor(t, "a\n")
	// the buffer has no source path and is non-empty, so it counts as
	// modified and only the forced form quits.
	if err := e.Exec(context.Background(), "q!"); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if !e.Quit() {
		t.Error("expected Quit() to be true after q!")
	}
}

func TestExecUndoRedo(t *testing.T) {
	e, _ := newTestEditor(t, "a\nb\n")
	if err := e.Exec(context.Background(), "1d"); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if got := e.Buf.Text(); got != "b\n" {
		t.Fatalf("got %q after delete", got)
	}
	if err := e.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := e.Buf.Text(); got != "a\nb\n" {
		t.Errorf("got %q after undo, want %q", got, "a\nb\n")
	}
	if err := e.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if got := e.Buf.Text(); got != "b\n" {
		t.Errorf("got %q after redo, want %q", got, "b\n")
	}
}

// TestExecBodylessXSetsMultiSelectionDot covers a bodyless x loop
// setting dot to a 3-way multi-selection over every match, and a
// follow-up addressless c batch-edits all three under one sealed undo.
func TestExecBodylessXSetsMultiSelectionDot(t *testing.T) {
	e, _ := newTestEditor(t, "a\nbb\nccc\n")

	if err := e.Exec(context.Background(), `,x/^[a-z]+$/`); err != nil {
		t.Fatalf("Exec(x): %v", err)
	}
	if !e.Cursors.IsMulti() || e.Cursors.Count() != 3 {
		t.Fatalf("Cursors after bodyless x: Count()=%d, IsMulti()=%v, want 3 selections", e.Cursors.Count(), e.Cursors.IsMulti())
	}

	if err := e.Exec(context.Background(), "c/X/"); err != nil {
		t.Fatalf("Exec(c): %v", err)
	}
	if got := e.Buf.Text(); got != "X\nX\nX\n" {
		t.Fatalf("got %q, want %q", got, "X\nX\nX\n")
	}

	if err := e.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := e.Buf.Text(); got != "a\nbb\nccc\n" {
		t.Errorf("got %q after undo, want %q", got, "a\nbb\nccc\n")
	}
}

func TestRenderDrawsToBackend(t *testing.T) {
	e, nb := newTestEditor(t, "hello\n")
	if err := nb.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	e.Render()
	if got := nb.GetCell(0, 0).Rune; got != 'h' {
		t.Errorf("cell (0,0) = %q, want 'h'", got)
	}
}

func TestRunProcessesEventsUntilQuit(t *testing.T) {
	e, _ := newTestEditor(t, "a\nb\n")
	events := make(chan backend.Event, 8)
	for _, r := range "1d" {
		events <- backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: r}
	}
	events <- backend.Event{Type: backend.EventKey, Key: backend.KeyEnter}
	for _, r := range "q!" {
		events <- backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: r}
	}
	events <- backend.Event{Type: backend.EventKey, Key: backend.KeyEnter}
	close(events)

	if err := e.Run(context.Background(), events); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !e.Quit() {
		t.Error("expected Quit() to be true")
	}
	if got := e.Buf.Text(); got != "b\n" {
		t.Errorf("got %q, want %q", got, "b\n")
	}
}

func TestRunResizeShrinksViewport(t *testing.T) {
	e, nb := newTestEditor(t, "a\n")
	events := make(chan backend.Event, 1)
	events <- backend.Event{Type: backend.EventResize, Width: 20, Height: 8}
	close(events)
	nb.Resize(20, 8)

	if err := e.Run(context.Background(), events); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if w, h := e.Viewport.Width(), e.Viewport.Height(); w != 20 || h != 7 {
		t.Errorf("Viewport = (%d,%d), want (20,7)", w, h)
	}
}

func TestInterruptFlagIsObservedByInterp(t *testing.T) {
	e, _ := newTestEditor(t, "a\n")
	e.Interrupt()
	if !e.interruptedFunc() {
		t.Error("expected interruptedFunc to report true after Interrupt")
	}
	e.ClearInterrupt()
	if e.interruptedFunc() {
		t.Error("expected interruptedFunc to report false after ClearInterrupt")
	}
}
