package command

import (
	"bytes"
	"context"
	"testing"

	"github.com/martanne/vis/internal/cursor"
	"github.com/martanne/vis/internal/history"
	"github.com/martanne/vis/internal/piece"
)

func run(t *testing.T, buf *piece.Buffer, src string) piece.Range {
	t.Helper()
	cmd, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	in := &Interp{Buf: buf}
	dot, err := in.Run(context.Background(), piece.Range{}, cmd)
	if err != nil {
		t.Fatalf("Run(%q): %v", src, err)
	}
	return dot
}

func TestExecDeleteLines(t *testing.T) {
	buf := piece.NewFromString("a\nb\nc\n")
	run(t, buf, "1,2d")
	if got := buf.Text(); got != "c\n" {
		t.Errorf("got %q, want %q", got, "c\n")
	}
}

func TestExecAppendAfterLine(t *testing.T) {
	buf := piece.NewFromString("a\nb\n")
	run(t, buf, "1a/X/")
	if got := buf.Text(); got != "a\nXb\n" {
		t.Errorf("got %q, want %q", got, "a\nXb\n")
	}
}

func TestExecInsertBeforeLine(t *testing.T) {
	buf := piece.NewFromString("a\nb\n")
	run(t, buf, "1i/X/")
	if got := buf.Text(); got != "Xa\nb\n" {
		t.Errorf("got %q, want %q", got, "Xa\nb\n")
	}
}

func TestExecChangeLine(t *testing.T) {
	buf := piece.NewFromString("a\nb\n")
	run(t, buf, "1c/X/")
	if got := buf.Text(); got != "Xb\n" {
		t.Errorf("got %q, want %q", got, "Xb\n")
	}
}

func TestExecSubstituteGlobal(t *testing.T) {
	buf := piece.NewFromString("foo foo")
	run(t, buf, "1,$s/foo/bar/g")
	if got := buf.Text(); got != "bar bar" {
		t.Errorf("got %q, want %q", got, "bar bar")
	}
}

func TestExecSubstituteDefaultFirstMatch(t *testing.T) {
	buf := piece.NewFromString("foo foo")
	run(t, buf, "1s/foo/bar/")
	if got := buf.Text(); got != "bar foo" {
		t.Errorf("got %q, want %q", got, "bar foo")
	}
}

func TestExecSubstituteNth(t *testing.T) {
	buf := piece.NewFromString("a a a")
	run(t, buf, "1s/a/X/2")
	if got := buf.Text(); got != "a X a" {
		t.Errorf("got %q, want %q", got, "a X a")
	}
}

func TestExecSubstituteBackreference(t *testing.T) {
	buf := piece.NewFromString("hello world")
	run(t, buf, `1s/(\w+) (\w+)/\2 \1/`)
	if got := buf.Text(); got != "world hello" {
		t.Errorf("got %q, want %q", got, "world hello")
	}
}

func TestExecXLoopDeletesAllMatches(t *testing.T) {
	buf := piece.NewFromString("aaa bbb aaa")
	run(t, buf, "1,$x/aaa/d")
	if got := buf.Text(); got != " bbb " {
		t.Errorf("got %q, want %q", got, " bbb ")
	}
}

func TestExecYLoopActsOnSpans(t *testing.T) {
	buf := piece.NewFromString("aXbXc")
	run(t, buf, "1,$y/X/d")
	if got := buf.Text(); got != "XX" {
		t.Errorf("got %q, want %q", got, "XX")
	}
}

func TestExecGRunsWhenMatched(t *testing.T) {
	buf := piece.NewFromString("foo")
	run(t, buf, "1g/foo/d")
	if got := buf.Text(); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestExecGSkipsWhenNotMatched(t *testing.T) {
	buf := piece.NewFromString("bar")
	run(t, buf, "1g/foo/d")
	if got := buf.Text(); got != "bar" {
		t.Errorf("got %q, want %q", got, "bar")
	}
}

func TestExecVRunsWhenNotMatched(t *testing.T) {
	buf := piece.NewFromString("bar")
	run(t, buf, "1v/foo/d")
	if got := buf.Text(); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestExecXLoopBodylessSelectsMatches(t *testing.T) {
	buf := piece.NewFromString("aaa bbb aaa")
	cmd, err := Parse("1,$x/aaa/")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	in := &Interp{Buf: buf}
	if _, err := in.Run(context.Background(), piece.Range{}, cmd); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !in.MultiDotSet {
		t.Fatal("expected MultiDotSet")
	}
	if len(in.MultiDot) != 2 {
		t.Fatalf("got %d matches, want 2", len(in.MultiDot))
	}
	if got := buf.Text(); got != "aaa bbb aaa" {
		t.Errorf("bodyless x mutated buffer: got %q", got)
	}
}

func TestExecGBodylessSelectsWholeMatch(t *testing.T) {
	buf := piece.NewFromString("foo")
	cmd, err := Parse("1g/foo/")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	in := &Interp{Buf: buf}
	dot, err := in.Run(context.Background(), piece.Range{}, cmd)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !in.MultiDotSet || len(in.MultiDot) != 1 {
		t.Fatalf("got MultiDotSet=%v MultiDot=%v, want one match", in.MultiDotSet, in.MultiDot)
	}
	if dot != (piece.Range{Start: 0, End: 3}) {
		t.Errorf("dot = %+v, want {0,3}", dot)
	}
}

func TestExecGBodylessNoMatchSelectsNothing(t *testing.T) {
	buf := piece.NewFromString("bar")
	cmd, err := Parse("1g/foo/")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	in := &Interp{Buf: buf}
	if _, err := in.Run(context.Background(), piece.Range{}, cmd); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !in.MultiDotSet {
		t.Fatal("expected MultiDotSet even when g did not match")
	}
	if len(in.MultiDot) != 0 {
		t.Errorf("got %d matches, want 0", len(in.MultiDot))
	}
}

func TestRunBatchAppliesEditAcrossEverySelection(t *testing.T) {
	buf := piece.NewFromString("a\nbb\nccc\n")
	cs := cursor.NewCursorSetFromSlice([]cursor.Selection{
		cursor.NewRangeSelection(piece.Range{Start: 0, End: 1}),
		cursor.NewRangeSelection(piece.Range{Start: 2, End: 4}),
		cursor.NewRangeSelection(piece.Range{Start: 5, End: 8}),
	})
	cmd, err := Parse("c/X/")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	in := &Interp{Buf: buf}
	if _, err := in.RunBatch(context.Background(), cs, cmd); err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	if got := buf.Text(); got != "X\nX\nX\n" {
		t.Errorf("got %q, want %q", got, "X\nX\nX\n")
	}
}

func TestRunBatchSealsOneUndoEntry(t *testing.T) {
	buf := piece.NewFromString("a\nbb\nccc\n")
	tree := history.NewTree(buf, 0)
	cs := cursor.NewCursorSetFromSlice([]cursor.Selection{
		cursor.NewRangeSelection(piece.Range{Start: 0, End: 1}),
		cursor.NewRangeSelection(piece.Range{Start: 2, End: 4}),
		cursor.NewRangeSelection(piece.Range{Start: 5, End: 8}),
	})
	cmd, err := Parse("d")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	in := &Interp{Buf: buf, History: tree}
	if _, err := in.RunBatch(context.Background(), cs, cmd); err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	if got := buf.Text(); got != "\n\n\n" {
		t.Errorf("got %q, want %q", got, "\n\n\n")
	}
	if err := tree.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := buf.Text(); got != "a\nbb\nccc\n" {
		t.Errorf("got %q after undo, want %q", got, "a\nbb\nccc\n")
	}
}

func TestExecGroupSequencesCommands(t *testing.T) {
	buf := piece.NewFromString("a\nb\n")
	run(t, buf, "1{a/X/;a/Y/}")
	// Each a/.../ without its own address inherits the group's
	// threaded dot, which after an insert becomes the range of the
	// just-inserted text itself — so the second append lands right
	// after the first.
	if got := buf.Text(); got != "a\nXYb\n" {
		t.Errorf("got %q, want %q", got, "a\nXYb\n")
	}
}

func TestExecMarkCommand(t *testing.T) {
	buf := piece.NewFromString("hello")
	cmd, err := Parse("#2k x")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	in := &Interp{Buf: buf}
	if _, err := in.Run(context.Background(), piece.Range{}, cmd); err != nil {
		t.Fatalf("Run: %v", err)
	}
	pos, ok := buf.Mark(piece.MarkID("x"))
	if !ok || pos != 2 {
		t.Errorf("mark x = %v, %v, want 2, true", pos, ok)
	}
}

func TestExecQuitUnsavedWithoutForce(t *testing.T) {
	buf := piece.NewFromString("hello")
	cmd, err := Parse("q")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	in := &Interp{Buf: buf}
	if _, err := in.Run(context.Background(), piece.Range{}, cmd); err == nil {
		t.Fatal("expected ErrUnsavedChanges")
	} else if in.Quit {
		t.Error("Quit should remain false")
	}
}

func TestExecQuitForced(t *testing.T) {
	buf := piece.NewFromString("hello")
	cmd, err := Parse("q!")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	in := &Interp{Buf: buf}
	if _, err := in.Run(context.Background(), piece.Range{}, cmd); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !in.Quit {
		t.Error("expected Quit true")
	}
}

func TestExecPrintWritesToOutputSink(t *testing.T) {
	buf := piece.NewFromString("hello\n")
	cmd, err := Parse("1p")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var out bytes.Buffer
	in := &Interp{Buf: buf, Output: &out}
	if _, err := in.Run(context.Background(), piece.Range{}, cmd); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.String() != "hello\n" {
		t.Errorf("got %q, want %q", out.String(), "hello\n")
	}
}
