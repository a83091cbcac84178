package history

import (
	"testing"

	"github.com/martanne/vis/internal/piece"
)

func TestUndoRedoAcrossSnapshots(t *testing.T) {
	buf := piece.NewFromString("")
	tr := NewTree(buf, 0)

	sr1, err := buf.Insert(0, "hello")
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	tr.Record(sr1, nil, nil)
	tr.Snapshot()

	sr2, err := buf.Insert(5, " world")
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	tr.Record(sr2, nil, nil)
	tr.Snapshot()

	if got, want := buf.Text(), "hello world"; got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}

	if err := tr.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got, want := buf.Text(), "hello"; got != want {
		t.Fatalf("after first undo, text = %q, want %q", got, want)
	}

	if err := tr.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got, want := buf.Text(), ""; got != want {
		t.Fatalf("after second undo, text = %q, want %q", got, want)
	}

	if err := tr.Undo(); err != ErrNothingToUndo {
		t.Fatalf("Undo at root: got %v, want ErrNothingToUndo", err)
	}

	if err := tr.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if got, want := buf.Text(), "hello"; got != want {
		t.Fatalf("after first redo, text = %q, want %q", got, want)
	}

	if err := tr.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if got, want := buf.Text(), "hello world"; got != want {
		t.Fatalf("after second redo, text = %q, want %q", got, want)
	}

	if err := tr.Redo(); err != ErrNothingToRedo {
		t.Fatalf("Redo with no children: got %v, want ErrNothingToRedo", err)
	}
}

func TestBranchingRedo(t *testing.T) {
	buf := piece.NewFromString("")
	tr := NewTree(buf, 0)

	sr, _ := buf.Insert(0, "hello")
	tr.Record(sr, nil, nil)
	tr.Snapshot()

	if err := tr.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if buf.Text() != "" {
		t.Fatalf("expected empty buffer after undo, got %q", buf.Text())
	}

	sr2, _ := buf.Insert(0, "hi")
	tr.Record(sr2, nil, nil)
	tr.Snapshot()

	if got, want := buf.Text(), "hi"; got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}

	if err := tr.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if buf.Text() != "" {
		t.Fatalf("expected empty buffer, got %q", buf.Text())
	}

	if got, want := tr.RedoBranches(), 2; got != want {
		t.Fatalf("RedoBranches() = %d, want %d", got, want)
	}

	if err := tr.RedoBranch(0); err != nil {
		t.Fatalf("RedoBranch(0): %v", err)
	}
	if got, want := buf.Text(), "hello"; got != want {
		t.Fatalf("RedoBranch(0) text = %q, want %q", got, want)
	}

	if err := tr.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if err := tr.RedoBranch(1); err != nil {
		t.Fatalf("RedoBranch(1): %v", err)
	}
	if got, want := buf.Text(), "hi"; got != want {
		t.Fatalf("RedoBranch(1) text = %q, want %q", got, want)
	}
}

func TestCoalescedChangeReplacesPending(t *testing.T) {
	buf := piece.NewFromString("")
	tr := NewTree(buf, 0)

	sr1, _ := buf.Insert(0, "h")
	tr.Record(sr1, nil, nil)
	sr2, _ := buf.Insert(1, "i")
	tr.Record(sr2, nil, nil)

	if got, want := len(tr.pending), 1; got != want {
		t.Fatalf("expected coalesced insert to collapse to one pending change, got %d", got)
	}

	tr.Snapshot()
	if got, want := buf.Text(), "hi"; got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}
	if err := tr.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if buf.Text() != "" {
		t.Fatalf("expected empty buffer after undoing coalesced run, got %q", buf.Text())
	}
}

func TestWalkVisitsEveryAction(t *testing.T) {
	buf := piece.NewFromString("")
	tr := NewTree(buf, 0)

	sr, _ := buf.Insert(0, "a")
	tr.Record(sr, nil, nil)
	tr.Snapshot()

	sr2, _ := buf.Insert(1, "b")
	tr.Record(sr2, nil, nil)
	tr.Snapshot()

	if err := tr.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	sr3, _ := buf.Insert(1, "c")
	tr.Record(sr3, nil, nil)
	tr.Snapshot()

	visited := map[ActionID]bool{}
	tr.Walk(func(id ActionID) bool {
		visited[id] = true
		return true
	})
	if len(visited) != 3 {
		t.Fatalf("Walk visited %d actions, want 3", len(visited))
	}
}
