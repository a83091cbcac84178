package cursor

import (
	"testing"

	"github.com/martanne/vis/internal/piece"
)

func TestApplyBatchDeletesAndTransformsCursors(t *testing.T) {
	buf := piece.NewFromString("the quick brown fox")
	cs := NewCursorSetFromSlice([]Selection{
		NewCursorSelection(10), // inside "brown", after the second deleted word
		NewCursorSelection(19), // end of "fox"
	})

	// Remove " brown" (pos 9, len 6) and " quick" (pos 3, len 6), in
	// descending order as ApplyBatch requires.
	edits := []Edit{
		{Pos: 9, DelLen: 6, Text: ""},
		{Pos: 3, DelLen: 6, Text: ""},
	}

	if _, err := ApplyBatch(buf, cs, edits); err != nil {
		t.Fatalf("ApplyBatch: %v", err)
	}
	if got, want := buf.Text(), "the fox"; got != want {
		t.Fatalf("buffer text = %q, want %q", got, want)
	}

	all := cs.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 cursors to survive, got %d", len(all))
	}
	// offset 10 ("brown fox") sat inside the first deleted range -> clamps to 9 -> shifts by -6 for the second delete -> 3
	if all[0].Head != 3 {
		t.Fatalf("first cursor = %d, want 3", all[0].Head)
	}
	// offset 19 sat after both deletions -> shifts by -12
	if all[1].Head != 7 {
		t.Fatalf("second cursor = %d, want 7", all[1].Head)
	}
}

func TestApplyBatchRejectsOverlapping(t *testing.T) {
	buf := piece.NewFromString("0123456789")
	cs := NewCursorSetAt(0)
	edits := []Edit{
		{Pos: 5, DelLen: 3, Text: ""},
		{Pos: 6, DelLen: 2, Text: ""},
	}
	if _, err := ApplyBatch(buf, cs, edits); err == nil {
		t.Fatalf("expected an error for overlapping edits")
	}
}
