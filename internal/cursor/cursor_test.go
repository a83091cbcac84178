package cursor

import "testing"

func TestCursorClampAndMove(t *testing.T) {
	c := NewCursor(-5)
	if c.Offset() != 0 {
		t.Fatalf("negative offset should clamp to 0, got %d", c.Offset())
	}
	if got := c.MoveBy(-20).Offset(); got != 0 {
		t.Fatalf("MoveBy below zero should clamp, got %d", got)
	}
	if got := c.MoveTo(50).Clamp(30).Offset(); got != 30 {
		t.Fatalf("Clamp should cap at maxOffset, got %d", got)
	}
}

func TestSelectionDirectionAndRange(t *testing.T) {
	s := NewSelection(10, 4)
	if !s.IsBackward() {
		t.Fatalf("expected backward selection")
	}
	if r := s.Range(); r.Start != 4 || r.End != 10 {
		t.Fatalf("Range() = %v, want [4,10)", r)
	}
	if s.Len() != 6 {
		t.Fatalf("Len() = %d, want 6", s.Len())
	}
	n := s.Normalize()
	if n.Anchor != 4 || n.Head != 10 {
		t.Fatalf("Normalize() = %v, want forward 4->10", n)
	}
}

func TestSelectionMerge(t *testing.T) {
	a := NewSelection(0, 5)
	b := NewSelection(4, 10)
	m := a.Merge(b)
	if m.Start() != 0 || m.End() != 10 {
		t.Fatalf("Merge() = %v, want [0,10)", m)
	}
}

func TestCursorSetNormalizesOverlaps(t *testing.T) {
	cs := NewCursorSetFromSlice([]Selection{
		NewSelection(10, 20),
		NewSelection(0, 5),
		NewSelection(15, 25),
	})
	if cs.Count() != 2 {
		t.Fatalf("expected overlapping selections to merge, got %d selections", cs.Count())
	}
	all := cs.All()
	if all[0].Start() != 0 || all[0].End() != 5 {
		t.Fatalf("first selection = %v, want [0,5)", all[0])
	}
	if all[1].Start() != 10 || all[1].End() != 25 {
		t.Fatalf("second selection = %v, want [10,25)", all[1])
	}
}

func TestCursorSetAddMergesAdjacent(t *testing.T) {
	cs := NewCursorSetAt(5)
	cs.Add(NewCursorSelection(5))
	if cs.Count() != 1 {
		t.Fatalf("identical cursors should merge into one, got %d", cs.Count())
	}
}

func TestTransformOffsetAcrossEditKinds(t *testing.T) {
	insert := Edit{Pos: 3, DelLen: 0, Text: "XY"}
	if got := TransformOffset(0, insert); got != 0 {
		t.Fatalf("offset before insert should be unchanged, got %d", got)
	}
	if got := TransformOffset(3, insert); got != 5 {
		t.Fatalf("offset at insert point should move past it (non-sticky), got %d", got)
	}
	if got := TransformOffset(10, insert); got != 12 {
		t.Fatalf("offset after insert should shift by delta, got %d", got)
	}

	del := Edit{Pos: 2, DelLen: 4, Text: ""}
	if got := TransformOffset(3, del); got != 2 {
		t.Fatalf("offset inside deleted range should clamp to start, got %d", got)
	}
	if got := TransformOffset(10, del); got != 6 {
		t.Fatalf("offset after delete should shift left by its length, got %d", got)
	}
}

func TestTransformOffsetStickyAnchor(t *testing.T) {
	insert := Edit{Pos: 5, DelLen: 0, Text: "abc"}
	if got := TransformOffsetSticky(5, insert, true); got != 5 {
		t.Fatalf("sticky anchor should stay put, got %d", got)
	}
	if got := TransformOffsetSticky(5, insert, false); got != 8 {
		t.Fatalf("non-sticky head should move past insertion, got %d", got)
	}
}

func TestTransformCursorSetMultiOrderIndependence(t *testing.T) {
	cs := NewCursorSetAt(8)
	edits := []Edit{
		{Pos: 5, DelLen: 1, Text: ""},
		{Pos: 2, DelLen: 1, Text: ""},
	}
	TransformCursorSetMulti(cs, edits)
	if got := cs.PrimaryCursor(); got != 6 {
		t.Fatalf("cursor after two disjoint deletes = %d, want 6", got)
	}
}
