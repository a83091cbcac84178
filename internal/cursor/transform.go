package cursor

import "sort"

// TransformOffset updates an offset after an edit:
//   - edit ending at or before offset (including a pure insertion
//     exactly at offset): shift by the edit's size delta
//   - otherwise, edit starting at or after offset: unchanged
//   - edit spans offset: move to the end of the inserted text
func TransformOffset(offset ByteOffset, edit Edit) ByteOffset {
	editEnd := edit.Pos + edit.DelLen
	if editEnd <= offset {
		return offset - edit.DelLen + ByteOffset(len(edit.Text))
	}
	if edit.Pos >= offset {
		return offset
	}
	return edit.Pos + ByteOffset(len(edit.Text))
}

// TransformOffsetSticky is like TransformOffset but lets a pure
// insertion exactly at offset either stick to its pre-edit position
// (sticky true, the usual rule for an anchor) or move past the
// inserted text (sticky false, the usual rule for a head/cursor).
func TransformOffsetSticky(offset ByteOffset, edit Edit, sticky bool) ByteOffset {
	if edit.Pos == offset && edit.DelLen == 0 {
		if sticky {
			return offset
		}
		return offset + ByteOffset(len(edit.Text))
	}
	editEnd := edit.Pos + edit.DelLen
	if editEnd <= offset {
		return offset - edit.DelLen + ByteOffset(len(edit.Text))
	}
	if edit.Pos >= offset {
		return offset
	}
	return edit.Pos + ByteOffset(len(edit.Text))
}

// TransformCursor updates a cursor after an edit.
func TransformCursor(c Cursor, edit Edit) Cursor {
	return NewCursor(TransformOffset(c.offset, edit))
}

// TransformSelection updates a selection after an edit, transforming
// anchor and head independently.
func TransformSelection(sel Selection, edit Edit) Selection {
	return Selection{
		Anchor: TransformOffset(sel.Anchor, edit),
		Head:   TransformOffset(sel.Head, edit),
	}
}

// TransformSelectionWithBias transforms a selection with explicit
// stickiness for anchor and head. The anchor is usually sticky (stays
// put for an insertion exactly at it); the head usually is not (moves
// past an insertion at the cursor, since that's where typing lands).
func TransformSelectionWithBias(sel Selection, edit Edit, anchorSticky, headSticky bool) Selection {
	return Selection{
		Anchor: TransformOffsetSticky(sel.Anchor, edit, anchorSticky),
		Head:   TransformOffsetSticky(sel.Head, edit, headSticky),
	}
}

// TransformCursorSet updates every selection in cs after one edit.
func TransformCursorSet(cs *CursorSet, edit Edit) {
	for i := range cs.selections {
		cs.selections[i] = TransformSelection(cs.selections[i], edit)
	}
	cs.normalize()
}

// TransformCursorSetMulti updates cs after a batch of edits. edits
// must be in descending-position order, the same order
// piece.Buffer.ApplyEdits requires and applies them in — each edit's
// Pos is only meaningful in the coordinate space produced by the
// edits before it in the slice, so they must replay in that same
// order here.
func TransformCursorSetMulti(cs *CursorSet, edits []Edit) {
	for _, edit := range edits {
		TransformCursorSet(cs, edit)
	}
}

// TransformRanges updates a slice of ranges after an edit, normalizing
// each so Start <= End.
func TransformRanges(ranges []Range, edit Edit) []Range {
	result := make([]Range, len(ranges))
	for i, r := range ranges {
		start := TransformOffset(r.Start, edit)
		end := TransformOffset(r.End, edit)
		if start > end {
			start, end = end, start
		}
		result[i] = Range{Start: start, End: end}
	}
	return result
}

// AdjustForDeletion moves offset to the start of deleteRange if it
// fell inside the deleted span, or shifts it left if it fell after.
func AdjustForDeletion(offset ByteOffset, deleteRange Range) ByteOffset {
	if offset <= deleteRange.Start {
		return offset
	}
	if offset < deleteRange.End {
		return deleteRange.Start
	}
	return offset - deleteRange.Len()
}

// AdjustForInsertion shifts offset right by insertLen if it fell at
// or after insertOffset.
func AdjustForInsertion(offset, insertOffset, insertLen ByteOffset) ByteOffset {
	if offset < insertOffset {
		return offset
	}
	return offset + insertLen
}

// ComputeEditDelta returns the change in document length from an edit.
func ComputeEditDelta(edit Edit) ByteOffset {
	return ByteOffset(len(edit.Text)) - edit.DelLen
}

// EditsInReverseOrder reports whether edits are sorted by descending
// start position, the order ApplyBatch requires.
func EditsInReverseOrder(edits []Edit) bool {
	for i := 1; i < len(edits); i++ {
		if edits[i].Pos >= edits[i-1].Pos {
			return false
		}
	}
	return true
}

// SortEditsReverse sorts edits in descending order by start position,
// mutating the input slice.
func SortEditsReverse(edits []Edit) {
	sort.Slice(edits, func(i, j int) bool { return edits[i].Pos > edits[j].Pos })
}
