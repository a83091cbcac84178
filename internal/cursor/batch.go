package cursor

import "github.com/martanne/vis/internal/piece"

// ApplyBatch applies a batch of non-overlapping edits to buf as one
// logical multi-cursor operation, then transforms cs to match. Edits
// must already be sorted by descending position — piece.Buffer.ApplyEdits
// enforces this — so each edit lands in the coordinate space the
// caller computed it in, unaffected by edits at lower offsets still
// waiting to be applied.
//
// buf.Seal is called afterward so a later single-character insertion
// elsewhere in the document cannot be silently coalesced into this
// batch's last edit.
func ApplyBatch(buf *piece.Buffer, cs *CursorSet, edits []Edit) ([]piece.SpliceResult, error) {
	results, err := buf.ApplyEdits(edits)
	if err != nil {
		return results, err
	}
	TransformCursorSetMulti(cs, edits)
	buf.Seal()
	return results, nil
}
