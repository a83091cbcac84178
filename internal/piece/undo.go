package piece

// Relink restores one side of a previously computed SpliceResult: with
// forward true it relinks the New run back into the chain (redo), with
// forward false it relinks the Old run back in (undo). This is the
// only operation history.Tree needs from a buffer to move between
// revisions — it never re-derives a splice, it only replays the
// prev/first/last/next tuple already captured at edit time.
func (b *Buffer) Relink(sr SpliceResult, forward bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if forward {
		b.arena.link(sr.Prev, sr.NewFirst, sr.NewLast, sr.Next)
		b.size += sr.SizeDelta
		b.applyMarkShift(sr.Range.Start, sr.Range.Len(), sr.Range.Len()+sr.SizeDelta)
	} else {
		b.arena.link(sr.Prev, sr.OldFirst, sr.OldLast, sr.Next)
		b.size -= sr.SizeDelta
		newLen := sr.Range.Len() + sr.SizeDelta
		b.applyMarkShift(sr.Range.Start, newLen, sr.Range.Len())
	}
	b.invalidateIndex()
	b.pending = nil
	b.sealGen++
	b.revisionID = nextRevisionID()
}
