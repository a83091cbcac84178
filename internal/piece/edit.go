package piece

// SpliceResult describes the structural effect of one edit: which
// piece run was displaced (Old*) and which run replaced it (New*),
// along with the prev/next neighbors both runs share. A history.Change
// stores this verbatim; Undo relinks the Old run back in, Redo relinks
// the New run back in — neither direction recomputes anything, because
// no piece referenced here is ever mutated by an unrelated edit after
// this call returns.
//
// When Coalesced is true, this result describes the cumulative effect
// of every insertion in the still-open run, not just the most recent
// keystroke: NewText is the full run so far and Prev/Next/OldFirst/
// OldLast are those of the run's first edit. A history.Tree should
// replace its last recorded Change with this one rather than append a
// new one.
type SpliceResult struct {
	Prev, Next        PieceID
	OldFirst, OldLast PieceID
	NewFirst, NewLast PieceID
	Range             Range  // the displaced byte range, in pre-edit coordinates
	OldText           string // bytes removed, for undo display and registers
	NewText           string // bytes inserted
	Coalesced         bool   // true if this extended (or is) the open run
	SizeDelta         ByteOffset
	RevisionID        RevisionID
}

// Seal ends coalescing: the next insertion, however small, allocates a
// fresh piece instead of extending the last one. history.Tree calls
// this after capturing a Change so a later undo cannot be silently
// absorbed into an edit that preceded the snapshot.
func (b *Buffer) Seal() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sealGen++
	b.pending = nil
}

// Insert inserts text at pos.
func (b *Buffer) Insert(pos ByteOffset, text string) (SpliceResult, error) {
	return b.ApplyEdit(pos, 0, text)
}

// Delete removes the byte range [pos, pos+length).
func (b *Buffer) Delete(pos, length ByteOffset) (SpliceResult, error) {
	return b.ApplyEdit(pos, length, "")
}

// Replace overwrites the byte range [pos, pos+length) with text.
func (b *Buffer) Replace(pos, length ByteOffset, text string) (SpliceResult, error) {
	return b.ApplyEdit(pos, length, text)
}

// ApplyEdit performs one delete-then-insert at pos as a single
// structural splice.
func (b *Buffer) ApplyEdit(pos, delLen ByteOffset, text string) (SpliceResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.spliceLocked(pos, delLen, text)
}

// ApplyEdits applies a batch of non-overlapping edits as a single
// logical operation. Edits must be supplied in descending order of
// position so that earlier (lower-offset) edits are unaffected by the
// offset shifts later ones would otherwise cause; edits are applied in
// the order given without any automatic reordering.
func (b *Buffer) ApplyEdits(edits []Edit) ([]SpliceResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := 1; i < len(edits); i++ {
		if edits[i].Pos+edits[i].DelLen > edits[i-1].Pos {
			return nil, ErrEditsOverlap
		}
	}

	results := make([]SpliceResult, 0, len(edits))
	for _, e := range edits {
		r, err := b.spliceLocked(e.Pos, e.DelLen, e.Text)
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}

// Edit describes one delete-then-insert at Pos.
type Edit struct {
	Pos    ByteOffset
	DelLen ByteOffset
	Text   string
}

func (b *Buffer) spliceLocked(pos, delLen ByteOffset, text string) (SpliceResult, error) {
	text = b.normalizeLineEndings(text)
	if pos < 0 || pos > b.size {
		return SpliceResult{}, ErrOffsetOutOfRange
	}
	if delLen < 0 || pos+delLen > b.size {
		return SpliceResult{}, ErrRangeInvalid
	}

	if delLen == 0 && text != "" {
		if sr, ok := b.tryCoalesce(pos, text); ok {
			return sr, nil
		}
	}

	oldText := b.textRangeLocked(pos, pos+delLen)
	prevID, nextID, oldFirst, oldLast := b.boundaryRun(pos, pos+delLen)

	leftFragLen := ByteOffset(0)
	rightFragOff := ByteOffset(0)
	rightFragLen := ByteOffset(0)
	var leftBlock, rightBlock blockID
	haveLeftFrag, haveRightFrag := false, false

	if oldFirst != noPiece {
		first := b.arena.get(oldFirst)
		firstStart := b.pieceStart(oldFirst)
		if pos > firstStart {
			leftBlock = first.block
			leftFragLen = pos - firstStart
			haveLeftFrag = leftFragLen > 0
		}
		last := b.arena.get(oldLast)
		lastStart := b.pieceStart(oldLast)
		lastEnd := lastStart + last.length
		if pos+delLen < lastEnd {
			rightBlock = last.block
			rightFragOff = last.off + (pos + delLen - lastStart)
			rightFragLen = lastEnd - (pos + delLen)
			haveRightFrag = rightFragLen > 0
		}
	}

	var newFirst, newLast PieceID = noPiece, noPiece

	appendRun := func(id PieceID) {
		if newFirst == noPiece {
			newFirst = id
		} else {
			b.arena.get(newLast).next = id
			b.arena.get(id).prev = newLast
		}
		newLast = id
	}

	if haveLeftFrag {
		first := b.arena.get(oldFirst)
		id := b.arena.alloc(node{block: leftBlock, off: first.off, length: leftFragLen})
		appendRun(id)
	}

	var insertedPieceID PieceID = noPiece
	if text != "" {
		insertedPieceID = b.allocModifyPiece(text)
		appendRun(insertedPieceID)
	}

	if haveRightFrag {
		id := b.arena.alloc(node{block: rightBlock, off: rightFragOff, length: rightFragLen})
		appendRun(id)
	}

	b.arena.link(prevID, newFirst, newLast, nextID)
	b.invalidateIndex()

	sizeDelta := ByteOffset(len(text)) - delLen
	b.size += sizeDelta
	b.revisionID = nextRevisionID()
	b.applyMarkShift(pos, delLen, ByteOffset(len(text)))

	if delLen == 0 && text != "" {
		b.pending = &pendingEdit{
			pieceID: insertedPieceID, bufEnd: pos + ByteOffset(len(text)), sealGen: b.sealGen,
			startPos: pos, origPrev: prevID, origNext: nextID,
			origOldFirst: oldFirst, origOldLast: oldLast, accumText: text,
		}
	} else {
		b.pending = nil
	}

	return SpliceResult{
		Prev: prevID, Next: nextID,
		OldFirst: oldFirst, OldLast: oldLast,
		NewFirst: newFirst, NewLast: newLast,
		Range:      NewRange(pos, pos+delLen),
		OldText:    oldText,
		NewText:    text,
		SizeDelta:  sizeDelta,
		RevisionID: b.revisionID,
	}, nil
}

// boundaryRun returns the prev/next neighbors and the original
// (unsplit) first/last pieces spanning [lo, hi). When lo==hi it
// describes a pure insertion point: oldFirst/oldLast name the single
// piece straddling lo if a split is needed, or noPiece/noPiece if lo
// already falls on a piece boundary.
func (b *Buffer) boundaryRun(lo, hi ByteOffset) (prevID, nextID, first, last PieceID) {
	if lo == hi {
		if lo == 0 {
			nextID = b.arena.get(b.arena.head).next
			prevID = b.arena.head
			return prevID, nextID, noPiece, noPiece
		}
		if lo == b.size {
			prevID = b.arena.get(b.arena.tail).prev
			return prevID, b.arena.tail, noPiece, noPiece
		}
		id, start := b.locate(lo)
		if start == lo {
			return b.arena.get(id).prev, id, noPiece, noPiece
		}
		return b.arena.get(id).prev, b.arena.get(id).next, id, id
	}

	id, start := b.locate(lo)
	first = id
	pos := start
	lastID := id
	for {
		n := b.arena.get(lastID)
		if pos+n.length >= hi {
			break
		}
		pos += n.length
		lastID = n.next
	}
	last = lastID
	prevID = b.arena.get(first).prev
	nextID = b.arena.get(last).next
	return prevID, nextID, first, last
}

// pieceStart walks the live chain to find id's starting offset. It is
// only used when a caller has a bare id without its offset in hand;
// prefer locate when an offset is already known.
func (b *Buffer) pieceStart(id PieceID) ByteOffset {
	pos := ByteOffset(0)
	found := ByteOffset(-1)
	b.arena.walk(func(pid PieceID, n node) bool {
		if pid == id {
			found = pos
			return false
		}
		pos += n.length
		return true
	})
	return found
}

// allocModifyPiece appends text to the modify block and returns a new
// piece referencing it.
func (b *Buffer) allocModifyPiece(text string) PieceID {
	blk := b.blocks[b.modifyBlockIdx].(*memBlock)
	off := blk.append([]byte(text))
	return b.arena.alloc(node{block: blockID(b.modifyBlockIdx), off: off, length: ByteOffset(len(text))})
}

// tryCoalesce extends the piece from the still-open pending edit in
// place if this insertion continues it directly: same position, no
// intervening Seal, and the piece is still the most recent thing
// appended to the modify block. On success it returns the cumulative
// SpliceResult for the whole open run, not just this call's delta —
// see SpliceResult.Coalesced.
func (b *Buffer) tryCoalesce(pos ByteOffset, text string) (SpliceResult, bool) {
	p := b.pending
	if p == nil || p.sealGen != b.sealGen || pos != p.bufEnd {
		return SpliceResult{}, false
	}
	blk := b.blocks[b.modifyBlockIdx].(*memBlock)
	n := b.arena.get(p.pieceID)
	if n.off+n.length != ByteOffset(len(blk.data)) {
		return SpliceResult{}, false
	}

	blk.append([]byte(text))
	n.length += ByteOffset(len(text))
	p.bufEnd += ByteOffset(len(text))
	p.accumText += text

	b.invalidateIndex()
	sizeDelta := ByteOffset(len(text))
	b.size += sizeDelta
	b.revisionID = nextRevisionID()
	b.applyMarkShift(pos, 0, ByteOffset(len(text)))

	return SpliceResult{
		Prev: p.origPrev, Next: p.origNext,
		OldFirst: p.origOldFirst, OldLast: p.origOldLast,
		NewFirst: p.pieceID, NewLast: p.pieceID,
		Range:      NewRange(p.startPos, p.startPos),
		NewText:    p.accumText,
		Coalesced:  true,
		SizeDelta:  ByteOffset(len(p.accumText)),
		RevisionID: b.revisionID,
	}, true
}
