package piece

// Iterator walks a buffer's live chain in forward or reverse order,
// handing out zero-copy spans of the underlying blocks instead of
// individual bytes, since most consumers (line scanners, regex
// matchers) want runs, not single bytes.
type Iterator struct {
	b       *Buffer
	id      PieceID
	start   ByteOffset
	dataOff ByteOffset // offset within the current piece already consumed (forward) or remaining (backward)
	pos     ByteOffset
	end     ByteOffset
	reverse bool
}

// Iter returns an iterator over [start, end) that yields spans in
// forward order.
func (b *Buffer) Iter(start, end ByteOffset) *Iterator {
	b.mu.RLock()
	defer b.mu.RUnlock()
	id, pieceStart := b.locate(start)
	return &Iterator{b: b, id: id, start: pieceStart, pos: start, end: end}
}

// IterBack returns an iterator over [start, end) that yields spans in
// reverse order, starting just before end.
func (b *Buffer) IterBack(start, end ByteOffset) *Iterator {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var id PieceID
	var pieceStart ByteOffset
	if end > start {
		id, pieceStart = b.locate(end - 1)
	} else {
		id, pieceStart = b.locate(start)
	}
	return &Iterator{b: b, id: id, start: pieceStart, pos: end, end: start, reverse: true}
}

// Next returns the next span, or nil, false at the end of the range.
func (it *Iterator) Next() ([]byte, bool) {
	it.b.mu.RLock()
	defer it.b.mu.RUnlock()

	if it.reverse {
		return it.prevLocked()
	}
	return it.nextLocked()
}

func (it *Iterator) nextLocked() ([]byte, bool) {
	for it.pos < it.end {
		if it.id == it.b.arena.tail {
			return nil, false
		}
		n := it.b.arena.get(it.id)
		pieceEnd := it.start + n.length
		lo, hi := it.pos, pieceEnd
		if hi > it.end {
			hi = it.end
		}
		if lo >= hi {
			it.start = pieceEnd
			it.id = n.next
			continue
		}
		blk := it.b.blocks[n.block]
		span, ok := blk.safeBytes(n.off+(lo-it.start), n.off+(hi-it.start))
		if !ok {
			it.b.faulted.Store(true)
			return nil, false
		}
		it.pos = hi
		if hi == pieceEnd {
			it.start = pieceEnd
			it.id = n.next
		}
		return span, true
	}
	return nil, false
}

func (it *Iterator) prevLocked() ([]byte, bool) {
	for it.pos > it.end {
		if it.id == it.b.arena.head {
			return nil, false
		}
		n := it.b.arena.get(it.id)
		pieceEnd := it.start + n.length
		lo, hi := it.start, it.pos
		if lo < it.end {
			lo = it.end
		}
		if hi > pieceEnd {
			hi = pieceEnd
		}
		if lo >= hi {
			it.id = n.prev
			if it.id != it.b.arena.head {
				it.start -= it.b.arena.get(it.id).length
			}
			continue
		}
		blk := it.b.blocks[n.block]
		span, ok := blk.safeBytes(n.off+(lo-it.start), n.off+(hi-it.start))
		if !ok {
			it.b.faulted.Store(true)
			return nil, false
		}
		it.pos = lo
		if lo == it.start {
			prevID := n.prev
			if prevID != it.b.arena.head {
				it.start -= it.b.arena.get(prevID).length
			}
			it.id = prevID
		}
		return span, true
	}
	return nil, false
}
