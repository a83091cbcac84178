package piece

import "sort"

// checkpoint records the starting byte offset of a piece within the
// live chain, sampled every checkpointStride pieces so locate can
// binary-search instead of always walking from head.
type checkpoint struct {
	id    PieceID
	start ByteOffset
}

type offsetIndex struct {
	checkpoints []checkpoint
}

const checkpointStride = 64

// rebuild walks the live chain once and records a checkpoint every
// checkpointStride pieces. Called lazily, the first time locate is
// asked for a position after a mutation invalidated the previous index.
func (b *Buffer) rebuildIndex() {
	cps := b.index.checkpoints[:0]
	pos := ByteOffset(0)
	i := 0
	b.arena.walk(func(id PieceID, n node) bool {
		if i%checkpointStride == 0 {
			cps = append(cps, checkpoint{id: id, start: pos})
		}
		pos += n.length
		i++
		return true
	})
	b.index.checkpoints = cps
	b.indexStale = false
}

// locate returns the id of the piece containing byte offset pos and
// that piece's starting offset. If pos equals the buffer size it
// returns the tail sentinel and size.
func (b *Buffer) locate(pos ByteOffset) (PieceID, ByteOffset) {
	if b.indexStale {
		b.rebuildIndex()
	}
	cps := b.index.checkpoints
	start := 0
	if len(cps) > 0 {
		start = sort.Search(len(cps), func(i int) bool { return cps[i].start > pos }) - 1
		if start < 0 {
			start = 0
		}
	}

	var id PieceID
	var off ByteOffset
	if len(cps) > 0 {
		id, off = cps[start].id, cps[start].start
	} else {
		id, off = b.arena.nodes[b.arena.head].next, 0
	}

	for id != b.arena.tail {
		n := b.arena.get(id)
		if pos < off+n.length {
			return id, off
		}
		off += n.length
		id = n.next
	}
	return b.arena.tail, off
}

func (b *Buffer) invalidateIndex() { b.indexStale = true }
