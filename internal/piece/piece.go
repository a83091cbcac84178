package piece

// PieceID indexes into a Buffer's piece arena. The zero value never
// names a live user piece (it is reserved for the head sentinel).
type PieceID int32

const noPiece PieceID = -1

// node is one immutable entry in the piece arena: a span inside a
// block, doubly-linked to its live neighbors. Once allocated, off and
// length are never modified outside of the narrow coalescing fast
// path documented in doc.go; prev/next are the only fields an edit
// ever changes after creation, and only to relink, never to describe
// a different node's identity.
type node struct {
	block  blockID
	off    ByteOffset
	length ByteOffset
	prev   PieceID
	next   PieceID
}

// pieceArena owns all piece nodes ever allocated for a buffer,
// including ones spliced out of the live chain. Keeping discarded
// nodes around (rather than freeing them) is what lets Undo relink
// the exact pre-edit chain by id without recomputing anything — see
// doc.go.
type pieceArena struct {
	nodes []node
	head  PieceID
	tail  PieceID
}

func newPieceArena() *pieceArena {
	a := &pieceArena{
		nodes: make([]node, 2, 64),
	}
	a.head, a.tail = 0, 1
	a.nodes[a.head] = node{block: noBlock, prev: noPiece, next: a.tail}
	a.nodes[a.tail] = node{block: noBlock, prev: a.head, next: noPiece}
	return a
}

// alloc appends a new node and returns its id.
func (a *pieceArena) alloc(n node) PieceID {
	id := PieceID(len(a.nodes))
	a.nodes = append(a.nodes, n)
	return id
}

func (a *pieceArena) get(id PieceID) *node { return &a.nodes[id] }

// link splices the chain prev -> first -> ... -> last -> next,
// overwriting only the neighbor-facing ends of first/last/prev/next.
// first/last may be noPiece to splice an empty run (pure delete or,
// symmetrically, skip entirely).
func (a *pieceArena) link(prev, first, last, next PieceID) {
	if first == noPiece {
		a.nodes[prev].next = next
		a.nodes[next].prev = prev
		return
	}
	a.nodes[prev].next = first
	a.nodes[first].prev = prev
	a.nodes[last].next = next
	a.nodes[next].prev = last
}

// walk visits every live piece from head to tail (exclusive of the
// sentinels), calling visit with its id and the node's contents.
func (a *pieceArena) walk(visit func(id PieceID, n node) bool) {
	for id := a.nodes[a.head].next; id != a.tail; id = a.nodes[id].next {
		if !visit(id, a.nodes[id]) {
			return
		}
	}
}
