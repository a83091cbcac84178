// Package piece implements the append-only, content-addressed
// piece-chain text buffer underlying the editor's text storage.
//
// The document is a doubly-linked list of immutable pieces, each
// naming a contiguous byte span inside a block (a read-only
// memory-mapped file or a growable in-memory arena). Edits never
// mutate existing byte storage: a splice allocates fresh pieces for
// any split boundary fragments and for newly inserted text, then
// relinks the chain around them. Old pieces are left untouched in the
// buffer's piece arena, which is what lets undo relink the exact
// pre-edit chain without recomputation.
//
// # Coalescing
//
// Consecutive single-character inserts at the same cursor position
// are merged into the tail piece of the still-open edit instead of
// allocating a new piece per keystroke, so long as no history
// snapshot has sealed between them. This is the only place a piece's
// length is mutated after creation, and it is safe only because the
// piece being extended has not yet been captured by a sealed Change.
package piece
