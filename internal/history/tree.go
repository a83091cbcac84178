package history

import (
	"sync"
	"time"

	"github.com/martanne/vis/internal/cursor"
	"github.com/martanne/vis/internal/piece"
)

// ActionID addresses a node in a Tree's arena. IDs start at 0 (the
// first action sealed); noAction (-1) marks the root (the state
// before any edits).
type ActionID int32

const noAction ActionID = -1

// Change is one primitive splice: the excised and inserted piece
// ranges piece.Buffer already computed, plus the cursor/selection
// state immediately before and after it applied.
type Change struct {
	Splice        piece.SpliceResult
	CursorsBefore []cursor.Selection
	CursorsAfter  []cursor.Selection
	Timestamp     time.Time
}

// actionNode is one node of the undo tree: a sealed run of Changes
// (usually one, occasionally several grouped under a single
// Snapshot), its parent, and the children reachable by redoing from
// it — more than one child means more than one redo branch exists.
type actionNode struct {
	changes  []Change
	parent   ActionID
	children []ActionID
}

// Tree is the undo/redo tree for a single buffer. The zero value is
// not usable; construct with NewTree.
type Tree struct {
	mu sync.Mutex

	buf *piece.Buffer

	arena   []actionNode
	current ActionID

	pending []Change

	maxActions int
}

// NewTree creates an empty undo tree bound to buf. Relink calls made
// by Undo/Redo are issued against buf. maxActions is stored on the
// tree but no limit is applied: every sealed action is kept, whatever
// its value.
func NewTree(buf *piece.Buffer, maxActions int) *Tree {
	return &Tree{
		buf:        buf,
		current:    noAction,
		maxActions: maxActions,
	}
}

// Record appends one Change to the tree's pending (not yet sealed)
// action. If sr.Coalesced is true and there is already a pending
// change, it replaces the last one instead of appending — the
// buffer already folded the new keystroke into the same splice, so
// the pending action should describe the run as a whole, not one
// entry per keystroke.
func (t *Tree) Record(sr piece.SpliceResult, before, after []cursor.Selection) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch := Change{
		Splice:        sr,
		CursorsBefore: cloneSelections(before),
		CursorsAfter:  cloneSelections(after),
		Timestamp:     time.Now(),
	}
	if sr.Coalesced && len(t.pending) > 0 {
		t.pending[len(t.pending)-1] = ch
		return
	}
	t.pending = append(t.pending, ch)
}

// Snapshot seals the pending run of Changes as a new child of the
// current node and moves current to it, then calls buf.Seal so a
// later keystroke cannot be coalesced into this now-closed action. A
// no-op if nothing has been Recorded since the last Snapshot.
func (t *Tree) Snapshot() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snapshotLocked()
}

func (t *Tree) snapshotLocked() {
	if len(t.pending) == 0 {
		return
	}
	id := ActionID(len(t.arena))
	t.arena = append(t.arena, actionNode{
		changes: t.pending,
		parent:  t.current,
	})
	if t.current != noAction {
		t.arena[t.current].children = append(t.arena[t.current].children, id)
	}
	t.current = id
	t.pending = nil
	if t.buf != nil {
		t.buf.Seal()
	}
}

// Undo reverts the current action's changes in reverse order and
// moves current to its parent. Any pending (not yet snapshotted)
// changes are sealed first, so Undo always undoes the most recent
// edit regardless of whether the caller remembered to call Snapshot.
func (t *Tree) Undo() error {
	t.mu.Lock()
	t.snapshotLocked()
	if t.current == noAction {
		t.mu.Unlock()
		return ErrNothingToUndo
	}
	id := t.current
	node := t.arena[id]
	t.mu.Unlock()

	for i := len(node.changes) - 1; i >= 0; i-- {
		t.buf.Relink(node.changes[i].Splice, false)
	}

	t.mu.Lock()
	t.current = node.parent
	t.mu.Unlock()
	return nil
}

// Redo re-applies the latest redo branch from current (the child
// most recently created, i.e. the usual "redo what I just undid"
// behavior). Use RedoBranch to pick a different branch after an
// Undo was followed by a different edit.
func (t *Tree) Redo() error {
	t.mu.Lock()
	if len(t.pending) > 0 {
		t.mu.Unlock()
		return ErrNothingToRedo
	}
	children := t.childrenLocked(t.current)
	if len(children) == 0 {
		t.mu.Unlock()
		return ErrNothingToRedo
	}
	id := children[len(children)-1]
	t.mu.Unlock()
	return t.redoTo(id)
}

// RedoBranch redoes the i'th child of current (0-indexed in creation
// order), for picking up an abandoned future after Undo followed by
// a fresh edit spawned a sibling branch.
func (t *Tree) RedoBranch(i int) error {
	t.mu.Lock()
	children := t.childrenLocked(t.current)
	if i < 0 || i >= len(children) {
		t.mu.Unlock()
		return ErrNoBranch
	}
	id := children[i]
	t.mu.Unlock()
	return t.redoTo(id)
}

func (t *Tree) redoTo(id ActionID) error {
	t.mu.Lock()
	node := t.arena[id]
	t.mu.Unlock()

	for _, ch := range node.changes {
		t.buf.Relink(ch.Splice, true)
	}

	t.mu.Lock()
	t.current = id
	t.mu.Unlock()
	return nil
}

func (t *Tree) childrenLocked(id ActionID) []ActionID {
	if id == noAction {
		var roots []ActionID
		for i, node := range t.arena {
			if node.parent == noAction {
				roots = append(roots, ActionID(i))
			}
		}
		return roots
	}
	return t.arena[id].children
}

// CanUndo reports whether Undo would succeed.
func (t *Tree) CanUndo() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current != noAction || len(t.pending) > 0
}

// CanRedo reports whether Redo would succeed.
func (t *Tree) CanRedo() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.childrenLocked(t.current)) > 0
}

// Current returns the currently-checked-out action and true, or 0 and
// false when the tree is at the root (no action applied).
func (t *Tree) Current() (ActionID, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == noAction {
		return 0, false
	}
	return t.current, true
}

// RedoBranches returns the number of redo branches available from
// current (more than one means a prior Undo was followed by an edit
// that forked the tree instead of replacing the abandoned future).
func (t *Tree) RedoBranches() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.childrenLocked(t.current))
}

// Action returns the changes recorded for id.
func (t *Tree) Action(id ActionID) []Change {
	t.mu.Lock()
	defer t.mu.Unlock()
	if int(id) < 0 || int(id) >= len(t.arena) {
		return nil
	}
	out := make([]Change, len(t.arena[id].changes))
	copy(out, t.arena[id].changes)
	return out
}

// Walk performs a depth-first traversal of every action in the tree,
// visiting each exactly once, starting from the roots (actions whose
// parent is the pre-history state) in creation order. Traversal stops
// early if visit returns false.
func (t *Tree) Walk(visit func(ActionID) bool) {
	t.mu.Lock()
	roots := t.childrenLocked(noAction)
	t.mu.Unlock()

	for _, r := range roots {
		if !t.walkFrom(r, visit) {
			return
		}
	}
}

func (t *Tree) walkFrom(id ActionID, visit func(ActionID) bool) bool {
	if !visit(id) {
		return false
	}
	t.mu.Lock()
	children := append([]ActionID(nil), t.arena[id].children...)
	t.mu.Unlock()
	for _, c := range children {
		if !t.walkFrom(c, visit) {
			return false
		}
	}
	return true
}

func cloneSelections(sels []cursor.Selection) []cursor.Selection {
	if sels == nil {
		return nil
	}
	out := make([]cursor.Selection, len(sels))
	copy(out, sels)
	return out
}
