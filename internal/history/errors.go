package history

import "errors"

var (
	// ErrNothingToUndo is returned by Tree.Undo when current is the root.
	ErrNothingToUndo = errors.New("history: nothing to undo")
	// ErrNothingToRedo is returned by Tree.Redo when current has no children.
	ErrNothingToRedo = errors.New("history: nothing to redo")
	// ErrNoBranch is returned by Tree.RedoBranch for an out-of-range index.
	ErrNoBranch = errors.New("history: no such redo branch")
)
