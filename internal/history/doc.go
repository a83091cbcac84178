// Package history implements the undo tree: a branching record of the
// edits applied to a piece.Buffer, addressed by ActionID rather than a
// linear undo/redo stack. Undoing never discards a branch — redoing
// after a fresh edit still leaves the abandoned future reachable by
// ActionID, and RedoBranch lets a caller pick it back up.
package history
