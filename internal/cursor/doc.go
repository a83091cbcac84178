// Package cursor provides cursor and selection management for text
// editing against an internal/piece buffer.
//
// Selections use an anchor/head model where Anchor is where the
// selection started and Head is the current cursor position, the
// point where typing occurs. When Anchor == Head the selection is
// just a cursor with no extent. CursorSet manages multiple selections
// that stay sorted by position and merge automatically when they
// overlap or touch, matching the "selections: sorted, disjoint,
// merge-on-mutate" multi-cursor model.
//
// Every selection and cursor value is immutable; mutation always
// returns a new value. CursorSet itself is not safe for concurrent
// use and should be protected by the caller if shared across
// goroutines.
package cursor
