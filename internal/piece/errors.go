package piece

import "errors"

// Errors returned by buffer operations.
var (
	// ErrOffsetOutOfRange indicates an offset is outside the valid buffer range.
	ErrOffsetOutOfRange = errors.New("piece: offset out of range")

	// ErrRangeInvalid indicates an invalid range (end < start, or end beyond size).
	ErrRangeInvalid = errors.New("piece: invalid range")

	// ErrEditsOverlap indicates a batch of edits overlap or are not
	// supplied in descending-start order.
	ErrEditsOverlap = errors.New("piece: edits overlap or are not in reverse order")

	// ErrIOFault indicates a memory-mapped read faulted (SIGBUS) during
	// the current operation. The buffer remains readable for spans
	// already copied into memory but MUST NOT be saved until reopened.
	ErrIOFault = errors.New("piece: I/O fault reading memory-mapped block")

	// ErrNotSavable is returned by Save once a buffer has faulted.
	ErrNotSavable = errors.New("piece: buffer is not savable after an I/O fault")

	// ErrMarkNotFound indicates an unknown mark id was queried.
	ErrMarkNotFound = errors.New("piece: mark not found")
)
