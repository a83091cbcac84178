package register

import "errors"

var (
	// ErrAppendNotSupported is returned by AppendRange on a register
	// type that only implements whole-value Put — currently the
	// clipboard register. It never falls back to a silent overwrite.
	ErrAppendNotSupported = errors.New("register: append not supported on this register type")

	// ErrInvalidSlot is returned for a negative slot index.
	ErrInvalidSlot = errors.New("register: invalid slot index")

	// ErrUnknownName is returned by Table.Get for a name outside
	// a-z, the default, blackhole, clipboard, and selection names.
	ErrUnknownName = errors.New("register: unknown register name")
)
