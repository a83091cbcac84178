package register

import (
	"context"
	"strings"

	"github.com/martanne/vis/internal/pipe"
	"github.com/martanne/vis/internal/piece"
)

// Type selects a register's storage behavior.
type Type int

const (
	// Normal stores its values in memory, one per slot.
	Normal Type = iota
	// Blackhole discards everything written to it and always reads
	// back empty, like /dev/null.
	Blackhole
	// Clipboard reads and writes through the host clipboard instead
	// of an in-memory slot array.
	Clipboard
)

// Register is a named container for cut/copy/paste text. It holds one
// value per slot — a plain yank fills slot 0, a multi-selection yank
// fills one slot per selection — mirroring the original's Array of
// values rather than a single contiguous buffer.
type Register struct {
	Type     Type
	Linewise bool
	Append   bool

	values []string
}

// New creates an empty register of the given type.
func New(t Type) *Register {
	return &Register{Type: t}
}

// Count returns the number of slots currently holding a value.
func (r *Register) Count() int { return len(r.values) }

// Resize grows or shrinks the slot array to exactly n slots, padding
// new slots with empty strings or discarding trailing ones.
func (r *Register) Resize(n int) error {
	if n < 0 {
		return ErrInvalidSlot
	}
	switch {
	case n == len(r.values):
	case n < len(r.values):
		r.values = r.values[:n]
	default:
		grown := make([]string, n)
		copy(grown, r.values)
		r.values = grown
	}
	return nil
}

// Get returns the register's contents as a single string: its slots
// joined with "\n" if Linewise, concatenated directly otherwise. For a
// Clipboard register this pastes from the host clipboard; for
// Blackhole it always returns "".
func (r *Register) Get(ctx context.Context) (string, error) {
	switch r.Type {
	case Blackhole:
		return "", nil
	case Clipboard:
		data, err := pasteClipboard(ctx)
		if err != nil {
			return "", err
		}
		return data, nil
	default:
		return r.join(), nil
	}
}

func (r *Register) join() string {
	if r.Linewise {
		return strings.Join(r.values, "\n")
	}
	return strings.Join(r.values, "")
}

// SlotGet returns the value at slot i, or "", false if the register
// has no such slot or is a Blackhole/Clipboard register (neither of
// which is slot-addressable).
func (r *Register) SlotGet(i int) (string, bool) {
	if r.Type != Normal || i < 0 || i >= len(r.values) {
		return "", false
	}
	return r.values[i], true
}

// Put replaces the register's entire contents with a single value.
// On Blackhole it is a silent no-op; on Clipboard it copies data to
// the host clipboard.
func (r *Register) Put(ctx context.Context, data string) error {
	switch r.Type {
	case Blackhole:
		return nil
	case Clipboard:
		return copyClipboard(ctx, data)
	default:
		r.values = []string{data}
		return nil
	}
}

// PutSlot sets slot i to data, growing the slot array if needed. Only
// meaningful for Normal registers — Blackhole discards the write,
// Clipboard has no slot concept and forwards to Put.
func (r *Register) PutSlot(ctx context.Context, i int, data string) error {
	if i < 0 {
		return ErrInvalidSlot
	}
	switch r.Type {
	case Blackhole:
		return nil
	case Clipboard:
		return r.Put(ctx, data)
	default:
		if i >= len(r.values) {
			if err := r.Resize(i + 1); err != nil {
				return err
			}
		}
		r.values[i] = data
		return nil
	}
}

// PutRange reads the given range from buf and stores it as the
// register's whole contents, per Put's semantics.
func (r *Register) PutRange(ctx context.Context, buf *piece.Buffer, rng piece.Range) error {
	return r.Put(ctx, buf.TextRange(rng.Start, rng.End))
}

// SlotPutRange reads the given range from buf and stores it at slot i.
func (r *Register) SlotPutRange(ctx context.Context, buf *piece.Buffer, i int, rng piece.Range) error {
	return r.PutSlot(ctx, i, buf.TextRange(rng.Start, rng.End))
}

// AppendRange appends the given range from buf onto slot 0. Valid only
// on Normal registers: Blackhole silently discards the append (as the
// original's default case does for every register kind except
// Normal), while Clipboard returns ErrAppendNotSupported rather than
// silently overwriting the clipboard instead of appending to it.
func (r *Register) AppendRange(buf *piece.Buffer, rng piece.Range) error {
	switch r.Type {
	case Normal:
		text := buf.TextRange(rng.Start, rng.End)
		if len(r.values) == 0 {
			r.values = []string{text}
			return nil
		}
		r.values[0] += text
		return nil
	case Blackhole:
		return nil
	case Clipboard:
		return ErrAppendNotSupported
	default:
		return ErrAppendNotSupported
	}
}

func pasteClipboard(ctx context.Context) (string, error) {
	if pipe.ClipboardAvailable() {
		data, err := pipe.ClipboardPaste(ctx)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return clipboardFallbackRead()
}

func copyClipboard(ctx context.Context, data string) error {
	if pipe.ClipboardAvailable() {
		return pipe.ClipboardCopy(ctx, []byte(data))
	}
	return clipboardFallbackWrite(data)
}
