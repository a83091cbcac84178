package addr

import (
	"errors"
	"fmt"

	"github.com/martanne/vis/internal/command/rx"
	"github.com/martanne/vis/internal/piece"
	"github.com/martanne/vis/internal/view"
)

// ErrNoAddress is returned when an address is required but absent —
// the structural command language's NO_ADDRESS error kind.
var ErrNoAddress = errors.New("addr: address required but missing")

// ErrMarkNotSet is returned when a KindMark address names a mark the
// buffer has no record of.
var ErrMarkNotSet = errors.New("addr: mark not set")

// Marks looks up a named mark's position. *piece.Buffer implements
// this directly via its Mark method.
type Marks interface {
	Mark(id piece.MarkID) (piece.ByteOffset, bool)
}

// Eval evaluates a against buf with the given dot, returning the byte
// range it names. A nil a evaluates to dot unchanged — callers that
// require an explicit address should check for nil themselves and
// report ErrNoAddress.
func Eval(buf *piece.Buffer, dot piece.Range, a *Addr) (piece.Range, error) {
	if a == nil {
		return dot, nil
	}
	if a.IsCompose() {
		return evalCompose(buf, dot, a)
	}
	return evalSimple(buf, dot, a)
}

func evalSimple(buf *piece.Buffer, dot piece.Range, a *Addr) (piece.Range, error) {
	switch a.Kind {
	case KindDot:
		return dot, nil
	case KindLastLine:
		size := buf.Size()
		return piece.NewRange(size, size), nil
	case KindLine:
		if a.Line == 0 {
			return piece.NewRange(0, 0), nil
		}
		lineCount := int64(view.LineCount(buf))
		n := a.Line - 1
		if n < 0 || n >= lineCount {
			return piece.Range{}, fmt.Errorf("addr: line %d out of range (file has %d lines): %w", a.Line, lineCount, ErrMalformed)
		}
		return view.LineRange(buf, uint32(n)), nil
	case KindOffset:
		off := clampOffset(a.Count, buf.Size())
		return piece.NewRange(off, off), nil
	case KindMark:
		pos, ok := buf.Mark(piece.MarkID(a.Mark))
		if !ok {
			return piece.Range{}, fmt.Errorf("addr: mark %q: %w", a.Mark, ErrMarkNotSet)
		}
		return piece.NewRange(pos, pos), nil
	case KindForward:
		return searchForward(buf, dot.End, a.Regex)
	case KindBackward:
		return searchBackward(buf, dot.Start, a.Regex)
	default:
		return piece.Range{}, fmt.Errorf("addr: unknown kind %d: %w", a.Kind, ErrMalformed)
	}
}

func evalCompose(buf *piece.Buffer, dot piece.Range, a *Addr) (piece.Range, error) {
	switch a.Op {
	case OpComma:
		left, err := Eval(buf, dot, a.Left)
		if err != nil {
			return piece.Range{}, err
		}
		right, err := Eval(buf, dot, a.Right)
		if err != nil {
			return piece.Range{}, err
		}
		return joinRange(left, right)
	case OpSemi:
		left, err := Eval(buf, dot, a.Left)
		if err != nil {
			return piece.Range{}, err
		}
		right, err := Eval(buf, left, a.Right)
		if err != nil {
			return piece.Range{}, err
		}
		return joinRange(left, right)
	case OpPlus, OpMinus:
		left, err := Eval(buf, dot, a.Left)
		if err != nil {
			return piece.Range{}, err
		}
		return evalDelta(buf, left, a.Right, a.Op == OpPlus)
	default:
		return piece.Range{}, fmt.Errorf("addr: unknown op %d: %w", a.Op, ErrMalformed)
	}
}

func joinRange(left, right piece.Range) (piece.Range, error) {
	r := piece.NewRange(left.Start, right.End)
	if !r.IsValid() {
		return piece.Range{}, fmt.Errorf("addr: range start %d after end %d: %w", r.Start, r.End, ErrMalformed)
	}
	return r, nil
}

// evalDelta resolves the right-hand operand of a '+'/'-' composition.
// A bare line number or byte offset is a relative delta from left;
// every other simple kind (mark, dot, search, $) is evaluated with
// dot set to left and used as an absolute result, since only a plain
// number or #number carries the "this many units" meaning the
// operator needs.
func evalDelta(buf *piece.Buffer, left piece.Range, right *Addr, forward bool) (piece.Range, error) {
	if right.IsCompose() {
		return Eval(buf, left, right)
	}
	switch right.Kind {
	case KindLine:
		delta := right.Line
		if !forward {
			delta = -delta
		}
		baseLine := int64(view.PointFromOffset(buf, left.Start).Line)
		target := baseLine + delta
		lineCount := int64(view.LineCount(buf))
		if target < 0 {
			target = 0
		}
		if target >= lineCount {
			target = lineCount - 1
		}
		return view.LineRange(buf, uint32(target)), nil
	case KindOffset:
		delta := right.Count
		if !forward {
			delta = -delta
		}
		off := clampOffset(left.End+delta, buf.Size())
		return piece.NewRange(off, off), nil
	default:
		return Eval(buf, left, right)
	}
}

func clampOffset(off, size piece.ByteOffset) piece.ByteOffset {
	if off < 0 {
		return 0
	}
	if off > size {
		return size
	}
	return off
}

func searchForward(buf *piece.Buffer, from piece.ByteOffset, pattern string) (piece.Range, error) {
	re, err := rx.Compile(pattern)
	if err != nil {
		return piece.Range{}, err
	}
	text := buf.TextRange(0, buf.Size())
	if m, err := re.FindFrom(text, int(from)); err != nil {
		return piece.Range{}, err
	} else if m != nil {
		return piece.NewRange(piece.ByteOffset(m.Start), piece.ByteOffset(m.End)), nil
	}
	// Wrap around to the start of the file.
	if m, err := re.FindFrom(text, 0); err != nil {
		return piece.Range{}, err
	} else if m != nil {
		return piece.NewRange(piece.ByteOffset(m.Start), piece.ByteOffset(m.End)), nil
	}
	return piece.Range{}, fmt.Errorf("addr: no match for %q: %w", pattern, ErrMalformed)
}

func searchBackward(buf *piece.Buffer, before piece.ByteOffset, pattern string) (piece.Range, error) {
	re, err := rx.Compile(pattern)
	if err != nil {
		return piece.Range{}, err
	}
	text := buf.TextRange(0, buf.Size())
	matches, err := re.FindAll(text)
	if err != nil {
		return piece.Range{}, err
	}
	var best *piece.Range
	for i := range matches {
		m := matches[i]
		if piece.ByteOffset(m.Start) < before {
			r := piece.NewRange(piece.ByteOffset(m.Start), piece.ByteOffset(m.End))
			best = &r
		}
	}
	if best != nil {
		return *best, nil
	}
	// Wrap around: the last match in the whole file.
	if len(matches) > 0 {
		last := matches[len(matches)-1]
		return piece.NewRange(piece.ByteOffset(last.Start), piece.ByteOffset(last.End)), nil
	}
	return piece.Range{}, fmt.Errorf("addr: no match for %q: %w", pattern, ErrMalformed)
}
