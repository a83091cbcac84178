package piece

import (
	"math/rand"
	"strings"
	"testing"
)

func TestNewFromStringRoundTrip(t *testing.T) {
	b := NewFromString("hello world")
	if got := b.Text(); got != "hello world" {
		t.Fatalf("Text() = %q, want %q", got, "hello world")
	}
	if b.Size() != 11 {
		t.Fatalf("Size() = %d, want 11", b.Size())
	}
}

func TestInsertAtStartMiddleEnd(t *testing.T) {
	b := NewFromString("brown fox")
	if _, err := b.Insert(0, "the "); err != nil {
		t.Fatal(err)
	}
	if got, want := b.Text(), "the brown fox"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if _, err := b.Insert(b.Size(), " jumps"); err != nil {
		t.Fatal(err)
	}
	if got, want := b.Text(), "the brown fox jumps"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if _, err := b.Insert(4, "quick "); err != nil {
		t.Fatal(err)
	}
	if got, want := b.Text(), "the quick brown fox jumps"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestDeleteSpanningMultiplePieces(t *testing.T) {
	b := NewFromString("one")
	b.Seal()
	b.Insert(3, "two")
	b.Seal()
	b.Insert(6, "three")
	// buffer is now three distinct pieces: "one" "two" "three"
	if _, err := b.Delete(2, 5); err != nil {
		t.Fatal(err)
	}
	if got, want := b.Text(), "onhree"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestReplaceWithinOnePiece(t *testing.T) {
	b := NewFromString("abcdef")
	if _, err := b.Replace(2, 2, "XYZ"); err != nil {
		t.Fatal(err)
	}
	if got, want := b.Text(), "abXYZef"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	b := NewFromString("hello")
	sr, err := b.Insert(5, " world")
	if err != nil {
		t.Fatal(err)
	}
	if got := b.Text(); got != "hello world" {
		t.Fatalf("after insert: %q", got)
	}
	b.Relink(sr, false)
	if got := b.Text(); got != "hello" {
		t.Fatalf("after undo: %q", got)
	}
	b.Relink(sr, true)
	if got := b.Text(); got != "hello world" {
		t.Fatalf("after redo: %q", got)
	}
}

func TestUndoRedoDeleteRoundTrip(t *testing.T) {
	b := NewFromString("hello cruel world")
	sr, err := b.Delete(5, 6)
	if err != nil {
		t.Fatal(err)
	}
	if got := b.Text(); got != "hello world" {
		t.Fatalf("after delete: %q", got)
	}
	b.Relink(sr, false)
	if got := b.Text(); got != "hello cruel world" {
		t.Fatalf("after undo: %q", got)
	}
	b.Relink(sr, true)
	if got := b.Text(); got != "hello world" {
		t.Fatalf("after redo: %q", got)
	}
}

func TestCoalescingMergesSequentialInserts(t *testing.T) {
	b := NewFromString("")
	var last SpliceResult
	for _, ch := range "hello" {
		sr, err := b.Insert(b.Size(), string(ch))
		if err != nil {
			t.Fatal(err)
		}
		last = sr
	}
	if !last.Coalesced {
		t.Fatalf("expected final keystroke to coalesce into the open piece")
	}
	if got := b.Text(); got != "hello" {
		t.Fatalf("got %q", got)
	}
}

func TestSealBreaksCoalescing(t *testing.T) {
	b := NewFromString("")
	b.Insert(0, "a")
	b.Seal()
	sr, err := b.Insert(1, "b")
	if err != nil {
		t.Fatal(err)
	}
	if sr.Coalesced {
		t.Fatalf("expected Seal to prevent coalescing across the boundary")
	}
}

func TestByteAtAndRuneAt(t *testing.T) {
	b := NewFromString("héllo")
	r, n := b.RuneAt(1)
	if r != 'é' || n != 2 {
		t.Fatalf("RuneAt(1) = %q, %d; want 'é', 2", r, n)
	}
	by, ok := b.ByteAt(0)
	if !ok || by != 'h' {
		t.Fatalf("ByteAt(0) = %v, %v", by, ok)
	}
}

func TestMarksShiftWithEdits(t *testing.T) {
	b := NewFromString("0123456789")
	b.SetMark("m", 5)
	b.Insert(2, "XX")
	if pos, _ := b.Mark("m"); pos != 7 {
		t.Fatalf("mark after insert before it = %d, want 7", pos)
	}
	b.Delete(0, 3)
	if pos, _ := b.Mark("m"); pos != 4 {
		t.Fatalf("mark after delete before it = %d, want 4", pos)
	}
}

func TestMarkClampedWhenItsByteIsDeleted(t *testing.T) {
	b := NewFromString("0123456789")
	b.SetMark("m", 5)
	b.Delete(3, 4) // removes bytes 3..6, including the marked byte
	if pos, _ := b.Mark("m"); pos != 3 {
		t.Fatalf("mark = %d, want clamped to 3", pos)
	}
}

// TestOracleAgainstStringOps fuzzes a sequence of inserts/deletes
// against a plain string and checks the buffer stays in lockstep.
func TestOracleAgainstStringOps(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	oracle := ""
	b := New()
	for i := 0; i < 500; i++ {
		size := int64(len(oracle))
		if size == 0 || rng.Intn(2) == 0 {
			pos := int64(0)
			if size > 0 {
				pos = rng.Int63n(size + 1)
			}
			text := randomString(rng, 1+rng.Intn(5))
			if _, err := b.Insert(pos, text); err != nil {
				t.Fatalf("insert at %d: %v", pos, err)
			}
			oracle = oracle[:pos] + text + oracle[pos:]
		} else {
			pos := rng.Int63n(size)
			maxLen := size - pos
			delLen := int64(1 + rng.Intn(3))
			if delLen > maxLen {
				delLen = maxLen
			}
			if _, err := b.Delete(pos, delLen); err != nil {
				t.Fatalf("delete at %d len %d: %v", pos, delLen, err)
			}
			oracle = oracle[:pos] + oracle[pos+delLen:]
		}
		b.Seal()
		if got := b.Text(); got != oracle {
			t.Fatalf("iteration %d: got %q want %q", i, got, oracle)
		}
	}
}

func randomString(rng *rand.Rand, n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteByte(byte('a' + rng.Intn(26)))
	}
	return sb.String()
}

func TestIterForwardMatchesTextRange(t *testing.T) {
	b := NewFromString("one")
	b.Seal()
	b.Insert(3, "two")
	b.Seal()
	b.Insert(6, "three")

	var sb strings.Builder
	it := b.Iter(2, 9)
	for {
		span, ok := it.Next()
		if !ok {
			break
		}
		sb.Write(span)
	}
	if got, want := sb.String(), b.TextRange(2, 9); got != want {
		t.Fatalf("iterator produced %q, want %q", got, want)
	}
}

func TestIterBackwardMatchesTextRangeReversed(t *testing.T) {
	b := NewFromString("one")
	b.Seal()
	b.Insert(3, "two")
	b.Seal()
	b.Insert(6, "three")

	forward := b.TextRange(2, 9)
	var sb strings.Builder
	it := b.IterBack(2, 9)
	for {
		span, ok := it.Next()
		if !ok {
			break
		}
		for i := len(span) - 1; i >= 0; i-- {
			sb.WriteByte(span[i])
		}
	}
	reversedForward := make([]byte, len(forward))
	for i := range forward {
		reversedForward[len(forward)-1-i] = forward[i]
	}
	if sb.String() != string(reversedForward) {
		t.Fatalf("backward iterator = %q, want %q", sb.String(), string(reversedForward))
	}
}
