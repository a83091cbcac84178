package piece

import (
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"
)

// LineEnding specifies the line ending style normalized into the buffer.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// Buffer is the piece-chain text buffer: an ordered sequence of bytes
// composed of immutable pieces, each naming a span inside a block.
// All methods are safe for concurrent use.
type Buffer struct {
	mu sync.RWMutex

	blocks         []block
	modifyBlockIdx int // index into blocks of the growable insert arena

	arena *pieceArena
	size  ByteOffset

	index       offsetIndex
	indexStale  bool

	pending    *pendingEdit // coalescing state for the open, unsealed edit
	sealGen    uint64       // bumped by Seal(); invalidates pending coalescing

	marks map[MarkID]ByteOffset

	revisionID        RevisionID
	lastSavedRevision RevisionID
	lineEnding        LineEnding
	tabWidth          int

	faulted    atomic.Bool
	sourcePath string
	sourceMmap bool
}

// pendingEdit tracks the still-open, not-yet-sealed insertion run so a
// byte-at-a-time typist produces one piece — and, via history, one
// undo step — instead of one per keystroke. origPrev/origNext/
// origOldFirst/origOldLast and startPos are captured from the run's
// first edit and handed back unchanged on every subsequent coalesced
// call, since the structural neighbors of the run don't change as it
// grows in place.
type pendingEdit struct {
	pieceID PieceID
	bufEnd  ByteOffset // end offset of the run, inside the document

	sealGen uint64

	startPos                  ByteOffset
	origPrev, origNext        PieceID
	origOldFirst, origOldLast PieceID
	accumText                 string
}

// New creates a new empty buffer.
func New() *Buffer {
	b := &Buffer{
		arena:      newPieceArena(),
		lineEnding: LineEndingLF,
		tabWidth:   4,
		marks:      make(map[MarkID]ByteOffset),
	}
	b.blocks = append(b.blocks, newMemBlock(1024))
	b.modifyBlockIdx = 0
	b.revisionID = nextRevisionID()
	return b
}

// NewFromString creates a buffer with initial content held in an
// in-memory block.
func NewFromString(s string) *Buffer {
	b := New()
	s = b.normalizeLineEndings(s)
	if len(s) == 0 {
		return b
	}
	blk := newMemBlock(len(s))
	off := blk.append([]byte(s))
	idx := b.addBlock(blk)
	pid := b.arena.alloc(node{block: blockID(idx), off: off, length: ByteOffset(len(s))})
	b.arena.link(b.arena.head, pid, pid, b.arena.tail)
	b.size = ByteOffset(len(s))
	b.indexStale = true
	return b
}

// NewFromReader creates a buffer from an io.Reader, reading it fully
// into an in-memory block (used for streamed sources such as stdin).
func NewFromReader(r io.Reader) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewFromString(string(data)), nil
}

// Open loads a file. Regular files are memory-mapped read-only;
// anything else (pipes, devices) is streamed into memory.
func Open(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if !info.Mode().IsRegular() {
		defer f.Close()
		return NewFromReader(f)
	}

	mb, err := newMmapBlock(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	b := &Buffer{
		arena:      newPieceArena(),
		lineEnding: LineEndingLF,
		tabWidth:   4,
		marks:      make(map[MarkID]ByteOffset),
		sourcePath: path,
		sourceMmap: true,
	}
	srcIdx := b.addBlock(mb)
	b.blocks = append(b.blocks, newMemBlock(1024))
	b.modifyBlockIdx = len(b.blocks) - 1

	if n := mb.len(); n > 0 {
		pid := b.arena.alloc(node{block: blockID(srcIdx), off: 0, length: n})
		b.arena.link(b.arena.head, pid, pid, b.arena.tail)
		b.size = n
		b.indexStale = true
	}
	b.revisionID = nextRevisionID()
	b.lastSavedRevision = b.revisionID
	return b, nil
}

func (b *Buffer) addBlock(blk block) int {
	b.blocks = append(b.blocks, blk)
	return len(b.blocks) - 1
}

func (b *Buffer) normalizeLineEndings(s string) string {
	switch b.lineEnding {
	case LineEndingCRLF:
		s = strings.ReplaceAll(s, "\r\n", "\n")
		s = strings.ReplaceAll(s, "\r", "\n")
		return strings.ReplaceAll(s, "\n", "\r\n")
	case LineEndingCR:
		s = strings.ReplaceAll(s, "\r\n", "\n")
		return strings.ReplaceAll(s, "\n", "\r")
	default:
		s = strings.ReplaceAll(s, "\r\n", "\n")
		return strings.ReplaceAll(s, "\r", "\n")
	}
}

// Close releases any OS resources (the memory mapping, if any).
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	var err error
	for _, blk := range b.blocks {
		if cerr := blk.close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Size returns the total byte length of the buffer.
func (b *Buffer) Size() ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

// Modified returns true if the buffer differs from its last save
// point. A buffer with no source path is always considered modified
// once non-empty.
func (b *Buffer) Modified() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.modifiedLocked()
}

func (b *Buffer) modifiedLocked() bool {
	if b.sourcePath == "" && b.size == 0 {
		return false
	}
	return b.lastSavedRevision != b.revisionID
}

// RevisionID returns the current revision id; it changes on every
// successful mutation.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// IOFaulted returns true if a memory-mapped read has faulted; the
// buffer is readable but Save will fail until reopened.
func (b *Buffer) IOFaulted() bool {
	return b.faulted.Load()
}

// TabWidth returns the buffer's tab width.
func (b *Buffer) TabWidth() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tabWidth
}

// SetTabWidth sets the buffer's tab width.
func (b *Buffer) SetTabWidth(w int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if w > 0 {
		b.tabWidth = w
	}
}

// LineEnding returns the buffer's line ending style.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// SetLineEnding sets the buffer's line ending style. It does not
// convert existing content.
func (b *Buffer) SetLineEnding(le LineEnding) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lineEnding = le
}

// --- Read operations ---

// Text returns the full buffer content as a string. For large
// buffers prefer TextRange or Iter to avoid one large allocation.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.textRangeLocked(0, b.size)
}

// TextRange returns the text in [start, end).
func (b *Buffer) TextRange(start, end ByteOffset) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.textRangeLocked(start, end)
}

func (b *Buffer) textRangeLocked(start, end ByteOffset) string {
	if start < 0 {
		start = 0
	}
	if end > b.size {
		end = b.size
	}
	if start >= end {
		return ""
	}
	var sb strings.Builder
	sb.Grow(int(end - start))
	b.forEachSpan(start, end, func(data []byte) {
		sb.Write(data)
	})
	return sb.String()
}

// forEachSpan calls fn with slices of the live chain covering
// [start, end), in order. Spans from in-memory blocks are handed to
// fn zero-copy; a span from a memory-mapped block is read through
// safeRead first, since that's the one block kind whose backing pages
// can vanish out from under the mapping. If that read faults,
// forEachSpan marks the buffer IOFaulted and stops iterating early —
// fn simply does not see the rest of the range.
func (b *Buffer) forEachSpan(start, end ByteOffset, fn func(data []byte)) {
	if start >= end {
		return
	}
	id, pieceStart := b.locate(start)
	pos := pieceStart
	for id != b.arena.tail && pos < end {
		n := b.arena.get(id)
		pieceEnd := pos + n.length
		lo, hi := pos, pieceEnd
		if lo < start {
			lo = start
		}
		if hi > end {
			hi = end
		}
		if lo < hi {
			blk := b.blocks[n.block]
			data, ok := blk.safeBytes(n.off+(lo-pos), n.off+(hi-pos))
			if !ok {
				b.faulted.Store(true)
				return
			}
			fn(data)
		}
		pos = pieceEnd
		id = n.next
	}
}

// ByteAt returns the byte at offset.
func (b *Buffer) ByteAt(offset ByteOffset) (byte, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if offset < 0 || offset >= b.size {
		return 0, false
	}
	var out byte
	found := false
	b.forEachSpan(offset, offset+1, func(data []byte) {
		if len(data) > 0 {
			out = data[0]
			found = true
		}
	})
	return out, found
}

// RuneAt decodes the rune starting at offset. Returns
// utf8.RuneError, 0 if offset is out of range.
func (b *Buffer) RuneAt(offset ByteOffset) (rune, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if offset < 0 || offset >= b.size {
		return utf8.RuneError, 0
	}
	end := offset + 4
	if end > b.size {
		end = b.size
	}
	buf := make([]byte, 0, end-offset)
	b.forEachSpan(offset, end, func(data []byte) { buf = append(buf, data...) })
	return utf8.DecodeRune(buf)
}

// BytesCopy copies up to len(dst) bytes starting at pos into dst and
// returns the number of bytes copied.
func (b *Buffer) BytesCopy(pos ByteOffset, dst []byte) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	end := pos + ByteOffset(len(dst))
	if end > b.size {
		end = b.size
	}
	n := 0
	b.forEachSpan(pos, end, func(data []byte) {
		n += copy(dst[n:], data)
	})
	return n
}
