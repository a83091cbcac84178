package piece

import (
	"os"

	"github.com/edsrzf/mmap-go"
)

// blockID indexes into Buffer.blocks.
type blockID int32

const noBlock blockID = -1

// block is a contiguous, append-only byte storage region referenced
// by one or more pieces. A block's bytes, once written, are never
// mutated through the piece-chain API (the in-memory arena grows only
// by appending).
type block interface {
	// bytes returns the full backing slice. Slicing it is zero-copy.
	bytes() []byte
	// safeBytes returns the slice [lo:hi) of the block's content. For
	// a block backed by a memory-mapped file, this guards the actual
	// read against a SIGBUS raised if the backing file shrank or its
	// device disappeared after mapping, reporting ok=false instead of
	// crashing the process. For an in-memory block this never fails.
	safeBytes(lo, hi ByteOffset) (data []byte, ok bool)
	// len returns the current length of the block.
	len() ByteOffset
	// close releases any OS resources (no-op for in-memory blocks).
	close() error
}

// memBlock is a growable in-memory arena. It backs inserted text (the
// "modify block") and buffers loaded from a non-regular file (pipes,
// stdin) or created empty.
type memBlock struct {
	data []byte
}

func newMemBlock(initial int) *memBlock {
	return &memBlock{data: make([]byte, 0, initial)}
}

func (b *memBlock) bytes() []byte   { return b.data }
func (b *memBlock) len() ByteOffset { return ByteOffset(len(b.data)) }
func (b *memBlock) close() error    { return nil }

// safeBytes never faults: in-memory data has no backing device to
// disappear out from under it.
func (b *memBlock) safeBytes(lo, hi ByteOffset) ([]byte, bool) {
	return b.data[lo:hi], true
}

// append writes data to the end of the block and returns the offset
// it was written at.
func (b *memBlock) append(data []byte) ByteOffset {
	off := ByteOffset(len(b.data))
	b.data = append(b.data, data...)
	return off
}

// mmapBlock is a read-only block backed by a memory-mapped regular
// file. It is used for the original content of a file opened with
// Open; inserted/modified bytes always live in a memBlock instead, so
// an mmapBlock's bytes are never written to.
type mmapBlock struct {
	file   *os.File
	mapped mmap.MMap
	fault  faultFlag
}

func newMmapBlock(f *os.File) (*mmapBlock, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		// mmap.Map refuses to map a zero-length file; treat it as an
		// (unmapped) empty block.
		return &mmapBlock{file: f}, nil
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, err
	}
	return &mmapBlock{file: f, mapped: m}, nil
}

func (b *mmapBlock) bytes() []byte {
	// A prior fault leaves the mapping readable-but-suspect; callers
	// check Buffer.IOFaulted before trusting further reads.
	return b.mapped
}

// safeBytes copies [lo:hi) out of the mapping through safeRead instead
// of handing out a direct slice, so a fault while the bytes are
// actually touched (during the copy) is caught here rather than
// crashing whatever goroutine is reading the buffer.
func (b *mmapBlock) safeBytes(lo, hi ByteOffset) ([]byte, bool) {
	if b.mapped == nil {
		return nil, lo == hi
	}
	dst := make([]byte, hi-lo)
	n, err := safeRead(&b.fault, dst, b.mapped[lo:hi])
	if err != nil {
		return nil, false
	}
	return dst[:n], true
}

func (b *mmapBlock) len() ByteOffset { return ByteOffset(len(b.mapped)) }

func (b *mmapBlock) close() error {
	var err error
	if b.mapped != nil {
		err = b.mapped.Unmap()
	}
	if b.file != nil {
		if cerr := b.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
