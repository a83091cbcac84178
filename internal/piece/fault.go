package piece

import (
	"runtime/debug"
	"sync/atomic"
)

// faultFlag records whether a memory-mapped read has faulted. Once
// set, the owning buffer refuses Save until it is reopened. A fault
// only poisons the buffer that triggered it, not the process: the
// editor can still report the error, close the buffer, and continue
// running everything else.
type faultFlag struct {
	v atomic.Bool
}

func (f *faultFlag) set()        { f.v.Store(true) }
func (f *faultFlag) isSet() bool { return f.v.Load() }

// safeRead copies an mmap-backed slice into dst, converting a SIGBUS
// (raised when the backing file shrinks or its device disappears
// under the mapping) into ErrIOFault instead of crashing the process.
//
// debug.SetPanicOnFault makes the runtime deliver out-of-bounds/
// unmapped-page faults that occur in this goroutine as a recoverable
// runtime.Error instead of terminating the program — the standard
// library's documented mechanism for reading a live mmap after the
// underlying file has changed out from under it.
func safeRead(fault *faultFlag, dst []byte, src []byte) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			fault.set()
			n, err = 0, ErrIOFault
		}
	}()
	prev := debug.SetPanicOnFault(true)
	defer debug.SetPanicOnFault(prev)
	n = copy(dst, src)
	return n, nil
}
