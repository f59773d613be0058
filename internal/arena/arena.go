// Package arena implements the library's deterministic LIFO sub-allocator:
// one contiguous byte region, bound once at init, carved into scoped
// scratch buffers that must be released in strict stack order.
package arena

import (
	"fmt"
	"unsafe"
)

// AlignSize is the alignment unit every allocation is rounded up to.
const AlignSize = 8

// StackMaxDepth is the maximum number of outstanding sub-allocations.
const StackMaxDepth = 20

// ErrLIFOViolation is returned when Deallocate is not called on the
// current top-of-stack buffer.
var ErrLIFOViolation = fmt.Errorf("arena: deallocate target is not top of stack")

// ErrStackFull is returned when the sub-allocation stack already holds
// StackMaxDepth entries.
var ErrStackFull = fmt.Errorf("arena: sub-allocation stack is full")

// ErrOutOfMemory is returned when the requested size would exceed the
// arena's remaining capacity.
var ErrOutOfMemory = fmt.Errorf("arena: insufficient memory")

// Buffer is a handle to one sub-allocation: a zero-filled window into the
// arena's backing region.
type Buffer struct {
	data []byte
}

// Bytes returns the buffer's backing slice.
func (b *Buffer) Bytes() []byte { return b.data }

// Len returns the number of bytes in the buffer (after alignment
// rounding, this may exceed the requested size).
func (b *Buffer) Len() int { return len(b.data) }

type entry struct {
	offset int // offset into region where this entry's bytes begin
	size   int // aligned size of this entry
}

// Arena is a single contiguous byte region with a fixed-depth LIFO stack
// of outstanding sub-allocations.
type Arena struct {
	region []byte
	cursor int // next free offset
	stack  []entry
}

// New binds a caller-supplied region. Any leading misalignment is
// trimmed, matching the original source's treatment of a caller-supplied
// buffer that may not start on an AlignSize boundary.
func New(region []byte) *Arena {
	trim := 0
	if rem := uintptrAlignRemainder(region); rem != 0 {
		trim = AlignSize - rem
	}
	if trim > len(region) {
		trim = len(region)
	}
	return &Arena{region: region[trim:]}
}

// uintptrAlignRemainder reports how far the region's start address is
// past the previous AlignSize boundary. An empty region has no address
// to probe and is reported as already aligned.
func uintptrAlignRemainder(region []byte) int {
	if len(region) == 0 {
		return 0
	}
	return int(uintptr(unsafe.Pointer(&region[0])) % AlignSize)
}

// NewSelfAllocated allocates its own region of exactly size bytes.
func NewSelfAllocated(size int) *Arena {
	return &Arena{region: make([]byte, size)}
}

// Size returns the total capacity of the backing region.
func (a *Arena) Size() int { return len(a.region) }

// StackDepth returns the number of outstanding sub-allocations. Callers
// use this to snapshot before and compare after a call to detect leaks.
func (a *Arena) StackDepth() int { return len(a.stack) }

func alignUp(n int) int {
	if rem := n % AlignSize; rem != 0 {
		n += AlignSize - rem
	}
	return n
}

// Allocate reserves nbytes (rounded up to AlignSize), zero-fills it, and
// pushes it onto the LIFO stack. It returns ErrStackFull if the stack is
// already at StackMaxDepth, or ErrOutOfMemory if the region has
// insufficient remaining space.
func (a *Arena) Allocate(nbytes int) (*Buffer, error) {
	if len(a.stack) >= StackMaxDepth {
		return nil, ErrStackFull
	}
	size := alignUp(nbytes)
	if a.cursor+size > len(a.region) {
		return nil, ErrOutOfMemory
	}
	off := a.cursor
	data := a.region[off : off+size]
	for i := range data {
		data[i] = 0
	}
	a.stack = append(a.stack, entry{offset: off, size: size})
	a.cursor += size
	return &Buffer{data: data[:nbytes]}, nil
}

// Deallocate releases buf, which must be the most recently allocated
// outstanding buffer. Any other target is a LIFO-order violation and the
// buffer is not reclaimed.
func (a *Arena) Deallocate(buf *Buffer) error {
	if len(a.stack) == 0 {
		return ErrLIFOViolation
	}
	top := a.stack[len(a.stack)-1]
	if !sameRegion(a.region, top, buf) {
		return ErrLIFOViolation
	}
	a.stack = a.stack[:len(a.stack)-1]
	a.cursor = top.offset
	return nil
}

func sameRegion(region []byte, e entry, buf *Buffer) bool {
	if buf == nil {
		return false
	}
	// The buffer's data slice was sliced from region at e.offset; compare
	// by pointer identity of the first byte when capacity allows it.
	if e.size == 0 {
		return len(buf.data) == 0
	}
	expected := region[e.offset : e.offset+e.size]
	return len(expected) > 0 && len(buf.data) > 0 && &expected[0] == &buf.data[0]
}

// Clear resets the stack to empty without touching the byte region.
// Every public detector entry point calls this first, discarding any
// sub-allocations a prior faulty caller leaked.
func (a *Arena) Clear() {
	a.stack = a.stack[:0]
	a.cursor = 0
}
