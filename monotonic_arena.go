// SPDX-License-Identifier: Apache-2.0

package vector

import (
	"unsafe"
)

const (
	minBufferSize = 1024 * 32 // 32KB
)

type monotonicArena struct {
	blocks             []*monotonicBlock
	peak               uintptr // high-water mark of allocated bytes
	minBufferSize      uintptr // minimum size for new blocks
	maxBytes           uintptr // 0 means unlimited
	initialBufferCount int
}

type monotonicBlock struct {
	ptr    unsafe.Pointer
	offset uintptr
	size   uintptr
}

func newMonotonicBlock(size uintptr) *monotonicBlock {
	return &monotonicBlock{size: size}
}

// padding returns the number of bytes needed to align addr to alignment.
func padding(addr, alignment uintptr) uintptr {
	if alignment <= 1 {
		return 0
	}
	if rem := addr % alignment; rem != 0 {
		return alignment - rem
	}
	return 0
}

// fits reports how many bytes an allocation would consume in this block.
func (b *monotonicBlock) fits(size, alignment uintptr) (uintptr, bool) {
	if b.ptr == nil {
		buf := make([]byte, b.size) // allocate lazily
		b.ptr = unsafe.Pointer(unsafe.SliceData(buf))
	}
	need := size + padding(uintptr(b.ptr)+b.offset, alignment)
	return need, b.size-b.offset >= need
}

func (b *monotonicBlock) take(size, need uintptr) unsafe.Pointer {
	ptr := unsafe.Add(b.ptr, b.offset+need-size)
	b.offset += need

	// Reset does not clear blocks, so memory handed out again must be zeroed
	// here. The loop compiles down to runtime.memclrNoHeapPointers.
	mem := unsafe.Slice((*byte)(ptr), size)
	for i := range mem {
		mem[i] = 0
	}
	return ptr
}

// NewMonotonicArena creates a new monotonic arena with optional configuration.
// If no options are provided, it uses minBufferSize (32KB) as the default block size,
// creates 1 initial block and never refuses an allocation.
func NewMonotonicArena(opts ...MonotonicArenaOption) Arena {
	a := &monotonicArena{
		minBufferSize:      minBufferSize,
		initialBufferCount: 1,
	}
	for _, opt := range opts {
		opt(a)
	}
	for i := 0; i < a.initialBufferCount; i++ {
		a.blocks = append(a.blocks, newMonotonicBlock(a.minBufferSize))
	}
	return a
}

// MonotonicArenaOption represents a configuration option for a monotonic arena.
type MonotonicArenaOption func(*monotonicArena)

// WithMinBufferSize sets the minimum block size for new blocks created by the arena.
func WithMinBufferSize(size int) MonotonicArenaOption {
	return func(a *monotonicArena) {
		a.minBufferSize = uintptr(size)
	}
}

// WithInitialBufferCount sets the number of initial blocks to create.
func WithInitialBufferCount(count int) MonotonicArenaOption {
	return func(a *monotonicArena) {
		a.initialBufferCount = count
	}
}

// WithMaxBytes caps the number of bytes the arena hands out between resets,
// alignment padding included. Alloc returns nil for any request that would
// go over the cap. Zero or a negative value means no cap.
func WithMaxBytes(n int) MonotonicArenaOption {
	return func(a *monotonicArena) {
		if n < 0 {
			n = 0
		}
		a.maxBytes = uintptr(n)
	}
}

// Alloc satisfies the Arena interface.
func (a *monotonicArena) Alloc(size, alignment uintptr) unsafe.Pointer {
	used := a.len()

	for _, b := range a.blocks {
		need, ok := b.fits(size, alignment)
		if !ok {
			continue
		}
		if a.overLimit(used, need) {
			return nil
		}
		return a.commit(b.take(size, need))
	}

	// No existing block has room. A fresh block is aligned by the runtime for
	// any alignment up to the word size; larger alignments need slack.
	if a.overLimit(used, size) {
		return nil
	}
	blockSize := size + alignment
	if blockSize < a.minBufferSize {
		blockSize = a.minBufferSize
	}
	b := newMonotonicBlock(blockSize)
	need, ok := b.fits(size, alignment)
	if !ok || a.overLimit(used, need) {
		return nil
	}
	a.blocks = append(a.blocks, b)
	return a.commit(b.take(size, need))
}

func (a *monotonicArena) overLimit(used, need uintptr) bool {
	return a.maxBytes != 0 && used+need > a.maxBytes
}

func (a *monotonicArena) commit(ptr unsafe.Pointer) unsafe.Pointer {
	if l := a.len(); l > a.peak {
		a.peak = l
	}
	return ptr
}

// Reset satisfies the Arena interface.
func (a *monotonicArena) Reset() {
	for _, b := range a.blocks {
		b.offset = 0
	}
}

// Release satisfies the Arena interface.
func (a *monotonicArena) Release() {
	for _, b := range a.blocks {
		b.offset = 0
		b.ptr = nil
	}
}

func (a *monotonicArena) len() uintptr {
	var total uintptr
	for _, b := range a.blocks {
		total += b.offset
	}
	return total
}

// Len returns the total number of bytes currently allocated in the arena.
func (a *monotonicArena) Len() int {
	return int(a.len())
}

// Cap returns the total capacity of the arena's blocks.
func (a *monotonicArena) Cap() int {
	var total uintptr
	for _, b := range a.blocks {
		total += b.size
	}
	return int(total)
}

// Peak returns the peak number of bytes that have been allocated in the arena.
// This value is not reset when Reset is called, allowing tracking of maximum usage.
func (a *monotonicArena) Peak() int {
	return int(a.peak)
}
