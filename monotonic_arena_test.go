// SPDX-License-Identifier: Apache-2.0

package vector

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

// isMonotonicArenaPtr checks if a pointer is within the memory range of a monotonic arena
func isMonotonicArenaPtr(arena Arena, ptr unsafe.Pointer) bool {
	ma, ok := arena.(*monotonicArena)
	if !ok {
		return false
	}

	addr := uintptr(ptr)
	for _, b := range ma.blocks {
		if b.ptr == nil {
			continue
		}
		start := uintptr(b.ptr)
		if addr >= start && addr < start+b.size {
			return true
		}
	}
	return false
}

func TestMonotonicArenaLenAndCap(t *testing.T) {
	arena := NewMonotonicArena(WithInitialBufferCount(2), WithMinBufferSize(512))
	require.Equal(t, 0, arena.Len())
	require.Equal(t, 1024, arena.Cap())

	require.NotNil(t, arena.Alloc(100, 1))
	require.Equal(t, 100, arena.Len())

	require.NotNil(t, arena.Alloc(200, 1))
	require.Equal(t, 300, arena.Len())

	// Should be more than 350 due to alignment padding
	ptr := arena.Alloc(50, 8)
	require.NotNil(t, ptr)
	require.Zero(t, uintptr(ptr)%8)
	require.True(t, arena.Len() > 350)
}

func TestMonotonicArenaNewBlock(t *testing.T) {
	arena := NewMonotonicArena(WithInitialBufferCount(3), WithMinBufferSize(100))
	require.Equal(t, 300, arena.Cap())

	for i := 0; i < 3; i++ {
		require.NotNil(t, arena.Alloc(100, 1))
	}
	require.Equal(t, 300, arena.Len())

	// no room left, a new block is created
	require.NotNil(t, arena.Alloc(1, 1))
	require.Equal(t, 301, arena.Len())
	require.Equal(t, 400, arena.Cap())

	// larger than the minimum block size
	ptr := arena.Alloc(1000, 8)
	require.NotNil(t, ptr)
	require.Zero(t, uintptr(ptr)%8)
	require.Equal(t, 1301, arena.Len())
}

func TestMonotonicArenaZeroBlocks(t *testing.T) {
	arena := NewMonotonicArena(WithInitialBufferCount(0), WithMinBufferSize(1024))
	require.Equal(t, 0, arena.Cap())

	require.NotNil(t, arena.Alloc(1, 1))
	require.Equal(t, 1, arena.Len())
	require.Equal(t, 1024, arena.Cap())
}

func TestMonotonicArenaResetZeroesReusedMemory(t *testing.T) {
	arena := NewMonotonicArena(WithMinBufferSize(64))

	ptr := arena.Alloc(16, 8)
	b := unsafe.Slice((*byte)(ptr), 16)
	for i := range b {
		b[i] = 0xff
	}

	arena.Reset()
	require.Equal(t, 0, arena.Len())
	require.Equal(t, 16, arena.Peak())

	again := arena.Alloc(16, 8)
	require.Equal(t, ptr, again)
	require.Equal(t, make([]byte, 16), unsafe.Slice((*byte)(again), 16))
}

func TestMonotonicArenaPeak(t *testing.T) {
	arena := NewMonotonicArena()

	arena.Alloc(100, 1)
	arena.Alloc(200, 1)
	require.Equal(t, 300, arena.Peak())

	arena.Reset()
	arena.Alloc(50, 1)
	require.Equal(t, 50, arena.Len())
	require.Equal(t, 300, arena.Peak())

	arena.Alloc(400, 1)
	require.Equal(t, 450, arena.Peak())

	arena.Release()
	require.Equal(t, 0, arena.Len())
	require.Equal(t, 450, arena.Peak())
}

func TestMonotonicArenaMaxBytes(t *testing.T) {
	arena := NewMonotonicArena(WithMinBufferSize(32), WithMaxBytes(64))

	require.NotNil(t, arena.Alloc(32, 1))
	require.NotNil(t, arena.Alloc(24, 1))

	// would cross the cap, whether or not a block has room
	require.Nil(t, arena.Alloc(16, 1))
	require.Nil(t, arena.Alloc(128, 1))
	require.Equal(t, 56, arena.Len())

	require.NotNil(t, arena.Alloc(8, 1))
	require.Equal(t, 64, arena.Len())
	require.Nil(t, arena.Alloc(1, 1))

	// the cap applies between resets
	arena.Reset()
	require.NotNil(t, arena.Alloc(64, 1))
}

func TestMonotonicArenaNegativeMaxBytes(t *testing.T) {
	arena := NewMonotonicArena(WithMinBufferSize(16), WithMaxBytes(-5))
	require.NotNil(t, arena.Alloc(1024, 1))
}

func TestMonotonicArenaRefusalKeepsBlocks(t *testing.T) {
	arena := NewMonotonicArena(WithMinBufferSize(32), WithMaxBytes(40))
	require.NotNil(t, arena.Alloc(32, 1))
	require.Equal(t, 32, arena.Cap())

	require.Nil(t, arena.Alloc(16, 1))
	require.Nil(t, arena.Alloc(1024, 8))
	require.Equal(t, 32, arena.Cap())
	require.Equal(t, 32, arena.Len())

	require.NotNil(t, arena.Alloc(8, 1))
	require.Equal(t, 64, arena.Cap())
	require.Equal(t, 40, arena.Len())
}
