// SPDX-License-Identifier: Apache-2.0

// Package vector implements a growable array on top of a raw storage buffer.
//
// RawMemory only owns uninitialized slots, Vector owns the lifetime of every
// element living in those slots. Memory for the slots comes either from the
// Go heap or from an Arena.
package vector

import (
	"unsafe"
)

// Arena is an interface that describes a memory allocation arena.
type Arena interface {
	// Alloc allocates zeroed memory of the given size and returns a pointer to it.
	// The alignment parameter specifies the alignment of the allocated memory.
	// Alloc returns nil when the request cannot be satisfied.
	Alloc(size, alignment uintptr) unsafe.Pointer

	// Reset resets the arena's state without releasing the underlying memory.
	// After invoking this method any pointer previously returned by Alloc becomes immediately invalid,
	// which includes the storage of every RawMemory and Vector built on top of it.
	Reset()

	// Release releases the arena's underlying memory back to the system.
	// After invoking this method, the arena should not be used for further allocations.
	Release()

	// Len returns the total number of bytes currently allocated in the arena.
	Len() int

	// Cap returns the total capacity (maximum bytes) that can be allocated in the arena.
	Cap() int

	// Peak returns the peak number of bytes that have been allocated in the arena.
	// This value is not reset when Reset is called.
	Peak() int
}
