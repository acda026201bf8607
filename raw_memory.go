// SPDX-License-Identifier: Apache-2.0

package vector

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"
)

// maxAllocBytes mirrors the runtime's limit on a single allocation:
// 1<<31 on 32-bit platforms and 1<<48 on 64-bit ones.
const maxAllocBytes = uintptr(1) << (31 + (^uintptr(0)>>63)*17)

// RawMemory is a fixed block of storage for Cap() values of type T.
//
// RawMemory never constructs or destroys elements. From its point of view every
// slot is uninitialized; the owner decides which slots hold live values and
// must destroy them before calling Release or dropping the block in a Swap.
// Slots that hold no live value are kept zeroed.
//
// RawMemory must not be copied after first use; ownership moves with Take or Swap.
type RawMemory[T any] struct {
	buf []T // len(buf) == cap(buf) == capacity
}

// NewRawMemory allocates storage for n elements of type T.
// With a nil arena, or when T contains pointers, the storage comes from the Go heap
// because arena memory is not scanned by the garbage collector.
func NewRawMemory[T any](a Arena, n int) (RawMemory[T], error) {
	buf, err := allocateSlots[T](a, n)
	if err != nil {
		return RawMemory[T]{}, err
	}
	return RawMemory[T]{buf: buf}, nil
}

func allocateSlots[T any](a Arena, n int) ([]T, error) {
	if n < 0 {
		return nil, ErrNegativeSize
	}
	if n == 0 {
		return nil, nil
	}

	var x T
	size := unsafe.Sizeof(x)
	if size != 0 && uintptr(n) > maxAllocBytes/size {
		return nil, fmt.Errorf("%w: %d elements of %d bytes", ErrOutOfMemory, n, size)
	}
	if a == nil || size == 0 || !pointerFree[T]() {
		return make([]T, n), nil
	}

	ptr := (*T)(a.Alloc(size*uintptr(n), unsafe.Alignof(x)))
	if ptr == nil {
		return nil, fmt.Errorf("%w: arena refused %d bytes", ErrOutOfMemory, size*uintptr(n))
	}
	return unsafe.Slice(ptr, n), nil
}

// Cap returns the number of slots in the block.
func (m *RawMemory[T]) Cap() int {
	return len(m.buf)
}

// Slot returns the address of slot i. It does not check whether the slot
// holds a live value.
func (m *RawMemory[T]) Slot(i int) *T {
	return &m.buf[i]
}

// Take transfers the block to the returned RawMemory and leaves m empty.
func (m *RawMemory[T]) Take() RawMemory[T] {
	out := RawMemory[T]{buf: m.buf}
	m.buf = nil
	return out
}

// Swap exchanges the blocks of m and other.
func (m *RawMemory[T]) Swap(other *RawMemory[T]) {
	m.buf, other.buf = other.buf, m.buf
}

// Release drops the block. Arena backed memory is reclaimed by the arena's
// next Reset; heap memory by the garbage collector.
func (m *RawMemory[T]) Release() {
	m.buf = nil
}

var pointerFreeCache sync.Map // reflect.Type -> bool

// pointerFree reports whether values of T can live in memory the garbage
// collector does not scan.
func pointerFree[T any]() bool {
	t := reflect.TypeFor[T]()
	if v, ok := pointerFreeCache.Load(t); ok {
		return v.(bool)
	}
	free := !hasPointers(t)
	pointerFreeCache.Store(t, free)
	return free
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return true
	}
}
