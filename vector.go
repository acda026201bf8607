// SPDX-License-Identifier: Apache-2.0

package vector

import (
	"iter"
	"unsafe"

	"go.uber.org/zap"
)

// Vector is a growable array of T. Indices [0, Len()) hold live elements,
// the remaining Cap()-Len() slots of the buffer are zeroed and unused.
//
// Index arguments are not validated against Len(). Passing an index outside
// [0, Len()), or calling PopBack on an empty vector, is a programming error.
//
// A Vector is not safe for concurrent use.
type Vector[T any] struct {
	settings
	mem  RawMemory[T]
	size int
}

// New returns an empty vector without a buffer.
func New[T any](opts ...Option) *Vector[T] {
	return &Vector[T]{settings: newSettings(opts)}
}

// NewSized returns a vector of n default constructed elements
// with a buffer of exactly n slots.
func NewSized[T any](n int, opts ...Option) (*Vector[T], error) {
	v := New[T](opts...)
	mem, err := NewRawMemory[T](v.arena, n)
	if err != nil {
		return nil, err
	}
	v.mem = mem
	if err := v.construct(0, n); err != nil {
		v.mem.Release()
		return nil, err
	}
	v.size = n
	return v, nil
}

// construct default constructs slots [from, to). On failure the slots
// constructed so far are destroyed again.
func (v *Vector[T]) construct(from, to int) error {
	for i := from; i < to; i++ {
		if err := initElement(v.mem.Slot(i)); err != nil {
			var zero T
			*v.mem.Slot(i) = zero
			destroyElements(v.mem.buf[from:i])
			return &ElementError{Op: OpInit, Index: i, Err: err}
		}
	}
	return nil
}

// Clone returns an independent copy of v with a buffer of exactly Len() slots.
// It shares v's arena and logger.
func (v *Vector[T]) Clone() (*Vector[T], error) {
	return v.cloneWith(v.settings)
}

func (v *Vector[T]) cloneWith(s settings) (*Vector[T], error) {
	out := &Vector[T]{settings: s}
	mem, err := NewRawMemory[T](s.arena, v.size)
	if err != nil {
		return nil, err
	}
	if err := copyElements(&mem, v.mem.buf[:v.size]); err != nil {
		mem.Release()
		return nil, err
	}
	out.mem = mem
	out.size = v.size
	return out, nil
}

// copyElements clones src into the first len(src) slots of dst.
// On failure every clone made so far is destroyed and dst is left as it was.
func copyElements[T any](dst *RawMemory[T], src []T) error {
	for i := range src {
		c, err := cloneElement(src[i])
		if err != nil {
			destroyElements(dst.buf[:i])
			return &ElementError{Op: OpClone, Index: i, Err: err}
		}
		*dst.Slot(i) = c
	}
	return nil
}

// Move returns a vector owning v's buffer and elements, and leaves v empty
// with no buffer.
func (v *Vector[T]) Move() *Vector[T] {
	out := &Vector[T]{settings: v.settings}
	out.Swap(v)
	return out
}

// CopyFrom makes v a copy of other.
//
// When other does not fit in v's buffer, a complete copy is built first and
// swapped in, so a failing Clone leaves v untouched. Otherwise elements are
// assigned in place; a failure then leaves v valid but only partly copied.
func (v *Vector[T]) CopyFrom(other *Vector[T]) error {
	if v == other {
		return nil
	}
	if other.size > v.mem.Cap() {
		tmp, err := other.cloneWith(v.settings)
		if err != nil {
			return err
		}
		v.Swap(tmp)
		tmp.Release()
		return nil
	}

	common := min(v.size, other.size)
	for i := 0; i < common; i++ {
		if err := assignElement(v.mem.Slot(i), other.mem.Slot(i)); err != nil {
			return &ElementError{Op: OpAssign, Index: i, Err: err}
		}
	}
	if v.size > other.size {
		destroyElements(v.mem.buf[other.size:v.size])
		v.size = other.size
		return nil
	}
	for ; v.size < other.size; v.size++ {
		c, err := cloneElement(other.mem.buf[v.size])
		if err != nil {
			return &ElementError{Op: OpClone, Index: v.size, Err: err}
		}
		*v.mem.Slot(v.size) = c
	}
	return nil
}

// MoveFrom exchanges the contents of v and other. other receives v's previous
// elements, which it is expected to release.
func (v *Vector[T]) MoveFrom(other *Vector[T]) {
	v.Swap(other)
}

// At returns element i.
func (v *Vector[T]) At(i int) T {
	return v.mem.buf[i]
}

// Set destroys element i and moves x into its place without copying it.
func (v *Vector[T]) Set(i int, x T) {
	slot := v.mem.Slot(i)
	destroyElement(slot)
	*slot = x
}

// Ref returns the address of element i. The address stays valid until the
// buffer is replaced by a growing operation.
func (v *Vector[T]) Ref(i int) *T {
	return v.mem.Slot(i)
}

// Reserve makes room for at least n elements. If the buffer has to be
// replaced and relocating an element fails, v is left exactly as it was.
func (v *Vector[T]) Reserve(n int) error {
	if n < 0 {
		return ErrNegativeSize
	}
	if n <= v.mem.Cap() {
		return nil
	}

	next, err := NewRawMemory[T](v.arena, n)
	if err != nil {
		return err
	}
	if movable[T]() {
		for i := 0; i < v.size; i++ {
			*next.Slot(i) = v.mem.buf[i]
		}
		clear(v.mem.buf[:v.size])
	} else {
		if err := copyElements(&next, v.mem.buf[:v.size]); err != nil {
			next.Release()
			v.logger.Debug("vector relocation rolled back",
				zap.Int("cap", v.mem.Cap()),
				zap.Int("len", v.size),
				zap.Error(err),
			)
			return err
		}
		destroyElements(v.mem.buf[:v.size])
	}

	from := v.mem.Cap()
	v.mem.Swap(&next)
	next.Release()

	if ce := v.logger.Check(zap.DebugLevel, "vector reallocated"); ce != nil {
		ce.Write(zap.Int("from", from), zap.Int("to", n), zap.Int("len", v.size))
	}
	return nil
}

// Resize changes the number of elements to n, destroying surplus elements or
// default constructing new ones.
func (v *Vector[T]) Resize(n int) error {
	if n < 0 {
		return ErrNegativeSize
	}
	if n < v.size {
		destroyElements(v.mem.buf[n:v.size])
		v.size = n
		return nil
	}
	if err := v.Reserve(n); err != nil {
		return err
	}
	if err := v.construct(v.size, n); err != nil {
		return err
	}
	v.size = n
	return nil
}

// grow makes room for one more element, doubling the capacity when full.
func (v *Vector[T]) grow() error {
	if v.size < v.mem.Cap() {
		return nil
	}
	if v.size == 0 {
		return v.Reserve(1)
	}
	return v.Reserve(2 * v.size)
}

// PushBack appends a copy of x.
func (v *Vector[T]) PushBack(x T) error {
	c, err := cloneElement(x)
	if err != nil {
		return &ElementError{Op: OpClone, Index: v.size, Err: err}
	}
	if err := v.grow(); err != nil {
		destroyElement(&c)
		return err
	}
	*v.mem.Slot(v.size) = c
	v.size++
	return nil
}

// PushBackMove appends the value stored in *x and leaves *x zeroed.
// Element types implementing NoMove are cloned and the original destroyed.
// x may point at an element of v; such a source stays live in v (zeroed for
// movable types, untouched for NoMove types) and is destroyed with v.
func (v *Vector[T]) PushBackMove(x *T) error {
	src := v.indexOf(x)
	if err := v.grow(); err != nil {
		return err
	}
	if src >= 0 {
		x = v.mem.Slot(src)
	}
	slot := v.mem.Slot(v.size)
	if movable[T]() {
		*slot = *x
		var zero T
		*x = zero
	} else {
		c, err := cloneElement(*x)
		if err != nil {
			return &ElementError{Op: OpClone, Index: v.size, Err: err}
		}
		*slot = c
		if src < 0 {
			destroyElement(x)
		}
	}
	v.size++
	return nil
}

// indexOf returns the index of the live element p points at, or -1.
func (v *Vector[T]) indexOf(p *T) int {
	var x T
	size := unsafe.Sizeof(x)
	if size == 0 || v.size == 0 {
		return -1
	}
	base := uintptr(unsafe.Pointer(v.mem.Slot(0)))
	addr := uintptr(unsafe.Pointer(p))
	if addr < base {
		return -1
	}
	off := addr - base
	if off >= uintptr(v.size)*size || off%size != 0 {
		return -1
	}
	return int(off / size)
}

// EmplaceBack constructs a new element in place at the end of the vector and
// returns its address. A nil ctor default constructs the element.
func (v *Vector[T]) EmplaceBack(ctor func(*T) error) (*T, error) {
	if err := v.grow(); err != nil {
		return nil, err
	}
	slot := v.mem.Slot(v.size)
	op, construct := OpEmplace, ctor
	if construct == nil {
		op, construct = OpInit, initElement[T]
	}
	if err := construct(slot); err != nil {
		var zero T
		*slot = zero
		return nil, &ElementError{Op: op, Index: v.size, Err: err}
	}
	v.size++
	return slot, nil
}

// PopBack destroys the last element.
func (v *Vector[T]) PopBack() {
	destroyElement(v.mem.Slot(v.size - 1))
	v.size--
}

// Clear destroys all elements. The buffer is kept.
func (v *Vector[T]) Clear() {
	destroyElements(v.mem.buf[:v.size])
	v.size = 0
}

// Swap exchanges buffers and elements of v and other. Arena and logger stay put.
func (v *Vector[T]) Swap(other *Vector[T]) {
	v.mem.Swap(&other.mem)
	v.size, other.size = other.size, v.size
}

// Release destroys all elements and drops the buffer.
// The vector can be used again afterwards and starts out empty.
func (v *Vector[T]) Release() {
	v.Clear()
	v.mem.Release()
}

// Len returns the number of elements.
func (v *Vector[T]) Len() int {
	return v.size
}

// Cap returns the number of elements the buffer can hold without growing.
func (v *Vector[T]) Cap() int {
	return v.mem.Cap()
}

// Slice returns the live elements as a slice sharing the vector's buffer.
// It is valid until the next operation that replaces the buffer.
func (v *Vector[T]) Slice() []T {
	return v.mem.buf[:v.size:v.size]
}

// All returns an iterator over index/element pairs in index order.
func (v *Vector[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < v.size; i++ {
			if !yield(i, v.mem.buf[i]) {
				return
			}
		}
	}
}

// Values returns an iterator over the elements in index order.
func (v *Vector[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < v.size; i++ {
			if !yield(v.mem.buf[i]) {
				return
			}
		}
	}
}
