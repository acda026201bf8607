// SPDX-License-Identifier: Apache-2.0

package vector

// Element types may implement any of the interfaces below to take part in
// their own lifecycle. A type implementing none of them is default constructed
// as its zero value, copied and moved by assignment, and destroyed by zeroing.

// Initializer is implemented by *T for element types with a non-zero default state.
type Initializer interface {
	Init() error
}

// Cloner is implemented by element types whose copies must not share state
// with the original, or whose copying may fail.
type Cloner[T any] interface {
	Clone() (T, error)
}

// Assigner is implemented by *T to copy src onto an already live element.
// Without it, assignment destroys the old value and stores a clone of src.
type Assigner[T any] interface {
	Assign(src *T) error
}

// Destroyer is implemented by *T for element types that hold resources.
// Destroy is called exactly once for every element that was constructed
// and not moved out.
type Destroyer interface {
	Destroy()
}

// NoMove is implemented by element types that must not be transferred by a
// plain memory copy, for example because they record their own address.
// Such elements are relocated by cloning the old value and destroying it.
type NoMove interface {
	NoMove()
}

func initElement[T any](p *T) error {
	if i, ok := any(p).(Initializer); ok {
		return i.Init()
	}
	return nil
}

func cloneElement[T any](v T) (T, error) {
	if c, ok := any(v).(Cloner[T]); ok {
		return c.Clone()
	}
	return v, nil
}

func assignElement[T any](dst, src *T) error {
	if a, ok := any(dst).(Assigner[T]); ok {
		return a.Assign(src)
	}
	c, err := cloneElement(*src)
	if err != nil {
		return err
	}
	destroyElement(dst)
	*dst = c
	return nil
}

func destroyElement[T any](p *T) {
	if d, ok := any(p).(Destroyer); ok {
		d.Destroy()
	}
	var zero T
	*p = zero
}

func destroyElements[T any](s []T) {
	for i := range s {
		destroyElement(&s[i])
	}
}

// movable reports whether values of T may be relocated by plain assignment.
func movable[T any]() bool {
	var zero T
	_, pinned := any(zero).(NoMove)
	if !pinned {
		_, pinned = any(&zero).(NoMove)
	}
	return !pinned
}
