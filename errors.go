// SPDX-License-Identifier: Apache-2.0

package vector

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfMemory is returned when storage for a buffer cannot be obtained,
	// either because the arena refused the request or because the byte size
	// of the buffer does not fit in the address space.
	ErrOutOfMemory = errors.New("vector: out of memory")

	// ErrNegativeSize is returned for negative sizes and capacities.
	ErrNegativeSize = errors.New("vector: negative size")
)

// Element operations reported in ElementError.Op.
const (
	OpInit    = "init"
	OpClone   = "clone"
	OpAssign  = "assign"
	OpEmplace = "emplace"
)

// ElementError reports a failure of an element hook (Init, Clone, Assign or
// an EmplaceBack constructor) at the given index.
type ElementError struct {
	Op    string
	Index int
	Err   error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("vector: %s element %d: %v", e.Op, e.Index, e.Err)
}

func (e *ElementError) Unwrap() error {
	return e.Err
}
