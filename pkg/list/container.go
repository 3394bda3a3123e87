// The list flavours don't inherit from one another. What they share is described by Container; how values get in
// is described by Positional (either end) and Ordered (comparison order). A type only gets the insertion
// capability it can honor, so code holding an Ordered has no way to push at the ends.

package list

import (
	"iter"

	"github.com/nobletooth/dlist/pkg/utils"
)

// Container is the read and removal surface shared by every list flavour.
type Container[T any] interface {
	Len() int
	First() (T, bool)
	Last() (T, bool)
	RetrieveFirst() (T, bool)
	RetrieveLast() (T, bool)
	// Delete removes the first element equal to `target` and reports whether one was found.
	Delete(target T, compare utils.CompareFn[T]) bool
	ToSlice() []T
	Iterator() *Cursor[T]
	All() iter.Seq[T]
	Backward() iter.Seq[T]
}

// Positional is a container that accepts values at either end.
type Positional[T any] interface {
	Container[T]
	PushFront(v T)
	PushBack(v T)
}

// Ordered is a container that places values by comparison.
type Ordered[T any] interface {
	Container[T]
	Add(v T)
}
