// Sorted keeps its values in ascending order on every insertion. It shares node storage and traversal with Basic
// but has no positional insertion at all: putting a value at an arbitrary end would break the order, so the
// method set simply doesn't offer it (see Positional).

package list

import (
	"iter"

	"github.com/nobletooth/dlist/pkg/utils"
)

// Sorted is a doubly linked list kept in ascending order by a three-way comparison function.
// Equal values keep their insertion order. A Sorted is not safe for concurrent use.
type Sorted[T any] struct { // Implements Ordered.
	chain   chain[T]
	compare utils.CompareFn[T]
}

var _ Ordered[int] = (*Sorted[int])(nil)

// NewSorted returns an empty sorted list ordered by `compare`.
func NewSorted[T any](compare utils.CompareFn[T]) *Sorted[T] {
	if compare == nil {
		utils.RaiseInvariant("list", "nil_sort_compare", "Sorted list was created without a comparison function.")
		compare = func(T, T) int { return 0 } // Degrades into insertion order.
	}
	return &Sorted[T]{compare: compare}
}

// Insert places `v` after every element not greater than it and before the first greater one, or at the
// tail if there is none. Equal values keep their insertion order.
func (s *Sorted[T]) Insert(v T) *Sorted[T] {
	if s.chain.head == nil || s.compare(s.chain.head.value, v) > 0 {
		s.chain.linkFront(v)
		return s
	}
	// The head is not greater than v, so the walk starts past it.
	n := s.chain.head.next
	for n != nil && s.compare(n.value, v) <= 0 {
		n = n.next
	}
	if n == nil {
		s.chain.linkBack(v)
	} else {
		s.chain.linkBefore(v, n)
	}
	return s
}

// Add is Insert without chaining.
func (s *Sorted[T]) Add(v T) { s.Insert(v) }

// First returns the smallest value; false if the list is empty.
func (s *Sorted[T]) First() (T, bool) { return s.chain.first() }

// Last returns the largest value; false if the list is empty.
func (s *Sorted[T]) Last() (T, bool) { return s.chain.last() }

// Len returns the number of elements in the list.
func (s *Sorted[T]) Len() int { return s.chain.size }

// Remove unlinks the first element for which compare(target, element) == 0. `compare` is only used for equality
// and doesn't need to agree with the list order.
func (s *Sorted[T]) Remove(target T, compare utils.CompareFn[T]) *Sorted[T] {
	s.chain.remove(target, compare)
	return s
}

// Delete is Remove reporting whether an element was removed.
func (s *Sorted[T]) Delete(target T, compare utils.CompareFn[T]) bool {
	return s.chain.remove(target, compare)
}

// RetrieveFirst removes and returns the smallest value; false if the list is empty.
func (s *Sorted[T]) RetrieveFirst() (T, bool) { return s.chain.retrieveFirst() }

// RetrieveLast removes and returns the largest value; false if the list is empty.
func (s *Sorted[T]) RetrieveLast() (T, bool) { return s.chain.retrieveLast() }

// ToSlice returns a new slice holding the values in ascending order.
func (s *Sorted[T]) ToSlice() []T { return s.chain.toSlice() }

// Iterator returns a cursor positioned before the smallest value.
func (s *Sorted[T]) Iterator() *Cursor[T] { return newCursor(&s.chain) }

// All yields the values in ascending order.
func (s *Sorted[T]) All() iter.Seq[T] { return s.chain.all() }

// Backward yields the values in descending order.
func (s *Sorted[T]) Backward() iter.Seq[T] { return s.chain.backward() }
