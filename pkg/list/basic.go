package list

import (
	"iter"

	"github.com/nobletooth/dlist/pkg/utils"
)

// Basic is an unordered doubly linked list that accepts values at either end.
// The zero value is an empty list ready to use. A Basic is not safe for concurrent use.
type Basic[T any] struct { // Implements Positional.
	chain chain[T]
}

var _ Positional[int] = (*Basic[int])(nil)

// NewBasic returns an empty Basic list.
func NewBasic[T any]() *Basic[T] {
	return new(Basic[T])
}

// AddToFront adds `v` before the current head and returns the list.
func (b *Basic[T]) AddToFront(v T) *Basic[T] {
	b.chain.linkFront(v)
	return b
}

// AddToEnd adds `v` after the current tail and returns the list.
func (b *Basic[T]) AddToEnd(v T) *Basic[T] {
	b.chain.linkBack(v)
	return b
}

// PushFront is AddToFront without chaining.
func (b *Basic[T]) PushFront(v T) { b.chain.linkFront(v) }

// PushBack is AddToEnd without chaining.
func (b *Basic[T]) PushBack(v T) { b.chain.linkBack(v) }

// First returns the head value without removing it; false if the list is empty.
func (b *Basic[T]) First() (T, bool) { return b.chain.first() }

// Last returns the tail value without removing it; false if the list is empty.
func (b *Basic[T]) Last() (T, bool) { return b.chain.last() }

// Len returns the number of elements in the list.
func (b *Basic[T]) Len() int { return b.chain.size }

// Remove unlinks the first element, walking from the head, for which compare(target, element) == 0.
// The list is left unchanged when nothing matches.
func (b *Basic[T]) Remove(target T, compare utils.CompareFn[T]) *Basic[T] {
	b.chain.remove(target, compare)
	return b
}

// Delete is Remove reporting whether an element was removed.
func (b *Basic[T]) Delete(target T, compare utils.CompareFn[T]) bool {
	return b.chain.remove(target, compare)
}

// RetrieveFirst removes and returns the head value; false if the list is empty.
func (b *Basic[T]) RetrieveFirst() (T, bool) { return b.chain.retrieveFirst() }

// RetrieveLast removes and returns the tail value; false if the list is empty.
func (b *Basic[T]) RetrieveLast() (T, bool) { return b.chain.retrieveLast() }

// ToSlice returns a new slice holding the values from head to tail.
func (b *Basic[T]) ToSlice() []T { return b.chain.toSlice() }

// Iterator returns a cursor positioned before the head.
func (b *Basic[T]) Iterator() *Cursor[T] { return newCursor(&b.chain) }

// All yields the values from head to tail.
func (b *Basic[T]) All() iter.Seq[T] { return b.chain.all() }

// Backward yields the values from tail to head.
func (b *Basic[T]) Backward() iter.Seq[T] { return b.chain.backward() }
