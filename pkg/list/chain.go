// Both list flavours store their values in the same chain of doubly linked nodes. The chain owns the node links and
// the size counter; list types only decide where a new node goes.
//
// Layout invariants:
//   - size == 0 <=> head == tail == nil.
//   - size == 1 <=> head == tail.
//   - head.prev == nil, tail.next == nil.
//   - For every linked node n: n.next.prev == n and n.prev.next == n.

package list

import (
	"iter"

	"github.com/nobletooth/dlist/pkg/utils"
)

// node represents a node in the doubly linked chain.
type node[T any] struct {
	next  *node[T]
	prev  *node[T]
	value T
}

// chain is the node storage shared by Basic and Sorted.
type chain[T any] struct {
	head *node[T]
	tail *node[T]
	size int
}

// linkFront adds a new node holding `v` before the head.
func (c *chain[T]) linkFront(v T) {
	n := &node[T]{value: v, next: c.head}
	if c.head != nil {
		c.head.prev = n
	} else { // Chain was empty.
		c.tail = n
	}
	c.head = n
	c.size++
}

// linkBack adds a new node holding `v` after the tail.
func (c *chain[T]) linkBack(v T) {
	n := &node[T]{value: v, prev: c.tail}
	if c.tail != nil {
		c.tail.next = n
	} else { // Chain was empty.
		c.head = n
	}
	c.tail = n
	c.size++
}

// linkBefore adds a new node holding `v` right before `mark`, which must belong to this chain.
func (c *chain[T]) linkBefore(v T, mark *node[T]) {
	if mark == c.head {
		c.linkFront(v)
		return
	}
	n := &node[T]{value: v, prev: mark.prev, next: mark}
	mark.prev.next = n
	mark.prev = n
	c.size++
}

// unlink removes `n` from the chain and clears its outward links.
func (c *chain[T]) unlink(n *node[T]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		// Node is the head.
		c.head = n.next
	}

	if n.next != nil {
		n.next.prev = n.prev
	} else {
		// Node is the tail.
		c.tail = n.prev
	}

	n.next = nil
	n.prev = nil

	c.size--
	if c.size < 0 {
		utils.RaiseInvariant("list", "negative_size", "Chain size went below zero after unlink.", "size", c.size)
		c.size = 0
	}
}

// find returns the first node, walking from the head, whose value compares equal to `target`.
func (c *chain[T]) find(target T, compare utils.CompareFn[T]) *node[T] {
	for n := c.head; n != nil; n = n.next {
		if compare(target, n.value) == 0 {
			return n
		}
	}
	return nil
}

func (c *chain[T]) first() (T, bool) {
	if c.head == nil {
		var zero T
		return zero, false
	}
	return c.head.value, true
}

func (c *chain[T]) last() (T, bool) {
	if c.tail == nil {
		var zero T
		return zero, false
	}
	return c.tail.value, true
}

func (c *chain[T]) retrieveFirst() (T, bool) {
	if c.head == nil {
		var zero T
		return zero, false
	}
	v := c.head.value
	c.unlink(c.head)
	return v, true
}

func (c *chain[T]) retrieveLast() (T, bool) {
	if c.tail == nil {
		var zero T
		return zero, false
	}
	v := c.tail.value
	c.unlink(c.tail)
	return v, true
}

// remove unlinks the first match of `target`; it reports whether anything was removed.
func (c *chain[T]) remove(target T, compare utils.CompareFn[T]) bool {
	if compare == nil {
		utils.RaiseInvariant("list", "nil_compare", "Remove was called with a nil comparison function.")
		return false
	}
	if n := c.find(target, compare); n != nil {
		c.unlink(n)
		return true
	}
	return false
}

func (c *chain[T]) toSlice() []T {
	values := make([]T, 0, c.size)
	for n := c.head; n != nil; n = n.next {
		values = append(values, n.value)
	}
	return values
}

func (c *chain[T]) all() iter.Seq[T] {
	return func(yield func(T) bool) {
		for n := c.head; n != nil; n = n.next {
			if !yield(n.value) {
				return
			}
		}
	}
}

func (c *chain[T]) backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		for n := c.tail; n != nil; n = n.prev {
			if !yield(n.value) {
				return
			}
		}
	}
}
