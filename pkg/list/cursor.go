package list

import "fmt"

// Cursor walks a list in both directions. It sits between two elements, starting before the head:
// Next returns the element after the cursor and moves past it, Previous returns the element before the cursor and
// moves back over it, so alternating Next and Previous keeps returning the same element.
//
// A cursor is read-only and holds no ownership over the list. Changing the list structure while a cursor is in use
// leaves the cursor in an undefined position; no attempt is made to detect it.
type Cursor[T any] struct {
	ahead  *node[T] // Element returned by the next call to Next; nil when forward traversal is exhausted.
	behind *node[T] // Element returned by the next call to Previous; nil when nothing can be walked back over.
}

func newCursor[T any](c *chain[T]) *Cursor[T] {
	return &Cursor[T]{ahead: c.head}
}

// HasNext reports whether Next would return an element.
func (c *Cursor[T]) HasNext() bool {
	return c.ahead != nil
}

// Next moves the cursor forward and returns the element it moved past.
func (c *Cursor[T]) Next() (T, error) {
	if !c.HasNext() {
		var zero T
		return zero, fmt.Errorf("%w: no next element in the list", ErrNoSuchElement)
	}
	c.behind = c.ahead
	c.ahead = c.ahead.next
	return c.behind.value, nil
}

// HasPrevious reports whether Previous would return an element.
func (c *Cursor[T]) HasPrevious() bool {
	return c.behind != nil
}

// Previous moves the cursor backward and returns the element it moved past.
func (c *Cursor[T]) Previous() (T, error) {
	if !c.HasPrevious() {
		var zero T
		return zero, fmt.Errorf("%w: no previous element in the list", ErrNoSuchElement)
	}
	c.ahead = c.behind
	c.behind = c.behind.prev
	return c.ahead.value, nil
}

// NextIndex is not supported; cursors don't track positions.
func (c *Cursor[T]) NextIndex() (int, error) {
	return 0, fmt.Errorf("%w: cursor index", ErrUnsupportedOperation)
}

// PreviousIndex is not supported; cursors don't track positions.
func (c *Cursor[T]) PreviousIndex() (int, error) {
	return 0, fmt.Errorf("%w: cursor index", ErrUnsupportedOperation)
}

// Remove is not supported; cursors are read-only.
func (c *Cursor[T]) Remove() error {
	return fmt.Errorf("%w: remove through cursor", ErrUnsupportedOperation)
}

// Set is not supported; cursors are read-only.
func (c *Cursor[T]) Set(T) error {
	return fmt.Errorf("%w: set through cursor", ErrUnsupportedOperation)
}

// Add is not supported; cursors are read-only.
func (c *Cursor[T]) Add(T) error {
	return fmt.Errorf("%w: add through cursor", ErrUnsupportedOperation)
}
