package list

import "errors"

var (
	// ErrNoSuchElement is returned when a cursor is moved past either end of its list.
	ErrNoSuchElement = errors.New("no such element")
	// ErrUnsupportedOperation is returned on API misuse that can never succeed, e.g. mutating through a cursor.
	ErrUnsupportedOperation = errors.New("unsupported operation")
)
