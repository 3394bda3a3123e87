package utils

import (
	"cmp"
	"errors"
	"math"
	"strconv"
)

// CompareFn defines a three-way comparison for values of type T.
// It must return a negative value if x < y, 0 if x == y, and a positive value if x > y.
type CompareFn[T any] func(x, y T) int

// Natural returns the comparison of T's built-in ordering.
func Natural[T cmp.Ordered]() CompareFn[T] {
	return cmp.Compare[T]
}

// Reverse flips the order of the given `compare`.
func Reverse[T any](compare CompareFn[T]) CompareFn[T] {
	return func(x, y T) int { return compare(y, x) }
}

// parseNumber reports the numeric value of `s` as accepted by strconv.ParseFloat, including "Inf" and hex
// floats. Out of range values count as ±Inf. "NaN" is not a number here since it has no place in the order.
func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return f, !math.IsNaN(f)
}

// NumericStrings compares strings holding numbers by their numeric value.
// Strings that don't parse as numbers (see parseNumber) sort after every number and lexically among themselves.
func NumericStrings(x, y string) int {
	xNum, xOk := parseNumber(x)
	yNum, yOk := parseNumber(y)
	switch {
	case xOk && yOk:
		if c := cmp.Compare(xNum, yNum); c != 0 {
			return c
		}
		return cmp.Compare(x, y) // "1" and "1.0" are numerically equal; keep the order total.
	case xOk:
		return -1
	case yOk:
		return 1
	default:
		return cmp.Compare(x, y)
	}
}
