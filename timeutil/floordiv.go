package timeutil

import "golang.org/x/exp/constraints"

// FloorDiv returns a/b rounded towards negative infinity, unlike Go's
// integer division which truncates towards zero. FloorDiv(-1, 7) is
// -1 where -1/7 is 0.
func FloorDiv[T constraints.Integer](a, b T) T {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// FloorMod returns the remainder matching FloorDiv, which always has
// the sign of b.
func FloorMod[T constraints.Integer](a, b T) T {
	return a - FloorDiv(a, b)*b
}
