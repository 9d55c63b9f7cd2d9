// package algorithms provides generified map/filter/group functions.
package algorithms

import "iter"

// Map applies the function f to each element of the slice and returns a new slice containing the results.
func Map[T, R any](s []T, f func(T) R) []R {
	r := make([]R, 0, len(s))
	for _, v := range s {
		r = append(r, f(v))
	}
	return r
}

// FilterMap applies f to each element of the slice and returns the results
// for which f reported true.
func FilterMap[T, R any](s []T, f func(T) (R, bool)) []R {
	r := make([]R, 0, len(s))
	for _, v := range s {
		if out, ok := f(v); ok {
			r = append(r, out)
		}
	}
	return r
}

// GroupBy partitions the slice by the key returned by f. Within each group
// elements keep their relative order.
func GroupBy[T any, K comparable](s []T, f func(T) K) map[K][]T {
	r := make(map[K][]T)
	for _, v := range s {
		k := f(v)
		r[k] = append(r[k], v)
	}
	return r
}

// Backward returns a sequence over the elements of the slice, last to first.
// The sequence may be ranged over any number of times.
func Backward[T any](s []T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := len(s) - 1; i >= 0; i-- {
			if !yield(s[i]) {
				return
			}
		}
	}
}

// Values returns a sequence over the elements of the slice.
// The sequence may be ranged over any number of times.
func Values[T any](s []T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range s {
			if !yield(v) {
				return
			}
		}
	}
}
