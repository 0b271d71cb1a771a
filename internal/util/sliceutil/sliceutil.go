// Package sliceutil finds elements of a slice by a derived key.
package sliceutil

import "git.home.luguber.info/inful/docsetgen/internal/foundation"

// IndexOfWithValue returns the index of the first element of xs whose key
// equals value, or None when there is no such element or key is nil.
func IndexOfWithValue[T any, K comparable](xs []T, value K, key func(T) K) foundation.Option[int] {
	if key == nil {
		return foundation.None[int]()
	}
	for i, x := range xs {
		if key(x) == value {
			return foundation.Some(i)
		}
	}
	return foundation.None[int]()
}

// ContainsWithValue reports whether any element of xs has a key equal to value.
func ContainsWithValue[T any, K comparable](xs []T, value K, key func(T) K) bool {
	return IndexOfWithValue(xs, value, key).IsSome()
}
