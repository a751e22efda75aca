// Package ordering maintains the dense 1..N "order" sequence that sibling
// workouts, exercises and sets carry. Every function returns a fully
// renumbered list; callers never see a partial patch.
package ordering

// Normalize renumbers items to exactly 1..N in place, preserving the slice's
// current relative order, and returns the same slice. set assigns the order
// value on the element at the given index's address.
func Normalize[T any](items []T, set func(*T, int)) []T {
	for i := range items {
		set(&items[i], i+1)
	}
	return items
}

// Insert places item at the 1-based position pos and renumbers. A pos outside
// [1, len+1] appends, which is the default for new siblings.
func Insert[T any](items []T, item T, pos int, set func(*T, int)) []T {
	if pos < 1 || pos > len(items)+1 {
		pos = len(items) + 1
	}
	items = append(items, item)
	copy(items[pos:], items[pos-1:len(items)-1])
	items[pos-1] = item
	return Normalize(items, set)
}

// Append adds item as the last sibling (order = N+1).
func Append[T any](items []T, item T, set func(*T, int)) []T {
	return Insert(items, item, len(items)+1, set)
}

// Remove deletes the element at the 1-based position pos and shifts every
// later sibling down by one. Removing the last remaining element yields an
// empty list. An out-of-range pos leaves the list unchanged apart from
// renumbering.
func Remove[T any](items []T, pos int, set func(*T, int)) []T {
	if pos >= 1 && pos <= len(items) {
		items = append(items[:pos-1], items[pos:]...)
	}
	return Normalize(items, set)
}

// RemoveFunc deletes the first element matching the predicate and renumbers.
// It reports whether anything was removed.
func RemoveFunc[T any](items []T, match func(T) bool, set func(*T, int)) ([]T, bool) {
	for i := range items {
		if match(items[i]) {
			return Remove(items, i+1, set), true
		}
	}
	return Normalize(items, set), false
}
