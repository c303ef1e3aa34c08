package util

// Map applies a transformation function to each element of a slice and returns a new slice
// with the transformed values. This is a generic implementation of the map higher-order function.
//
// Type Parameters:
//   - A: The type of elements in the input slice
//   - B: The type of elements in the output slice
//
// Parameters:
//   - coll: The input slice to transform
//   - mapper: Function that transforms each element and receives the element's index
//
// Returns:
//   - []B: A new slice containing the transformed elements
func Map[A any, B any](coll []A, mapper func(i A, index uint64) B) []B {
	out := make([]B, len(coll))
	for i, item := range coll {
		out[i] = mapper(item, uint64(i))
	}
	return out
}

// IndexOf returns the position of the first element in a slice that satisfies the
// provided criteria function, or -1 when no element matches.
//
// Type Parameters:
//   - A: The type of elements in the slice
//
// Parameters:
//   - coll: The input slice to search
//   - criteria: Function that determines whether an element matches
//
// Returns:
//   - int: Index of the first matching element, or -1 if no match is found
func IndexOf[A any](coll []A, criteria func(i A) bool) int {
	for i, item := range coll {
		if criteria(item) {
			return i
		}
	}
	return -1
}

// IndexOrAppend returns the index of value in coll, appending it first when it is
// not already present. The (possibly grown) slice is returned alongside the index.
func IndexOrAppend[A comparable](coll []A, value A) ([]A, int) {
	if idx := IndexOf(coll, func(i A) bool { return i == value }); idx >= 0 {
		return coll, idx
	}
	coll = append(coll, value)
	return coll, len(coll) - 1
}
