package utils

func FindIndex[T comparable](slice []T, item T) int {
	return IndexFunc(slice, func(v T) bool { return v == item })
}

// IndexFunc returns the index of the first element satisfying pred, or -1.
func IndexFunc[T any](slice []T, pred func(T) bool) int {
	for i, v := range slice {
		if pred(v) {
			return i
		}
	}
	return -1
}

func Map[T, U any](slice []T, f func(T) U) []U {
	out := make([]U, len(slice))
	for i, v := range slice {
		out[i] = f(v)
	}
	return out
}

// Filter keeps the elements satisfying pred. The result is never nil.
func Filter[T any](slice []T, pred func(T) bool) []T {
	out := []T{}
	for _, v := range slice {
		if pred(v) {
			out = append(out, v)
		}
	}
	return out
}
