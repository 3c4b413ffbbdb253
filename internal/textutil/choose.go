package textutil

// Ternary returns a when cond holds and b otherwise. Export code uses it to
// pick between the character and round-pixel variants of names and labels.
func Ternary[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}
