package tier

// Truncate returns at most limit records, dropping the tail. The result is a
// fresh slice so the dropped records cannot be recovered through it; raising
// the limit later does not bring them back.
func Truncate[T any](records []T, limit Quota) []T {
	n := limit.Cap(len(records))
	out := make([]T, n)
	copy(out, records[:n])
	return out
}
