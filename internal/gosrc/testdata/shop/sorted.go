package shop

// Comparable orders values of its own kind.
type Comparable[T any] interface {
	Compare(T) int
}

// Sorted keeps its items ordered.
type Sorted[T Comparable[T]] struct {
	Items []T
}
