package dataset

// Broadcast is a read-only value shared with every partition worker.
// It is constructed once and never mutated afterwards, so concurrent reads
// need no locking. Callers must treat the wrapped value (for maps and
// slices, its contents too) as frozen.
type Broadcast[T any] struct {
	value T
}

// NewBroadcast wraps v for sharing across workers.
func NewBroadcast[T any](v T) *Broadcast[T] {
	return &Broadcast[T]{value: v}
}

// Value returns the shared value.
func (b *Broadcast[T]) Value() T {
	return b.value
}
