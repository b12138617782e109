package metrics

// Ring is a fixed-capacity circular buffer. Pushing into a full ring drops
// the oldest element.
type Ring[T any] struct {
	items []T
	head  int
	size  int
}

// NewRing returns an empty ring holding at most capacity elements.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{items: make([]T, capacity)}
}

// Push appends v, evicting the oldest element when full.
func (r *Ring[T]) Push(v T) {
	idx := (r.head + r.size) % len(r.items)
	if r.size == len(r.items) {
		r.items[r.head] = v
		r.head = (r.head + 1) % len(r.items)
		return
	}
	r.items[idx] = v
	r.size++
}

// Len returns the number of stored elements.
func (r *Ring[T]) Len() int { return r.size }

// Cap returns the capacity.
func (r *Ring[T]) Cap() int { return len(r.items) }

// Values returns a copy of the contents, oldest first.
func (r *Ring[T]) Values() []T {
	out := make([]T, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.items[(r.head+i)%len(r.items)]
	}
	return out
}

// Last returns the newest element.
func (r *Ring[T]) Last() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}
	return r.items[(r.head+r.size-1)%len(r.items)], true
}

// Reset empties the ring.
func (r *Ring[T]) Reset() {
	var zero T
	for i := range r.items {
		r.items[i] = zero
	}
	r.head = 0
	r.size = 0
}
