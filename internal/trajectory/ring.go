// Package trajectory provides the bounded position history kept by each body.
//
// [Ring] is a fixed-capacity circular buffer: once full, every Push overwrites
// the oldest element, so the buffer always holds the most recent Cap() values
// in insertion order without reallocating or shifting.
package trajectory

// DefaultCapacity is the number of samples retained per body.
const DefaultCapacity = 1000

type Ring[T any] struct {
	buf  []T
	head int // index of the oldest element
	size int
}

// New returns an empty ring holding at most capacity elements.
// A non-positive capacity falls back to DefaultCapacity.
func New[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring[T]{buf: make([]T, capacity)}
}

func (r *Ring[T]) Len() int { return r.size }
func (r *Ring[T]) Cap() int { return len(r.buf) }

// Push appends v, evicting the oldest element when the ring is full.
func (r *Ring[T]) Push(v T) {
	if r.size < len(r.buf) {
		r.buf[(r.head+r.size)%len(r.buf)] = v
		r.size++
		return
	}
	r.buf[r.head] = v
	r.head = (r.head + 1) % len(r.buf)
}

// At returns the i-th element in chronological order (0 is the oldest).
func (r *Ring[T]) At(i int) T {
	if i < 0 || i >= r.size {
		panic("trajectory: index out of range")
	}
	return r.buf[(r.head+i)%len(r.buf)]
}

// Last returns the most recently pushed element.
func (r *Ring[T]) Last() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}
	return r.At(r.size - 1), true
}

// Each calls fn for every element from oldest to newest.
func (r *Ring[T]) Each(fn func(i int, v T)) {
	for i := 0; i < r.size; i++ {
		fn(i, r.buf[(r.head+i)%len(r.buf)])
	}
}

// Slice copies the contents into a new slice, oldest first.
func (r *Ring[T]) Slice() []T {
	out := make([]T, r.size)
	first := copy(out, r.buf[r.head:min(r.head+r.size, len(r.buf))])
	copy(out[first:], r.buf[:r.size-first])
	return out
}

func (r *Ring[T]) Reset() {
	clear(r.buf)
	r.head = 0
	r.size = 0
}
