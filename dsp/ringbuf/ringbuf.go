// Package ringbuf provides a fixed-capacity circular buffer for streaming
// DSP state.
//
// A Ring tracks a logical start and length over a fixed backing array and
// never reallocates. Regions that cross the physical end of the array are
// exposed as two contiguous slices, so callers can use copy and vectorized
// block operations instead of per-element modular arithmetic.
//
// Operations that violate their preconditions (overfull append, oversize
// remove, slide on a non-full buffer, out-of-range offset) panic: they
// indicate integration bugs, not recoverable runtime conditions.
package ringbuf

import "fmt"

// Ring is a fixed-capacity circular buffer.
//
// The live region is the length elements starting at start, wrapping at
// the end of the backing array. A Ring is not safe for concurrent use.
type Ring[T any] struct {
	data   []T
	start  int
	length int
}

// New returns a Ring with the given fixed capacity. If filled is true the
// ring starts logically full of zero values, which suits sliding-window
// use where the window must always cover capacity elements.
func New[T any](capacity int, filled bool) (*Ring[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("ringbuf: capacity must be > 0: %d", capacity)
	}

	r := &Ring[T]{data: make([]T, capacity)}
	if filled {
		r.length = capacity
	}

	return r, nil
}

// Len returns the number of live elements.
func (r *Ring[T]) Len() int { return r.length }

// Cap returns the fixed capacity.
func (r *Ring[T]) Cap() int { return len(r.data) }

// splitRange returns the region of n elements beginning at physical index
// start, split at the wrap boundary. The second slice is empty when the
// region is contiguous.
func (r *Ring[T]) splitRange(start, n int) (head, tail []T) {
	if end := start + n; end <= len(r.data) {
		return r.data[start:end], r.data[:0]
	}

	wrapped := start + n - len(r.data)

	return r.data[start:], r.data[:wrapped]
}

// Append grows the live region by n elements and returns writable views
// over the newly exposed slots, split at the wrap boundary. The slots
// retain whatever values they last held; callers are expected to
// overwrite them. Panics if fewer than n slots are free.
func (r *Ring[T]) Append(n int) (head, tail []T) {
	if n < 0 || n > len(r.data)-r.length {
		panic(fmt.Sprintf("ringbuf: append %d exceeds free space %d", n, len(r.data)-r.length))
	}

	end := r.start + r.length
	if end >= len(r.data) {
		end -= len(r.data)
	}

	head, tail = r.splitRange(end, n)
	r.length += n

	return head, tail
}

// CopyAppend appends the elements of src. Panics if fewer than len(src)
// slots are free.
func (r *Ring[T]) CopyAppend(src []T) {
	head, tail := r.Append(len(src))
	copy(head, src)
	copy(tail, src[len(head):])
}

// Remove discards the n oldest elements. Panics if n exceeds Len.
func (r *Ring[T]) Remove(n int) {
	if n < 0 || n > r.length {
		panic(fmt.Sprintf("ringbuf: remove %d exceeds length %d", n, r.length))
	}

	r.start += n
	if r.start >= len(r.data) {
		r.start -= len(r.data)
	}

	r.length -= n
}

// CopyRemove discards the len(dst) oldest elements, copying their prior
// values into dst. Panics if len(dst) exceeds Len.
func (r *Ring[T]) CopyRemove(dst []T) {
	if len(dst) > r.length {
		panic(fmt.Sprintf("ringbuf: remove %d exceeds length %d", len(dst), r.length))
	}

	head, tail := r.splitRange(r.start, len(dst))
	n := copy(dst, head)
	copy(dst[n:], tail)
	r.Remove(len(dst))
}

// SlideReplace models a fixed-size sliding window: the oldest elements
// leave and the same slots are refilled with new values in lock-step, so
// the ring stays full throughout.
//
// The slide length is taken from whichever of src and dst is non-nil
// (they must agree when both are given). The oldest elements are copied
// into dst when dst is non-nil, then their slots are overwritten from src,
// or zeroed when src is nil. Panics if the ring is not full, if both
// arguments are nil, or if src and dst lengths differ.
func (r *Ring[T]) SlideReplace(src, dst []T) {
	if r.length != len(r.data) {
		panic(fmt.Sprintf("ringbuf: slide-replace requires a full ring: %d of %d", r.length, len(r.data)))
	}

	var n int

	switch {
	case src != nil && dst != nil:
		if len(src) != len(dst) {
			panic(fmt.Sprintf("ringbuf: slide-replace src/dst lengths differ: %d vs %d", len(src), len(dst)))
		}

		n = len(src)
	case src != nil:
		n = len(src)
	case dst != nil:
		n = len(dst)
	default:
		panic("ringbuf: slide-replace needs a source or a destination")
	}

	if n > len(r.data) {
		panic(fmt.Sprintf("ringbuf: slide-replace %d exceeds capacity %d", n, len(r.data)))
	}

	head, tail := r.splitRange(r.start, n)

	if dst != nil {
		m := copy(dst, head)
		copy(dst[m:], tail)
	}

	if src != nil {
		copy(head, src)
		copy(tail, src[len(head):])
	} else {
		var zero T
		for i := range head {
			head[i] = zero
		}
		for i := range tail {
			tail[i] = zero
		}
	}

	r.start += n
	if r.start >= len(r.data) {
		r.start -= len(r.data)
	}
}

// Slices returns views over the live region from the given relative
// offset through the logical end, split at the wrap boundary.
//
// An offset >= 0 starts that many elements past the oldest live element;
// an offset < 0 covers the newest |offset| elements. The views are
// writable, so Slices serves both read-out and in-place accumulation.
// Panics unless -Len <= offset < Len.
func (r *Ring[T]) Slices(offset int) (head, tail []T) {
	if offset >= r.length || -offset > r.length {
		panic(fmt.Sprintf("ringbuf: offset %d out of range for length %d", offset, r.length))
	}

	n := r.length - offset
	if offset < 0 {
		n = -offset
	}

	start := r.start + r.length - n
	if start >= len(r.data) {
		start -= len(r.data)
	}

	return r.splitRange(start, n)
}
