// Package ring provides a fixed-capacity sample history buffer. Pushing to a
// full ring evicts the oldest sample, so the buffer always holds the most
// recent window of a stream.
package ring

import "fmt"

// Ring is a fixed-capacity circular buffer of float64 samples.
// Len never exceeds Cap.
type Ring struct {
	data []float64
	head int // index of the oldest sample
	size int
}

// New returns an empty Ring with the given capacity.
func New(capacity int) (*Ring, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("ring capacity must be > 0: %d", capacity)
	}
	return &Ring{data: make([]float64, capacity)}, nil
}

// Push appends x, evicting the oldest sample when the ring is full.
func (r *Ring) Push(x float64) {
	if r.size < len(r.data) {
		r.data[(r.head+r.size)%len(r.data)] = x
		r.size++
		return
	}
	r.data[r.head] = x
	r.head = (r.head + 1) % len(r.data)
}

// Len returns the number of buffered samples.
func (r *Ring) Len() int { return r.size }

// Cap returns the ring capacity.
func (r *Ring) Cap() int { return len(r.data) }

// Full reports whether the ring holds Cap samples.
func (r *Ring) Full() bool { return r.size == len(r.data) }

// CopyTo copies up to len(dst) buffered samples into dst, oldest first,
// and returns the number of samples copied.
func (r *Ring) CopyTo(dst []float64) int {
	n := r.size
	if n > len(dst) {
		n = len(dst)
	}
	for i := range n {
		dst[i] = r.data[(r.head+i)%len(r.data)]
	}
	return n
}

// Values returns a new slice with the buffered samples, oldest first.
func (r *Ring) Values() []float64 {
	out := make([]float64, r.size)
	r.CopyTo(out)
	return out
}

// Reset discards all buffered samples.
func (r *Ring) Reset() {
	r.head = 0
	r.size = 0
}
