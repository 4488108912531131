// Package history keeps the rolling velocity trace shown on the charts.
package history

// DefaultCapacity holds ten seconds at 60 ticks per second.
const DefaultCapacity = 600

// Ring is a fixed-capacity buffer of float64 samples. Once full, each Push
// overwrites the oldest sample.
type Ring struct {
	data []float64
	pos  int
	full bool
}

func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{data: make([]float64, capacity)}
}

func (r *Ring) Push(v float64) {
	r.data[r.pos] = v
	r.pos++
	if r.pos == len(r.data) {
		r.pos = 0
		r.full = true
	}
}

func (r *Ring) Len() int {
	if r.full {
		return len(r.data)
	}
	return r.pos
}

func (r *Ring) Cap() int { return len(r.data) }

// Slice returns the samples oldest first.
func (r *Ring) Slice() []float64 {
	return r.Last(r.Len())
}

// Last returns the newest n samples, oldest first. n is clipped to Len.
func (r *Ring) Last(n int) []float64 {
	size := r.Len()
	if n > size {
		n = size
	}
	if n <= 0 {
		return []float64{}
	}
	out := make([]float64, n)
	start := r.pos - n
	if start >= 0 {
		copy(out, r.data[start:r.pos])
		return out
	}
	head := copy(out, r.data[len(r.data)+start:])
	copy(out[head:], r.data[:r.pos])
	return out
}

// Latest returns the newest sample.
func (r *Ring) Latest() (float64, bool) {
	if r.Len() == 0 {
		return 0, false
	}
	i := r.pos - 1
	if i < 0 {
		i = len(r.data) - 1
	}
	return r.data[i], true
}

func (r *Ring) Reset() {
	r.pos = 0
	r.full = false
	for i := range r.data {
		r.data[i] = 0
	}
}
