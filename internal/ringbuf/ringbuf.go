// Package ringbuf provides a fixed-capacity ring of feature rows. Pushing into
// a full ring evicts the oldest row, which makes it a sliding window over the
// most recent rows.
package ringbuf

// Ring holds up to Cap rows, oldest first. It is not safe for concurrent use.
type Ring struct {
	buf   [][]float64
	head  int // index of the oldest row
	count int
}

// New creates an empty ring. Minimum capacity is 1.
func New(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{buf: make([][]float64, capacity)}
}

// FromRows creates a full ring holding copies of rows.
func FromRows(rows [][]float64) *Ring {
	r := New(len(rows))
	for _, row := range rows {
		r.Push(row)
	}
	return r
}

// Push appends a copy of row as the newest entry. When the ring is full the
// oldest row is evicted and returned with ok=true.
func (r *Ring) Push(row []float64) (evicted []float64, ok bool) {
	cp := make([]float64, len(row))
	copy(cp, row)

	if r.count < len(r.buf) {
		r.buf[(r.head+r.count)%len(r.buf)] = cp
		r.count++
		return nil, false
	}
	evicted = r.buf[r.head]
	r.buf[r.head] = cp
	r.head = (r.head + 1) % len(r.buf)
	return evicted, true
}

// At returns the i-th row counting from the oldest.
func (r *Ring) At(i int) []float64 {
	if i < 0 || i >= r.count {
		panic("ringbuf: index out of range")
	}
	return r.buf[(r.head+i)%len(r.buf)]
}

// Newest returns the most recently pushed row.
func (r *Ring) Newest() ([]float64, bool) {
	if r.count == 0 {
		return nil, false
	}
	return r.At(r.count - 1), true
}

// Rows returns a copy of the contents, oldest first.
func (r *Ring) Rows() [][]float64 {
	out := make([][]float64, r.count)
	for i := range out {
		row := r.At(i)
		cp := make([]float64, len(row))
		copy(cp, row)
		out[i] = cp
	}
	return out
}

// Len returns the current number of rows.
func (r *Ring) Len() int { return r.count }

// Cap returns the ring capacity.
func (r *Ring) Cap() int { return len(r.buf) }

// Full reports whether the next Push will evict.
func (r *Ring) Full() bool { return r.count == len(r.buf) }
