package pacing

import "sync"

// Recorder keeps the most recent raw wait samples in a fixed ring.
type Recorder struct {
	mu    sync.Mutex
	buf   []float64
	next  int
	full  bool
	total uint64
}

// NewRecorder returns a recorder holding up to capacity samples. A
// non-positive capacity records nothing.
func NewRecorder(capacity int) *Recorder {
	if capacity < 0 {
		capacity = 0
	}
	return &Recorder{buf: make([]float64, capacity)}
}

func (r *Recorder) Add(v float64) {
	if r == nil || len(r.buf) == 0 {
		return
	}
	r.mu.Lock()
	r.buf[r.next] = v
	r.next++
	if r.next == len(r.buf) {
		r.next = 0
		r.full = true
	}
	r.total++
	r.mu.Unlock()
}

// Samples returns the retained samples, oldest first.
func (r *Recorder) Samples() []float64 {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		out := make([]float64, r.next)
		copy(out, r.buf[:r.next])
		return out
	}
	out := make([]float64, 0, len(r.buf))
	out = append(out, r.buf[r.next:]...)
	return append(out, r.buf[:r.next]...)
}

// Total is the number of samples ever added, retained or not.
func (r *Recorder) Total() uint64 {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}
