package clock

import (
	"sync"
	"time"
)

// Clock is the time source used by the render loop and its collaborators.
// Sleep blocks the calling goroutine.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// Real returns the wall clock.
func Real() Clock { return realClock{} }

// Manual is a clock that only moves when Sleep or Advance is called.
// The zero value starts at the Unix epoch and is usable.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual returns a manual clock starting at start.
func NewManual(start time.Time) *Manual { return &Manual{now: start} }

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.now.IsZero() {
		m.now = time.Unix(0, 0)
	}
	return m.now
}

// Sleep advances the clock by d without blocking.
func (m *Manual) Sleep(d time.Duration) { m.Advance(d) }

// Advance moves the clock forward. Negative durations are ignored.
func (m *Manual) Advance(d time.Duration) {
	if d <= 0 {
		return
	}
	m.mu.Lock()
	if m.now.IsZero() {
		m.now = time.Unix(0, 0)
	}
	m.now = m.now.Add(d)
	m.mu.Unlock()
}
