package model

import (
	"sync/atomic"
)

// LoopModel tracks whether the render loop is running. The zero value is paused and usable.
// Concurrency-safe via atomic Bool because UI callbacks and the frame tick may race.
type LoopModel struct {
	running atomic.Bool
	toggles atomic.Uint64
}

// Running reports whether frames are being drawn.
func (m *LoopModel) Running() bool {
	if m == nil {
		return false
	}
	return m.running.Load()
}

// SetRunning stores the running flag, counting actual changes.
func (m *LoopModel) SetRunning(b bool) {
	if m == nil {
		return
	}
	if m.running.Swap(b) != b {
		m.toggles.Add(1)
	}
}

// Toggles returns how many times the loop changed state.
func (m *LoopModel) Toggles() uint64 {
	if m == nil {
		return 0
	}
	return m.toggles.Load()
}
