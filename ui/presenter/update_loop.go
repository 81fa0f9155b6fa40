package presenter

import "time"

// FrameRenderer draws one frame on the calling goroutine.
type FrameRenderer interface {
	DrawFrame()
}

// Loop aggregates feature presenters and drives the per-tick frame.
//
// Each Tick draws a frame when the loop is running, refreshes the
// presenters and invokes a scheduler callback to arm the next tick.
// The zero value is usable (methods are nil-safe).
type Loop struct {
	Frame    FrameRenderer
	Running  RunningModel
	Latency  *LatencyPresenter
	Session  *SessionPresenter
	Schedule func()
	now      func() time.Time
}

func NewLoop(frame FrameRenderer, running RunningModel, latency *LatencyPresenter, sess *SessionPresenter, schedule func()) *Loop {
	return &Loop{Frame: frame, Running: running, Latency: latency, Session: sess, Schedule: schedule, now: time.Now}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	if l.Frame != nil && (l.Running == nil || l.Running.Running()) {
		l.Frame.DrawFrame()
	}
	now := time.Now()
	if l.now != nil {
		now = l.now()
	}
	if l.Latency != nil {
		l.Latency.Tick(now)
	}
	if l.Session != nil {
		l.Session.Tick(now)
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
