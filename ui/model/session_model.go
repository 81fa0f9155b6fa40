package model

import (
	"time"
)

// SessionModel tracks how long the current measurement run has been drawing
// frames and the accumulated running time across pauses.
// It is decoupled from the UI; presenters should poll Values() and update views.
// The zero value is ready to use.
type SessionModel struct {
	active              bool
	runStart            time.Time
	lastSessionDuration time.Duration
	accumulated         time.Duration
	runs                int
}

// NewSessionModel returns a pointer to a ready-to-use SessionModel.
func NewSessionModel() *SessionModel { return &SessionModel{} }

// OnTick updates the model using the current loop state and timestamp.
// Call periodically (for example, from a presenter tick).
func (m *SessionModel) OnTick(running bool, now time.Time) {
	if m == nil {
		return
	}
	if running {
		if !m.active { // paused -> running
			m.active = true
			m.runStart = now
			m.lastSessionDuration = 0
			m.runs++
		}
		m.lastSessionDuration = now.Sub(m.runStart)
	} else if m.active { // running -> paused
		m.lastSessionDuration = now.Sub(m.runStart)
		m.accumulated += m.lastSessionDuration
		m.active = false
	}
}

// Values returns the current session duration and the total accumulated duration.
// The total includes the ongoing session when active.
func (m *SessionModel) Values() (session, total time.Duration) {
	if m == nil {
		return 0, 0
	}
	session = m.lastSessionDuration
	total = m.accumulated
	if m.active {
		total += session
	}
	return
}

// Runs is the number of times the loop was started.
func (m *SessionModel) Runs() int {
	if m == nil {
		return 0
	}
	return m.runs
}
