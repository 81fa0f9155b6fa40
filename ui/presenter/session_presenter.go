package presenter

import (
	"time"

	"github.com/soocke/frame-pacer-go/ui/model"
)

// RunningModel reports whether the render loop is running.
type RunningModel interface{ Running() bool }

// SessionView displays formatted session and total durations.
type SessionView interface {
	SetSession(session, total time.Duration)
}

// SessionPresenter forwards run and total durations from the model to the view.
type SessionPresenter struct {
	sess *model.SessionModel
	loop RunningModel
	view SessionView
}

// NewSessionPresenter returns a new SessionPresenter.
func NewSessionPresenter(sess *model.SessionModel, loop RunningModel, view SessionView) *SessionPresenter {
	return &SessionPresenter{sess: sess, loop: loop, view: view}
}

// Tick updates the presenter: advance the session model and push values to the view.
func (p *SessionPresenter) Tick(now time.Time) {
	if p == nil || p.sess == nil || p.loop == nil || p.view == nil {
		return
	}
	p.sess.OnTick(p.loop.Running(), now)
	s, t := p.sess.Values()
	p.view.SetSession(s, t)
}
