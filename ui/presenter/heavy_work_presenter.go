package presenter

import (
	"log/slog"
	"time"
)

// HeavyWork runs the spike delay on the calling goroutine.
type HeavyWork interface {
	OnHeavyWorkRequested()
}

// HeavyWorkPresenter handles the "Heavy work" gesture. The Tk host runs button
// commands on the same goroutine as the frame tick, so the spike blocks the
// render loop exactly like background CPU work would.
type HeavyWorkPresenter struct {
	work   HeavyWork
	logger *slog.Logger
	now    func() time.Time
	last   time.Duration
}

func NewHeavyWorkPresenter(work HeavyWork, logger *slog.Logger) *HeavyWorkPresenter {
	return &HeavyWorkPresenter{work: work, logger: logger, now: time.Now}
}

// Request blocks for the configured spike.
func (p *HeavyWorkPresenter) Request() {
	if p == nil || p.work == nil {
		return
	}
	start := p.now()
	p.work.OnHeavyWorkRequested()
	p.last = p.now().Sub(start)
	if p.logger != nil {
		p.logger.Info("heavy work done", "blocked", p.last)
	}
}

// LastBlocked reports how long the previous request held the loop.
func (p *HeavyWorkPresenter) LastBlocked() time.Duration {
	if p == nil {
		return 0
	}
	return p.last
}
