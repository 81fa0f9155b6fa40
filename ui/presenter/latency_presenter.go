package presenter

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/soocke/frame-pacer-go/domain/pacing"
)

// StatsSource provides the engine counters shown next to the latency.
type StatsSource interface {
	Stats() pacing.Stats
}

// LatencyView shows the formatted wait and a stats line.
type LatencyView interface {
	SetLatencyText(text string)
	SetStatsText(text string)
}

// LatencyPresenter is the engine's display sink. The render loop hands it the
// formatted wait through SetLatencyText; Tick copies the newest text to the
// view on the UI goroutine.
type LatencyPresenter struct {
	src     StatsSource
	view    LatencyView
	pending atomic.Pointer[string]
	shown   string
	stats   string
}

func NewLatencyPresenter(src StatsSource, view LatencyView) *LatencyPresenter {
	return &LatencyPresenter{src: src, view: view}
}

// SetLatencyText stores the newest text. Safe from any goroutine.
func (p *LatencyPresenter) SetLatencyText(text string) {
	if p == nil {
		return
	}
	p.pending.Store(&text)
}

// Latest returns the most recent text handed over by the engine.
func (p *LatencyPresenter) Latest() string {
	if p == nil {
		return ""
	}
	if t := p.pending.Load(); t != nil {
		return *t
	}
	return ""
}

// Tick pushes changed values to the view.
func (p *LatencyPresenter) Tick(now time.Time) {
	if p == nil || p.view == nil {
		return
	}
	if t := p.Latest(); t != "" && t != p.shown {
		p.shown = t
		p.view.SetLatencyText(t)
	}
	if p.src == nil {
		return
	}
	if s := FormatStats(p.src.Stats()); s != p.stats {
		p.stats = s
		p.view.SetStatsText(s)
	}
}

// FormatStats renders the frame counters for the stats label.
func FormatStats(st pacing.Stats) string {
	return fmt.Sprintf("frames %d  presented %d  skipped %d  stalls %d",
		st.Frames, st.Presented, st.SkippedTotal(), st.Stalls)
}

var _ pacing.Sink = (*LatencyPresenter)(nil)
