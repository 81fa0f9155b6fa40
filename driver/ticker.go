package driver

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/soocke/frame-pacer-go/domain/clock"
)

// FrameFunc is the per-frame entry point called once per tick.
type FrameFunc func(frame uint64)

// Ticker stands in for the display refresh driver on hosts without one. It
// calls the frame function at a fixed rate from a single goroutine and
// never overlaps two frames.
type Ticker struct {
	interval time.Duration
	clk      clock.Clock
	logger   *slog.Logger
	frame    FrameFunc

	running atomic.Bool
	ticks   atomic.Uint64
	resyncs atomic.Uint64
	next    time.Time
}

// NewTicker returns a ticker calling fn every interval.
func NewTicker(interval time.Duration, clk clock.Clock, logger *slog.Logger, fn FrameFunc) *Ticker {
	if clk == nil {
		clk = clock.Real()
	}
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &Ticker{interval: interval, clk: clk, logger: logger, frame: fn}
}

// Run ticks until ctx is done or frames ticks have run (0 means unbounded).
func (t *Ticker) Run(ctx context.Context, frames uint64) uint64 {
	if !t.running.CompareAndSwap(false, true) {
		return 0
	}
	defer t.running.Store(false)
	var n uint64
	for frames == 0 || n < frames {
		if ctx.Err() != nil || !t.running.Load() {
			break
		}
		t.wait()
		if t.frame != nil {
			t.frame(t.ticks.Add(1))
		}
		n++
	}
	if t.logger != nil {
		t.logger.Debug("ticker stopped", "ticks", n, "resyncs", t.resyncs.Load())
	}
	return n
}

// Stop ends Run after the current frame.
func (t *Ticker) Stop() { t.running.Store(false) }

func (t *Ticker) Running() bool { return t.running.Load() }

// Resyncs counts how often the schedule was reset after falling behind.
func (t *Ticker) Resyncs() uint64 { return t.resyncs.Load() }

// wait sleeps until the next scheduled tick. A tick that is more than one
// interval late resets the schedule instead of bursting to catch up.
func (t *Ticker) wait() {
	now := t.clk.Now()
	if t.next.IsZero() {
		t.next = now.Add(t.interval)
		return
	}
	if sleep := t.next.Sub(now); sleep > 0 {
		t.clk.Sleep(sleep)
	}
	t.next = t.next.Add(t.interval)
	if lag := t.clk.Now().Sub(t.next); lag > t.interval {
		t.next = t.clk.Now().Add(t.interval)
		t.resyncs.Add(1)
	}
}
