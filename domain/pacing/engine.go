package pacing

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/soocke/frame-pacer-go/domain/clock"
	"github.com/soocke/frame-pacer-go/domain/present"
	"github.com/soocke/frame-pacer-go/domain/render"
	"github.com/soocke/frame-pacer-go/domain/surface"
	"github.com/soocke/frame-pacer-go/domain/workload"
)

const statsLogInterval = 5 * time.Second

// EngineConfig is fixed for the life of an Engine.
type EngineConfig struct {
	Variant Variant
	Mode    present.Mode
	// StallThreshold marks acquisitions slower than this as stalls in the
	// stats and logs. It never bounds the wait. Zero disables detection.
	StallThreshold time.Duration
	SampleCapacity int
}

// Sink receives the formatted smoothed wait once per measured frame.
type Sink interface {
	SetLatencyText(text string)
}

// Stats summarises render loop behaviour for instrumentation.
type Stats struct {
	Frames              uint64
	Presented           uint64
	Skipped             [numSkipReasons]uint64
	LatePresentFailures uint64
	Stalls              uint64
	LongestAcquire      time.Duration
	Metrics             FrameMetrics
}

// SkippedTotal sums skips over all reasons.
func (s Stats) SkippedTotal() uint64 {
	var n uint64
	for _, v := range s.Skipped {
		n += v
	}
	return n
}

// Engine drives one frame per host tick and measures the drawable wait.
// DrawFrame must only be called from the render goroutine; Metrics and Stats
// may be read from any goroutine.
type Engine struct {
	cfg      EngineConfig
	provider surface.Provider
	queue    surface.Queue
	res      *render.Resources
	load     *workload.Generator
	clk      clock.Clock
	logger   *slog.Logger
	ctrl     present.Controller
	recorder *Recorder
	sink     Sink

	metrics        atomic.Pointer[FrameMetrics]
	frames         atomic.Uint64
	presented      atomic.Uint64
	skipped        [numSkipReasons]atomic.Uint64
	lateFailures   atomic.Uint64
	stalls         atomic.Uint64
	longestAcquire atomic.Int64
	lastLog        time.Time
}

// NewEngine wires the engine. A nil clock means the wall clock; a nil
// workload generator applies no delays.
func NewEngine(cfg EngineConfig, provider surface.Provider, queue surface.Queue, res *render.Resources, load *workload.Generator, clk clock.Clock, logger *slog.Logger) *Engine {
	if clk == nil {
		clk = clock.Real()
	}
	e := &Engine{
		cfg:      cfg,
		provider: provider,
		queue:    queue,
		res:      res,
		load:     load,
		clk:      clk,
		logger:   logger,
		recorder: NewRecorder(cfg.SampleCapacity),
	}
	if cfg.Mode == present.ScheduledWaitThenPresent {
		e.ctrl = present.NewController(cfg.Mode)
	} else {
		e.ctrl = present.NewImmediate(e.latePresentFailed)
	}
	e.metrics.Store(&FrameMetrics{})
	e.lastLog = clk.Now()
	return e
}

// SetSink attaches the display sink. Call before the render loop starts.
func (e *Engine) SetSink(s Sink) { e.sink = s }

func (e *Engine) Config() EngineConfig { return e.cfg }

// Recorder exposes the raw wait samples of measured frames.
func (e *Engine) Recorder() *Recorder { return e.recorder }

// Workload returns the generator used for baseline and spike delays.
func (e *Engine) Workload() *workload.Generator { return e.load }

// DrawFrame runs exactly one frame. Failures drop the frame silently and are
// only visible through Stats.
func (e *Engine) DrawFrame() {
	e.frames.Add(1)

	// Spikes requested off the render goroutine run here, ahead of t0.
	e.load.ApplyPending()
	if e.cfg.Variant.Measures() {
		e.load.ApplyBaselineLoad()
	}

	t0 := e.clk.Now()
	d := e.provider.AcquireNextDrawable()
	if d == nil {
		e.skip(SkipNoDrawable)
		return
	}
	e.observeAcquire(e.clk.Now().Sub(t0))

	desc := d.RenderPassDescriptor()
	if desc == nil {
		release(d)
		e.skip(SkipNoRenderTarget)
		return
	}
	seq, err := render.EncodeQuad(e.res, desc)
	if err != nil {
		release(d)
		e.skip(SkipEncode)
		return
	}
	if err := e.ctrl.Present(e.queue, seq, d); err != nil {
		release(d)
		e.skip(SkipPresent)
		return
	}
	t1 := e.clk.Now()
	e.presented.Add(1)

	if e.cfg.Variant.Measures() {
		raw := t1.Sub(t0).Seconds()
		prev := e.metrics.Load()
		next := &FrameMetrics{RawWaitSeconds: raw, SmoothedWaitSeconds: Smooth(prev.SmoothedWaitSeconds, raw)}
		e.metrics.Store(next)
		e.recorder.Add(raw)
		if e.sink != nil {
			e.sink.SetLatencyText(FormatLatency(next.SmoothedWaitSeconds))
		}
	}
	e.maybeLogStats(t1)
}

// OnHeavyWorkRequested blocks the calling goroutine for the spike delay. The
// UI host calls it on the render goroutine so it competes with the frame loop.
func (e *Engine) OnHeavyWorkRequested() { e.load.ApplySpike() }

// Metrics returns the latest metrics snapshot.
func (e *Engine) Metrics() FrameMetrics {
	if m := e.metrics.Load(); m != nil {
		return *m
	}
	return FrameMetrics{}
}

// LatencyText formats the current smoothed wait, empty when the variant
// does not measure.
func (e *Engine) LatencyText() string {
	if !e.cfg.Variant.Measures() {
		return ""
	}
	return FormatLatency(e.Metrics().SmoothedWaitSeconds)
}

func (e *Engine) Stats() Stats {
	st := Stats{
		Frames:              e.frames.Load(),
		Presented:           e.presented.Load(),
		LatePresentFailures: e.lateFailures.Load(),
		Stalls:              e.stalls.Load(),
		LongestAcquire:      time.Duration(e.longestAcquire.Load()),
		Metrics:             e.Metrics(),
	}
	for i := range e.skipped {
		st.Skipped[i] = e.skipped[i].Load()
	}
	return st
}

func (e *Engine) skip(r SkipReason) { e.skipped[r].Add(1) }

func (e *Engine) latePresentFailed(err error) {
	e.lateFailures.Add(1)
	if e.logger != nil {
		e.logger.Debug("late present failed", "error", err)
	}
}

func (e *Engine) observeAcquire(d time.Duration) {
	for {
		cur := e.longestAcquire.Load()
		if int64(d) <= cur || e.longestAcquire.CompareAndSwap(cur, int64(d)) {
			break
		}
	}
	if e.cfg.StallThreshold > 0 && d > e.cfg.StallThreshold {
		e.stalls.Add(1)
		if e.logger != nil {
			e.logger.Warn("drawable acquisition stalled", "wait", d, "threshold", e.cfg.StallThreshold)
		}
	}
}

func (e *Engine) maybeLogStats(now time.Time) {
	if e.logger == nil || now.Sub(e.lastLog) < statsLogInterval {
		return
	}
	e.lastLog = now
	st := e.Stats()
	e.logger.Debug("pacing.stats",
		"frames", st.Frames,
		"presented", st.Presented,
		"skipped", st.SkippedTotal(),
		"stalls", st.Stalls,
		"smoothed", FormatLatency(st.Metrics.SmoothedWaitSeconds),
		"longest_acquire", st.LongestAcquire,
	)
}

func release(d surface.Drawable) {
	if r, ok := d.(surface.Releaser); ok {
		r.Release()
	}
}
