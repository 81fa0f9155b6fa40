package pacing

import (
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/soocke/frame-pacer-go/domain/clock"
	"github.com/soocke/frame-pacer-go/domain/present"
	"github.com/soocke/frame-pacer-go/domain/render"
	"github.com/soocke/frame-pacer-go/domain/surface"
	"github.com/soocke/frame-pacer-go/domain/workload"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

type fakeDrawable struct {
	mu        sync.Mutex
	presented int
	released  int
	noTarget  bool
}

func (d *fakeDrawable) RenderPassDescriptor() *render.RenderPassDescriptor {
	if d.noTarget {
		return nil
	}
	return &render.RenderPassDescriptor{Width: 4, Height: 4}
}

func (d *fakeDrawable) Present() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.presented++
	if d.presented > 1 {
		return surface.ErrAlreadyPresented
	}
	return nil
}

func (d *fakeDrawable) Release() {
	d.mu.Lock()
	d.released++
	d.mu.Unlock()
}

func (d *fakeDrawable) counts() (presented, released int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.presented, d.released
}

// fakeProvider advances the manual clock by the next wait on each acquisition.
type fakeProvider struct {
	clk       *clock.Manual
	waits     []time.Duration
	none      bool
	noTarget  bool
	calls     int
	calledAt  []time.Time
	drawables []*fakeDrawable
}

func (p *fakeProvider) AcquireNextDrawable() surface.Drawable {
	p.calledAt = append(p.calledAt, p.clk.Now())
	if p.calls < len(p.waits) {
		p.clk.Advance(p.waits[p.calls])
	}
	p.calls++
	if p.none {
		return nil
	}
	d := &fakeDrawable{noTarget: p.noTarget}
	p.drawables = append(p.drawables, d)
	return d
}

type fakeHandle struct {
	clk     *clock.Manual
	latency time.Duration
	async   bool
}

func (h *fakeHandle) OnScheduled(fn func()) {
	if h.async {
		go fn()
		return
	}
	fn()
}

func (h *fakeHandle) WaitUntilScheduled() { h.clk.Advance(h.latency) }

type fakeQueue struct {
	clk       *clock.Manual
	latency   time.Duration
	async     bool
	submitted int
}

func (q *fakeQueue) Submit(seq *render.CommandSequence) (surface.Handle, error) {
	q.submitted++
	return &fakeHandle{clk: q.clk, latency: q.latency, async: q.async}, nil
}

type recordingSink struct{ texts []string }

func (s *recordingSink) SetLatencyText(text string) { s.texts = append(s.texts, text) }

func newTestEngine(t *testing.T, cfg EngineConfig, wl workload.Config, waits []time.Duration) (*Engine, *fakeProvider, *fakeQueue, *clock.Manual, *recordingSink) {
	t.Helper()
	clk := clock.NewManual(time.Unix(1000, 0))
	res, err := render.NewResources()
	if err != nil {
		t.Fatalf("resources: %v", err)
	}
	p := &fakeProvider{clk: clk, waits: waits}
	q := &fakeQueue{clk: clk}
	e := NewEngine(cfg, p, q, res, workload.NewGenerator(wl, clk, nil), clk, discardLogger)
	sink := &recordingSink{}
	e.SetSink(sink)
	return e, p, q, clk, sink
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-12 }

func TestSmooth_ConvexCombination(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		prev, raw := r.Float64(), r.Float64()
		got := Smooth(prev, raw)
		if !approx(got, raw*0.1+prev*0.9) {
			t.Fatalf("Smooth(%v,%v)=%v, want %v", prev, raw, got, raw*0.1+prev*0.9)
		}
		if got < 0 || got > math.Max(prev, raw)+1e-15 {
			t.Fatalf("Smooth(%v,%v)=%v escapes [0, max]", prev, raw, got)
		}
	}
}

func TestSmooth_ConvergesMonotonically(t *testing.T) {
	const target = 0.016
	initial := 0.0
	s := initial
	prevErr := math.Abs(initial - target)
	for n := 1; n <= 200; n++ {
		s = Smooth(s, target)
		errN := math.Abs(s - target)
		want := math.Pow(0.9, float64(n)) * math.Abs(initial-target)
		if math.Abs(errN-want) > 1e-12 {
			t.Fatalf("frame %d: error %v, want %v", n, errN, want)
		}
		if errN > prevErr {
			t.Fatalf("frame %d: error grew from %v to %v", n, prevErr, errN)
		}
		prevErr = errN
	}
}

func TestEngine_LowPassSequence(t *testing.T) {
	waits := []time.Duration{time.Millisecond, time.Millisecond, 20 * time.Millisecond, time.Millisecond}
	e, _, _, _, sink := newTestEngine(t, EngineConfig{Variant: VariantB, Mode: present.ScheduledWaitThenPresent}, workload.Config{}, waits)
	want := []float64{0.0001, 0.00019, 0.002171, 0.0020539}
	for i, w := range want {
		e.DrawFrame()
		m := e.Metrics()
		if math.Abs(m.SmoothedWaitSeconds-w) > 1e-9 {
			t.Fatalf("frame %d: smoothed=%v want %v", i, m.SmoothedWaitSeconds, w)
		}
		if math.Abs(m.RawWaitSeconds-waits[i].Seconds()) > 1e-12 {
			t.Fatalf("frame %d: raw=%v want %v", i, m.RawWaitSeconds, waits[i].Seconds())
		}
	}
	if len(sink.texts) != 4 || sink.texts[3] != "2.054 ms" {
		t.Fatalf("unexpected sink output %v", sink.texts)
	}
	if got := e.Recorder().Samples(); len(got) != 0 {
		t.Fatalf("zero capacity recorder should keep nothing, got %v", got)
	}
}

func TestEngine_ScheduledWaitMeasuresFullRoundTrip(t *testing.T) {
	e, p, q, _, _ := newTestEngine(t, EngineConfig{Variant: VariantB, Mode: present.ScheduledWaitThenPresent, SampleCapacity: 8}, workload.Config{}, []time.Duration{time.Millisecond})
	q.latency = 3 * time.Millisecond
	e.DrawFrame()
	raw := e.Metrics().RawWaitSeconds
	if raw < q.latency.Seconds() {
		t.Fatalf("measured %v shorter than scheduling latency %v", raw, q.latency)
	}
	if !approx(raw, 0.004) {
		t.Fatalf("expected acquire+schedule = 4ms, got %v", raw)
	}
	if pr, _ := p.drawables[0].counts(); pr != 1 {
		t.Fatalf("expected one synchronous present, got %d", pr)
	}
	if s := e.Recorder().Samples(); len(s) != 1 || !approx(s[0], 0.004) {
		t.Fatalf("expected recorded sample, got %v", s)
	}
}

func TestEngine_ImmediateReturnsAfterSubmit(t *testing.T) {
	e, p, q, _, _ := newTestEngine(t, EngineConfig{Variant: VariantB, Mode: present.Immediate}, workload.Config{}, []time.Duration{2 * time.Millisecond})
	q.latency = 50 * time.Millisecond
	q.async = true
	e.DrawFrame()
	if !approx(e.Metrics().RawWaitSeconds, 0.002) {
		t.Fatalf("immediate mode must not include scheduling wait, got %v", e.Metrics().RawWaitSeconds)
	}
	deadline := time.Now().Add(time.Second)
	for {
		if pr, _ := p.drawables[0].counts(); pr == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("drawable never presented from the scheduled callback")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestEngine_VariantANeverMeasures(t *testing.T) {
	e, p, q, clk, sink := newTestEngine(t, EngineConfig{Variant: VariantA, Mode: present.Immediate}, workload.Config{PerFrameDelay: 10 * time.Millisecond}, []time.Duration{5 * time.Millisecond, 5 * time.Millisecond})
	start := clk.Now()
	e.DrawFrame()
	e.DrawFrame()
	if m := e.Metrics(); m != (FrameMetrics{}) {
		t.Fatalf("variant A must not touch metrics, got %+v", m)
	}
	if len(sink.texts) != 0 || e.LatencyText() != "" {
		t.Fatalf("variant A must not expose latency, got %v %q", sink.texts, e.LatencyText())
	}
	if el := clk.Now().Sub(start); el != 10*time.Millisecond {
		t.Fatalf("variant A must not apply baseline delay, elapsed %v", el)
	}
	if q.submitted != 2 || len(p.drawables) != 2 {
		t.Fatalf("variant A should still render: submitted=%d", q.submitted)
	}
}

func TestEngine_NoDrawableLeavesMetricsUntouched(t *testing.T) {
	e, p, q, _, sink := newTestEngine(t, EngineConfig{Variant: VariantB, Mode: present.ScheduledWaitThenPresent}, workload.Config{}, []time.Duration{time.Millisecond, time.Millisecond})
	e.DrawFrame()
	before := e.Metrics()
	p.none = true
	e.DrawFrame()
	if after := e.Metrics(); after != before {
		t.Fatalf("metrics changed on dropped frame: %+v -> %+v", before, after)
	}
	if q.submitted != 1 || len(sink.texts) != 1 {
		t.Fatalf("dropped frame must not submit or report: submitted=%d texts=%d", q.submitted, len(sink.texts))
	}
	st := e.Stats()
	if st.Frames != 2 || st.Presented != 1 || st.Skipped[SkipNoDrawable] != 1 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestEngine_NoRenderTargetReleasesDrawable(t *testing.T) {
	e, p, q, _, _ := newTestEngine(t, EngineConfig{Variant: VariantB}, workload.Config{}, nil)
	p.noTarget = true
	e.DrawFrame()
	pr, rel := p.drawables[0].counts()
	if pr != 0 || rel != 1 {
		t.Fatalf("expected drawable released without present, presented=%d released=%d", pr, rel)
	}
	if q.submitted != 0 || e.Stats().Skipped[SkipNoRenderTarget] != 1 {
		t.Fatalf("expected skip without submission, stats=%+v", e.Stats())
	}
	if e.Metrics() != (FrameMetrics{}) {
		t.Fatalf("metrics must stay untouched")
	}
}

func TestEngine_SpikePrecedesTimestamp(t *testing.T) {
	wl := workload.Config{PerFrameDelay: 5 * time.Millisecond, SpikeDelay: 200 * time.Millisecond}
	e, p, _, clk, _ := newTestEngine(t, EngineConfig{Variant: VariantB, Mode: present.ScheduledWaitThenPresent}, wl, []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond})
	e.DrawFrame()
	e.Workload().RequestSpike()
	e.DrawFrame()
	// t0 of frame two is taken after the baseline and the spike.
	gap := p.calledAt[1].Sub(p.calledAt[0])
	want := time.Millisecond + 5*time.Millisecond + 200*time.Millisecond
	if gap != want {
		t.Fatalf("expected %v between acquisitions, got %v", want, gap)
	}
	if !approx(e.Metrics().RawWaitSeconds, 0.001) {
		t.Fatalf("spike must not be part of the measured wait, got %v", e.Metrics().RawWaitSeconds)
	}
	// A direct request from the UI host blocks the caller for the spike.
	before := clk.Now()
	e.OnHeavyWorkRequested()
	if blocked := clk.Now().Sub(before); blocked != 200*time.Millisecond {
		t.Fatalf("heavy work should block 200ms, blocked %v", blocked)
	}
	e.DrawFrame()
	if p.calledAt[2].Sub(before) != 205*time.Millisecond {
		t.Fatalf("third frame t0 should follow the spike and baseline, got %v", p.calledAt[2].Sub(before))
	}
	if _, spikes := e.Workload().Counts(); spikes != 2 {
		t.Fatalf("expected 2 spikes, got %d", spikes)
	}
}

func TestEngine_StallDetectionDoesNotBound(t *testing.T) {
	e, _, _, _, _ := newTestEngine(t, EngineConfig{Variant: VariantB, Mode: present.ScheduledWaitThenPresent, StallThreshold: 50 * time.Millisecond}, workload.Config{}, []time.Duration{10 * time.Millisecond, 400 * time.Millisecond})
	e.DrawFrame()
	e.DrawFrame()
	st := e.Stats()
	if st.Stalls != 1 || st.LongestAcquire != 400*time.Millisecond {
		t.Fatalf("expected one stall of 400ms, got %+v", st)
	}
	if !approx(st.Metrics.RawWaitSeconds, 0.4) {
		t.Fatalf("stalled frame must still be measured in full, got %v", st.Metrics.RawWaitSeconds)
	}
}

func TestFormatLatency(t *testing.T) {
	cases := map[float64]string{
		0:         "0.000 ms",
		0.0021539: "2.154 ms",
		0.016667:  "16.667 ms",
	}
	for in, want := range cases {
		if got := FormatLatency(in); got != want {
			t.Fatalf("FormatLatency(%v)=%q want %q", in, got, want)
		}
	}
}

func TestParseVariant(t *testing.T) {
	if v, err := ParseVariant("a"); err != nil || v != VariantA {
		t.Fatalf("expected A, got %v err=%v", v, err)
	}
	if _, err := ParseVariant("C"); err == nil {
		t.Fatalf("expected error for unknown variant")
	}
}
