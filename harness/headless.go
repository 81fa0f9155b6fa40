package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/soocke/frame-pacer-go/domain/clock"
	"github.com/soocke/frame-pacer-go/domain/pacing"
	"github.com/soocke/frame-pacer-go/driver"
	"github.com/soocke/frame-pacer-go/report"
)

// Result summarises a headless run.
type Result struct {
	Ticks uint64
	Stats pacing.Stats
}

// RunHeadless drives the engine from a fixed-rate ticker until ctx is done,
// the configured frame count is reached or the backend window closes. A
// scripted spike is requested at SpikeAtFrame (1-based, 0 disables). The
// report is written to out.
func RunHeadless(ctx context.Context, st *Stack, out io.Writer, logger *slog.Logger) (Result, error) {
	if st == nil || st.Engine == nil {
		return Result{}, errors.New("harness: nil stack")
	}
	cfg := st.Config
	spikeAt := uint64(cfg.SpikeAtFrame)
	var t *driver.Ticker
	t = driver.NewTicker(cfg.FrameInterval(), clock.Real(), logger, func(frame uint64) {
		if spikeAt > 0 && frame == spikeAt {
			st.Workload.RequestSpike()
		}
		st.Engine.DrawFrame()
		if st.BackendClosed() {
			t.Stop()
		}
	})
	ticks := t.Run(ctx, uint64(cfg.Frames))
	res := Result{Ticks: ticks, Stats: st.Engine.Stats()}
	if logger != nil {
		logger.Info("headless run finished",
			"ticks", ticks,
			"presented", res.Stats.Presented,
			"skipped", res.Stats.SkippedTotal(),
			"stalls", res.Stats.Stalls,
			"resyncs", t.Resyncs(),
		)
	}
	if out == nil {
		return res, nil
	}
	return res, WriteReport(out, st.Engine)
}

// WriteReport prints the counters, the smoothed wait and the raw wait histogram.
func WriteReport(out io.Writer, eng *pacing.Engine) error {
	p := report.NewPrinter()
	cfg := eng.Config()
	s := eng.Stats()
	if _, err := p.Fprintf(out, "variant=%s mode=%s frames=%d presented=%d late_present_failures=%d stalls=%d longest_acquire=%v\n",
		cfg.Variant, cfg.Mode, s.Frames, s.Presented, s.LatePresentFailures, s.Stalls, s.LongestAcquire); err != nil {
		return err
	}
	for r, n := range s.Skipped {
		if n > 0 {
			if _, err := p.Fprintf(out, "skipped %s=%d\n", pacing.SkipReason(r), n); err != nil {
				return err
			}
		}
	}
	if !cfg.Variant.Measures() {
		_, err := fmt.Fprintln(out, "drawable wait not measured in variant A")
		return err
	}
	if _, err := fmt.Fprintf(out, "smoothed wait %s\n", eng.LatencyText()); err != nil {
		return err
	}
	err := report.Histogram(out, eng.Recorder().Samples(), p)
	if errors.Is(err, report.ErrNoSamples) {
		_, err = fmt.Fprintln(out, "no frames presented")
	}
	return err
}
