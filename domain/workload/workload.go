package workload

import (
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/soocke/frame-pacer-go/domain/clock"
)

// Kind selects how a delay occupies the calling goroutine.
type Kind int

const (
	// KindSleep parks the goroutine for the delay.
	KindSleep Kind = iota
	// KindSpin busy-waits for the delay, holding the CPU the whole time.
	KindSpin
)

func (k Kind) String() string {
	switch k {
	case KindSleep:
		return "sleep"
	case KindSpin:
		return "spin"
	default:
		return "unknown"
	}
}

// ParseKind accepts the names produced by Kind.String.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sleep":
		return KindSleep, nil
	case "spin":
		return KindSpin, nil
	}
	return KindSleep, fmt.Errorf("workload: unknown kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Config holds the synthetic delays. It is read-only once a Generator is built.
type Config struct {
	PerFrameDelay time.Duration
	SpikeDelay    time.Duration
	Kind          Kind
}

// Generator injects deterministic delays on the goroutine that calls it.
// Spin delays poll the clock and therefore need a clock that advances on its own.
type Generator struct {
	cfg    Config
	clk    clock.Clock
	logger *slog.Logger

	pending   atomic.Int32
	baselines atomic.Uint64
	spikes    atomic.Uint64
}

// NewGenerator returns a generator using clk (the wall clock when nil).
func NewGenerator(cfg Config, clk clock.Clock, logger *slog.Logger) *Generator {
	if clk == nil {
		clk = clock.Real()
	}
	return &Generator{cfg: cfg, clk: clk, logger: logger}
}

// Config returns the delays the generator was built with.
func (g *Generator) Config() Config { return g.cfg }

// ApplyBaselineLoad blocks for the per-frame delay.
func (g *Generator) ApplyBaselineLoad() {
	if g == nil || g.cfg.PerFrameDelay <= 0 {
		return
	}
	g.block(g.cfg.PerFrameDelay)
	g.baselines.Add(1)
}

// ApplySpike blocks the calling goroutine for the spike delay. Call it from the
// render goroutine: competing with the frame loop is the point.
func (g *Generator) ApplySpike() {
	if g == nil || g.cfg.SpikeDelay <= 0 {
		return
	}
	if g.logger != nil {
		g.logger.Debug("workload spike", "delay", g.cfg.SpikeDelay, "kind", g.cfg.Kind.String())
	}
	g.block(g.cfg.SpikeDelay)
	g.spikes.Add(1)
}

// RequestSpike queues a spike for the render goroutine. Safe from any goroutine.
func (g *Generator) RequestSpike() {
	if g == nil {
		return
	}
	g.pending.Add(1)
}

// ApplyPending runs every queued spike and reports how many ran.
func (g *Generator) ApplyPending() int {
	if g == nil {
		return 0
	}
	n := int(g.pending.Swap(0))
	for i := 0; i < n; i++ {
		g.ApplySpike()
	}
	return n
}

// Counts reports how many baseline loads and spikes have been applied.
func (g *Generator) Counts() (baselines, spikes uint64) {
	if g == nil {
		return 0, 0
	}
	return g.baselines.Load(), g.spikes.Load()
}

func (g *Generator) block(d time.Duration) {
	if g.cfg.Kind == KindSpin {
		deadline := g.clk.Now().Add(d)
		for g.clk.Now().Before(deadline) {
		}
		return
	}
	g.clk.Sleep(d)
}
