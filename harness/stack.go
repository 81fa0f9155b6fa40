// Package harness assembles the frame pacing engine with a surface backend and
// runs it without a UI.
package harness

import (
	"fmt"
	"log/slog"

	"github.com/soocke/frame-pacer-go/config"
	"github.com/soocke/frame-pacer-go/domain/clock"
	"github.com/soocke/frame-pacer-go/domain/pacing"
	"github.com/soocke/frame-pacer-go/domain/render"
	"github.com/soocke/frame-pacer-go/domain/surface"
	"github.com/soocke/frame-pacer-go/domain/workload"
)

// Backend is a compositor: it hands out drawables and owns the GPU queue.
type Backend interface {
	surface.Provider
	Queue() surface.Queue
	Close()
}

// closer is implemented by backends with a window the user can close.
type closer interface {
	Closed() bool
}

// Stack is everything below the host: backend, resources, workload and engine.
type Stack struct {
	Config    config.Config
	Backend   Backend
	Resources *render.Resources
	Workload  *workload.Generator
	Engine    *pacing.Engine
}

// NewStack validates a copy of cfg and builds the engine on the configured
// backend. The engine never sees later edits to cfg.
func NewStack(cfg *config.Config, logger *slog.Logger) (*Stack, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	c := *cfg
	_ = c.Validate()

	res, err := render.NewResources()
	if err != nil {
		return nil, fmt.Errorf("harness: resources: %w", err)
	}
	backend, err := openBackend(&c, logger)
	if err != nil {
		return nil, err
	}
	clk := clock.Real()
	load := workload.NewGenerator(c.Workload(), clk, logger)
	eng := pacing.NewEngine(c.Engine(), backend, backend.Queue(), res, load, clk, logger)
	if logger != nil {
		logger.Info("engine ready",
			"variant", c.Variant.String(),
			"mode", c.Mode.String(),
			"backend", c.Backend,
			"per_frame_delay", c.PerFrameDelay.D(),
			"spike_delay", c.SpikeDelay.D(),
		)
	}
	return &Stack{Config: c, Backend: backend, Resources: res, Workload: load, Engine: eng}, nil
}

// BackendClosed reports whether the user closed the backend's window.
func (s *Stack) BackendClosed() bool {
	if s == nil {
		return false
	}
	c, ok := s.Backend.(closer)
	return ok && c.Closed()
}

// Close shuts the backend down.
func (s *Stack) Close() {
	if s == nil || s.Backend == nil {
		return
	}
	s.Backend.Close()
}

func openBackend(cfg *config.Config, logger *slog.Logger) (Backend, error) {
	switch cfg.Backend {
	case config.BackendSDL:
		return openSDL(cfg, logger)
	default:
		return surface.NewSimulated(cfg.Sim(), logger), nil
	}
}
