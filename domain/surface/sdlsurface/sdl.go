//go:build sdl2

package sdlsurface

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/soocke/frame-pacer-go/domain/render"
	"github.com/soocke/frame-pacer-go/domain/surface"
)

// Config describes the window.
type Config struct {
	Title         string
	Width, Height int
	VSync         bool
}

// Window owns the SDL window and renderer. It is both the drawable provider
// and the command queue: the renderer executes commands on submit, so work is
// scheduled as soon as Submit returns.
type Window struct {
	cfg      Config
	logger   *slog.Logger
	window   *sdl.Window
	renderer *sdl.Renderer
	closed   bool
	inFlight bool

	acquired  atomic.Uint64
	presented atomic.Uint64
	released  atomic.Uint64
}

// Open initialises SDL video and creates the window.
func Open(cfg Config, logger *slog.Logger) (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("sdlsurface: init: %w", err)
	}
	window, err := sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.Width),
		int32(cfg.Height),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("sdlsurface: window: %w", err)
	}
	flags := uint32(sdl.RENDERER_ACCELERATED)
	if cfg.VSync {
		flags |= sdl.RENDERER_PRESENTVSYNC
	}
	renderer, err := sdl.CreateRenderer(window, -1, flags)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("sdlsurface: renderer: %w", err)
	}
	if logger != nil {
		logger.Info("sdl surface opened", "width", cfg.Width, "height", cfg.Height, "vsync", cfg.VSync)
	}
	return &Window{cfg: cfg, logger: logger, window: window, renderer: renderer}, nil
}

// AcquireNextDrawable pumps window events and returns the back buffer. With
// vsync on, the wait for a free buffer happens inside the previous present.
// It returns nil once the window was closed or while a drawable is still out.
func (w *Window) AcquireNextDrawable() surface.Drawable {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch ev := event.(type) {
		case *sdl.QuitEvent:
			w.closed = true
		case *sdl.KeyboardEvent:
			if ev.Type == sdl.KEYDOWN && ev.Keysym.Sym == sdl.K_ESCAPE {
				w.closed = true
			}
		}
	}
	if w.closed || w.inFlight {
		return nil
	}
	w.inFlight = true
	w.acquired.Add(1)
	return &drawable{w: w}
}

// Closed reports whether the user closed the window.
func (w *Window) Closed() bool { return w.closed }

func (w *Window) Queue() surface.Queue { return queue{w} }

// Close destroys the renderer and window and shuts SDL down.
func (w *Window) Close() {
	if w.renderer != nil {
		_ = w.renderer.Destroy()
		w.renderer = nil
	}
	if w.window != nil {
		_ = w.window.Destroy()
		w.window = nil
	}
	sdl.Quit()
	if w.logger != nil {
		w.logger.Debug("sdl surface closed",
			"acquired", w.acquired.Load(),
			"presented", w.presented.Load(),
			"released", w.released.Load(),
		)
	}
}

func (w *Window) execute(seq *render.CommandSequence) error {
	c := seq.Target.ClearColor
	if err := w.renderer.SetDrawColor(unit(c[0]), unit(c[1]), unit(c[2]), unit(c[3])); err != nil {
		return err
	}
	if err := w.renderer.Clear(); err != nil {
		return err
	}
	var verts []render.Vertex
	for _, cmd := range seq.Commands {
		switch cmd.Kind {
		case render.CmdSetVertexBuffer:
			verts = cmd.Vertices
		case render.CmdDraw:
			end := cmd.VertexStart + cmd.VertexCount
			if cmd.VertexStart < 0 || end > len(verts) || cmd.VertexCount == 0 {
				return fmt.Errorf("sdlsurface: draw range %d+%d outside %d vertices", cmd.VertexStart, cmd.VertexCount, len(verts))
			}
			strip := verts[cmd.VertexStart:end]
			x, y, rw, rh := render.PixelBounds(strip, seq.Target.Width, seq.Target.Height)
			v := strip[0]
			if err := w.renderer.SetDrawColor(unit(v.R), unit(v.G), unit(v.B), unit(v.A)); err != nil {
				return err
			}
			rect := sdl.Rect{X: int32(x), Y: int32(y), W: int32(rw), H: int32(rh)}
			if err := w.renderer.FillRect(&rect); err != nil {
				return err
			}
		}
	}
	return nil
}

func unit(f float32) uint8 {
	switch {
	case f <= 0:
		return 0
	case f >= 1:
		return 255
	}
	return uint8(f*255 + 0.5)
}

type drawable struct {
	w     *Window
	state atomic.Int32 // 0 out, 1 presented, 2 released
}

func (d *drawable) RenderPassDescriptor() *render.RenderPassDescriptor {
	if d.state.Load() != 0 || d.w.renderer == nil {
		return nil
	}
	width, height, err := d.w.renderer.GetOutputSize()
	if err != nil {
		return nil
	}
	return &render.RenderPassDescriptor{
		Width:      int(width),
		Height:     int(height),
		ClearColor: [4]float32{0.97, 0.98, 0.98, 1},
	}
}

func (d *drawable) Present() error {
	if !d.state.CompareAndSwap(0, 1) {
		return surface.ErrAlreadyPresented
	}
	d.w.renderer.Present()
	d.w.inFlight = false
	d.w.presented.Add(1)
	return nil
}

func (d *drawable) Release() {
	if d.state.CompareAndSwap(0, 2) {
		d.w.inFlight = false
		d.w.released.Add(1)
	}
}

type queue struct{ w *Window }

func (q queue) Submit(seq *render.CommandSequence) (surface.Handle, error) {
	if seq == nil || len(seq.Commands) == 0 {
		return nil, surface.ErrEmptySubmission
	}
	if q.w.renderer == nil {
		return nil, surface.ErrQueueClosed
	}
	if err := q.w.execute(seq); err != nil {
		return nil, fmt.Errorf("sdlsurface: submit: %w", err)
	}
	return scheduled{}, nil
}

// scheduled is the handle of work the renderer already ran.
type scheduled struct{}

func (scheduled) OnScheduled(fn func()) {
	if fn != nil {
		fn()
	}
}

func (scheduled) WaitUntilScheduled() {}
