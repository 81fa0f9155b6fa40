package surface

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/soocke/frame-pacer-go/domain/render"
)

// SimConfig shapes the simulated compositor.
type SimConfig struct {
	DrawableCount   int           // surfaces owned by the compositor
	RefreshInterval time.Duration // display refresh period
	HoldRefreshes   int           // refreshes a presented surface stays on screen
	ScheduleLatency time.Duration // GPU driver time to accept a submission
	Width, Height   int
}

// DefaultSimConfig models a triple-buffered 60 Hz display.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		DrawableCount:   3,
		RefreshInterval: time.Second / 60,
		HoldRefreshes:   1,
		ScheduleLatency: 500 * time.Microsecond,
		Width:           390,
		Height:          844,
	}
}

// SimStats counts compositor activity.
type SimStats struct {
	Acquired  uint64
	Presented uint64
	Released  uint64
	Submitted uint64
	Scheduled uint64
	Free      int
}

// Simulated is an in-process stand-in for the host compositor and GPU queue.
// Presented surfaces come back to the pool on a refresh boundary, so
// acquisition blocks once the render loop runs ahead of the display.
type Simulated struct {
	cfg    SimConfig
	logger *slog.Logger
	start  time.Time

	free chan *simDrawable
	done chan struct{}
	work chan *simHandle

	closeOnce sync.Once

	acquired  atomic.Uint64
	presented atomic.Uint64
	released  atomic.Uint64
	submitted atomic.Uint64
	scheduled atomic.Uint64
}

// NewSimulated starts the simulated compositor and its queue goroutine.
func NewSimulated(cfg SimConfig, logger *slog.Logger) *Simulated {
	def := DefaultSimConfig()
	if cfg.DrawableCount <= 0 {
		cfg.DrawableCount = def.DrawableCount
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = def.RefreshInterval
	}
	if cfg.HoldRefreshes < 0 {
		cfg.HoldRefreshes = 0
	}
	if cfg.ScheduleLatency < 0 {
		cfg.ScheduleLatency = 0
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = def.Width, def.Height
	}
	s := &Simulated{
		cfg:    cfg,
		logger: logger,
		start:  time.Now(),
		free:   make(chan *simDrawable, cfg.DrawableCount),
		done:   make(chan struct{}),
		work:   make(chan *simHandle, 64),
	}
	for i := 0; i < cfg.DrawableCount; i++ {
		s.free <- &simDrawable{sim: s, id: i}
	}
	go s.queueLoop()
	return s
}

// Config returns the effective configuration.
func (s *Simulated) Config() SimConfig { return s.cfg }

// AcquireNextDrawable blocks until the compositor frees a surface. It returns
// nil once the simulator is closed.
func (s *Simulated) AcquireNextDrawable() Drawable {
	select {
	case <-s.done:
		return nil
	default:
	}
	select {
	case d := <-s.free:
		d.state.Store(stateAcquired)
		s.acquired.Add(1)
		return d
	case <-s.done:
		return nil
	}
}

// Queue returns the simulated GPU queue.
func (s *Simulated) Queue() Queue { return simQueue{s} }

// Close stops the queue goroutine and unblocks pending acquisitions.
func (s *Simulated) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.logger != nil {
			st := s.Stats()
			s.logger.Debug("surface simulator closed",
				"acquired", st.Acquired,
				"presented", st.Presented,
				"released", st.Released,
				"submitted", st.Submitted,
			)
		}
	})
}

func (s *Simulated) Stats() SimStats {
	return SimStats{
		Acquired:  s.acquired.Load(),
		Presented: s.presented.Load(),
		Released:  s.released.Load(),
		Submitted: s.submitted.Load(),
		Scheduled: s.scheduled.Load(),
		Free:      len(s.free),
	}
}

// untilReturn is the delay before a surface presented at now is free again:
// the next refresh boundary plus the time it stays on screen.
func (s *Simulated) untilReturn(now time.Time) time.Duration {
	iv := s.cfg.RefreshInterval
	elapsed := now.Sub(s.start)
	next := (elapsed/iv + 1) * iv
	return next - elapsed + time.Duration(s.cfg.HoldRefreshes)*iv
}

func (s *Simulated) recycle(d *simDrawable) {
	d.state.Store(stateFree)
	select {
	case s.free <- d:
	case <-s.done:
	}
}

func (s *Simulated) queueLoop() {
	for {
		select {
		case h := <-s.work:
			if s.cfg.ScheduleLatency > 0 {
				time.Sleep(s.cfg.ScheduleLatency)
			}
			s.scheduled.Add(1)
			h.markScheduled()
		case <-s.done:
			return
		}
	}
}

const (
	stateFree int32 = iota
	stateAcquired
	statePresented
)

type simDrawable struct {
	sim   *Simulated
	id    int
	state atomic.Int32
}

func (d *simDrawable) RenderPassDescriptor() *render.RenderPassDescriptor {
	if d.state.Load() != stateAcquired {
		return nil
	}
	return &render.RenderPassDescriptor{
		Width:      d.sim.cfg.Width,
		Height:     d.sim.cfg.Height,
		ClearColor: [4]float32{0.97, 0.98, 0.98, 1},
	}
}

func (d *simDrawable) Present() error {
	if !d.state.CompareAndSwap(stateAcquired, statePresented) {
		return ErrAlreadyPresented
	}
	d.sim.presented.Add(1)
	time.AfterFunc(d.sim.untilReturn(time.Now()), func() { d.sim.recycle(d) })
	return nil
}

func (d *simDrawable) Release() {
	if !d.state.CompareAndSwap(stateAcquired, stateFree) {
		return
	}
	d.sim.released.Add(1)
	go d.sim.recycle(d)
}

type simQueue struct{ s *Simulated }

func (q simQueue) Submit(seq *render.CommandSequence) (Handle, error) {
	if seq == nil || len(seq.Commands) == 0 {
		return nil, ErrEmptySubmission
	}
	h := newSimHandle()
	select {
	case <-q.s.done:
		return nil, ErrQueueClosed
	default:
	}
	select {
	case q.s.work <- h:
	case <-q.s.done:
		return nil, ErrQueueClosed
	}
	q.s.submitted.Add(1)
	return h, nil
}

type simHandle struct {
	mu        sync.Mutex
	scheduled bool
	ch        chan struct{}
	callbacks []func()
}

func newSimHandle() *simHandle { return &simHandle{ch: make(chan struct{})} }

func (h *simHandle) OnScheduled(fn func()) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	if h.scheduled {
		h.mu.Unlock()
		go fn()
		return
	}
	h.callbacks = append(h.callbacks, fn)
	h.mu.Unlock()
}

func (h *simHandle) WaitUntilScheduled() { <-h.ch }

func (h *simHandle) markScheduled() {
	h.mu.Lock()
	h.scheduled = true
	cbs := h.callbacks
	h.callbacks = nil
	close(h.ch)
	h.mu.Unlock()
	for _, fn := range cbs {
		fn()
	}
}
