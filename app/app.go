package app

import (
	"fmt"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/frame-pacer-go/ui/presenter"
	"github.com/soocke/frame-pacer-go/ui/theme"
)

// idleTick keeps the timers and stats labels alive while frames are paused.
const idleTick = 250 * time.Millisecond

// Host is the Tk host. Tk's event loop stands in for the display refresh
// callback: every frame, button command and label update runs on its goroutine.
type Host struct {
	c      *AppContainer
	width  int
	height int
	sched  *tkScheduler
	exited bool
}

func NewHost(title string, width, height int, c *AppContainer) *Host {
	a := &Host{c: c, width: width, height: height}

	App.WmTitle(title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", width, height))
	return a
}

// Start builds the window, starts drawing and blocks until the window closes.
func (a *Host) Start() {
	c := a.c
	a.sched = newTkScheduler(c.Config.FrameInterval(), idleTick)
	c.LoopPresenter = presenter.NewLoopPresenter(c.LoopModel, a.sched, c.UI)
	c.Loop = presenter.NewLoop(c.Stack.Engine, c.LoopModel, c.LatencyPresenter, c.SessionPresenter, a.sched.Schedule)
	a.sched.tick = func() {
		c.Loop.Tick()
		if c.Stack.BackendClosed() {
			a.exitHandler()
		}
	}

	theme.InitStyles(false)
	c.RootView.Build(c.HeavyWorkPresenter.Request, c.LoopPresenter.Toggle, a.exitHandler)
	c.LoopPresenter.Resume()
	if c.Logger != nil {
		c.Logger.Info("render loop started", "interval", c.Config.FrameInterval())
	}

	App.Wait()
}

func (a *Host) exitHandler() {
	if a.exited {
		return
	}
	a.exited = true
	if a.sched != nil {
		a.sched.Cancel()
	}
	a.c.Close()
	if a.c.Logger != nil {
		st := a.c.Stack.Engine.Stats()
		a.c.Logger.Info("exit",
			"frames", st.Frames,
			"presented", st.Presented,
			"smoothed", a.c.Stack.Engine.LatencyText(),
			"runs", a.c.Session.Runs(),
			"pause_toggles", a.c.LoopModel.Toggles(),
			"last_heavy_work", a.c.HeavyWorkPresenter.LastBlocked(),
		)
	}
	Destroy(App)
}

// tkScheduler arms TclAfter callbacks so ticks stay on Tk's event loop
// goroutine. Running ticks at the frame interval, paused at the idle interval.
type tkScheduler struct {
	frame, idle time.Duration
	running     bool
	afterID     string
	lastTick    time.Time
	tick        func()
}

func newTkScheduler(frame, idle time.Duration) *tkScheduler {
	return &tkScheduler{frame: frame, idle: idle}
}

func (s *tkScheduler) Start() { s.running = true; s.rearm() }

func (s *tkScheduler) Stop() { s.running = false; s.rearm() }

// Schedule arms the next tick, subtracting the time the current tick took.
func (s *tkScheduler) Schedule() {
	interval := s.idle
	if s.running {
		interval = s.frame
	}
	delay := interval
	if !s.lastTick.IsZero() {
		delay = interval - time.Since(s.lastTick)
	}
	if delay < time.Millisecond {
		delay = time.Millisecond
	}
	s.afterID = TclAfter(delay, s.fire)
}

// Cancel drops the pending tick.
func (s *tkScheduler) Cancel() {
	if s.afterID != "" {
		TclAfterCancel(s.afterID)
		s.afterID = ""
	}
}

func (s *tkScheduler) rearm() {
	s.Cancel()
	s.lastTick = time.Time{}
	s.Schedule()
}

func (s *tkScheduler) fire() {
	s.afterID = ""
	s.lastTick = time.Now()
	if s.tick != nil {
		s.tick()
	}
}
