package presenter

// LoopModel provides running state access.
type LoopModel interface {
	Running() bool
	SetRunning(bool)
}

// LifecycleContract narrows what the presenter needs from the frame scheduler.
type LifecycleContract interface {
	Start()
	Stop()
}

// LoopView updates UI elements affected by pausing the loop.
type LoopView interface {
	SetRunningLabel(running bool)
}

// LoopPresenter owns presentation logic for pausing and resuming the render loop.
type LoopPresenter struct {
	model    LoopModel
	schedule LifecycleContract
	view     LoopView
}

func NewLoopPresenter(model LoopModel, schedule LifecycleContract, view LoopView) *LoopPresenter {
	return &LoopPresenter{model: model, schedule: schedule, view: view}
}

// Resume starts the frame scheduler. Idempotent.
func (p *LoopPresenter) Resume() {
	if p == nil || p.model == nil || p.schedule == nil || p.view == nil {
		return
	}
	if p.model.Running() {
		return
	}
	p.model.SetRunning(true)
	p.schedule.Start()
	p.view.SetRunningLabel(true)
}

// Pause stops the frame scheduler. Metrics keep their last values. Idempotent.
func (p *LoopPresenter) Pause() {
	if p == nil || p.model == nil || p.schedule == nil || p.view == nil {
		return
	}
	if !p.model.Running() {
		return
	}
	p.schedule.Stop()
	p.model.SetRunning(false)
	p.view.SetRunningLabel(false)
}

// Toggle flips running state delegating to Resume/Pause.
func (p *LoopPresenter) Toggle() {
	if p == nil || p.model == nil {
		return
	}
	if p.model.Running() {
		p.Pause()
		return
	}
	p.Resume()
}
