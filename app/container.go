package app

import (
	"log/slog"

	"github.com/soocke/frame-pacer-go/config"
	"github.com/soocke/frame-pacer-go/harness"
	"github.com/soocke/frame-pacer-go/ui/model"
	"github.com/soocke/frame-pacer-go/ui/presenter"
	"github.com/soocke/frame-pacer-go/ui/view"
)

// AppContainer assembles the engine stack, models, presenters and the root view.
type AppContainer struct {
	Config     *config.Config
	ConfigPath string
	Logger     *slog.Logger
	Stack      *harness.Stack
	LoopModel  *model.LoopModel
	Session    *model.SessionModel
	RootView   *view.RootView
	UI         view.UI

	// Presenters
	LatencyPresenter   *presenter.LatencyPresenter
	HeavyWorkPresenter *presenter.HeavyWorkPresenter
	SessionPresenter   *presenter.SessionPresenter
	LoopPresenter      *presenter.LoopPresenter
	Loop               *presenter.Loop
}

// BuildContainer constructs all components except the ones that need the Tk
// scheduler (LoopPresenter, Loop); App wires those. No widgets are created here.
func BuildContainer(cfg *config.Config, logger *slog.Logger, cfgPath string) (*AppContainer, error) {
	st, err := harness.NewStack(cfg, logger)
	if err != nil {
		return nil, err
	}
	c := &AppContainer{Config: cfg, ConfigPath: cfgPath, Logger: logger, Stack: st}
	c.LoopModel = &model.LoopModel{}
	c.Session = model.NewSessionModel()
	// View
	c.RootView = view.NewRootView(cfg, cfgPath, logger)
	c.UI = c.RootView
	// Presenters
	c.LatencyPresenter = presenter.NewLatencyPresenter(st.Engine, c.UI)
	st.Engine.SetSink(c.LatencyPresenter)
	c.HeavyWorkPresenter = presenter.NewHeavyWorkPresenter(st.Engine, logger)
	c.SessionPresenter = presenter.NewSessionPresenter(c.Session, c.LoopModel, c.UI)
	return c, nil
}

// Close releases the surface backend.
func (c *AppContainer) Close() {
	if c != nil {
		c.Stack.Close()
	}
}
