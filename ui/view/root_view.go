package view

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/soocke/frame-pacer-go/config"
	"github.com/soocke/frame-pacer-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// RootView composes the top-level layout: the latency overlay, run controls
// and the config panel. Presenters talk to it through small interfaces.
type RootView struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	// Subviews
	Session     SessionStats
	ConfigPanel ConfigPanel

	// Widgets
	LatencyLabel *TLabelWidget
	ModeLabel    *TLabelWidget
	StatsLabel   *TLabelWidget
	pauseBtn     *TButtonWidget
}

// UI abstracts the subset of view operations needed by presenters, enabling decoupling
// from the concrete RootView implementation.
type UI interface {
	SetLatencyText(text string)
	SetStatsText(text string)
	SetRunningLabel(running bool)
	SetSession(session, total time.Duration)
}

var _ UI = (*RootView)(nil)

func NewRootView(cfg *config.Config, cfgPath string, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, cfgPath: cfgPath, logger: logger}
}

// Build constructs the layout. Handlers are invoked on user actions from the
// Tk event loop, the same goroutine that draws frames.
func (rv *RootView) Build(onHeavyWork func(), onTogglePause func(), onExit func()) {
	if rv == nil {
		return
	}
	// Row 0: latency overlay and mode
	rv.LatencyLabel = TLabel(Txt(rv.initialLatency()), Style(theme.StyleLatencyLabel), Width(14))
	Grid(rv.LatencyLabel, Row(0), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.4m"))
	rv.ModeLabel = TLabel(Txt(rv.modeText()), Style(theme.StyleStateLabel))
	Grid(rv.ModeLabel, Row(0), Column(2), Sticky("we"), Padx("0.4m"), Pady("0.4m"))

	btnFrame := Frame()
	Grid(btnFrame, Row(0), Column(3), Rowspan(3), Sticky("ne"), Padx("0.3m"), Pady("0.3m"))
	heavyBtn := TButton(Txt("Heavy work"), Style(theme.StyleDangerButton), Command(onHeavyWork))
	Grid(heavyBtn, In(btnFrame), Row(0), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	rv.pauseBtn = TButton(Txt("Pause"), Style(theme.StylePrimaryButton), Command(onTogglePause))
	Grid(rv.pauseBtn, In(btnFrame), Row(1), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	exitBtn := TButton(Txt("Exit"), Command(onExit))
	Grid(exitBtn, In(btnFrame), Row(2), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))

	// Row 1: counters, row 2: run timers
	rv.StatsLabel = TLabel(Txt(""), Style(theme.StyleAccentLabel), Anchor("w"))
	Grid(rv.StatsLabel, Row(1), Column(0), Columnspan(3), Sticky("we"), Padx("0.4m"), Pady("0.2m"))
	rv.Session = NewSessionStats(nil, 2, 0)

	// Config panel rows
	rv.ConfigPanel = NewConfigPanel(rv.cfg, rv.cfgPath, rv.logger)
	rv.ConfigPanel.Build(3)
	rv.ConfigPanel.SetEditable(false)
}

func (rv *RootView) initialLatency() string {
	if rv.cfg != nil && !rv.cfg.Variant.Measures() {
		return "n/a"
	}
	return "--"
}

func (rv *RootView) modeText() string {
	if rv.cfg == nil {
		return ""
	}
	return fmt.Sprintf("Variant %s  %s", rv.cfg.Variant, rv.cfg.Mode)
}

// SetLatencyText updates the overlay with the formatted smoothed wait.
func (rv *RootView) SetLatencyText(text string) {
	if rv != nil && rv.LatencyLabel != nil {
		rv.LatencyLabel.Configure(Txt(text))
	}
}

func (rv *RootView) SetStatsText(text string) {
	if rv != nil && rv.StatsLabel != nil {
		rv.StatsLabel.Configure(Txt(text))
	}
}

// SetRunningLabel flips the pause button caption and only allows config
// edits while paused.
func (rv *RootView) SetRunningLabel(running bool) {
	if rv == nil {
		return
	}
	if rv.pauseBtn != nil {
		if running {
			rv.pauseBtn.Configure(Txt("Pause"))
		} else {
			rv.pauseBtn.Configure(Txt("Resume"))
		}
	}
	if rv.ConfigPanel != nil {
		rv.ConfigPanel.SetEditable(!running)
	}
}

// SetSession updates both run and total durations.
func (rv *RootView) SetSession(session, total time.Duration) {
	if rv == nil || rv.Session == nil {
		return
	}
	rv.Session.SetSession(session)
	rv.Session.SetTotal(total)
}
