package view

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/soocke/frame-pacer-go/config"
	"github.com/soocke/frame-pacer-go/domain/present"
	"github.com/soocke/frame-pacer-go/domain/workload"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ConfigPanel edits the persisted configuration. The running engine keeps the
// values it was built with; saved changes apply on the next launch.
type ConfigPanel interface {
	Build(startRow int) (endRow int) // constructs widgets starting at startRow, returns next free row
	SetEditable(enabled bool)
	ApplyChanges() // parses widget text into underlying config and persists
}

type configPanel struct {
	cfg      *config.Config
	cfgPath  string
	logger   *slog.Logger
	applyBtn *ButtonWidget
	widgets  map[string]*TextWidget // keyed by internal field id
}

// NewConfigPanel creates the view bound to cfg.
func NewConfigPanel(cfg *config.Config, cfgPath string, logger *slog.Logger) ConfigPanel {
	return &configPanel{cfg: cfg, cfgPath: cfgPath, logger: logger, widgets: make(map[string]*TextWidget)}
}

func (v *configPanel) Build(startRow int) (row int) {
	c := v.cfg
	row = startRow
	makeRow := func(id, label, value string) {
		lbl := Label(Txt(label), Anchor("w"))
		Grid(lbl, Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := Text(Height(1), Width(16))
		Grid(w, Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Delete("1.0", END)
		w.Insert("1.0", value)
		v.widgets[id] = w
		row++
	}
	makeRow("mode", "Mode (immediate/scheduled-wait)", c.Mode.String())
	makeRow("perFrameDelay", "Per-frame Delay", c.PerFrameDelay.D().String())
	makeRow("spikeDelay", "Spike Delay", c.SpikeDelay.D().String())
	makeRow("workloadKind", "Workload (sleep/spin)", c.WorkloadKind.String())
	makeRow("targetFPS", "Target FPS", fmt.Sprintf("%d", c.TargetFPS))
	makeRow("stallThreshold", "Stall Threshold", c.StallThreshold.D().String())
	makeRow("drawableCount", "Drawable Count", fmt.Sprintf("%d", c.DrawableCount))
	makeRow("scheduleLatency", "Schedule Latency", c.ScheduleLatency.D().String())
	v.applyBtn = Button(Txt("Save For Next Run"), Command(func() { v.ApplyChanges() }))
	Grid(v.applyBtn, Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	return row
}

func (v *configPanel) SetEditable(enabled bool) {
	state := "disabled"
	if enabled {
		state = "normal"
	}
	for _, w := range v.widgets {
		if w != nil {
			w.Configure(State(state))
		}
	}
	if v.applyBtn != nil {
		v.applyBtn.Configure(State(state))
	}
}

func (v *configPanel) text(w *TextWidget) string {
	if w == nil {
		return ""
	}
	parts := w.Get("1.0", END)
	return strings.Join(parts, "")
}

func (v *configPanel) ApplyChanges() {
	if v.cfg == nil {
		return
	}
	fields := make(map[string]string, len(v.widgets))
	for id, w := range v.widgets {
		fields[id] = strings.TrimSpace(v.text(w))
	}
	cfg := *v.cfg // copy
	applyFields(&cfg, fields)
	if verr := cfg.Validate(); verr != nil {
		return
	}
	*v.cfg = cfg
	if v.cfgPath == "" {
		return
	}
	if err := v.cfg.Save(v.cfgPath); err != nil {
		if v.logger != nil {
			v.logger.Error("config save failed", "error", err)
		}
	} else {
		if v.logger != nil {
			v.logger.Info("config saved", "path", v.cfgPath)
		}
	}
}

// applyFields copies parseable widget values into cfg and leaves the rest untouched.
func applyFields(cfg *config.Config, fields map[string]string) {
	assignDuration := func(id string, dst *config.Duration) {
		if d, ok := parseDurationField(fields[id]); ok {
			*dst = config.Duration(d)
		}
	}
	assignInt := func(id string, dst *int) {
		if i, ok := parseIntField(fields[id]); ok {
			*dst = i
		}
	}
	if m, err := present.ParseMode(fields["mode"]); err == nil && fields["mode"] != "" {
		cfg.Mode = m
	}
	if k, err := workload.ParseKind(fields["workloadKind"]); err == nil && fields["workloadKind"] != "" {
		cfg.WorkloadKind = k
	}
	assignDuration("perFrameDelay", &cfg.PerFrameDelay)
	assignDuration("spikeDelay", &cfg.SpikeDelay)
	assignInt("targetFPS", &cfg.TargetFPS)
	assignDuration("stallThreshold", &cfg.StallThreshold)
	assignInt("drawableCount", &cfg.DrawableCount)
	assignDuration("scheduleLatency", &cfg.ScheduleLatency)
}

// parsing helpers (unexported)
func parseDurationField(s string) (time.Duration, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d, true
	}
	// Bare numbers are milliseconds.
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(f * float64(time.Millisecond)), true
	}
	return 0, false
}

func parseIntField(s string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return i, true
}
