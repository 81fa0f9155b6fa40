package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/soocke/frame-pacer-go/assets"
	"github.com/soocke/frame-pacer-go/domain/pacing"
	"github.com/soocke/frame-pacer-go/domain/present"
	"github.com/soocke/frame-pacer-go/domain/surface"
	"github.com/soocke/frame-pacer-go/domain/workload"
)

// Duration is a time.Duration written as "8ms" in JSON and TOML.
type Duration time.Duration

func (d Duration) D() time.Duration { return time.Duration(d) }

func (d Duration) MarshalText() ([]byte, error) { return []byte(time.Duration(d).String()), nil }

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return fmt.Errorf("config: duration %q: %w", string(b), err)
	}
	*d = Duration(v)
	return nil
}

// Config holds runtime configuration for the harness.
// Fields may be loaded from a JSON or TOML file and overridden by command-line flags.
type Config struct {
	Debug bool `json:"debug" toml:"debug"`

	// Engine
	Variant        pacing.Variant `json:"variant" toml:"variant"`
	Mode           present.Mode   `json:"mode" toml:"mode"`
	TargetFPS      int            `json:"target_fps" toml:"target_fps"`
	StallThreshold Duration       `json:"stall_threshold" toml:"stall_threshold"`
	SampleCapacity int            `json:"sample_capacity" toml:"sample_capacity"`

	// Synthetic workload
	PerFrameDelay Duration      `json:"per_frame_delay" toml:"per_frame_delay"`
	SpikeDelay    Duration      `json:"spike_delay" toml:"spike_delay"`
	WorkloadKind  workload.Kind `json:"workload_kind" toml:"workload_kind"`

	// Surface provider
	Backend         string   `json:"backend" toml:"backend"`
	DrawableCount   int      `json:"drawable_count" toml:"drawable_count"`
	ScheduleLatency Duration `json:"schedule_latency" toml:"schedule_latency"`
	Width           int      `json:"width" toml:"width"`
	Height          int      `json:"height" toml:"height"`

	// Headless runs
	Headless     bool `json:"headless" toml:"headless"`
	Frames       int  `json:"frames" toml:"frames"`
	SpikeAtFrame int  `json:"spike_at_frame" toml:"spike_at_frame"`
}

const (
	BackendSim = "sim"
	BackendSDL = "sdl"
)

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:           false,
		Variant:         pacing.VariantB,
		Mode:            present.ScheduledWaitThenPresent,
		TargetFPS:       60,
		StallThreshold:  Duration(250 * time.Millisecond),
		SampleCapacity:  4096,
		PerFrameDelay:   Duration(8 * time.Millisecond),
		SpikeDelay:      Duration(300 * time.Millisecond),
		WorkloadKind:    workload.KindSleep,
		Backend:         BackendSim,
		DrawableCount:   3,
		ScheduleLatency: Duration(500 * time.Microsecond),
		Width:           390,
		Height:          844,
		Headless:        false,
		Frames:          600,
		SpikeAtFrame:    0,
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	if c.Variant != pacing.VariantA && c.Variant != pacing.VariantB {
		c.Variant = pacing.VariantB
	}
	if c.Mode != present.Immediate && c.Mode != present.ScheduledWaitThenPresent {
		c.Mode = present.ScheduledWaitThenPresent
	}
	// Variant A only ships the immediate protocol.
	if c.Variant == pacing.VariantA {
		c.Mode = present.Immediate
	}
	if c.TargetFPS <= 0 || c.TargetFPS > 240 {
		c.TargetFPS = 60
	}
	if c.StallThreshold < 0 {
		c.StallThreshold = 0
	}
	if c.SampleCapacity < 0 {
		c.SampleCapacity = 0
	}
	if c.PerFrameDelay < 0 {
		c.PerFrameDelay = 0
	}
	if c.SpikeDelay < 0 {
		c.SpikeDelay = 0
	}
	if c.WorkloadKind != workload.KindSleep && c.WorkloadKind != workload.KindSpin {
		c.WorkloadKind = workload.KindSleep
	}
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend != BackendSim && c.Backend != BackendSDL {
		c.Backend = BackendSim
	}
	if c.DrawableCount <= 0 || c.DrawableCount > 8 {
		c.DrawableCount = 3
	}
	if c.ScheduleLatency < 0 {
		c.ScheduleLatency = 0
	}
	if c.Width <= 0 || c.Height <= 0 {
		c.Width, c.Height = 390, 844
	}
	if c.Frames < 0 {
		c.Frames = 0
	}
	if c.SpikeAtFrame < 0 {
		c.SpikeAtFrame = 0
	}
	return nil
}

// FrameInterval is the host tick period.
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.TargetFPS)
}

// Engine returns the immutable engine configuration.
func (c *Config) Engine() pacing.EngineConfig {
	return pacing.EngineConfig{
		Variant:        c.Variant,
		Mode:           c.Mode,
		StallThreshold: c.StallThreshold.D(),
		SampleCapacity: c.SampleCapacity,
	}
}

// Workload returns the synthetic delay configuration.
func (c *Config) Workload() workload.Config {
	return workload.Config{
		PerFrameDelay: c.PerFrameDelay.D(),
		SpikeDelay:    c.SpikeDelay.D(),
		Kind:          c.WorkloadKind,
	}
}

// Sim returns the simulated compositor configuration, refreshing at TargetFPS.
func (c *Config) Sim() surface.SimConfig {
	sc := surface.DefaultSimConfig()
	sc.DrawableCount = c.DrawableCount
	sc.RefreshInterval = c.FrameInterval()
	sc.ScheduleLatency = c.ScheduleLatency.D()
	sc.Width, sc.Height = c.Width, c.Height
	return sc
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load attempts to read configuration from the given file path, TOML when the
// extension is .toml and JSON otherwise. If the file does not exist it returns
// DefaultConfig(). On decode error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if isTOML(path) {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return cfg, nil
			}
			return cfg, err
		}
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return DefaultConfig(), err
		}
		_ = cfg.Validate()
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// LoadPreset decodes a bundled preset on top of the defaults.
func LoadPreset(name string) (*Config, error) {
	b, err := assets.Preset(name)
	if err != nil {
		return DefaultConfig(), err
	}
	cfg := DefaultConfig()
	if _, err := toml.Decode(string(b), cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("config: preset %q: %w", name, err)
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path, TOML or JSON by extension.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return err
		}
		return os.WriteFile(path, buf.Bytes(), 0o644)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
