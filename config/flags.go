package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/soocke/frame-pacer-go/domain/pacing"
	"github.com/soocke/frame-pacer-go/domain/present"
	"github.com/soocke/frame-pacer-go/domain/workload"
)

// DefaultPath is the config file read when -config is not given.
const DefaultPath = "frame-pacer.toml"

// Options carries the command-line switches that are not config fields.
type Options struct {
	ConfigPath string
	Preset     string
}

// ParseArgs loads the base configuration (a bundled preset when -preset is
// set, the config file otherwise) and applies every flag given explicitly on
// top of it. Usage and parse errors go to errOut.
func ParseArgs(args []string, errOut io.Writer) (*Config, Options, error) {
	fs := flag.NewFlagSet("frame-pacer", flag.ContinueOnError)
	if errOut != nil {
		fs.SetOutput(errOut)
	}
	var (
		opts            Options
		variant, mode   string
		kind, backend   string
		headless, dbg   bool
		frames, fps     int
		spikeAt         int
		perFrame, spike time.Duration
	)
	fs.StringVar(&opts.ConfigPath, "config", DefaultPath, "config file (.toml or .json)")
	fs.StringVar(&opts.Preset, "preset", "", "bundled preset instead of the config file (variant-a, variant-b, variant-b-immediate)")
	fs.StringVar(&variant, "variant", "", "A (immediate, unmeasured) or B (measured)")
	fs.StringVar(&mode, "mode", "", "presentation mode: immediate or scheduled-wait")
	fs.StringVar(&kind, "workload", "", "synthetic delay kind: sleep or spin")
	fs.StringVar(&backend, "backend", "", "surface backend: sim or sdl")
	fs.BoolVar(&headless, "headless", false, "run without the Tk window and print a report")
	fs.BoolVar(&dbg, "debug", false, "debug logging and runtime diagnostics")
	fs.IntVar(&frames, "frames", 0, "frames to draw in headless mode (0 runs until interrupted)")
	fs.IntVar(&fps, "fps", 0, "host frame rate")
	fs.IntVar(&spikeAt, "spike-at", 0, "headless frame that requests a heavy work spike (0 disables)")
	fs.DurationVar(&perFrame, "per-frame-delay", 0, "baseline delay before each measured frame")
	fs.DurationVar(&spike, "spike-delay", 0, "heavy work spike duration")
	if err := fs.Parse(args); err != nil {
		return DefaultConfig(), opts, err
	}

	var (
		cfg *Config
		err error
	)
	if opts.Preset != "" {
		cfg, err = LoadPreset(opts.Preset)
	} else {
		cfg, err = Load(opts.ConfigPath)
	}
	if err != nil {
		return cfg, opts, err
	}

	var ferr error
	fs.Visit(func(f *flag.Flag) {
		if ferr != nil {
			return
		}
		switch f.Name {
		case "variant":
			cfg.Variant, ferr = pacing.ParseVariant(variant)
		case "mode":
			cfg.Mode, ferr = present.ParseMode(mode)
		case "workload":
			cfg.WorkloadKind, ferr = workload.ParseKind(kind)
		case "backend":
			cfg.Backend = backend
		case "headless":
			cfg.Headless = headless
		case "debug":
			cfg.Debug = dbg
		case "frames":
			cfg.Frames = frames
		case "fps":
			cfg.TargetFPS = fps
		case "spike-at":
			cfg.SpikeAtFrame = spikeAt
		case "per-frame-delay":
			cfg.PerFrameDelay = Duration(perFrame)
		case "spike-delay":
			cfg.SpikeDelay = Duration(spike)
		}
		if ferr != nil {
			ferr = fmt.Errorf("config: -%s: %w", f.Name, ferr)
		}
	})
	if ferr != nil {
		return cfg, opts, ferr
	}
	_ = cfg.Validate()
	return cfg, opts, nil
}
