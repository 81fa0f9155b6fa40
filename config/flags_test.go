package config

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/soocke/frame-pacer-go/domain/pacing"
	"github.com/soocke/frame-pacer-go/domain/present"
)

func TestParseArgs_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.toml")
	base := DefaultConfig()
	base.TargetFPS = 30
	base.SpikeDelay = Duration(time.Second)
	if err := base.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	cfg, opts, err := ParseArgs([]string{"-config", path, "-mode", "immediate", "-frames", "50", "-per-frame-delay", "3ms"}, io.Discard)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if opts.ConfigPath != path {
		t.Fatalf("config path %q", opts.ConfigPath)
	}
	if cfg.TargetFPS != 30 || cfg.SpikeDelay.D() != time.Second {
		t.Fatalf("file values lost: %+v", cfg)
	}
	if cfg.Mode != present.Immediate || cfg.Frames != 50 || cfg.PerFrameDelay.D() != 3*time.Millisecond {
		t.Fatalf("flags not applied: %+v", cfg)
	}
}

func TestParseArgs_PresetAndUnsetFlags(t *testing.T) {
	cfg, _, err := ParseArgs([]string{"-preset", "variant-a", "-headless"}, io.Discard)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Variant != pacing.VariantA || cfg.Mode != present.Immediate || !cfg.Headless {
		t.Fatalf("preset or flag not applied: %+v", cfg)
	}
	// -frames was not passed, the preset value must survive.
	if cfg.Frames != DefaultConfig().Frames {
		t.Fatalf("unset flag overwrote frames: %d", cfg.Frames)
	}
}

func TestParseArgs_BadValues(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "none.toml")
	for _, args := range [][]string{
		{"-config", missing, "-variant", "C"},
		{"-config", missing, "-mode", "later"},
		{"-config", missing, "-frames", "many"},
		{"-preset", "nope"},
	} {
		if _, _, err := ParseArgs(args, io.Discard); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}
