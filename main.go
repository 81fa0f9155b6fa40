package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/soocke/frame-pacer-go/app"
	"github.com/soocke/frame-pacer-go/config"
	"github.com/soocke/frame-pacer-go/debug"
	"github.com/soocke/frame-pacer-go/harness"
)

const diagnosticsInterval = 10 * time.Second

func main() {
	// Defaults, then config file or preset, then flags
	cfg, opts, err := config.ParseArgs(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := NewLogger(level)
	if err != nil {
		logger.Error("configuration failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	if err := run(ctx, cfg, opts, logger); err != nil {
		logger.Error("setup failed", "error", err)
		stop()
		os.Exit(1)
	}
	stop()
}

func run(ctx context.Context, cfg *config.Config, opts config.Options, logger *slog.Logger) error {
	if cfg.Debug {
		debug.StartGoroutineLogger(ctx, diagnosticsInterval, logger)
		debug.StartMemLogger(ctx, diagnosticsInterval, logger)
	}

	if cfg.Headless {
		st, err := harness.NewStack(cfg, logger)
		if err != nil {
			return err
		}
		defer st.Close()
		_, err = harness.RunHeadless(ctx, st, os.Stdout, logger)
		return err
	}

	c, err := app.BuildContainer(cfg, logger, opts.ConfigPath)
	if err != nil {
		return err
	}
	app.NewHost("Frame Pacer", 560, 520, c).Start()
	return nil
}
