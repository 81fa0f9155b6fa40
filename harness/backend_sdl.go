//go:build sdl2

package harness

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/soocke/frame-pacer-go/config"
	"github.com/soocke/frame-pacer-go/domain/surface/sdlsurface"
)

// SDL must be driven from the main OS thread.
func init() { runtime.LockOSThread() }

func openSDL(cfg *config.Config, logger *slog.Logger) (Backend, error) {
	w, err := sdlsurface.Open(sdlsurface.Config{
		Title:  fmt.Sprintf("frame pacer (variant %s, %s)", cfg.Variant, cfg.Mode),
		Width:  cfg.Width,
		Height: cfg.Height,
		VSync:  true,
	}, logger)
	if err != nil {
		return nil, err
	}
	return w, nil
}
