//go:build !sdl2

package harness

import (
	"errors"
	"log/slog"

	"github.com/soocke/frame-pacer-go/config"
)

// ErrSDLUnavailable is returned for the sdl backend in builds without the sdl2 tag.
var ErrSDLUnavailable = errors.New("harness: sdl backend not compiled in (build with -tags sdl2)")

func openSDL(*config.Config, *slog.Logger) (Backend, error) { return nil, ErrSDLUnavailable }
