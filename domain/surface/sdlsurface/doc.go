// Package sdlsurface presents frames into an SDL2 window with a vsync renderer.
// Every call must come from the goroutine locked to the main OS thread.
//
// The backend needs cgo and the SDL2 development headers, so it is only
// compiled with the sdl2 build tag.
package sdlsurface
