// Package screen composites the emulated display and the skin onto a canvas.
package screen

import "context"

// Engine is the part of an emulation engine the draw cycle talks to.
type Engine interface {
	// RenderFrame fills buf with the current display as ARGB pixels, row
	// major, sized to the native resolution.
	RenderFrame(buf []uint32) error
	KeyDown(code int)
	KeyUp(code int)
	// Running reports whether the engine has been started.
	Running() bool
}

// Lifecycle is driven by the host, never by the draw cycle.
type Lifecycle interface {
	Start(ctx context.Context) error
	Stop()
	Pause()
	Resume()
}
