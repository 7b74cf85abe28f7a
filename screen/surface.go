package screen

import (
	"image"
	"log/slog"
	"sync/atomic"

	"github.com/skinpad/skinpad/model"
)

// Outcome describes what one draw cycle did.
type Outcome struct {
	// Transition was delivered to the engine when Delivered is set.
	Transition model.KeyTransition
	Delivered  bool
	// Fallback is set when the overlay was drawn instead of a frame.
	Fallback bool
	// Redraw asks the host to schedule the next cycle right away.
	Redraw bool
	// Err is the engine's frame error, if any. It never stops the cycle.
	Err error
}

// Surface owns the native-size pixel buffer and runs the draw cycle: at
// most one key transition is handed to the engine before each frame
// request.
//
// Apart from HasDrawnValidFrame, a Surface must only be used from one
// goroutine at a time.
type Surface struct {
	engine  Engine
	overlay *Overlay

	native image.Point
	buf    []uint32
	frame  *image.NRGBA
	dst    image.Rectangle

	validFrame atomic.Bool
}

func NewSurface(engine Engine, overlay *Overlay) *Surface {
	if overlay == nil {
		overlay = DefaultOverlay()
	}

	return &Surface{engine: engine, overlay: overlay}
}

// SetPixelSize sizes the pixel buffer to the native resolution. A size
// with no area drops the buffer.
func (s *Surface) SetPixelSize(native image.Point) {
	if native == s.native && s.buf != nil {
		return
	}

	if native.X <= 0 || native.Y <= 0 {
		s.native = image.Point{}
		s.buf = nil
		s.frame = nil

		return
	}

	s.native = native
	s.buf = make([]uint32, native.X*native.Y)
	s.frame = image.NewNRGBA(image.Rectangle{Max: native})
}

// SetDestination sets the pixel-aligned rectangle frames are drawn into.
func (s *Surface) SetDestination(r image.Rectangle) {
	s.dst = r
}

func (s *Surface) Destination() image.Rectangle {
	return s.dst
}

// Clear drops the pixel buffer and forgets that a valid frame was drawn.
func (s *Surface) Clear() {
	s.native = image.Point{}
	s.buf = nil
	s.frame = nil
	s.validFrame.Store(false)
}

// HasDrawnValidFrame reports whether a non-black frame has been composited
// since the last Clear. It is safe to call from any goroutine.
func (s *Surface) HasDrawnValidFrame() bool {
	return s.validFrame.Load()
}

// Draw runs one draw cycle. next is asked for at most one pending transition,
// and only when a frame will be requested.
func (s *Surface) Draw(c Canvas, next func() (model.KeyTransition, bool)) Outcome {
	var out Outcome

	if s.buf == nil || s.engine == nil || !s.engine.Running() {
		s.overlay.Draw(c, s.dst)
		out.Fallback = true

		return out
	}

	if next != nil {
		if t, ok := next(); ok {
			s.deliver(t)
			out.Transition = t
			out.Delivered = true
		}
	}

	if err := s.engine.RenderFrame(s.buf); err != nil {
		slog.Warn("Engine could not render a frame", "error", err)
		s.overlay.Draw(c, s.dst)
		out.Fallback = true
		out.Err = err

		return out
	}

	if isBlack(s.buf[0]) {
		s.overlay.Draw(c, s.dst)
		out.Fallback = true

		return out
	}

	s.validFrame.Store(true)

	copyARGB(s.frame, s.buf)
	c.Blit(s.frame, s.frame.Bounds(), s.dst, Nearest)

	out.Redraw = true

	return out
}

func (s *Surface) deliver(t model.KeyTransition) {
	if t.Pressed {
		s.engine.KeyDown(int(t.Code))
	} else {
		s.engine.KeyUp(int(t.Code))
	}
}
