package screen_test

import (
	"fmt"
	"image"
	"image/color"

	"github.com/skinpad/skinpad/screen"
)

// EngineMock serves scripted frames and logs every call in order.
type EngineMock struct {
	Frames  [][]uint32
	Err     error
	Stopped bool
	Calls   []string

	drawn int
}

func (e *EngineMock) RenderFrame(buf []uint32) error {
	e.Calls = append(e.Calls, "frame")

	if e.Err != nil {
		return e.Err
	}

	frame := e.Frames[min(e.drawn, len(e.Frames)-1)]
	e.drawn++

	copy(buf, frame)

	return nil
}

func (e *EngineMock) KeyDown(code int) {
	e.Calls = append(e.Calls, fmt.Sprintf("down 0x%02X", code))
}

func (e *EngineMock) KeyUp(code int) {
	e.Calls = append(e.Calls, fmt.Sprintf("up 0x%02X", code))
}

func (e *EngineMock) Running() bool {
	return !e.Stopped
}

type BlitCall struct {
	Src    image.Image
	SR, DR image.Rectangle
	Filter screen.Filter
}

type RoundRectCall struct {
	R      image.Rectangle
	Radius float64
	Color  color.Color
}

// CanvasMock records drawing operations without drawing.
type CanvasMock struct {
	Blits      []BlitCall
	RoundRects []RoundRectCall
}

func (c *CanvasMock) Bounds() image.Rectangle {
	return image.Rect(0, 0, 480, 800)
}

func (c *CanvasMock) Blit(src image.Image, sr, dr image.Rectangle, f screen.Filter) {
	c.Blits = append(c.Blits, BlitCall{Src: src, SR: sr, DR: dr, Filter: f})
}

func (c *CanvasMock) FillRoundRect(r image.Rectangle, radius float64, col color.Color) {
	c.RoundRects = append(c.RoundRects, RoundRectCall{R: r, Radius: radius, Color: col})
}

func solidFrame(w, h int, px uint32) []uint32 {
	frame := make([]uint32, w*h)
	for i := range frame {
		frame[i] = px
	}

	return frame
}
