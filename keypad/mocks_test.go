package keypad_test

import (
	"fmt"
	"image"
	"image/color"

	"github.com/skinpad/skinpad/model"
	"github.com/skinpad/skinpad/screen"
)

// EngineMock returns Black black frames, then white ones, and logs calls.
type EngineMock struct {
	Black int
	Calls []string
}

func (e *EngineMock) RenderFrame(buf []uint32) error {
	e.Calls = append(e.Calls, "frame")

	px := uint32(0xFFFFFFFF)
	if e.Black > 0 {
		e.Black--
		px = 0xFF000000
	}

	for i := range buf {
		buf[i] = px
	}

	return nil
}

func (e *EngineMock) KeyDown(code int) {
	e.Calls = append(e.Calls, fmt.Sprintf("down 0x%02X", code))
}

func (e *EngineMock) KeyUp(code int) {
	e.Calls = append(e.Calls, fmt.Sprintf("up 0x%02X", code))
}

func (e *EngineMock) Running() bool {
	return true
}

// Keys returns the logged key calls, without frame requests.
func (e *EngineMock) Keys() []string {
	keys := make([]string, 0)

	for _, c := range e.Calls {
		if c != "frame" {
			keys = append(keys, c)
		}
	}

	return keys
}

type RecorderMock struct {
	Stored []model.KeyTransition
	Err    error
}

func (r *RecorderMock) Store(t model.KeyTransition) error {
	r.Stored = append(r.Stored, t)

	return r.Err
}

// BlockingRecorder stores nothing until Release is closed.
type BlockingRecorder struct {
	Release chan struct{}
	Stored  []model.KeyTransition
}

func (r *BlockingRecorder) Store(t model.KeyTransition) error {
	<-r.Release
	r.Stored = append(r.Stored, t)

	return nil
}

type CanvasMock struct {
	Blits      int
	RoundRects []image.Rectangle
}

func (c *CanvasMock) Bounds() image.Rectangle {
	return image.Rect(0, 0, 480, 800)
}

func (c *CanvasMock) Blit(image.Image, image.Rectangle, image.Rectangle, screen.Filter) {
	c.Blits++
}

func (c *CanvasMock) FillRoundRect(r image.Rectangle, _ float64, _ color.Color) {
	c.RoundRects = append(c.RoundRects, r)
}

func pointer(id model.PointerID, x, y float64) model.Pointer {
	return model.Pointer{ID: id, X: x, Y: y}
}

func touch(action model.TouchAction, index int, pointers ...model.Pointer) model.TouchEvent {
	return model.TouchEvent{Action: action, Index: index, Pointers: pointers}
}
