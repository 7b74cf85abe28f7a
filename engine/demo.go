// Package engine provides a stand-in emulation engine that draws held keys
// on an otherwise blank LCD.
package engine

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/skinpad/skinpad/layout"
)

const (
	colorOff uint32 = 0xFFC6D0B8
	colorOn  uint32 = 0xFF202820
	colorOut uint32 = 0xFF000000

	// cell is the side of the square marking a held key.
	cell = 4
)

// Demo behaves like a booting calculator: after Start it returns black
// frames for a while, then a lit LCD with one square per held key.
type Demo struct {
	calc   layout.Calculator
	warmup int

	lock    sync.Mutex
	running bool
	paused  bool
	frames  int
	held    map[int]bool
}

// NewDemo returns a stopped engine for calc that shows warmup black frames after each start.
func NewDemo(calc layout.Calculator, warmup int) *Demo {
	return &Demo{
		calc:   calc,
		warmup: warmup,
		held:   make(map[int]bool),
	}
}

func (d *Demo) Native() image.Point {
	return d.calc.Native
}

func (d *Demo) Calculator() layout.Calculator {
	return d.calc
}

// Start resets the engine and runs it until Stop or until ctx is done.
func (d *Demo) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("could not start %s engine: %w", d.calc.Name, err)
	}

	d.lock.Lock()
	d.running = true
	d.paused = false
	d.frames = 0
	clear(d.held)
	d.lock.Unlock()

	slog.Info("Engine started", "model", d.calc.Name, "modelId", fmt.Sprintf("0x%04X", d.calc.ModelID))

	go func() {
		<-ctx.Done()
		d.Stop()
	}()

	return nil
}

func (d *Demo) Stop() {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.running {
		slog.Info("Engine stopped", "model", d.calc.Name, "frames", d.frames)
	}

	d.running = false
}

func (d *Demo) Pause() {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.paused = true
}

func (d *Demo) Resume() {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.paused = false
}

func (d *Demo) Running() bool {
	d.lock.Lock()
	defer d.lock.Unlock()

	return d.running
}

func (d *Demo) KeyDown(code int) {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.held[code] = true
}

func (d *Demo) KeyUp(code int) {
	d.lock.Lock()
	defer d.lock.Unlock()

	delete(d.held, code)
}

// Held returns the codes currently down, in ascending order.
func (d *Demo) Held() []int {
	d.lock.Lock()
	defer d.lock.Unlock()

	return slices.Sorted(maps.Keys(d.held))
}

// RenderFrame fills buf with the current display. A paused engine keeps
// its frame count but still draws.
func (d *Demo) RenderFrame(buf []uint32) error {
	w, h := d.calc.Native.X, d.calc.Native.Y
	if len(buf) != w*h {
		return fmt.Errorf("frame buffer holds %d pixels, want %dx%d", len(buf), w, h)
	}

	d.lock.Lock()
	defer d.lock.Unlock()

	if !d.running {
		return fmt.Errorf("%s engine is not running", d.calc.Name)
	}

	if !d.paused {
		d.frames++
	}

	if d.frames <= d.warmup {
		fill(buf, colorOut)

		return nil
	}

	fill(buf, colorOff)

	for code := range d.held {
		pos, ok := cellFor(code, w, h)
		if !ok {
			continue
		}

		for y := pos.Y; y < pos.Y+cell; y++ {
			for x := pos.X; x < pos.X+cell; x++ {
				buf[y*w+x] = colorOn
			}
		}
	}

	return nil
}

// cellFor lays key codes out row by row, leaving a one-cell margin so the
// top-left pixel stays lit.
func cellFor(code, w, h int) (image.Point, bool) {
	cols := w/cell - 2
	rows := h/cell - 2

	if code < 0 || cols <= 0 || code >= cols*rows {
		return image.Point{}, false
	}

	return image.Pt((1+code%cols)*cell, (1+code/cols)*cell), true
}

func fill(buf []uint32, px uint32) {
	for i := range buf {
		buf[i] = px
	}
}
