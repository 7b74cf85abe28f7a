// Package keypad wires a skin, its buttons, touch tracking, the key queue
// and the render surface into one on-screen calculator keypad.
package keypad

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/skinpad/skinpad/buttons"
	"github.com/skinpad/skinpad/input"
	"github.com/skinpad/skinpad/keyqueue"
	"github.com/skinpad/skinpad/layout"
	"github.com/skinpad/skinpad/logging"
	"github.com/skinpad/skinpad/model"
	"github.com/skinpad/skinpad/screen"
)

var ErrNoSkin = errors.New("no skin installed")

// Recorder journals every transition delivered to the engine. Store is
// called from a goroutine of its own, in delivery order.
type Recorder interface {
	Store(t model.KeyTransition) error
}

type Option func(*Keypad)

func WithRecorder(r Recorder) Option {
	return func(k *Keypad) {
		k.recorder = r
	}
}

func WithOverlay(o *screen.Overlay) Option {
	return func(k *Keypad) {
		k.overlay = o
	}
}

// Keypad is safe for concurrent use. Touch handling, skin changes and
// resizes are serialized with the draw cycle, so a transition queued for
// one skin is never delivered after another skin is installed.
type Keypad struct {
	lock sync.Mutex

	skin    *layout.Skin
	buttons *buttons.Model
	view    *screen.SkinView
	native  image.Point

	size        image.Point
	zoomed      bool
	geometry    layout.Geometry
	hasGeometry bool

	tracker  *input.Tracker
	queue    *keyqueue.Queue
	surface  *screen.Surface
	overlay  *screen.Overlay
	recorder Recorder
	journal  *journal
}

// New returns a keypad without a skin for an engine with the given native
// LCD resolution.
func New(engine screen.Engine, native image.Point, opts ...Option) *Keypad {
	k := &Keypad{
		native: native,
		queue:  keyqueue.New(),
	}

	for _, opt := range opts {
		opt(k)
	}

	k.surface = screen.NewSurface(engine, k.overlay)
	k.surface.SetPixelSize(native)
	k.tracker = input.NewTracker(k.queue, k.surface)

	if k.recorder != nil {
		k.journal = newJournal(k.recorder)
	}

	return k
}

// Close waits until the recorder has stored every delivered transition.
// Transitions delivered after Close are not recorded.
func (k *Keypad) Close() {
	if k.journal != nil {
		k.journal.close()
	}
}

// SetSkin installs a skin. img may be nil, in which case a plain rendering
// of the skin is used. On error the previous skin stays in place; on
// success every pointer binding and pending transition is dropped.
func (k *Keypad) SetSkin(skin *layout.Skin, img image.Image) error {
	if skin == nil {
		return fmt.Errorf("%w: nil skin", layout.ErrInvalidSkin)
	}

	if img == nil {
		img = screen.RenderPlaceholder(skin)
	} else if img.Bounds().Size() != skin.Size {
		skin = skin.WithSize(img.Bounds().Size())
	}

	bm := buttons.New(skin.Buttons)

	k.lock.Lock()
	defer k.lock.Unlock()

	geometry, hasGeometry, err := k.compute(skin, k.size, k.native, k.zoomed)
	if err != nil {
		return err
	}

	k.skin = skin
	k.buttons = bm
	k.view = screen.NewSkinView(img)
	k.install(geometry, hasGeometry)

	k.tracker.Reset()
	dropped := k.queue.Clear()

	slog.Info("Installed skin", "name", skin.Name, "buttons", bm.Len(), "droppedTransitions", dropped)

	return nil
}

// Resize lays the skin out on a surface of w×h pixels. Until a resize with a
// usable size succeeds nothing is composited.
func (k *Keypad) Resize(w, h int) error {
	k.lock.Lock()
	defer k.lock.Unlock()

	return k.relayout(image.Pt(w, h), k.native, k.zoomed)
}

func (k *Keypad) SetZoomed(zoomed bool) error {
	k.lock.Lock()
	defer k.lock.Unlock()

	return k.relayout(k.size, k.native, zoomed)
}

// SetPixelSize changes the emulated LCD resolution, as when the engine
// loads a ROM for another model.
func (k *Keypad) SetPixelSize(native image.Point) error {
	k.lock.Lock()
	defer k.lock.Unlock()

	err := k.relayout(k.size, native, k.zoomed)
	k.surface.SetPixelSize(native)

	return err
}

func (k *Keypad) relayout(size, native image.Point, zoomed bool) error {
	if size == k.size && native == k.native && zoomed == k.zoomed && (k.hasGeometry || k.skin == nil) {
		return nil
	}

	k.size, k.native, k.zoomed = size, native, zoomed

	geometry, hasGeometry, err := k.compute(k.skin, size, native, zoomed)
	if err != nil {
		k.install(layout.Geometry{}, false)

		return err
	}

	k.install(geometry, hasGeometry)

	return nil
}

// compute returns no geometry, without an error, when there is no skin or
// no surface yet.
func (k *Keypad) compute(skin *layout.Skin, size, native image.Point, zoomed bool) (layout.Geometry, bool, error) {
	if skin == nil || size == (image.Point{}) {
		return layout.Geometry{}, false, nil
	}

	g, err := layout.Compute(skin, size, native, zoomed)
	if err != nil {
		return layout.Geometry{}, false, fmt.Errorf("could not lay out %q at %dx%d: %w", skin.Name, size.X, size.Y, err)
	}

	return g, true, nil
}

// install replaces the geometry. Losing the geometry releases every held
// button, since no later touch could be hit-tested against it.
func (k *Keypad) install(g layout.Geometry, ok bool) {
	if k.hasGeometry && !ok {
		if n := k.tracker.ReleaseAll(); n > 0 {
			slog.Info("Released held buttons with the layout", "released", n)
		}
	}

	k.geometry = g
	k.hasGeometry = ok

	k.surface.SetDestination(g.Pixels)
	k.tracker.SetLocator(input.SkinLocator{Geometry: g, Buttons: k.buttons})
}

// HandleTouch feeds one touch event to the tracker and returns how many
// transitions were queued.
func (k *Keypad) HandleTouch(ev model.TouchEvent) int {
	k.lock.Lock()
	defer k.lock.Unlock()

	if !k.hasGeometry {
		// Releases need no hit test.
		switch ev.Action {
		case model.TouchUp, model.TouchPointerUp, model.TouchCancel:
		default:
			return 0
		}
	}

	return k.tracker.HandleTouch(ev)
}

// Draw runs one draw cycle onto c: the skin with held buttons highlighted,
// then the display. Nothing happens until the keypad has a skin and a size.
func (k *Keypad) Draw(c screen.Canvas) screen.Outcome {
	k.lock.Lock()
	defer k.lock.Unlock()

	if !k.hasGeometry {
		return screen.Outcome{}
	}

	held := k.tracker.Held()
	highlights := make([]image.Rectangle, 0, len(held))

	for _, b := range held {
		highlights = append(highlights, k.geometry.ButtonToView(b.Rect))
	}

	k.view.Draw(c, k.geometry, highlights)

	out := k.surface.Draw(c, k.queue.Pop)
	if out.Delivered && k.journal != nil {
		k.journal.push(out.Transition)
	}

	return out
}

// Clear handles a cleared display: the pixel buffer, the valid-frame flag,
// every binding and every pending transition are dropped together.
func (k *Keypad) Clear() {
	k.lock.Lock()
	defer k.lock.Unlock()

	k.surface.Clear()
	k.tracker.Reset()
	k.queue.Clear()
}

// Run draws onto c once per tick until ctx is done or ticks is closed.
// onFrame, if set, sees every outcome.
func (k *Keypad) Run(ctx context.Context, ticks <-chan time.Time, c screen.Canvas, onFrame func(screen.Outcome)) error {
	ctx = logging.AppendCtx(ctx, slog.String(logging.PackageName, "keypad"))

	slog.DebugContext(ctx, "Draw loop started")
	defer slog.DebugContext(ctx, "Draw loop finished")

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("draw loop stopped: %w", ctx.Err())
		case _, ok := <-ticks:
			if !ok {
				return nil
			}

			out := k.Draw(c)
			if out.Delivered {
				slog.DebugContext(ctx, "Delivered transition", "transition", out.Transition)
			}

			if onFrame != nil {
				onFrame(out)
			}
		}
	}
}

func (k *Keypad) Skin() (*layout.Skin, error) {
	k.lock.Lock()
	defer k.lock.Unlock()

	if k.skin == nil {
		return nil, ErrNoSkin
	}

	return k.skin, nil
}

func (k *Keypad) Geometry() (layout.Geometry, bool) {
	k.lock.Lock()
	defer k.lock.Unlock()

	return k.geometry, k.hasGeometry
}

func (k *Keypad) Buttons() *buttons.Model {
	k.lock.Lock()
	defer k.lock.Unlock()

	return k.buttons
}

// Held returns the buttons currently held by pointers.
func (k *Keypad) Held() []buttons.Button {
	k.lock.Lock()
	defer k.lock.Unlock()

	return k.tracker.Held()
}

// Pending returns how many transitions wait for a draw cycle.
func (k *Keypad) Pending() int {
	return k.queue.Len()
}

func (k *Keypad) HasDrawnValidFrame() bool {
	return k.surface.HasDrawnValidFrame()
}
