// Package input turns raw multitouch events into key transitions.
package input

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/skinpad/skinpad/buttons"
	"github.com/skinpad/skinpad/layout"
	"github.com/skinpad/skinpad/model"
)

// Sink receives every transition the tracker emits, in order.
type Sink interface {
	Push(t model.KeyTransition)
}

// Gate reports whether the display has shown a real frame yet. Touches are
// dropped until it has.
type Gate interface {
	HasDrawnValidFrame() bool
}

// Locator finds the button under a surface coordinate.
type Locator interface {
	ButtonAt(x, y float64) (buttons.Button, bool)
}

// SkinLocator maps surface coordinates into skin button space before hit-testing.
type SkinLocator struct {
	Geometry layout.Geometry
	Buttons  *buttons.Model
}

func (l SkinLocator) ButtonAt(x, y float64) (buttons.Button, bool) {
	if l.Buttons == nil || l.Geometry.ButtonView.Empty() {
		return buttons.Button{}, false
	}

	return l.Buttons.At(l.Geometry.ViewToButton(x, y))
}

// Tracker binds pointers to the buttons they hold. A button is held by at
// most one pointer: the first pointer to claim it keeps it, and other
// pointers hitting it stay unbound until it is released.
//
// Tracker is not safe for concurrent use.
type Tracker struct {
	sink    Sink
	gate    Gate
	locator Locator

	bound map[model.PointerID]buttons.Button
}

func NewTracker(sink Sink, gate Gate) *Tracker {
	return &Tracker{
		sink:  sink,
		gate:  gate,
		bound: make(map[model.PointerID]buttons.Button),
	}
}

// SetLocator replaces the hit-testing used for later events. Existing
// bindings are kept; callers changing skins call Reset as well.
func (t *Tracker) SetLocator(l Locator) {
	t.locator = l
}

// HandleTouch applies one touch event and returns how many transitions it emitted.
func (t *Tracker) HandleTouch(ev model.TouchEvent) int {
	if t.gate != nil && !t.gate.HasDrawnValidFrame() {
		slog.Debug("Ignoring touch before first valid frame", "action", ev.Action)

		return 0
	}

	switch ev.Action {
	case model.TouchDown, model.TouchPointerDown:
		return t.press(ev)
	case model.TouchMove:
		return t.move(ev)
	case model.TouchUp, model.TouchPointerUp:
		p, ok := ev.ActionPointer()
		if !ok {
			return 0
		}

		return t.release(p.ID)
	case model.TouchCancel:
		return t.ReleaseAll()
	default:
		slog.Warn("Unknown touch action", "action", ev.Action)

		return 0
	}
}

func (t *Tracker) press(ev model.TouchEvent) int {
	p, ok := ev.ActionPointer()
	if !ok {
		return 0
	}

	if _, isBound := t.bound[p.ID]; isBound {
		return 0
	}

	b, hit := t.hit(p)
	if !hit || t.isHeld(b) {
		return 0
	}

	t.bind(p.ID, b)

	return 1
}

// move re-evaluates every pointer. Bindings whose pointer no longer hits
// the bound button are released first, then unbound pointers claim the
// buttons they hit in event order.
func (t *Tracker) move(ev model.TouchEvent) int {
	hits := make(map[model.PointerID]buttons.Button, len(ev.Pointers))

	for _, p := range ev.Pointers {
		if b, ok := t.hit(p); ok {
			hits[p.ID] = b
		} else {
			delete(hits, p.ID)
		}
	}

	emitted := 0

	for _, id := range slices.Sorted(maps.Keys(t.bound)) {
		if b, ok := hits[id]; ok && b == t.bound[id] {
			continue
		}

		emitted += t.release(id)
	}

	for _, p := range ev.Pointers {
		if _, isBound := t.bound[p.ID]; isBound {
			continue
		}

		b, ok := hits[p.ID]
		if !ok || t.isHeld(b) {
			continue
		}

		t.bind(p.ID, b)
		emitted++
	}

	return emitted
}

// ReleaseAll releases every binding in pointer id order and returns how
// many transitions it emitted.
func (t *Tracker) ReleaseAll() int {
	emitted := 0
	for _, id := range slices.Sorted(maps.Keys(t.bound)) {
		emitted += t.release(id)
	}

	return emitted
}

func (t *Tracker) hit(p model.Pointer) (buttons.Button, bool) {
	if t.locator == nil {
		return buttons.Button{}, false
	}

	return t.locator.ButtonAt(p.X, p.Y)
}

func (t *Tracker) isHeld(b buttons.Button) bool {
	for _, held := range t.bound {
		if held == b {
			return true
		}
	}

	return false
}

func (t *Tracker) bind(id model.PointerID, b buttons.Button) {
	t.bound[id] = b
	t.emit(id, model.KeyTransition{Code: b.Code, Pressed: true})
}

func (t *Tracker) release(id model.PointerID) int {
	b, ok := t.bound[id]
	if !ok {
		return 0
	}

	delete(t.bound, id)
	t.emit(id, model.KeyTransition{Code: b.Code, Pressed: false})

	return 1
}

func (t *Tracker) emit(id model.PointerID, tr model.KeyTransition) {
	slog.Debug("Key transition", "pointer", id, "transition", tr)

	if t.sink != nil {
		t.sink.Push(tr)
	}
}

// Reset drops every binding without emitting releases.
func (t *Tracker) Reset() {
	clear(t.bound)
}

// Held returns the held buttons ordered by pointer id.
func (t *Tracker) Held() []buttons.Button {
	ids := slices.Sorted(maps.Keys(t.bound))

	held := make([]buttons.Button, 0, len(ids))
	for _, id := range ids {
		held = append(held, t.bound[id])
	}

	return held
}
