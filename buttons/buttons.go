// Package buttons holds the hit regions of a skin's keypad.
package buttons

import (
	"cmp"
	"image"
	"slices"

	"github.com/skinpad/skinpad/layout"
	"github.com/skinpad/skinpad/model"
)

// Button is a skin button after its padding has been applied on all four sides.
type Button struct {
	Code model.KeyCode
	X    int
	Y    int
	W    int
	H    int
	Rect image.Rectangle
}

func (b Button) Contains(p image.Point) bool {
	return p.In(b.Rect)
}

// Model is an immutable set of buttons ordered by descending y, then
// descending x, so the button furthest down and right comes first.
type Model struct {
	buttons []Button
}

func New(specs []layout.ButtonSpec) *Model {
	list := make([]Button, 0, len(specs))

	for _, spec := range specs {
		b := Button{
			Code: spec.Code,
			X:    spec.X - spec.Padding,
			Y:    spec.Y - spec.Padding,
			W:    spec.W + 2*spec.Padding,
			H:    spec.H + 2*spec.Padding,
		}
		b.Rect = image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
		list = append(list, b)
	}

	slices.SortStableFunc(list, func(a, b Button) int {
		return compareKeys(a.Y, a.X, b.Y, b.X)
	})

	return &Model{buttons: list}
}

// compareKeys orders (y1, x1) against (y2, x2) on the key (-y, -x).
func compareKeys(y1, x1, y2, x2 int) int {
	if c := cmp.Compare(y2, y1); c != 0 {
		return c
	}

	return cmp.Compare(x2, x1)
}

// At returns the first button in model order that contains p. Only buttons
// whose key is not below the key of p can contain it, so the scan starts at
// the first of those.
func (m *Model) At(p image.Point) (Button, bool) {
	if m == nil || len(m.buttons) == 0 {
		return Button{}, false
	}

	start, _ := slices.BinarySearchFunc(m.buttons, p, func(b Button, p image.Point) int {
		return compareKeys(b.Y, b.X, p.Y, p.X)
	})

	for _, b := range m.buttons[start:] {
		if b.Contains(p) {
			return b, true
		}
	}

	return Button{}, false
}

// LinearAt is At without the ordered skip.
func (m *Model) LinearAt(p image.Point) (Button, bool) {
	if m == nil {
		return Button{}, false
	}

	for _, b := range m.buttons {
		if b.Contains(p) {
			return b, true
		}
	}

	return Button{}, false
}

func (m *Model) Len() int {
	if m == nil {
		return 0
	}

	return len(m.buttons)
}

// Buttons returns a copy of the buttons in model order.
func (m *Model) Buttons() []Button {
	if m == nil {
		return nil
	}

	return slices.Clone(m.buttons)
}
