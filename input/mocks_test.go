package input_test

import (
	"image"

	"github.com/skinpad/skinpad/buttons"
	"github.com/skinpad/skinpad/layout"
	"github.com/skinpad/skinpad/model"
)

const (
	codeA model.KeyCode = 0x0A
	codeB model.KeyCode = 0x0B
)

// RecordingSink keeps every transition pushed to it.
type RecordingSink struct {
	Transitions []model.KeyTransition
}

func (s *RecordingSink) Push(t model.KeyTransition) {
	s.Transitions = append(s.Transitions, t)
}

func (s *RecordingSink) Count(want model.KeyTransition) int {
	n := 0

	for _, t := range s.Transitions {
		if t == want {
			n++
		}
	}

	return n
}

type GateMock struct {
	Open bool
}

func (g *GateMock) HasDrawnValidFrame() bool {
	return g.Open
}

// DirectLocator hit-tests surface coordinates as skin coordinates.
type DirectLocator struct {
	Model *buttons.Model
}

func (l DirectLocator) ButtonAt(x, y float64) (buttons.Button, bool) {
	return l.Model.At(image.Pt(int(x), int(y)))
}

// twoButtons has A at (0,0)-(10,10) and B at (20,0)-(30,10).
func twoButtons() *buttons.Model {
	return buttons.New([]layout.ButtonSpec{
		{Key: "A", Code: codeA, X: 0, Y: 0, W: 10, H: 10},
		{Key: "B", Code: codeB, X: 20, Y: 0, W: 10, H: 10},
	})
}

var (
	onA  = func(id model.PointerID) model.Pointer { return model.Pointer{ID: id, X: 5, Y: 5} }
	onB  = func(id model.PointerID) model.Pointer { return model.Pointer{ID: id, X: 25, Y: 5} }
	away = func(id model.PointerID) model.Pointer { return model.Pointer{ID: id, X: 15, Y: 50} }
)

func press(code model.KeyCode) model.KeyTransition {
	return model.KeyTransition{Code: code, Pressed: true}
}

func release(code model.KeyCode) model.KeyTransition {
	return model.KeyTransition{Code: code, Pressed: false}
}

func event(action model.TouchAction, index int, pointers ...model.Pointer) model.TouchEvent {
	return model.TouchEvent{Action: action, Index: index, Pointers: pointers}
}
