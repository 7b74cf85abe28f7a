package model

import (
	"fmt"
	"time"
)

// KeyCode identifies a physical key on the emulated calculator.
type KeyCode int

type KeyTransition struct {
	Code    KeyCode
	Pressed bool
}

func (t KeyTransition) String() string {
	if t.Pressed {
		return fmt.Sprintf("press(0x%02X)", int(t.Code))
	}

	return fmt.Sprintf("release(0x%02X)", int(t.Code))
}

type KeyTransitionWithTimestamp struct {
	Code      KeyCode
	Pressed   bool
	Timestamp time.Time
}

// KeyCount is the number of presses journaled for one key code.
type KeyCount struct {
	Code    KeyCode
	Presses int
}

// PointerID is the host input system's handle for one point of contact.
// Handles are reused once a pointer lifts.
type PointerID int

type Pointer struct {
	ID PointerID
	X  float64
	Y  float64
}

type TouchAction int

const (
	TouchDown TouchAction = iota
	TouchPointerDown
	TouchMove
	TouchUp
	TouchPointerUp
	TouchCancel
)

var touchActionNames = map[TouchAction]string{
	TouchDown:        "down",
	TouchPointerDown: "pdown",
	TouchMove:        "move",
	TouchUp:          "up",
	TouchPointerUp:   "pup",
	TouchCancel:      "cancel",
}

func (a TouchAction) String() string {
	if name, ok := touchActionNames[a]; ok {
		return name
	}

	return fmt.Sprintf("TouchAction(%d)", int(a))
}

// ParseTouchAction is the inverse of TouchAction.String.
func ParseTouchAction(s string) (TouchAction, bool) {
	for a, name := range touchActionNames {
		if name == s {
			return a, true
		}
	}

	return 0, false
}

// TouchEvent is one raw multitouch event. Pointers lists every active
// pointer in host order; Index selects the pointer the action applies to
// for down/up style actions.
type TouchEvent struct {
	Action   TouchAction
	Index    int
	Pointers []Pointer
}

// ActionPointer returns the pointer the action refers to.
func (e TouchEvent) ActionPointer() (Pointer, bool) {
	if e.Index < 0 || e.Index >= len(e.Pointers) {
		return Pointer{}, false
	}

	return e.Pointers[e.Index], true
}

// Chord is a set of keys held down together, with how often it was seen.
type Chord struct {
	Codes   []KeyCode
	Pressed int
}
