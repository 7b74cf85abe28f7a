// Package parser reads the touch line protocol: one multitouch event per
// line, plus frame directives in replay scripts.
package parser

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/skinpad/skinpad/model"
)

var ErrMalformed = errors.New("malformed touch line")

type Kind int

const (
	// KindEvent carries a touch event.
	KindEvent Kind = iota
	// KindFrame asks for Frames draw cycles.
	KindFrame
)

type Entry struct {
	Kind   Kind
	Event  model.TouchEvent
	Frames int
}

// ParseLine parses one line. Blank lines and # comments give (nil, nil).
//
//	<action> <index> <id>:<x>,<y> [<id>:<x>,<y> ...]
//	frame [n]
//
// A bare "cancel" is accepted without index or pointers.
func ParseLine(line string) (*Entry, error) {
	// Serial bridges may end lines with a color reset.
	line = strings.TrimSuffix(strings.TrimSpace(line), "\x1b[0m")
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, nil
	}

	fields := strings.Fields(line)

	if fields[0] == "frame" {
		return parseFrame(fields[1:])
	}

	action, ok := model.ParseTouchAction(fields[0])
	if !ok {
		return nil, fmt.Errorf("%w: unknown action %q", ErrMalformed, fields[0])
	}

	ev := model.TouchEvent{Action: action}

	if len(fields) == 1 {
		if action != model.TouchCancel {
			return nil, fmt.Errorf("%w: %s needs a pointer index", ErrMalformed, action)
		}

		return &Entry{Kind: KindEvent, Event: ev}, nil
	}

	index, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, fmt.Errorf("%w: could not parse index: %w", ErrMalformed, err)
	}

	ev.Index = index
	ev.Pointers = make([]model.Pointer, 0, len(fields)-2)

	for _, field := range fields[2:] {
		p, err := parsePointer(field)
		if err != nil {
			return nil, err
		}

		ev.Pointers = append(ev.Pointers, p)
	}

	switch action {
	case model.TouchDown, model.TouchPointerDown, model.TouchUp, model.TouchPointerUp:
		if _, ok := ev.ActionPointer(); !ok {
			return nil, fmt.Errorf("%w: index %d out of %d pointers", ErrMalformed, index, len(ev.Pointers))
		}
	case model.TouchMove, model.TouchCancel:
	}

	return &Entry{Kind: KindEvent, Event: ev}, nil
}

func parseFrame(args []string) (*Entry, error) {
	switch len(args) {
	case 0:
		return &Entry{Kind: KindFrame, Frames: 1}, nil
	case 1:
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: frame count %q", ErrMalformed, args[0])
		}

		return &Entry{Kind: KindFrame, Frames: n}, nil
	default:
		return nil, fmt.Errorf("%w: frame takes at most one count", ErrMalformed)
	}
}

// parsePointer parses "<id>:<x>,<y>".
func parsePointer(field string) (model.Pointer, error) {
	idText, coords, ok := strings.Cut(field, ":")
	if !ok {
		return model.Pointer{}, fmt.Errorf("%w: pointer %q has no id", ErrMalformed, field)
	}

	xText, yText, ok := strings.Cut(coords, ",")
	if !ok {
		return model.Pointer{}, fmt.Errorf("%w: pointer %q has no y", ErrMalformed, field)
	}

	id, err := strconv.Atoi(idText)
	if err != nil {
		return model.Pointer{}, fmt.Errorf("%w: could not parse pointer id: %w", ErrMalformed, err)
	}

	x, err := strconv.ParseFloat(xText, 64)
	if err != nil {
		return model.Pointer{}, fmt.Errorf("%w: could not parse x: %w", ErrMalformed, err)
	}

	y, err := strconv.ParseFloat(yText, 64)
	if err != nil {
		return model.Pointer{}, fmt.Errorf("%w: could not parse y: %w", ErrMalformed, err)
	}

	if !isFinite(x) || !isFinite(y) {
		return model.Pointer{}, fmt.Errorf("%w: pointer %q is not a finite point", ErrMalformed, field)
	}

	return model.Pointer{ID: model.PointerID(id), X: x, Y: y}, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Format renders an event in the form ParseLine reads.
func Format(ev model.TouchEvent) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %d", ev.Action, ev.Index)

	for _, p := range ev.Pointers {
		fmt.Fprintf(&b, " %d:%s,%s", p.ID,
			strconv.FormatFloat(p.X, 'f', -1, 64),
			strconv.FormatFloat(p.Y, 'f', -1, 64))
	}

	return b.String()
}
