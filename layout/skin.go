package layout

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/skinpad/skinpad/model"
)

var (
	ErrInvalidSkin = errors.New("invalid skin definition")
	ErrUnknownKey  = errors.New("unknown key name")
)

// ButtonSpec is one button as declared by a skin, before padding is applied.
type ButtonSpec struct {
	Key     string
	Code    model.KeyCode
	X       int
	Y       int
	W       int
	H       int
	Padding int
}

// Skin describes where the emulated screen and the buttons sit on a skin
// bitmap. All rectangles are in skin bitmap pixels. A Skin is not modified
// after Parse returns it.
type Skin struct {
	Name  string
	Model string
	Image string

	// Size is the full skin bitmap size. Zero when neither the definition
	// nor an attached image provided it.
	Size image.Point

	ScreenPixels image.Rectangle
	ScreenRegion image.Rectangle
	ButtonRegion image.Rectangle

	Buttons []ButtonSpec
}

// Bounds is the full skin bitmap rectangle. Without a known size it falls
// back to the union of the declared regions.
func (s *Skin) Bounds() image.Rectangle {
	if s.Size.X > 0 && s.Size.Y > 0 {
		return image.Rectangle{Max: s.Size}
	}

	return s.ScreenRegion.Union(s.ButtonRegion).Union(s.ScreenPixels)
}

// WithSize returns a copy of the skin with its bitmap size set, typically
// from a decoded skin image.
func (s *Skin) WithSize(size image.Point) *Skin {
	c := *s
	c.Size = size

	return &c
}

type rectJSON struct {
	Left   *int `json:"left"`
	Top    *int `json:"top"`
	Right  *int `json:"right"`
	Bottom *int `json:"bottom"`
}

type buttonJSON struct {
	Key     *string `json:"key"`
	X       *int    `json:"x"`
	Y       *int    `json:"y"`
	W       *int    `json:"w"`
	H       *int    `json:"h"`
	Padding *int    `json:"padding"`
}

type skinJSON struct {
	Name         string       `json:"name"`
	Model        string       `json:"model"`
	Image        string       `json:"image"`
	Width        int          `json:"width"`
	Height       int          `json:"height"`
	ScreenPixels *rectJSON    `json:"screenPixels"`
	ScreenRegion *rectJSON    `json:"screenRegion"`
	ButtonRegion *rectJSON    `json:"buttonRegion"`
	Buttons      []buttonJSON `json:"buttons"`
}

func (r *rectJSON) toRect(field string) (image.Rectangle, error) {
	if r == nil {
		return image.Rectangle{}, fmt.Errorf("%w: missing %s", ErrInvalidSkin, field)
	}

	if r.Left == nil || r.Top == nil || r.Right == nil || r.Bottom == nil {
		return image.Rectangle{}, fmt.Errorf("%w: %s needs left, top, right and bottom", ErrInvalidSkin, field)
	}

	rect := image.Rect(*r.Left, *r.Top, *r.Right, *r.Bottom)
	if rect.Empty() {
		return image.Rectangle{}, fmt.Errorf("%w: %s is empty", ErrInvalidSkin, field)
	}

	return rect, nil
}

func (b *buttonJSON) toSpec(index int) (ButtonSpec, error) {
	if b.Key == nil || b.X == nil || b.Y == nil || b.W == nil || b.H == nil || b.Padding == nil {
		return ButtonSpec{}, fmt.Errorf("%w: button %d needs key, x, y, w, h and padding", ErrInvalidSkin, index)
	}

	code, ok := KeyCodeFor(*b.Key)
	if !ok {
		return ButtonSpec{}, fmt.Errorf("%w: button %d: %q", ErrUnknownKey, index, *b.Key)
	}

	return ButtonSpec{
		Key:     *b.Key,
		Code:    code,
		X:       *b.X,
		Y:       *b.Y,
		W:       *b.W,
		H:       *b.H,
		Padding: *b.Padding,
	}, nil
}

// Parse decodes a JSON skin definition. Any malformed button fails the
// whole skin; no partial result is returned.
func Parse(reader io.Reader) (*Skin, error) {
	decoder := json.NewDecoder(reader)

	var raw skinJSON

	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("could not decode skin JSON: %w", err)
	}

	skin := &Skin{
		Name:  raw.Name,
		Model: raw.Model,
		Image: raw.Image,
		Size:  image.Pt(raw.Width, raw.Height),
	}

	var err error

	if skin.ScreenPixels, err = raw.ScreenPixels.toRect("screenPixels"); err != nil {
		return nil, err
	}

	if skin.ScreenRegion, err = raw.ScreenRegion.toRect("screenRegion"); err != nil {
		return nil, err
	}

	if skin.ButtonRegion, err = raw.ButtonRegion.toRect("buttonRegion"); err != nil {
		return nil, err
	}

	if raw.Buttons == nil {
		return nil, fmt.Errorf("%w: missing buttons", ErrInvalidSkin)
	}

	skin.Buttons = make([]ButtonSpec, 0, len(raw.Buttons))

	for i := range raw.Buttons {
		spec, err := raw.Buttons[i].toSpec(i)
		if err != nil {
			return nil, err
		}

		skin.Buttons = append(skin.Buttons, spec)
	}

	return skin, nil
}

// Load opens and parses the skin definition at path.
func Load(path string) (*Skin, error) {
	file, err := OpenPath(path)
	if err != nil {
		return nil, fmt.Errorf("could not open skin file %s: %w", path, err)
	}
	defer file.Close()

	skin, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("could not parse skin file %s: %w", path, err)
	}

	return skin, nil
}
