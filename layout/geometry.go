package layout

import (
	"errors"
	"fmt"
	"image"

	"github.com/skinpad/skinpad/geom"
)

var ErrEmptySurface = errors.New("surface too small to lay out")

// Geometry is the result of laying a skin out on a surface. Source
// rectangles are in skin bitmap pixels, everything else in surface pixels.
type Geometry struct {
	// View is the whole surface.
	View image.Rectangle
	// Visible is the part of the skin bitmap mapped onto View.
	Visible image.Rectangle

	// ScreenSrc is drawn into ScreenDst: the skin from the top of the
	// visible region down to the bottom of the screen region.
	ScreenSrc image.Rectangle
	ScreenDst image.Rectangle

	// ButtonSrc is drawn into ButtonDst: the skin from the top of the
	// button region to the bottom of the visible region.
	ButtonSrc image.Rectangle
	ButtonDst image.Rectangle

	// ScreenView and ButtonView are the screen and button regions after
	// the vertical alignment adjustment.
	ScreenView image.Rectangle
	ButtonView image.Rectangle

	// ButtonRegion is the skin's button region, kept for touch inversion.
	ButtonRegion image.Rectangle

	// Pixels is where the emulated LCD is drawn. Its width and height are
	// multiples of the native LCD size.
	Pixels image.Rectangle
}

// Compute lays skin out on a surface of the given size. native is the
// emulated LCD resolution. When zoomed, only the union of the screen and
// button regions is shown.
func Compute(skin *Skin, surface, native image.Point, zoomed bool) (Geometry, error) {
	if surface.X <= 0 || surface.Y <= 0 {
		return Geometry{}, fmt.Errorf("%w: %dx%d", ErrEmptySurface, surface.X, surface.Y)
	}

	if native.X <= 0 || native.Y <= 0 {
		return Geometry{}, fmt.Errorf("invalid native size %dx%d", native.X, native.Y)
	}

	g := Geometry{
		View:         image.Rectangle{Max: surface},
		ButtonRegion: skin.ButtonRegion,
	}

	if zoomed {
		g.Visible = skin.ButtonRegion.Union(skin.ScreenRegion)
	} else {
		g.Visible = skin.Bounds()
	}

	if g.Visible.Empty() {
		return Geometry{}, fmt.Errorf("%w: skin has no visible region", ErrInvalidSkin)
	}

	g.ButtonView = geom.TransformRect(skin.ButtonRegion, g.Visible, g.View)
	g.ScreenView = geom.TransformRect(skin.ScreenRegion, g.Visible, g.View)
	g.Pixels = alignPixels(geom.TransformRect(skin.ScreenPixels, g.Visible, g.View), native.X)

	// Snap the LCD height to a multiple of the native height, taking the
	// slack from (or giving it to) the boundary between screen and buttons.
	dy := g.Pixels.Dy() % native.Y
	if dy > native.Y/2 {
		dy = native.Y - dy
	} else {
		dy = -dy
	}

	g.ScreenView.Max.Y += dy
	g.Pixels.Max.Y += dy
	g.ButtonView.Min.Y += dy

	if g.ButtonView.Dx() <= 0 || g.ButtonView.Dy() <= 0 {
		return Geometry{}, fmt.Errorf("%w: button area collapsed at %dx%d", ErrEmptySurface, surface.X, surface.Y)
	}

	g.ScreenSrc = image.Rect(g.Visible.Min.X, g.Visible.Min.Y, g.Visible.Max.X, skin.ScreenRegion.Max.Y)
	g.ScreenDst = image.Rect(g.View.Min.X, g.View.Min.Y, g.View.Max.X, g.ScreenView.Max.Y)
	g.ButtonSrc = image.Rect(g.Visible.Min.X, skin.ButtonRegion.Min.Y, g.Visible.Max.X, g.Visible.Max.Y)
	g.ButtonDst = image.Rect(g.View.Min.X, g.ButtonView.Min.Y, g.View.Max.X, g.View.Max.Y)

	return g, nil
}

// alignPixels trims r horizontally so its width is a multiple of nativeW.
// The odd pixel of an odd remainder comes off the right edge.
func alignPixels(r image.Rectangle, nativeW int) image.Rectangle {
	rem := r.Dx() % nativeW
	r.Min.X += rem / 2
	r.Max.X -= rem - rem/2

	return r
}

// ViewToButton maps a surface coordinate into skin button space, the space
// button rectangles are declared in.
func (g Geometry) ViewToButton(x, y float64) image.Point {
	return geom.TransformPoint(image.Pt(int(x), int(y)), g.ButtonView, g.ButtonRegion)
}

// ButtonToView maps a rectangle in skin button space onto the surface.
func (g Geometry) ButtonToView(r image.Rectangle) image.Rectangle {
	return geom.TransformRect(r, g.ButtonRegion, g.ButtonView)
}

// Scale returns how many surface pixels one emulated pixel covers.
func (g Geometry) Scale(native image.Point) image.Point {
	return image.Pt(g.Pixels.Dx()/native.X, g.Pixels.Dy()/native.Y)
}
