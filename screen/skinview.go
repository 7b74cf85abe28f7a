package screen

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"

	"github.com/skinpad/skinpad/layout"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const highlightRadius = 5

var (
	highlightColor = color.NRGBA{0xFF, 0xFF, 0xFF, 0xD0}

	colorBody   = color.RGBA{46, 46, 52, 255}
	colorBezel  = color.RGBA{28, 28, 30, 255}
	colorLCD    = color.RGBA{150, 166, 140, 255}
	colorKey    = color.RGBA{70, 70, 78, 255}
	colorLabel  = color.RGBA{230, 230, 230, 255}
	colorKeyRim = color.RGBA{95, 95, 104, 255}
)

// SkinView draws a skin bitmap split at the screen/button boundary, with
// pressed buttons highlighted.
type SkinView struct {
	img image.Image
}

func NewSkinView(img image.Image) *SkinView {
	return &SkinView{img: img}
}

func (v *SkinView) Image() image.Image {
	return v.img
}

// Draw composites the two skin parts, then a rounded highlight over every
// rectangle in held, given in surface coordinates.
func (v *SkinView) Draw(c Canvas, g layout.Geometry, held []image.Rectangle) {
	if v.img == nil {
		return
	}

	c.Blit(v.img, g.ScreenSrc, g.ScreenDst, Bilinear)
	c.Blit(v.img, g.ButtonSrc, g.ButtonDst, Bilinear)

	for _, r := range held {
		c.FillRoundRect(r, highlightRadius, highlightColor)
	}
}

// LoadImage decodes a PNG or JPEG skin bitmap.
func LoadImage(path string) (image.Image, error) {
	reader, err := layout.OpenPath(path)
	if err != nil {
		return nil, fmt.Errorf("could not open skin image %s: %w", path, err)
	}
	defer reader.Close()

	img, _, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("could not decode skin image %s: %w", path, err)
	}

	return img, nil
}

// RenderPlaceholder draws a plain skin from the regions and buttons of a
// definition, for skins that come without a bitmap.
func RenderPlaceholder(skin *layout.Skin) *image.RGBA {
	bounds := skin.Bounds()
	img := image.NewRGBA(bounds)
	canvas := &ImageCanvas{Image: img}

	draw.Draw(img, bounds, &image.Uniform{colorBody}, image.Point{}, draw.Src)
	canvas.FillRoundRect(skin.ScreenRegion, 8, colorBezel)
	draw.Draw(img, skin.ScreenPixels, &image.Uniform{colorLCD}, image.Point{}, draw.Src)

	for _, b := range skin.Buttons {
		r := image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
		canvas.FillRoundRect(r.Inset(-1), 6, colorKeyRim)
		canvas.FillRoundRect(r, 6, colorKey)
		drawLabel(img, layout.KeyLabel(b.Code), r)
	}

	return img
}

func drawLabel(img *image.RGBA, label string, r image.Rectangle) {
	face := basicfont.Face7x13

	width := font.MeasureString(face, label).Ceil()
	x := r.Min.X + (r.Dx()-width)/2
	y := r.Min.Y + (r.Dy()+face.Ascent-face.Descent)/2

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(colorLabel),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(label)
}
