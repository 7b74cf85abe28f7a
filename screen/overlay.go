package screen

import (
	_ "embed"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

//go:embed overlay.svg
var overlaySVG string

var overlayColor = color.RGBA{164, 198, 57, 255}

// Overlay is the image shown in place of the display while the engine has
// nothing to show. It is drawn in the bottom-right corner of the pixel
// rectangle at half its shorter side.
type Overlay struct {
	svg    string
	cached *image.RGBA
}

// NewOverlay parses an SVG document; an empty one selects the built-in icon.
// currentColor in the document is replaced with the overlay color.
func NewOverlay(svg string) (*Overlay, error) {
	if svg == "" {
		svg = overlaySVG
	}

	if _, err := oksvg.ReadIconStream(strings.NewReader(svg)); err != nil {
		return nil, fmt.Errorf("could not parse overlay svg: %w", err)
	}

	return &Overlay{svg: svg}, nil
}

// DefaultOverlay returns the built-in overlay.
func DefaultOverlay() *Overlay {
	return &Overlay{svg: overlaySVG}
}

// Image renders the overlay as a size×size image, reusing the last render
// when the size is unchanged.
func (o *Overlay) Image(size int) image.Image {
	if o.cached != nil && o.cached.Bounds().Dx() == size {
		return o.cached
	}

	o.cached = renderSVG(o.svg, size, overlayColor)

	return o.cached
}

// Place returns where the overlay goes inside the pixel rectangle dst.
func (o *Overlay) Place(dst image.Rectangle) image.Rectangle {
	size := min(dst.Dx(), dst.Dy()) / 2
	if size <= 0 {
		return image.Rectangle{}
	}

	return image.Rect(dst.Max.X-size, dst.Max.Y-size, dst.Max.X, dst.Max.Y)
}

func (o *Overlay) Draw(c Canvas, dst image.Rectangle) {
	r := o.Place(dst)
	if r.Empty() {
		return
	}

	img := o.Image(r.Dx())
	c.Blit(img, img.Bounds(), r, Bilinear)
}

func renderSVG(svg string, size int, iconColor color.Color) *image.RGBA {
	r, g, b, _ := iconColor.RGBA()
	hexColor := fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
	svg = strings.ReplaceAll(svg, "currentColor", hexColor)

	img := image.NewRGBA(image.Rect(0, 0, size, size))

	icon, err := oksvg.ReadIconStream(strings.NewReader(svg))
	if err != nil {
		slog.Error("Failed to parse overlay SVG", "error", err)

		return img
	}

	icon.SetTarget(0, 0, float64(size), float64(size))

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	return img
}
