package screen

import (
	"image"
	"image/color"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
)

type Filter int

const (
	// Nearest keeps emulated pixels sharp.
	Nearest Filter = iota
	Bilinear
)

// Canvas is a 2D target accepting scaled blits and filled rounded rectangles.
type Canvas interface {
	Bounds() image.Rectangle
	Blit(src image.Image, sr, dr image.Rectangle, f Filter)
	FillRoundRect(r image.Rectangle, radius float64, c color.Color)
}

// ImageCanvas draws into an in-memory RGBA image.
type ImageCanvas struct {
	Image *image.RGBA
}

func NewImageCanvas(w, h int) *ImageCanvas {
	return &ImageCanvas{Image: image.NewRGBA(image.Rect(0, 0, w, h))}
}

func (c *ImageCanvas) Bounds() image.Rectangle {
	return c.Image.Bounds()
}

func (c *ImageCanvas) Blit(src image.Image, sr, dr image.Rectangle, f Filter) {
	if sr.Empty() || dr.Empty() {
		return
	}

	var scaler draw.Scaler = draw.NearestNeighbor
	if f == Bilinear {
		scaler = draw.ApproxBiLinear
	}

	scaler.Scale(c.Image, dr, src, sr, draw.Over, nil)
}

func (c *ImageCanvas) FillRoundRect(r image.Rectangle, radius float64, col color.Color) {
	if r.Empty() {
		return
	}

	b := c.Image.Bounds()
	scanner := rasterx.NewScannerGV(b.Dx(), b.Dy(), c.Image, b)
	filler := rasterx.NewFiller(b.Dx(), b.Dy(), scanner)
	filler.SetColor(col)

	rasterx.AddRoundRect(
		float64(r.Min.X), float64(r.Min.Y), float64(r.Max.X), float64(r.Max.Y),
		radius, radius, 0, rasterx.RoundGap, filler)
	filler.Draw()
}

// Fill paints the whole canvas with one color.
func (c *ImageCanvas) Fill(col color.Color) {
	draw.Draw(c.Image, c.Image.Bounds(), &image.Uniform{col}, image.Point{}, draw.Src)
}
