// Package geom maps points and rectangles between coordinate spaces,
// e.g. from skin bitmap pixels to view pixels and back.
package geom

import (
	"fmt"
	"image"
)

// TransformPointF maps (x, y) from the from rectangle into the to rectangle,
// interpolating each axis independently.
//
// from must have a non-zero width and height.
func TransformPointF(x, y float64, from, to image.Rectangle) (float64, float64) {
	mustHaveArea(from)

	// Normalize position inside from (0.0 -> 1.0), then stretch over to.
	nx := (x - float64(from.Min.X)) / float64(from.Dx())
	ny := (y - float64(from.Min.Y)) / float64(from.Dy())

	return nx*float64(to.Dx()) + float64(to.Min.X), ny*float64(to.Dy()) + float64(to.Min.Y)
}

// TransformPoint is the integer version of TransformPointF. Fractional
// results are truncated toward zero before the destination offset is added.
func TransformPoint(p image.Point, from, to image.Rectangle) image.Point {
	mustHaveArea(from)

	nx := float64(p.X-from.Min.X) / float64(from.Dx())
	ny := float64(p.Y-from.Min.Y) / float64(from.Dy())

	return image.Point{
		X: int(nx*float64(to.Dx())) + to.Min.X,
		Y: int(ny*float64(to.Dy())) + to.Min.Y,
	}
}

// TransformRect maps both corners of r. The result is not canonicalized.
func TransformRect(r, from, to image.Rectangle) image.Rectangle {
	return image.Rectangle{
		Min: TransformPoint(r.Min, from, to),
		Max: TransformPoint(r.Max, from, to),
	}
}

func mustHaveArea(r image.Rectangle) {
	if r.Dx() == 0 || r.Dy() == 0 {
		panic(fmt.Sprintf("geom: degenerate source rectangle %v", r))
	}
}
