package geom_test

import (
	"image"
	"math/rand"
	"testing"

	"github.com/skinpad/skinpad/geom"
	"github.com/stretchr/testify/assert"
)

func TestTransformPoint(t *testing.T) {
	testCases := []struct {
		name     string
		p        image.Point
		from, to image.Rectangle
		want     image.Point
	}{
		{"identity", image.Pt(3, 4), image.Rect(0, 0, 10, 10), image.Rect(0, 0, 10, 10), image.Pt(3, 4)},
		{"scale up", image.Pt(5, 5), image.Rect(0, 0, 10, 10), image.Rect(0, 0, 100, 50), image.Pt(50, 25)},
		{"offset", image.Pt(10, 20), image.Rect(10, 20, 20, 40), image.Rect(100, 200, 110, 220), image.Pt(100, 200)},
		{"far corner", image.Pt(20, 40), image.Rect(10, 20, 20, 40), image.Rect(100, 200, 110, 220), image.Pt(110, 220)},
		{"truncates", image.Pt(1, 1), image.Rect(0, 0, 3, 3), image.Rect(0, 0, 10, 10), image.Pt(3, 3)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, geom.TransformPoint(tc.p, tc.from, tc.to))
		})
	}
}

func TestTransformRect(t *testing.T) {
	skin := image.Rect(0, 0, 480, 800)
	view := image.Rect(0, 0, 240, 400)

	got := geom.TransformRect(image.Rect(40, 100, 440, 300), skin, view)

	assert.Equal(t, image.Rect(20, 50, 220, 150), got)
}

func TestTransformPointRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(86))

	randRect := func() image.Rectangle {
		x, y := rnd.Intn(400)-200, rnd.Intn(400)-200

		return image.Rect(x, y, x+1+rnd.Intn(1000), y+1+rnd.Intn(1000))
	}

	t.Run("float round trip is exact within tolerance", func(t *testing.T) {
		for range 500 {
			from, to := randRect(), randRect()
			x, y := rnd.Float64()*2000-1000, rnd.Float64()*2000-1000

			tx, ty := geom.TransformPointF(x, y, from, to)
			bx, by := geom.TransformPointF(tx, ty, to, from)

			assert.InDelta(t, x, bx, 1e-6)
			assert.InDelta(t, y, by, 1e-6)
		}
	})

	t.Run("integer round trip stays within one destination pixel", func(t *testing.T) {
		for range 500 {
			from, to := randRect(), randRect()
			p := image.Pt(from.Min.X+rnd.Intn(from.Dx()), from.Min.Y+rnd.Intn(from.Dy()))

			back := geom.TransformPoint(geom.TransformPoint(p, from, to), to, from)

			// Each leg truncates by less than one pixel of its own target space.
			tolX := 1 + float64(from.Dx())/float64(to.Dx())
			tolY := 1 + float64(from.Dy())/float64(to.Dy())

			assert.InDelta(t, p.X, back.X, tolX)
			assert.InDelta(t, p.Y, back.Y, tolY)
		}
	})
}

func TestTransformDegenerateSource(t *testing.T) {
	assert.Panics(t, func() {
		geom.TransformPoint(image.Pt(1, 1), image.Rect(0, 0, 0, 10), image.Rect(0, 0, 10, 10))
	})
	assert.Panics(t, func() {
		geom.TransformPointF(1, 1, image.Rect(5, 5, 10, 5), image.Rect(0, 0, 10, 10))
	})
}
