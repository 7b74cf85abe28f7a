package components

import (
	"fmt"
	"image"
	"math"

	"github.com/skinpad/skinpad/model"
)

// getLinkForCode returns the page a click on a key leads to.
func getLinkForCode(code model.KeyCode, pageType PageType) string {
	switch pageType {
	case PageTypeFollow:
		return fmt.Sprintf("/next?code=%d", int(code))
	case PageTypeChords, PageTypeStats:
		return fmt.Sprintf("/chords?code=%d", int(code))
	default:
		return fmt.Sprintf("/chords?code=%d", int(code))
	}
}

// getSwitchModeLink returns the URL that switches between chord and follow modes.
func getSwitchModeLink(code model.KeyCode, currentPageType PageType) string {
	switch currentPageType {
	case PageTypeChords:
		return fmt.Sprintf("/next?code=%d", int(code))
	case PageTypeFollow:
		return fmt.Sprintf("/chords?code=%d", int(code))
	case PageTypeStats:
		return ""
	default:
		return "/"
	}
}

func getSwitchModeButtonText(currentPageType PageType) string {
	switch currentPageType {
	case PageTypeChords:
		return "View next keys"
	case PageTypeFollow:
		return "View chords"
	case PageTypeStats:
		return ""
	default:
		return ""
	}
}

// HeatColor maps count/maxVal onto blue, green, red, washed halfway to white.
func HeatColor(count, maxVal int) string {
	value := 0.0
	if maxVal > 0 {
		value = math.Min(1, math.Max(0, float64(count)/float64(maxVal)))
	}

	var r, g, b float64

	if value <= 0.5 {
		ratio := value / 0.5
		g = 255 * ratio
		b = 255 * (1 - ratio)
	} else {
		ratio := (value - 0.5) / 0.5
		r = 255 * ratio
		g = 255 * (1 - ratio)
	}

	const blendFactor = 0.5

	wash := func(c float64) int {
		return int(math.Round(c + (255-c)*blendFactor))
	}

	return fmt.Sprintf("rgb(%d, %d, %d)", wash(r), wash(g), wash(b))
}

// Center returns the middle of r.
func Center(r image.Rectangle) image.Point {
	return image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
}

// strokeWidth scales connection lines between 1 and 8 pixels.
func strokeWidth(count, maxVal int) float64 {
	if maxVal <= 0 {
		return 1
	}

	return 1 + 7*float64(count)/float64(maxVal)
}
