package routes

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/a-h/templ"
	"github.com/skinpad/skinpad/buttons"
	"github.com/skinpad/skinpad/db"
	"github.com/skinpad/skinpad/layout"
	"github.com/skinpad/skinpad/model"
	cs "github.com/skinpad/skinpad/web/components"
)

// Layout is the part of a keypad the inspector reads.
type Layout interface {
	Geometry() (layout.Geometry, bool)
	Buttons() *buttons.Model
}

// ServerHandler holds all dependencies needed for the web server handlers.
type ServerHandler struct {
	Storage       db.Storage
	ChordTracker  db.Tracker
	FollowTracker db.Tracker
	Layout        Layout
	Frames        *LatestFrame
}

// SafeRenderTemplate safely renders a templ component to an http.ResponseWriter.
func SafeRenderTemplate(component templ.Component, w http.ResponseWriter) error {
	// Do not write to w because it implies 200 status
	var buf bytes.Buffer

	err := component.Render(context.Background(), &buf)
	if err != nil {
		return fmt.Errorf("could not render template: %w", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=UTF-8")

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response", "error", err)

		return fmt.Errorf("could not write to response writer: %w", err)
	}

	return nil
}

// InitEmptyItems returns one zero-count item per button, in skin order,
// with rectangles mapped into view pixels.
func InitEmptyItems(l Layout) ([]cs.Item, image.Point) {
	g, ok := l.Geometry()
	bm := l.Buttons()

	if !ok || bm == nil {
		return []cs.Item{}, image.Point{}
	}

	all := bm.Buttons()
	items := make([]cs.Item, 0, len(all))

	for _, b := range all {
		items = append(items, cs.Item{
			Code:  b.Code,
			Label: layout.KeyLabel(b.Code),
			Rect:  g.ButtonToView(b.Rect),
		})
	}

	return items, g.View.Size()
}

// parseCode reads the code query parameter, decimal or 0x-prefixed hex.
func parseCode(r *http.Request) (model.KeyCode, error) {
	code, err := strconv.ParseInt(r.URL.Query().Get("code"), 0, 32)
	if err != nil {
		return 0, fmt.Errorf("bad key code: %w", err)
	}

	return model.KeyCode(code), nil
}

// LatestFrame holds the most recent composited keypad image. The draw loop
// updates it; request handlers read it.
type LatestFrame struct {
	lock sync.RWMutex
	img  *image.RGBA
}

// Update stores a copy of img.
func (f *LatestFrame) Update(img *image.RGBA) {
	cp := &image.RGBA{
		Pix:    append([]uint8(nil), img.Pix...),
		Stride: img.Stride,
		Rect:   img.Rect,
	}

	f.lock.Lock()
	defer f.lock.Unlock()

	f.img = cp
}

// Snapshot returns the latest image, or nil if none was stored. The
// result must not be modified.
func (f *LatestFrame) Snapshot() *image.RGBA {
	if f == nil {
		return nil
	}

	f.lock.RLock()
	defer f.lock.RUnlock()

	return f.img
}
