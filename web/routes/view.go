package routes

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"log/slog"
	"net/http"

	"github.com/skinpad/skinpad/layout"
)

// ViewHandle serves the latest composited keypad as a PNG.
func (s *ServerHandler) ViewHandle(w http.ResponseWriter, _ *http.Request) {
	img := s.Frames.Snapshot()
	if img == nil {
		http.Error(w, "no frame drawn yet", http.StatusServiceUnavailable)

		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		slog.Error("Failed to encode frame", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write frame", "error", err)
	}
}

type rectJSON struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

func toRectJSON(r image.Rectangle) rectJSON {
	return rectJSON{Left: r.Min.X, Top: r.Min.Y, Right: r.Max.X, Bottom: r.Max.Y}
}

type buttonJSON struct {
	Code  int      `json:"code"`
	Label string   `json:"label"`
	Skin  rectJSON `json:"skin"`
	View  rectJSON `json:"view"`
}

// LayoutJSON is the document served at /layout.json.
type LayoutJSON struct {
	View       rectJSON     `json:"view"`
	Visible    rectJSON     `json:"visible"`
	ScreenView rectJSON     `json:"screenView"`
	ButtonView rectJSON     `json:"buttonView"`
	Pixels     rectJSON     `json:"pixels"`
	Buttons    []buttonJSON `json:"buttons"`
}

// BuildLayoutJSON describes g and the buttons of l.
func BuildLayoutJSON(g layout.Geometry, l Layout) LayoutJSON {
	doc := LayoutJSON{
		View:       toRectJSON(g.View),
		Visible:    toRectJSON(g.Visible),
		ScreenView: toRectJSON(g.ScreenView),
		ButtonView: toRectJSON(g.ButtonView),
		Pixels:     toRectJSON(g.Pixels),
		Buttons:    make([]buttonJSON, 0),
	}

	for _, b := range l.Buttons().Buttons() {
		doc.Buttons = append(doc.Buttons, buttonJSON{
			Code:  int(b.Code),
			Label: layout.KeyLabel(b.Code),
			Skin:  toRectJSON(b.Rect),
			View:  toRectJSON(g.ButtonToView(b.Rect)),
		})
	}

	return doc
}

// LayoutHandle serves the current geometry and button rectangles.
func (s *ServerHandler) LayoutHandle(w http.ResponseWriter, _ *http.Request) {
	g, ok := s.Layout.Geometry()
	if !ok {
		http.Error(w, "keypad has no layout", http.StatusServiceUnavailable)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(BuildLayoutJSON(g, s.Layout)); err != nil {
		slog.Error("Failed to write layout", "error", err)
	}
}
