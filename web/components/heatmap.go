package components

import (
	"context"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"
	"github.com/skinpad/skinpad/layout"
)

var heatMapTemplate = template.Must(template.New("heatmap").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>skinpad: {{ .Title }}</title>
    <style>
        body { font-family: sans-serif; background: #222; color: #eee; }
        nav a { color: #9cf; margin-right: 1em; }
        .key { fill-opacity: 0.55; stroke: #111; }
        .key.selected { stroke: #fff; stroke-width: 3; }
        .count { font-size: 12px; fill: #000; text-anchor: middle; pointer-events: none; }
        .link { stroke: #f80; stroke-opacity: 0.8; }
    </style>
</head>
<body>
    <nav>
        <a href="/">Presses</a>
        {{- if .SwitchLink }}
        <a href="{{ .SwitchLink }}">{{ .SwitchText }}</a>
        {{- end }}
        <a href="/layout.json">Layout</a>
    </nav>
    <h1>{{ .Title }}</h1>
    <svg width="{{ .Width }}" height="{{ .Height }}" viewBox="0 0 {{ .Width }} {{ .Height }}">
        <image href="/view.png" x="0" y="0" width="{{ .Width }}" height="{{ .Height }}"/>
        {{- range .Items }}
        <a href="{{ .Link }}">
            <title>{{ .Label }}: {{ .Count }}</title>
            <rect class="{{ .Class }}" x="{{ .X }}" y="{{ .Y }}" width="{{ .W }}" height="{{ .H }}" rx="5" fill="{{ .Color }}"/>
            <text class="count" x="{{ .CX }}" y="{{ .CY }}">{{ .Count }}</text>
        </a>
        {{- end }}
        {{- range .Lines }}
        <line class="link" x1="{{ .X1 }}" y1="{{ .Y1 }}" x2="{{ .X2 }}" y2="{{ .Y2 }}" stroke-width="{{ printf "%.1f" .Width }}">
            <title>{{ .Count }}</title>
        </line>
        {{- end }}
    </svg>
</body>
</html>
`))

type itemView struct {
	Label      string
	Count      int
	Link       string
	Color      string
	Class      string
	X, Y, W, H int
	CX, CY     int
}

type lineView struct {
	X1, Y1, X2, Y2 int
	Width          float64
	Count          int
}

type pageView struct {
	Title      string
	Width      int
	Height     int
	SwitchLink string
	SwitchText string
	Items      []itemView
	Lines      []lineView
}

// HeatMap renders a page of per-key counts over the composited keypad.
func HeatMap(rc *RenderContext) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if err := heatMapTemplate.Execute(w, buildPageView(rc)); err != nil {
			return fmt.Errorf("could not render heatmap: %w", err)
		}

		return nil
	})
}

func pageTitle(rc *RenderContext) string {
	switch rc.Page {
	case PageTypeChords:
		return "Chords with " + layout.KeyLabel(rc.Highlight)
	case PageTypeFollow:
		return "Keys pressed after " + layout.KeyLabel(rc.Highlight)
	case PageTypeStats:
		return "Presses"
	default:
		return "Presses"
	}
}

func buildPageView(rc *RenderContext) pageView {
	page := pageView{
		Title:      pageTitle(rc),
		Width:      rc.Width,
		Height:     rc.Height,
		SwitchLink: getSwitchModeLink(rc.Highlight, rc.Page),
		SwitchText: getSwitchModeButtonText(rc.Page),
		Items:      make([]itemView, 0, len(rc.Items)),
	}

	centers := make(map[int]Item)

	for _, item := range rc.Items {
		class := "key"
		if item.Highlight {
			class = "key selected"
		}

		c := Center(item.Rect)
		page.Items = append(page.Items, itemView{
			Label: item.Label,
			Count: item.Count,
			Link:  getLinkForCode(item.Code, rc.Page),
			Color: HeatColor(item.Count, rc.MaxVal),
			Class: class,
			X:     item.Rect.Min.X,
			Y:     item.Rect.Min.Y,
			W:     item.Rect.Dx(),
			H:     item.Rect.Dy(),
			CX:    c.X,
			CY:    c.Y + 4,
		})

		if _, ok := centers[int(item.Code)]; !ok {
			centers[int(item.Code)] = item
		}
	}

	for _, conn := range rc.Connections {
		from, okFrom := centers[int(conn.From)]
		to, okTo := centers[int(conn.To)]

		if !okFrom || !okTo {
			continue
		}

		a, b := Center(from.Rect), Center(to.Rect)
		page.Lines = append(page.Lines, lineView{
			X1: a.X, Y1: a.Y, X2: b.X, Y2: b.Y,
			Width: strokeWidth(conn.PressCount, rc.MaxVal),
			Count: conn.PressCount,
		})
	}

	return page
}
