package components

import (
	"image"

	"github.com/skinpad/skinpad/model"
)

type PageType int

const (
	PageTypeStats PageType = iota
	PageTypeChords
	PageTypeFollow
)

// Item is one skin button on the heatmap. Rect is in view pixels, the
// space of the composited keypad image drawn underneath.
type Item struct {
	Code      model.KeyCode
	Label     string
	Count     int
	Rect      image.Rectangle
	Highlight bool
}

// Connection links the selected key to a key seen with it.
type Connection struct {
	From       model.KeyCode
	To         model.KeyCode
	PressCount int
}

type RenderContext struct {
	Width       int
	Height      int
	Items       []Item
	MaxVal      int
	Highlight   model.KeyCode
	Connections []Connection
	Page        PageType
}
