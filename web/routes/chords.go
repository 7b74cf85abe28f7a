package routes

import (
	"cmp"
	"log/slog"
	"net/http"
	"slices"

	"github.com/skinpad/skinpad/db"
	"github.com/skinpad/skinpad/model"
	cs "github.com/skinpad/skinpad/web/components"
)

const maxConnections = 5

// BuildChordsRenderContext counts, for every key, the chords it shares
// with code, and links code to the keys of the most frequent ones.
func (s *ServerHandler) BuildChordsRenderContext(chords []model.Chord, code model.KeyCode) cs.RenderContext {
	return s.buildRelatedContext(chords, code, cs.PageTypeChords)
}

// BuildFollowRenderContext counts how often each key came right after code.
func (s *ServerHandler) BuildFollowRenderContext(follows []model.Chord, code model.KeyCode) cs.RenderContext {
	return s.buildRelatedContext(follows, code, cs.PageTypeFollow)
}

func (s *ServerHandler) buildRelatedContext(chords []model.Chord, code model.KeyCode, page cs.PageType) cs.RenderContext {
	slog.Debug("Building related keys context", "code", code, "chords", len(chords))

	slices.SortFunc(chords, func(a, b model.Chord) int {
		return cmp.Or(
			-cmp.Compare(a.Pressed, b.Pressed),
			slices.Compare(a.Codes, b.Codes),
		)
	})

	items, size := InitEmptyItems(s.Layout)

	counts := make(map[model.KeyCode]int)
	maxVal := 0

	for _, chord := range chords {
		for _, other := range chord.Codes {
			if other == code {
				continue
			}

			counts[other] += chord.Pressed

			if maxVal < counts[other] {
				maxVal = counts[other]
			}
		}
	}

	for i := range items {
		items[i].Count = counts[items[i].Code]
		items[i].Highlight = items[i].Code == code
	}

	connections := make([]cs.Connection, 0, maxConnections)

	for _, chord := range chords {
		for _, other := range chord.Codes {
			if other == code || len(connections) >= maxConnections {
				continue
			}

			connections = append(connections, cs.Connection{From: code, To: other, PressCount: chord.Pressed})
		}
	}

	return cs.RenderContext{
		Width:       size.X,
		Height:      size.Y,
		Items:       items,
		MaxVal:      maxVal,
		Highlight:   code,
		Connections: connections,
		Page:        page,
	}
}

// ChordsHandle handles requests to the chords page.
func (s *ServerHandler) ChordsHandle(w http.ResponseWriter, r *http.Request) {
	slog.Info("Handling chords page request")
	s.relatedHandle(w, r, s.ChordTracker, s.BuildChordsRenderContext)
}

// FollowHandle handles requests to the next-key page.
func (s *ServerHandler) FollowHandle(w http.ResponseWriter, r *http.Request) {
	slog.Info("Handling next-key page request")
	s.relatedHandle(w, r, s.FollowTracker, s.BuildFollowRenderContext)
}

func (s *ServerHandler) relatedHandle(
	w http.ResponseWriter,
	r *http.Request,
	tracker db.Tracker,
	build func([]model.Chord, model.KeyCode) cs.RenderContext,
) {
	code, err := parseCode(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	if tracker == nil {
		http.Error(w, "no tracker configured", http.StatusNotFound)

		return
	}

	renderContext := build(tracker.GatherCombos(code), code)

	if err := SafeRenderTemplate(cs.HeatMap(&renderContext), w); err != nil {
		slog.Error("Failed to render page", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
