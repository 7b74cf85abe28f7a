package routes

import (
	"log/slog"
	"net/http"

	"github.com/skinpad/skinpad/model"
	cs "github.com/skinpad/skinpad/web/components"
)

// BuildStatsRenderContext builds the render context for the stats page.
func (s *ServerHandler) BuildStatsRenderContext(dbStats []model.KeyCount) cs.RenderContext {
	items, size := InitEmptyItems(s.Layout)

	counts := make(map[model.KeyCode]int, len(dbStats))
	maxVal := 0

	for _, key := range dbStats {
		counts[key.Code] += key.Presses

		if maxVal < counts[key.Code] {
			maxVal = counts[key.Code]
		}
	}

	for i := range items {
		items[i].Count = counts[items[i].Code]
	}

	return cs.RenderContext{Width: size.X, Height: size.Y, Items: items, MaxVal: maxVal, Page: cs.PageTypeStats}
}

// StatsHandle handles requests to the stats page.
func (s *ServerHandler) StatsHandle(w http.ResponseWriter, _ *http.Request) {
	slog.Info("Handling stats page request")

	curStats, err := s.Storage.GatherAll()
	if err != nil {
		slog.Error("Failed to get stats", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	renderContext := s.BuildStatsRenderContext(curStats)

	if err := SafeRenderTemplate(cs.HeatMap(&renderContext), w); err != nil {
		slog.Error("Failed to render stats page", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
