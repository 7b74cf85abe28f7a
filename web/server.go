// Package web serves the keypad inspector.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/skinpad/skinpad/logging"
	"github.com/skinpad/skinpad/web/routes"
)

const shutdownTimeout = 5 * time.Second

func disableCacheInDevMode(dev bool, next http.Handler) http.Handler {
	if !dev {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

func BuildServer(handler *routes.ServerHandler, dev bool) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("GET /chords", disableCacheInDevMode(dev, http.HandlerFunc(handler.ChordsHandle)))
	mux.Handle("GET /next", disableCacheInDevMode(dev, http.HandlerFunc(handler.FollowHandle)))
	mux.Handle("GET /view.png", http.HandlerFunc(handler.ViewHandle))
	mux.Handle("GET /layout.json", disableCacheInDevMode(dev, http.HandlerFunc(handler.LayoutHandle)))
	mux.Handle("GET /{$}", disableCacheInDevMode(dev, http.HandlerFunc(handler.StatsHandle)))

	return mux
}

// StartServer serves the inspector on port until ctx is done.
func StartServer(ctx context.Context, port int, handler *routes.ServerHandler, dev bool) error {
	ctx = logging.AppendCtx(ctx, slog.String(logging.PackageName, "web"))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           BuildServer(handler, dev),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(ctx, "Could not shut down server", "error", err)
		}
	}()

	slog.InfoContext(ctx, "Running interface", "port", port)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("could not run server: %w", err)
	}

	return nil
}
