package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/oceaninsight/internal/api"
	apiMiddleware "github.com/phrazzld/oceaninsight/internal/api/middleware"
)

// setupRouter creates the router with the standard middleware stack and
// every entry route.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	entryHandler := api.NewEntryHandler(app.entryService, app.logger)
	r.Route("/api/entries", entryHandler.Routes)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", slog.String("error", err.Error()))
		}
	})

	return r
}
