package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/tales-api/internal/api"
	apiMiddleware "github.com/phrazzld/tales-api/internal/api/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (a *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.TraceMiddleware(a.logger))
	r.Use(apiMiddleware.Metrics)
	r.Use(middleware.Recoverer)

	storyHandler := api.NewStoryHandler(a.storyService, a.logger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/stories", storyHandler.CreateStory)
		r.Get("/stories", storyHandler.ListStories)
		r.Get("/stories/{id}", storyHandler.GetStory)
		r.Delete("/stories/{id}", storyHandler.DeleteStory)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			a.logger.Error("failed to write health check response")
		}
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
