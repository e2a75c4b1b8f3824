package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wikilearn/wikilearn-api/internal/api"
	apimiddleware "github.com/wikilearn/wikilearn-api/internal/api/middleware"
)

// setupRouter configures the router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)
	reviewHandler := api.NewReviewHandler(app.reviewService, app.logger)
	progressionHandler := api.NewProgressionHandler(app.progressionService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/reviews/{cardID}", reviewHandler.SubmitReview)
			r.Get("/reviews/due", reviewHandler.GetDueCards)
			r.Get("/reviews/learning", reviewHandler.GetLearningCards)
			r.Get("/reviews/progress", reviewHandler.GetProgress)

			r.Post("/xp/awards", progressionHandler.AwardXp)
			r.Post("/streak", progressionHandler.UpdateStreak)
			r.Get("/xp/stats", progressionHandler.GetStats)
			r.Get("/xp/heatmap", progressionHandler.GetHeatmap)
		})
	})

	r.Method(
		http.MethodGet,
		"/metrics",
		promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}),
	)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
