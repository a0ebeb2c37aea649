package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/seasoncal/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET    /health
//	GET    /api/v1/date/now
//	GET    /api/v1/date/ordinal/{n}
//	POST   /api/v1/date/resolve
//	POST   /api/v1/date/add
//	POST   /api/v1/date/compare
//	GET    /api/v1/calendar/{year}/{season}
//	GET    /api/v1/events
//	GET    /api/v1/events/{id}
//	PUT    /api/v1/clock               (API key)
//	POST   /api/v1/clock/advance       (API key)
//	POST   /api/v1/events              (API key)
//	DELETE /api/v1/events/{id}         (API key)
func SetupRoutes(handlers *Handlers, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		LoggingMiddleware(logger),
		CORSMiddleware(),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", "METHOD_NOT_ALLOWED")
	})

	r.Get("/health", handlers.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Get("/date/now", handlers.GetNow)
		r.Get("/date/ordinal/{n}", handlers.GetByOrdinal)
		r.Post("/date/resolve", handlers.ResolveDate)
		r.Post("/date/add", handlers.AddDays)
		r.Post("/date/compare", handlers.CompareDates)
		r.Get("/calendar/{year}/{season}", handlers.GetSeasonCalendar)
		r.Get("/events", handlers.ListEvents)
		r.Get("/events/{id}", handlers.GetEvent)

		// Routes that change game state
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg, logger))
			r.Put("/clock", handlers.SetClock)
			r.Post("/clock/advance", handlers.AdvanceClock)
			r.Post("/events", handlers.CreateEvent)
			r.Delete("/events/{id}", handlers.DeleteEvent)
		})
	})

	return r
}
