// Package api assembles the HTTP router of the tutor orchestrator.
package api

import (
	"net/http"

	"github.com/aitutor/orchestrator/internal/api/handlers"
	"github.com/aitutor/orchestrator/internal/api/middleware"
	"github.com/aitutor/orchestrator/internal/config"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates the HTTP router with all API routes.
func NewRouter(cfg *config.Config, h *handlers.Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.Logger)
	r.Use(middleware.Telemetry)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", rootHandler(cfg, h))
	r.Get("/health", healthHandler(h))
	r.Get("/version", versionHandler(cfg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/ask", h.AskTutor)
		r.Get("/history", h.History)
		r.Get("/graph", h.Graph)
	})

	return r
}

func rootHandler(cfg *config.Config, h *handlers.Handlers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]any{
			"message":                "Tutor Orchestrator API is running",
			"agent":                  h.Agent.Name(),
			"academic_configured":    cfg.Models.AcademicAPIKey != "",
			"coding_configured":      cfg.Models.CodingAPIKey != "",
			"coding_fallback_models": cfg.Models.FallbackModels,
		})
	}
}

func healthHandler(h *handlers.Handlers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "healthy"
		code := http.StatusOK
		if err := h.Store.Ping(r.Context()); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		handlers.RespondJSON(w, code, map[string]string{
			"status":   status,
			"database": "sqlite",
		})
	}
}

func versionHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{
			"version": cfg.Version,
			"service": "tutor-orchestrator",
		})
	}
}
