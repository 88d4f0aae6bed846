package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Zone control
		r.Route("/zone", func(r chi.Router) {
			r.Get("/", s.handleGetZone)
			r.Post("/effect", s.handleSetEffect)
			r.Post("/power", s.handleSetPower)
			r.Post("/capture", s.handleCapture)
			r.Post("/refresh", s.handleRefresh)
		})

		// Effect names for selection UIs
		r.Get("/effects", s.handleListEffects)

		// Captured pattern library
		r.Route("/patterns", func(r chi.Router) {
			r.Get("/", s.handleListPatterns)

			r.Route("/{name}", func(r chi.Router) {
				r.Patch("/", s.handleRenamePattern)
				r.Delete("/", s.handleDeletePattern)
			})
		})

		// WebSocket for live state updates
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
