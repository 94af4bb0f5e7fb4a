package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates and configures the Chi router
func NewRouter(lookups *LookupService) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(Logger)
	r.Use(CORS)

	// Create handlers
	h := NewHandlers(lookups)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/parcels/{id}", h.GetParcel)
		r.Get("/communes", h.ListCommunes)
		r.Get("/communes/{name}", h.GetCommune)
		r.Get("/health", h.Health)
	})

	return r
}
