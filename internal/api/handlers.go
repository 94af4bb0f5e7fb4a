package api

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

// urlParam returns a decoded route parameter. Commune names contain spaces,
// which arrive percent-encoded.
func urlParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if dec, err := url.PathUnescape(v); err == nil {
		return dec
	}
	return v
}

// Handlers contains HTTP handlers and their dependencies
type Handlers struct {
	lookups *LookupService
}

// NewHandlers creates a new Handlers instance
func NewHandlers(lookups *LookupService) *Handlers {
	return &Handlers{lookups: lookups}
}

// GetParcel handles GET /api/parcels/{id}
func (h *Handlers) GetParcel(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")

	rec, ok, err := h.lookups.Parcel(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "parcel not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}

// GetCommune handles GET /api/communes/{name}
func (h *Handlers) GetCommune(w http.ResponseWriter, r *http.Request) {
	name := urlParam(r, "name")

	canonical, agg, ok, err := h.lookups.Commune(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "commune not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"commune": canonical,
		"count":   agg.Count,
		"parcels": agg.Parcels,
	})
}

// ListCommunes handles GET /api/communes
func (h *Handlers) ListCommunes(w http.ResponseWriter, r *http.Request) {
	communes, err := h.lookups.Communes()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(communes)
}

// Health handles GET /api/health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "ok",
		"loaded": h.lookups.Loaded(),
	})
}
