// Package models serves the static, configured model list at
// GET /v1/models and GET /v1/models/{id}. Straico has no listing endpoint
// the gateway could proxy, so the list is operator-configured.
package models

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tjfontaine/straico-gateway/internal/config"
	"github.com/tjfontaine/straico-gateway/internal/domain"
)

// Handler serves the configured model list.
type Handler struct {
	models []domain.Model
}

// New builds a Handler from the configured model list, filling in
// "model"/"straico" when an entry omits Object/OwnedBy.
func New(items []config.ModelListItem) *Handler {
	models := make([]domain.Model, 0, len(items))
	for _, it := range items {
		m := domain.Model{ID: it.ID, Object: it.Object, OwnedBy: it.OwnedBy, Created: it.Created}
		if m.Object == "" {
			m.Object = "model"
		}
		if m.OwnedBy == "" {
			m.OwnedBy = "straico"
		}
		models = append(models, m)
	}
	return &Handler{models: models}
}

// List handles GET /v1/models.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(domain.ModelList{Object: "list", Data: h.models})
}

// Get handles GET /v1/models/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	for _, m := range h.models {
		if m.ID == id {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(m)
			return
		}
	}
	apiErr := domain.ErrNotFound("no such model: " + id)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.HTTPStatusCode())
	json.NewEncoder(w).Encode(apiErr.ToBody())
}
