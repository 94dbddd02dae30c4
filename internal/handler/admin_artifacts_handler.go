package handler

import (
	"encoding/json"
	"net/http"

	"nodosml-recsys/internal/service"

	"github.com/go-chi/chi/v5"
)

type AdminArtifactsHandler struct {
	svc *service.AdminArtifactsService
}

func NewAdminArtifactsHandler(s *service.AdminArtifactsService) *AdminArtifactsHandler {
	return &AdminArtifactsHandler{svc: s}
}

// MountAdminArtifactsRoutes monta las rutas de mantenimiento (dentro
// del grupo admin).
func MountAdminArtifactsRoutes(r chi.Router, h *AdminArtifactsHandler) {
	r.Get("/admin/artifacts/summary", h.GetSummary)
	r.Post("/admin/artifacts/reload", h.PostReload)
}

// @Summary Resumen del set de artefactos servido
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Router /admin/artifacts/summary [get]
func (h *AdminArtifactsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.svc.Summary(r.Context()))
}

// @Summary Recargar el set de artefactos desde disco (todo o nada)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Router /admin/artifacts/reload [post]
func (h *AdminArtifactsHandler) PostReload(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	summary, err := h.svc.Reload(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(summary)
}
