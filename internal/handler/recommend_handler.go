package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"nodosml-recsys/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

type RecommendHandler struct {
	svc *service.RecommendService
}

func NewRecommendHandler(s *service.RecommendService) *RecommendHandler {
	return &RecommendHandler{svc: s}
}

// parseK valida el parámetro k antes de tocar el motor: ausente usa el
// default, fuera de [1, MaxK] se rechaza (no se recorta en silencio).
func parseK(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("k")
	if raw == "" {
		return service.DefaultK, true
	}
	k, err := strconv.Atoi(raw)
	if err != nil || k < 1 || k > service.MaxK {
		return 0, false
	}
	return k, true
}

// @Summary Películas populares (ranking global precalculado)
// @Tags recommend
// @Produce json
// @Param user_id query int false "userId, solo para atribución en logs"
// @Param k query int false "cantidad de recomendaciones (1..200, default 10)"
// @Success 200 {array} models.RecItem
// @Router /recommend/popular [get]
func (h *RecommendHandler) GetPopular(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	k, ok := parseK(r)
	if !ok {
		http.Error(w, "k fuera de rango", http.StatusBadRequest)
		return
	}

	var userID *int
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil {
			userID = &id
		}
	}

	items := h.svc.Popular(r.Context(), userID, k)
	_ = json.NewEncoder(w).Encode(items)
}

type byTitlesRequest struct {
	Titles []string `json:"titles"`
}

// @Summary Recomendaciones por títulos semilla (contenido)
// @Tags recommend
// @Accept json
// @Produce json
// @Param k query int false "cantidad de recomendaciones (1..200, default 10)"
// @Success 200 {array} models.RecItem
// @Failure 404 {string} string "ningún título resuelve"
// @Router /recommend/by-titles [post]
func (h *RecommendHandler) PostByTitles(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	k, ok := parseK(r)
	if !ok {
		http.Error(w, "k fuera de rango", http.StatusBadRequest)
		return
	}

	var req byTitlesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if len(req.Titles) == 0 {
		http.Error(w, "titles no puede estar vacío", http.StatusBadRequest)
		return
	}

	items := h.svc.ByTitles(r.Context(), req.Titles, k)
	if len(items) == 0 {
		http.Error(w, "ningún título semilla resuelve", http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(items)
}

// itemCF comparte la lógica entre /me y /users/{id}.
func (h *RecommendHandler) itemCF(w http.ResponseWriter, r *http.Request, userID int) {
	k, ok := parseK(r)
	if !ok {
		http.Error(w, "k fuera de rango", http.StatusBadRequest)
		return
	}
	refresh := r.URL.Query().Get("refresh") == "true"

	items := h.svc.ItemCF(r.Context(), userID, k, refresh)
	if len(items) == 0 {
		// usuario sin historial usable: not found, nunca excepción
		http.Error(w, "sin historial para el usuario", http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(items)
}

// @Summary Recomendaciones del usuario autenticado (item-based CF)
// @Tags recommend
// @Produce json
// @Security BearerAuth
// @Param k query int false "cantidad de recomendaciones (1..200, default 10)"
// @Param refresh query bool false "si true, ignora cache Redis"
// @Success 200 {array} models.RecItem
// @Router /me/recommendations [get]
func (h *RecommendHandler) GetMyRecommendations(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	h.itemCF(w, r, UserIDFromContext(r.Context()))
}

// @Summary Historial de listas recomendadas servidas al usuario
// @Tags recommend
// @Produce json
// @Security BearerAuth
// @Param limit query int false "máximo de listas (default 20)"
// @Success 200 {array} models.Recommendation
// @Router /me/recommendations/history [get]
func (h *RecommendHandler) GetMyRecommendationHistory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	recs, err := h.svc.ServedHistory(r.Context(), UserIDFromContext(r.Context()), int64(limit))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(recs)
}

// @Summary Recomendaciones para un usuario (admin)
// @Tags recommend
// @Produce json
// @Security BearerAuth
// @Param id path int true "userId"
// @Param k query int false "cantidad de recomendaciones (1..200, default 10)"
// @Param refresh query bool false "si true, ignora cache Redis"
// @Success 200 {array} models.RecItem
// @Router /users/{id}/recommendations [get]
func (h *RecommendHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "id inválido", http.StatusBadRequest)
		return
	}
	h.itemCF(w, r, userID)
}

// upgrader global (no afecta a swagger)
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary Recomendaciones en tiempo real (WebSocket)
// @Tags recommend
// @Produce json
// @Security BearerAuth
// @Param id path int true "userId"
// @Router /users/{id}/ws/recommendations [get]
func (h *RecommendHandler) GetRecommendationsWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "No se pudo abrir WebSocket", http.StatusBadRequest)
		return
	}
	defer conn.Close()

	userID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	k, ok := parseK(r)
	if !ok {
		conn.WriteJSON(map[string]any{"type": "error", "error": "k fuera de rango"})
		return
	}
	refresh := r.URL.Query().Get("refresh") == "true"

	conn.WriteJSON(map[string]any{
		"type": "start",
		"msg":  "Conexión WS abierta, calculando recomendaciones…",
	})

	items := h.svc.ItemCF(r.Context(), userID, k, refresh)

	conn.WriteJSON(map[string]any{
		"type":        "recommendations",
		"userId":      userID,
		"items":       items,
		"generatedAt": time.Now(),
	})
}
