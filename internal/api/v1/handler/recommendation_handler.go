package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// RecommendationHandler handles insight endpoints.
type RecommendationHandler struct {
	recSvc   *service.RecommendationService
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewRecommendationHandler creates a new RecommendationHandler.
func NewRecommendationHandler(recSvc *service.RecommendationService, validate *validator.Validate, logger zerolog.Logger) *RecommendationHandler {
	return &RecommendationHandler{recSvc: recSvc, validate: validate, logger: logger}
}

// RegisterRoutes mounts recommendation routes.
func (h *RecommendationHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/recommendations", authMw(http.HandlerFunc(h.handleCollection)))
	mux.Handle("/recommendations/", authMw(http.HandlerFunc(h.handleItem)))
}

func (h *RecommendationHandler) handleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *RecommendationHandler) handleItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/recommendations/")
	if rest, ok := strings.CutSuffix(id, "/dismiss"); ok && rest != "" && !strings.Contains(rest, "/") {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.dismiss(w, r, rest)
		return
	}
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodPut, http.MethodPatch:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// list godoc
// @Summary List recommendations for the authenticated user
// @Tags recommendations
// @Produce json
// @Success 200 {array} model.Recommendation
// @Failure 401 {string} string "unauthorized"
// @Router /recommendations [get]
func (h *RecommendationHandler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	recs, err := h.recSvc.ListRecommendations(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to list recommendations")
		return
	}
	if recs == nil {
		recs = []model.Recommendation{}
	}
	writeJSON(w, h.logger, http.StatusOK, recs)
}

// create godoc
// @Summary Create a recommendation
// @Tags recommendations
// @Accept json
// @Produce json
// @Param recommendation body dto.RecommendationCreateDTO true "Recommendation creation request"
// @Success 201 {object} model.Recommendation
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Router /recommendations [post]
func (h *RecommendationHandler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req dto.RecommendationCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	rec := &model.Recommendation{UserID: userID, Title: req.Title, Body: req.Body, Category: req.Category}
	created, err := h.recSvc.CreateRecommendation(r.Context(), rec)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to create recommendation")
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, created)
}

// update godoc
// @Summary Update a recommendation
// @Tags recommendations
// @Accept json
// @Produce json
// @Param id path string true "Recommendation ID"
// @Param recommendation body dto.RecommendationUpdateDTO true "Recommendation update request"
// @Success 200 {object} model.Recommendation
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 404 {string} string "recommendation not found"
// @Router /recommendations/{id} [put]
func (h *RecommendationHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req dto.RecommendationUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	rec := &model.Recommendation{
		ID:        id,
		UserID:    userID,
		Title:     req.Title,
		Body:      req.Body,
		Category:  req.Category,
		Dismissed: req.Dismissed,
	}
	updated, err := h.recSvc.UpdateRecommendation(r.Context(), rec)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to update recommendation")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, updated)
}

// dismiss godoc
// @Summary Dismiss a recommendation
// @Tags recommendations
// @Param id path string true "Recommendation ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {string} string "recommendation not found"
// @Router /recommendations/{id}/dismiss [post]
func (h *RecommendationHandler) dismiss(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if err := h.recSvc.DismissRecommendation(r.Context(), userID, id); err != nil {
		writeServiceError(w, h.logger, err, "failed to dismiss recommendation")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]bool{"dismissed": true})
}

// delete godoc
// @Summary Delete a recommendation
// @Tags recommendations
// @Param id path string true "Recommendation ID"
// @Success 204 {string} string "deleted"
// @Failure 404 {string} string "recommendation not found"
// @Router /recommendations/{id} [delete]
func (h *RecommendationHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if err := h.recSvc.DeleteRecommendation(r.Context(), userID, id); err != nil {
		writeServiceError(w, h.logger, err, "failed to delete recommendation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
