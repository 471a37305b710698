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

// TechnicianHandler handles technician CRUD and per-technician KPI
// endpoints.
type TechnicianHandler struct {
	techSvc      *service.TechnicianService
	analyticsSvc *service.AnalyticsService
	validate     *validator.Validate
	logger       zerolog.Logger
}

// NewTechnicianHandler creates a new TechnicianHandler.
func NewTechnicianHandler(techSvc *service.TechnicianService, analyticsSvc *service.AnalyticsService, validate *validator.Validate, logger zerolog.Logger) *TechnicianHandler {
	return &TechnicianHandler{techSvc: techSvc, analyticsSvc: analyticsSvc, validate: validate, logger: logger}
}

// RegisterRoutes mounts technician routes.
func (h *TechnicianHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/technicians", authMw(http.HandlerFunc(h.handleCollection)))
	mux.Handle("/technicians/", authMw(http.HandlerFunc(h.handleItem)))
}

func (h *TechnicianHandler) handleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listTechnicians(w, r)
	case http.MethodPost:
		h.createTechnician(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *TechnicianHandler) handleItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/technicians/")
	if rest, ok := strings.CutSuffix(id, "/kpis"); ok && rest != "" && !strings.Contains(rest, "/") {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.technicianKpis(w, r, rest)
		return
	}
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.getTechnician(w, r, id)
	case http.MethodPut, http.MethodPatch:
		h.updateTechnician(w, r, id)
	case http.MethodDelete:
		h.deleteTechnician(w, r, id)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// listTechnicians godoc
// @Summary List technicians for the authenticated user
// @Tags technicians
// @Produce json
// @Success 200 {array} model.Technician
// @Failure 401 {string} string "unauthorized"
// @Router /technicians [get]
func (h *TechnicianHandler) listTechnicians(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	techs, err := h.techSvc.ListTechnicians(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to list technicians")
		return
	}
	if techs == nil {
		techs = []model.Technician{}
	}
	writeJSON(w, h.logger, http.StatusOK, techs)
}

// createTechnician godoc
// @Summary Create a technician
// @Description Adds a technician, subject to the plan's technician cap.
// @Tags technicians
// @Accept json
// @Produce json
// @Param technician body dto.TechnicianCreateDTO true "Technician creation request"
// @Success 201 {object} model.Technician
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 403 {string} string "plan technician limit reached"
// @Router /technicians [post]
func (h *TechnicianHandler) createTechnician(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req dto.TechnicianCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	tech := &model.Technician{
		UserID: userID,
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Status: req.Status,
	}
	created, err := h.techSvc.CreateTechnician(r.Context(), tech)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to create technician")
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, created)
}

// getTechnician godoc
// @Summary Get one technician
// @Tags technicians
// @Produce json
// @Param id path string true "Technician ID"
// @Success 200 {object} model.Technician
// @Failure 404 {string} string "technician not found"
// @Router /technicians/{id} [get]
func (h *TechnicianHandler) getTechnician(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	tech, err := h.techSvc.GetTechnician(r.Context(), userID, id)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to get technician")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, tech)
}

// updateTechnician godoc
// @Summary Update a technician
// @Tags technicians
// @Accept json
// @Produce json
// @Param id path string true "Technician ID"
// @Param technician body dto.TechnicianUpdateDTO true "Technician update request"
// @Success 200 {object} model.Technician
// @Failure 404 {string} string "technician not found"
// @Router /technicians/{id} [put]
func (h *TechnicianHandler) updateTechnician(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req dto.TechnicianUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	tech, err := h.techSvc.GetTechnician(r.Context(), userID, id)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to get technician")
		return
	}
	if req.Name != nil {
		tech.Name = *req.Name
	}
	if req.Email != nil {
		tech.Email = req.Email
	}
	if req.Phone != nil {
		tech.Phone = req.Phone
	}
	if req.Status != nil {
		tech.Status = *req.Status
	}

	updated, err := h.techSvc.UpdateTechnician(r.Context(), tech)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to update technician")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, updated)
}

// deleteTechnician godoc
// @Summary Delete a technician
// @Tags technicians
// @Param id path string true "Technician ID"
// @Success 204 {string} string "deleted"
// @Failure 404 {string} string "technician not found"
// @Router /technicians/{id} [delete]
func (h *TechnicianHandler) deleteTechnician(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if err := h.techSvc.DeleteTechnician(r.Context(), userID, id); err != nil {
		writeServiceError(w, h.logger, err, "failed to delete technician")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// technicianKpis godoc
// @Summary Per-technician KPIs over a range
// @Description Computes one technician's completed-job metrics over the past N days (default 30).
// @Tags technicians
// @Produce json
// @Param id path string true "Technician ID"
// @Param days query int false "Range length in days"
// @Success 200 {object} kpi.TechnicianData
// @Failure 403 {string} string "range not available on current plan"
// @Failure 404 {string} string "technician not found"
// @Router /technicians/{id}/kpis [get]
func (h *TechnicianHandler) technicianKpis(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	start, end, err := rangeFromQuery(r, 30)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	data, err := h.analyticsSvc.TechnicianKpis(r.Context(), userID, id, start, end)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to compute technician kpis")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, data)
}
