package handler

import (
	"encoding/json"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/model"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// LeadHandler handles public landing-page capture endpoints. No auth
// middleware is applied here.
type LeadHandler struct {
	leadSvc  *service.LeadService
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewLeadHandler creates a new LeadHandler.
func NewLeadHandler(leadSvc *service.LeadService, validate *validator.Validate, logger zerolog.Logger) *LeadHandler {
	return &LeadHandler{leadSvc: leadSvc, validate: validate, logger: logger}
}

// RegisterRoutes mounts the public lead endpoints.
func (h *LeadHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/leads/email", http.HandlerFunc(h.captureEmail))
	mux.Handle("/leads/consultation", http.HandlerFunc(h.requestConsultation))
}

// captureEmail godoc
// @Summary Capture a landing-page email lead
// @Description Stores an email lead. Duplicate submissions succeed silently.
// @Tags leads
// @Accept json
// @Produce json
// @Param lead body dto.EmailLeadDTO true "Email lead"
// @Success 201 {object} map[string]bool
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Router /leads/email [post]
func (h *LeadHandler) captureEmail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.EmailLeadDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.leadSvc.CaptureEmail(r.Context(), req.Email, req.Source); err != nil {
		writeServiceError(w, h.logger, err, "failed to capture email lead")
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, map[string]bool{"captured": true})
}

// requestConsultation godoc
// @Summary Submit a consultation request
// @Tags leads
// @Accept json
// @Produce json
// @Param request body dto.ConsultationRequestDTO true "Consultation request"
// @Success 201 {object} map[string]bool
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Router /leads/consultation [post]
func (h *LeadHandler) requestConsultation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.ConsultationRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	cr := &model.ConsultationRequest{
		Name:        req.Name,
		Email:       req.Email,
		CompanyName: req.CompanyName,
		Phone:       req.Phone,
		Message:     req.Message,
	}
	if err := h.leadSvc.RequestConsultation(r.Context(), cr); err != nil {
		writeServiceError(w, h.logger, err, "failed to submit consultation request")
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, map[string]bool{"received": true})
}
