package handler

import (
	"encoding/json"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// ProfileHandler handles profile and derived billing-state endpoints.
type ProfileHandler struct {
	profileSvc *service.ProfileService
	validate   *validator.Validate
	logger     zerolog.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileSvc *service.ProfileService, validate *validator.Validate, logger zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc, validate: validate, logger: logger}
}

// RegisterRoutes mounts profile routes.
func (h *ProfileHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/profiles/me", authMw(http.HandlerFunc(h.handleMe)))
	mux.Handle("/profiles/me/billing", authMw(http.HandlerFunc(h.billingState)))
}

func (h *ProfileHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getProfile(w, r)
	case http.MethodPut, http.MethodPatch:
		h.updateSettings(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// getProfile godoc
// @Summary Get the authenticated user's profile
// @Tags profiles
// @Produce json
// @Success 200 {object} model.Profile
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "profile not found"
// @Router /profiles/me [get]
func (h *ProfileHandler) getProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	profile, err := h.profileSvc.GetProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to get profile")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, profile)
}

// updateSettings godoc
// @Summary Update company and theme settings
// @Tags profiles
// @Accept json
// @Produce json
// @Param settings body dto.SettingsUpdateDTO true "Settings update request"
// @Success 200 {object} model.Profile
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Router /profiles/me [put]
func (h *ProfileHandler) updateSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req dto.SettingsUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	theme := req.ThemePreference
	if theme == "" {
		theme = "light"
	}
	profile, err := h.profileSvc.UpdateSettings(r.Context(), userID, req.CompanyName, theme)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to update settings")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, profile)
}

// billingState godoc
// @Summary Evaluated billing state for the dashboard banner
// @Description Returns the trial/grace/paid phase, urgency, message and countdown.
// @Tags profiles
// @Produce json
// @Success 200 {object} service.BillingView
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "profile not found"
// @Router /profiles/me/billing [get]
func (h *ProfileHandler) billingState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	view, err := h.profileSvc.BillingState(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to evaluate billing state")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, view)
}
