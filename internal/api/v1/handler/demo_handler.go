package handler

import (
	"net/http"

	"app/internal/middleware"
	"app/internal/service"

	"github.com/rs/zerolog"
)

// DemoHandler handles demo data reset and seed endpoints.
type DemoHandler struct {
	demoSvc *service.DemoService
	logger  zerolog.Logger
}

// NewDemoHandler creates a new DemoHandler.
func NewDemoHandler(demoSvc *service.DemoService, logger zerolog.Logger) *DemoHandler {
	return &DemoHandler{demoSvc: demoSvc, logger: logger}
}

// RegisterRoutes mounts demo routes.
func (h *DemoHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/demo/reset", authMw(http.HandlerFunc(h.reset)))
	mux.Handle("/demo/seed", authMw(http.HandlerFunc(h.seed)))
}

// reset godoc
// @Summary Delete all demo data for the account
// @Description Removes demo jobs, technicians, snapshots and recommendations, disables demo mode, and reports per-table counts.
// @Tags demo
// @Produce json
// @Success 200 {object} service.DemoResetStats
// @Failure 401 {string} string "unauthorized"
// @Router /demo/reset [post]
func (h *DemoHandler) reset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	stats, err := h.demoSvc.Reset(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to reset demo data")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, stats)
}

// seed godoc
// @Summary Populate demo data
// @Description Seeds sample technicians and completed jobs for accounts in demo mode.
// @Tags demo
// @Produce json
// @Success 200 {object} service.DemoSeedStats
// @Failure 403 {string} string "demo mode is not enabled"
// @Router /demo/seed [post]
func (h *DemoHandler) seed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	stats, err := h.demoSvc.Seed(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to seed demo data")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, stats)
}
