package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"app/internal/middleware"
	"app/internal/model"
	"app/internal/service"

	"github.com/rs/zerolog"
)

// AnalyticsHandler handles KPI and snapshot endpoints.
type AnalyticsHandler struct {
	analyticsSvc *service.AnalyticsService
	logger       zerolog.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsSvc *service.AnalyticsService, logger zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsSvc: analyticsSvc, logger: logger}
}

// RegisterRoutes mounts analytics routes.
func (h *AnalyticsHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/analytics/kpis", authMw(http.HandlerFunc(h.kpis)))
	mux.Handle("/analytics/snapshots", authMw(http.HandlerFunc(h.snapshots)))
	mux.Handle("/analytics/snapshots/generate", authMw(http.HandlerFunc(h.generateSnapshots)))
}

// rangeFromQuery turns a ?days=N query parameter into a [now-N, now] window.
func rangeFromQuery(r *http.Request, defaultDays int) (time.Time, time.Time, error) {
	days := defaultDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid days parameter %q", raw)
		}
		days = n
	}
	end := time.Now()
	return end.AddDate(0, 0, -days), end, nil
}

// kpis godoc
// @Summary Dashboard KPIs over a range
// @Description Computes the ten business metrics from completed jobs over the past N days (default 30).
// @Tags analytics
// @Produce json
// @Param days query int false "Range length in days"
// @Success 200 {object} kpi.Data
// @Failure 400 {string} string "invalid days parameter"
// @Failure 403 {string} string "range not available on current plan"
// @Router /analytics/kpis [get]
func (h *AnalyticsHandler) kpis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
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
	data, err := h.analyticsSvc.KpisForRange(r.Context(), userID, start, end)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to compute kpis")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, data)
}

// snapshots godoc
// @Summary Daily KPI snapshots over a range
// @Description Returns the stored daily rollups for trend charts over the past N days (default 30).
// @Tags analytics
// @Produce json
// @Param days query int false "Range length in days"
// @Success 200 {array} model.AnalyticsSnapshot
// @Failure 403 {string} string "range not available on current plan"
// @Router /analytics/snapshots [get]
func (h *AnalyticsHandler) snapshots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
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
	snapshots, err := h.analyticsSvc.SnapshotsForRange(r.Context(), userID, start, end)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to list snapshots")
		return
	}
	if snapshots == nil {
		snapshots = []model.AnalyticsSnapshot{}
	}
	writeJSON(w, h.logger, http.StatusOK, snapshots)
}

// generateSnapshots godoc
// @Summary Rebuild daily KPI snapshots
// @Description Regenerates the per-day rollups for the past daysBack days (default 90).
// @Tags analytics
// @Accept json
// @Produce json
// @Param body body object false "{\"days_back\": 90}"
// @Success 200 {object} map[string]int
// @Failure 401 {string} string "unauthorized"
// @Router /analytics/snapshots/generate [post]
func (h *AnalyticsHandler) generateSnapshots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		DaysBack int `json:"days_back"`
	}
	// Body is optional; an empty body means the default window.
	_ = json.NewDecoder(r.Body).Decode(&req)

	written, err := h.analyticsSvc.RegenerateSnapshots(r.Context(), userID, req.DaysBack)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to regenerate snapshots")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]int{"days_written": written})
}
