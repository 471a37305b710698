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

// JobHandler handles job CRUD endpoints.
type JobHandler struct {
	jobSvc   *service.JobService
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(jobSvc *service.JobService, validate *validator.Validate, logger zerolog.Logger) *JobHandler {
	return &JobHandler{jobSvc: jobSvc, validate: validate, logger: logger}
}

// RegisterRoutes mounts job routes.
func (h *JobHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/jobs", authMw(http.HandlerFunc(h.handleCollection)))
	mux.Handle("/jobs/", authMw(http.HandlerFunc(h.handleItem)))
}

func (h *JobHandler) handleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listJobs(w, r)
	case http.MethodPost:
		h.createJob(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *JobHandler) handleItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/jobs/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.getJob(w, r, id)
	case http.MethodPut, http.MethodPatch:
		h.updateJob(w, r, id)
	case http.MethodDelete:
		h.deleteJob(w, r, id)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// listJobs godoc
// @Summary List jobs for the authenticated user
// @Tags jobs
// @Produce json
// @Success 200 {array} model.Job
// @Failure 401 {string} string "unauthorized"
// @Router /jobs [get]
func (h *JobHandler) listJobs(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	jobs, err := h.jobSvc.ListJobs(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to list jobs")
		return
	}
	if jobs == nil {
		jobs = []model.Job{}
	}
	writeJSON(w, h.logger, http.StatusOK, jobs)
}

// createJob godoc
// @Summary Create a job
// @Tags jobs
// @Accept json
// @Produce json
// @Param job body dto.JobCreateDTO true "Job creation request"
// @Success 201 {object} model.Job
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "unauthorized"
// @Router /jobs [post]
func (h *JobHandler) createJob(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req dto.JobCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	job := &model.Job{
		UserID:           userID,
		TechnicianID:     req.TechnicianID,
		Title:            req.Title,
		ClientName:       req.ClientName,
		ClientAddress:    req.ClientAddress,
		JobDate:          req.JobDate,
		HoursSpent:       req.HoursSpent,
		Revenue:          req.Revenue,
		Cost:             req.Cost,
		Status:           req.Status,
		Notes:            req.Notes,
		JobType:          req.JobType,
		CallbackRequired: req.CallbackRequired,
		ScheduledDate:    req.ScheduledDate,
		CompletedDate:    req.CompletedDate,
	}
	created, err := h.jobSvc.CreateJob(r.Context(), job)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to create job")
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, created)
}

// getJob godoc
// @Summary Get one job
// @Tags jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} model.Job
// @Failure 404 {string} string "job not found"
// @Router /jobs/{id} [get]
func (h *JobHandler) getJob(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	job, err := h.jobSvc.GetJob(r.Context(), userID, id)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to get job")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, job)
}

// updateJob godoc
// @Summary Update a job
// @Tags jobs
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param job body dto.JobUpdateDTO true "Job update request"
// @Success 200 {object} model.Job
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 404 {string} string "job not found"
// @Router /jobs/{id} [put]
func (h *JobHandler) updateJob(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req dto.JobUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	// Read-modify-write so omitted fields keep their stored values.
	job, err := h.jobSvc.GetJob(r.Context(), userID, id)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to get job")
		return
	}
	applyJobUpdate(job, &req)

	updated, err := h.jobSvc.UpdateJob(r.Context(), job)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to update job")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, updated)
}

// deleteJob godoc
// @Summary Delete a job
// @Tags jobs
// @Param id path string true "Job ID"
// @Success 204 {string} string "deleted"
// @Failure 404 {string} string "job not found"
// @Router /jobs/{id} [delete]
func (h *JobHandler) deleteJob(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if err := h.jobSvc.DeleteJob(r.Context(), userID, id); err != nil {
		writeServiceError(w, h.logger, err, "failed to delete job")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func applyJobUpdate(job *model.Job, req *dto.JobUpdateDTO) {
	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.ClientName != nil {
		job.ClientName = *req.ClientName
	}
	if req.ClientAddress != nil {
		job.ClientAddress = req.ClientAddress
	}
	if req.TechnicianID != nil {
		job.TechnicianID = req.TechnicianID
	}
	if req.JobDate != nil {
		job.JobDate = *req.JobDate
	}
	if req.HoursSpent != nil {
		job.HoursSpent = *req.HoursSpent
	}
	if req.Revenue != nil {
		job.Revenue = *req.Revenue
	}
	if req.Cost != nil {
		job.Cost = *req.Cost
	}
	if req.Status != nil {
		job.Status = *req.Status
	}
	if req.Notes != nil {
		job.Notes = req.Notes
	}
	if req.JobType != nil {
		job.JobType = *req.JobType
	}
	if req.CallbackRequired != nil {
		job.CallbackRequired = *req.CallbackRequired
	}
	if req.ScheduledDate != nil {
		job.ScheduledDate = req.ScheduledDate
	}
	if req.CompletedDate != nil {
		job.CompletedDate = req.CompletedDate
	}
}
