// Package kpi reduces completed-job rows into the business metrics shown on
// the dashboard. All functions are pure: identical inputs always yield
// identical outputs, and every ratio is 0 when its denominator is 0.
package kpi

import (
	"strings"

	"app/internal/model"
)

// Data holds the ten tenant-level metrics for a date range.
type Data struct {
	TotalRevenue              float64 `json:"total_revenue"`
	TotalJobs                 int     `json:"total_jobs"`
	AvgHours                  float64 `json:"avg_hours"`
	GrossMargin               float64 `json:"gross_margin"`
	AvgJobRevenue             float64 `json:"avg_job_revenue"`
	FirstTimeFixRate          float64 `json:"first_time_fix_rate"`
	AvgResponseTime           float64 `json:"avg_response_time"`
	RevenuePerTechnician      float64 `json:"revenue_per_technician"`
	JobsPerTechPerWeek        float64 `json:"jobs_per_tech_per_week"`
	MaintenanceCompletionRate float64 `json:"maintenance_completion_rate"`
}

// TechnicianData holds the per-technician subset of metrics.
type TechnicianData struct {
	JobsCompleted    int     `json:"jobs_completed"`
	TotalRevenue     float64 `json:"total_revenue"`
	AvgHours         float64 `json:"avg_hours"`
	AvgJobRevenue    float64 `json:"avg_job_revenue"`
	FirstTimeFixRate float64 `json:"first_time_fix_rate"`
	AvgResponseTime  float64 `json:"avg_response_time"`
}

// Compute reduces completed jobs and the active technician count into the ten
// tenant metrics. intervalDays is the closed date interval length; values
// below 1 are clamped to 1.
func Compute(jobs []model.Job, activeTechCount, intervalDays int) Data {
	if len(jobs) == 0 {
		return Data{}
	}

	var totalRevenue, totalCost, totalHours float64
	for _, j := range jobs {
		totalRevenue += j.Revenue
		totalCost += j.Cost
		totalHours += j.HoursSpent
	}

	totalJobs := len(jobs)
	d := Data{
		TotalRevenue:  totalRevenue,
		TotalJobs:     totalJobs,
		AvgHours:      totalHours / float64(totalJobs),
		AvgJobRevenue: totalRevenue / float64(totalJobs),
	}
	if totalRevenue > 0 {
		d.GrossMargin = (totalRevenue - totalCost) / totalRevenue * 100
	}

	var firstTimeFixes, maintenanceJobs int
	for _, j := range jobs {
		if !j.CallbackRequired {
			firstTimeFixes++
		}
		if isMaintenance(j) {
			maintenanceJobs++
		}
	}
	d.FirstTimeFixRate = float64(firstTimeFixes) / float64(totalJobs) * 100
	d.MaintenanceCompletionRate = float64(maintenanceJobs) / float64(totalJobs) * 100
	d.AvgResponseTime = avgResponseHours(jobs)

	techCount := activeTechCount
	if techCount < 1 {
		techCount = 1
	}
	d.RevenuePerTechnician = totalRevenue / float64(techCount)

	if intervalDays < 1 {
		intervalDays = 1
	}
	weeks := float64(intervalDays) / 7
	d.JobsPerTechPerWeek = float64(totalJobs) / float64(techCount) / weeks

	return d
}

// ComputeTechnician reduces one technician's completed jobs into their metric
// subset.
func ComputeTechnician(jobs []model.Job) TechnicianData {
	if len(jobs) == 0 {
		return TechnicianData{}
	}

	var totalRevenue, totalHours float64
	var firstTimeFixes int
	for _, j := range jobs {
		totalRevenue += j.Revenue
		totalHours += j.HoursSpent
		if !j.CallbackRequired {
			firstTimeFixes++
		}
	}

	completed := len(jobs)
	return TechnicianData{
		JobsCompleted:    completed,
		TotalRevenue:     totalRevenue,
		AvgHours:         totalHours / float64(completed),
		AvgJobRevenue:    totalRevenue / float64(completed),
		FirstTimeFixRate: float64(firstTimeFixes) / float64(completed) * 100,
		AvgResponseTime:  avgResponseHours(jobs),
	}
}

// avgResponseHours is the mean of (completed_date - scheduled_date) over jobs
// carrying both timestamps, with negative deltas excluded.
func avgResponseHours(jobs []model.Job) float64 {
	var totalHours float64
	var counted int
	for _, j := range jobs {
		if j.ScheduledDate == nil || j.CompletedDate == nil {
			continue
		}
		counted++
		if h := j.CompletedDate.Sub(*j.ScheduledDate).Hours(); h >= 0 {
			totalHours += h
		}
	}
	if counted == 0 {
		return 0
	}
	return totalHours / float64(counted)
}

func isMaintenance(j model.Job) bool {
	return j.JobType == "maintenance" || strings.Contains(strings.ToLower(j.Title), "maintenance")
}
