package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "hardhat/internal/errors"
	"hardhat/internal/services"
)

// ReportHandler handles budget and reporting requests.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetJobBudget handles retrieving a job's computed budget view.
// @Summary     Get job budget
// @Description Get the computed financial rollup for one job
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Job ID"
// @Success     200 {object} services.BudgetView "Budget view"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Job not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /jobs/{id}/budget [get]
func (h *ReportHandler) GetJobBudget(c *gin.Context) {
	view, err := h.reportService.JobBudget(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetFleetSummary handles the all-jobs summary report.
// @Summary     Get fleet summary
// @Description Get one summary row per job across the whole fleet
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]services.JobSummaryView "Fleet summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/summary [get]
func (h *ReportHandler) GetFleetSummary(c *gin.Context) {
	summaries, err := h.reportService.FleetSummary()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": summaries})
}

// ExportFleetSummary handles downloading the fleet summary as CSV.
// @Summary     Export fleet summary
// @Description Download the fleet summary report as a CSV file
// @Tags        reports
// @Produce     text/csv
// @Security    BearerAuth
// @Success     200 {string} string "CSV content"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/summary/export [get]
func (h *ReportHandler) ExportFleetSummary(c *gin.Context) {
	filename := fmt.Sprintf("job-summary-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := h.reportService.WriteFleetCSV(c.Writer); err != nil {
		respondWithError(c, err)
		return
	}
}

// GetVendorReport handles the per-vendor spending report.
// @Summary     Get vendor report
// @Description Get spending per vendor, optionally scoped to one job
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       job_id query string false "Scope to one job"
// @Success     200 {object} map[string][]services.VendorSummaryView "Vendor report"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/vendors [get]
func (h *ReportHandler) GetVendorReport(c *gin.Context) {
	var jobID *string
	if v := c.Query("job_id"); v != "" {
		jobID = &v
	}

	vendors, err := h.reportService.VendorReport(jobID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"vendors": vendors})
}

// GetMaterialsReport handles the per-job materials report.
// @Summary     Get materials report
// @Description Get a job's materials ordered by trade then status
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       job_id query string true "Job ID"
// @Success     200 {object} map[string][]models.JobMaterial "Materials report"
// @Failure     400 {object} ErrorResponse "Missing job_id"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Job not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/materials [get]
func (h *ReportHandler) GetMaterialsReport(c *gin.Context) {
	jobID := c.Query("job_id")
	if jobID == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "job_id is required"))
		return
	}

	materials, err := h.reportService.MaterialsReport(jobID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"materials": materials})
}
