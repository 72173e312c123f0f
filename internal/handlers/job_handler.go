package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "hardhat/internal/errors"
	"hardhat/internal/models"
	"hardhat/internal/pagination"
	"hardhat/internal/services"
)

// JobHandler handles job-related requests.
type JobHandler struct {
	jobService services.JobServicer
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(jobService services.JobServicer) *JobHandler {
	return &JobHandler{jobService: jobService}
}

// CreateJobRequest represents the request payload for creating a job.
// The job number is generated server-side and cannot be supplied.
type CreateJobRequest struct {
	Name             string           `json:"name" binding:"required,min=1,max=200"`
	Address          *string          `json:"address"`
	ClientName       *string          `json:"clientName"`
	Description      *string          `json:"description"`
	Status           models.JobStatus `json:"status" binding:"omitempty,job_status"`
	StartDate        *time.Time       `json:"startDate"`
	EndDate          *time.Time       `json:"endDate"`
	BudgetTotal      float64          `json:"budgetTotal" binding:"omitempty,gte=0"`
	ProjectManagerID *string          `json:"projectManagerId"`
}

// UpdateJobRequest represents the request payload for updating a job.
type UpdateJobRequest struct {
	Name             *string           `json:"name" binding:"omitempty,min=1,max=200"`
	Address          *string           `json:"address"`
	ClientName       *string           `json:"clientName"`
	Description      *string           `json:"description"`
	Status           *models.JobStatus `json:"status" binding:"omitempty,job_status"`
	StartDate        *time.Time        `json:"startDate"`
	EndDate          *time.Time        `json:"endDate"`
	BudgetTotal      *float64          `json:"budgetTotal" binding:"omitempty,gte=0"`
	ProjectManagerID *string           `json:"projectManagerId"`
}

// CreateJob handles the creation of a new job.
// @Summary     Create a job
// @Description Create a new job with a generated job number
// @Tags        jobs
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateJobRequest true "Job details"
// @Success     201 {object} models.Job "Job created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Project manager not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /jobs [post]
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	job, err := h.jobService.CreateJob(services.JobInput{
		Name:             req.Name,
		Address:          req.Address,
		ClientName:       req.ClientName,
		Description:      req.Description,
		Status:           req.Status,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		BudgetTotal:      req.BudgetTotal,
		ProjectManagerID: req.ProjectManagerID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"job": job})
}

// GetJobs handles listing jobs with filters and pagination.
// @Summary     Get jobs
// @Description Get a paginated list of jobs, newest updates first
// @Tags        jobs
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       status    query string false "Filter by status"
// @Param       search    query string false "Search name, job number, or client name"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Job] "Paginated jobs"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /jobs [get]
func (h *JobHandler) GetJobs(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.JobFilter
	if v := c.Query("status"); v != "" {
		status := models.JobStatus(v)
		switch status {
		case models.JobStatusPlanning, models.JobStatusInProgress, models.JobStatusOnHold,
			models.JobStatusCompleted, models.JobStatusCancelled:
			filter.Status = &status
		default:
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid status"))
			return
		}
	}
	filter.Search = c.Query("search")

	result, err := h.jobService.GetJobs(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetJob handles retrieving a specific job with its related rows.
// @Summary     Get job by ID
// @Description Get a job with its manager, materials, and invoices
// @Tags        jobs
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Job ID"
// @Success     200 {object} models.Job "Job details"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Job not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /jobs/{id} [get]
func (h *JobHandler) GetJob(c *gin.Context) {
	job, err := h.jobService.GetJobByID(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"job": job})
}

// UpdateJob handles updating an existing job.
// @Summary     Update job
// @Description Update the provided fields of an existing job
// @Tags        jobs
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string           true "Job ID"
// @Param       request body UpdateJobRequest true "Updated job details"
// @Success     200 {object} models.Job "Updated job"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Job not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /jobs/{id} [patch]
func (h *JobHandler) UpdateJob(c *gin.Context) {
	var req UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	job, err := h.jobService.UpdateJob(c.Param("id"), services.JobUpdates{
		Name:             req.Name,
		Address:          req.Address,
		ClientName:       req.ClientName,
		Description:      req.Description,
		Status:           req.Status,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		BudgetTotal:      req.BudgetTotal,
		ProjectManagerID: req.ProjectManagerID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"job": job})
}

// DeleteJob handles deleting a job.
// @Summary     Delete job
// @Description Delete a job; its materials, invoices, and notifications cascade
// @Tags        jobs
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Job ID"
// @Success     200 {object} MessageResponse "Job deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Job not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /jobs/{id} [delete]
func (h *JobHandler) DeleteJob(c *gin.Context) {
	if err := h.jobService.DeleteJob(c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Job deleted successfully"})
}
