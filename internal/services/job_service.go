package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"gorm.io/gorm"

	apperrors "hardhat/internal/errors"
	"hardhat/internal/models"
	"hardhat/internal/pagination"
)

// jobNumberAttempts bounds retries when a generated job number collides.
const jobNumberAttempts = 5

// jobService handles job-related business logic.
type jobService struct {
	db *gorm.DB
}

// NewJobService creates a new JobServicer.
func NewJobService(db *gorm.DB) JobServicer {
	return &jobService{db: db}
}

// generateJobNumber produces a job number like "KC-26-0427".
func generateJobNumber() (string, error) {
	year := time.Now().Year() % 100
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("KC-%02d-%04d", year, n.Int64()), nil
}

// CreateJob creates a new job with a generated unique job number.
func (s *jobService) CreateJob(input JobInput) (*models.Job, error) {
	if input.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Job name is required")
	}

	status := input.Status
	if status == "" {
		status = models.JobStatusPlanning
	}

	if input.ProjectManagerID != nil {
		var count int64
		s.db.Model(&models.User{}).Where("id = ?", *input.ProjectManagerID).Count(&count)
		if count == 0 {
			return nil, apperrors.ErrUserNotFound
		}
	}

	job := &models.Job{
		Name:             input.Name,
		Address:          input.Address,
		ClientName:       input.ClientName,
		Description:      input.Description,
		Status:           status,
		StartDate:        input.StartDate,
		EndDate:          input.EndDate,
		BudgetTotal:      input.BudgetTotal,
		ProjectManagerID: input.ProjectManagerID,
	}

	// Job numbers are random; retry a handful of times on collision.
	var lastErr error
	for attempt := 0; attempt < jobNumberAttempts; attempt++ {
		number, err := generateJobNumber()
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		job.JobNumber = number

		if err := s.db.Create(job).Error; err != nil {
			lastErr = err
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		lastErr = nil
		break
	}
	if lastErr != nil {
		return nil, apperrors.Wrap(apperrors.ErrDuplicateJobNumber, lastErr)
	}

	if job.ProjectManagerID != nil {
		if err := s.db.Preload("ProjectManager").First(job, "id = ?", job.ID).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return job, nil
}

// GetJobs returns a paginated list of jobs, newest updates first, with
// optional status and free-text filters.
func (s *jobService) GetJobs(page pagination.PageRequest, filter JobFilter) (*pagination.PageResponse[models.Job], error) {
	page.Defaults()

	base := s.db.Model(&models.Job{})
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		base = base.Where("name LIKE ? OR job_number LIKE ? OR client_name LIKE ?", like, like, like)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var jobs []models.Job
	err := base.Preload("ProjectManager").
		Order("updated_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&jobs).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(jobs, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetJobByID returns a job with its manager, materials, and invoices.
func (s *jobService) GetJobByID(id string) (*models.Job, error) {
	var job models.Job
	err := s.db.
		Preload("ProjectManager").
		Preload("Materials", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Materials.CatalogItem").
		Preload("Invoices", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Invoices.UploadedBy").
		Preload("Invoices.Items").
		Where("id = ?", id).
		First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &job, nil
}

// UpdateJob updates the provided fields of an existing job.
func (s *jobService) UpdateJob(id string, updates JobUpdates) (*models.Job, error) {
	var job models.Job
	if err := s.db.Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	fields := make(map[string]interface{})
	if updates.Name != nil {
		fields["name"] = *updates.Name
	}
	if updates.Address != nil {
		fields["address"] = *updates.Address
	}
	if updates.ClientName != nil {
		fields["client_name"] = *updates.ClientName
	}
	if updates.Description != nil {
		fields["description"] = *updates.Description
	}
	if updates.Status != nil {
		fields["status"] = *updates.Status
	}
	if updates.StartDate != nil {
		fields["start_date"] = *updates.StartDate
	}
	if updates.EndDate != nil {
		fields["end_date"] = *updates.EndDate
	}
	if updates.BudgetTotal != nil {
		fields["budget_total"] = *updates.BudgetTotal
	}
	if updates.ProjectManagerID != nil {
		var count int64
		s.db.Model(&models.User{}).Where("id = ?", *updates.ProjectManagerID).Count(&count)
		if count == 0 {
			return nil, apperrors.ErrUserNotFound
		}
		fields["project_manager_id"] = *updates.ProjectManagerID
	}

	if len(fields) > 0 {
		if err := s.db.Model(&job).Updates(fields).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	if err := s.db.Preload("ProjectManager").Where("id = ?", id).First(&job).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &job, nil
}

// DeleteJob removes a job; materials, invoices, and notifications cascade.
func (s *jobService) DeleteJob(id string) error {
	result := s.db.Where("id = ?", id).Delete(&models.Job{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrJobNotFound
	}
	return nil
}
