package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "hardhat/internal/errors"
	"hardhat/internal/models"
)

// invoiceService handles invoice-related business logic.
type invoiceService struct {
	db            *gorm.DB
	notifications NotificationServicer
}

// NewInvoiceService creates a new InvoiceServicer.
func NewInvoiceService(db *gorm.DB, notifications NotificationServicer) InvoiceServicer {
	return &invoiceService{db: db, notifications: notifications}
}

// CreateInvoice creates an invoice and its line items in one transaction
// and notifies the job's project manager.
func (s *invoiceService) CreateInvoice(jobID, uploadedByID string, input InvoiceInput) (*models.Invoice, error) {
	var job models.Job
	if err := s.db.Where("id = ?", jobID).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	status := input.Status
	if status == "" {
		status = models.InvoiceStatusPending
	}

	invoice := &models.Invoice{
		JobID:         jobID,
		UploadedByID:  uploadedByID,
		VendorName:    input.VendorName,
		InvoiceNumber: input.InvoiceNumber,
		InvoiceDate:   input.InvoiceDate,
		TotalAmount:   input.TotalAmount,
		TaxAmount:     input.TaxAmount,
		Status:        status,
		FileURL:       input.FileURL,
		FileName:      input.FileName,
		RawText:       input.RawText,
		AIExtracted:   input.AIExtracted,
		Notes:         input.Notes,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(invoice).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for _, item := range input.Items {
			if item.JobMaterialID != nil {
				var count int64
				if err := tx.Model(&models.JobMaterial{}).
					Where("id = ? AND job_id = ?", *item.JobMaterialID, jobID).
					Count(&count).Error; err != nil {
					return apperrors.Wrap(apperrors.ErrInternalServer, err)
				}
				if count == 0 {
					return apperrors.ErrMaterialNotFound
				}
			}
			line := models.InvoiceItem{
				InvoiceID:     invoice.ID,
				JobMaterialID: item.JobMaterialID,
				Description:   item.Description,
				Quantity:      item.Quantity,
				UnitPrice:     item.UnitPrice,
				TotalPrice:    item.TotalPrice,
			}
			if err := tx.Create(&line).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if job.ProjectManagerID != nil {
		s.notifications.Notify(*job.ProjectManagerID, &job.ID,
			models.NotificationTypeInvoiceUploaded,
			"Invoice uploaded",
			fmt.Sprintf("An invoice from %s was uploaded to %s", invoice.Vendor(), job.Name))
	}

	if err := s.db.Preload("UploadedBy").Preload("Items").Where("id = ?", invoice.ID).First(invoice).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return invoice, nil
}

// GetJobInvoices lists a job's invoices, newest first.
func (s *invoiceService) GetJobInvoices(jobID string) ([]models.Invoice, error) {
	var count int64
	if err := s.db.Model(&models.Job{}).Where("id = ?", jobID).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return nil, apperrors.ErrJobNotFound
	}

	var invoices []models.Invoice
	err := s.db.Where("job_id = ?", jobID).
		Preload("UploadedBy").
		Preload("Items").
		Order("created_at DESC").
		Find(&invoices).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return invoices, nil
}

// GetInvoiceByID returns a single invoice with its items.
func (s *invoiceService) GetInvoiceByID(id string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.db.Preload("UploadedBy").Preload("Items").Where("id = ?", id).First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvoiceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &invoice, nil
}

// UpdateInvoice updates the provided fields of an existing invoice. A
// status change to DISPUTED notifies the job's project manager.
func (s *invoiceService) UpdateInvoice(id string, updates InvoiceUpdates) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := s.db.Where("id = ?", id).First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvoiceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	disputed := updates.Status != nil &&
		*updates.Status == models.InvoiceStatusDisputed &&
		invoice.Status != models.InvoiceStatusDisputed

	fields := make(map[string]interface{})
	if updates.VendorName != nil {
		fields["vendor_name"] = *updates.VendorName
	}
	if updates.InvoiceNumber != nil {
		fields["invoice_number"] = *updates.InvoiceNumber
	}
	if updates.InvoiceDate != nil {
		fields["invoice_date"] = *updates.InvoiceDate
	}
	if updates.TotalAmount != nil {
		fields["total_amount"] = *updates.TotalAmount
	}
	if updates.TaxAmount != nil {
		fields["tax_amount"] = *updates.TaxAmount
	}
	if updates.Status != nil {
		fields["status"] = *updates.Status
	}
	if updates.Notes != nil {
		fields["notes"] = *updates.Notes
	}

	if len(fields) > 0 {
		if err := s.db.Model(&invoice).Updates(fields).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	if disputed {
		var job models.Job
		if err := s.db.Where("id = ?", invoice.JobID).First(&job).Error; err == nil && job.ProjectManagerID != nil {
			s.notifications.Notify(*job.ProjectManagerID, &job.ID,
				models.NotificationTypeInvoiceDisputed,
				"Invoice disputed",
				fmt.Sprintf("An invoice from %s on %s was marked disputed", invoice.Vendor(), job.Name))
		}
	}

	if err := s.db.Preload("UploadedBy").Preload("Items").Where("id = ?", id).First(&invoice).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &invoice, nil
}

// DeleteInvoice removes an invoice; its items cascade.
func (s *invoiceService) DeleteInvoice(id string) error {
	result := s.db.Where("id = ?", id).Delete(&models.Invoice{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrInvoiceNotFound
	}
	return nil
}
