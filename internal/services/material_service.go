package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "hardhat/internal/errors"
	"hardhat/internal/importer"
	"hardhat/internal/models"
)

// materialService handles job material business logic.
type materialService struct {
	db *gorm.DB
}

// NewMaterialService creates a new MaterialServicer.
func NewMaterialService(db *gorm.DB) MaterialServicer {
	return &materialService{db: db}
}

// jobExists verifies the referenced job is present.
func (s *materialService) jobExists(jobID string) error {
	var count int64
	if err := s.db.Model(&models.Job{}).Where("id = ?", jobID).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrJobNotFound
	}
	return nil
}

// CreateMaterials creates one or more materials for a job in a single
// transaction. When a material links to a catalog item, the item's
// default unit and estimated price fill any unset fields.
func (s *materialService) CreateMaterials(jobID string, inputs []MaterialInput) ([]models.JobMaterial, error) {
	if err := s.jobExists(jobID); err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "No materials provided")
	}

	materials := make([]models.JobMaterial, 0, len(inputs))
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, input := range inputs {
			material, err := buildMaterial(tx, jobID, input)
			if err != nil {
				return err
			}
			if err := tx.Create(material).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			materials = append(materials, *material)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return materials, nil
}

// buildMaterial validates one material input against the catalog and
// applies defaults.
func buildMaterial(tx *gorm.DB, jobID string, input MaterialInput) (*models.JobMaterial, error) {
	material := &models.JobMaterial{
		JobID:           jobID,
		CatalogItemID:   input.CatalogItemID,
		CustomName:      input.CustomName,
		Description:     input.Description,
		Unit:            input.Unit,
		QuantityNeeded:  input.QuantityNeeded,
		QuantityOrdered: input.QuantityOrdered,
		QuantityOnSite:  input.QuantityOnSite,
		UnitCost:        input.UnitCost,
		Status:          input.Status,
		Vendor:          input.Vendor,
		Notes:           input.Notes,
		Trade:           input.Trade,
	}

	if input.CatalogItemID != nil {
		var item models.CatalogItem
		if err := tx.Where("id = ?", *input.CatalogItemID).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCatalogItemNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if material.Unit == "" {
			material.Unit = item.DefaultUnit
		}
		if material.UnitCost == nil && item.EstimatedPrice != nil {
			price := *item.EstimatedPrice
			material.UnitCost = &price
		}
	}

	if material.Unit == "" {
		material.Unit = "each"
	}
	if material.Status == "" {
		material.Status = models.MaterialStatusNeeded
	}
	if material.Trade == "" {
		material.Trade = models.TradeGeneral
	}
	return material, nil
}

// GetJobMaterials lists a job's materials, newest first, with optional
// status and trade filters.
func (s *materialService) GetJobMaterials(jobID string, filter MaterialFilter) ([]models.JobMaterial, error) {
	if err := s.jobExists(jobID); err != nil {
		return nil, err
	}

	query := s.db.Where("job_id = ?", jobID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Trade != nil {
		query = query.Where("trade = ?", *filter.Trade)
	}

	var materials []models.JobMaterial
	err := query.
		Preload("CatalogItem").
		Preload("InvoiceItems").
		Order("created_at DESC").
		Find(&materials).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return materials, nil
}

// UpdateMaterial updates the provided fields of an existing material.
func (s *materialService) UpdateMaterial(id string, updates MaterialUpdates) (*models.JobMaterial, error) {
	var material models.JobMaterial
	if err := s.db.Where("id = ?", id).First(&material).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMaterialNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	fields := make(map[string]interface{})
	if updates.CustomName != nil {
		fields["custom_name"] = *updates.CustomName
	}
	if updates.Description != nil {
		fields["description"] = *updates.Description
	}
	if updates.Unit != nil {
		fields["unit"] = *updates.Unit
	}
	if updates.QuantityNeeded != nil {
		fields["quantity_needed"] = *updates.QuantityNeeded
	}
	if updates.QuantityOrdered != nil {
		fields["quantity_ordered"] = *updates.QuantityOrdered
	}
	if updates.QuantityOnSite != nil {
		fields["quantity_on_site"] = *updates.QuantityOnSite
	}
	if updates.UnitCost != nil {
		fields["unit_cost"] = *updates.UnitCost
	}
	if updates.Status != nil {
		fields["status"] = *updates.Status
	}
	if updates.Vendor != nil {
		fields["vendor"] = *updates.Vendor
	}
	if updates.Notes != nil {
		fields["notes"] = *updates.Notes
	}
	if updates.Trade != nil {
		fields["trade"] = *updates.Trade
	}

	if len(fields) > 0 {
		if err := s.db.Model(&material).Updates(fields).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return &material, nil
}

// DeleteMaterial removes a material.
func (s *materialService) DeleteMaterial(id string) error {
	result := s.db.Where("id = ?", id).Delete(&models.JobMaterial{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrMaterialNotFound
	}
	return nil
}

// ImportMaterials normalizes an uploaded file into material records and
// creates them as one all-or-nothing batch. A file that normalizes to
// zero records is rejected before anything is written.
func (s *materialService) ImportMaterials(jobID string, content []byte, filename string) ([]models.JobMaterial, error) {
	if err := s.jobExists(jobID); err != nil {
		return nil, err
	}

	records, err := importer.Normalize(content, filename)
	if err != nil {
		return nil, err
	}

	materials := make([]models.JobMaterial, 0, len(records))
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, rec := range records {
			name := rec.CustomName
			material := models.JobMaterial{
				JobID:          jobID,
				CustomName:     &name,
				Description:    rec.Description,
				Unit:           rec.Unit,
				QuantityNeeded: rec.QuantityNeeded,
				UnitCost:       rec.UnitCost,
				Status:         models.MaterialStatusNeeded,
				Vendor:         rec.Vendor,
				Trade:          rec.Trade,
			}
			if err := tx.Create(&material).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			materials = append(materials, material)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return materials, nil
}
