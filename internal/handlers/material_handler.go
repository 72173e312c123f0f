package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "hardhat/internal/errors"
	"hardhat/internal/models"
	"hardhat/internal/services"
)

// maxImportSize caps uploaded material list files at 5 MB.
const maxImportSize = 5 << 20

// MaterialHandler handles job material requests.
type MaterialHandler struct {
	materialService     services.MaterialServicer
	notificationService services.NotificationServicer
}

// NewMaterialHandler creates a new MaterialHandler.
func NewMaterialHandler(materialService services.MaterialServicer, notificationService services.NotificationServicer) *MaterialHandler {
	return &MaterialHandler{materialService: materialService, notificationService: notificationService}
}

// MaterialRequest represents one material in a create request.
type MaterialRequest struct {
	CatalogItemID   *string               `json:"catalogItemId"`
	CustomName      *string               `json:"customName" binding:"omitempty,max=200"`
	Description     *string               `json:"description"`
	Unit            string                `json:"unit" binding:"max=50"`
	QuantityNeeded  float64               `json:"quantityNeeded" binding:"omitempty,gte=0"`
	QuantityOrdered float64               `json:"quantityOrdered" binding:"omitempty,gte=0"`
	QuantityOnSite  float64               `json:"quantityOnSite" binding:"omitempty,gte=0"`
	UnitCost        *float64              `json:"unitCost" binding:"omitempty,gte=0"`
	Status          models.MaterialStatus `json:"status" binding:"omitempty,material_status"`
	Vendor          *string               `json:"vendor"`
	Notes           *string               `json:"notes"`
	Trade           models.Trade          `json:"trade" binding:"omitempty,trade"`
}

// CreateMaterialsRequest accepts either a single material or a batch.
type CreateMaterialsRequest struct {
	Materials []MaterialRequest `json:"materials" binding:"required,min=1,dive"`
}

// UpdateMaterialRequest represents the request payload for updating a material.
type UpdateMaterialRequest struct {
	CustomName      *string                `json:"customName" binding:"omitempty,max=200"`
	Description     *string                `json:"description"`
	Unit            *string                `json:"unit" binding:"omitempty,max=50"`
	QuantityNeeded  *float64               `json:"quantityNeeded" binding:"omitempty,gte=0"`
	QuantityOrdered *float64               `json:"quantityOrdered" binding:"omitempty,gte=0"`
	QuantityOnSite  *float64               `json:"quantityOnSite" binding:"omitempty,gte=0"`
	UnitCost        *float64               `json:"unitCost" binding:"omitempty,gte=0"`
	Status          *models.MaterialStatus `json:"status" binding:"omitempty,material_status"`
	Vendor          *string                `json:"vendor"`
	Notes           *string                `json:"notes"`
	Trade           *models.Trade          `json:"trade" binding:"omitempty,trade"`
}

func materialInput(req MaterialRequest) services.MaterialInput {
	return services.MaterialInput{
		CatalogItemID:   req.CatalogItemID,
		CustomName:      req.CustomName,
		Description:     req.Description,
		Unit:            req.Unit,
		QuantityNeeded:  req.QuantityNeeded,
		QuantityOrdered: req.QuantityOrdered,
		QuantityOnSite:  req.QuantityOnSite,
		UnitCost:        req.UnitCost,
		Status:          req.Status,
		Vendor:          req.Vendor,
		Notes:           req.Notes,
		Trade:           req.Trade,
	}
}

// CreateMaterials handles creating one or more materials for a job.
// @Summary     Create job materials
// @Description Create one or more materials for a job in a single transaction
// @Tags        materials
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                 true "Job ID"
// @Param       request body CreateMaterialsRequest true "Materials"
// @Success     201 {object} map[string][]models.JobMaterial "Materials created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Job or catalog item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /jobs/{id}/materials [post]
func (h *MaterialHandler) CreateMaterials(c *gin.Context) {
	var req CreateMaterialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	inputs := make([]services.MaterialInput, 0, len(req.Materials))
	for _, m := range req.Materials {
		inputs = append(inputs, materialInput(m))
	}

	materials, err := h.materialService.CreateMaterials(c.Param("id"), inputs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"materials": materials})
}

// GetJobMaterials handles listing a job's materials.
// @Summary     Get job materials
// @Description List a job's materials, newest first, with optional filters
// @Tags        materials
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id     path  string true  "Job ID"
// @Param       status query string false "Filter by status"
// @Param       trade  query string false "Filter by trade"
// @Success     200 {object} map[string][]models.JobMaterial "Materials"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Job not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /jobs/{id}/materials [get]
func (h *MaterialHandler) GetJobMaterials(c *gin.Context) {
	var filter services.MaterialFilter
	if v := c.Query("status"); v != "" {
		status := models.MaterialStatus(v)
		switch status {
		case models.MaterialStatusNeeded, models.MaterialStatusOrdered, models.MaterialStatusDelivered,
			models.MaterialStatusInstalled, models.MaterialStatusReturned:
			filter.Status = &status
		default:
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid status"))
			return
		}
	}
	if v := c.Query("trade"); v != "" {
		trade := models.Trade(v)
		if !models.ValidTrade(trade) {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid trade"))
			return
		}
		filter.Trade = &trade
	}

	materials, err := h.materialService.GetJobMaterials(c.Param("id"), filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"materials": materials})
}

// UpdateMaterial handles updating an existing material.
// @Summary     Update material
// @Description Update the provided fields of an existing material
// @Tags        materials
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Material ID"
// @Param       request body UpdateMaterialRequest true "Updated material details"
// @Success     200 {object} models.JobMaterial "Updated material"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Material not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /materials/{id} [patch]
func (h *MaterialHandler) UpdateMaterial(c *gin.Context) {
	var req UpdateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	material, err := h.materialService.UpdateMaterial(c.Param("id"), services.MaterialUpdates{
		CustomName:      req.CustomName,
		Description:     req.Description,
		Unit:            req.Unit,
		QuantityNeeded:  req.QuantityNeeded,
		QuantityOrdered: req.QuantityOrdered,
		QuantityOnSite:  req.QuantityOnSite,
		UnitCost:        req.UnitCost,
		Status:          req.Status,
		Vendor:          req.Vendor,
		Notes:           req.Notes,
		Trade:           req.Trade,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"material": material})
}

// DeleteMaterial handles deleting a material.
// @Summary     Delete material
// @Description Delete a material by ID
// @Tags        materials
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Material ID"
// @Success     200 {object} MessageResponse "Material deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Material not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /materials/{id} [delete]
func (h *MaterialHandler) DeleteMaterial(c *gin.Context) {
	if err := h.materialService.DeleteMaterial(c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Material deleted successfully"})
}

// ImportMaterials handles importing a material list from an uploaded file.
// @Summary     Import materials from file
// @Description Import materials from a CSV or plain-text file as one batch
// @Tags        materials
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       id   path     string true "Job ID"
// @Param       file formData file   true "CSV or text file"
// @Success     201 {object} map[string][]models.JobMaterial "Imported materials"
// @Failure     400 {object} ErrorResponse "Invalid or empty file"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Job not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /jobs/{id}/materials/import [post]
func (h *MaterialHandler) ImportMaterials(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "A file upload is required"))
		return
	}
	if fileHeader.Size > maxImportSize {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "File exceeds the 5 MB limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxImportSize))
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	jobID := c.Param("id")
	materials, err := h.materialService.ImportMaterials(jobID, content, fileHeader.Filename)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.notificationService.Notify(userID, &jobID, models.NotificationTypeMaterialImport,
		"Materials imported",
		fileHeader.Filename+" imported successfully")

	c.JSON(http.StatusCreated, gin.H{
		"materials": materials,
		"imported":  len(materials),
	})
}
