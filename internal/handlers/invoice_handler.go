package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "hardhat/internal/errors"
	"hardhat/internal/models"
	"hardhat/internal/services"
)

// InvoiceHandler handles invoice-related requests.
type InvoiceHandler struct {
	invoiceService services.InvoiceServicer
	extractor      services.Extractor
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService services.InvoiceServicer, extractor services.Extractor) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, extractor: extractor}
}

// InvoiceItemRequest represents one invoice line item in a create request.
type InvoiceItemRequest struct {
	JobMaterialID *string  `json:"jobMaterialId"`
	Description   *string  `json:"description"`
	Quantity      *float64 `json:"quantity" binding:"omitempty,gte=0"`
	UnitPrice     *float64 `json:"unitPrice" binding:"omitempty,gte=0"`
	TotalPrice    *float64 `json:"totalPrice" binding:"omitempty,gte=0"`
}

// CreateInvoiceRequest represents the request payload for creating an invoice.
type CreateInvoiceRequest struct {
	VendorName    *string              `json:"vendorName" binding:"omitempty,max=200"`
	InvoiceNumber *string              `json:"invoiceNumber" binding:"omitempty,max=100"`
	InvoiceDate   *time.Time           `json:"invoiceDate"`
	TotalAmount   *float64             `json:"totalAmount" binding:"omitempty,gte=0"`
	TaxAmount     *float64             `json:"taxAmount" binding:"omitempty,gte=0"`
	Status        models.InvoiceStatus `json:"status" binding:"omitempty,invoice_status"`
	FileURL       *string              `json:"fileUrl"`
	FileName      *string              `json:"fileName"`
	RawText       *string              `json:"rawText"`
	AIExtracted   json.RawMessage      `json:"aiExtracted"`
	Notes         *string              `json:"notes"`
	Items         []InvoiceItemRequest `json:"items" binding:"omitempty,dive"`
}

// UpdateInvoiceRequest represents the request payload for updating an invoice.
type UpdateInvoiceRequest struct {
	VendorName    *string               `json:"vendorName" binding:"omitempty,max=200"`
	InvoiceNumber *string               `json:"invoiceNumber" binding:"omitempty,max=100"`
	InvoiceDate   *time.Time            `json:"invoiceDate"`
	TotalAmount   *float64              `json:"totalAmount" binding:"omitempty,gte=0"`
	TaxAmount     *float64              `json:"taxAmount" binding:"omitempty,gte=0"`
	Status        *models.InvoiceStatus `json:"status" binding:"omitempty,invoice_status"`
	Notes         *string               `json:"notes"`
}

// ExtractInvoiceRequest represents the request payload for text extraction.
type ExtractInvoiceRequest struct {
	Text     string `json:"text" binding:"required"`
	FileName string `json:"fileName"`
}

// CreateInvoice handles uploading a new invoice with its line items.
// @Summary     Create an invoice
// @Description Create an invoice and its line items in one transaction
// @Tags        invoices
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Job ID"
// @Param       request body CreateInvoiceRequest true "Invoice details"
// @Success     201 {object} models.Invoice "Invoice created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Job or material not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /jobs/{id}/invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	items := make([]services.InvoiceItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, services.InvoiceItemInput{
			JobMaterialID: item.JobMaterialID,
			Description:   item.Description,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			TotalPrice:    item.TotalPrice,
		})
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Param("id"), userID, services.InvoiceInput{
		VendorName:    req.VendorName,
		InvoiceNumber: req.InvoiceNumber,
		InvoiceDate:   req.InvoiceDate,
		TotalAmount:   req.TotalAmount,
		TaxAmount:     req.TaxAmount,
		Status:        req.Status,
		FileURL:       req.FileURL,
		FileName:      req.FileName,
		RawText:       req.RawText,
		AIExtracted:   req.AIExtracted,
		Notes:         req.Notes,
		Items:         items,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"invoice": invoice})
}

// GetJobInvoices handles listing a job's invoices.
// @Summary     Get job invoices
// @Description List a job's invoices, newest first
// @Tags        invoices
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Job ID"
// @Success     200 {object} map[string][]models.Invoice "Invoices"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Job not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /jobs/{id}/invoices [get]
func (h *InvoiceHandler) GetJobInvoices(c *gin.Context) {
	invoices, err := h.invoiceService.GetJobInvoices(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoices": invoices})
}

// GetInvoice handles retrieving a specific invoice.
// @Summary     Get invoice by ID
// @Description Get a specific invoice with its line items
// @Tags        invoices
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Invoice ID"
// @Success     200 {object} models.Invoice "Invoice details"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Invoice not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	invoice, err := h.invoiceService.GetInvoiceByID(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoice": invoice})
}

// UpdateInvoice handles updating an existing invoice.
// @Summary     Update invoice
// @Description Update the provided fields of an existing invoice
// @Tags        invoices
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Invoice ID"
// @Param       request body UpdateInvoiceRequest true "Updated invoice details"
// @Success     200 {object} models.Invoice "Updated invoice"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Invoice not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /invoices/{id} [patch]
func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	var req UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Param("id"), services.InvoiceUpdates{
		VendorName:    req.VendorName,
		InvoiceNumber: req.InvoiceNumber,
		InvoiceDate:   req.InvoiceDate,
		TotalAmount:   req.TotalAmount,
		TaxAmount:     req.TaxAmount,
		Status:        req.Status,
		Notes:         req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoice": invoice})
}

// DeleteInvoice handles deleting an invoice.
// @Summary     Delete invoice
// @Description Delete an invoice; its line items cascade
// @Tags        invoices
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Invoice ID"
// @Success     200 {object} MessageResponse "Invoice deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Invoice not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /invoices/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	if err := h.invoiceService.DeleteInvoice(c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted successfully"})
}

// ExtractInvoice handles AI extraction of structured data from invoice text.
// @Summary     Extract invoice data from text
// @Description Extract a structured invoice record from raw text, best-effort
// @Tags        invoices
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Job ID"
// @Param       request body ExtractInvoiceRequest true "Invoice text"
// @Success     200 {object} services.ExtractionResult "Extraction result"
// @Failure     400 {object} ErrorResponse "No text to extract from"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Extraction service failure"
// @Router      /jobs/{id}/invoices/extract [post]
func (h *InvoiceHandler) ExtractInvoice(c *gin.Context) {
	var req ExtractInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.extractor.Extract(c.Request.Context(), req.Text, req.FileName)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
