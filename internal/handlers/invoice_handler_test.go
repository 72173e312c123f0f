package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "hardhat/internal/errors"
	"hardhat/internal/models"
	"hardhat/internal/services"
)

// --- mock invoice service ---

type mockInvoiceService struct {
	createInvoiceFn  func(jobID, uploadedByID string, input services.InvoiceInput) (*models.Invoice, error)
	getJobInvoicesFn func(jobID string) ([]models.Invoice, error)
	getInvoiceByIDFn func(id string) (*models.Invoice, error)
	updateInvoiceFn  func(id string, updates services.InvoiceUpdates) (*models.Invoice, error)
	deleteInvoiceFn  func(id string) error
}

func (m *mockInvoiceService) CreateInvoice(jobID, uploadedByID string, input services.InvoiceInput) (*models.Invoice, error) {
	if m.createInvoiceFn != nil {
		return m.createInvoiceFn(jobID, uploadedByID, input)
	}
	return &models.Invoice{}, nil
}

func (m *mockInvoiceService) GetJobInvoices(jobID string) ([]models.Invoice, error) {
	if m.getJobInvoicesFn != nil {
		return m.getJobInvoicesFn(jobID)
	}
	return []models.Invoice{}, nil
}

func (m *mockInvoiceService) GetInvoiceByID(id string) (*models.Invoice, error) {
	if m.getInvoiceByIDFn != nil {
		return m.getInvoiceByIDFn(id)
	}
	return &models.Invoice{}, nil
}

func (m *mockInvoiceService) UpdateInvoice(id string, updates services.InvoiceUpdates) (*models.Invoice, error) {
	if m.updateInvoiceFn != nil {
		return m.updateInvoiceFn(id, updates)
	}
	return &models.Invoice{}, nil
}

func (m *mockInvoiceService) DeleteInvoice(id string) error {
	if m.deleteInvoiceFn != nil {
		return m.deleteInvoiceFn(id)
	}
	return nil
}

var _ services.InvoiceServicer = (*mockInvoiceService)(nil)

// --- mock extractor ---

type mockExtractor struct {
	extractFn func(ctx context.Context, text, fileName string) (*services.ExtractionResult, error)
}

func (m *mockExtractor) Extract(ctx context.Context, text, fileName string) (*services.ExtractionResult, error) {
	if m.extractFn != nil {
		return m.extractFn(ctx, text, fileName)
	}
	return &services.ExtractionResult{Extracted: &services.ExtractedInvoice{}}, nil
}

var _ services.Extractor = (*mockExtractor)(nil)

func setupInvoiceRouter(handler *InvoiceHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID("user-1"))
	auth.POST("/jobs/:id/invoices", handler.CreateInvoice)
	auth.GET("/jobs/:id/invoices", handler.GetJobInvoices)
	auth.POST("/jobs/:id/invoices/extract", handler.ExtractInvoice)
	auth.GET("/invoices/:id", handler.GetInvoice)
	auth.PATCH("/invoices/:id", handler.UpdateInvoice)
	auth.DELETE("/invoices/:id", handler.DeleteInvoice)
	return r
}

func TestInvoiceHandler_CreateInvoice(t *testing.T) {
	t.Run("returns 201 with uploader from context", func(t *testing.T) {
		svc := &mockInvoiceService{
			createInvoiceFn: func(jobID, uploadedByID string, input services.InvoiceInput) (*models.Invoice, error) {
				if uploadedByID != "user-1" {
					t.Errorf("expected uploader user-1, got %s", uploadedByID)
				}
				if len(input.Items) != 1 {
					t.Errorf("expected 1 item, got %d", len(input.Items))
				}
				return &models.Invoice{Base: models.Base{ID: "inv-1"}, JobID: jobID, UploadedByID: uploadedByID}, nil
			},
		}
		r := setupInvoiceRouter(NewInvoiceHandler(svc, &mockExtractor{}))

		rec := doRequest(r, "POST", "/jobs/job-1/invoices",
			`{"vendorName":"Acme Supply","totalAmount":125.5,"items":[{"description":"Copper pipe","quantity":5}]}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 400 on invalid status", func(t *testing.T) {
		r := setupInvoiceRouter(NewInvoiceHandler(&mockInvoiceService{}, &mockExtractor{}))

		rec := doRequest(r, "POST", "/jobs/job-1/invoices", `{"status":"VOIDED"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when job missing", func(t *testing.T) {
		svc := &mockInvoiceService{
			createInvoiceFn: func(string, string, services.InvoiceInput) (*models.Invoice, error) {
				return nil, apperrors.ErrJobNotFound
			},
		}
		r := setupInvoiceRouter(NewInvoiceHandler(svc, &mockExtractor{}))

		rec := doRequest(r, "POST", "/jobs/missing-id/invoices", `{"vendorName":"Acme"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestInvoiceHandler_UpdateInvoice(t *testing.T) {
	t.Run("passes status change through", func(t *testing.T) {
		svc := &mockInvoiceService{
			updateInvoiceFn: func(id string, updates services.InvoiceUpdates) (*models.Invoice, error) {
				if updates.Status == nil || *updates.Status != models.InvoiceStatusDisputed {
					t.Errorf("expected DISPUTED update, got %v", updates.Status)
				}
				return &models.Invoice{Base: models.Base{ID: id}, Status: models.InvoiceStatusDisputed}, nil
			},
		}
		r := setupInvoiceRouter(NewInvoiceHandler(svc, &mockExtractor{}))

		rec := doRequest(r, "PATCH", "/invoices/inv-1", `{"status":"DISPUTED"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockInvoiceService{
			updateInvoiceFn: func(string, services.InvoiceUpdates) (*models.Invoice, error) {
				return nil, apperrors.ErrInvoiceNotFound
			},
		}
		r := setupInvoiceRouter(NewInvoiceHandler(svc, &mockExtractor{}))

		rec := doRequest(r, "PATCH", "/invoices/missing-id", `{"notes":"x"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestInvoiceHandler_ExtractInvoice(t *testing.T) {
	t.Run("returns extraction result", func(t *testing.T) {
		acme := "Acme Supply"
		extractor := &mockExtractor{
			extractFn: func(_ context.Context, text, fileName string) (*services.ExtractionResult, error) {
				if text == "" {
					t.Error("expected text passed through")
				}
				return &services.ExtractionResult{
					Extracted: &services.ExtractedInvoice{VendorName: &acme},
				}, nil
			},
		}
		r := setupInvoiceRouter(NewInvoiceHandler(&mockInvoiceService{}, extractor))

		rec := doRequest(r, "POST", "/jobs/job-1/invoices/extract",
			`{"text":"INVOICE #123 Acme Supply","fileName":"invoice.pdf"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		extracted := result["extracted"].(map[string]interface{})
		if extracted["vendorName"] != "Acme Supply" {
			t.Errorf("expected vendor Acme Supply, got %v", extracted["vendorName"])
		}
	})

	t.Run("returns 400 on missing text", func(t *testing.T) {
		r := setupInvoiceRouter(NewInvoiceHandler(&mockInvoiceService{}, &mockExtractor{}))

		rec := doRequest(r, "POST", "/jobs/job-1/invoices/extract", `{"fileName":"invoice.pdf"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 502 on upstream failure", func(t *testing.T) {
		extractor := &mockExtractor{
			extractFn: func(context.Context, string, string) (*services.ExtractionResult, error) {
				return nil, apperrors.ErrExtractionFailed
			},
		}
		r := setupInvoiceRouter(NewInvoiceHandler(&mockInvoiceService{}, extractor))

		rec := doRequest(r, "POST", "/jobs/job-1/invoices/extract", `{"text":"some invoice"}`)

		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "EXTRACTION_FAILED")
	})
}

func TestInvoiceHandler_DeleteInvoice(t *testing.T) {
	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockInvoiceService{
			deleteInvoiceFn: func(string) error { return apperrors.ErrInvoiceNotFound },
		}
		r := setupInvoiceRouter(NewInvoiceHandler(svc, &mockExtractor{}))

		rec := doRequest(r, "DELETE", "/invoices/missing-id", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
