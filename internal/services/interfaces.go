// Package services contains the business logic for the Hardhat API.
package services

import (
	"context"
	"io"
	"time"

	"hardhat/internal/models"
	"hardhat/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, name string, role models.UserRole, phone string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	ListUsers(role *models.UserRole) ([]models.User, error)
}

// JobFilter holds optional filter parameters for listing jobs.
type JobFilter struct {
	Status *models.JobStatus
	Search string
}

// JobInput holds the fields accepted when creating a job. The job number
// is always generated server-side.
type JobInput struct {
	Name             string
	Address          *string
	ClientName       *string
	Description      *string
	Status           models.JobStatus
	StartDate        *time.Time
	EndDate          *time.Time
	BudgetTotal      float64
	ProjectManagerID *string
}

// JobUpdates holds optional field updates for a job; nil means unchanged.
type JobUpdates struct {
	Name             *string
	Address          *string
	ClientName       *string
	Description      *string
	Status           *models.JobStatus
	StartDate        *time.Time
	EndDate          *time.Time
	BudgetTotal      *float64
	ProjectManagerID *string
}

// JobServicer defines the contract for job-related business logic.
type JobServicer interface {
	CreateJob(input JobInput) (*models.Job, error)
	GetJobs(page pagination.PageRequest, filter JobFilter) (*pagination.PageResponse[models.Job], error)
	GetJobByID(id string) (*models.Job, error)
	UpdateJob(id string, updates JobUpdates) (*models.Job, error)
	DeleteJob(id string) error
}

// MaterialInput holds the fields accepted when creating a job material.
type MaterialInput struct {
	CatalogItemID   *string
	CustomName      *string
	Description     *string
	Unit            string
	QuantityNeeded  float64
	QuantityOrdered float64
	QuantityOnSite  float64
	UnitCost        *float64
	Status          models.MaterialStatus
	Vendor          *string
	Notes           *string
	Trade           models.Trade
}

// MaterialUpdates holds optional field updates for a material; nil means unchanged.
type MaterialUpdates struct {
	CustomName      *string
	Description     *string
	Unit            *string
	QuantityNeeded  *float64
	QuantityOrdered *float64
	QuantityOnSite  *float64
	UnitCost        *float64
	Status          *models.MaterialStatus
	Vendor          *string
	Notes           *string
	Trade           *models.Trade
}

// MaterialFilter holds optional filter parameters for listing job materials.
type MaterialFilter struct {
	Status *models.MaterialStatus
	Trade  *models.Trade
}

// MaterialServicer defines the contract for job material business logic,
// including bulk creation and file import.
type MaterialServicer interface {
	CreateMaterials(jobID string, inputs []MaterialInput) ([]models.JobMaterial, error)
	GetJobMaterials(jobID string, filter MaterialFilter) ([]models.JobMaterial, error)
	UpdateMaterial(id string, updates MaterialUpdates) (*models.JobMaterial, error)
	DeleteMaterial(id string) error
	ImportMaterials(jobID string, content []byte, filename string) ([]models.JobMaterial, error)
}

// InvoiceItemInput holds one invoice line item on creation.
type InvoiceItemInput struct {
	JobMaterialID *string
	Description   *string
	Quantity      *float64
	UnitPrice     *float64
	TotalPrice    *float64
}

// InvoiceInput holds the fields accepted when creating an invoice.
type InvoiceInput struct {
	VendorName    *string
	InvoiceNumber *string
	InvoiceDate   *time.Time
	TotalAmount   *float64
	TaxAmount     *float64
	Status        models.InvoiceStatus
	FileURL       *string
	FileName      *string
	RawText       *string
	AIExtracted   []byte
	Notes         *string
	Items         []InvoiceItemInput
}

// InvoiceUpdates holds optional field updates for an invoice; nil means unchanged.
type InvoiceUpdates struct {
	VendorName    *string
	InvoiceNumber *string
	InvoiceDate   *time.Time
	TotalAmount   *float64
	TaxAmount     *float64
	Status        *models.InvoiceStatus
	Notes         *string
}

// InvoiceServicer defines the contract for invoice-related business logic.
type InvoiceServicer interface {
	CreateInvoice(jobID, uploadedByID string, input InvoiceInput) (*models.Invoice, error)
	GetJobInvoices(jobID string) ([]models.Invoice, error)
	GetInvoiceByID(id string) (*models.Invoice, error)
	UpdateInvoice(id string, updates InvoiceUpdates) (*models.Invoice, error)
	DeleteInvoice(id string) error
}

// BudgetView is the computed financial rollup for one job. The remaining
// amount subtracts only approved and paid invoices; totalInvoiced counts
// every invoice regardless of status.
type BudgetView struct {
	BudgetTotal           float64                  `json:"budgetTotal"`
	TotalInvoiced         float64                  `json:"totalInvoiced"`
	ApprovedInvoiced      float64                  `json:"approvedInvoiced"`
	EstimatedMaterialCost float64                  `json:"estimatedMaterialCost"`
	Remaining             float64                  `json:"remaining"`
	PercentUsed           float64                  `json:"percentUsed"`
	VendorSpending        map[string]float64       `json:"vendorSpending"`
	TradeSpending         map[models.Trade]float64 `json:"tradeSpending"`
	InvoiceCount          int                      `json:"invoiceCount"`
	MaterialCount         int                      `json:"materialCount"`
}

// JobSummaryView is one row of the fleet summary report. Unlike the
// budget view, totalInvoiced here includes invoices of every status;
// the dashboard "spent" column depends on that.
type JobSummaryView struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	JobNumber     string           `json:"jobNumber"`
	Status        models.JobStatus `json:"status"`
	Budget        float64          `json:"budget"`
	TotalInvoiced float64          `json:"totalInvoiced"`
	MaterialCount int              `json:"materialCount"`
	InvoiceCount  int              `json:"invoiceCount"`
	EstimatedCost float64          `json:"estimatedCost"`
}

// VendorSummaryView aggregates spending with one vendor across jobs.
type VendorSummaryView struct {
	VendorName   string  `json:"vendorName"`
	TotalSpent   float64 `json:"totalSpent"`
	InvoiceCount int     `json:"invoiceCount"`
	JobCount     int     `json:"jobCount"`
}

// ReportServicer defines the contract for budget and reporting rollups.
type ReportServicer interface {
	JobBudget(jobID string) (*BudgetView, error)
	FleetSummary() ([]JobSummaryView, error)
	VendorReport(jobID *string) ([]VendorSummaryView, error)
	MaterialsReport(jobID string) ([]models.JobMaterial, error)
	WriteFleetCSV(w io.Writer) error
}

// CatalogServicer defines the contract for the materials catalog tree.
type CatalogServicer interface {
	GetCatalog(trade *models.Trade, search string) ([]models.CatalogCategory, error)
	CreateCategory(name string, trade models.Trade, sortOrder int) (*models.CatalogCategory, error)
	CreateSubcategory(name, categoryID string, sortOrder int) (*models.CatalogSubcategory, error)
	CreateItem(name string, description *string, defaultUnit string, estimatedPrice *float64, subcategoryID string) (*models.CatalogItem, error)
}

// NotificationList pairs a page of notifications with the unread count.
type NotificationList struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unreadCount"`
}

// NotificationServicer defines the contract for in-app notifications.
// Notify never returns an error: notification failures are logged and
// must not disrupt the operation that triggered them.
type NotificationServicer interface {
	Notify(userID string, jobID *string, notificationType models.NotificationType, title, message string)
	GetUserNotifications(userID string) (*NotificationList, error)
	MarkRead(userID, notificationID string) error
	MarkAllRead(userID string) error
}

// ExtractedItem is one line item recovered from invoice text.
type ExtractedItem struct {
	Description string   `json:"description"`
	Quantity    *float64 `json:"quantity"`
	UnitPrice   *float64 `json:"unitPrice"`
	TotalPrice  *float64 `json:"totalPrice"`
}

// ExtractedInvoice is the structured record recovered from invoice text.
// Every field is best-effort and may be absent.
type ExtractedInvoice struct {
	VendorName    *string         `json:"vendorName"`
	InvoiceNumber *string         `json:"invoiceNumber"`
	InvoiceDate   *string         `json:"invoiceDate"`
	TotalAmount   *float64        `json:"totalAmount"`
	TaxAmount     *float64        `json:"taxAmount"`
	Items         []ExtractedItem `json:"items"`
}

// ExtractionResult carries the extraction outcome. When the model reply
// is not parseable JSON, Extracted is nil, Raw holds the reply text, and
// ParseError is set; that is a degraded success, not a failure.
type ExtractionResult struct {
	Extracted  *ExtractedInvoice `json:"extracted"`
	Raw        string            `json:"raw,omitempty"`
	ParseError bool              `json:"parseError,omitempty"`
}

// Extractor defines the contract for the external invoice text
// extraction collaborator.
type Extractor interface {
	Extract(ctx context.Context, text, fileName string) (*ExtractionResult, error)
}
