package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"hardhat/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }

// FloatPtr returns a pointer to v.
func FloatPtr(v float64) *float64 { return &v }

// CreateTestUser creates a field crew user with a unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithRole(t, db, models.UserRoleFieldCrew)
}

// CreateTestProjectManager creates a project manager user.
func CreateTestProjectManager(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithRole(t, db, models.UserRoleProjectManager)
}

// CreateTestUserWithRole creates a user with a hashed password and the given role.
func CreateTestUserWithRole(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    fmt.Sprintf("user%d@test.com", nextID()),
		Password: string(hash),
		Name:     fmt.Sprintf("Test User %d", nextID()),
		Role:     role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestJob creates a job with the given budget.
func CreateTestJob(t *testing.T, db *gorm.DB, budgetTotal float64) *models.Job {
	t.Helper()

	n := nextID()
	job := &models.Job{
		Name:        fmt.Sprintf("Test Job %d", n),
		JobNumber:   fmt.Sprintf("KC-26-%04d", n),
		Status:      models.JobStatusInProgress,
		BudgetTotal: budgetTotal,
	}
	if err := db.Create(job).Error; err != nil {
		t.Fatalf("failed to create test job: %v", err)
	}
	return job
}

// CreateTestMaterial creates a material on the job with the given trade,
// unit cost (nil for unknown), and needed quantity.
func CreateTestMaterial(t *testing.T, db *gorm.DB, jobID string, trade models.Trade, unitCost *float64, quantityNeeded float64) *models.JobMaterial {
	t.Helper()

	name := fmt.Sprintf("Test Material %d", nextID())
	material := &models.JobMaterial{
		JobID:          jobID,
		CustomName:     &name,
		Unit:           "each",
		QuantityNeeded: quantityNeeded,
		UnitCost:       unitCost,
		Status:         models.MaterialStatusNeeded,
		Trade:          trade,
	}
	if err := db.Create(material).Error; err != nil {
		t.Fatalf("failed to create test material: %v", err)
	}
	return material
}

// CreateTestInvoice creates an invoice on the job with the given vendor
// (nil for unknown), total amount (nil for missing), and status.
func CreateTestInvoice(t *testing.T, db *gorm.DB, jobID, uploadedByID string, vendor *string, totalAmount *float64, status models.InvoiceStatus) *models.Invoice {
	t.Helper()

	number := fmt.Sprintf("INV-%04d", nextID())
	invoice := &models.Invoice{
		JobID:         jobID,
		UploadedByID:  uploadedByID,
		VendorName:    vendor,
		InvoiceNumber: &number,
		TotalAmount:   totalAmount,
		Status:        status,
	}
	if err := db.Create(invoice).Error; err != nil {
		t.Fatalf("failed to create test invoice: %v", err)
	}
	return invoice
}

// CreateTestCatalogItem creates a catalog item with a fresh category and
// subcategory for the given trade.
func CreateTestCatalogItem(t *testing.T, db *gorm.DB, trade models.Trade, defaultUnit string, estimatedPrice *float64) *models.CatalogItem {
	t.Helper()

	category := &models.CatalogCategory{
		Name:  fmt.Sprintf("Test Category %d", nextID()),
		Trade: trade,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test catalog category: %v", err)
	}

	subcategory := &models.CatalogSubcategory{
		Name:       fmt.Sprintf("Test Subcategory %d", nextID()),
		CategoryID: category.ID,
	}
	if err := db.Create(subcategory).Error; err != nil {
		t.Fatalf("failed to create test catalog subcategory: %v", err)
	}

	item := &models.CatalogItem{
		Name:           fmt.Sprintf("Test Item %d", nextID()),
		DefaultUnit:    defaultUnit,
		EstimatedPrice: estimatedPrice,
		SubcategoryID:  subcategory.ID,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create test catalog item: %v", err)
	}
	return item
}
