package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "hardhat/internal/errors"
	"hardhat/internal/models"
)

// catalogService handles the materials catalog tree.
type catalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a new CatalogServicer.
func NewCatalogService(db *gorm.DB) CatalogServicer {
	return &catalogService{db: db}
}

// GetCatalog returns the catalog tree ordered by sort order, optionally
// filtered by trade and an item name/description search.
func (s *catalogService) GetCatalog(trade *models.Trade, search string) ([]models.CatalogCategory, error) {
	query := s.db.Model(&models.CatalogCategory{}).Order("sort_order ASC")
	if trade != nil {
		query = query.Where("trade = ?", *trade)
	}

	query = query.Preload("Subcategories", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	})
	if search != "" {
		like := "%" + search + "%"
		query = query.Preload("Subcategories.Items", func(db *gorm.DB) *gorm.DB {
			return db.Where("name LIKE ? OR description LIKE ?", like, like).Order("name ASC")
		})
	} else {
		query = query.Preload("Subcategories.Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		})
	}

	var categories []models.CatalogCategory
	if err := query.Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// CreateCategory adds a top-level catalog category.
func (s *catalogService) CreateCategory(name string, trade models.Trade, sortOrder int) (*models.CatalogCategory, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Category name is required")
	}

	var count int64
	s.db.Model(&models.CatalogCategory{}).Where("name = ? AND trade = ?", name, trade).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateCatalogEntry
	}

	category := &models.CatalogCategory{Name: name, Trade: trade, SortOrder: sortOrder}
	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// CreateSubcategory adds a subcategory under an existing category.
func (s *catalogService) CreateSubcategory(name, categoryID string, sortOrder int) (*models.CatalogSubcategory, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Subcategory name is required")
	}

	var category models.CatalogCategory
	if err := s.db.Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCatalogCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var count int64
	s.db.Model(&models.CatalogSubcategory{}).Where("name = ? AND category_id = ?", name, categoryID).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateCatalogEntry
	}

	subcategory := &models.CatalogSubcategory{Name: name, CategoryID: categoryID, SortOrder: sortOrder}
	if err := s.db.Create(subcategory).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return subcategory, nil
}

// CreateItem adds a catalog item under an existing subcategory.
func (s *catalogService) CreateItem(name string, description *string, defaultUnit string, estimatedPrice *float64, subcategoryID string) (*models.CatalogItem, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Item name is required")
	}

	var subcategory models.CatalogSubcategory
	if err := s.db.Where("id = ?", subcategoryID).First(&subcategory).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCatalogSubcategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if defaultUnit == "" {
		defaultUnit = "each"
	}

	item := &models.CatalogItem{
		Name:           name,
		Description:    description,
		DefaultUnit:    defaultUnit,
		EstimatedPrice: estimatedPrice,
		SubcategoryID:  subcategoryID,
	}
	if err := s.db.Create(item).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return item, nil
}
