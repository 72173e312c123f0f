package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "hardhat/internal/errors"
	"hardhat/internal/models"
	"hardhat/internal/services"
)

// CatalogHandler handles materials catalog requests.
type CatalogHandler struct {
	catalogService services.CatalogServicer
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService services.CatalogServicer) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// CreateCategoryRequest represents the request payload for creating a category.
type CreateCategoryRequest struct {
	Name      string       `json:"name" binding:"required,min=1,max=100"`
	Trade     models.Trade `json:"trade" binding:"omitempty,trade"`
	SortOrder int          `json:"sortOrder" binding:"omitempty,gte=0"`
}

// CreateSubcategoryRequest represents the request payload for creating a subcategory.
type CreateSubcategoryRequest struct {
	Name       string `json:"name" binding:"required,min=1,max=100"`
	CategoryID string `json:"categoryId" binding:"required"`
	SortOrder  int    `json:"sortOrder" binding:"omitempty,gte=0"`
}

// CreateItemRequest represents the request payload for creating a catalog item.
type CreateItemRequest struct {
	Name           string   `json:"name" binding:"required,min=1,max=200"`
	Description    *string  `json:"description"`
	DefaultUnit    string   `json:"defaultUnit" binding:"max=50"`
	EstimatedPrice *float64 `json:"estimatedPrice" binding:"omitempty,gte=0"`
	SubcategoryID  string   `json:"subcategoryId" binding:"required"`
}

// GetCatalog handles retrieving the catalog tree.
// @Summary     Get catalog
// @Description Get the materials catalog tree with optional trade and item search filters
// @Tags        catalog
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       trade  query string false "Filter by trade"
// @Param       search query string false "Search item names and descriptions"
// @Success     200 {object} map[string][]models.CatalogCategory "Catalog tree"
// @Failure     400 {object} ErrorResponse "Invalid trade"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /catalog [get]
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	var trade *models.Trade
	if v := c.Query("trade"); v != "" {
		t := models.Trade(v)
		if !models.ValidTrade(t) {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid trade"))
			return
		}
		trade = &t
	}

	categories, err := h.catalogService.GetCatalog(trade, c.Query("search"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CreateCategory handles creating a catalog category.
// @Summary     Create catalog category
// @Description Create a top-level catalog category
// @Tags        catalog
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCategoryRequest true "Category details"
// @Success     201 {object} models.CatalogCategory "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Duplicate category"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /catalog/categories [post]
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	trade := req.Trade
	if trade == "" {
		trade = models.TradeGeneral
	}

	category, err := h.catalogService.CreateCategory(req.Name, trade, req.SortOrder)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// CreateSubcategory handles creating a catalog subcategory.
// @Summary     Create catalog subcategory
// @Description Create a subcategory under an existing category
// @Tags        catalog
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateSubcategoryRequest true "Subcategory details"
// @Success     201 {object} models.CatalogSubcategory "Subcategory created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Duplicate subcategory"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /catalog/subcategories [post]
func (h *CatalogHandler) CreateSubcategory(c *gin.Context) {
	var req CreateSubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	subcategory, err := h.catalogService.CreateSubcategory(req.Name, req.CategoryID, req.SortOrder)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"subcategory": subcategory})
}

// CreateItem handles creating a catalog item.
// @Summary     Create catalog item
// @Description Create a catalog item under an existing subcategory
// @Tags        catalog
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateItemRequest true "Item details"
// @Success     201 {object} models.CatalogItem "Item created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Subcategory not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /catalog/items [post]
func (h *CatalogHandler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	item, err := h.catalogService.CreateItem(req.Name, req.Description, req.DefaultUnit, req.EstimatedPrice, req.SubcategoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": item})
}
