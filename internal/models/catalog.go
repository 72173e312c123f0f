package models

// CatalogCategory is the top level of the materials catalog tree,
// unique per (name, trade).
type CatalogCategory struct {
	Base
	Name      string `gorm:"not null;uniqueIndex:idx_catalog_category_name_trade" json:"name"`
	Trade     Trade  `gorm:"not null;uniqueIndex:idx_catalog_category_name_trade" json:"trade"`
	SortOrder int    `gorm:"not null;default:0" json:"sortOrder"`

	Subcategories []CatalogSubcategory `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"subcategories,omitempty"`
}

// CatalogSubcategory groups catalog items under a category, unique per
// (name, category).
type CatalogSubcategory struct {
	Base
	Name       string `gorm:"not null;uniqueIndex:idx_catalog_subcategory_name_category" json:"name"`
	CategoryID string `gorm:"type:uuid;not null;uniqueIndex:idx_catalog_subcategory_name_category" json:"categoryId"`
	SortOrder  int    `gorm:"not null;default:0" json:"sortOrder"`

	Category *CatalogCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Items    []CatalogItem    `gorm:"foreignKey:SubcategoryID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// CatalogItem is a reusable material definition. DefaultUnit and
// EstimatedPrice seed new job materials and take no part in aggregation.
type CatalogItem struct {
	Base
	Name           string   `gorm:"not null" json:"name"`
	Description    *string  `json:"description,omitempty"`
	DefaultUnit    string   `gorm:"not null;default:each" json:"defaultUnit"`
	EstimatedPrice *float64 `json:"estimatedPrice,omitempty"`
	SubcategoryID  string   `gorm:"type:uuid;not null" json:"subcategoryId"`

	Subcategory *CatalogSubcategory `gorm:"foreignKey:SubcategoryID" json:"subcategory,omitempty"`
}
