package models

// Trade represents a construction discipline used to classify materials
// and catalog entries.
type Trade string

const (
	TradeGeneral     Trade = "GENERAL"
	TradePlumbing    Trade = "PLUMBING"
	TradeElectrical  Trade = "ELECTRICAL"
	TradeHVAC        Trade = "HVAC"
	TradeCarpentry   Trade = "CARPENTRY"
	TradePainting    Trade = "PAINTING"
	TradeRoofing     Trade = "ROOFING"
	TradeFlooring    Trade = "FLOORING"
	TradeConcrete    Trade = "CONCRETE"
	TradeLandscaping Trade = "LANDSCAPING"
)

// Trades lists every valid trade value.
var Trades = []Trade{
	TradeGeneral, TradePlumbing, TradeElectrical, TradeHVAC, TradeCarpentry,
	TradePainting, TradeRoofing, TradeFlooring, TradeConcrete, TradeLandscaping,
}

// ValidTrade reports whether t is one of the known trades.
func ValidTrade(t Trade) bool {
	for _, known := range Trades {
		if t == known {
			return true
		}
	}
	return false
}

// MaterialStatus represents where a material is in its procurement lifecycle
type MaterialStatus string

const (
	MaterialStatusNeeded    MaterialStatus = "NEEDED"
	MaterialStatusOrdered   MaterialStatus = "ORDERED"
	MaterialStatusDelivered MaterialStatus = "DELIVERED"
	MaterialStatusInstalled MaterialStatus = "INSTALLED"
	MaterialStatusReturned  MaterialStatus = "RETURNED"
)

// JobMaterial represents a tracked item needed for a job. It either
// references a catalog item or carries a custom name. UnitCost is a
// pointer because an unknown cost is distinct from a zero cost.
type JobMaterial struct {
	Base
	JobID           string         `gorm:"type:uuid;not null;index" json:"jobId"`
	CatalogItemID   *string        `gorm:"type:uuid" json:"catalogItemId,omitempty"`
	CustomName      *string        `json:"customName,omitempty"`
	Description     *string        `json:"description,omitempty"`
	Unit            string         `gorm:"not null;default:each" json:"unit"`
	QuantityNeeded  float64        `gorm:"not null;default:0" json:"quantityNeeded"`
	QuantityOrdered float64        `gorm:"not null;default:0" json:"quantityOrdered"`
	QuantityOnSite  float64        `gorm:"not null;default:0" json:"quantityOnSite"`
	UnitCost        *float64       `json:"unitCost,omitempty"`
	Status          MaterialStatus `gorm:"not null;default:NEEDED" json:"status"`
	Vendor          *string        `json:"vendor,omitempty"`
	Notes           *string        `json:"notes,omitempty"`
	Trade           Trade          `gorm:"not null;default:GENERAL" json:"trade"`

	// Relationships
	CatalogItem  *CatalogItem  `gorm:"foreignKey:CatalogItemID" json:"catalogItem,omitempty"`
	InvoiceItems []InvoiceItem `gorm:"foreignKey:JobMaterialID" json:"invoiceItems,omitempty"`
}

// EstimatedCost returns the estimated line cost for the material:
// unitCost x quantityNeeded, or 0 when the cost is unknown.
func (m *JobMaterial) EstimatedCost() float64 {
	if m.UnitCost == nil {
		return 0
	}
	return *m.UnitCost * m.QuantityNeeded
}
