package models

import (
	"encoding/json"
	"time"
)

// InvoiceStatus represents the approval state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending  InvoiceStatus = "PENDING"
	InvoiceStatusApproved InvoiceStatus = "APPROVED"
	InvoiceStatusDisputed InvoiceStatus = "DISPUTED"
	InvoiceStatusPaid     InvoiceStatus = "PAID"
)

// UnknownVendor is the bucket used when an invoice carries no vendor name.
const UnknownVendor = "Unknown"

// Invoice represents a vendor billing record for a job. TotalAmount and
// TaxAmount are pointers because uploaded invoices may not have been
// amounts-extracted yet; aggregation treats a missing amount as zero.
// AIExtracted holds the raw structured payload from text extraction and
// is never interpreted by the server.
type Invoice struct {
	Base
	JobID         string          `gorm:"type:uuid;not null;index" json:"jobId"`
	UploadedByID  string          `gorm:"type:uuid;not null" json:"uploadedById"`
	VendorName    *string         `json:"vendorName,omitempty"`
	InvoiceNumber *string         `json:"invoiceNumber,omitempty"`
	InvoiceDate   *time.Time      `json:"invoiceDate,omitempty"`
	TotalAmount   *float64        `json:"totalAmount,omitempty"`
	TaxAmount     *float64        `json:"taxAmount,omitempty"`
	Status        InvoiceStatus   `gorm:"not null;default:PENDING" json:"status"`
	FileURL       *string         `json:"fileUrl,omitempty"`
	FileName      *string         `json:"fileName,omitempty"`
	RawText       *string         `json:"rawText,omitempty"`
	AIExtracted   json.RawMessage `gorm:"type:jsonb" json:"aiExtracted,omitempty"`
	Notes         *string         `json:"notes,omitempty"`

	// Relationships
	Job        *Job          `gorm:"foreignKey:JobID" json:"job,omitempty"`
	UploadedBy *User         `gorm:"foreignKey:UploadedByID" json:"uploadedBy,omitempty"`
	Items      []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// Vendor returns the vendor name, or the Unknown bucket when absent.
func (i *Invoice) Vendor() string {
	if i.VendorName == nil || *i.VendorName == "" {
		return UnknownVendor
	}
	return *i.VendorName
}

// Amount returns the invoice total, treating a missing amount as zero.
func (i *Invoice) Amount() float64 {
	if i.TotalAmount == nil {
		return 0
	}
	return *i.TotalAmount
}

// InvoiceItem represents one line of an invoice, optionally linked to a
// job material.
type InvoiceItem struct {
	Base
	InvoiceID     string   `gorm:"type:uuid;not null;index" json:"invoiceId"`
	JobMaterialID *string  `gorm:"type:uuid" json:"jobMaterialId,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Quantity      *float64 `json:"quantity,omitempty"`
	UnitPrice     *float64 `json:"unitPrice,omitempty"`
	TotalPrice    *float64 `json:"totalPrice,omitempty"`

	// Relationships
	JobMaterial *JobMaterial `gorm:"foreignKey:JobMaterialID" json:"jobMaterial,omitempty"`
}
