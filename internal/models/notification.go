package models

// NotificationType classifies what a notification is about.
type NotificationType string

const (
	NotificationTypeInvoiceUploaded NotificationType = "INVOICE_UPLOADED"
	NotificationTypeInvoiceDisputed NotificationType = "INVOICE_DISPUTED"
	NotificationTypeMaterialImport  NotificationType = "MATERIAL_IMPORT"
)

// Notification is an in-app message for a user, optionally tied to a job.
type Notification struct {
	Base
	UserID  string           `gorm:"type:uuid;not null;index" json:"userId"`
	JobID   *string          `gorm:"type:uuid" json:"jobId,omitempty"`
	Title   string           `gorm:"not null" json:"title"`
	Message string           `gorm:"not null" json:"message"`
	Type    NotificationType `gorm:"not null" json:"type"`
	Read    bool             `gorm:"not null;default:false" json:"read"`

	Job *Job `gorm:"foreignKey:JobID" json:"job,omitempty"`
}
