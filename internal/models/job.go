package models

import "time"

// JobStatus represents the lifecycle state of a job
type JobStatus string

const (
	JobStatusPlanning   JobStatus = "PLANNING"
	JobStatusInProgress JobStatus = "IN_PROGRESS"
	JobStatusOnHold     JobStatus = "ON_HOLD"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusCancelled  JobStatus = "CANCELLED"
)

// Job represents a construction project with a budget and associated
// materials and invoices. Deleting a job removes its materials, invoices,
// and notifications.
type Job struct {
	Base
	Name             string     `gorm:"not null" json:"name"`
	JobNumber        string     `gorm:"uniqueIndex;not null" json:"jobNumber"`
	Address          *string    `json:"address,omitempty"`
	ClientName       *string    `json:"clientName,omitempty"`
	Description      *string    `json:"description,omitempty"`
	Status           JobStatus  `gorm:"not null;default:PLANNING" json:"status"`
	StartDate        *time.Time `json:"startDate,omitempty"`
	EndDate          *time.Time `json:"endDate,omitempty"`
	BudgetTotal      float64    `gorm:"not null;default:0" json:"budgetTotal"`
	ProjectManagerID *string    `gorm:"type:uuid" json:"projectManagerId,omitempty"`

	// Relationships
	ProjectManager *User          `gorm:"foreignKey:ProjectManagerID" json:"projectManager,omitempty"`
	Materials      []JobMaterial  `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"materials,omitempty"`
	Invoices       []Invoice      `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"invoices,omitempty"`
	Notifications  []Notification `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"notifications,omitempty"`
}
