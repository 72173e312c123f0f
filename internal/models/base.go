// Package models defines the GORM models for the Hardhat API.
package models

import (
	"time"

	"hardhat/internal/uuid"

	"gorm.io/gorm"
)

// Base contains common columns for all tables. Deletes are hard deletes;
// job ownership cascades are enforced at the schema level.
type Base struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}
