// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"hardhat/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("job_status", validateJobStatus)
		_ = v.RegisterValidation("material_status", validateMaterialStatus)
		_ = v.RegisterValidation("invoice_status", validateInvoiceStatus)
		_ = v.RegisterValidation("trade", validateTrade)
		_ = v.RegisterValidation("user_role", validateUserRole)
	}
}

func validateJobStatus(fl validator.FieldLevel) bool {
	switch models.JobStatus(fl.Field().String()) {
	case models.JobStatusPlanning, models.JobStatusInProgress, models.JobStatusOnHold,
		models.JobStatusCompleted, models.JobStatusCancelled:
		return true
	}
	return false
}

func validateMaterialStatus(fl validator.FieldLevel) bool {
	switch models.MaterialStatus(fl.Field().String()) {
	case models.MaterialStatusNeeded, models.MaterialStatusOrdered, models.MaterialStatusDelivered,
		models.MaterialStatusInstalled, models.MaterialStatusReturned:
		return true
	}
	return false
}

func validateInvoiceStatus(fl validator.FieldLevel) bool {
	switch models.InvoiceStatus(fl.Field().String()) {
	case models.InvoiceStatusPending, models.InvoiceStatusApproved,
		models.InvoiceStatusDisputed, models.InvoiceStatusPaid:
		return true
	}
	return false
}

func validateTrade(fl validator.FieldLevel) bool {
	return models.ValidTrade(models.Trade(fl.Field().String()))
}

func validateUserRole(fl validator.FieldLevel) bool {
	switch models.UserRole(fl.Field().String()) {
	case models.UserRoleAdmin, models.UserRoleProjectManager, models.UserRoleFieldCrew:
		return true
	}
	return false
}
