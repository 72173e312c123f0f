// Package errors provides custom error types for the Hardhat API.
// All service-layer errors should use AppError so responses stay
// consistent and never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Job errors.
var (
	ErrJobNotFound        = &AppError{Code: "JOB_NOT_FOUND", Message: "Job not found", StatusCode: http.StatusNotFound}
	ErrDuplicateJobNumber = &AppError{Code: "DUPLICATE_JOB_NUMBER", Message: "A job with this job number already exists", StatusCode: http.StatusConflict}
)

// Material errors.
var (
	ErrMaterialNotFound = &AppError{Code: "MATERIAL_NOT_FOUND", Message: "Material not found", StatusCode: http.StatusNotFound}
	ErrEmptyImport      = &AppError{Code: "EMPTY_IMPORT", Message: "No materials found in file", StatusCode: http.StatusBadRequest}
)

// Invoice errors.
var (
	ErrInvoiceNotFound  = &AppError{Code: "INVOICE_NOT_FOUND", Message: "Invoice not found", StatusCode: http.StatusNotFound}
	ErrNoExtractText    = &AppError{Code: "NO_EXTRACT_TEXT", Message: "No text to extract from", StatusCode: http.StatusBadRequest}
	ErrExtractionFailed = &AppError{Code: "EXTRACTION_FAILED", Message: "Failed to extract invoice data", StatusCode: http.StatusBadGateway}
)

// Catalog errors.
var (
	ErrCatalogCategoryNotFound    = &AppError{Code: "CATALOG_CATEGORY_NOT_FOUND", Message: "Catalog category not found", StatusCode: http.StatusNotFound}
	ErrCatalogSubcategoryNotFound = &AppError{Code: "CATALOG_SUBCATEGORY_NOT_FOUND", Message: "Catalog subcategory not found", StatusCode: http.StatusNotFound}
	ErrCatalogItemNotFound        = &AppError{Code: "CATALOG_ITEM_NOT_FOUND", Message: "Catalog item not found", StatusCode: http.StatusNotFound}
	ErrDuplicateCatalogEntry      = &AppError{Code: "DUPLICATE_CATALOG_ENTRY", Message: "A catalog entry with this name already exists", StatusCode: http.StatusConflict}
)

// Notification errors.
var (
	ErrNotificationNotFound = &AppError{Code: "NOTIFICATION_NOT_FOUND", Message: "Notification not found", StatusCode: http.StatusNotFound}
)
