package models

import "errors"

var (
	// Validation errors, rejected before any store access.
	ErrInvalidClientID    = errors.New("invalid client ID")
	ErrMissingOldDay      = errors.New("old delivery day is required")
	ErrMissingNewDay      = errors.New("new delivery day is required")
	ErrInvalidDeliveryDay = errors.New("invalid delivery day, must be a weekday name")
	ErrInvalidVendorID    = errors.New("invalid vendor ID")
	ErrInvalidOrderID     = errors.New("invalid order ID")
	ErrEmptyCleanRequest  = errors.New("clean request must list client ids, order ids, or set clean_all")

	ErrClientNotFound = errors.New("client not found")
	ErrVendorNotFound = errors.New("vendor not found")
	ErrOrderNotFound  = errors.New("order not found")

	ErrMalformedActiveOrder = errors.New("malformed active order document")
)

var validationErrors = []error{
	ErrInvalidClientID,
	ErrMissingOldDay,
	ErrMissingNewDay,
	ErrInvalidDeliveryDay,
	ErrInvalidVendorID,
	ErrInvalidOrderID,
	ErrEmptyCleanRequest,
}

var notFoundErrors = []error{
	ErrClientNotFound,
	ErrVendorNotFound,
	ErrOrderNotFound,
}

// IsValidationError reports whether err is a request-validation failure,
// meaning no store access happened and no state changed.
func IsValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsNotFoundError reports whether err means a referenced record is absent.
func IsNotFoundError(err error) bool {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
