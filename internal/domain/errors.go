package domain

import "errors"

// Error kinds of the budget engine. Repositories and services wrap these with
// fmt.Errorf("%w: ..."); handlers match with errors.Is to pick a status code.
var (
	// ErrNotFound is returned when a referenced plan, budget, line item or
	// change order does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrValidation is returned when a required field is missing or malformed
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateCode is returned when a line item code collides with a
	// sibling in the same budget
	ErrDuplicateCode = errors.New("duplicate line item code")

	// ErrInvalidTransition is returned on a change-order state machine
	// violation, e.g. approving an already-denied order. Never coerced to a
	// no-op so callers can distinguish "already done" from "allowed".
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrConflict is returned when an external collaborator rejects an
	// operation, e.g. the ledger refusing a budget deletion
	ErrConflict = errors.New("resource conflict")
)

// APIError represents a standardized API error with HTTP status code
type APIError struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}

// Common error types for RFC 7807 Problem Details
const (
	ErrorTypeValidation   = "validation_error"
	ErrorTypeNotFound     = "not_found"
	ErrorTypeBadRequest   = "bad_request"
	ErrorTypeConflict     = "conflict"
	ErrorTypeUnauthorized = "unauthorized"
	ErrorTypeForbidden    = "forbidden"
	ErrorTypeInternal     = "internal_error"
)

// ValidationMessages provides human-readable validation error messages
// These map validator tags to user-friendly messages
var ValidationMessages = map[string]string{
	"required": "This field is required",
	"max":      "Exceeds maximum length",
	"min":      "Below minimum length",
	"gte":      "Must be greater than or equal to minimum value",
	"gt":       "Must be greater than minimum value",
	"lte":      "Must be less than or equal to maximum value",
	"lt":       "Must be less than maximum value",
	"uuid":     "Must be a valid UUID",
	"oneof":    "Must be one of the allowed values",
	"numeric":  "Must be a numeric value",
	"datetime": "Must be a valid date",
}

// GetValidationMessage returns a human-readable message for a validation tag
func GetValidationMessage(tag string) string {
	if msg, ok := ValidationMessages[tag]; ok {
		return msg
	}
	return "Validation failed: " + tag
}
