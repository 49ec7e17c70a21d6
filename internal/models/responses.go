package models

import (
	"time"
)

// --- Standard API Response Structures ---

// SuccessResponse wraps a payload in the standard success envelope.
// The analysis service answers with bare payloads; the client accepts both.
type SuccessResponse struct {
	Success bool             `json:"success" example:"true"`
	Data    interface{}      `json:"data,omitempty"`
	Meta    MetadataResponse `json:"meta,omitempty"`
}

// ErrorInfo represents the details of an API error.
// @description Detailed information about an error that occurred during an API request.
type ErrorInfo struct {
	// Code is a machine-readable error code identifying the specific error type.
	// example: SCAN_NOT_FOUND
	Code string `json:"code" example:"SCAN_NOT_FOUND"`

	// Message is a human-readable description of the error.
	// example: Scan not found
	Message string `json:"message" example:"Scan not found"`

	// Details provides optional additional information about the error, such as validation failures.
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse represents a standard error API response structure.
// Detail mirrors Error.Message for clients that only read a top-level "detail" field.
// @description Standard structure for returning errors from the API.
type ErrorResponse struct {
	Success bool             `json:"success" example:"false"`
	Error   ErrorInfo        `json:"error"`
	Detail  string           `json:"detail,omitempty" example:"Scan not found"`
	Meta    MetadataResponse `json:"meta"`
}

// MetadataResponse represents common metadata for API responses
type MetadataResponse struct {
	Timestamp time.Time `json:"timestamp" example:"2023-10-27T10:30:00Z"`
	RequestID string    `json:"request_id,omitempty" example:"req-12345"`
}

// ServiceInfo is the body of GET /api/
type ServiceInfo struct {
	Message string `json:"message" example:"SecureReview API"`
	Version string `json:"version" example:"1.0.0"`
}
