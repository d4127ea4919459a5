package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/plenario-app/go-chat-gateway/internal/logger"
)

// ErrorType classifies gateway errors
type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "validation_error"
	ErrorTypeConfiguration ErrorType = "configuration_error"
	ErrorTypeUpstream      ErrorType = "upstream_error"
	ErrorTypeInternal      ErrorType = "internal_error"
)

// APIError represents a structured gateway error
type APIError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// ErrorResponse is the JSON body returned to clients on failure
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewValidationError creates a validation error
func NewValidationError(message string) *APIError {
	return &APIError{Type: ErrorTypeValidation, Message: message}
}

// NewConfigurationError creates a configuration error
func NewConfigurationError(message string) *APIError {
	return &APIError{Type: ErrorTypeConfiguration, Message: message}
}

// NewInternalError creates an internal error
func NewInternalError(message string) *APIError {
	return &APIError{Type: ErrorTypeInternal, Message: message}
}

// UpstreamError carries a verbatim upstream failure so the caller receives
// the provider's own status code and body instead of a synthesized message.
type UpstreamError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
}

// HandleError writes a structured JSON error response
func HandleError(w http.ResponseWriter, err error, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := ErrorResponse{Error: err.Error()}
	if encodeErr := json.NewEncoder(w).Encode(resp); encodeErr != nil {
		logger.Error(context.Background(), "Failed to encode error response", encodeErr,
			"original_error", err.Error(),
			"status_code", statusCode,
		)
	}
}

// HandleUpstreamError forwards an upstream failure with its original status
// code and body wrapped in the standard error envelope.
func HandleUpstreamError(w http.ResponseWriter, upstreamErr *UpstreamError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(upstreamErr.StatusCode)

	resp := ErrorResponse{Error: upstreamErr.Body}
	if encodeErr := json.NewEncoder(w).Encode(resp); encodeErr != nil {
		logger.Error(context.Background(), "Failed to encode upstream error response", encodeErr,
			"upstream_status", upstreamErr.StatusCode,
		)
	}
}
