package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError is an error that carries its HTTP status and a stable error code.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError describes one invalid field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors represents multiple validation errors
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeNotFound           = "NOT_FOUND"
	CodeNoAttendanceData   = "NO_ATTENDANCE_DATA"
	CodeRollNotFound       = "ROLL_NOT_FOUND"
	CodeLogNotFound        = "LOG_NOT_FOUND"
	CodeUnsupportedFormat  = "UNSUPPORTED_FORMAT"
	CodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
	CodeUnprocessableFile  = "UNPROCESSABLE_FILE"
	CodeRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
	CodeInternal           = "INTERNAL_SERVER_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodePublishingDisabled = "PUBLISHING_DISABLED"
	CodePublishFailed      = "PUBLISH_FAILED"
	CodeWebSocketUpgrade   = "WEBSOCKET_UPGRADE_FAILED"
)

// Predefined errors
var (
	ErrInvalidRequest     = New(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format")
	ErrNotFound           = New(http.StatusNotFound, CodeNotFound, "Resource not found")
	ErrNoAttendanceData   = New(http.StatusNotFound, CodeNoAttendanceData, "No attendance log has been parsed yet")
	ErrPayloadTooLarge    = New(http.StatusRequestEntityTooLarge, CodePayloadTooLarge, "Attendance log exceeds the maximum allowed size")
	ErrRateLimitExceeded  = New(http.StatusTooManyRequests, CodeRateLimitExceeded, "Rate limit exceeded")
	ErrInternalServer     = New(http.StatusInternalServerError, CodeInternal, "Internal server error")
	ErrPublishingDisabled = New(http.StatusServiceUnavailable, CodePublishingDisabled, "Google Sheets publishing is not configured")
)

// InvalidRequestWithError creates an invalid request error with details
func InvalidRequestWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format", err.Error())
}

// ErrValidation creates a validation error for a single field
func ErrValidation(field, message string) *APIError {
	return NewValidationErrors([]ValidationError{{Field: field, Message: message}})
}

// NewValidationErrors creates validation errors from multiple fields
func NewValidationErrors(errs []ValidationError) *APIError {
	return NewWithDetails(
		http.StatusBadRequest,
		CodeValidationFailed,
		"Request validation failed",
		ValidationErrors{Errors: errs},
	)
}

// RollNotFound reports an unknown roll identifier
func RollNotFound(roll string) *APIError {
	return NewWithDetails(http.StatusNotFound, CodeRollNotFound, fmt.Sprintf("roll %q not found", roll), roll)
}

// LogNotFound reports an unknown stored log
func LogNotFound(name string) *APIError {
	return NewWithDetails(http.StatusNotFound, CodeLogNotFound, fmt.Sprintf("stored log %q not found", name), name)
}

// UnsupportedFormat reports an unknown export format
func UnsupportedFormat(format string, supported []string) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeUnsupportedFormat,
		fmt.Sprintf("export format %q is not supported", format),
		map[string]interface{}{"supported": supported})
}

// UnprocessableFile reports an uploaded or referenced file that cannot be read
func UnprocessableFile(err error) *APIError {
	return NewWithDetails(http.StatusUnprocessableEntity, CodeUnprocessableFile, "Attendance file could not be read", err.Error())
}

// PublishFailed wraps an upstream Google Sheets failure
func PublishFailed(err error) *APIError {
	return NewWithDetails(http.StatusBadGateway, CodePublishFailed, "Publishing to Google Sheets failed", err.Error())
}
