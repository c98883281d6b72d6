// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodePoseNotDetected         ErrorCode = "POSE_NOT_DETECTED"
	ErrCodePoseServiceUnavailable  ErrorCode = "POSE_SERVICE_UNAVAILABLE"
	ErrCodeInvalidImage            ErrorCode = "INVALID_IMAGE"
	ErrCodeBodyModelNotFound       ErrorCode = "BODY_MODEL_NOT_FOUND"
	ErrCodeSessionNotFound         ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeUnsupportedExportFormat ErrorCode = "UNSUPPORTED_EXPORT_FORMAT"

	ErrCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	ErrCodeInputParsingFailed ErrorCode = "INPUT_PARSING_FAILED"

	ErrCodeStoreReadFailed     ErrorCode = "STORE_READ_FAILED"
	ErrCodeStoreWriteFailed    ErrorCode = "STORE_WRITE_FAILED"
	ErrCodeGarmentLookupFailed ErrorCode = "GARMENT_LOOKUP_FAILED"

	ErrCodeNotificationPublishFailed ErrorCode = "NOTIFICATION_PUBLISH_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata attaches a key/value pair and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewPoseNotDetectedError is raised when the pose model finds no person in the image.
func NewPoseNotDetectedError(details string) *StandardError {
	return newError(ErrCodePoseNotDetected, "No pose detected in image", details, false)
}

// NewPoseServiceUnavailableError wraps a transport failure talking to the pose service.
func NewPoseServiceUnavailableError(err error) *StandardError {
	return newError(ErrCodePoseServiceUnavailable, "Pose estimation service unavailable", err.Error(), true)
}

func NewInvalidImageError(details string) *StandardError {
	return newError(ErrCodeInvalidImage, "Image payload could not be decoded", details, false)
}

func NewBodyModelNotFoundError(bodyModelID string) *StandardError {
	return newError(ErrCodeBodyModelNotFound, "Body model not found",
		fmt.Sprintf("bodyModelId: %s", bodyModelID), false)
}

func NewSessionNotFoundError(sessionID string) *StandardError {
	return newError(ErrCodeSessionNotFound, "Try-on session not found",
		fmt.Sprintf("sessionId: %s", sessionID), false)
}

func NewUnsupportedExportFormatError(format string) *StandardError {
	return newError(ErrCodeUnsupportedExportFormat, "Unsupported mesh export format",
		fmt.Sprintf("format: %s", format), false)
}

// NewValidationError creates a non-retryable input validation error.
func NewValidationError(details string) *StandardError {
	return newError(ErrCodeValidationFailed, "Input validation failed", details, false)
}

func NewInputParsingError(err error) *StandardError {
	return newError(ErrCodeInputParsingFailed, "Failed to parse job variables", err.Error(), false)
}

// NewStoreReadError creates a retryable storage read error.
func NewStoreReadError(entity string, err error) *StandardError {
	return newError(ErrCodeStoreReadFailed, fmt.Sprintf("Failed to read %s", entity), err.Error(), true)
}

// NewStoreWriteError creates a retryable storage write error.
func NewStoreWriteError(entity string, err error) *StandardError {
	return newError(ErrCodeStoreWriteFailed, fmt.Sprintf("Failed to write %s", entity), err.Error(), true)
}

func NewGarmentLookupError(garmentID string, err error) *StandardError {
	return newError(ErrCodeGarmentLookupFailed, "Garment catalog lookup failed",
		fmt.Sprintf("garmentId: %s, error: %s", garmentID, err.Error()), true)
}

func NewNotificationPublishError(err error) *StandardError {
	return newError(ErrCodeNotificationPublishFailed, "Failed to publish notification", err.Error(), true)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the error codes caught by boundary events.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodePoseNotDetected:           "POSE_NOT_DETECTED",
	ErrCodePoseServiceUnavailable:    "POSE_SERVICE_UNAVAILABLE",
	ErrCodeInvalidImage:              "INVALID_IMAGE",
	ErrCodeBodyModelNotFound:         "BODY_MODEL_NOT_FOUND",
	ErrCodeSessionNotFound:           "SESSION_NOT_FOUND",
	ErrCodeUnsupportedExportFormat:   "UNSUPPORTED_EXPORT_FORMAT",
	ErrCodeValidationFailed:          "VALIDATION_FAILED",
	ErrCodeInputParsingFailed:        "VALIDATION_FAILED",
	ErrCodeStoreReadFailed:           "STORE_UNAVAILABLE",
	ErrCodeStoreWriteFailed:          "STORE_UNAVAILABLE",
	ErrCodeGarmentLookupFailed:       "GARMENT_LOOKUP_FAILED",
	ErrCodeNotificationPublishFailed: "NOTIFICATION_FAILED",
	ErrCodeInternal:                  "INTERNAL_ERROR",
}

// GetRetryCount returns the recommended retry count for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeStoreReadFailed,
		ErrCodeStoreWriteFailed,
		ErrCodeGarmentLookupFailed,
		ErrCodeNotificationPublishFailed:
		return 3

	case ErrCodePoseServiceUnavailable:
		return 2

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "POSE") || strings.Contains(codeStr, "IMAGE"):
		return "POSE"
	case strings.HasPrefix(codeStr, "STORE") || strings.HasSuffix(codeStr, "NOT_FOUND"):
		return "STORAGE"
	case strings.HasPrefix(codeStr, "GARMENT"):
		return "CATALOG"
	case strings.HasPrefix(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "PARSING") ||
		strings.Contains(codeStr, "UNSUPPORTED"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
