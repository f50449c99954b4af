// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"wind-workers/internal/windfarm/catalog"
	"wind-workers/internal/windfarm/engine"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeDistrictNotFound   ErrorCode = "DISTRICT_NOT_FOUND"
	ErrCodeInvalidParameter   ErrorCode = "INVALID_PARAMETER"
	ErrCodeInputParsingFailed ErrorCode = "INPUT_PARSING_FAILED"
	ErrCodeCalculationFailed  ErrorCode = "CALCULATION_FAILED"

	ErrCodeExportFailed ErrorCode = "EXPORT_FAILED"

	ErrCodeFeedbackValidationFailed ErrorCode = "FEEDBACK_VALIDATION_FAILED"
	ErrCodeFeedbackSendFailed       ErrorCode = "FEEDBACK_SEND_FAILED"

	ErrCodeAssistantTimeout ErrorCode = "ASSISTANT_TIMEOUT"
	ErrCodeAssistantFailed  ErrorCode = "ASSISTANT_FAILED"

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

// NewDistrictNotFoundError creates a non-retryable catalog lookup error.
func NewDistrictNotFoundError(name string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDistrictNotFound,
		Message:   "District not found in catalog",
		Details:   fmt.Sprintf("district: %s", name),
		Retryable: false,
		Metadata:  map[string]interface{}{"district": name},
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidParameterError creates a non-retryable boundary validation error.
func NewInvalidParameterError(field, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidParameter,
		Message:   "Project parameter out of range",
		Details:   details,
		Retryable: false,
		Metadata:  map[string]interface{}{"field": field},
		Timestamp: time.Now().UTC(),
	}
}

func NewInputParsingFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInputParsingFailed,
		Message:   "Failed to parse job variables",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCalculationFailedError wraps an unexpected engine failure.
func NewCalculationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCalculationFailed,
		Message:   "Projection calculation failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewExportFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExportFailed,
		Message:   "Workbook export failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewFeedbackValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFeedbackValidationFailed,
		Message:   "Feedback validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFeedbackSendFailedError creates a retryable delivery error.
func NewFeedbackSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeFeedbackSendFailed,
		Message:   "Feedback delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewAssistantTimeoutError(timeout time.Duration) *StandardError {
	return &StandardError{
		Code:      ErrCodeAssistantTimeout,
		Message:   "Assistant request timeout",
		Details:   fmt.Sprintf("request exceeded %s", timeout),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewAssistantFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAssistantFailed,
		Message:   "Assistant API error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return &StandardError{
		Code:      "RESOURCE_NOT_FOUND",
		Message:   fmt.Sprintf("Resource not found in %s", service),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewAuthenticationError(details string) *StandardError {
	return &StandardError{
		Code:      "AUTHENTICATION_ERROR",
		Message:   "Authentication failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// FromDomainError maps catalog and engine errors onto standard errors. Anything else
// becomes a non-retryable INTERNAL_ERROR.
func FromDomainError(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}

	var notFound *catalog.NotFoundError
	if stderrors.As(err, &notFound) {
		return NewDistrictNotFoundError(notFound.Name)
	}

	var invalid *engine.InvalidParameterError
	if stderrors.As(err, &invalid) {
		return NewInvalidParameterError(invalid.Field, invalid.Error())
	}

	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeDistrictNotFound:         "DISTRICT_NOT_FOUND",
	ErrCodeInvalidParameter:         "INVALID_PARAMETER",
	ErrCodeInputParsingFailed:       "INPUT_PARSING_FAILED",
	ErrCodeCalculationFailed:        "CALCULATION_FAILED",
	ErrCodeExportFailed:             "EXPORT_FAILED",
	ErrCodeFeedbackValidationFailed: "FEEDBACK_VALIDATION_FAILED",
	ErrCodeFeedbackSendFailed:       "FEEDBACK_SEND_FAILED",
	ErrCodeAssistantTimeout:         "ASSISTANT_TIMEOUT",
	ErrCodeAssistantFailed:          "ASSISTANT_FAILED",
}

// GetRetryCount returns the recommended retry count for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeFeedbackSendFailed,
		ErrCodeAssistantFailed,
		"EXTERNAL_SERVICE_ERROR":
		return 3

	case "TIMEOUT_ERROR":
		return 2

	case ErrCodeAssistantTimeout:
		return 1

	default:
		return 0 // domain errors are deterministic
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
	case strings.Contains(codeStr, "DISTRICT"):
		return "CATALOG"
	case strings.Contains(codeStr, "CALCULATION") || strings.Contains(codeStr, "PARAMETER"):
		return "ENGINE"
	case strings.Contains(codeStr, "EXPORT"):
		return "EXPORT"
	case strings.Contains(codeStr, "FEEDBACK"):
		return "FEEDBACK"
	case strings.Contains(codeStr, "ASSISTANT"):
		return "AI"
	case strings.Contains(codeStr, "PARSING") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
