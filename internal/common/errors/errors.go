// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"errors"
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
	ErrCodeChecklistParseFailed   ErrorCode = "CHECKLIST_PARSE_FAILED"
	ErrCodeChecklistSchemaInvalid ErrorCode = "CHECKLIST_SCHEMA_INVALID"

	ErrCodeAuditCacheUnavailable ErrorCode = "AUDIT_CACHE_UNAVAILABLE"
	ErrCodeAuditTimeout          ErrorCode = "AUDIT_TIMEOUT"

	ErrCodeReportBuildFailed ErrorCode = "REPORT_BUILD_FAILED"

	ErrCodeAlertSendFailed       ErrorCode = "ALERT_SEND_FAILED"
	ErrCodeAlertRecipientMissing ErrorCode = "ALERT_RECIPIENT_MISSING"

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

// WithMetadata attaches a key to the error metadata and returns the error.
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

// NewChecklistParseFailedError reports job variables that are not a checklist payload.
func NewChecklistParseFailedError(err error) *StandardError {
	return newError(ErrCodeChecklistParseFailed, "Failed to parse checklist variables", err.Error(), false)
}

// NewChecklistSchemaInvalidError reports a payload rejected by the activity input schema.
func NewChecklistSchemaInvalidError(violations []string) *StandardError {
	return newError(ErrCodeChecklistSchemaInvalid, "Checklist payload failed schema validation", strings.Join(violations, "; "), false).
		WithMetadata("violations", violations)
}

// NewAuditCacheUnavailableError wraps a cache backend failure. Callers fall
// back to computing the audit directly.
func NewAuditCacheUnavailableError(op string, err error) *StandardError {
	return newError(ErrCodeAuditCacheUnavailable, "Audit cache unavailable", fmt.Sprintf("op: %s, error: %s", op, err.Error()), true)
}

func NewAuditTimeoutError(listID string) *StandardError {
	return newError(ErrCodeAuditTimeout, "Checklist audit timed out", fmt.Sprintf("listId: %s", listID), true)
}

func NewReportBuildFailedError(details string) *StandardError {
	return newError(ErrCodeReportBuildFailed, "Food safety report could not be built", details, false)
}

func NewAlertSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeAlertSendFailed, fmt.Sprintf("Integrity alert delivery via %s failed", channel), err.Error(), true)
}

func NewAlertRecipientMissingError() *StandardError {
	return newError(ErrCodeAlertRecipientMissing, "No alert recipients configured", "set alerts.reviewer_emails or alerts.sns_topic_arn", false)
}

// Generic constructors

func NewExternalServiceError(service string, err error) *StandardError {
	return newError("EXTERNAL_SERVICE_ERROR", fmt.Sprintf("External service '%s' error", service), err.Error(), true)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError("TIMEOUT_ERROR", fmt.Sprintf("Service '%s' timeout", service), err.Error(), true)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the codes modelled on BPMN boundary events.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeChecklistParseFailed:   "CHECKLIST_PARSE_FAILED",
	ErrCodeChecklistSchemaInvalid: "CHECKLIST_SCHEMA_INVALID",
	ErrCodeAuditCacheUnavailable:  "AUDIT_CACHE_UNAVAILABLE",
	ErrCodeAuditTimeout:           "AUDIT_TIMEOUT",
	ErrCodeReportBuildFailed:      "REPORT_BUILD_FAILED",
	ErrCodeAlertSendFailed:        "ALERT_SEND_FAILED",
	ErrCodeAlertRecipientMissing:  "ALERT_RECIPIENT_MISSING",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeAuditCacheUnavailable,
		ErrCodeAlertSendFailed,
		"EXTERNAL_SERVICE_ERROR":
		return 3

	case ErrCodeAuditTimeout,
		"TIMEOUT_ERROR":
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

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// AsStandardError unwraps err to a *StandardError when one is in the chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandardError(err)
	return ok && stdErr.Code == code
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "CHECKLIST"):
		return "VALIDATION"
	case strings.HasPrefix(codeStr, "AUDIT"):
		return "AUDIT"
	case strings.HasPrefix(codeStr, "REPORT"):
		return "REPORT"
	case strings.HasPrefix(codeStr, "ALERT"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "TIMEOUT"):
		return "TIMEOUT"
	case strings.Contains(codeStr, "EXTERNAL"):
		return "EXTERNAL"
	default:
		return "UNKNOWN"
	}
}
