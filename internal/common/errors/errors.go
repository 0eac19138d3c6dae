// internal/common/errors/errors.go

// Package errors provides the standardized error taxonomy of the route
// planner and its BPMN workflow integration.
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
	// Fatal: the whole calculation aborts.
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeHubUnavailable   ErrorCode = "HUB_UNAVAILABLE"

	// Recovered at the route-option level: the single option becomes
	// infeasible, sibling template evaluations continue.
	ErrCodeLegUnresolvable ErrorCode = "LEG_UNRESOLVABLE"

	// Recovered locally by the provider fallback chain; never surfaced
	// to the caller.
	ErrCodeProviderFailed  ErrorCode = "PROVIDER_FAILED"
	ErrCodeProviderTimeout ErrorCode = "PROVIDER_TIMEOUT"

	// Infrastructure errors around the core.
	ErrCodeSnapshotLoadFailed ErrorCode = "SNAPSHOT_LOAD_FAILED"
	ErrCodeCacheStoreFailed   ErrorCode = "CACHE_STORE_FAILED"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
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
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is allows errors.Is matching against another StandardError by code.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is checks.
var (
	ErrValidationFailed = &StandardError{Code: ErrCodeValidationFailed}
	ErrHubUnavailable   = &StandardError{Code: ErrCodeHubUnavailable}
	ErrLegUnresolvable  = &StandardError{Code: ErrCodeLegUnresolvable}
)

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationError creates a fatal, non-retryable shipment validation error.
func NewValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Shipment failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewHubUnavailableError creates a fatal error carrying the unmet constraint.
// Raised only when even the last-resort fallback pair has no usable hub.
func NewHubUnavailableError(constraint string) *StandardError {
	return &StandardError{
		Code:      ErrCodeHubUnavailable,
		Message:   "No hub satisfies tier constraints",
		Details:   constraint,
		Retryable: false,
		Metadata:  map[string]interface{}{"unmetConstraint": constraint},
		Timestamp: time.Now().UTC(),
	}
}

// NewLegUnresolvableError creates an option-level error: no transit mode
// could be resolved for the leg.
func NewLegUnresolvableError(from, to, reason string) *StandardError {
	return &StandardError{
		Code:      ErrCodeLegUnresolvable,
		Message:   "No transit mode resolvable for leg",
		Details:   fmt.Sprintf("from: %s, to: %s, reason: %s", from, to, reason),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderError creates a locally recovered pricing provider error.
func NewProviderError(provider string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderFailed,
		Message:   fmt.Sprintf("Pricing provider '%s' error", provider),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderTimeoutError creates a locally recovered provider timeout error.
func NewProviderTimeoutError(provider string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderTimeout,
		Message:   fmt.Sprintf("Pricing provider '%s' timeout", provider),
		Details:   "quote call exceeded its bounded timeout",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSnapshotLoadFailedError creates a retryable hub snapshot error.
func NewSnapshotLoadFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSnapshotLoadFailed,
		Message:   "Hub snapshot load failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheStoreFailedError creates a retryable cache backend error.
func NewCacheStoreFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheStoreFailed,
		Message:   "Pricing cache store error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the workflow engine.
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

// ToErrorVariables returns a map suitable for setting job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeSnapshotLoadFailed, ErrCodeCacheStoreFailed:
		return 3 // Retryable infrastructure errors

	case ErrCodeProviderFailed, ErrCodeProviderTimeout:
		// Provider errors are consumed by the fallback chain; a job-level
		// retry would only repeat the degradation.
		return 0

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      string(stdErr.Code),
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
// 4. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// IsFatal reports whether the code aborts the whole calculation.
func IsFatal(code ErrorCode) bool {
	return code == ErrCodeValidationFailed || code == ErrCodeHubUnavailable
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "HUB") || strings.Contains(codeStr, "SNAPSHOT"):
		return "HUB"
	case strings.Contains(codeStr, "LEG"):
		return "ROUTING"
	case strings.Contains(codeStr, "PROVIDER") || strings.Contains(codeStr, "CACHE"):
		return "PRICING"
	default:
		return "OTHER"
	}
}
