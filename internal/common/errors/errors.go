// Package errors provides standardized error handling for the
// recommendation pipeline and its HTTP surface.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Configuration errors — fatal at startup.
	ErrCodeMissingAPIKey ErrorCode = "PROVIDER_API_KEY_MISSING"
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// Provider errors.
	ErrCodeProviderNotReady      ErrorCode = "PROVIDER_NOT_READY"
	ErrCodeProviderRequestFailed ErrorCode = "PROVIDER_REQUEST_FAILED"
	ErrCodeMovieNotFound         ErrorCode = "MOVIE_NOT_FOUND"

	// Retrieval errors.
	ErrCodeRetrievalFailed ErrorCode = "CANDIDATE_RETRIEVAL_FAILED"
	ErrCodeCacheFailed     ErrorCode = "CACHE_OPERATION_FAILED"

	// Request/precondition errors.
	ErrCodeMissingPreferences ErrorCode = "MISSING_PREFERENCES"
	ErrCodeInvalidVibe        ErrorCode = "INVALID_VIBE"
	ErrCodeInvalidTheme       ErrorCode = "INVALID_THEME"
	ErrCodeInvalidRequest     ErrorCode = "INVALID_REQUEST"
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
// 2. Error Constructors
// ==========================

// NewMissingAPIKeyError creates the fatal configuration error raised when
// the provider credential is absent. Never retryable.
func NewMissingAPIKeyError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingAPIKey,
		Message:   "Metadata provider API key is missing or empty",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderNotReadyError signals discovery was invoked before the client
// finished its initialization step.
func NewProviderNotReadyError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderNotReady,
		Message:   "Provider client not initialized",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderRequestError wraps a failed provider call.
func NewProviderRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderRequestFailed,
		Message:   "Metadata provider request failed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMovieNotFoundError is returned for detail lookups on unknown movie IDs.
func NewMovieNotFoundError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMovieNotFound,
		Message:   "Movie not found",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRetrievalFailedError signals total retrieval failure: every page batch
// failed, so there is no partial result to fall back to.
func NewRetrievalFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRetrievalFailed,
		Message:   "Candidate retrieval failed completely",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMissingPreferencesError is the precondition violation raised when a
// recommendation is requested without a vibe or viewer profile.
func NewMissingPreferencesError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingPreferences,
		Message:   "Recommendation requested without required preferences",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidVibeError rejects unknown vibe identifiers.
func NewInvalidVibeError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidVibe,
		Message:   "Unknown vibe",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidThemeError rejects unknown theme identifiers.
func NewInvalidThemeError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidTheme,
		Message:   "Unknown theme",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRequestError rejects malformed request payloads.
func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Invalid request payload",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheFailedError wraps a cache read/write failure. The cache is
// best-effort; callers normally log and continue.
func NewCacheFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheFailed,
		Message:   "Cache operation failed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Classification Helpers
// ==========================

// AsStandardError extracts a *StandardError from an error chain, wrapping
// unknown errors under a generic code.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// IsCode reports whether err carries the given error code.
func IsCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code == code
	}
	return false
}

// GetErrorCategory groups codes for logging and metrics labels.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeMissingAPIKey, ErrCodeInvalidConfig:
		return "configuration"
	case ErrCodeProviderNotReady, ErrCodeProviderRequestFailed, ErrCodeMovieNotFound:
		return "provider"
	case ErrCodeRetrievalFailed, ErrCodeCacheFailed:
		return "retrieval"
	case ErrCodeMissingPreferences, ErrCodeInvalidVibe, ErrCodeInvalidTheme, ErrCodeInvalidRequest:
		return "request"
	default:
		return "internal"
	}
}
