// Package errors provides structured error types for chartmark.
// All errors include a category, code, and message for consistent
// handling across components.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors by component.
type ErrorCategory string

const (
	ErrCategoryValidation ErrorCategory = "VALIDATION"
	ErrCategoryOverlay    ErrorCategory = "OVERLAY"
	ErrCategoryStore      ErrorCategory = "STORE"
	ErrCategoryStorage    ErrorCategory = "STORAGE"
	ErrCategorySpec       ErrorCategory = "SPEC"
	ErrCategoryInternal   ErrorCategory = "INTERNAL"
)

// Error codes for each category.
const (
	// Validation codes
	CodeInvalidInterval = "INVALID_INTERVAL"
	CodeInvalidRange    = "INVALID_RANGE"
	CodeInvalidAxisKey  = "INVALID_AXIS_KEY"
	CodeKeyCollision    = "KEY_COLLISION"

	// Store codes
	CodeSetNotFound      = "SET_NOT_FOUND"
	CodeDuplicateSetName = "DUPLICATE_SET_NAME"
	CodeCorruptPayload   = "CORRUPT_PAYLOAD"

	// Storage codes
	CodeUploadFailed   = "UPLOAD_FAILED"
	CodeDownloadFailed = "DOWNLOAD_FAILED"
	CodeObjectNotFound = "OBJECT_NOT_FOUND"

	// Spec codes
	CodeMalformedSpec = "MALFORMED_SPEC"

	// Internal codes
	CodeUnexpected = "UNEXPECTED"
)

// ChartmarkError is the structured error type used throughout the system.
type ChartmarkError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Cause    error
}

// Error returns a formatted error string.
func (e *ChartmarkError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *ChartmarkError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches this error's category and code.
func (e *ChartmarkError) Is(target error) bool {
	var t *ChartmarkError
	if errors.As(target, &t) {
		return e.Category == t.Category && e.Code == t.Code
	}
	return false
}

// New creates a new ChartmarkError.
func New(category ErrorCategory, code, message string) *ChartmarkError {
	return &ChartmarkError{
		Category: category,
		Code:     code,
		Message:  message,
	}
}

// Wrap creates a new ChartmarkError wrapping an existing error.
func Wrap(category ErrorCategory, code, message string, cause error) *ChartmarkError {
	return &ChartmarkError{
		Category: category,
		Code:     code,
		Message:  message,
		Cause:    cause,
	}
}

// GetCategory extracts the error category from an error chain.
// Returns empty string if the error is not a ChartmarkError.
func GetCategory(err error) ErrorCategory {
	var ce *ChartmarkError
	if errors.As(err, &ce) {
		return ce.Category
	}
	return ""
}

// GetCode extracts the error code from an error chain.
// Returns empty string if the error is not a ChartmarkError.
func GetCode(err error) string {
	var ce *ChartmarkError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// Convenience constructors for common errors.

func NewValidationError(code, message string) *ChartmarkError {
	return New(ErrCategoryValidation, code, message)
}

func NewStoreError(code, message string, cause error) *ChartmarkError {
	return Wrap(ErrCategoryStore, code, message, cause)
}

func NewStorageError(code, message string, cause error) *ChartmarkError {
	return Wrap(ErrCategoryStorage, code, message, cause)
}

func NewSpecError(code, message string) *ChartmarkError {
	return New(ErrCategorySpec, code, message)
}

func NewInternalError(message string, cause error) *ChartmarkError {
	return Wrap(ErrCategoryInternal, CodeUnexpected, message, cause)
}
