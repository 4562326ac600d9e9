package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeConflict   ErrorType = "CONFLICT"
	ErrorTypeInternal   ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeInvalidAmount      ErrorCode = "INVALID_AMOUNT"
	ErrCodeTypeMismatch       ErrorCode = "TYPE_MISMATCH"
	ErrCodeSelfReference      ErrorCode = "SELF_REFERENCE"
	ErrCodeCycleDetected      ErrorCode = "CYCLE_DETECTED"
	ErrCodeDuplicateName      ErrorCode = "DUPLICATE_NAME"
	ErrCodeInvalidRange       ErrorCode = "INVALID_RANGE"
	ErrCodeInvalidType        ErrorCode = "INVALID_TYPE"
	ErrCodeInvalidGranule     ErrorCode = "INVALID_GRANULARITY"
	ErrCodeInvalidDate        ErrorCode = "INVALID_DATE"
	ErrCodeInvalidName        ErrorCode = "INVALID_NAME"
	ErrCodeInvalidDescription ErrorCode = "INVALID_DESCRIPTION"

	ErrCodeCategoryNotFound    ErrorCode = "CATEGORY_NOT_FOUND"
	ErrCodeTransactionNotFound ErrorCode = "TRANSACTION_NOT_FOUND"
	ErrCodeUserNotFound        ErrorCode = "USER_NOT_FOUND"

	ErrCodeStorageFailure ErrorCode = "STORAGE_FAILURE"
)

// AppError is the single error shape crossing package boundaries. Domain
// failure kinds are package-level sentinels below; storage failures are
// wrapped with NewStorageError and keep their cause for the caller to
// decide on retry.
type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

// Is lets errors.Is match a wrapped or detailed copy against its sentinel
// by error code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// NewStorageError wraps an infrastructure failure. These are never mapped
// onto domain sentinels; callers may retry them.
func NewStorageError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodeStorageFailure,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrInvalidAmount = NewValidationError("amount must be greater than zero", ErrCodeInvalidAmount)
	ErrTypeMismatch  = NewValidationError("transaction type does not match category type", ErrCodeTypeMismatch)
	ErrSelfParent    = NewValidationError("category cannot be its own parent", ErrCodeSelfReference)
	ErrCycleDetected = NewValidationError("reparenting would create a cycle in the category hierarchy", ErrCodeCycleDetected)
	ErrInvalidRange  = NewValidationError("start date must not be after end date", ErrCodeInvalidRange)
	ErrInvalidType   = NewValidationError("type must be income or expense", ErrCodeInvalidType)

	ErrDuplicateCategoryName = NewConflictError("category name already exists for this user and type", ErrCodeDuplicateName)

	ErrCategoryNotFound    = NewNotFoundError("category not found", ErrCodeCategoryNotFound)
	ErrTransactionNotFound = NewNotFoundError("transaction not found", ErrCodeTransactionNotFound)
	ErrUserNotFound        = NewNotFoundError("user not found", ErrCodeUserNotFound)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
