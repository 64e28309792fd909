package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is an application-specific error type
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// wraps an error with a code and message
func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// IsCode reports whether err is (or wraps) an AppError with the given code
func IsCode(err error, code string) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Error code constants
const (
	CodeInternal   = "INTERNAL_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeInvalidArg = "INVALID_ARGUMENT"
	CodeExternal   = "EXTERNAL_ERROR"
	CodeConflict   = "CONFLICT"         // Resource already exists (UNIQUE violation)
	CodeDependency = "DEPENDENCY_ERROR" // Foreign key constraint violation
)

// Provider error codes, surfaced as structured values at the batch
// engine boundary rather than as thrown faults.
const (
	CodeMissingAPIConfig        = "missing_api_config"
	CodeInvalidArguments        = "invalid_arguments"
	CodeRateLimited             = "rate_limited"
	CodeHTTPError               = "http_error"
	CodeInvalidJSONResponse     = "invalid_json_response"
	CodeNoFunctionArguments     = "no_function_arguments"
	CodeInvalidFunctionResponse = "invalid_function_response"
	CodeRequestIDMismatch       = "request_id_mismatch"
	CodeEmptyResults            = "empty_results"
	CodeMalformedResultItem     = "malformed_result_item"
	CodeException               = "exception"
)
