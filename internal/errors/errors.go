package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
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

// Error codes
const (
	CodeInvalidParameter = "INVALID_PARAMETER"
	CodeComputationError = "COMPUTATION_ERROR"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeInternalError    = "INTERNAL_ERROR"
)

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, keeping the code of an
// AppError anywhere in the chain.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    GetCode(err),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the code of the first AppError in the chain.
// Errors that carry no code report INTERNAL_ERROR.
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternalError
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	return err != nil && GetCode(err) == code
}

// InvalidParameter reports an out-of-domain or inconsistent numeric input.
func InvalidParameter(format string, args ...interface{}) *AppError {
	return New(CodeInvalidParameter, fmt.Sprintf(format, args...))
}

// ComputationError reports a numerical routine that failed to produce a result.
func ComputationError(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeComputationError,
		Message: message,
		Cause:   cause,
	}
}

// InvalidInput reports a request that could not be decoded.
func InvalidInput(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeInvalidInput,
		Message: message,
		Cause:   cause,
	}
}

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

// InternalError reports a failure that is not the caller's fault.
func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}
