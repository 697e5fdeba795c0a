package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"syscall"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Category is the phase that raised the error.
	Category Category `json:"category"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// ExitCode returns the process exit code this error maps to.
func (e *AppError) ExitCode() int { return ExitCodeOf(e.Category) }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError, deriving its category from the code.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Category: CategoryOf(code),
	}
}

// --- Option errors ---

// InvalidOption creates a new AppError for an unexpected command-line argument.
func InvalidOption(opt string) *AppError {
	return New(ErrCodeInvalidOption, fmt.Sprintf("the following option is unexpected: '%s'", opt)).
		WithDetail("option", opt)
}

// DuplicateOption creates a new AppError for an option given twice.
func DuplicateOption(opt string) *AppError {
	return New(ErrCodeDuplicateOption, fmt.Sprintf("the following option is duplicated: '%s'", opt)).
		WithDetail("option", opt)
}

// MissingOption creates a new AppError for absent mandatory options.
func MissingOption(opts ...string) *AppError {
	return New(ErrCodeMissingOption, fmt.Sprintf("the following mandatory option(s) are missing: [%s]", strings.Join(opts, ","))).
		WithDetail("options", opts)
}

// MissingOptionValue creates a new AppError for option flags given without a value.
func MissingOptionValue(opts ...string) *AppError {
	return New(ErrCodeMissingOptionValue, fmt.Sprintf("the following option(s) are missing value(s): [%s]", strings.Join(opts, ","))).
		WithDetail("options", opts)
}

// InvalidSettings creates a new AppError for settings that failed validation.
func InvalidSettings(message string) *AppError {
	return New(ErrCodeInvalidSettings, message)
}

// --- Cypher spec errors ---

// UnknownCypher creates a new AppError for an unsupported cypher spec.
func UnknownCypher(spec string) *AppError {
	return New(ErrCodeUnknownCypher, fmt.Sprintf("the following cypher is not yet supported: '%s'", spec)).
		WithDetail("spec", spec)
}

// IncorrectShiftSpec creates a new AppError for a malformed shift token.
func IncorrectShiftSpec(cypher, shift string) *AppError {
	return New(ErrCodeIncorrectShiftSpec, fmt.Sprintf("incorrect shift value has been provided for '%s': %q", cypher, shift)).
		WithDetail("cypher", cypher).
		WithDetail("shift", shift)
}

// --- File errors ---

// InputFileError creates a new AppError for a failure of the input endpoint.
func InputFileError(path string, cause error) *AppError {
	return New(ErrCodeInputFile, fileMessage("cannot read input file", path, cause)).
		WithDetail("path", path).
		WithCause(cause)
}

// OutputFileError creates a new AppError for a failure of the output endpoint.
func OutputFileError(path string, cause error) *AppError {
	return New(ErrCodeOutputFile, fileMessage("cannot write output file", path, cause)).
		WithDetail("path", path).
		WithCause(cause)
}

func fileMessage(prefix, path string, cause error) string {
	if stderrors.Is(cause, syscall.EISDIR) {
		return fmt.Sprintf("illegal write to directory '%s'", path)
	}
	return fmt.Sprintf("%s '%s'", prefix, path)
}

// Internal creates a new AppError for an unexpected failure.
func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "the pipeline failed unexpectedly").WithCause(cause)
}

// Wrap converts any error into an AppError. AppErrors anywhere in the chain
// are returned as-is; other errors become internal errors. Wrap(nil) is nil.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}

// --- Inspection helpers ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// ExitCode returns the process exit code for err: 0 for nil, the mapped
// code for an AppError, and the internal code for anything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr.ExitCode()
	}
	return ExitCodeOf(CategoryInternal)
}
