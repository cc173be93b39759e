package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Fleet-level errors abort the whole run before any job executes
	ErrEmptyResult       ErrorCode = "EMPTY_RESULT"
	ErrConfigConflict    ErrorCode = "CONFIG_CONFLICT"
	ErrMissingConfigFile ErrorCode = "MISSING_CONFIG_FILE"
	ErrConfigParse       ErrorCode = "CONFIG_PARSE"
	ErrConfigInvalid     ErrorCode = "CONFIG_INVALID"

	// Job-level errors abort a single site update
	ErrInvalidFramework ErrorCode = "INVALID_FRAMEWORK"
	ErrPendingChanges   ErrorCode = "PENDING_CHANGES"
	ErrBackupFailed     ErrorCode = "BACKUP_FAILED"
	ErrSiteUnhealthy    ErrorCode = "SITE_UNHEALTHY"
	ErrCommitFailed     ErrorCode = "COMMIT_FAILED"
	ErrDeployFailed     ErrorCode = "DEPLOY_FAILED"
	ErrModeSwitchFailed ErrorCode = "MODE_SWITCH_FAILED"

	// Collaborator errors
	ErrGatewayCommand  ErrorCode = "GATEWAY_COMMAND"
	ErrNothingToDeploy ErrorCode = "NOTHING_TO_DEPLOY"
	ErrNotifyFailed    ErrorCode = "NOTIFY_FAILED"
)

// MwuError represents a structured error with code and details
type MwuError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *MwuError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *MwuError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *MwuError) Is(target error) bool {
	var targetErr *MwuError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new MwuError with the given code and message
func New(code ErrorCode, message string) *MwuError {
	return &MwuError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new MwuError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *MwuError {
	return &MwuError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a MwuError
func Wrap(err error, code ErrorCode, message string) *MwuError {
	if err == nil {
		return nil
	}
	return &MwuError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *MwuError {
	if err == nil {
		return nil
	}
	return &MwuError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *MwuError) WithDetail(key string, value interface{}) *MwuError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var mwuErr *MwuError
	if errors.As(err, &mwuErr) {
		return mwuErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a MwuError
func GetErrorCode(err error) ErrorCode {
	var mwuErr *MwuError
	if errors.As(err, &mwuErr) {
		return mwuErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a MwuError
func GetErrorDetails(err error) map[string]interface{} {
	var mwuErr *MwuError
	if errors.As(err, &mwuErr) {
		return mwuErr.Details
	}
	return nil
}

// IsFleetLevel reports whether the code aborts the whole run rather than a single job.
func IsFleetLevel(code ErrorCode) bool {
	switch code {
	case ErrEmptyResult, ErrConfigConflict, ErrMissingConfigFile, ErrConfigParse:
		return true
	}
	return false
}

// GetErrorMessage returns the message of a MwuError without its code prefix,
// or err.Error() for other errors
func GetErrorMessage(err error) string {
	var mwuErr *MwuError
	if errors.As(err, &mwuErr) {
		return mwuErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
