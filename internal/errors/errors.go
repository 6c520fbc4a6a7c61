package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes of the fact-check error taxonomy
const (
	CodeUpstreamFormat = "UPSTREAM_FORMAT" // Unrecognizable provider payload, recovered locally
	CodeNetwork        = "NETWORK"         // Provider call failed or timed out, retryable
	CodeConfiguration  = "CONFIGURATION"   // Missing credentials or invalid settings, analysis disabled
	CodeExport         = "EXPORT"          // Artifact generation failed
	CodeNotFound       = "NOT_FOUND"
	CodeInvalidInput   = "INVALID_INPUT"
	CodeInternal       = "INTERNAL"
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

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error
func Wrap(code string, err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// UpstreamFormat reports a provider payload that carried no recognizable analysis
func UpstreamFormat(message string) *AppError {
	return New(CodeUpstreamFormat, message)
}

// Network wraps a failed provider call
func Network(err error, message string) error {
	return Wrap(CodeNetwork, err, message)
}

// Configuration reports missing credentials or invalid settings
func Configuration(format string, args ...any) *AppError {
	return New(CodeConfiguration, fmt.Sprintf(format, args...))
}

// Export wraps a failed artifact generation
func Export(err error, message string) error {
	if err == nil {
		return New(CodeExport, message)
	}
	return Wrap(CodeExport, err, message)
}

// NotFound reports an unknown identifier
func NotFound(format string, args ...any) *AppError {
	return New(CodeNotFound, fmt.Sprintf(format, args...))
}

// InvalidInput reports a rejected request
func InvalidInput(format string, args ...any) *AppError {
	return New(CodeInvalidInput, fmt.Sprintf(format, args...))
}

// Code returns the code of the outermost AppError in the chain, or CodeInternal
func Code(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// Message returns the message of the outermost AppError, or err.Error()
func Message(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

func hasCode(err error, code string) bool {
	for err != nil {
		var appErr *AppError
		if !stderrors.As(err, &appErr) {
			return false
		}
		if appErr.Code == code {
			return true
		}
		err = appErr.Cause
	}
	return false
}

// IsNetwork reports whether err carries the NETWORK code
func IsNetwork(err error) bool { return hasCode(err, CodeNetwork) }

// IsConfiguration reports whether err carries the CONFIGURATION code
func IsConfiguration(err error) bool { return hasCode(err, CodeConfiguration) }

// IsExport reports whether err carries the EXPORT code
func IsExport(err error) bool { return hasCode(err, CodeExport) }

// IsNotFound reports whether err carries the NOT_FOUND code
func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }

// IsInvalidInput reports whether err carries the INVALID_INPUT code
func IsInvalidInput(err error) bool { return hasCode(err, CodeInvalidInput) }

// Retryable reports whether the failed operation may succeed when repeated
func Retryable(err error) bool {
	return IsNetwork(err)
}
