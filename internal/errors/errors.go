package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode identifies a class of assistant failure.
type ErrorCode string

const (
	ErrNoTimePhrase      ErrorCode = "NO_TIME_PHRASE"      // 422
	ErrInvalidTimeFormat ErrorCode = "INVALID_TIME_FORMAT" // 400
	ErrPastTime          ErrorCode = "PAST_TIME"           // 422
	ErrEmptyLabel        ErrorCode = "EMPTY_LABEL"         // 422
	ErrInvalidRequest    ErrorCode = "INVALID_REQUEST"     // 400
	ErrNotFound          ErrorCode = "NOT_FOUND"           // 404
	ErrUnavailable       ErrorCode = "UNAVAILABLE"         // 503
	ErrInternal          ErrorCode = "INTERNAL"            // 500
)

// AssistantError is a structured, recoverable error reported back to callers.
type AssistantError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *AssistantError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewNoTimePhrase is returned when a command carries no recognizable time expression.
func NewNoTimePhrase() *AssistantError {
	return &AssistantError{
		Code:    ErrNoTimePhrase,
		Status:  422,
		Message: "Also tell me when, like 'at 7 PM' or 'in 15 minutes'.",
	}
}

// NewInvalidTimeFormat is returned when a time phrase cannot be resolved to a moment.
func NewInvalidTimeFormat(phrase string) *AssistantError {
	return &AssistantError{
		Code:    ErrInvalidTimeFormat,
		Status:  400,
		Message: "Invalid time format. Try '3 PM', '15:30', or 'in 10 minutes'.",
		Details: map[string]any{"time": phrase},
	}
}

// NewPastTime is returned when the resolved moment is not in the future.
func NewPastTime(phrase string) *AssistantError {
	return &AssistantError{
		Code:    ErrPastTime,
		Status:  422,
		Message: "That time has already passed. Please specify a future time.",
		Details: map[string]any{"time": phrase},
	}
}

// NewEmptyLabel is returned when nothing is left to remind about.
func NewEmptyLabel() *AssistantError {
	return &AssistantError{
		Code:    ErrEmptyLabel,
		Status:  422,
		Message: "Tell me what to remind you about.",
	}
}

// NewInvalidRequest creates a 400 error for malformed input.
func NewInvalidRequest(msg string) *AssistantError {
	return &AssistantError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error.
func NewNotFound(what string) *AssistantError {
	return &AssistantError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", what),
		Details: map[string]any{"identifier": what},
	}
}

// NewUnavailable creates a 503 error for collaborators that are not configured or reachable.
func NewUnavailable(msg string) *AssistantError {
	return &AssistantError{
		Code:    ErrUnavailable,
		Status:  503,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected failures.
func NewInternal(err error) *AssistantError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &AssistantError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// As finds the first AssistantError in err's chain.
func As(err error) (*AssistantError, bool) {
	var aErr *AssistantError
	if stderrors.As(err, &aErr) {
		return aErr, true
	}
	return nil, false
}

// Is checks if an error is an AssistantError with the given code.
func Is(err error, code ErrorCode) bool {
	if aErr, ok := As(err); ok {
		return aErr.Code == code
	}
	return false
}

// StatusOf returns the HTTP status carried by err, or 500 for foreign errors.
func StatusOf(err error) int {
	if aErr, ok := As(err); ok && aErr.Status != 0 {
		return aErr.Status
	}
	return 500
}

// MessageOf returns the human-readable message for err.
func MessageOf(err error) string {
	if aErr, ok := As(err); ok {
		return aErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
