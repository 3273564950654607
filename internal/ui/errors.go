package ui

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"agencyui/internal/domain"
)

// Error represents a frontend-friendly error with a code
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes for frontend handling
const (
	ErrCodeSessionNotFound = "SESSION_NOT_FOUND"
	ErrCodeInvalidRequest  = "INVALID_REQUEST"
	ErrCodeUnknownKind     = "UNKNOWN_KIND"
	ErrCodeNotReady        = "NOT_READY"
	ErrCodeSubmitInFlight  = "SUBMIT_IN_FLIGHT"
	ErrCodeSubmitFailed    = "SUBMIT_FAILED"
	ErrCodeCanceled        = "OPERATION_CANCELLED"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// MapDomainError converts domain errors to Error. Backend failures carry
// only the fixed user-facing message; the cause stays in the server log.
func MapDomainError(err error) *Error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return NewError(ErrCodeSessionNotFound, "Session expired, reload the page")
	case errors.Is(err, domain.ErrUnknownKind):
		return NewErrorWithDetails(ErrCodeUnknownKind, "Unsupported item kind", err.Error())
	case errors.Is(err, domain.ErrInvalidRequest):
		return NewErrorWithDetails(ErrCodeInvalidRequest, "Invalid request", err.Error())
	case errors.Is(err, domain.ErrSubmitInFlight):
		return NewError(ErrCodeSubmitInFlight, "Agency creation already in progress")
	case errors.Is(err, domain.ErrNotReady):
		return NewError(ErrCodeNotReady, "Components are not loaded")
	case errors.Is(err, context.Canceled):
		return NewError(ErrCodeCanceled, "Operation cancelled")
	}

	if code, ok := domain.CodeFrom(err); ok && code == domain.CodeSubmitFailed {
		return NewError(ErrCodeSubmitFailed, domain.MessageSubmitFailed)
	}
	return NewErrorWithDetails(ErrCodeInternal, "Internal error", err.Error())
}

// Status maps an error code to an HTTP status.
func (e *Error) Status() int {
	switch e.Code {
	case ErrCodeSessionNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidRequest, ErrCodeUnknownKind:
		return http.StatusBadRequest
	case ErrCodeNotReady, ErrCodeSubmitInFlight:
		return http.StatusConflict
	case ErrCodeSubmitFailed:
		return http.StatusBadGateway
	case ErrCodeCanceled:
		return 499
	default:
		return http.StatusInternalServerError
	}
}

// NewError creates a new Error with code and message
func NewError(code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// NewErrorWithDetails creates a new Error with code, message, and details
func NewErrorWithDetails(code, message, details string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: details,
	}
}
