package domain

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeUnavailable     ErrorCode = "UNAVAILABLE"
	CodeFailedPrecond   ErrorCode = "FAILED_PRECONDITION"
	CodeInternal        ErrorCode = "INTERNAL"
	CodeCanceled        ErrorCode = "CANCELED"
	CodeFetchFailed     ErrorCode = "FETCH_FAILED"
	CodeSubmitFailed    ErrorCode = "SUBMIT_FAILED"
	CodeSubmitInFlight  ErrorCode = "SUBMIT_IN_FLIGHT"
	CodeUnknownKind     ErrorCode = "UNKNOWN_KIND"
	CodeInvalidState    ErrorCode = "INVALID_STATE"
)

var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrAgencyNotFound  = errors.New("agency not found")
	ErrSubmitInFlight  = errors.New("agency submission already in flight")
	ErrUnknownKind     = errors.New("unknown item kind")
	ErrNotReady        = errors.New("composer is not ready")
	ErrSessionNotFound = errors.New("session not found")
)

type Error struct {
	Code      ErrorCode
	Op        string
	Message   string
	Cause     error
	Retryable bool
	Meta      map[string]string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if e.Op == "" {
		if msg == "" {
			return string(e.Code)
		}
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	if msg == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, msg)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func E(code ErrorCode, op, msg string, cause error) *Error {
	if msg == "" && cause != nil {
		msg = cause.Error()
	}
	return &Error{
		Code:    code,
		Op:      op,
		Message: msg,
		Cause:   cause,
	}
}

func Wrap(code ErrorCode, op string, err error) *Error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		if existing.Op != "" || op == "" {
			return existing
		}
		return &Error{
			Code:      existing.Code,
			Op:        op,
			Message:   existing.Message,
			Cause:     existing.Cause,
			Retryable: existing.Retryable,
			Meta:      existing.Meta,
		}
	}
	return E(code, op, "", err)
}

func CodeFrom(err error) (ErrorCode, bool) {
	if err == nil {
		return "", false
	}
	var domainErr *Error
	if errors.As(err, &domainErr) && domainErr.Code != "" {
		return domainErr.Code, true
	}
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidArgument, true
	case errors.Is(err, ErrAgencyNotFound), errors.Is(err, ErrSessionNotFound):
		return CodeNotFound, true
	case errors.Is(err, ErrSubmitInFlight):
		return CodeSubmitInFlight, true
	case errors.Is(err, ErrUnknownKind):
		return CodeUnknownKind, true
	case errors.Is(err, ErrNotReady):
		return CodeInvalidState, true
	default:
		return "", false
	}
}
