// Package httpx holds the JSON helpers and middleware shared by the API and
// composer UI servers.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"agencyui/internal/domain"
)

// MaxBodyBytes bounds request bodies decoded by DecodeJSON.
const MaxBodyBytes = 1 << 20

// ErrorBody is the JSON error envelope: {"error": {"code", "message"}}.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, ErrorBody{Error: ErrorDetail{Code: code, Message: message}})
}

// WriteDomainError maps err to a status through its domain code.
func WriteDomainError(w http.ResponseWriter, err error) {
	code, ok := domain.CodeFrom(err)
	if !ok {
		code = domain.CodeInternal
	}
	message := err.Error()
	var de *domain.Error
	if errors.As(err, &de) && de.Message != "" {
		message = de.Message
	}
	WriteError(w, StatusFor(code), string(code), message)
}

// StatusFor maps a domain error code to an HTTP status.
func StatusFor(code domain.ErrorCode) int {
	switch code {
	case domain.CodeInvalidArgument, domain.CodeUnknownKind:
		return http.StatusBadRequest
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeSubmitInFlight, domain.CodeInvalidState, domain.CodeFailedPrecond:
		return http.StatusConflict
	case domain.CodeUnavailable, domain.CodeFetchFailed, domain.CodeSubmitFailed:
		return http.StatusBadGateway
	case domain.CodeCanceled:
		return 499
	default:
		return http.StatusInternalServerError
	}
}

// ReadBody reads a bounded request body.
func ReadBody(r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(data) > MaxBodyBytes {
		return nil, fmt.Errorf("body exceeds %d bytes: %w", MaxBodyBytes, domain.ErrInvalidRequest)
	}
	return data, nil
}

// DecodeJSON decodes a bounded request body into dst.
func DecodeJSON(r *http.Request, dst any) error {
	data, err := ReadBody(r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode body: %v: %w", err, domain.ErrInvalidRequest)
	}
	return nil
}
