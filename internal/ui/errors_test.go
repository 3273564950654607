package ui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"agencyui/internal/domain"
)

func TestErrorStringFormatsDetails(t *testing.T) {
	uiErr := &Error{Code: "CODE", Message: "message", Details: "details"}
	if got := uiErr.Error(); got != "CODE: message (details)" {
		t.Fatalf("unexpected error string: %s", got)
	}

	uiErr = &Error{Code: "CODE", Message: "message"}
	if got := uiErr.Error(); got != "CODE: message" {
		t.Fatalf("unexpected error string without details: %s", got)
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{name: "session", err: domain.ErrSessionNotFound, code: ErrCodeSessionNotFound, status: http.StatusNotFound},
		{name: "kind", err: fmt.Errorf("drop: %w", domain.ErrUnknownKind), code: ErrCodeUnknownKind, status: http.StatusBadRequest},
		{name: "invalid", err: domain.ErrInvalidRequest, code: ErrCodeInvalidRequest, status: http.StatusBadRequest},
		{name: "in flight", err: domain.E(domain.CodeSubmitInFlight, "op", "", domain.ErrSubmitInFlight), code: ErrCodeSubmitInFlight, status: http.StatusConflict},
		{name: "not ready", err: domain.ErrNotReady, code: ErrCodeNotReady, status: http.StatusConflict},
		{name: "submit", err: domain.E(domain.CodeSubmitFailed, "op", "", errors.New("dial tcp")), code: ErrCodeSubmitFailed, status: http.StatusBadGateway},
		{name: "canceled", err: context.Canceled, code: ErrCodeCanceled, status: 499},
		{name: "default", err: errors.New("boom"), code: ErrCodeInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uiErr := MapDomainError(tt.err)
			require.NotNil(t, uiErr)
			require.Equal(t, tt.code, uiErr.Code)
			require.Equal(t, tt.status, uiErr.Status())
		})
	}
	require.Nil(t, MapDomainError(nil))
}

func TestSubmitFailureHidesCause(t *testing.T) {
	uiErr := MapDomainError(domain.E(domain.CodeSubmitFailed, "op", "", errors.New("dial tcp 127.0.0.1:5000")))
	require.Equal(t, domain.MessageSubmitFailed, uiErr.Message)
	require.Empty(t, uiErr.Details)
}
