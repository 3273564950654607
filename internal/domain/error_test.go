package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorString(t *testing.T) {
	cause := errors.New("connection refused")
	err := E(CodeFetchFailed, "backend.FetchCatalog", "", cause)
	require.Equal(t, "backend.FetchCatalog: FETCH_FAILED: connection refused", err.Error())
	require.ErrorIs(t, err, cause)

	bare := &Error{Code: CodeInternal}
	require.Equal(t, "INTERNAL", bare.Error())
}

func TestWrapKeepsExistingCode(t *testing.T) {
	inner := E(CodeSubmitFailed, "", "status 500", nil)
	wrapped := Wrap(CodeInternal, "session.Submit", inner)
	require.Equal(t, CodeSubmitFailed, wrapped.Code)
	require.Equal(t, "session.Submit", wrapped.Op)

	require.Nil(t, Wrap(CodeInternal, "op", nil))
}

func TestCodeFrom(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
		ok   bool
	}{
		{name: "domain", err: E(CodeFetchFailed, "op", "x", nil), code: CodeFetchFailed, ok: true},
		{name: "in flight", err: fmt.Errorf("submit: %w", ErrSubmitInFlight), code: CodeSubmitInFlight, ok: true},
		{name: "unknown kind", err: ErrUnknownKind, code: CodeUnknownKind, ok: true},
		{name: "not found", err: ErrAgencyNotFound, code: CodeNotFound, ok: true},
		{name: "not ready", err: ErrNotReady, code: CodeInvalidState, ok: true},
		{name: "other", err: errors.New("boom"), ok: false},
		{name: "nil", err: nil, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := CodeFrom(tt.err)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.code, code)
		})
	}
}
