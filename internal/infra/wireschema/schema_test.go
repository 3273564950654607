package wireschema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateCatalog(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"agents":["A1"],"tools":["T1"]}`},
		{name: "empty lists", body: `{"agents":[],"tools":[]}`},
		{name: "extra fields", body: `{"agents":[],"tools":[],"version":2}`},
		{name: "missing tools", body: `{"agents":["A1"]}`, wantErr: true},
		{name: "wrong item type", body: `{"agents":[1],"tools":[]}`, wantErr: true},
		{name: "not an object", body: `["A1"]`, wantErr: true},
		{name: "not json", body: `<html>`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCatalog([]byte(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidateCreateAgency(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"items":[{"name":"A1","kind":"agent"},{"name":"T1","kind":"tool"}]}`},
		{name: "empty", body: `{"items":[]}`},
		{name: "forged kind is shape-valid", body: `{"items":[{"name":"x","kind":"widget"}]}`},
		{name: "missing items", body: `{}`, wantErr: true},
		{name: "missing kind", body: `{"items":[{"name":"A1"}]}`, wantErr: true},
		{name: "numeric name", body: `{"items":[{"name":3,"kind":"agent"}]}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCreateAgency([]byte(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
