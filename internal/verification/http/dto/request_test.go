package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		request VerifyRequest
		wantErr bool
	}{
		{
			name: "valid",
			request: VerifyRequest{
				Payload:    json.RawMessage(`{"STATE":"DELHI"}`),
				TxnType:    "PENSION",
				TxnSubType: "FETCH_DTLS",
			},
			wantErr: false,
		},
		{
			name: "missing payload",
			request: VerifyRequest{
				TxnType:    "PENSION",
				TxnSubType: "FETCH_DTLS",
			},
			wantErr: true,
		},
		{
			name: "payload not an object",
			request: VerifyRequest{
				Payload:    json.RawMessage(`"just a string"`),
				TxnType:    "PENSION",
				TxnSubType: "FETCH_DTLS",
			},
			wantErr: true,
		},
		{
			name: "missing txn type",
			request: VerifyRequest{
				Payload:    json.RawMessage(`{"STATE":"DELHI"}`),
				TxnSubType: "FETCH_DTLS",
			},
			wantErr: true,
		},
		{
			name: "lowercase txn type",
			request: VerifyRequest{
				Payload:    json.RawMessage(`{"STATE":"DELHI"}`),
				TxnType:    "pension",
				TxnSubType: "FETCH_DTLS",
			},
			wantErr: true,
		},
		{
			name: "txn type too long",
			request: VerifyRequest{
				Payload:    json.RawMessage(`{"STATE":"DELHI"}`),
				TxnType:    "PENSION_VERIFICATION_EXTENDED",
				TxnSubType: "FETCH_DTLS",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
